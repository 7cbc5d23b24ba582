package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyDemandDTO punto de la serie diaria.
type DailyDemandDTO struct {
	Date     time.Time       `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PredictionResponse pronóstico de demanda / quiebre para un producto.
type PredictionResponse struct {
	ProductID                string           `json:"product_id"`
	ProductCode              string           `json:"product_code"`
	ProductName              string           `json:"product_name"`
	PredictionDate           time.Time        `json:"prediction_date"`
	AverageDailyDemand       decimal.Decimal  `json:"average_daily_demand"`
	DemandForecast           []DailyDemandDTO `json:"demand_forecast,omitempty"`
	PredictedDemand7Days     decimal.Decimal  `json:"predicted_demand_7_days"`
	PredictedDemand14Days    decimal.Decimal  `json:"predicted_demand_14_days"`
	PredictedDemand30Days    decimal.Decimal  `json:"predicted_demand_30_days"`
	CurrentStock             decimal.Decimal  `json:"current_stock"`
	DaysUntilStockOut        int              `json:"days_until_stock_out"`
	EstimatedStockOutDate    *time.Time       `json:"estimated_stock_out_date,omitempty"`
	StockOutProbability      decimal.Decimal  `json:"stock_out_probability"`
	RecommendedOrderQuantity decimal.Decimal  `json:"recommended_order_quantity"`
	Insights                 []string         `json:"insights"`
	Trend                    string           `json:"trend"`
}

// ReorderRecommendationResponse sugerencia de pedido.
type ReorderRecommendationResponse struct {
	ProductID                string          `json:"product_id"`
	ProductCode              string          `json:"product_code"`
	ProductName              string          `json:"product_name"`
	CurrentStock             decimal.Decimal `json:"current_stock"`
	RecommendedOrderQuantity decimal.Decimal `json:"recommended_order_quantity"`
	RecommendedOrderDate     time.Time       `json:"recommended_order_date"`
	Urgency                  string          `json:"urgency"`
	EstimatedCost            decimal.Decimal `json:"estimated_cost"`
	Reason                   string          `json:"reason"`
	DaysUntilStockOut        int             `json:"days_until_stock_out"`
	Unit                     string          `json:"unit"`
}

// RunModelRequest body para POST /api/v1/predictions/run.
// ProductIDs vacío recalcula todos los productos activos.
type RunModelRequest struct {
	ProductIDs   []string `json:"product_ids" validate:"omitempty,dive,uuid"`
	ForecastDays int      `json:"forecast_days" validate:"omitempty,min=1,max=365"`
}

// RunModelResponse resumen de la ejecución.
type RunModelResponse struct {
	Processed int       `json:"processed"`
	Updated   int       `json:"updated"`
	Skipped   int       `json:"skipped"`
	RanAt     time.Time `json:"ran_at"`
}
