package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendDirection dirección de la demanda reciente.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "Increasing"
	TrendStable     TrendDirection = "Stable"
	TrendDecreasing TrendDirection = "Decreasing"
)

// DailyDemand cantidad vendida en un día.
type DailyDemand struct {
	Date     time.Time
	Quantity decimal.Decimal
}

// PredictionResult pronóstico de demanda y quiebre de stock para un producto.
type PredictionResult struct {
	ProductID                string
	ProductCode              string
	ProductName              string
	PredictionDate           time.Time
	AverageDailyDemand       decimal.Decimal
	DemandForecast           []DailyDemand
	PredictedDemand7Days     decimal.Decimal
	PredictedDemand14Days    decimal.Decimal
	PredictedDemand30Days    decimal.Decimal
	CurrentStock             decimal.Decimal
	DaysUntilStockOut        int
	EstimatedStockOutDate    *time.Time
	StockOutProbability      decimal.Decimal // 0-1
	RecommendedOrderQuantity decimal.Decimal
	Insights                 []string
	Trend                    TrendDirection
}

// ReorderRecommendation sugerencia de pedido basada en la demanda de los últimos 30 días.
type ReorderRecommendation struct {
	ProductID                string
	ProductCode              string
	ProductName              string
	CurrentStock             decimal.Decimal
	RecommendedOrderQuantity decimal.Decimal
	RecommendedOrderDate     time.Time
	Urgency                  string // High, Medium, Low
	EstimatedCost            decimal.Decimal
	Reason                   string
	DaysUntilStockOut        int
	Unit                     string
}
