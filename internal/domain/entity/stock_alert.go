package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertType tipo de alerta de stock.
type AlertType string

const (
	AlertTypeLowStock              AlertType = "LowStock"
	AlertTypeStockOut              AlertType = "StockOut"
	AlertTypePredictedStockOut     AlertType = "PredictedStockOut"
	AlertTypeOverstock             AlertType = "Overstock"
	AlertTypeAnomalySale           AlertType = "AnomalySale"
	AlertTypeReorderRecommendation AlertType = "ReorderRecommendation"
	AlertTypeExpiringStock         AlertType = "ExpiringStock"
)

// AlertSeverity severidad de la alerta.
type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "Low"
	AlertSeverityMedium   AlertSeverity = "Medium"
	AlertSeverityHigh     AlertSeverity = "High"
	AlertSeverityCritical AlertSeverity = "Critical"
)

// StockAlert incidente abierto sobre un producto. Como máximo una alerta abierta
// (IsResolved=false) por producto; la persistencia lo garantiza con un índice único parcial.
type StockAlert struct {
	ID                string
	ProductID         string
	ProductCode       string
	ProductName       string
	Type              AlertType
	Severity          AlertSeverity
	Message           string
	Location          string
	CurrentStock      decimal.Decimal
	ThresholdValue    decimal.Decimal
	RecommendedAction string
	IsRead            bool
	IsResolved        bool
	CreatedAt         time.Time
	ResolvedAt        *time.Time
}
