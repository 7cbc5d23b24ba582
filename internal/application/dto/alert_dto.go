package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertFilter query de GET /api/v1/alerts.
type AlertFilter struct {
	PageRequest
	ProductID string `query:"product_id"`
	Resolved  string `query:"resolved"` // "true" | "false" | vacío
	Severity  string `query:"severity"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	Type              string          `json:"alert_type"`
	Severity          string          `json:"severity"`
	Message           string          `json:"message"`
	Location          string          `json:"location"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ThresholdValue    decimal.Decimal `json:"threshold_value"`
	RecommendedAction string          `json:"recommended_action"`
	IsRead            bool            `json:"is_read"`
	IsResolved        bool            `json:"is_resolved"`
	CreatedAt         time.Time       `json:"created_at"`
	ResolvedAt        *time.Time      `json:"resolved_at,omitempty"`
}

// AlertListResponse página de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
