package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest body para POST /api/v1/sales.
type RecordSaleRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TransactionDate *time.Time      `json:"transaction_date"`
	Location        string          `json:"location" validate:"max=100"`
	Channel         string          `json:"channel" validate:"omitempty,oneof=Store Online Mobile"`
	CustomerID      string          `json:"customer_id" validate:"max=100"`
	PaymentMethod   string          `json:"payment_method" validate:"max=50"`
	ExternalRef     string          `json:"external_ref" validate:"max=100"`
	Type            string          `json:"transaction_type" validate:"omitempty,oneof=Sale Return"`
	Notes           string          `json:"notes" validate:"max=500"`
}

// SalesFilter query de GET /api/v1/sales.
type SalesFilter struct {
	PageRequest
	ProductID string `query:"product_id"`
	Location  string `query:"location"`
	From      string `query:"from"` // RFC3339 o YYYY-MM-DD
	To        string `query:"to"`
}

// SalesTransactionResponse salida de una venta.
type SalesTransactionResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Location        string          `json:"location"`
	Channel         string          `json:"channel"`
	CustomerID      string          `json:"customer_id,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	ExternalRef     string          `json:"external_ref,omitempty"`
	Type            string          `json:"transaction_type"`
	Notes           string          `json:"notes,omitempty"`
}

// RecordSaleResponse venta registrada y movimiento resultante.
type RecordSaleResponse struct {
	Transaction SalesTransactionResponse `json:"transaction"`
	Movement    MovementResponse         `json:"movement"`
}

// SalesListResponse página de ventas.
type SalesListResponse struct {
	Items []SalesTransactionResponse `json:"items"`
	Page  PageResponse               `json:"page"`
}
