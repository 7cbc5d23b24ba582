package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest body para POST /api/v1/inventory.
type CreateInventoryItemRequest struct {
	ProductCode          string          `json:"product_code" validate:"required,min=1,max=50"`
	ProductName          string          `json:"product_name" validate:"required,min=1,max=200"`
	Category             string          `json:"category" validate:"max=100"`
	CurrentStock         decimal.Decimal `json:"current_stock"`
	MinimumStock         decimal.Decimal `json:"minimum_stock"`
	MaximumStock         decimal.Decimal `json:"maximum_stock"`
	ReorderPoint         decimal.Decimal `json:"reorder_point"`
	OptimalOrderQuantity decimal.Decimal `json:"optimal_order_quantity"`
	Unit                 string          `json:"unit" validate:"required,max=20"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Location             string          `json:"location" validate:"required,max=100"`
	Supplier             string          `json:"supplier" validate:"max=200"`
	LeadTimeDays         int             `json:"lead_time_days" validate:"min=0"`
}

// UpdateInventoryItemRequest body para PUT /api/v1/inventory/:id.
// El stock no es editable aquí: solo cambia vía movimientos. Version es obligatoria.
type UpdateInventoryItemRequest struct {
	ProductName          *string          `json:"product_name" validate:"omitempty,min=1,max=200"`
	Category             *string          `json:"category" validate:"omitempty,max=100"`
	MinimumStock         *decimal.Decimal `json:"minimum_stock"`
	MaximumStock         *decimal.Decimal `json:"maximum_stock"`
	ReorderPoint         *decimal.Decimal `json:"reorder_point"`
	OptimalOrderQuantity *decimal.Decimal `json:"optimal_order_quantity"`
	Unit                 *string          `json:"unit" validate:"omitempty,max=20"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	Location             *string          `json:"location" validate:"omitempty,max=100"`
	Supplier             *string          `json:"supplier" validate:"omitempty,max=200"`
	LeadTimeDays         *int             `json:"lead_time_days" validate:"omitempty,min=0"`
	Version              int64            `json:"version" validate:"required,min=1"`
}

// InventoryItemFilter query de GET /api/v1/inventory.
type InventoryItemFilter struct {
	PageRequest
	Location string `query:"location"`
	Category string `query:"category"`
	Status   string `query:"status"`
}

// InventoryItemResponse salida de un producto rastreado.
type InventoryItemResponse struct {
	ID                   string           `json:"id"`
	ProductCode          string           `json:"product_code"`
	ProductName          string           `json:"product_name"`
	Category             string           `json:"category"`
	CurrentStock         decimal.Decimal  `json:"current_stock"`
	MinimumStock         decimal.Decimal  `json:"minimum_stock"`
	MaximumStock         decimal.Decimal  `json:"maximum_stock"`
	ReorderPoint         decimal.Decimal  `json:"reorder_point"`
	OptimalOrderQuantity decimal.Decimal  `json:"optimal_order_quantity"`
	Unit                 string           `json:"unit"`
	UnitPrice            decimal.Decimal  `json:"unit_price"`
	StockValue           decimal.Decimal  `json:"stock_value"`
	Location             string           `json:"location"`
	Supplier             string           `json:"supplier"`
	LeadTimeDays         int              `json:"lead_time_days"`
	LastRestocked        *time.Time       `json:"last_restocked,omitempty"`
	DaysOfStockRemaining *decimal.Decimal `json:"days_of_stock_remaining"`
	Status               string           `json:"status"`
	IsActive             bool             `json:"is_active"`
	Version              int64            `json:"version"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// InventoryItemListResponse página de productos.
type InventoryItemListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// RegisterMovementRequest body para POST /api/v1/inventory/movement.
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Type      string          `json:"type" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes" validate:"max=500"`
}

// MovementResponse resultado de registrar un movimiento.
type MovementResponse struct {
	Item            InventoryItemResponse `json:"item"`
	PreviousStatus  string                `json:"previous_status"`
	StatusChanged   bool                  `json:"status_changed"`
	AlertTransition string                `json:"alert_transition"`
	Alert           *AlertResponse        `json:"alert,omitempty"`
}
