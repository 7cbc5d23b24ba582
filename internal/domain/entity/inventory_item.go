package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un producto rastreado en una ubicación.
// Status se deriva siempre de CurrentStock y MinimumStock; nunca se asigna de forma independiente.
// CurrentStock solo cambia vía movimientos (ver domain/inventory.ApplyMovement).
type InventoryItem struct {
	ID                   string
	ProductCode          string // único
	ProductName          string
	Category             string
	CurrentStock         decimal.Decimal // puede quedar negativo: señal de calidad de datos
	MinimumStock         decimal.Decimal
	MaximumStock         decimal.Decimal
	ReorderPoint         decimal.Decimal
	OptimalOrderQuantity decimal.Decimal
	Unit                 string // kg, liters, pieces
	UnitPrice            decimal.Decimal
	Location             string
	Supplier             string
	LeadTimeDays         int
	LastRestocked        *time.Time
	DaysOfStockRemaining decimal.NullDecimal // NULL = consumo desconocido
	Status               StockStatus
	IsActive             bool
	Version              int64 // concurrencia optimista en Update
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StockValue valor del inventario a precio unitario.
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.CurrentStock.Mul(i.UnitPrice)
}
