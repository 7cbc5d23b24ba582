package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de stock. El signo lo decide el tipo, no quien llama.
type MovementKind string

const (
	MovementSale       MovementKind = "Sale"
	MovementPurchase   MovementKind = "Purchase"
	MovementReturn     MovementKind = "Return"
	MovementAdjustment MovementKind = "Adjustment"
	MovementTransfer   MovementKind = "Transfer"
	MovementDamaged    MovementKind = "Damaged"
	MovementExpired    MovementKind = "Expired"
)

// Depletes indica si el tipo resta stock (Sale, Damaged, Expired, Transfer).
func (k MovementKind) Depletes() bool {
	switch k {
	case MovementSale, MovementDamaged, MovementExpired, MovementTransfer:
		return true
	}
	return false
}

// Replenishes indica si el tipo suma stock (Purchase, Return, Adjustment).
func (k MovementKind) Replenishes() bool {
	switch k {
	case MovementPurchase, MovementReturn, MovementAdjustment:
		return true
	}
	return false
}

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	return k.Depletes() || k.Replenishes()
}

// StockMovement movimiento aplicado a un producto. Quantity siempre positiva.
type StockMovement struct {
	ID            string
	ProductID     string
	Kind          MovementKind
	Quantity      decimal.Decimal
	SignedDelta   decimal.Decimal // calculado por el ledger
	StockBefore   decimal.Decimal
	StockAfter    decimal.Decimal
	Location      string
	Notes         string
	TransactionID string // venta asociada, si aplica
	CreatedAt     time.Time
}
