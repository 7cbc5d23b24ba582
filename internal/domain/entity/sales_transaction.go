package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de venta.
const (
	TransactionTypeSale   = "Sale"
	TransactionTypeReturn = "Return"
)

// SalesTransaction venta (o devolución) registrada en un punto de venta.
type SalesTransaction struct {
	ID              string
	ProductID       string
	ProductCode     string
	ProductName     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	TotalAmount     decimal.Decimal
	TransactionDate time.Time
	Location        string
	Channel         string // Store, Online, Mobile
	CustomerID      string
	PaymentMethod   string // M-Pesa, Cash, Card
	ExternalRef     string
	Type            string
	Notes           string
}

// MovementKind tipo de movimiento de stock que produce la transacción.
func (t *SalesTransaction) MovementKind() MovementKind {
	if t.Type == TransactionTypeReturn {
		return MovementReturn
	}
	return MovementSale
}
