package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// SalesFilter filtros de listado de ventas. From/To nil no acotan.
type SalesFilter struct {
	ProductID string
	Location  string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SalesTransactionRepository puerto de persistencia de ventas y devoluciones.
type SalesTransactionRepository interface {
	Create(ctx context.Context, tx *entity.SalesTransaction) error
	List(ctx context.Context, filter SalesFilter) ([]*entity.SalesTransaction, int, error)
}
