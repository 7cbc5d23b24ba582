package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el historial de movimientos (solo auditoría).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
