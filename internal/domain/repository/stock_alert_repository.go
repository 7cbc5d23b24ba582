package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// StockAlertFilter filtros de listado de alertas.
type StockAlertFilter struct {
	ProductID string
	Resolved  *bool
	Severity  entity.AlertSeverity
	Limit     int
	Offset    int
}

// StockAlertRepository puerto de persistencia de alertas.
// Como máximo una alerta abierta por producto: OpenIfAbsent es atómico respecto a esa regla.
type StockAlertRepository interface {
	GetOpenByProduct(ctx context.Context, productID string) (*entity.StockAlert, error)
	// OpenIfAbsent inserta la alerta solo si el producto no tiene otra abierta.
	// Devuelve false (sin error) cuando ya existía una.
	OpenIfAbsent(ctx context.Context, alert *entity.StockAlert) (bool, error)
	// ResolveOpen marca como resuelta la alerta abierta del producto; (nil, nil) si no había.
	ResolveOpen(ctx context.Context, productID string, at time.Time) (*entity.StockAlert, error)
	GetByID(ctx context.Context, id string) (*entity.StockAlert, error)
	List(ctx context.Context, filter StockAlertFilter) ([]*entity.StockAlert, int, error)
	MarkRead(ctx context.Context, id string) error
}
