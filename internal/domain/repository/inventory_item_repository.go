package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// InventoryItemFilter filtros de listado. Campos vacíos no filtran.
type InventoryItemFilter struct {
	Location        string
	Category        string
	Status          entity.StockStatus
	IncludeInactive bool
	Limit           int
	Offset          int
}

// InventoryItemRepository define el puerto de persistencia para productos rastreados (DIP).
// Los métodos de lectura devuelven (nil, nil) cuando el registro no existe.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByProductCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// Update guarda campos descriptivos, umbrales y estado. Solo aplica si la versión
	// coincide con item.Version; si no, domain.ErrConflict. Incrementa item.Version.
	Update(ctx context.Context, item *entity.InventoryItem) error
	// SaveStock persiste el resultado de un movimiento (fila ya bloqueada).
	SaveStock(ctx context.Context, item *entity.InventoryItem) error
	UpdateDaysRemaining(ctx context.Context, id string, days decimal.NullDecimal) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter InventoryItemFilter) ([]*entity.InventoryItem, int, error)
	// ListLowStock productos activos con stock <= mínimo, del más crítico al menos crítico.
	ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error)
	ListByLocation(ctx context.Context, location string) ([]*entity.InventoryItem, error)
	// ListStockOutCandidates productos activos con stock <= 2 × mínimo.
	ListStockOutCandidates(ctx context.Context, location string) ([]*entity.InventoryItem, error)
	// ListActive todos los productos activos ordenados por nombre.
	ListActive(ctx context.Context) ([]*entity.InventoryItem, error)
}
