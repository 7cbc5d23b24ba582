package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, product_code, product_name, category, current_stock, minimum_stock, maximum_stock,
	reorder_point, optimal_order_quantity, unit, unit_price, location, supplier, lead_time_days,
	last_restocked, days_of_stock_remaining, status, is_active, version, created_at, updated_at`

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	var status string
	err := row.Scan(
		&it.ID, &it.ProductCode, &it.ProductName, &it.Category, &it.CurrentStock, &it.MinimumStock,
		&it.MaximumStock, &it.ReorderPoint, &it.OptimalOrderQuantity, &it.Unit, &it.UnitPrice,
		&it.Location, &it.Supplier, &it.LeadTimeDays, &it.LastRestocked, &it.DaysOfStockRemaining,
		&status, &it.IsActive, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Status = entity.StockStatus(status)
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *InventoryItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return it, nil
}

// Create persiste un producto nuevo.
func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.ProductCode, it.ProductName, it.Category, it.CurrentStock, it.MinimumStock,
		it.MaximumStock, it.ReorderPoint, it.OptimalOrderQuantity, it.Unit, it.UnitPrice,
		it.Location, it.Supplier, it.LeadTimeDays, it.LastRestocked, it.DaysOfStockRemaining,
		string(it.Status), it.IsActive, it.Version, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

// GetByProductCode obtiene un producto por código.
func (r *InventoryItemRepo) GetByProductCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	it, err := r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE product_code = $1`, code)
	if err != nil {
		return nil, fmt.Errorf("get inventory item by code: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el producto con bloqueo de fila. Requiere estar dentro de una transacción.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("lock inventory item: %w", err)
	}
	return it, nil
}

// Update guarda campos descriptivos y umbrales con control de versión. No toca el stock.
func (r *InventoryItemRepo) Update(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			product_name = $3, category = $4, minimum_stock = $5, maximum_stock = $6, reorder_point = $7,
			optimal_order_quantity = $8, unit = $9, unit_price = $10, location = $11, supplier = $12,
			lead_time_days = $13, status = $14, is_active = $15, updated_at = $16, version = version + 1
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query,
		it.ID, it.Version, it.ProductName, it.Category, it.MinimumStock, it.MaximumStock, it.ReorderPoint,
		it.OptimalOrderQuantity, it.Unit, it.UnitPrice, it.Location, it.Supplier,
		it.LeadTimeDays, string(it.Status), it.IsActive, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	it.Version++
	return nil
}

// SaveStock persiste el resultado de un movimiento sobre la fila ya bloqueada.
func (r *InventoryItemRepo) SaveStock(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			current_stock = $2, status = $3, last_restocked = $4, days_of_stock_remaining = $5,
			updated_at = $6, version = version + 1
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		it.ID, it.CurrentStock, string(it.Status), it.LastRestocked, it.DaysOfStockRemaining, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	it.Version++
	return nil
}

// UpdateDaysRemaining actualiza solo la estimación de días de stock.
func (r *InventoryItemRepo) UpdateDaysRemaining(ctx context.Context, id string, days decimal.NullDecimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE inventory_items SET days_of_stock_remaining = $2, updated_at = now() WHERE id = $1`,
		id, days,
	)
	if err != nil {
		return fmt.Errorf("update days remaining: %w", err)
	}
	return nil
}

// Deactivate baja lógica.
func (r *InventoryItemRepo) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE inventory_items SET is_active = FALSE, updated_at = now(), version = version + 1 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deactivate inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista con filtros opcionales y paginación; devuelve además el total sin paginar.
func (r *InventoryItemRepo) List(ctx context.Context, f repository.InventoryItemFilter) ([]*entity.InventoryItem, int, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if !f.IncludeInactive {
		where = append(where, "is_active")
	}
	if f.Location != "" {
		add("location = $%d", f.Location)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_items`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory items: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM inventory_items%s ORDER BY product_name, id LIMIT $%d OFFSET $%d`,
		itemColumns, clause, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory items: %w", err)
	}
	list, err := collectItems(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan inventory items: %w", err)
	}
	return list, total, nil
}

// ListLowStock productos activos en o bajo el mínimo, del menor ratio stock/mínimo al mayor.
func (r *InventoryItemRepo) ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		WHERE is_active AND current_stock <= minimum_stock
		ORDER BY CASE WHEN minimum_stock > 0 THEN current_stock / minimum_stock ELSE 0 END, product_name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectItems(rows)
}

// ListByLocation productos activos de una ubicación.
func (r *InventoryItemRepo) ListByLocation(ctx context.Context, location string) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE is_active AND location = $1 ORDER BY product_name`,
		location,
	)
	if err != nil {
		return nil, fmt.Errorf("list by location: %w", err)
	}
	return collectItems(rows)
}

// ListStockOutCandidates productos activos con stock <= 2 × mínimo; location vacío = todas.
func (r *InventoryItemRepo) ListStockOutCandidates(ctx context.Context, location string) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+itemColumns+` FROM inventory_items
		WHERE is_active AND current_stock <= minimum_stock * 2 AND ($1::text = '' OR location = $1)
		ORDER BY product_name`,
		location,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock-out candidates: %w", err)
	}
	return collectItems(rows)
}

// ListActive todos los productos activos.
func (r *InventoryItemRepo) ListActive(ctx context.Context) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE is_active ORDER BY product_name`)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	return collectItems(rows)
}
