package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

const alertColumns = `id, product_id, product_code, product_name, alert_type, severity, message, location,
	current_stock, threshold_value, recommended_action, is_read, is_resolved, created_at, resolved_at`

// StockAlertRepo alertas de stock sobre PostgreSQL. La unicidad de la alerta abierta la
// garantiza el índice parcial uq_stock_alerts_open_product.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

func scanAlert(row pgx.Row) (*entity.StockAlert, error) {
	var a entity.StockAlert
	var alertType, severity string
	err := row.Scan(
		&a.ID, &a.ProductID, &a.ProductCode, &a.ProductName, &alertType, &severity, &a.Message,
		&a.Location, &a.CurrentStock, &a.ThresholdValue, &a.RecommendedAction, &a.IsRead,
		&a.IsResolved, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Type = entity.AlertType(alertType)
	a.Severity = entity.AlertSeverity(severity)
	return &a, nil
}

func (r *StockAlertRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockAlert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// GetOpenByProduct alerta sin resolver del producto, si existe.
func (r *StockAlertRepo) GetOpenByProduct(ctx context.Context, productID string) (*entity.StockAlert, error) {
	a, err := r.getOne(ctx,
		`SELECT `+alertColumns+` FROM stock_alerts WHERE product_id = $1 AND NOT is_resolved`, productID)
	if err != nil {
		return nil, fmt.Errorf("get open alert: %w", err)
	}
	return a, nil
}

// OpenIfAbsent inserta la alerta; si ya hay una abierta para el producto no hace nada y devuelve false.
func (r *StockAlertRepo) OpenIfAbsent(ctx context.Context, a *entity.StockAlert) (bool, error) {
	query := `INSERT INTO stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, $13, NULL)
		ON CONFLICT (product_id) WHERE NOT is_resolved DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.ProductID, a.ProductCode, a.ProductName, string(a.Type), string(a.Severity), a.Message,
		a.Location, a.CurrentStock, a.ThresholdValue, a.RecommendedAction, a.IsRead, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrDuplicate
		}
		return false, fmt.Errorf("insert stock alert: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ResolveOpen resuelve la alerta abierta del producto y la devuelve; (nil, nil) si no había.
func (r *StockAlertRepo) ResolveOpen(ctx context.Context, productID string, at time.Time) (*entity.StockAlert, error) {
	a, err := r.getOne(ctx,
		`UPDATE stock_alerts SET is_resolved = TRUE, resolved_at = $2
		WHERE product_id = $1 AND NOT is_resolved
		RETURNING `+alertColumns,
		productID, at,
	)
	if err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	return a, nil
}

// GetByID obtiene una alerta.
func (r *StockAlertRepo) GetByID(ctx context.Context, id string) (*entity.StockAlert, error) {
	a, err := r.getOne(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// List alertas más recientes primero, con total sin paginar.
func (r *StockAlertRepo) List(ctx context.Context, f repository.StockAlertFilter) ([]*entity.StockAlert, int, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.Resolved != nil {
		add("is_resolved = $%d", *f.Resolved)
	}
	if f.Severity != "" {
		add("severity = $%d", string(f.Severity))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_alerts`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM stock_alerts%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		alertColumns, clause, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// MarkRead marca la alerta como leída.
func (r *StockAlertRepo) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE stock_alerts SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
