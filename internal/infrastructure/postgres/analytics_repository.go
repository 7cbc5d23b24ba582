package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

var _ ports.ConsumptionAnalytics = (*AnalyticsRepo)(nil)

// AnalyticsRepo consumo calculado directamente sobre sales_transactions. Se usa cuando no hay
// un clúster de analítica configurado.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewAnalyticsRepository construye el adaptador de analítica local.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool, now: time.Now}
}

// AverageDailyDemand unidades vendidas en la ventana dividido por los días de la ventana.
// Productos sin ventas no aparecen en el mapa.
func (r *AnalyticsRepo) AverageDailyDemand(ctx context.Context, productIDs []string, window time.Duration) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	days := windowDays(window)
	const query = `
	SELECT product_id::text, SUM(quantity)
	FROM sales_transactions
	WHERE product_id = ANY($1::uuid[])
	  AND transaction_type = 'Sale'
	  AND transaction_date >= $2
	GROUP BY product_id`

	rows, err := r.pool.Query(ctx, query, productIDs, r.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("analytics.AverageDailyDemand: %w", err)
	}
	defer rows.Close()

	divisor := decimal.NewFromInt(int64(days))
	for rows.Next() {
		var id string
		var total decimal.Decimal
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("analytics.AverageDailyDemand scan: %w", err)
		}
		out[id] = total.Div(divisor)
	}
	return out, rows.Err()
}

// DailyDemand unidades vendidas por día (UTC) dentro de la ventana; solo días con ventas.
func (r *AnalyticsRepo) DailyDemand(ctx context.Context, productID string, window time.Duration) ([]entity.DailyDemand, error) {
	const query = `
	SELECT date_trunc('day', transaction_date AT TIME ZONE 'UTC') AS day, SUM(quantity)
	FROM sales_transactions
	WHERE product_id = $1
	  AND transaction_type = 'Sale'
	  AND transaction_date >= $2
	GROUP BY day
	ORDER BY day`

	rows, err := r.pool.Query(ctx, query, productID, r.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("analytics.DailyDemand: %w", err)
	}
	defer rows.Close()

	var points []entity.DailyDemand
	for rows.Next() {
		var p entity.DailyDemand
		if err := rows.Scan(&p.Date, &p.Quantity); err != nil {
			return nil, fmt.Errorf("analytics.DailyDemand scan: %w", err)
		}
		p.Date = time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, time.UTC)
		points = append(points, p)
	}
	return points, rows.Err()
}

func windowDays(window time.Duration) int {
	days := int(window / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}
