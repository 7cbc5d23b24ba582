package kusto

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

var _ ports.ConsumptionAnalytics = (*Analytics)(nil)

const (
	totalSoldQuery = `
sales_transactions
| where transaction_date > ago(@window)
| where transaction_type == "Sale"
| where product_id in (@productIds)
| summarize total_quantity = sum(quantity) by product_id`

	dailySoldQuery = `
sales_transactions
| where product_id == @productId
| where transaction_type == "Sale"
| where transaction_date > ago(@window)
| summarize quantity_sold = sum(quantity) by day = bin(transaction_date, 1d)
| order by day asc`
)

// Querier lo que el adaptador necesita del cliente.
type Querier interface {
	Query(ctx context.Context, csl string, params map[string]any) ([]Row, error)
}

// Analytics implementa ConsumptionAnalytics sobre la tabla sales_transactions del clúster.
type Analytics struct {
	q Querier
}

// NewAnalytics construye el adaptador.
func NewAnalytics(q Querier) *Analytics {
	return &Analytics{q: q}
}

// AverageDailyDemand total vendido en la ventana dividido por los días de la ventana.
func (a *Analytics) AverageDailyDemand(ctx context.Context, productIDs []string, window time.Duration) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := a.q.Query(ctx, totalSoldQuery, map[string]any{
		"window":     window,
		"productIds": productIDs,
	})
	if err != nil {
		return nil, err
	}
	divisor := decimal.NewFromInt(int64(windowDays(window)))
	for _, row := range rows {
		id, _ := row["product_id"].(string)
		if id == "" {
			continue
		}
		total, err := toDecimal(row["total_quantity"])
		if err != nil {
			return nil, fmt.Errorf("kusto: total_quantity de %s: %w", id, err)
		}
		out[id] = total.Div(divisor)
	}
	return out, nil
}

// DailyDemand unidades vendidas por día dentro de la ventana.
func (a *Analytics) DailyDemand(ctx context.Context, productID string, window time.Duration) ([]entity.DailyDemand, error) {
	rows, err := a.q.Query(ctx, dailySoldQuery, map[string]any{
		"window":    window,
		"productId": productID,
	})
	if err != nil {
		return nil, err
	}
	points := make([]entity.DailyDemand, 0, len(rows))
	for _, row := range rows {
		raw, _ := row["day"].(string)
		day, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("kusto: día inválido %q: %w", raw, err)
		}
		qty, err := toDecimal(row["quantity_sold"])
		if err != nil {
			return nil, fmt.Errorf("kusto: quantity_sold: %w", err)
		}
		points = append(points, entity.DailyDemand{Date: day.UTC(), Quantity: qty})
	}
	return points, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	case nil:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("tipo inesperado %T", v)
	}
}

func windowDays(window time.Duration) int {
	days := int(window / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}
