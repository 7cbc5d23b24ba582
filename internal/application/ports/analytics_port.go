package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// ConsumptionAnalytics puerto de salida hacia el servicio de analítica de consumo.
// Los adaptadores (Kusto, PostgreSQL) ocultan el lenguaje de consulta.
// Un producto sin ventas en la ventana no aparece en el mapa (consumo desconocido).
type ConsumptionAnalytics interface {
	// AverageDailyDemand promedio diario de unidades vendidas en los últimos `window`.
	AverageDailyDemand(ctx context.Context, productIDs []string, window time.Duration) (map[string]decimal.Decimal, error)
	// DailyDemand serie diaria de ventas del producto, ordenada por fecha ascendente.
	DailyDemand(ctx context.Context, productID string, window time.Duration) ([]entity.DailyDemand, error)
}
