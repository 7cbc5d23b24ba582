package prediction

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	ledger "github.com/jhoicas/inventory-predictor/internal/domain/inventory"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

const (
	day = 24 * time.Hour

	historyDays = 90 // ventana de demanda para pronóstico y quiebre
	reorderDays = 30 // ventana de demanda para recomendaciones de pedido

	reorderHorizonDays = 21 // se recomienda pedir si quedan menos de 3 semanas
	orderLeadDays      = 7
	supplyDays         = 30 // cobertura del pedido sugerido

	maxForecastDays = 365
)

var (
	highDemand = decimal.NewFromInt(10)
	trendBand  = decimal.NewFromFloat(0.1)
)

// Deps colaboradores del servicio de predicción.
type Deps struct {
	Items       repository.InventoryItemRepository
	Analytics   ports.ConsumptionAnalytics
	Notifier    ports.Notifier
	Log         *logger.Logger
	Now         func() time.Time
	Parallelism int // productos recalculados en paralelo por RunModel
}

// Service pronósticos de demanda, quiebres de stock y recomendaciones de pedido.
type Service struct {
	items       repository.InventoryItemRepository
	analytics   ports.ConsumptionAnalytics
	notifier    ports.Notifier
	log         *logger.Logger
	now         func() time.Time
	parallelism int
}

// NewService construye el servicio.
func NewService(d Deps) *Service {
	s := &Service{
		items:       d.Items,
		analytics:   d.Analytics,
		notifier:    d.Notifier,
		log:         d.Log,
		now:         d.Now,
		parallelism: d.Parallelism,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.parallelism <= 0 {
		s.parallelism = 8
	}
	return s
}

// DemandForecast pronóstico lineal para `days` días a partir del historial de 90 días.
// DaysUntilStockOut = -1 cuando no hubo ventas en la ventana.
func (s *Service) DemandForecast(ctx context.Context, productID string, days int) (*entity.PredictionResult, error) {
	if days == 0 {
		days = 30
	}
	if days < 1 || days > maxForecastDays {
		return nil, domain.NewValidationError("days", fmt.Sprintf("debe estar entre 1 y %d", maxForecastDays))
	}
	item, err := s.items.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	history, err := s.analytics.DailyDemand(ctx, productID, historyDays*day)
	if err != nil {
		return nil, fmt.Errorf("demanda diaria: %w", err)
	}

	now := s.now()
	series := fillDaily(history, now, historyDays)
	avg := sum(series).Div(decimal.NewFromInt(historyDays))

	res := newResult(item, avg, now, days)
	res.Trend = trend(series)
	res.DemandForecast = make([]entity.DailyDemand, 0, days)
	start := truncateDay(now)
	for i := 1; i <= days; i++ {
		res.DemandForecast = append(res.DemandForecast, entity.DailyDemand{
			Date:     start.AddDate(0, 0, i),
			Quantity: avg.Round(2),
		})
	}
	return res, nil
}

// StockOutPredictions productos con stock <= 2 × mínimo que se quedarán sin stock dentro de
// daysAhead días al consumo promedio de los últimos 90 días, del más urgente al menos urgente.
func (s *Service) StockOutPredictions(ctx context.Context, location string, daysAhead int) ([]entity.PredictionResult, error) {
	if daysAhead == 0 {
		daysAhead = 30
	}
	if daysAhead < 1 || daysAhead > maxForecastDays {
		return nil, domain.NewValidationError("days_ahead", fmt.Sprintf("debe estar entre 1 y %d", maxForecastDays))
	}
	items, err := s.items.ListStockOutCandidates(ctx, location)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []entity.PredictionResult{}, nil
	}
	avgs, err := s.analytics.AverageDailyDemand(ctx, ids(items), historyDays*day)
	if err != nil {
		return nil, fmt.Errorf("demanda promedio: %w", err)
	}

	now := s.now()
	out := make([]entity.PredictionResult, 0, len(items))
	for _, it := range items {
		avg, ok := avgs[it.ID]
		if !ok || !avg.IsPositive() {
			continue
		}
		res := newResult(it, avg, now, daysAhead)
		if res.DaysUntilStockOut > daysAhead {
			continue
		}
		out = append(out, *res)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntilStockOut < out[j].DaysUntilStockOut })
	return out, nil
}

// ReorderRecommendations productos con menos de 21 días de stock al consumo de los últimos 30 días.
func (s *Service) ReorderRecommendations(ctx context.Context) ([]entity.ReorderRecommendation, error) {
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []entity.ReorderRecommendation{}, nil
	}
	avgs, err := s.analytics.AverageDailyDemand(ctx, ids(items), reorderDays*day)
	if err != nil {
		return nil, fmt.Errorf("demanda promedio: %w", err)
	}

	now := s.now()
	horizon := decimal.NewFromInt(reorderHorizonDays)
	type ranked struct {
		rec  entity.ReorderRecommendation
		days decimal.Decimal
	}
	var list []ranked
	for _, it := range items {
		avg, ok := avgs[it.ID]
		if !ok || !avg.IsPositive() {
			continue
		}
		remaining := it.CurrentStock.Div(avg)
		if !remaining.LessThan(horizon) {
			continue
		}
		qty := avg.Mul(decimal.NewFromInt(supplyDays)).Round(2)
		whole := int(remaining.IntPart())
		lead := remaining.Sub(decimal.NewFromInt(orderLeadDays))
		offset := time.Duration(lead.Mul(decimal.NewFromInt(int64(day))).IntPart())
		list = append(list, ranked{
			days: remaining,
			rec: entity.ReorderRecommendation{
				ProductID:                it.ID,
				ProductCode:              it.ProductCode,
				ProductName:              it.ProductName,
				CurrentStock:             it.CurrentStock,
				RecommendedOrderQuantity: qty,
				RecommendedOrderDate:     now.Add(offset),
				Urgency:                  urgency(remaining),
				EstimatedCost:            qty.Mul(it.UnitPrice).Round(2),
				Reason:                   fmt.Sprintf("Stock will run out in %d days based on current demand", whole),
				DaysUntilStockOut:        whole,
				Unit:                     it.Unit,
			},
		})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].days.LessThan(list[j].days) })

	out := make([]entity.ReorderRecommendation, 0, len(list))
	for _, r := range list {
		out = append(out, r.rec)
	}
	return out, nil
}

// RunModel recalcula DaysOfStockRemaining de los productos indicados (todos los activos si
// la lista está vacía) y empuja PredictionUpdated al hub.
func (s *Service) RunModel(ctx context.Context, productIDs []string, forecastDays int) (*dto.RunModelResponse, error) {
	if forecastDays == 0 {
		forecastDays = 30
	}
	if forecastDays < 1 || forecastDays > maxForecastDays {
		return nil, domain.NewValidationError("forecast_days", fmt.Sprintf("debe estar entre 1 y %d", maxForecastDays))
	}
	if len(productIDs) == 0 {
		items, err := s.items.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		productIDs = ids(items)
	}
	ranAt := s.now()
	if len(productIDs) == 0 {
		return &dto.RunModelResponse{RanAt: ranAt}, nil
	}

	avgs, err := s.analytics.AverageDailyDemand(ctx, productIDs, reorderDays*day)
	if err != nil {
		return nil, fmt.Errorf("demanda promedio: %w", err)
	}

	var updated, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for _, id := range productIDs {
		g.Go(func() error {
			item, err := s.items.GetByID(gctx, id)
			if err != nil {
				return err
			}
			if item == nil || !item.IsActive {
				skipped.Add(1)
				return nil
			}
			days := decimal.NullDecimal{}
			if avg, ok := avgs[id]; ok {
				if d, ok := ledger.EstimateDaysRemaining(item, avg); ok {
					days = decimal.NewNullDecimal(d)
				}
			}
			if err := s.items.UpdateDaysRemaining(gctx, id, days); err != nil {
				return err
			}
			updated.Add(1)

			res := newResult(item, avgs[id], ranAt, forecastDays)
			if s.notifier != nil {
				s.notifier.Notify(gctx, ports.Notification{
					Event:     ports.NotifyPredictionUpdated,
					ProductID: item.ID,
					Location:  item.Location,
					Payload:   ToPredictionResponse(res),
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("processed", len(productIDs)).
		Int64("updated", updated.Load()).
		Int64("skipped", skipped.Load()).
		Int("forecast_days", forecastDays).
		Msg("modelo de predicción ejecutado")

	return &dto.RunModelResponse{
		Processed: len(productIDs),
		Updated:   int(updated.Load()),
		Skipped:   int(skipped.Load()),
		RanAt:     ranAt,
	}, nil
}

// newResult arma el pronóstico común a DemandForecast, StockOutPredictions y RunModel.
func newResult(it *entity.InventoryItem, avg decimal.Decimal, now time.Time, horizon int) *entity.PredictionResult {
	res := &entity.PredictionResult{
		ProductID:                it.ID,
		ProductCode:              it.ProductCode,
		ProductName:              it.ProductName,
		PredictionDate:           now,
		AverageDailyDemand:       avg.Round(2),
		PredictedDemand7Days:     avg.Mul(decimal.NewFromInt(7)).Round(2),
		PredictedDemand14Days:    avg.Mul(decimal.NewFromInt(14)).Round(2),
		PredictedDemand30Days:    avg.Mul(decimal.NewFromInt(30)).Round(2),
		CurrentStock:             it.CurrentStock,
		RecommendedOrderQuantity: avg.Mul(decimal.NewFromInt(supplyDays)).Round(2),
		DaysUntilStockOut:        -1,
		StockOutProbability:      decimal.Zero,
		Trend:                    entity.TrendStable,
	}
	if !avg.IsPositive() {
		res.Insights = []string{"No sales recorded in the analysed window"}
		return res
	}
	days := int(it.CurrentStock.Div(avg).IntPart())
	if days < 0 {
		days = 0
	}
	out := now.AddDate(0, 0, days)
	res.DaysUntilStockOut = days
	res.EstimatedStockOutDate = &out
	res.StockOutProbability = probability(days, horizon)
	res.Insights = insights(days, avg)
	return res
}

// probability 1 si ya no hay stock; 0 fuera del horizonte; si no 1 - días/horizonte.
func probability(days, horizon int) decimal.Decimal {
	if days <= 0 {
		return decimal.NewFromInt(1)
	}
	if days > horizon {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(int64(horizon)))).Round(4)
}

func insights(days int, avg decimal.Decimal) []string {
	var out []string
	switch {
	case days < 7:
		out = append(out, "Critical: Stock will run out within a week")
	case days < 14:
		out = append(out, "Urgent: Consider reordering within next few days")
	}
	if avg.GreaterThan(highDemand) {
		out = append(out, "High demand product - monitor closely")
	}
	return append(out, fmt.Sprintf("Average daily sales: %s units", avg.StringFixed(1)))
}

func urgency(daysRemaining decimal.Decimal) string {
	switch {
	case daysRemaining.LessThan(decimal.NewFromInt(7)):
		return "High"
	case daysRemaining.LessThan(decimal.NewFromInt(14)):
		return "Medium"
	default:
		return "Low"
	}
}

// trend compara el promedio de la segunda mitad de la serie contra la primera (±10 %).
func trend(series []decimal.Decimal) entity.TrendDirection {
	half := len(series) / 2
	if half == 0 {
		return entity.TrendStable
	}
	first := sum(series[:half]).Div(decimal.NewFromInt(int64(half)))
	second := sum(series[half:]).Div(decimal.NewFromInt(int64(len(series) - half)))
	if first.IsZero() {
		if second.IsPositive() {
			return entity.TrendIncreasing
		}
		return entity.TrendStable
	}
	change := second.Sub(first).Div(first)
	switch {
	case change.GreaterThan(trendBand):
		return entity.TrendIncreasing
	case change.LessThan(trendBand.Neg()):
		return entity.TrendDecreasing
	default:
		return entity.TrendStable
	}
}

// fillDaily serie de `n` días terminando hoy; los días sin ventas valen cero.
func fillDaily(points []entity.DailyDemand, now time.Time, n int) []decimal.Decimal {
	end := truncateDay(now)
	start := end.AddDate(0, 0, -(n - 1))
	series := make([]decimal.Decimal, n)
	for i := range series {
		series[i] = decimal.Zero
	}
	for _, p := range points {
		idx := int(truncateDay(p.Date).Sub(start) / day)
		if idx < 0 || idx >= n {
			continue
		}
		series[idx] = series[idx].Add(p.Quantity)
	}
	return series
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sum(xs []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, x := range xs {
		total = total.Add(x)
	}
	return total
}

func ids(items []*entity.InventoryItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
