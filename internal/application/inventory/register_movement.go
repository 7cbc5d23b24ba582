package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	ledger "github.com/jhoicas/inventory-predictor/internal/domain/inventory"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

// MovementUseCase registra movimientos de stock de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) y aplica la transición de alerta decidida por el ledger.
type MovementUseCase struct {
	deps Deps
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(deps Deps) *MovementUseCase {
	return &MovementUseCase{deps: deps.withDefaults()}
}

// MovementInput entrada del caso de uso.
type MovementInput struct {
	ProductID     string
	Kind          entity.MovementKind
	Quantity      decimal.Decimal
	Notes         string
	TransactionID string
}

// MovementOutcome resultado del ledger más la alerta efectivamente persistida.
// ResolvedAlert viene informado cuando la transición resolvió una alerta.
type MovementOutcome struct {
	Result        ledger.MovementResult
	ResolvedAlert *entity.StockAlert
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *MovementUseCase) RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	out, err := uc.RegisterMovement(ctx, MovementInput{
		ProductID: in.ProductID,
		Kind:      entity.MovementKind(in.Type),
		Quantity:  in.Quantity,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}
	resp := toMovementResponse(out)
	return &resp, nil
}

// RegisterMovement valida la entrada, bloquea el producto, aplica el movimiento y
// persiste stock, auditoría y alerta en una sola transacción. Bus de eventos, hub y
// métricas se notifican después del commit.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*MovementOutcome, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if err := ledger.ValidateMovement(in.Kind, in.Quantity); err != nil {
		return nil, err
	}

	avg := uc.averageConsumption(ctx, in.ProductID)

	var out *MovementOutcome
	err := uc.deps.Tx.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		alertRepo repository.StockAlertRepository,
		movRepo repository.StockMovementRepository,
		_ repository.SalesTransactionRepository,
	) error {
		var err error
		out, err = uc.applyInTx(ctx, itemRepo, alertRepo, movRepo, in, avg)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, out)
	return out, nil
}

// averageConsumption consulta el consumo promedio fuera de la transacción para no
// retener el bloqueo de fila durante una llamada externa. nil = desconocido.
func (uc *MovementUseCase) averageConsumption(ctx context.Context, productID string) *decimal.Decimal {
	if uc.deps.Analytics == nil {
		return nil
	}
	avgs, err := uc.deps.Analytics.AverageDailyDemand(ctx, []string{productID}, uc.deps.ConsumptionWindow)
	if err != nil {
		uc.deps.Log.Error().Err(err).Str("product_id", productID).Msg("consumo promedio no disponible")
		return nil
	}
	avg, ok := avgs[productID]
	if !ok {
		return nil
	}
	return &avg
}

func (uc *MovementUseCase) applyInTx(
	ctx context.Context,
	itemRepo repository.InventoryItemRepository,
	alertRepo repository.StockAlertRepository,
	movRepo repository.StockMovementRepository,
	in MovementInput,
	avg *decimal.Decimal,
) (*MovementOutcome, error) {
	item, err := itemRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	open, err := alertRepo.GetOpenByProduct(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	res, err := ledger.ApplyMovement(*item, in.Kind, in.Quantity, open != nil, now)
	if err != nil {
		return nil, err
	}
	if avg != nil {
		if days, ok := ledger.EstimateDaysRemaining(&res.Item, *avg); ok {
			res.Item.DaysOfStockRemaining = decimal.NewNullDecimal(days)
		}
	}
	if err := itemRepo.SaveStock(ctx, &res.Item); err != nil {
		return nil, err
	}

	res.Movement.ID = uuid.New().String()
	res.Movement.Notes = in.Notes
	res.Movement.TransactionID = in.TransactionID
	if err := movRepo.Create(ctx, &res.Movement); err != nil {
		return nil, err
	}

	out := &MovementOutcome{Result: res}
	if err := applyTransition(ctx, alertRepo, out, now); err != nil {
		return nil, err
	}
	return out, nil
}

// applyTransition persiste la decisión del ledger. Si otra escritura ganó la carrera por
// la alerta abierta, el resultado se degrada a NoChange.
func applyTransition(ctx context.Context, alertRepo repository.StockAlertRepository, out *MovementOutcome, now time.Time) error {
	switch out.Result.Transition {
	case ledger.TransitionOpen:
		out.Result.Alert.ID = uuid.New().String()
		created, err := alertRepo.OpenIfAbsent(ctx, out.Result.Alert)
		if err != nil {
			return err
		}
		if !created {
			out.Result.Alert = nil
			out.Result.Transition = ledger.TransitionNoChange
		}
	case ledger.TransitionResolve:
		resolved, err := alertRepo.ResolveOpen(ctx, out.Result.Item.ID, now)
		if err != nil {
			return err
		}
		if resolved == nil {
			out.Result.Transition = ledger.TransitionNoChange
		}
		out.ResolvedAlert = resolved
	}
	return nil
}

// afterCommit efectos best-effort: nunca fallan la operación ya confirmada.
func (uc *MovementUseCase) afterCommit(ctx context.Context, out *MovementOutcome) {
	res := out.Result
	uc.deps.Metrics.MovementApplied(string(res.Movement.Kind))
	if res.StatusChanged {
		uc.deps.Metrics.StatusChanged(string(res.PrevStatus), string(res.Item.Status))
	}
	if res.Transition != ledger.TransitionNoChange {
		uc.deps.Metrics.AlertTransition(string(res.Transition))
	}

	itemResp := ToItemResponse(&res.Item)
	uc.publish(ctx, uc.deps.Events.PublishInventoryEvent, ports.Event{
		Type:       ports.EventStockMovement,
		Key:        res.Item.ID,
		OccurredAt: res.Item.UpdatedAt,
		Payload: map[string]any{
			"movement_id":    res.Movement.ID,
			"product_id":     res.Item.ID,
			"product_code":   res.Item.ProductCode,
			"movement_type":  res.Movement.Kind,
			"quantity":       res.Movement.Quantity,
			"stock_before":   res.Movement.StockBefore,
			"stock_after":    res.Movement.StockAfter,
			"status":         res.Item.Status,
			"previous":       res.PrevStatus,
			"location":       res.Item.Location,
			"transaction_id": res.Movement.TransactionID,
		},
	})
	notifyTransition(ctx, uc.deps, out, itemResp)
}

// notifyTransition empuja StockLevelChanged / NewAlert / AlertResolved y publica el evento de alerta.
func notifyTransition(ctx context.Context, deps Deps, out *MovementOutcome, itemResp dto.InventoryItemResponse) {
	res := out.Result
	if res.StatusChanged {
		deps.Notifier.Notify(ctx, ports.Notification{
			Event:     ports.NotifyStockLevelChanged,
			ProductID: res.Item.ID,
			Location:  res.Item.Location,
			Payload: map[string]any{
				"item":            itemResp,
				"previous_status": res.PrevStatus,
			},
		})
	}
	switch {
	case res.Alert != nil:
		alert := ToAlertResponse(res.Alert)
		deps.Notifier.Notify(ctx, ports.Notification{
			Event:     ports.NotifyNewAlert,
			ProductID: res.Item.ID,
			Location:  res.Item.Location,
			Broadcast: true,
			Payload:   alert,
		})
		publishAlert(ctx, deps, ports.EventAlertOpened, res.Item.ID, res.Alert.CreatedAt, alert)
	case out.ResolvedAlert != nil:
		alert := ToAlertResponse(out.ResolvedAlert)
		deps.Notifier.Notify(ctx, ports.Notification{
			Event:     ports.NotifyAlertResolved,
			ProductID: res.Item.ID,
			Location:  res.Item.Location,
			Payload:   alert,
		})
		at := res.Item.UpdatedAt
		if out.ResolvedAlert.ResolvedAt != nil {
			at = *out.ResolvedAlert.ResolvedAt
		}
		publishAlert(ctx, deps, ports.EventAlertResolved, res.Item.ID, at, alert)
	}
}

func publishAlert(ctx context.Context, deps Deps, eventType, productID string, at time.Time, alert dto.AlertResponse) {
	err := deps.Events.PublishAlertEvent(ctx, ports.Event{Type: eventType, Key: productID, OccurredAt: at, Payload: alert})
	if err != nil {
		deps.Log.Error().Err(err).Str("event_type", eventType).Str("product_id", productID).Msg("publicar evento de alerta")
	}
}

func (uc *MovementUseCase) publish(ctx context.Context, fn func(context.Context, ports.Event) error, ev ports.Event) {
	if err := fn(ctx, ev); err != nil {
		uc.deps.Log.Error().Err(err).Str("event_type", ev.Type).Str("key", ev.Key).Msg("publicar evento")
	}
}
