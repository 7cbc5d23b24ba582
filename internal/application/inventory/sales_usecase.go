package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

// SalesUseCase registra ventas y devoluciones; cada una mueve el stock en la misma transacción.
type SalesUseCase struct {
	movements *MovementUseCase
	deps      Deps
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(deps Deps) *SalesUseCase {
	deps = deps.withDefaults()
	return &SalesUseCase{movements: &MovementUseCase{deps: deps}, deps: deps}
}

// RecordSale persiste la transacción y aplica el movimiento Sale/Return correspondiente.
func (uc *SalesUseCase) RecordSale(ctx context.Context, in dto.RecordSaleRequest) (*dto.RecordSaleResponse, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	txType := in.Type
	if txType == "" {
		txType = entity.TransactionTypeSale
	}
	if txType != entity.TransactionTypeSale && txType != entity.TransactionTypeReturn {
		return nil, domain.NewValidationError("transaction_type", "debe ser Sale o Return")
	}

	now := uc.deps.Now()
	sale := &entity.SalesTransaction{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		TransactionDate: now,
		Location:        strings.TrimSpace(in.Location),
		Channel:         in.Channel,
		CustomerID:      in.CustomerID,
		PaymentMethod:   in.PaymentMethod,
		ExternalRef:     in.ExternalRef,
		Type:            txType,
		Notes:           in.Notes,
	}
	if in.TransactionDate != nil && !in.TransactionDate.IsZero() {
		sale.TransactionDate = in.TransactionDate.UTC()
	}
	if sale.Channel == "" {
		sale.Channel = "Store"
	}

	avg := uc.movements.averageConsumption(ctx, in.ProductID)
	mov := MovementInput{
		ProductID:     in.ProductID,
		Kind:          sale.MovementKind(),
		Quantity:      in.Quantity,
		Notes:         in.Notes,
		TransactionID: sale.ID,
	}

	var out *MovementOutcome
	err := uc.deps.Tx.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		alertRepo repository.StockAlertRepository,
		movRepo repository.StockMovementRepository,
		salesRepo repository.SalesTransactionRepository,
	) error {
		var err error
		out, err = uc.movements.applyInTx(ctx, itemRepo, alertRepo, movRepo, mov, avg)
		if err != nil {
			return err
		}
		item := out.Result.Item
		sale.ProductCode = item.ProductCode
		sale.ProductName = item.ProductName
		if sale.Location == "" {
			sale.Location = item.Location
		}
		if sale.UnitPrice.IsZero() {
			sale.UnitPrice = item.UnitPrice
		}
		sale.TotalAmount = sale.Quantity.Mul(sale.UnitPrice)
		return salesRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	uc.movements.afterCommit(ctx, out)
	uc.deps.Metrics.SaleRecorded(sale.Type)

	saleResp := ToSaleResponse(sale)
	if err := uc.deps.Events.PublishSalesEvent(ctx, ports.Event{
		Type: ports.EventSaleRecorded, Key: sale.ProductID, OccurredAt: sale.TransactionDate, Payload: saleResp,
	}); err != nil {
		uc.deps.Log.Error().Err(err).Str("transaction_id", sale.ID).Msg("publicar SaleRecorded")
	}
	uc.deps.Notifier.Notify(ctx, ports.Notification{
		Event:     ports.NotifySaleRecorded,
		ProductID: sale.ProductID,
		Location:  out.Result.Item.Location,
		Payload:   saleResp,
	})

	return &dto.RecordSaleResponse{
		Transaction: saleResp,
		Movement:    toMovementResponse(out),
	}, nil
}

// List listado paginado de ventas, más recientes primero.
func (uc *SalesUseCase) List(ctx context.Context, f dto.SalesFilter) (*dto.SalesListResponse, error) {
	f.DefaultPage()
	filter := repository.SalesFilter{
		ProductID: f.ProductID,
		Location:  f.Location,
		Limit:     f.PageSize,
		Offset:    f.Offset(),
	}
	var err error
	if filter.From, err = parseDate("from", f.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseDate("to", f.To); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("to", "anterior a from")
	}
	list, total, err := uc.deps.Sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesTransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, ToSaleResponse(t))
	}
	return &dto.SalesListResponse{Items: items, Page: dto.NewPageResponse(f.PageRequest, total)}, nil
}

// parseDate acepta RFC3339 o YYYY-MM-DD; vacío = sin filtro.
func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, "fecha inválida (RFC3339 o YYYY-MM-DD)")
}
