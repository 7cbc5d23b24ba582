package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	ledger "github.com/jhoicas/inventory-predictor/internal/domain/inventory"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

// ItemUseCase CRUD de productos rastreados. El stock nunca se edita aquí.
type ItemUseCase struct {
	deps Deps
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(deps Deps) *ItemUseCase {
	return &ItemUseCase{deps: deps.withDefaults()}
}

// Create da de alta un producto. Si nace en banda crítica se abre su alerta en la misma transacción.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if err := ledger.ValidateThresholds(in.MinimumStock, in.MaximumStock, in.ReorderPoint); err != nil {
		return nil, err
	}
	if in.CurrentStock.IsNegative() {
		return nil, domain.NewValidationError("current_stock", "no puede ser negativo")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	code := strings.TrimSpace(in.ProductCode)
	if code == "" {
		return nil, domain.NewValidationError("product_code", "es obligatorio")
	}

	now := uc.deps.Now()
	item := entity.InventoryItem{
		ID:                   uuid.New().String(),
		ProductCode:          code,
		ProductName:          strings.TrimSpace(in.ProductName),
		Category:             in.Category,
		CurrentStock:         in.CurrentStock,
		MinimumStock:         in.MinimumStock,
		MaximumStock:         in.MaximumStock,
		ReorderPoint:         in.ReorderPoint,
		OptimalOrderQuantity: in.OptimalOrderQuantity,
		Unit:                 in.Unit,
		UnitPrice:            in.UnitPrice,
		Location:             in.Location,
		Supplier:             in.Supplier,
		LeadTimeDays:         in.LeadTimeDays,
		IsActive:             true,
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	res := ledger.Reclassify(item, false, now)

	out := &MovementOutcome{Result: res}
	err := uc.deps.Tx.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		alertRepo repository.StockAlertRepository,
		_ repository.StockMovementRepository,
		_ repository.SalesTransactionRepository,
	) error {
		existing, err := itemRepo.GetByProductCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := itemRepo.Create(ctx, &out.Result.Item); err != nil {
			return err
		}
		return applyTransition(ctx, alertRepo, out, now)
	})
	if err != nil {
		return nil, err
	}

	resp := ToItemResponse(&out.Result.Item)
	if err := uc.deps.Events.PublishInventoryEvent(ctx, ports.Event{
		Type: ports.EventInventoryItemCreated, Key: resp.ID, OccurredAt: now, Payload: resp,
	}); err != nil {
		uc.deps.Log.Error().Err(err).Str("product_id", resp.ID).Msg("publicar InventoryItemCreated")
	}
	// Un alta nueva no cambia de estado: solo se notifica la alerta si se abrió.
	out.Result.StatusChanged = false
	notifyTransition(ctx, uc.deps, out, resp)
	return &resp, nil
}

// GetByID obtiene un producto.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryItemResponse, error) {
	item, err := uc.deps.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List listado paginado ordenado por nombre.
func (uc *ItemUseCase) List(ctx context.Context, f dto.InventoryItemFilter) (*dto.InventoryItemListResponse, error) {
	f.DefaultPage()
	filter := repository.InventoryItemFilter{
		Location: f.Location,
		Category: f.Category,
		Limit:    f.PageSize,
		Offset:   f.Offset(),
	}
	if f.Status != "" {
		st, ok := entity.ParseStockStatus(f.Status)
		if !ok {
			return nil, domain.NewValidationError("status", "valor desconocido")
		}
		filter.Status = st
	}
	items, total, err := uc.deps.Items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryItemListResponse{
		Items: ToItemResponses(items),
		Page:  dto.NewPageResponse(f.PageRequest, total),
	}, nil
}

// Update modifica campos descriptivos y umbrales con control de versión optimista.
// Un cambio de umbrales reclasifica el producto y puede abrir o resolver su alerta.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	now := uc.deps.Now()
	var out *MovementOutcome
	err := uc.deps.Tx.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		alertRepo repository.StockAlertRepository,
		_ repository.StockMovementRepository,
		_ repository.SalesTransactionRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Version != in.Version {
			return domain.ErrConflict
		}
		if err := applyUpdate(item, in); err != nil {
			return err
		}
		item.UpdatedAt = now

		open, err := alertRepo.GetOpenByProduct(ctx, item.ID)
		if err != nil {
			return err
		}
		res := ledger.Reclassify(*item, open != nil, now)
		if err := itemRepo.Update(ctx, &res.Item); err != nil {
			return err
		}
		out = &MovementOutcome{Result: res}
		return applyTransition(ctx, alertRepo, out, now)
	})
	if err != nil {
		return nil, err
	}

	if out.Result.StatusChanged {
		uc.deps.Metrics.StatusChanged(string(out.Result.PrevStatus), string(out.Result.Item.Status))
	}
	if out.Result.Transition != ledger.TransitionNoChange {
		uc.deps.Metrics.AlertTransition(string(out.Result.Transition))
	}
	resp := ToItemResponse(&out.Result.Item)
	if err := uc.deps.Events.PublishInventoryEvent(ctx, ports.Event{
		Type: ports.EventInventoryItemUpdated, Key: resp.ID, OccurredAt: now, Payload: resp,
	}); err != nil {
		uc.deps.Log.Error().Err(err).Str("product_id", resp.ID).Msg("publicar InventoryItemUpdated")
	}
	notifyTransition(ctx, uc.deps, out, resp)
	return &resp, nil
}

func applyUpdate(item *entity.InventoryItem, in dto.UpdateInventoryItemRequest) error {
	if in.ProductName != nil {
		item.ProductName = strings.TrimSpace(*in.ProductName)
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	setDecimal(&item.MinimumStock, in.MinimumStock)
	setDecimal(&item.MaximumStock, in.MaximumStock)
	setDecimal(&item.ReorderPoint, in.ReorderPoint)
	setDecimal(&item.OptimalOrderQuantity, in.OptimalOrderQuantity)
	setDecimal(&item.UnitPrice, in.UnitPrice)
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.Supplier != nil {
		item.Supplier = *in.Supplier
	}
	if in.LeadTimeDays != nil {
		item.LeadTimeDays = *in.LeadTimeDays
	}
	if item.UnitPrice.IsNegative() {
		return domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	return ledger.ValidateThresholds(item.MinimumStock, item.MaximumStock, item.ReorderPoint)
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

// Deactivate baja lógica: las alertas siguen referenciando al producto.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.deps.Items.Deactivate(ctx, id)
}

// LowStock productos activos con stock <= mínimo.
func (uc *ItemUseCase) LowStock(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	items, err := uc.deps.Items.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}

// LowStockItems versión en entidades (reporte PDF).
func (uc *ItemUseCase) LowStockItems(ctx context.Context) ([]*entity.InventoryItem, error) {
	return uc.deps.Items.ListLowStock(ctx)
}

// ByLocation productos activos de una ubicación.
func (uc *ItemUseCase) ByLocation(ctx context.Context, location string) ([]dto.InventoryItemResponse, error) {
	if strings.TrimSpace(location) == "" {
		return nil, domain.NewValidationError("location", "es obligatoria")
	}
	items, err := uc.deps.Items.ListByLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(items), nil
}
