package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AlertTransition decisión del ledger sobre la alerta abierta de un producto.
type AlertTransition string

const (
	TransitionNoChange AlertTransition = "NoChange"
	TransitionOpen     AlertTransition = "OpenAlert"
	TransitionResolve  AlertTransition = "ResolveAlert"
)

var (
	half       = decimal.NewFromFloat(0.5)
	one        = decimal.NewFromInt(1)
	oneAndHalf = decimal.NewFromFloat(1.5)
	two        = decimal.NewFromInt(2)
)

// MovementResult resultado de aplicar un movimiento.
// Alert solo viene informado cuando Transition == TransitionOpen.
type MovementResult struct {
	Item          entity.InventoryItem
	Movement      entity.StockMovement
	PrevStatus    entity.StockStatus
	StatusChanged bool
	Transition    AlertTransition
	Alert         *entity.StockAlert
}

// Classify devuelve el estado del stock. El chequeo de stock cero precede a las bandas.
//
//	ratio = actual / mínimo
//	< 0.5 CriticallyLow | < 1.0 Low | < 1.5 Optimal | < 2.0 High | >= 2.0 Overstocked
func Classify(current, minimum decimal.Decimal) entity.StockStatus {
	if current.IsZero() {
		return entity.StockStatusOutOfStock
	}
	if minimum.IsZero() {
		return entity.StockStatusOptimal
	}
	ratio := current.Div(minimum)
	switch {
	case ratio.LessThan(half):
		return entity.StockStatusCriticallyLow
	case ratio.LessThan(one):
		return entity.StockStatusLow
	case ratio.LessThan(oneAndHalf):
		return entity.StockStatusOptimal
	case ratio.LessThan(two):
		return entity.StockStatusHigh
	default:
		return entity.StockStatusOverstocked
	}
}

// DecideAlert decide la transición de alerta tras recalcular el estado.
// Un producto ya en banda crítica con alerta abierta no abre una segunda.
func DecideAlert(status entity.StockStatus, hasOpenAlert bool) AlertTransition {
	switch {
	case status.IsCritical() && !hasOpenAlert:
		return TransitionOpen
	case !status.IsCritical() && hasOpenAlert:
		return TransitionResolve
	default:
		return TransitionNoChange
	}
}

// SignedDelta cantidad con signo según el tipo de movimiento.
func SignedDelta(kind entity.MovementKind, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case kind.Depletes():
		return quantity.Neg(), nil
	case kind.Replenishes():
		return quantity, nil
	}
	return decimal.Zero, domain.NewValidationError("type", fmt.Sprintf("tipo de movimiento desconocido %q", kind))
}

// ValidateMovement rechaza cantidades <= 0 y tipos desconocidos.
func ValidateMovement(kind entity.MovementKind, quantity decimal.Decimal) error {
	if !kind.Valid() {
		return domain.NewValidationError("type", fmt.Sprintf("tipo de movimiento desconocido %q", kind))
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return nil
}

// ValidateThresholds rechaza umbrales negativos.
func ValidateThresholds(minimum, maximum, reorder decimal.Decimal) error {
	if minimum.IsNegative() {
		return domain.NewValidationError("minimum_stock", "no puede ser negativo")
	}
	if maximum.IsNegative() {
		return domain.NewValidationError("maximum_stock", "no puede ser negativo")
	}
	if reorder.IsNegative() {
		return domain.NewValidationError("reorder_point", "no puede ser negativo")
	}
	return nil
}

// ApplyMovement aplica un movimiento sobre una copia del producto; no hace I/O.
// El stock no se limita a cero: un saldo negativo queda visible como señal de calidad de datos.
func ApplyMovement(item entity.InventoryItem, kind entity.MovementKind, quantity decimal.Decimal, hasOpenAlert bool, now time.Time) (MovementResult, error) {
	if err := ValidateMovement(kind, quantity); err != nil {
		return MovementResult{}, err
	}
	if !item.IsActive {
		return MovementResult{}, domain.ErrInactiveItem
	}
	delta, err := SignedDelta(kind, quantity)
	if err != nil {
		return MovementResult{}, err
	}

	prev := item.Status
	before := item.CurrentStock
	item.CurrentStock = before.Add(delta)
	item.Status = Classify(item.CurrentStock, item.MinimumStock)
	item.UpdatedAt = now
	if kind == entity.MovementPurchase {
		restocked := now
		item.LastRestocked = &restocked
	}

	res := MovementResult{
		Item: item,
		Movement: entity.StockMovement{
			ProductID:   item.ID,
			Kind:        kind,
			Quantity:    quantity,
			SignedDelta: delta,
			StockBefore: before,
			StockAfter:  item.CurrentStock,
			Location:    item.Location,
			CreatedAt:   now,
		},
		PrevStatus:    prev,
		StatusChanged: prev != item.Status,
		Transition:    DecideAlert(item.Status, hasOpenAlert),
	}
	if res.Transition == TransitionOpen {
		res.Alert = NewAlertFor(&res.Item, now)
	}
	return res, nil
}

// Reclassify recalcula el estado tras un cambio de umbrales (sin movimiento de stock).
func Reclassify(item entity.InventoryItem, hasOpenAlert bool, now time.Time) MovementResult {
	prev := item.Status
	item.Status = Classify(item.CurrentStock, item.MinimumStock)
	res := MovementResult{
		Item:          item,
		PrevStatus:    prev,
		StatusChanged: prev != item.Status,
		Transition:    DecideAlert(item.Status, hasOpenAlert),
	}
	if res.Transition == TransitionOpen {
		res.Alert = NewAlertFor(&res.Item, now)
	}
	return res
}

// NewAlertFor construye la alerta para un producto en banda crítica.
// OutOfStock → Critical/StockOut; CriticallyLow → High/LowStock.
func NewAlertFor(item *entity.InventoryItem, now time.Time) *entity.StockAlert {
	alertType := entity.AlertTypeLowStock
	severity := entity.AlertSeverityHigh
	condition := "critically low"
	if item.Status == entity.StockStatusOutOfStock {
		alertType = entity.AlertTypeStockOut
		severity = entity.AlertSeverityCritical
		condition = "out of stock"
	}
	return &entity.StockAlert{
		ProductID:         item.ID,
		ProductCode:       item.ProductCode,
		ProductName:       item.ProductName,
		Type:              alertType,
		Severity:          severity,
		Message:           fmt.Sprintf("%s is %s at %s", item.ProductName, condition, item.Location),
		Location:          item.Location,
		CurrentStock:      item.CurrentStock,
		ThresholdValue:    item.MinimumStock,
		RecommendedAction: fmt.Sprintf("Reorder %s %s immediately", item.OptimalOrderQuantity.String(), item.Unit),
		CreatedAt:         now,
	}
}

// EstimateDaysRemaining días de stock al consumo diario dado.
// ok=false cuando el consumo es cero o desconocido (nunca divide por cero).
func EstimateDaysRemaining(item *entity.InventoryItem, avgDailyConsumption decimal.Decimal) (decimal.Decimal, bool) {
	if !avgDailyConsumption.GreaterThan(decimal.Zero) {
		return decimal.Zero, false
	}
	return item.CurrentStock.Div(avgDailyConsumption).Round(2), true
}
