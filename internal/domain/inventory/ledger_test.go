package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/inventory"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// maizeFlour producto de referencia: mínimo 100, stock 250.
func maizeFlour() entity.InventoryItem {
	return entity.InventoryItem{
		ID:                   "11111111-1111-1111-1111-111111111111",
		ProductCode:          "P001",
		ProductName:          "Maize Flour 2kg",
		CurrentStock:         d("250"),
		MinimumStock:         d("100"),
		MaximumStock:         d("500"),
		ReorderPoint:         d("150"),
		OptimalOrderQuantity: d("300"),
		Unit:                 "pieces",
		Location:             "Nairobi_Warehouse",
		Status:               entity.StockStatusOverstocked,
		IsActive:             true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Classify
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify_Bandas(t *testing.T) {
	cases := []struct {
		current, minimum string
		want             entity.StockStatus
	}{
		{"0", "100", entity.StockStatusOutOfStock},
		{"1", "100", entity.StockStatusCriticallyLow},
		{"49.99", "100", entity.StockStatusCriticallyLow},
		{"50", "100", entity.StockStatusLow},
		{"99.99", "100", entity.StockStatusLow},
		{"100", "100", entity.StockStatusOptimal},
		{"149.99", "100", entity.StockStatusOptimal},
		{"150", "100", entity.StockStatusHigh},
		{"199.99", "100", entity.StockStatusHigh},
		{"200", "100", entity.StockStatusOverstocked},
		{"250", "100", entity.StockStatusOverstocked},
		{"-5", "100", entity.StockStatusCriticallyLow},
	}
	for _, tc := range cases {
		got := inventory.Classify(d(tc.current), d(tc.minimum))
		assert.Equal(t, tc.want, got, "stock=%s mínimo=%s", tc.current, tc.minimum)
	}
}

func TestClassify_MinimoCero(t *testing.T) {
	assert.Equal(t, entity.StockStatusOutOfStock, inventory.Classify(decimal.Zero, decimal.Zero))
	assert.Equal(t, entity.StockStatusOptimal, inventory.Classify(d("7"), decimal.Zero))
}

// ──────────────────────────────────────────────────────────────────────────────
// DecideAlert
// ──────────────────────────────────────────────────────────────────────────────

func TestDecideAlert(t *testing.T) {
	assert.Equal(t, inventory.TransitionOpen, inventory.DecideAlert(entity.StockStatusCriticallyLow, false))
	assert.Equal(t, inventory.TransitionOpen, inventory.DecideAlert(entity.StockStatusOutOfStock, false))
	assert.Equal(t, inventory.TransitionNoChange, inventory.DecideAlert(entity.StockStatusOutOfStock, true))
	assert.Equal(t, inventory.TransitionResolve, inventory.DecideAlert(entity.StockStatusLow, true))
	assert.Equal(t, inventory.TransitionNoChange, inventory.DecideAlert(entity.StockStatusOptimal, false))
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement
// ──────────────────────────────────────────────────────────────────────────────

// 250 → venta 200 → 50 (Low, sin alerta) → venta 30 → 20 (CriticallyLow, abre alerta High/LowStock).
func TestApplyMovement_SecuenciaVentasAbreAlerta(t *testing.T) {
	item := maizeFlour()

	res, err := inventory.ApplyMovement(item, entity.MovementSale, d("200"), false, testNow)
	require.NoError(t, err)
	assert.True(t, res.Item.CurrentStock.Equal(d("50")))
	assert.Equal(t, entity.StockStatusLow, res.Item.Status)
	assert.True(t, res.StatusChanged)
	assert.Equal(t, inventory.TransitionNoChange, res.Transition)
	assert.Nil(t, res.Alert)

	res, err = inventory.ApplyMovement(res.Item, entity.MovementSale, d("30"), false, testNow)
	require.NoError(t, err)
	assert.True(t, res.Item.CurrentStock.Equal(d("20")))
	assert.Equal(t, entity.StockStatusCriticallyLow, res.Item.Status)
	assert.Equal(t, inventory.TransitionOpen, res.Transition)
	require.NotNil(t, res.Alert)
	assert.Equal(t, entity.AlertSeverityHigh, res.Alert.Severity)
	assert.Equal(t, entity.AlertTypeLowStock, res.Alert.Type)
	assert.Equal(t, "Maize Flour 2kg is critically low at Nairobi_Warehouse", res.Alert.Message)
	assert.Equal(t, "Reorder 300 pieces immediately", res.Alert.RecommendedAction)
	assert.True(t, res.Alert.ThresholdValue.Equal(d("100")))
}

func TestApplyMovement_NoAbreSegundaAlerta(t *testing.T) {
	item := maizeFlour()
	item.CurrentStock = d("20")
	item.Status = entity.StockStatusCriticallyLow

	res, err := inventory.ApplyMovement(item, entity.MovementSale, d("20"), true, testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusOutOfStock, res.Item.Status)
	assert.Equal(t, inventory.TransitionNoChange, res.Transition)
	assert.Nil(t, res.Alert)
}

func TestApplyMovement_AgotadoAbreAlertaCritica(t *testing.T) {
	item := maizeFlour()
	item.CurrentStock = d("10")

	res, err := inventory.ApplyMovement(item, entity.MovementDamaged, d("10"), false, testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.StockStatusOutOfStock, res.Item.Status)
	require.NotNil(t, res.Alert)
	assert.Equal(t, entity.AlertSeverityCritical, res.Alert.Severity)
	assert.Equal(t, entity.AlertTypeStockOut, res.Alert.Type)
	assert.Contains(t, res.Alert.Message, "out of stock")
}

func TestApplyMovement_CompraResuelveAlerta(t *testing.T) {
	item := maizeFlour()
	item.CurrentStock = d("20")
	item.Status = entity.StockStatusCriticallyLow

	res, err := inventory.ApplyMovement(item, entity.MovementPurchase, d("300"), true, testNow)
	require.NoError(t, err)
	assert.True(t, res.Item.CurrentStock.Equal(d("320")))
	assert.Equal(t, entity.StockStatusOverstocked, res.Item.Status)
	assert.Equal(t, inventory.TransitionResolve, res.Transition)
	require.NotNil(t, res.Item.LastRestocked)
	assert.Equal(t, testNow, *res.Item.LastRestocked)
}

func TestApplyMovement_SinLimiteInferior(t *testing.T) {
	item := maizeFlour()
	item.CurrentStock = d("5")

	res, err := inventory.ApplyMovement(item, entity.MovementSale, d("8"), false, testNow)
	require.NoError(t, err)
	assert.True(t, res.Item.CurrentStock.Equal(d("-3")), "el stock no se limita a cero")
	assert.Equal(t, entity.StockStatusCriticallyLow, res.Item.Status)
	assert.True(t, res.Movement.StockBefore.Equal(d("5")))
	assert.True(t, res.Movement.StockAfter.Equal(d("-3")))
	assert.True(t, res.Movement.SignedDelta.Equal(d("-8")))
}

func TestApplyMovement_SignoPorTipo(t *testing.T) {
	cases := map[entity.MovementKind]string{
		entity.MovementSale:       "90",
		entity.MovementDamaged:    "90",
		entity.MovementExpired:    "90",
		entity.MovementTransfer:   "90",
		entity.MovementPurchase:   "110",
		entity.MovementReturn:     "110",
		entity.MovementAdjustment: "110",
	}
	for kind, want := range cases {
		item := maizeFlour()
		item.CurrentStock = d("100")
		res, err := inventory.ApplyMovement(item, kind, d("10"), false, testNow)
		require.NoError(t, err, string(kind))
		assert.True(t, res.Item.CurrentStock.Equal(d(want)), "%s: got %s", kind, res.Item.CurrentStock)
	}
}

func TestApplyMovement_CantidadNoPositiva(t *testing.T) {
	item := maizeFlour()
	for _, q := range []string{"0", "-1"} {
		_, err := inventory.ApplyMovement(item, entity.MovementSale, d(q), false, testNow)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "quantity", ve.Field)
	}
}

func TestApplyMovement_TipoDesconocido(t *testing.T) {
	_, err := inventory.ApplyMovement(maizeFlour(), entity.MovementKind("Theft"), d("1"), false, testNow)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Field)
}

func TestApplyMovement_ProductoInactivo(t *testing.T) {
	item := maizeFlour()
	item.IsActive = false
	_, err := inventory.ApplyMovement(item, entity.MovementSale, d("1"), false, testNow)
	assert.ErrorIs(t, err, domain.ErrInactiveItem)
}

func TestApplyMovement_NoMutaEntrada(t *testing.T) {
	item := maizeFlour()
	_, err := inventory.ApplyMovement(item, entity.MovementSale, d("200"), false, testNow)
	require.NoError(t, err)
	assert.True(t, item.CurrentStock.Equal(d("250")))
	assert.Equal(t, entity.StockStatusOverstocked, item.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reclassify / umbrales
// ──────────────────────────────────────────────────────────────────────────────

func TestReclassify_SubirMinimoAbreAlerta(t *testing.T) {
	item := maizeFlour()
	item.CurrentStock = d("60")
	item.Status = entity.StockStatusLow
	item.MinimumStock = d("200")

	res := inventory.Reclassify(item, false, testNow)
	assert.Equal(t, entity.StockStatusCriticallyLow, res.Item.Status)
	assert.True(t, res.StatusChanged)
	assert.Equal(t, inventory.TransitionOpen, res.Transition)
	require.NotNil(t, res.Alert)
}

func TestValidateThresholds(t *testing.T) {
	assert.NoError(t, inventory.ValidateThresholds(d("0"), d("0"), d("0")))
	err := inventory.ValidateThresholds(d("-1"), d("10"), d("5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// EstimateDaysRemaining
// ──────────────────────────────────────────────────────────────────────────────

func TestEstimateDaysRemaining(t *testing.T) {
	item := maizeFlour()
	days, ok := inventory.EstimateDaysRemaining(&item, d("3"))
	require.True(t, ok)
	assert.True(t, days.Equal(d("83.33")), "got %s", days)

	_, ok = inventory.EstimateDaysRemaining(&item, decimal.Zero)
	assert.False(t, ok, "consumo cero no divide")
}
