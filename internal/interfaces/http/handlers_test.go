package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/realtime"
	apphttp "github.com/jhoicas/inventory-predictor/internal/interfaces/http"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

const (
	productID = "0b7f3c1e-6f7a-4e3b-9a55-8c2d7a1e4f10"
	alertID   = "5d2e8a94-1c3b-4f6d-8e7a-2b9c0d1e3f42"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeItems struct {
	created    *dto.CreateInventoryItemRequest
	updated    *dto.UpdateInventoryItemRequest
	location   string
	getErr     error
	updateErr  error
	listFilter *dto.InventoryItemFilter
	lowStock   []*entity.InventoryItem
}

func (f *fakeItems) Create(_ context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	f.created = &in
	return &dto.InventoryItemResponse{ID: productID, ProductCode: in.ProductCode, Status: "Optimal"}, nil
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*dto.InventoryItemResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &dto.InventoryItemResponse{ID: id}, nil
}

func (f *fakeItems) List(_ context.Context, flt dto.InventoryItemFilter) (*dto.InventoryItemListResponse, error) {
	f.listFilter = &flt
	return &dto.InventoryItemListResponse{Items: []dto.InventoryItemResponse{}}, nil
}

func (f *fakeItems) Update(_ context.Context, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = &in
	return &dto.InventoryItemResponse{ID: id, Version: in.Version + 1}, nil
}

func (f *fakeItems) Deactivate(context.Context, string) error { return nil }

func (f *fakeItems) LowStock(context.Context) ([]dto.InventoryItemResponse, error) {
	return []dto.InventoryItemResponse{{ID: "low"}}, nil
}

func (f *fakeItems) LowStockItems(context.Context) ([]*entity.InventoryItem, error) {
	return f.lowStock, nil
}

func (f *fakeItems) ByLocation(_ context.Context, location string) ([]dto.InventoryItemResponse, error) {
	f.location = location
	return []dto.InventoryItemResponse{}, nil
}

type fakeMovements struct {
	err error
	got *dto.RegisterMovementRequest
}

func (f *fakeMovements) RegisterMovementFromRequest(_ context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = &in
	return &dto.MovementResponse{
		Item:            dto.InventoryItemResponse{ID: in.ProductID, Status: "Low"},
		PreviousStatus:  "Optimal",
		StatusChanged:   true,
		AlertTransition: "Open",
	}, nil
}

type fakeSales struct {
	filter *dto.SalesFilter
}

func (f *fakeSales) RecordSale(_ context.Context, in dto.RecordSaleRequest) (*dto.RecordSaleResponse, error) {
	return &dto.RecordSaleResponse{
		Transaction: dto.SalesTransactionResponse{ProductID: in.ProductID, Quantity: in.Quantity, Type: "Sale"},
	}, nil
}

func (f *fakeSales) List(_ context.Context, flt dto.SalesFilter) (*dto.SalesListResponse, error) {
	f.filter = &flt
	return &dto.SalesListResponse{Items: []dto.SalesTransactionResponse{}}, nil
}

type fakeAlerts struct {
	read string
}

func (f *fakeAlerts) List(context.Context, dto.AlertFilter) (*dto.AlertListResponse, error) {
	return &dto.AlertListResponse{Items: []dto.AlertResponse{}}, nil
}

func (f *fakeAlerts) GetByID(context.Context, string) (*dto.AlertResponse, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAlerts) MarkRead(_ context.Context, id string) (*dto.AlertResponse, error) {
	f.read = id
	return &dto.AlertResponse{ID: id, IsRead: true}, nil
}

type fakePredictions struct {
	days       int
	runIDs     []string
	runDays    int
	runInvoked bool
}

func (f *fakePredictions) DemandForecast(_ context.Context, id string, days int) (*entity.PredictionResult, error) {
	f.days = days
	return &entity.PredictionResult{
		ProductID:          id,
		AverageDailyDemand: decimal.NewFromInt(10),
		DaysUntilStockOut:  -1,
		Trend:              entity.TrendStable,
	}, nil
}

func (f *fakePredictions) StockOutPredictions(context.Context, string, int) ([]entity.PredictionResult, error) {
	return []entity.PredictionResult{}, nil
}

func (f *fakePredictions) ReorderRecommendations(context.Context) ([]entity.ReorderRecommendation, error) {
	return []entity.ReorderRecommendation{{ProductID: productID, Urgency: "High"}}, nil
}

func (f *fakePredictions) RunModel(_ context.Context, ids []string, days int) (*dto.RunModelResponse, error) {
	f.runInvoked = true
	f.runIDs = ids
	f.runDays = days
	return &dto.RunModelResponse{Processed: len(ids)}, nil
}

type fakeReport struct{}

func (fakeReport) Generate(_ context.Context, items []*entity.InventoryItem, _ time.Time) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	mu  sync.Mutex
	got []observed
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, observed{method, route, status})
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	app         *fiber.App
	items       *fakeItems
	movements   *fakeMovements
	sales       *fakeSales
	alerts      *fakeAlerts
	predictions *fakePredictions
	observer    *fakeObserver
	logs        *bytes.Buffer
}

func newFixture() *fixture {
	f := &fixture{
		items:       &fakeItems{},
		movements:   &fakeMovements{},
		sales:       &fakeSales{},
		alerts:      &fakeAlerts{},
		predictions: &fakePredictions{},
		observer:    &fakeObserver{},
		logs:        &bytes.Buffer{},
	}
	log := logger.NewWithWriter(f.logs, "debug")
	f.app = fiber.New()
	f.app.Use(apphttp.RequestLogger(log))
	f.app.Use(apphttp.Metrics(f.observer))
	apphttp.Router(f.app, apphttp.RouterDeps{
		Items:       f.items,
		Movements:   f.movements,
		Sales:       f.sales,
		Alerts:      f.alerts,
		Predictions: f.predictions,
		Report:      fakeReport{},
		Hub:         realtime.NewHub(4, log),
		Log:         log,
		Now:         func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventory
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Devuelve201(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "POST", "/api/v1/inventory", `{
		"product_code":"P001","product_name":"Maize Flour 2kg","unit":"pieces",
		"location":"Nairobi_Warehouse","current_stock":"500","minimum_stock":100,"unit_price":"1.50"
	}`)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, f.items.created)
	assert.True(t, f.items.created.CurrentStock.Equal(decimal.NewFromInt(500)))
	assert.True(t, f.items.created.MinimumStock.Equal(decimal.NewFromInt(100)))

	var out dto.InventoryItemResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "P001", out.ProductCode)
}

func TestCreate_CamposFaltantesDevuelve400ConDetalle(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "POST", "/api/v1/inventory", `{"product_name":"x","unit":"pieces"}`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, raw)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "product_code")
	assert.Contains(t, e.Fields, "location")
	assert.Nil(t, f.items.created, "no debe llegar al caso de uso")
}

func TestCreate_JSONInvalido(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "POST", "/api/v1/inventory", `{"product_code":`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, raw).Code)
}

func TestGetByID_NoEncontrado(t *testing.T) {
	f := newFixture()
	f.items.getErr = domain.ErrNotFound
	resp, raw := f.do(t, "GET", "/api/v1/inventory/"+productID, "")

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

func TestUpdate_VersionDesactualizadaDevuelve409(t *testing.T) {
	f := newFixture()
	f.items.updateErr = domain.ErrConflict
	resp, raw := f.do(t, "PUT", "/api/v1/inventory/"+productID, `{"minimum_stock":"40","version":3}`)

	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, raw).Code)
}

func TestUpdate_SinVersionDevuelve400(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "PUT", "/api/v1/inventory/"+productID, `{"minimum_stock":"40"}`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Fields, "version")
}

func TestDeactivate_Devuelve204(t *testing.T) {
	f := newFixture()
	resp, _ := f.do(t, "DELETE", "/api/v1/inventory/"+productID, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestList_ParseaFiltroYPaginacion(t *testing.T) {
	f := newFixture()
	resp, _ := f.do(t, "GET", "/api/v1/inventory?location=Mombasa_Store&status=Low&page=2&page_size=20", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, f.items.listFilter)
	assert.Equal(t, "Mombasa_Store", f.items.listFilter.Location)
	assert.Equal(t, "Low", f.items.listFilter.Status)
	assert.Equal(t, 2, f.items.listFilter.Page)
	assert.Equal(t, 20, f.items.listFilter.PageSize)
}

func TestList_PageSizeExcedidoDevuelve400(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "GET", "/api/v1/inventory?page_size=1000", "")

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Fields, "page_size")
}

func TestRutasFijasAntesDeID(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "GET", "/api/v1/inventory/low-stock", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out []dto.InventoryItemResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "low", out[0].ID)
}

func TestByLocation_DecodificaLaRuta(t *testing.T) {
	f := newFixture()
	resp, _ := f.do(t, "GET", "/api/v1/inventory/by-location/Nairobi%20Warehouse", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Nairobi Warehouse", f.items.location)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movements
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Devuelve201(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "POST", "/api/v1/inventory/movement",
		`{"product_id":"`+productID+`","type":"Sale","quantity":"60"}`)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, f.movements.got)
	assert.True(t, f.movements.got.Quantity.Equal(decimal.NewFromInt(60)))

	var out dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Open", out.AlertTransition)
	assert.True(t, out.StatusChanged)
}

func TestRegisterMovement_ProductIDNoUUID(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "POST", "/api/v1/inventory/movement", `{"product_id":"abc","type":"Sale","quantity":"1"}`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "debe ser un UUID", decodeError(t, raw).Fields["product_id"])
}

func TestRegisterMovement_ErroresDeDominio(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validacion", domain.NewValidationError("quantity", "debe ser mayor que cero"), fiber.StatusBadRequest, "VALIDATION"},
		{"inactivo", domain.ErrInactiveItem, fiber.StatusUnprocessableEntity, "INACTIVE_ITEM"},
		{"no_encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"interno", errors.New("conexión perdida"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.movements.err = tc.err
			resp, raw := f.do(t, "POST", "/api/v1/inventory/movement",
				`{"product_id":"`+productID+`","type":"Sale","quantity":"0"}`)

			require.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, raw).Code)
		})
	}
}

func TestRegisterMovement_ValidacionIncluyeCampo(t *testing.T) {
	f := newFixture()
	f.movements.err = domain.NewValidationError("quantity", "debe ser mayor que cero")
	_, raw := f.do(t, "POST", "/api/v1/inventory/movement",
		`{"product_id":"`+productID+`","type":"Sale","quantity":"0"}`)

	assert.Equal(t, "debe ser mayor que cero", decodeError(t, raw).Fields["quantity"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Sales / Alerts
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_Devuelve201(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "POST", "/api/v1/sales", `{"product_id":"`+productID+`","quantity":"3","channel":"Online"}`)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out dto.RecordSaleResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, productID, out.Transaction.ProductID)
}

func TestRecordSale_CanalDesconocido(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "POST", "/api/v1/sales", `{"product_id":"`+productID+`","quantity":"3","channel":"Fax"}`)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Fields, "channel")
}

func TestListSales_ParseaFechas(t *testing.T) {
	f := newFixture()
	resp, _ := f.do(t, "GET", "/api/v1/sales?product_id="+productID+"&from=2026-01-01&to=2026-01-31", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, f.sales.filter)
	assert.Equal(t, "2026-01-01", f.sales.filter.From)
	assert.Equal(t, "2026-01-31", f.sales.filter.To)
}

func TestAlertas_GetYMarcarLeida(t *testing.T) {
	f := newFixture()

	resp, _ := f.do(t, "GET", "/api/v1/alerts/"+alertID, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, raw := f.do(t, "PATCH", "/api/v1/alerts/"+alertID+"/read", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, alertID, f.alerts.read)
	var out dto.AlertResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.IsRead)
}

func TestRutasConID_IDNoUUIDEs404SinTocarElServicio(t *testing.T) {
	cases := []struct {
		name, method, target, body string
	}{
		{"inventario get", "GET", "/api/v1/inventory/abc", ""},
		{"inventario update", "PUT", "/api/v1/inventory/abc", `{"minimum_stock":"40","version":3}`},
		{"inventario deactivate", "DELETE", "/api/v1/inventory/abc", ""},
		{"alerta get", "GET", "/api/v1/alerts/abc", ""},
		{"alerta marcar leída", "PATCH", "/api/v1/alerts/abc/read", ""},
		{"demanda", "GET", "/api/v1/predictions/demand/abc?days=14", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			resp, raw := f.do(t, tc.method, tc.target, tc.body)

			require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
			assert.Nil(t, f.items.updated)
			assert.Empty(t, f.alerts.read)
			assert.Zero(t, f.predictions.days)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Predictions / Report
// ──────────────────────────────────────────────────────────────────────────────

func TestDemand_PasaDiasYMapea(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "GET", "/api/v1/predictions/demand/"+productID+"?days=14", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 14, f.predictions.days)
	var out dto.PredictionResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, -1, out.DaysUntilStockOut)
	assert.Equal(t, "Stable", out.Trend)
}

func TestDemand_DiasNoNumerico(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "GET", "/api/v1/predictions/demand/"+productID+"?days=abc", "")

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUERY", decodeError(t, raw).Code)
}

func TestRun_SinCuerpoRecalculaTodo(t *testing.T) {
	f := newFixture()
	resp, _ := f.do(t, "POST", "/api/v1/predictions/run", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, f.predictions.runInvoked)
	assert.Empty(t, f.predictions.runIDs)
	assert.Zero(t, f.predictions.runDays)
}

func TestRun_IDsInvalidos(t *testing.T) {
	f := newFixture()
	resp, _ := f.do(t, "POST", "/api/v1/predictions/run", `{"product_ids":["no-es-uuid"]}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, f.predictions.runInvoked)
}

func TestReorderRecommendations(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "GET", "/api/v1/predictions/reorder-recommendations", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out []dto.ReorderRecommendationResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "High", out[0].Urgency)
}

func TestLowStockPDF_Cabeceras(t *testing.T) {
	f := newFixture()
	resp, raw := f.do(t, "GET", "/api/v1/inventory/low-stock/report.pdf", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "low-stock-20260301.pdf")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Infra
// ──────────────────────────────────────────────────────────────────────────────

func TestHub_SinUpgradeDevuelve426(t *testing.T) {
	f := newFixture()
	resp, _ := f.do(t, "GET", "/hubs/inventory", "")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestMetrics_RegistraPatronDeRuta(t *testing.T) {
	f := newFixture()
	f.items.getErr = domain.ErrNotFound
	f.do(t, "GET", "/api/v1/inventory/"+productID, "")

	require.NotEmpty(t, f.observer.got)
	last := f.observer.got[len(f.observer.got)-1]
	assert.Equal(t, "GET", last.method)
	assert.Equal(t, "/api/v1/inventory/:id", last.route)
	assert.Equal(t, fiber.StatusNotFound, last.status)
}

func TestRequestLogger_ErrorInternoConCausa(t *testing.T) {
	f := newFixture()
	f.movements.err = errors.New("conexión perdida")
	f.do(t, "POST", "/api/v1/inventory/movement", `{"product_id":"`+productID+`","type":"Sale","quantity":"1"}`)

	logs := f.logs.String()
	assert.Contains(t, logs, `"level":"error"`)
	assert.Contains(t, logs, "conexión perdida")
	assert.Contains(t, logs, `"status":500`)
}
