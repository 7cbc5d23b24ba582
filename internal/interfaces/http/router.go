package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/realtime"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

// ItemService casos de uso de productos rastreados.
type ItemService interface {
	Create(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	GetByID(ctx context.Context, id string) (*dto.InventoryItemResponse, error)
	List(ctx context.Context, f dto.InventoryItemFilter) (*dto.InventoryItemListResponse, error)
	Update(ctx context.Context, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error)
	Deactivate(ctx context.Context, id string) error
	LowStock(ctx context.Context) ([]dto.InventoryItemResponse, error)
	LowStockItems(ctx context.Context) ([]*entity.InventoryItem, error)
	ByLocation(ctx context.Context, location string) ([]dto.InventoryItemResponse, error)
}

// MovementService registro de movimientos de stock.
type MovementService interface {
	RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error)
}

// SalesService ventas y devoluciones.
type SalesService interface {
	RecordSale(ctx context.Context, in dto.RecordSaleRequest) (*dto.RecordSaleResponse, error)
	List(ctx context.Context, f dto.SalesFilter) (*dto.SalesListResponse, error)
}

// AlertService consulta y lectura de alertas.
type AlertService interface {
	List(ctx context.Context, f dto.AlertFilter) (*dto.AlertListResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AlertResponse, error)
	MarkRead(ctx context.Context, id string) (*dto.AlertResponse, error)
}

// PredictionService pronósticos y recomendaciones.
type PredictionService interface {
	DemandForecast(ctx context.Context, productID string, days int) (*entity.PredictionResult, error)
	StockOutPredictions(ctx context.Context, location string, daysAhead int) ([]entity.PredictionResult, error)
	ReorderRecommendations(ctx context.Context) ([]entity.ReorderRecommendation, error)
	RunModel(ctx context.Context, productIDs []string, forecastDays int) (*dto.RunModelResponse, error)
}

// ReportGenerator genera el PDF de stock bajo.
type ReportGenerator interface {
	Generate(ctx context.Context, items []*entity.InventoryItem, generatedAt time.Time) ([]byte, error)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items       ItemService
	Movements   MovementService
	Sales       SalesService
	Alerts      AlertService
	Predictions PredictionService
	Report      ReportGenerator
	Hub         *realtime.Hub // nil deshabilita /hubs/inventory
	Log         *logger.Logger
	Now         func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}

	api := app.Group("/api/v1")

	// Inventory: las rutas fijas van antes de /:id
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Items, deps.Movements)
	reportHandler := NewReportHandler(deps.Items, deps.Report, deps.Now)
	inv.Get("/", inventoryHandler.List)
	inv.Post("/", inventoryHandler.Create)
	inv.Post("/movement", inventoryHandler.RegisterMovement)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/low-stock/report.pdf", reportHandler.LowStockPDF)
	inv.Get("/by-location/:location", inventoryHandler.ByLocation)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Put("/:id", inventoryHandler.Update)
	inv.Delete("/:id", inventoryHandler.Deactivate)

	// Sales
	sales := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.Sales)
	sales.Post("/", salesHandler.Record)
	sales.Get("/", salesHandler.List)

	// Alerts
	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.Alerts)
	alerts.Get("/", alertHandler.List)
	alerts.Get("/:id", alertHandler.GetByID)
	alerts.Patch("/:id/read", alertHandler.MarkRead)

	// Predictions
	predictions := api.Group("/predictions")
	predictionHandler := NewPredictionHandler(deps.Predictions)
	predictions.Get("/demand/:productId", predictionHandler.Demand)
	predictions.Get("/stockout", predictionHandler.StockOut)
	predictions.Get("/reorder-recommendations", predictionHandler.ReorderRecommendations)
	predictions.Post("/run", predictionHandler.Run)

	// Canal push
	if deps.Hub != nil {
		realtimeHandler := NewRealtimeHandler(deps.Hub, deps.Log.Component("realtime"))
		app.Use("/hubs/inventory", realtimeHandler.Upgrade)
		app.Get("/hubs/inventory", realtimeHandler.Serve())
	}
}
