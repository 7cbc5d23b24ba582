package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/inventory-predictor/internal/application/inventory"
	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/application/prediction"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/eventbus"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/kusto"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventory-predictor/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/inventory-predictor/internal/interfaces/http"
	"github.com/jhoicas/inventory-predictor/pkg/config"
	"github.com/jhoicas/inventory-predictor/pkg/logger"

	_ "github.com/jhoicas/inventory-predictor/docs"
)

// @title        Inventory Predictor API
// @version      1.0
// @description  Ledger de stock, alertas y predicción de demanda.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Analítica de consumo: Postgres por defecto, Kusto si está configurado.
	var analytics ports.ConsumptionAnalytics
	switch cfg.Analytics.Backend {
	case config.AnalyticsBackendKusto:
		client, err := kusto.NewClient(kusto.Options{
			Endpoint: cfg.Analytics.Endpoint,
			Database: cfg.Analytics.Database,
			Token:    cfg.Analytics.Token,
			QPS:      cfg.Analytics.QPS,
			Timeout:  cfg.Analytics.Timeout,
			Log:      log.Component("kusto"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Kusto")
		}
		analytics = kusto.NewAnalytics(client)
	default:
		analytics = postgres.NewAnalyticsRepository(pool)
	}
	log.Info().Str("backend", cfg.Analytics.Backend).Msg("analítica de consumo")

	// Bus de eventos
	var events ports.EventPublisher = eventbus.NewNopPublisher(log.Component("eventbus"))
	if cfg.EventBus.Enabled {
		rdb, err := eventbus.NewRedisClient(ctx, cfg.EventBus)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.EventBus.RedisAddr()).Msg("conexión a Redis")
		}
		defer rdb.Close()
		events = eventbus.NewRedisPublisher(rdb, eventbus.Streams{
			Inventory: cfg.EventBus.InventoryStream,
			Sales:     cfg.EventBus.SalesStream,
			Alerts:    cfg.EventBus.AlertStream,
		}, cfg.EventBus.MaxLen, log.Component("eventbus"))
	}

	hub := realtime.NewHub(0, log.Component("realtime"))

	var ledgerMetrics ports.LedgerMetrics
	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.New()
		registry.WatchHub(hub)
		ledgerMetrics = registry
	}

	deps := inventory.Deps{
		Tx:        postgres.NewTxRunner(pool),
		Items:     postgres.NewInventoryItemRepository(pool),
		Alerts:    postgres.NewStockAlertRepository(pool),
		Movements: postgres.NewStockMovementRepository(pool),
		Sales:     postgres.NewSalesTransactionRepository(pool),
		Analytics: analytics,
		Events:    events,
		Notifier:  hub,
		Metrics:   ledgerMetrics,
		Log:       log.Component("inventory"),
	}
	itemUC := inventory.NewItemUseCase(deps)
	movementUC := inventory.NewMovementUseCase(deps)
	salesUC := inventory.NewSalesUseCase(deps)
	alertUC := inventory.NewAlertUseCase(deps.Alerts)
	predictionSvc := prediction.NewService(prediction.Deps{
		Items:     deps.Items,
		Analytics: analytics,
		Notifier:  hub,
		Log:       log.Component("prediction"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	if registry != nil {
		app.Use(httpRouter.Metrics(registry))
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(registry.Handler()))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Predictor API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "hub_clients": hub.Clients()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:       itemUC,
		Movements:   movementUC,
		Sales:       salesUC,
		Alerts:      alertUC,
		Predictions: predictionSvc,
		Report:      infrapdf.NewLowStockReport(cfg.App.Name),
		Hub:         hub,
		Log:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
