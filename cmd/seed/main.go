// seed puebla la base con productos de ejemplo y 90 días de historial de ventas.
//
// Uso: go run ./cmd/seed [-products 20] [-sales 1000] [-seed 42]
//
// Es idempotente por código de producto: los productos que ya existen no se tocan
// y no reciben historial nuevo. Al final recalcula los días de stock restantes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/application/dto"
	"github.com/jhoicas/inventory-predictor/internal/application/inventory"
	"github.com/jhoicas/inventory-predictor/internal/application/prediction"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-predictor/pkg/config"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

const historyDays = 90

var locations = []string{"Nairobi_Warehouse", "Mombasa_Store", "Kisumu_Depot"}

// catálogo base; el resto se completa con nombres generados.
var baseProducts = []dto.CreateInventoryItemRequest{
	{ProductCode: "P001", ProductName: "Maize Flour 2kg", Category: "Food", Unit: "kg", Supplier: "Unga Limited",
		CurrentStock: decimal.NewFromInt(500), MinimumStock: decimal.NewFromInt(100), MaximumStock: decimal.NewFromInt(1000),
		ReorderPoint: decimal.NewFromInt(150), OptimalOrderQuantity: decimal.NewFromInt(400), UnitPrice: decimal.RequireFromString("1.50"), LeadTimeDays: 3},
	{ProductCode: "P002", ProductName: "Cooking Oil 1L", Category: "Food", Unit: "liters", Supplier: "Bidco Africa",
		CurrentStock: decimal.NewFromInt(80), MinimumStock: decimal.NewFromInt(50), MaximumStock: decimal.NewFromInt(400),
		ReorderPoint: decimal.NewFromInt(75), OptimalOrderQuantity: decimal.NewFromInt(200), UnitPrice: decimal.RequireFromString("3.20"), LeadTimeDays: 5},
	{ProductCode: "P003", ProductName: "Sugar 1kg", Category: "Food", Unit: "kg", Supplier: "Mumias Sugar",
		CurrentStock: decimal.NewFromInt(30), MinimumStock: decimal.NewFromInt(60), MaximumStock: decimal.NewFromInt(500),
		ReorderPoint: decimal.NewFromInt(90), OptimalOrderQuantity: decimal.NewFromInt(250), UnitPrice: decimal.RequireFromString("1.10"), LeadTimeDays: 4},
	{ProductCode: "P004", ProductName: "Rice 5kg", Category: "Food", Unit: "kg", Supplier: "Mwea Rice Mills",
		CurrentStock: decimal.NewFromInt(220), MinimumStock: decimal.NewFromInt(40), MaximumStock: decimal.NewFromInt(300),
		ReorderPoint: decimal.NewFromInt(60), OptimalOrderQuantity: decimal.NewFromInt(120), UnitPrice: decimal.RequireFromString("7.80"), LeadTimeDays: 7},
	{ProductCode: "P005", ProductName: "Milk 500ml", Category: "Dairy", Unit: "pieces", Supplier: "Brookside Dairy",
		CurrentStock: decimal.NewFromInt(10), MinimumStock: decimal.NewFromInt(80), MaximumStock: decimal.NewFromInt(600),
		ReorderPoint: decimal.NewFromInt(120), OptimalOrderQuantity: decimal.NewFromInt(300), UnitPrice: decimal.RequireFromString("0.60"), LeadTimeDays: 1},
}

func main() {
	products := flag.Int("products", 20, "productos totales a garantizar")
	sales := flag.Int("sales", 1000, "ventas históricas a generar para los productos nuevos")
	seed := flag.Int64("seed", 0, "semilla de gofakeit (0 = aleatoria)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewInventoryItemRepository(pool)
	deps := inventory.Deps{
		Tx:        postgres.NewTxRunner(pool),
		Items:     itemRepo,
		Alerts:    postgres.NewStockAlertRepository(pool),
		Movements: postgres.NewStockMovementRepository(pool),
		Sales:     postgres.NewSalesTransactionRepository(pool),
		Analytics: postgres.NewAnalyticsRepository(pool),
		Log:       log.Component("seed"),
	}
	itemUC := inventory.NewItemUseCase(deps)

	faker := gofakeit.New(uint64(*seed))
	created, skipped := 0, 0
	var fresh []*entity.InventoryItem
	for _, req := range catalog(faker, *products) {
		_, err := itemUC.Create(ctx, req)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
			continue
		case err != nil:
			log.Fatal().Err(err).Str("product_code", req.ProductCode).Msg("crear producto")
		}
		created++
		it, err := itemRepo.GetByProductCode(ctx, req.ProductCode)
		if err != nil || it == nil {
			log.Fatal().Err(err).Str("product_code", req.ProductCode).Msg("leer producto creado")
		}
		fresh = append(fresh, it)
	}

	written := 0
	if len(fresh) > 0 {
		written, err = backfillSales(ctx, deps.Tx, faker, fresh, *sales, time.Now().UTC())
		if err != nil {
			log.Fatal().Err(err).Msg("historial de ventas")
		}
	}

	svc := prediction.NewService(prediction.Deps{Items: itemRepo, Analytics: deps.Analytics, Log: log.Component("prediction")})
	run, err := svc.RunModel(ctx, nil, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("recalcular días de stock")
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Int("sales", written).
		Int("updated", run.Updated).
		Msg("seed completado")
}

// catalog productos base más generados hasta completar n, repartidos entre ubicaciones.
func catalog(f *gofakeit.Faker, n int) []dto.CreateInventoryItemRequest {
	out := make([]dto.CreateInventoryItemRequest, 0, n)
	for i, p := range baseProducts {
		if i >= n {
			return out
		}
		p.Location = locations[i%len(locations)]
		out = append(out, p)
	}
	for i := len(out); i < n; i++ {
		minimum := f.IntRange(20, 150)
		out = append(out, dto.CreateInventoryItemRequest{
			ProductCode:          fmt.Sprintf("P%03d", i+1),
			ProductName:          f.ProductName(),
			Category:             f.ProductCategory(),
			Unit:                 f.RandomString([]string{"pieces", "kg", "liters", "boxes"}),
			Location:             locations[i%len(locations)],
			Supplier:             f.Company(),
			CurrentStock:         decimal.NewFromInt(int64(f.IntRange(0, minimum*6))),
			MinimumStock:         decimal.NewFromInt(int64(minimum)),
			MaximumStock:         decimal.NewFromInt(int64(minimum * 8)),
			ReorderPoint:         decimal.NewFromInt(int64(minimum * 3 / 2)),
			OptimalOrderQuantity: decimal.NewFromInt(int64(minimum * 3)),
			UnitPrice:            decimal.NewFromFloat(f.Price(0.5, 25)).Round(2),
			LeadTimeDays:         f.IntRange(1, 10),
		})
	}
	return out
}

// backfillSales inserta ventas pasadas sin mover stock: el stock inicial ya refleja ese historial.
func backfillSales(ctx context.Context, tx inventory.TxRunner, f *gofakeit.Faker, items []*entity.InventoryItem, n int, now time.Time) (int, error) {
	err := tx.Run(ctx, func(_ repository.InventoryItemRepository, _ repository.StockAlertRepository, _ repository.StockMovementRepository, salesRepo repository.SalesTransactionRepository) error {
		for i := 0; i < n; i++ {
			it := items[f.IntN(len(items))]
			qty := decimal.NewFromInt(int64(f.IntRange(1, 49)))
			sale := &entity.SalesTransaction{
				ID:              uuid.New().String(),
				ProductID:       it.ID,
				ProductCode:     it.ProductCode,
				ProductName:     it.ProductName,
				Quantity:        qty,
				UnitPrice:       it.UnitPrice,
				TotalAmount:     qty.Mul(it.UnitPrice),
				TransactionDate: now.AddDate(0, 0, -f.IntRange(0, historyDays-1)).Add(-time.Duration(f.IntRange(0, 23)) * time.Hour),
				Location:        it.Location,
				Channel:         f.RandomString([]string{"Store", "Online", "Mobile"}),
				CustomerID:      fmt.Sprintf("CUST%03d", f.IntRange(1, 99)),
				PaymentMethod:   paymentMethod(f),
				ExternalRef:     "TXN" + strings.ReplaceAll(uuid.New().String(), "-", ""),
				Type:            entity.TransactionTypeSale,
			}
			if err := salesRepo.Create(ctx, sale); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// paymentMethod M-Pesa 65 %, Cash 25 %, Card 8 %, Bank_Transfer 2 %.
func paymentMethod(f *gofakeit.Faker) string {
	switch r := f.IntN(100); {
	case r < 65:
		return "M-Pesa"
	case r < 90:
		return "Cash"
	case r < 98:
		return "Card"
	default:
		return "Bank_Transfer"
	}
}
