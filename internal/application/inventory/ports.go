package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre stock, auditoría, alertas y ventas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		alertRepo repository.StockAlertRepository,
		movRepo repository.StockMovementRepository,
		salesRepo repository.SalesTransactionRepository,
	) error) error
}

// Deps colaboradores compartidos por los casos de uso de inventario.
// Events, Notifier, Metrics y Log son opcionales.
type Deps struct {
	Tx        TxRunner
	Items     repository.InventoryItemRepository
	Alerts    repository.StockAlertRepository
	Movements repository.StockMovementRepository
	Sales     repository.SalesTransactionRepository
	Analytics ports.ConsumptionAnalytics
	Events    ports.EventPublisher
	Notifier  ports.Notifier
	Metrics   ports.LedgerMetrics
	Log       *logger.Logger
	Now       func() time.Time
	// ConsumptionWindow ventana del promedio de consumo para DaysOfStockRemaining.
	ConsumptionWindow time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Events == nil {
		d.Events = nopEvents{}
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Metrics == nil {
		d.Metrics = nopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.ConsumptionWindow <= 0 {
		d.ConsumptionWindow = 30 * 24 * time.Hour
	}
	return d
}

type nopEvents struct{}

func (nopEvents) PublishInventoryEvent(context.Context, ports.Event) error { return nil }
func (nopEvents) PublishSalesEvent(context.Context, ports.Event) error     { return nil }
func (nopEvents) PublishAlertEvent(context.Context, ports.Event) error     { return nil }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ports.Notification) {}

type nopMetrics struct{}

func (nopMetrics) MovementApplied(string)       {}
func (nopMetrics) StatusChanged(string, string) {}
func (nopMetrics) AlertTransition(string)       {}
func (nopMetrics) SaleRecorded(string)          {}
