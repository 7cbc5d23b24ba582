package ports

import "context"

// Mensajes empujados a los clientes conectados al hub.
const (
	NotifyStockLevelChanged = "StockLevelChanged"
	NotifyNewAlert          = "NewAlert"
	NotifyAlertResolved     = "AlertResolved"
	NotifySaleRecorded      = "SaleRecorded"
	NotifyPredictionUpdated = "PredictionUpdated"
)

// Notification mensaje para el hub. Broadcast ignora los grupos y llega a todos los clientes;
// si no, se entrega a los suscriptores de product:<ProductID> y location:<Location>.
type Notification struct {
	Event     string
	ProductID string
	Location  string
	Broadcast bool
	Payload   any
}

// Notifier puerto de notificación push. Entrega at-most-once; no devuelve error.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
