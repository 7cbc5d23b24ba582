package ports

import (
	"context"
	"time"
)

// Tipos de evento publicados en el bus.
const (
	EventInventoryItemCreated = "InventoryItemCreated"
	EventInventoryItemUpdated = "InventoryItemUpdated"
	EventStockMovement        = "StockMovement"
	EventSaleRecorded         = "SaleRecorded"
	EventAlertOpened          = "AlertOpened"
	EventAlertResolved        = "AlertResolved"
)

// Event mensaje de integración. Payload se serializa como JSON.
type Event struct {
	Type       string
	Key        string // id del agregado (producto)
	OccurredAt time.Time
	Payload    any
}

// EventPublisher puerto de salida hacia el bus de mensajes (fire-and-forget).
// Quien llama registra el error y continúa: una falla aquí nunca revierte la operación.
type EventPublisher interface {
	PublishInventoryEvent(ctx context.Context, event Event) error
	PublishSalesEvent(ctx context.Context, event Event) error
	PublishAlertEvent(ctx context.Context, event Event) error
}
