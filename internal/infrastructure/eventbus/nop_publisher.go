package eventbus

import (
	"context"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

var _ ports.EventPublisher = (*NopPublisher)(nil)

// NopPublisher se usa con el bus deshabilitado: solo deja constancia en debug.
type NopPublisher struct {
	log *logger.Logger
}

// NewNopPublisher construye el publicador nulo.
func NewNopPublisher(log *logger.Logger) *NopPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &NopPublisher{log: log}
}

func (p *NopPublisher) PublishInventoryEvent(_ context.Context, ev ports.Event) error {
	return p.skip("inventory", ev)
}

func (p *NopPublisher) PublishSalesEvent(_ context.Context, ev ports.Event) error {
	return p.skip("sales", ev)
}

func (p *NopPublisher) PublishAlertEvent(_ context.Context, ev ports.Event) error {
	return p.skip("alerts", ev)
}

func (p *NopPublisher) skip(stream string, ev ports.Event) error {
	p.log.Debug().Str("stream", stream).Str("event_type", ev.Type).Str("key", ev.Key).Msg("bus deshabilitado, evento descartado")
	return nil
}
