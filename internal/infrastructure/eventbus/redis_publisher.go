// Package eventbus publica los eventos de integración del inventario.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/pkg/config"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

var _ ports.EventPublisher = (*RedisPublisher)(nil)

// StreamAdder lo que el publicador usa de *redis.Client.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Streams nombres de los streams destino.
type Streams struct {
	Inventory string
	Sales     string
	Alerts    string
}

// RedisPublisher escribe cada evento con XADD en su stream. Campos: event_type, key, timestamp, payload.
type RedisPublisher struct {
	client  StreamAdder
	streams Streams
	maxLen  int64
	log     *logger.Logger
}

// NewRedisClient abre la conexión a Redis y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.EventBusConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewRedisPublisher construye el publicador. maxLen <= 0 desactiva el recorte del stream.
func NewRedisPublisher(client StreamAdder, streams Streams, maxLen int64, log *logger.Logger) *RedisPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisPublisher{client: client, streams: streams, maxLen: maxLen, log: log}
}

// PublishInventoryEvent evento de producto o movimiento.
func (p *RedisPublisher) PublishInventoryEvent(ctx context.Context, ev ports.Event) error {
	return p.publish(ctx, p.streams.Inventory, ev)
}

// PublishSalesEvent evento de venta o devolución.
func (p *RedisPublisher) PublishSalesEvent(ctx context.Context, ev ports.Event) error {
	return p.publish(ctx, p.streams.Sales, ev)
}

// PublishAlertEvent apertura o resolución de alerta.
func (p *RedisPublisher) PublishAlertEvent(ctx context.Context, ev ports.Event) error {
	return p.publish(ctx, p.streams.Alerts, ev)
}

func (p *RedisPublisher) publish(ctx context.Context, stream string, ev ports.Event) error {
	values, err := Fields(ev)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{Stream: stream, Values: values}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", stream, err)
	}
	p.log.Debug().Str("stream", stream).Str("event_type", ev.Type).Str("id", id).Msg("evento publicado")
	return nil
}

// Fields campos del mensaje del stream.
func Fields(ev ports.Event) (map[string]any, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("serializar payload %s: %w", ev.Type, err)
	}
	at := ev.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	return map[string]any{
		"event_type": ev.Type,
		"key":        ev.Key,
		"timestamp":  at.UTC().Format(time.RFC3339Nano),
		"payload":    string(payload),
	}, nil
}
