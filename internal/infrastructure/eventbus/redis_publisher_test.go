package eventbus_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/infrastructure/eventbus"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

type fakeStream struct {
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	cmd := redis.NewStringCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal("1700000000000-0")
	}
	return cmd
}

var streams = eventbus.Streams{Inventory: "inventory-updates", Sales: "sales-transactions", Alerts: "alert-events"}

func TestFields(t *testing.T) {
	at := time.Date(2026, 4, 2, 8, 15, 0, 123, time.FixedZone("EAT", 3*3600))
	f, err := eventbus.Fields(ports.Event{
		Type: ports.EventStockMovement, Key: "p1", OccurredAt: at,
		Payload: map[string]any{"quantity": "5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "StockMovement", f["event_type"])
	assert.Equal(t, "p1", f["key"])
	assert.Equal(t, "2026-04-02T05:15:00.000000123Z", f["timestamp"])
	assert.JSONEq(t, `{"quantity":"5"}`, f["payload"].(string))
}

func TestFields_PayloadNoSerializable(t *testing.T) {
	_, err := eventbus.Fields(ports.Event{Type: "x", Payload: make(chan int)})
	assert.Error(t, err)
}

func TestPublish_StreamPorTipo(t *testing.T) {
	fs := &fakeStream{}
	p := eventbus.NewRedisPublisher(fs, streams, 10000, nil)
	ctx := context.Background()

	require.NoError(t, p.PublishInventoryEvent(ctx, ports.Event{Type: ports.EventStockMovement}))
	require.NoError(t, p.PublishSalesEvent(ctx, ports.Event{Type: ports.EventSaleRecorded}))
	require.NoError(t, p.PublishAlertEvent(ctx, ports.Event{Type: ports.EventAlertOpened}))

	require.Len(t, fs.calls, 3)
	assert.Equal(t, "inventory-updates", fs.calls[0].Stream)
	assert.Equal(t, "sales-transactions", fs.calls[1].Stream)
	assert.Equal(t, "alert-events", fs.calls[2].Stream)
	assert.Equal(t, int64(10000), fs.calls[0].MaxLen)
	assert.True(t, fs.calls[0].Approx)
}

func TestPublish_SinRecorte(t *testing.T) {
	fs := &fakeStream{}
	p := eventbus.NewRedisPublisher(fs, streams, 0, nil)
	require.NoError(t, p.PublishInventoryEvent(context.Background(), ports.Event{Type: "x"}))
	assert.Zero(t, fs.calls[0].MaxLen)
	assert.False(t, fs.calls[0].Approx)
}

func TestPublish_ErrorDeRedis(t *testing.T) {
	fs := &fakeStream{err: errors.New("connection refused")}
	p := eventbus.NewRedisPublisher(fs, streams, 0, nil)
	err := p.PublishAlertEvent(context.Background(), ports.Event{Type: ports.EventAlertResolved})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alert-events")
}

func TestNopPublisher_RegistraEnDebug(t *testing.T) {
	var buf bytes.Buffer
	p := eventbus.NewNopPublisher(logger.NewWithWriter(&buf, "debug"))
	require.NoError(t, p.PublishSalesEvent(context.Background(), ports.Event{Type: ports.EventSaleRecorded, Key: "p1"}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "SaleRecorded", line["event_type"])
}
