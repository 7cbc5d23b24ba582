// Package realtime reparte notificaciones push a los clientes conectados, agrupados por
// producto y por ubicación.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
	"github.com/jhoicas/inventory-predictor/pkg/textkey"
)

var _ ports.Notifier = (*Hub)(nil)

const defaultQueueSize = 64

// Message lo que recibe el cliente por el socket.
type Message struct {
	Event     string    `json:"event"`
	ProductID string    `json:"product_id,omitempty"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// ProductGroup grupo de suscriptores de un producto.
func ProductGroup(productID string) string { return "product:" + productID }

// LocationGroup grupo de suscriptores de una ubicación; el nombre se normaliza
// ("Nairobi Warehouse" y "nairobi_warehouse" son el mismo grupo).
func LocationGroup(location string) string { return "location:" + textkey.Normalize(location) }

// Client conexión registrada en el hub. Send se cierra al desregistrar.
type Client struct {
	ID     string
	send   chan []byte
	groups map[string]struct{}
}

// Send cola de salida del cliente.
func (c *Client) Send() <-chan []byte { return c.send }

// Hub registro de clientes y grupos. Entrega at-most-once: si la cola del cliente
// está llena el mensaje se descarta para ese cliente.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	groups    map[string]map[*Client]struct{}
	queueSize int
	dropped   atomic.Int64
	log       *logger.Logger
	now       func() time.Time
}

// NewHub construye el hub. queueSize <= 0 usa 64.
func NewHub(queueSize int, log *logger.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:   make(map[*Client]struct{}),
		groups:    make(map[string]map[*Client]struct{}),
		queueSize: queueSize,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register da de alta un cliente nuevo.
func (h *Hub) Register() *Client {
	c := &Client{
		ID:     uuid.NewString(),
		send:   make(chan []byte, h.queueSize),
		groups: make(map[string]struct{}),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unregister quita al cliente de todos sus grupos y cierra su cola. Idempotente.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	for g := range c.groups {
		h.leave(c, g)
	}
	delete(h.clients, c)
	close(c.send)
}

// Subscribe agrega el cliente al grupo.
func (h *Hub) Subscribe(c *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.groups[group]
	if !ok {
		members = make(map[*Client]struct{})
		h.groups[group] = members
	}
	members[c] = struct{}{}
	c.groups[group] = struct{}{}
}

// Unsubscribe saca el cliente del grupo.
func (h *Hub) Unsubscribe(c *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(c, group)
}

// leave requiere h.mu tomado.
func (h *Hub) leave(c *Client, group string) {
	delete(c.groups, group)
	if members, ok := h.groups[group]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
}

// Notify entrega n a todos los clientes (Broadcast) o a los grupos del producto y la ubicación.
func (h *Hub) Notify(_ context.Context, n ports.Notification) {
	data, err := json.Marshal(Message{
		Event:     n.Event,
		ProductID: n.ProductID,
		Location:  n.Location,
		Timestamp: h.now(),
		Data:      n.Payload,
	})
	if err != nil {
		h.log.Error().Err(err).Str("event", n.Event).Msg("serializar notificación")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if n.Broadcast {
		for c := range h.clients {
			h.deliver(c, data, n.Event)
		}
		return
	}
	seen := make(map[*Client]struct{})
	for _, g := range h.targets(n) {
		for c := range h.groups[g] {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			h.deliver(c, data, n.Event)
		}
	}
}

func (h *Hub) targets(n ports.Notification) []string {
	var out []string
	if n.ProductID != "" {
		out = append(out, ProductGroup(n.ProductID))
	}
	if n.Location != "" {
		out = append(out, LocationGroup(n.Location))
	}
	return out
}

func (h *Hub) deliver(c *Client, data []byte, event string) {
	select {
	case c.send <- data:
	default:
		h.dropped.Add(1)
		h.log.Warn().Str("client", c.ID).Str("event", event).Msg("cola llena, notificación descartada")
	}
}

// Clients número de clientes conectados.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped mensajes descartados por colas llenas desde el arranque.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }
