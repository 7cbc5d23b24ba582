package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-predictor/internal/infrastructure/realtime"
	"github.com/jhoicas/inventory-predictor/pkg/logger"
)

// subscription comando que envía el cliente por el socket.
//
//	{"action":"subscribe","product_id":"…"}
//	{"action":"unsubscribe","location":"Nairobi_Warehouse"}
type subscription struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Location  string `json:"location"`
}

// RealtimeHandler canal push /hubs/inventory sobre WebSocket.
type RealtimeHandler struct {
	hub *realtime.Hub
	log *logger.Logger
}

// NewRealtimeHandler construye el handler.
func NewRealtimeHandler(hub *realtime.Hub, log *logger.Logger) *RealtimeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RealtimeHandler{hub: hub, log: log}
}

// Upgrade rechaza con 426 lo que no sea un handshake WebSocket.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve atiende una conexión: lee comandos de suscripción y escribe lo que el hub encola.
func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := h.hub.Register()
		h.log.Debug().Str("client_id", client.ID).Msg("cliente conectado")

		// conn no se puede usar después de que este callback retorne.
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			h.writeLoop(conn, client)
		}()

		h.readLoop(conn, client)
		h.hub.Unregister(client)
		<-writerDone
		h.log.Debug().Str("client_id", client.ID).Msg("cliente desconectado")
	})
}

func (h *RealtimeHandler) readLoop(conn *websocket.Conn, client *realtime.Client) {
	for {
		var cmd subscription
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		groups := make([]string, 0, 2)
		if cmd.ProductID != "" {
			groups = append(groups, realtime.ProductGroup(cmd.ProductID))
		}
		if cmd.Location != "" {
			groups = append(groups, realtime.LocationGroup(cmd.Location))
		}
		if len(groups) == 0 {
			h.log.Debug().Str("client_id", client.ID).Str("action", cmd.Action).Msg("comando sin product_id ni location")
			continue
		}
		for _, g := range groups {
			switch cmd.Action {
			case "subscribe":
				h.hub.Subscribe(client, g)
			case "unsubscribe":
				h.hub.Unsubscribe(client, g)
			default:
				h.log.Debug().Str("client_id", client.ID).Str("action", cmd.Action).Msg("acción desconocida")
			}
		}
	}
}

// writeLoop termina cuando el hub cierra la cola del cliente o falla la escritura.
func (h *RealtimeHandler) writeLoop(conn *websocket.Conn, client *realtime.Client) {
	for data := range client.Send() {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			_ = conn.Close()
			return
		}
	}
}
