package ws

import (
	"github.com/go-demo/party/internal/service"
	"go.uber.org/zap"
)

type broadcast struct {
	slug string
	data []byte
}

// Hub fans room events out to subscribed clients. All subscription state
// is owned by the run loop; the only synchronization is the channels.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcasts chan broadcast
	logger     *zap.Logger
}

// NewHub creates a new hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcasts: make(chan broadcast, 256),
		logger:     logger,
	}
}

// Run processes hub events; call it in its own goroutine
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			clients, ok := h.rooms[client.slug]
			if !ok {
				clients = make(map[*Client]bool)
				h.rooms[client.slug] = clients
			}
			clients[client] = true

			h.logger.Debug("Client subscribed",
				zap.String("slug", client.slug),
				zap.Int("subscribers", len(clients)),
			)

		case client := <-h.unregister:
			if clients, ok := h.rooms[client.slug]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.slug)
					}
				}
			}

		case msg := <-h.broadcasts:
			for client := range h.rooms[msg.slug] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer: drop it rather than stall the room.
					delete(h.rooms[msg.slug], client)
					close(client.send)
				}
			}
		}
	}
}

// Register subscribes a client to its room
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Publish implements service.EventPublisher. It never blocks the caller;
// when the broadcast buffer is full the event is dropped and logged.
func (h *Hub) Publish(slug string, event service.Event) {
	data, err := encodeEvent(slug, event)
	if err != nil {
		h.logger.Error("Failed to encode room event",
			zap.String("slug", slug),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return
	}

	select {
	case h.broadcasts <- broadcast{slug: slug, data: data}:
	default:
		h.logger.Warn("Dropping room event, broadcast buffer full",
			zap.String("slug", slug),
			zap.String("type", event.Type),
		)
	}
}
