package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/party/internal/dto/response"
	"github.com/go-demo/party/internal/model"
	"github.com/go-demo/party/internal/pkg/utils"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// RoomFinder resolves a slug to a live room before the upgrade
type RoomFinder interface {
	GetRoom(ctx context.Context, slug string) (*model.RoomWithPlayerCount, error)
}

// Handler upgrades subscribers onto the room event stream
type Handler struct {
	hub      *Hub
	rooms    RoomFinder
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, rooms RoomFinder, logger *zap.Logger) *Handler {
	return &Handler{
		hub:   hub,
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the web app's origin; the room
			// code is the only admission requirement.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Serve godoc
// @Summary Subscribe to room events
// @Description Upgrades to a WebSocket carrying join/leave/cheers/state events for one room
// @Tags rooms
// @Param slug path string true "Room code"
// @Success 101
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /ws/rooms/{slug} [get]
func (h *Handler) Serve(c *gin.Context) {
	slug := c.Param("slug")
	if !utils.ValidateSlug(slug) {
		response.BadRequest(c, "invalid room code")
		return
	}

	// Same liveness rule as the HTTP endpoints: no stream for a room that
	// is missing or expired.
	if _, err := h.rooms.GetRoom(c.Request.Context(), slug); err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return
	}

	client := NewClient(h.hub, conn, slug, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
