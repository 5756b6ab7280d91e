package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/party/internal/dto/request"
	"github.com/go-demo/party/internal/dto/response"
	"github.com/go-demo/party/internal/middleware"
	"github.com/go-demo/party/internal/model"
	"github.com/go-demo/party/internal/pkg/utils"
	"github.com/go-demo/party/internal/service"
)

// PartySessions is the slice of the session service the HTTP layer needs
type PartySessions interface {
	CreateRoom(ctx context.Context, input *service.CreateRoomInput) (*service.CreatedRoom, error)
	GetRoom(ctx context.Context, slug string) (*model.RoomWithPlayerCount, error)
	Join(ctx context.Context, slug, displayName string) (*model.Player, error)
	Leave(ctx context.Context, slug, playerID string) error
	Cheers(ctx context.Context, slug string) (int64, error)
	GetState(ctx context.Context, slug string) (*model.PartyState, error)
	UpdateState(ctx context.Context, slug string, patch *model.StatePatch) (*model.PartyState, error)
	CloseRoom(ctx context.Context, slug string, claims *utils.HostClaims) error
}

type PartyHandler struct {
	sessions PartySessions
}

func NewPartyHandler(sessions PartySessions) *PartyHandler {
	return &PartyHandler{
		sessions: sessions,
	}
}

// Create godoc
// @Summary Create a party room
// @Description Creates a room and returns its code plus the host token
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body request.CreateRoomRequest true "Room data"
// @Success 201 {object} response.Response{data=response.CreateRoomResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/rooms [post]
func (h *PartyHandler) Create(c *gin.Context) {
	var req request.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.sessions.CreateRoom(c.Request.Context(), &service.CreateRoomInput{
		Slug:     req.Slug,
		HostName: req.HostName,
		TTL:      time.Duration(req.TTLMinutes) * time.Minute,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &response.CreateRoomResponse{
		Slug:      created.Room.Slug,
		HostToken: created.HostToken,
		ExpiresAt: created.Room.ExpiresAt,
	})
}

// Get godoc
// @Summary Get a room
// @Description Returns a live room with its active player count
// @Tags rooms
// @Produce json
// @Param slug path string true "Room code"
// @Success 200 {object} response.Response{data=response.RoomResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{slug} [get]
func (h *PartyHandler) Get(c *gin.Context) {
	room, err := h.sessions.GetRoom(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewRoomResponse(room))
}

// Join godoc
// @Summary Join a room
// @Description Registers a player and returns the id used by later calls
// @Tags rooms
// @Accept json
// @Produce json
// @Param slug path string true "Room code"
// @Param request body request.JoinRoomRequest true "Player data"
// @Success 200 {object} response.Response{data=response.JoinResponse}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{slug}/join [post]
func (h *PartyHandler) Join(c *gin.Context) {
	var req request.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	player, err := h.sessions.Join(c.Request.Context(), c.Param("slug"), req.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &response.JoinResponse{PlayerID: player.ID})
}

// Leave godoc
// @Summary Leave a room
// @Description Deactivates a player; repeating the call is a no-op success
// @Tags rooms
// @Accept json
// @Produce json
// @Param slug path string true "Room code"
// @Param request body request.LeaveRoomRequest true "Player id"
// @Success 200 {object} response.Response{data=response.LeaveResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{slug}/leave [post]
func (h *PartyHandler) Leave(c *gin.Context) {
	var req request.LeaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.sessions.Leave(c.Request.Context(), c.Param("slug"), req.PlayerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &response.LeaveResponse{OK: true})
}

// Cheers godoc
// @Summary Cheer in a room
// @Description Atomically increments the room's shared cheers counter
// @Tags rooms
// @Produce json
// @Param slug path string true "Room code"
// @Success 200 {object} response.Response{data=response.CheersResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{slug}/cheers [post]
func (h *PartyHandler) Cheers(c *gin.Context) {
	count, err := h.sessions.Cheers(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &response.CheersResponse{CheersCount: count})
}

// GetState godoc
// @Summary Get room state
// @Description Returns the shared game state, zero-valued if never written
// @Tags rooms
// @Produce json
// @Param slug path string true "Room code"
// @Success 200 {object} response.Response{data=response.StateResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{slug}/state [get]
func (h *PartyHandler) GetState(c *gin.Context) {
	state, err := h.sessions.GetState(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewStateResponse(state))
}

// UpdateState godoc
// @Summary Push room state
// @Description Merges a partial state update; the merged result is schema-validated before anything is stored
// @Tags rooms
// @Accept json
// @Produce json
// @Param slug path string true "Room code"
// @Param request body request.UpdateStateRequest true "State patch"
// @Success 200 {object} response.Response{data=response.StateResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{slug}/state [put]
func (h *PartyHandler) UpdateState(c *gin.Context) {
	// Strict decode: unknown or wrong-typed fields must not be silently
	// dropped into the shared state.
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req request.UpdateStateRequest
	if err := dec.Decode(&req); err != nil {
		response.BadRequest(c, "invalid state payload")
		return
	}

	state, err := h.sessions.UpdateState(c.Request.Context(), c.Param("slug"), &model.StatePatch{
		CurrentGameID: req.CurrentGameID,
		CheersCount:   req.CheersCount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewStateResponse(state))
}

// Close godoc
// @Summary Close a room
// @Description Expires the room immediately; requires the host token
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Room code"
// @Success 204
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{slug} [delete]
func (h *PartyHandler) Close(c *gin.Context) {
	claims := middleware.GetHostClaims(c)

	if err := h.sessions.CloseRoom(c.Request.Context(), c.Param("slug"), claims); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
