package response

import (
	"time"

	"github.com/go-demo/party/internal/model"
)

// RoomResponse is the public view of a room
type RoomResponse struct {
	Slug        string    `json:"slug"`
	HostName    string    `json:"hostName"`
	MaxPlayers  int       `json:"maxPlayers"`
	PlayerCount int       `json:"playerCount"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRoomResponse builds the public room view
func NewRoomResponse(room *model.RoomWithPlayerCount) *RoomResponse {
	return &RoomResponse{
		Slug:        room.Slug,
		HostName:    room.HostName,
		MaxPlayers:  room.MaxPlayers,
		PlayerCount: room.PlayerCount,
		ExpiresAt:   room.ExpiresAt,
		CreatedAt:   room.CreatedAt,
	}
}

// CreateRoomResponse returns the new room slug and the host credential.
// The host token is only ever returned here.
type CreateRoomResponse struct {
	Slug      string    `json:"slug"`
	HostToken string    `json:"hostToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JoinResponse returns the durable player handle used by later calls
type JoinResponse struct {
	PlayerID string `json:"playerId"`
}

// LeaveResponse acknowledges a leave
type LeaveResponse struct {
	OK bool `json:"ok"`
}

// CheersResponse returns the counter value after the increment
type CheersResponse struct {
	CheersCount int64 `json:"cheersCount"`
}

// StateResponse is the room's party state
type StateResponse struct {
	CurrentGameID string `json:"currentGameId,omitempty"`
	CheersCount   int64  `json:"cheersCount"`
}

// NewStateResponse builds the state view
func NewStateResponse(state *model.PartyState) *StateResponse {
	return &StateResponse{
		CurrentGameID: state.CurrentGameID,
		CheersCount:   state.CheersCount,
	}
}
