package service

import (
	"context"
	"time"

	"github.com/go-demo/party/internal/model"
)

// RoomStore is the persistence contract for room records
type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	FindLiveBySlug(ctx context.Context, slug string) (*model.Room, error)
	FindLiveBySlugWithPlayerCount(ctx context.Context, slug string) (*model.RoomWithPlayerCount, error)
	Close(ctx context.Context, id string) error
}

// PlayerStore is the persistence contract for player records
type PlayerStore interface {
	Join(ctx context.Context, player *model.Player) error
	Deactivate(ctx context.Context, playerID, roomID string) error
	CountActive(ctx context.Context, roomID string) (int, error)
}

// StateStore holds the per-room party state. The interface hides the
// write granularity: the current implementation is last-write-wins, and
// optimistic locking can be added behind it without changing callers.
type StateStore interface {
	Read(ctx context.Context, roomID string) (*model.PartyState, error)
	Write(ctx context.Context, roomID string, state *model.PartyState, ttl time.Duration) error
	IncrementCheers(ctx context.Context, roomID string, ttl time.Duration) (int64, error)
}

// CapacityFunc decides whether one more player may join the room. The
// default caps rooms at a configured size; a subscription tier service can
// inject its own rule.
type CapacityFunc func(room *model.Room, activePlayers int) bool

// Event is a room-scoped notification fanned out to connected clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventCheers       = "cheers"
	EventStateUpdated = "state_updated"
	EventRoomClosed   = "room_closed"
)

// EventPublisher broadcasts room events. Implementations must not block;
// a nil publisher disables fan-out.
type EventPublisher interface {
	Publish(slug string, event Event)
}
