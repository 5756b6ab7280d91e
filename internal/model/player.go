package model

import (
	"database/sql"
	"time"
)

// PlayerStatus is a lifecycle state, not a bare boolean, so further states
// (kicked, banned) can be added without a schema change.
type PlayerStatus string

const (
	PlayerStatusActive   PlayerStatus = "active"
	PlayerStatusInactive PlayerStatus = "inactive"
)

// Player is a participant registered to a room. Players are soft-deactivated
// on leave rather than deleted, keeping historical counts consistent.
type Player struct {
	ID          string       `db:"id" json:"id"`
	RoomID      string       `db:"room_id" json:"room_id"`
	DisplayName string       `db:"display_name" json:"display_name"`
	Status      PlayerStatus `db:"status" json:"status"`
	JoinedAt    time.Time    `db:"joined_at" json:"joined_at"`
	LeftAt      sql.NullTime `db:"left_at" json:"left_at,omitempty"`
}

// IsActive checks if the player has not left the room
func (p *Player) IsActive() bool {
	return p.Status == PlayerStatusActive
}
