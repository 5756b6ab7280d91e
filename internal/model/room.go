package model

import (
	"time"
)

// Room is an ephemeral, slug-addressed party session. Rooms are never
// deleted while live; they go inert once ExpiresAt passes and every
// endpoint then treats them exactly like a room that never existed.
type Room struct {
	ID         string    `db:"id" json:"id"`
	Slug       string    `db:"slug" json:"slug"`
	HostName   string    `db:"host_name" json:"host_name"`
	MaxPlayers int       `db:"max_players" json:"max_players"`
	ExpiresAt  time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsLive reports whether the room has not yet expired
func (r *Room) IsLive(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// RoomWithPlayerCount includes the active player count
type RoomWithPlayerCount struct {
	Room
	PlayerCount int `db:"player_count" json:"player_count"`
}
