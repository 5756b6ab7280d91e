package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-demo/party/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrSlugTaken      = errors.New("slug already in use")
	ErrPlayerNotFound = errors.New("player not found")
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a new room. Slug uniqueness is enforced by the database;
// a collision surfaces as ErrSlugTaken.
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (id, slug, host_name, max_players, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		room.ID,
		room.Slug,
		room.HostName,
		room.MaxPlayers,
		room.ExpiresAt,
	).Scan(&room.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// FindLiveBySlug returns the room only while its expiry has not passed.
// An expired room and a missing one both come back as ErrRoomNotFound;
// callers cannot tell them apart and are not meant to.
func (r *RoomRepository) FindLiveBySlug(ctx context.Context, slug string) (*model.Room, error) {
	var room model.Room
	query := `SELECT * FROM rooms WHERE slug = $1 AND expires_at > NOW()`

	if err := r.db.GetContext(ctx, &room, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room by slug: %w", err)
	}

	return &room, nil
}

// FindLiveBySlugWithPlayerCount returns a live room with its active player count
func (r *RoomRepository) FindLiveBySlugWithPlayerCount(ctx context.Context, slug string) (*model.RoomWithPlayerCount, error) {
	var room model.RoomWithPlayerCount
	query := `
		SELECT r.*, COUNT(p.id) FILTER (WHERE p.status = 'active') AS player_count
		FROM rooms r
		LEFT JOIN players p ON r.id = p.room_id
		WHERE r.slug = $1 AND r.expires_at > NOW()
		GROUP BY r.id`

	if err := r.db.GetContext(ctx, &room, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room with player count: %w", err)
	}

	return &room, nil
}

// Close expires a room immediately. Closing an already-expired or missing
// room reports ErrRoomNotFound, matching how every other operation sees it.
func (r *RoomRepository) Close(ctx context.Context, id string) error {
	query := `UPDATE rooms SET expires_at = NOW() WHERE id = $1 AND expires_at > NOW()`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to close room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRoomNotFound
	}

	return nil
}

// DeleteExpiredBefore removes rooms whose expiry passed before the cutoff.
// Used by housekeeping only; live traffic never deletes rows.
func (r *RoomRepository) DeleteExpiredBefore(ctx context.Context, cutoff string) (int64, error) {
	query := `DELETE FROM rooms WHERE expires_at < NOW() - $1::interval`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired rooms: %w", err)
	}

	return result.RowsAffected()
}
