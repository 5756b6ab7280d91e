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

// isInvalidUUID reports whether err is Postgres rejecting a malformed
// value for a uuid column (invalid_text_representation). A player id that
// cannot be a uuid matches no row, so callers see it as not found.
func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Join inserts a new active player row. Concurrent joins are independent
// inserts; each call produces exactly one row with its own id.
func (r *PlayerRepository) Join(ctx context.Context, player *model.Player) error {
	query := `
		INSERT INTO players (id, room_id, display_name, status)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at`

	err := r.db.QueryRowxContext(ctx, query,
		player.ID,
		player.RoomID,
		player.DisplayName,
		model.PlayerStatusActive,
	).Scan(&player.JoinedAt)

	if err != nil {
		return fmt.Errorf("failed to add player: %w", err)
	}

	player.Status = model.PlayerStatusActive
	return nil
}

// Deactivate marks a player inactive. The WHERE clause is scoped to both
// keys so a stale or forged player id cannot touch another room, and it
// carries no status predicate: deactivating an already-inactive player
// matches the row and succeeds, which makes leave idempotent.
func (r *PlayerRepository) Deactivate(ctx context.Context, playerID, roomID string) error {
	query := `
		UPDATE players
		SET status = $3, left_at = COALESCE(left_at, NOW())
		WHERE id = $1 AND room_id = $2`

	result, err := r.db.ExecContext(ctx, query, playerID, roomID, model.PlayerStatusInactive)
	if err != nil {
		if isInvalidUUID(err) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to deactivate player: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPlayerNotFound
	}

	return nil
}

// CountActive counts players currently active in a room
func (r *PlayerRepository) CountActive(ctx context.Context, roomID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM players WHERE room_id = $1 AND status = $2`

	if err := r.db.GetContext(ctx, &count, query, roomID, model.PlayerStatusActive); err != nil {
		return 0, fmt.Errorf("failed to count active players: %w", err)
	}

	return count, nil
}

// Get retrieves a player scoped to its room
func (r *PlayerRepository) Get(ctx context.Context, playerID, roomID string) (*model.Player, error) {
	var player model.Player
	query := `SELECT * FROM players WHERE id = $1 AND room_id = $2`

	if err := r.db.GetContext(ctx, &player, query, playerID, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// ListActive lists active players in a room in join order
func (r *PlayerRepository) ListActive(ctx context.Context, roomID string) ([]*model.Player, error) {
	query := `
		SELECT * FROM players
		WHERE room_id = $1 AND status = $2
		ORDER BY joined_at`

	var players []*model.Player
	if err := r.db.SelectContext(ctx, &players, query, roomID, model.PlayerStatusActive); err != nil {
		return nil, fmt.Errorf("failed to list active players: %w", err)
	}

	return players, nil
}
