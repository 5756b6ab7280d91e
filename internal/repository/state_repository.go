package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-demo/party/internal/model"
	"github.com/go-demo/party/internal/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const (
	stateFieldGameID = "current_game_id"
	stateFieldCheers = "cheers_count"
)

// StateRepository stores the per-room party state as a Redis hash. Keys
// expire alongside the room so dead blobs are not left behind.
type StateRepository struct {
	client *redis.Client
}

func NewStateRepository(client *redis.Client) *StateRepository {
	return &StateRepository{client: client}
}

// Read returns the room's state, or the zero default when nothing has
// been written yet.
func (r *StateRepository) Read(ctx context.Context, roomID string) (*model.PartyState, error) {
	fields, err := r.client.HGetAll(ctx, cache.RoomStateKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read room state: %w", err)
	}

	state := model.DefaultPartyState()
	if len(fields) == 0 {
		return state, nil
	}

	state.CurrentGameID = fields[stateFieldGameID]
	if raw, ok := fields[stateFieldCheers]; ok {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cheers count %q: %w", raw, err)
		}
		state.CheersCount = count
	}

	return state, nil
}

// Write replaces the stored state with the given one. Both fields go out
// in a single transactional pipeline, so readers never observe a half
// written blob.
func (r *StateRepository) Write(ctx context.Context, roomID string, state *model.PartyState, ttl time.Duration) error {
	key := cache.RoomStateKey(roomID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key,
		stateFieldGameID, state.CurrentGameID,
		stateFieldCheers, state.CheersCount,
	)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write room state: %w", err)
	}

	return nil
}

// IncrementCheers bumps the shared counter with HINCRBY and returns the
// new value. The increment happens inside Redis, so two simultaneous
// cheers are both reflected; there is no read-modify-write to lose.
func (r *StateRepository) IncrementCheers(ctx context.Context, roomID string, ttl time.Duration) (int64, error) {
	key := cache.RoomStateKey(roomID)

	pipe := r.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, stateFieldCheers, 1)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment cheers: %w", err)
	}

	return incr.Val(), nil
}
