package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-demo/party/internal/config"
	"github.com/go-demo/party/internal/model"
	apperrors "github.com/go-demo/party/internal/pkg/errors"
	"github.com/go-demo/party/internal/pkg/utils"
	"github.com/go-demo/party/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const slugGenerateAttempts = 5

// PartyService coordinates the room session operations. Every operation
// validates the slug first, then resolves the room, then touches exactly
// one store; ordering of the error branches is part of the API contract.
type PartyService struct {
	roomStore   RoomStore
	playerStore PlayerStore
	stateStore  StateStore
	capacity    CapacityFunc
	publisher   EventPublisher
	jwtManager  *utils.JWTManager
	cfg         config.RoomConfig
	logger      *zap.Logger
}

func NewPartyService(
	roomStore RoomStore,
	playerStore PlayerStore,
	stateStore StateStore,
	capacity CapacityFunc,
	publisher EventPublisher,
	jwtManager *utils.JWTManager,
	cfg config.RoomConfig,
	logger *zap.Logger,
) *PartyService {
	if capacity == nil {
		capacity = DefaultCapacity
	}
	return &PartyService{
		roomStore:   roomStore,
		playerStore: playerStore,
		stateStore:  stateStore,
		capacity:    capacity,
		publisher:   publisher,
		jwtManager:  jwtManager,
		cfg:         cfg,
		logger:      logger,
	}
}

// DefaultCapacity admits players while the room's own MaxPlayers cap holds
func DefaultCapacity(room *model.Room, activePlayers int) bool {
	return room.MaxPlayers <= 0 || activePlayers < room.MaxPlayers
}

// CreateRoomInput represents room creation input
type CreateRoomInput struct {
	Slug     string
	HostName string
	TTL      time.Duration
}

// CreatedRoom is the creation result, including the host credential
type CreatedRoom struct {
	Room      *model.Room
	HostToken string
}

// CreateRoom creates a live room and issues the host token for it. When no
// slug is supplied a random code is generated, retrying on the rare
// collision; a caller-chosen slug that is taken is a hard conflict.
func (s *PartyService) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreatedRoom, error) {
	v := utils.NewValidator()
	v.ValidateDisplayName("hostName", input.HostName)
	if input.Slug != "" {
		v.ValidateSlug("slug", input.Slug)
	}
	if v.HasErrors() {
		return nil, apperrors.ErrValidation.WithDetails(v.Errors())
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTL
	}
	if s.cfg.MaxTTL > 0 && ttl > s.cfg.MaxTTL {
		ttl = s.cfg.MaxTTL
	}

	room := &model.Room{
		ID:         uuid.New().String(),
		Slug:       input.Slug,
		HostName:   strings.TrimSpace(input.HostName),
		MaxPlayers: s.cfg.MaxPlayers,
		ExpiresAt:  time.Now().Add(ttl),
	}

	generated := room.Slug == ""
	attempts := 1
	if generated {
		attempts = slugGenerateAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		if generated {
			room.Slug, err = generateSlug()
			if err != nil {
				s.logger.Error("Failed to generate room code", zap.Error(err))
				return nil, apperrors.ErrInternal
			}
		}

		err = s.roomStore.Create(ctx, room)
		if err == nil {
			break
		}
		if err != repository.ErrSlugTaken {
			s.logger.Error("Failed to create room", zap.Error(err))
			return nil, apperrors.ErrInternal
		}
		if !generated {
			return nil, apperrors.ErrSlugTaken
		}
	}
	if err != nil {
		s.logger.Error("Failed to create room", zap.Error(err), zap.Int("attempts", attempts))
		return nil, apperrors.ErrInternal
	}

	token, err := s.jwtManager.GenerateHostToken(room.ID, room.Slug, room.ExpiresAt)
	if err != nil {
		s.logger.Error("Failed to issue host token", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("Room created",
		zap.String("room_id", room.ID),
		zap.String("slug", room.Slug),
		zap.Time("expires_at", room.ExpiresAt),
	)

	return &CreatedRoom{Room: room, HostToken: token}, nil
}

// GetRoom returns a live room with its active player count
func (s *PartyService) GetRoom(ctx context.Context, slug string) (*model.RoomWithPlayerCount, error) {
	if !utils.ValidateSlug(slug) {
		return nil, apperrors.ErrInvalidSlug
	}

	room, err := s.roomStore.FindLiveBySlugWithPlayerCount(ctx, slug)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to get room", zap.Error(err), zap.String("slug", slug))
		return nil, apperrors.ErrInternal
	}

	return room, nil
}

// Join registers a new active player in a live room. Branch order: bad
// slug, then blank display name, then missing/expired room, then full
// room, then storage failure.
func (s *PartyService) Join(ctx context.Context, slug, displayName string) (*model.Player, error) {
	if !utils.ValidateSlug(slug) {
		return nil, apperrors.ErrInvalidSlug
	}

	v := utils.NewValidator()
	if !v.ValidateDisplayName("displayName", displayName) {
		return nil, apperrors.ErrInvalidDisplayName.WithDetails(v.Errors())
	}

	room, err := s.findLiveRoom(ctx, slug)
	if err != nil {
		return nil, err
	}

	active, err := s.playerStore.CountActive(ctx, room.ID)
	if err != nil {
		s.logger.Error("Failed to count active players", zap.Error(err), zap.String("room_id", room.ID))
		return nil, apperrors.ErrInternal
	}
	// The cap check and insert are separate statements, so a burst of joins
	// can overshoot by a few players. The cap is a courtesy bound, not an
	// exact invariant.
	if !s.capacity(room, active) {
		return nil, apperrors.ErrRoomFull
	}

	player := &model.Player{
		ID:          uuid.New().String(),
		RoomID:      room.ID,
		DisplayName: strings.TrimSpace(displayName),
	}

	if err := s.playerStore.Join(ctx, player); err != nil {
		s.logger.Error("Failed to join room", zap.Error(err), zap.String("room_id", room.ID))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("Player joined room",
		zap.String("room_id", room.ID),
		zap.String("player_id", player.ID),
	)

	s.publish(slug, Event{Type: EventPlayerJoined, Data: map[string]string{
		"playerId":    player.ID,
		"displayName": player.DisplayName,
	}})

	return player, nil
}

// Leave deactivates a player. The operation is idempotent: leaving twice
// with the same id is a no-op success, not a conflict.
func (s *PartyService) Leave(ctx context.Context, slug, playerID string) error {
	if !utils.ValidateSlug(slug) {
		return apperrors.ErrInvalidSlug
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return apperrors.ErrMissingPlayerID
	}

	// A malformed player id is not rejected here: the room lookup must win
	// (a missing room is 404 no matter what the id looks like), and against
	// a live room a malformed id simply matches no player.
	room, err := s.findLiveRoom(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.playerStore.Deactivate(ctx, playerID, room.ID); err != nil {
		if err == repository.ErrPlayerNotFound {
			return apperrors.ErrPlayerNotFound
		}
		s.logger.Error("Failed to deactivate player", zap.Error(err), zap.String("room_id", room.ID))
		return apperrors.ErrInternal
	}

	s.logger.Info("Player left room",
		zap.String("room_id", room.ID),
		zap.String("player_id", playerID),
	)

	s.publish(slug, Event{Type: EventPlayerLeft, Data: map[string]string{
		"playerId": playerID,
	}})

	return nil
}

// Cheers bumps the room's shared counter and returns the new value. No
// player identity is required; slug validity and room liveness are the
// only preconditions.
func (s *PartyService) Cheers(ctx context.Context, slug string) (int64, error) {
	if !utils.ValidateSlug(slug) {
		return 0, apperrors.ErrInvalidSlug
	}

	room, err := s.findLiveRoom(ctx, slug)
	if err != nil {
		return 0, err
	}

	count, err := s.stateStore.IncrementCheers(ctx, room.ID, time.Until(room.ExpiresAt))
	if err != nil {
		s.logger.Error("Failed to increment cheers", zap.Error(err), zap.String("room_id", room.ID))
		return 0, apperrors.ErrInternal
	}

	s.publish(slug, Event{Type: EventCheers, Data: map[string]int64{
		"cheersCount": count,
	}})

	return count, nil
}

// GetState returns the room's party state, zero-valued if never written
func (s *PartyService) GetState(ctx context.Context, slug string) (*model.PartyState, error) {
	if !utils.ValidateSlug(slug) {
		return nil, apperrors.ErrInvalidSlug
	}

	room, err := s.findLiveRoom(ctx, slug)
	if err != nil {
		return nil, err
	}

	state, err := s.stateStore.Read(ctx, room.ID)
	if err != nil {
		s.logger.Error("Failed to read room state", zap.Error(err), zap.String("room_id", room.ID))
		return nil, apperrors.ErrInternal
	}

	return state, nil
}

// UpdateState merges a patch into the current state and persists the
// result. The merged state is validated before the write; on failure the
// stored state is left untouched and the first failing field is reported.
// Writes are last-writer-wins at full-blob granularity.
func (s *PartyService) UpdateState(ctx context.Context, slug string, patch *model.StatePatch) (*model.PartyState, error) {
	if !utils.ValidateSlug(slug) {
		return nil, apperrors.ErrInvalidSlug
	}

	room, err := s.findLiveRoom(ctx, slug)
	if err != nil {
		return nil, err
	}

	current, err := s.stateStore.Read(ctx, room.ID)
	if err != nil {
		s.logger.Error("Failed to read room state", zap.Error(err), zap.String("room_id", room.ID))
		return nil, apperrors.ErrInternal
	}

	merged := patch.Apply(current)

	v := utils.NewValidator()
	v.NonNegative("cheersCount", merged.CheersCount)
	v.MaxLength("currentGameId", merged.CurrentGameID, utils.GameIDMaxLength)
	if v.HasErrors() {
		return nil, apperrors.ErrValidation.WithDetails(v.Errors())
	}

	if err := s.stateStore.Write(ctx, room.ID, merged, time.Until(room.ExpiresAt)); err != nil {
		s.logger.Error("Failed to write room state", zap.Error(err), zap.String("room_id", room.ID))
		return nil, apperrors.ErrInternal
	}

	s.publish(slug, Event{Type: EventStateUpdated, Data: merged})

	return merged, nil
}

// CloseRoom expires a room immediately. Only the host token issued at
// creation authorizes it, and the token must match the addressed room.
func (s *PartyService) CloseRoom(ctx context.Context, slug string, claims *utils.HostClaims) error {
	if !utils.ValidateSlug(slug) {
		return apperrors.ErrInvalidSlug
	}
	if claims == nil {
		return apperrors.ErrUnauthorized
	}

	room, err := s.findLiveRoom(ctx, slug)
	if err != nil {
		return err
	}

	if claims.RoomID != room.ID {
		return apperrors.ErrNotHost
	}

	if err := s.roomStore.Close(ctx, room.ID); err != nil {
		if err == repository.ErrRoomNotFound {
			return apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to close room", zap.Error(err), zap.String("room_id", room.ID))
		return apperrors.ErrInternal
	}

	s.logger.Info("Room closed by host", zap.String("room_id", room.ID), zap.String("slug", slug))

	s.publish(slug, Event{Type: EventRoomClosed})

	return nil
}

func (s *PartyService) findLiveRoom(ctx context.Context, slug string) (*model.Room, error) {
	room, err := s.roomStore.FindLiveBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to find room", zap.Error(err), zap.String("slug", slug))
		return nil, apperrors.ErrInternal
	}
	return room, nil
}

func (s *PartyService) publish(slug string, event Event) {
	if s.publisher != nil {
		s.publisher.Publish(slug, event)
	}
}

// generateSlug produces a short shareable room code
func generateSlug() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
