package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-demo/party/internal/config"
	"github.com/go-demo/party/internal/model"
	apperrors "github.com/go-demo/party/internal/pkg/errors"
	"github.com/go-demo/party/internal/pkg/utils"
	"github.com/go-demo/party/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory stores implementing the same contracts as the repositories,
// including the liveness and idempotency semantics.

type fakeRoomStore struct {
	mu      sync.Mutex
	rooms   map[string]*model.Room // keyed by slug
	lookups int
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*model.Room)}
}

func (s *fakeRoomStore) Create(_ context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[room.Slug]; exists {
		return repository.ErrSlugTaken
	}
	room.CreatedAt = time.Now()
	copied := *room
	s.rooms[room.Slug] = &copied
	return nil
}

func (s *fakeRoomStore) FindLiveBySlug(_ context.Context, slug string) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	room, ok := s.rooms[slug]
	if !ok || !room.IsLive(time.Now()) {
		return nil, repository.ErrRoomNotFound
	}
	copied := *room
	return &copied, nil
}

func (s *fakeRoomStore) FindLiveBySlugWithPlayerCount(ctx context.Context, slug string) (*model.RoomWithPlayerCount, error) {
	room, err := s.FindLiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &model.RoomWithPlayerCount{Room: *room}, nil
}

func (s *fakeRoomStore) Close(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		if room.ID == id && room.IsLive(time.Now()) {
			room.ExpiresAt = time.Now()
			return nil
		}
	}
	return repository.ErrRoomNotFound
}

type fakePlayerStore struct {
	mu      sync.Mutex
	players map[string]*model.Player // keyed by player id
	joins   int
}

func newFakePlayerStore() *fakePlayerStore {
	return &fakePlayerStore{players: make(map[string]*model.Player)}
}

func (s *fakePlayerStore) Join(_ context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joins++
	player.Status = model.PlayerStatusActive
	player.JoinedAt = time.Now()
	copied := *player
	s.players[player.ID] = &copied
	return nil
}

func (s *fakePlayerStore) Deactivate(_ context.Context, playerID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[playerID]
	if !ok || player.RoomID != roomID {
		return repository.ErrPlayerNotFound
	}
	// No status predicate: deactivating an inactive player succeeds.
	player.Status = model.PlayerStatusInactive
	return nil
}

func (s *fakePlayerStore) CountActive(_ context.Context, roomID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, player := range s.players {
		if player.RoomID == roomID && player.Status == model.PlayerStatusActive {
			count++
		}
	}
	return count, nil
}

type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]*model.PartyState
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]*model.PartyState)}
}

func (s *fakeStateStore) Read(_ context.Context, roomID string) (*model.PartyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[roomID]
	if !ok {
		return model.DefaultPartyState(), nil
	}
	copied := *state
	return &copied, nil
}

func (s *fakeStateStore) Write(_ context.Context, roomID string, state *model.PartyState, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	s.states[roomID] = &copied
	return nil
}

func (s *fakeStateStore) IncrementCheers(_ context.Context, roomID string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[roomID]
	if !ok {
		state = model.DefaultPartyState()
		s.states[roomID] = state
	}
	state.CheersCount++
	return state.CheersCount, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *fakePublisher) Publish(_ string, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

type testEnv struct {
	svc       *PartyService
	rooms     *fakeRoomStore
	players   *fakePlayerStore
	states    *fakeStateStore
	publisher *fakePublisher
}

func setupPartyService(t *testing.T) *testEnv {
	t.Helper()

	rooms := newFakeRoomStore()
	players := newFakePlayerStore()
	states := newFakeStateStore()
	publisher := &fakePublisher{}

	cfg := config.RoomConfig{
		DefaultTTL: time.Hour,
		MaxTTL:     24 * time.Hour,
		MaxPlayers: 4,
	}

	svc := NewPartyService(
		rooms,
		players,
		states,
		nil,
		publisher,
		utils.NewJWTManager("test-secret", "party-test"),
		cfg,
		zap.NewNop(),
	)

	return &testEnv{svc: svc, rooms: rooms, players: players, states: states, publisher: publisher}
}

func (e *testEnv) addLiveRoom(t *testing.T, slug string) *model.Room {
	t.Helper()
	room := &model.Room{
		ID:         uuid.New().String(),
		Slug:       slug,
		HostName:   "Host",
		MaxPlayers: 4,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := e.rooms.Create(context.Background(), room); err != nil {
		t.Fatalf("Failed to add room: %v", err)
	}
	return room
}

func (e *testEnv) addExpiredRoom(t *testing.T, slug string) *model.Room {
	t.Helper()
	room := &model.Room{
		ID:         uuid.New().String(),
		Slug:       slug,
		HostName:   "Host",
		MaxPlayers: 4,
		ExpiresAt:  time.Now().Add(-time.Minute),
	}
	if err := e.rooms.Create(context.Background(), room); err != nil {
		t.Fatalf("Failed to add room: %v", err)
	}
	return room
}

func assertAppError(t *testing.T, err error, want *apperrors.AppError) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error %q, got nil", want.Message)
	}
	var appErr *apperrors.AppError
	if !apperrors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != want.Code || appErr.Message != want.Message {
		t.Fatalf("Expected %d %q, got %d %q", want.Code, want.Message, appErr.Code, appErr.Message)
	}
}

func TestPartyService_CreateRoom(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()

	created, err := env.svc.CreateRoom(ctx, &CreateRoomInput{HostName: "Alice"})
	if err != nil {
		t.Fatalf("Failed to create room: %v", err)
	}
	if !utils.ValidateSlug(created.Room.Slug) {
		t.Errorf("Generated slug %q is not a valid room code", created.Room.Slug)
	}
	if created.HostToken == "" {
		t.Error("Expected a host token")
	}

	// Host token must be scoped to the new room
	claims, err := utils.NewJWTManager("test-secret", "party-test").ValidateHostToken(created.HostToken)
	if err != nil {
		t.Fatalf("Host token does not validate: %v", err)
	}
	if claims.RoomID != created.Room.ID {
		t.Errorf("Host token room id %q, want %q", claims.RoomID, created.Room.ID)
	}
}

func TestPartyService_CreateRoom_CustomSlugTaken(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "game-night")

	_, err := env.svc.CreateRoom(ctx, &CreateRoomInput{Slug: "game-night", HostName: "Bob"})
	assertAppError(t, err, apperrors.ErrSlugTaken)
}

func TestPartyService_CreateRoom_TTLClamped(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()

	created, err := env.svc.CreateRoom(ctx, &CreateRoomInput{
		HostName: "Alice",
		TTL:      100 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create room: %v", err)
	}
	if until := time.Until(created.Room.ExpiresAt); until > 24*time.Hour+time.Minute {
		t.Errorf("Expected TTL clamped to 24h, room lives for %v", until)
	}
}

func TestPartyService_CreateRoom_BlankHostName(t *testing.T) {
	env := setupPartyService(t)

	_, err := env.svc.CreateRoom(context.Background(), &CreateRoomInput{HostName: "   "})
	assertAppError(t, err, apperrors.ErrValidation)
}

func TestPartyService_Join(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	room := env.addLiveRoom(t, "validslug99")

	player, err := env.svc.Join(ctx, "validslug99", "  Player1  ")
	if err != nil {
		t.Fatalf("Failed to join: %v", err)
	}
	if player.ID == "" {
		t.Error("Expected a player id")
	}
	if player.RoomID != room.ID {
		t.Errorf("Player room id %q, want %q", player.RoomID, room.ID)
	}
	if player.DisplayName != "Player1" {
		t.Errorf("Display name %q, want trimmed %q", player.DisplayName, "Player1")
	}
}

func TestPartyService_Join_InvalidSlugBeforeStorage(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()

	for _, slug := range []string{"", "invalid!!", "ab"} {
		_, err := env.svc.Join(ctx, slug, "Player1")
		assertAppError(t, err, apperrors.ErrInvalidSlug)
	}
	if env.rooms.lookups != 0 {
		t.Errorf("Expected no storage lookups for invalid slugs, got %d", env.rooms.lookups)
	}
}

func TestPartyService_Join_BlankNameBeforeStorage(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validslug99")

	_, err := env.svc.Join(ctx, "validslug99", "   ")
	assertAppError(t, err, apperrors.ErrInvalidDisplayName)

	if env.rooms.lookups != 0 {
		t.Errorf("Expected display name rejected before room lookup, got %d lookups", env.rooms.lookups)
	}
	if env.players.joins != 0 {
		t.Error("Expected no player writes")
	}
}

func TestPartyService_Join_RoomMissing(t *testing.T) {
	env := setupPartyService(t)

	_, err := env.svc.Join(context.Background(), "no-such-room", "Player1")
	assertAppError(t, err, apperrors.ErrRoomNotFound)
}

func TestPartyService_Join_ExpiredRoomLooksLikeMissing(t *testing.T) {
	env := setupPartyService(t)
	env.addExpiredRoom(t, "old-party")

	_, err := env.svc.Join(context.Background(), "old-party", "Player1")
	assertAppError(t, err, apperrors.ErrRoomNotFound)
}

func TestPartyService_Join_RoomFull(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validslug99")

	for i := 0; i < 4; i++ {
		if _, err := env.svc.Join(ctx, "validslug99", "Player"); err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
	}

	_, err := env.svc.Join(ctx, "validslug99", "OneTooMany")
	assertAppError(t, err, apperrors.ErrRoomFull)
}

func TestPartyService_Join_FreesSeatAfterLeave(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validslug99")

	var last *model.Player
	for i := 0; i < 4; i++ {
		player, err := env.svc.Join(ctx, "validslug99", "Player")
		if err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
		last = player
	}

	if err := env.svc.Leave(ctx, "validslug99", last.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if _, err := env.svc.Join(ctx, "validslug99", "Replacement"); err != nil {
		t.Fatalf("Join after leave failed: %v", err)
	}
}

func TestPartyService_Join_ConcurrentJoinsDistinctIDs(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validslug99")

	const n = 4
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			player, err := env.svc.Join(ctx, "validslug99", "Player")
			if err != nil {
				t.Errorf("Concurrent join failed: %v", err)
				return
			}
			ids <- player.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("Duplicate player id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("Expected %d players, got %d", n, len(seen))
	}
}

func TestPartyService_Leave_MissingPlayerID(t *testing.T) {
	env := setupPartyService(t)
	env.addLiveRoom(t, "abc-123")

	err := env.svc.Leave(context.Background(), "abc-123", "")
	assertAppError(t, err, apperrors.ErrMissingPlayerID)
	if env.rooms.lookups != 0 {
		t.Error("Expected missing playerId rejected before storage")
	}
}

func TestPartyService_Leave_MalformedPlayerIDInMissingRoom(t *testing.T) {
	env := setupPartyService(t)

	// The room lookup wins: a missing room is 404 no matter how mangled
	// the player id is.
	err := env.svc.Leave(context.Background(), "no-such-room", "stale123")
	assertAppError(t, err, apperrors.ErrRoomNotFound)
}

func TestPartyService_Leave_MalformedPlayerIDInLiveRoom(t *testing.T) {
	env := setupPartyService(t)
	env.addLiveRoom(t, "abc-123")

	// A malformed id cannot name any player, so it reads as player missing
	err := env.svc.Leave(context.Background(), "abc-123", "not-a-uuid")
	assertAppError(t, err, apperrors.ErrPlayerNotFound)
}

func TestPartyService_Leave_UnknownPlayer(t *testing.T) {
	env := setupPartyService(t)
	env.addLiveRoom(t, "abc-123")

	err := env.svc.Leave(context.Background(), "abc-123", uuid.New().String())
	assertAppError(t, err, apperrors.ErrPlayerNotFound)
}

func TestPartyService_Leave_WrongRoomScope(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "room-one")
	env.addLiveRoom(t, "room-two")

	player, err := env.svc.Join(ctx, "room-one", "Drifter")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	// A valid player id must not deactivate anything in another room.
	err = env.svc.Leave(ctx, "room-two", player.ID)
	assertAppError(t, err, apperrors.ErrPlayerNotFound)

	count, _ := env.players.CountActive(ctx, player.RoomID)
	if count != 1 {
		t.Errorf("Player in room-one was touched, active count %d", count)
	}
}

func TestPartyService_Leave_Idempotent(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "abc-123")

	player, err := env.svc.Join(ctx, "abc-123", "Player1")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if err := env.svc.Leave(ctx, "abc-123", player.ID); err != nil {
		t.Fatalf("First leave failed: %v", err)
	}
	if err := env.svc.Leave(ctx, "abc-123", player.ID); err != nil {
		t.Fatalf("Second leave should be a no-op success, got %v", err)
	}
}

func TestPartyService_Cheers(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validroom99")

	count, err := env.svc.Cheers(ctx, "validroom99")
	if err != nil {
		t.Fatalf("Cheers failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}

	count, err = env.svc.Cheers(ctx, "validroom99")
	if err != nil {
		t.Fatalf("Cheers failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestPartyService_Cheers_InvalidSlug(t *testing.T) {
	env := setupPartyService(t)

	_, err := env.svc.Cheers(context.Background(), "bad slug!!")
	assertAppError(t, err, apperrors.ErrInvalidSlug)
}

func TestPartyService_Cheers_RoomMissing(t *testing.T) {
	env := setupPartyService(t)

	_, err := env.svc.Cheers(context.Background(), "no-room")
	assertAppError(t, err, apperrors.ErrRoomNotFound)
}

func TestPartyService_Cheers_ConcurrentNoLostUpdates(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validroom99")

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.Cheers(ctx, "validroom99"); err != nil {
				t.Errorf("Concurrent cheers failed: %v", err)
			}
		}()
	}
	wg.Wait()

	state, err := env.svc.GetState(ctx, "validroom99")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.CheersCount != n {
		t.Errorf("Expected %d cheers, got %d", n, state.CheersCount)
	}
}

func TestPartyService_GetState_DefaultsToZero(t *testing.T) {
	env := setupPartyService(t)
	env.addLiveRoom(t, "fresh-room")

	state, err := env.svc.GetState(context.Background(), "fresh-room")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.CheersCount != 0 {
		t.Errorf("Expected zero cheers, got %d", state.CheersCount)
	}
	if state.CurrentGameID != "" {
		t.Errorf("Expected no current game, got %q", state.CurrentGameID)
	}
}

func TestPartyService_UpdateState_RoundTrip(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validroom99")

	gameID := "trivia"
	cheers := int64(7)
	written, err := env.svc.UpdateState(ctx, "validroom99", &model.StatePatch{
		CurrentGameID: &gameID,
		CheersCount:   &cheers,
	})
	if err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}

	read, err := env.svc.GetState(ctx, "validroom99")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if *read != *written {
		t.Errorf("Read state %+v differs from written %+v", read, written)
	}
	if read.CurrentGameID != "trivia" || read.CheersCount != 7 {
		t.Errorf("Unexpected state after round trip: %+v", read)
	}
}

func TestPartyService_UpdateState_PartialPatchKeepsOtherFields(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validroom99")

	if _, err := env.svc.Cheers(ctx, "validroom99"); err != nil {
		t.Fatalf("Cheers failed: %v", err)
	}

	gameID := "karaoke"
	state, err := env.svc.UpdateState(ctx, "validroom99", &model.StatePatch{CurrentGameID: &gameID})
	if err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	if state.CheersCount != 1 {
		t.Errorf("Patch without cheersCount clobbered the counter: %d", state.CheersCount)
	}
	if state.CurrentGameID != "karaoke" {
		t.Errorf("Expected game %q, got %q", "karaoke", state.CurrentGameID)
	}
}

func TestPartyService_UpdateState_RejectsNegativeCheers(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validroom99")

	cheers := int64(5)
	if _, err := env.svc.UpdateState(ctx, "validroom99", &model.StatePatch{CheersCount: &cheers}); err != nil {
		t.Fatalf("Setup write failed: %v", err)
	}

	negative := int64(-1)
	_, err := env.svc.UpdateState(ctx, "validroom99", &model.StatePatch{CheersCount: &negative})
	assertAppError(t, err, apperrors.ErrValidation)

	// Prior state must be untouched by the rejected write
	state, err := env.svc.GetState(ctx, "validroom99")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.CheersCount != 5 {
		t.Errorf("Rejected write changed stored state: %d", state.CheersCount)
	}
}

func TestPartyService_UpdateState_RoomMissing(t *testing.T) {
	env := setupPartyService(t)

	cheers := int64(1)
	_, err := env.svc.UpdateState(context.Background(), "no-room", &model.StatePatch{CheersCount: &cheers})
	assertAppError(t, err, apperrors.ErrRoomNotFound)
}

func TestPartyService_CloseRoom(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()

	created, err := env.svc.CreateRoom(ctx, &CreateRoomInput{Slug: "host-party", HostName: "Alice"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	claims, err := utils.NewJWTManager("test-secret", "party-test").ValidateHostToken(created.HostToken)
	if err != nil {
		t.Fatalf("ValidateHostToken failed: %v", err)
	}

	if err := env.svc.CloseRoom(ctx, "host-party", claims); err != nil {
		t.Fatalf("CloseRoom failed: %v", err)
	}

	// Closed room now looks like a missing one
	_, err = env.svc.GetRoom(ctx, "host-party")
	assertAppError(t, err, apperrors.ErrRoomNotFound)
}

func TestPartyService_CloseRoom_WrongRoomToken(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()

	created, err := env.svc.CreateRoom(ctx, &CreateRoomInput{Slug: "party-one", HostName: "Alice"})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	env.addLiveRoom(t, "party-two")

	claims, _ := utils.NewJWTManager("test-secret", "party-test").ValidateHostToken(created.HostToken)

	err = env.svc.CloseRoom(ctx, "party-two", claims)
	assertAppError(t, err, apperrors.ErrNotHost)
}

func TestPartyService_PublishesRoomEvents(t *testing.T) {
	env := setupPartyService(t)
	ctx := context.Background()
	env.addLiveRoom(t, "validroom99")

	player, err := env.svc.Join(ctx, "validroom99", "Player1")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := env.svc.Cheers(ctx, "validroom99"); err != nil {
		t.Fatalf("Cheers failed: %v", err)
	}
	if err := env.svc.Leave(ctx, "validroom99", player.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	want := []string{EventPlayerJoined, EventCheers, EventPlayerLeft}
	got := env.publisher.types()
	if len(got) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected events %v, got %v", want, got)
		}
	}
}

func TestPartyService_NilPublisherIsSafe(t *testing.T) {
	env := setupPartyService(t)
	svc := NewPartyService(
		env.rooms,
		env.players,
		env.states,
		nil,
		nil,
		utils.NewJWTManager("test-secret", "party-test"),
		config.RoomConfig{DefaultTTL: time.Hour, MaxPlayers: 4},
		zap.NewNop(),
	)
	env.addLiveRoom(t, "quiet-room")

	if _, err := svc.Cheers(context.Background(), "quiet-room"); err != nil {
		t.Fatalf("Cheers with nil publisher failed: %v", err)
	}
}

func TestPartyService_CustomCapacityPredicate(t *testing.T) {
	env := setupPartyService(t)
	// A tier rule that admits nobody
	closedDoor := func(room *model.Room, active int) bool { return false }

	svc := NewPartyService(
		env.rooms,
		env.players,
		env.states,
		closedDoor,
		nil,
		utils.NewJWTManager("test-secret", "party-test"),
		config.RoomConfig{DefaultTTL: time.Hour, MaxPlayers: 4},
		zap.NewNop(),
	)
	env.addLiveRoom(t, "vip-room")

	_, err := svc.Join(context.Background(), "vip-room", "Pleb")
	assertAppError(t, err, apperrors.ErrRoomFull)
}
