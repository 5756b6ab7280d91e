package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-demo/party/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var testCounter int64

// GenerateUniquePrefix builds a slug-safe prefix so parallel tests never
// collide. Underscores are not allowed in room codes, hence the hyphens.
func GenerateUniquePrefix() string {
	count := atomic.AddInt64(&testCounter, 1)
	return uuid.New().String()[:8] + "-" + time.Now().Format("150405") + string(rune(count%26+'a'))
}

// SetupIsolatedTestDB connects to the test database, skipping the test
// when none is reachable. Each test gets its own slug prefix.
func SetupIsolatedTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()

	dsn := "host=localhost port=5432 user=postgres password=postgres dbname=party_test sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping test, could not connect to test database: %v", err)
	}

	prefix := GenerateUniquePrefix()

	return db, prefix
}

// CleanupTestDataByPrefix deletes only rows this test created
func CleanupTestDataByPrefix(t *testing.T, db *sqlx.DB, prefix string) {
	t.Helper()

	ctx := context.Background()

	_, _ = db.ExecContext(ctx, "DELETE FROM players WHERE room_id IN (SELECT id FROM rooms WHERE slug LIKE $1)", prefix+"%")
	_, _ = db.ExecContext(ctx, "DELETE FROM rooms WHERE slug LIKE $1", prefix+"%")
}

// CreateIsolatedTestRoom inserts a live room under the test's prefix
func CreateIsolatedTestRoom(t *testing.T, db *sqlx.DB, prefix, suffix string, ttl time.Duration) *model.Room {
	t.Helper()

	roomRepo := NewRoomRepository(db)
	room := &model.Room{
		ID:         uuid.New().String(),
		Slug:       prefix + "-" + suffix,
		HostName:   "Test Host",
		MaxPlayers: 16,
		ExpiresAt:  time.Now().Add(ttl),
	}

	if err := roomRepo.Create(context.Background(), room); err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return room
}

// CreateIsolatedTestPlayer joins a player into the given room
func CreateIsolatedTestPlayer(t *testing.T, db *sqlx.DB, room *model.Room, name string) *model.Player {
	t.Helper()

	playerRepo := NewPlayerRepository(db)
	player := &model.Player{
		ID:          uuid.New().String(),
		RoomID:      room.ID,
		DisplayName: name,
	}

	if err := playerRepo.Join(context.Background(), player); err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}

	return player
}
