package repository

import (
	"context"
	"testing"
	"time"

	"github.com/go-demo/party/internal/model"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const roomNonExistentUUID = "00000000-0000-0000-0000-000000000000"

func TestRoomRepository_Create(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := &model.Room{
		ID:         uuid.New().String(),
		Slug:       prefix + "-create",
		HostName:   "Alice",
		MaxPlayers: 16,
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	err := repo.Create(ctx, room)
	if err != nil {
		t.Fatalf("Failed to create room: %v", err)
	}

	if room.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}
}

func TestRoomRepository_Create_DuplicateSlug(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewRoomRepository(db)
	ctx := context.Background()

	CreateIsolatedTestRoom(t, db, prefix, "dup", time.Hour)

	clash := &model.Room{
		ID:         uuid.New().String(),
		Slug:       prefix + "-dup",
		HostName:   "Bob",
		MaxPlayers: 16,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	err := repo.Create(ctx, clash)
	if err != ErrSlugTaken {
		t.Errorf("Expected ErrSlugTaken, got %v", err)
	}
}

func TestRoomRepository_FindLiveBySlug(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := CreateIsolatedTestRoom(t, db, prefix, "live", time.Hour)

	found, err := repo.FindLiveBySlug(ctx, room.Slug)
	if err != nil {
		t.Fatalf("Failed to find room: %v", err)
	}
	if found.ID != room.ID {
		t.Errorf("Expected room %s, got %s", room.ID, found.ID)
	}

	// Test not found
	_, err = repo.FindLiveBySlug(ctx, prefix+"-nope")
	if err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomRepository_FindLiveBySlug_Expired(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewRoomRepository(db)
	ctx := context.Background()

	// The row exists but the expiry has passed
	room := CreateIsolatedTestRoom(t, db, prefix, "expired", -time.Minute)

	_, err := repo.FindLiveBySlug(ctx, room.Slug)
	if err != ErrRoomNotFound {
		t.Errorf("Expected expired room to read as ErrRoomNotFound, got %v", err)
	}
}

func TestRoomRepository_FindLiveBySlugWithPlayerCount(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewRoomRepository(db)
	playerRepo := NewPlayerRepository(db)
	ctx := context.Background()

	room := CreateIsolatedTestRoom(t, db, prefix, "counted", time.Hour)
	p1 := CreateIsolatedTestPlayer(t, db, room, "Player1")
	CreateIsolatedTestPlayer(t, db, room, "Player2")

	// An inactive player must not count
	if err := playerRepo.Deactivate(ctx, p1.ID, room.ID); err != nil {
		t.Fatalf("Failed to deactivate player: %v", err)
	}

	found, err := repo.FindLiveBySlugWithPlayerCount(ctx, room.Slug)
	if err != nil {
		t.Fatalf("Failed to find room with player count: %v", err)
	}
	if found.PlayerCount != 1 {
		t.Errorf("Expected player count 1, got %d", found.PlayerCount)
	}
}

func TestRoomRepository_Close(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewRoomRepository(db)
	ctx := context.Background()

	room := CreateIsolatedTestRoom(t, db, prefix, "closing", time.Hour)

	err := repo.Close(ctx, room.ID)
	if err != nil {
		t.Fatalf("Failed to close room: %v", err)
	}

	// A closed room is indistinguishable from a missing one
	_, err = repo.FindLiveBySlug(ctx, room.Slug)
	if err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound after close, got %v", err)
	}

	// Closing again reports not found
	err = repo.Close(ctx, room.ID)
	if err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound on double close, got %v", err)
	}

	// Unknown room
	err = repo.Close(ctx, roomNonExistentUUID)
	if err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomRepository_DeleteExpiredBefore(t *testing.T) {
	db, prefix := SetupIsolatedTestDB(t)
	defer db.Close()
	defer CleanupTestDataByPrefix(t, db, prefix)

	repo := NewRoomRepository(db)
	ctx := context.Background()

	CreateIsolatedTestRoom(t, db, prefix, "stale", -48*time.Hour)
	live := CreateIsolatedTestRoom(t, db, prefix, "alive", time.Hour)

	deleted, err := repo.DeleteExpiredBefore(ctx, "24 hours")
	if err != nil {
		t.Fatalf("Failed to delete expired rooms: %v", err)
	}
	if deleted < 1 {
		t.Errorf("Expected at least 1 deleted room, got %d", deleted)
	}

	// The live room survives housekeeping
	if _, err := repo.FindLiveBySlug(ctx, live.Slug); err != nil {
		t.Errorf("Live room should survive cleanup: %v", err)
	}
}
