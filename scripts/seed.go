package main

import (
	"context"
	"log"
	"time"

	"github.com/go-demo/party/internal/config"
	"github.com/go-demo/party/internal/model"
	"github.com/go-demo/party/internal/pkg/database"
	"github.com/go-demo/party/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	log.Println("Starting database seed...")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	logger := zap.NewNop()
	db, err := database.NewPostgres(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	roomRepo := repository.NewRoomRepository(db)
	playerRepo := repository.NewPlayerRepository(db)

	log.Println("Creating demo rooms...")
	rooms := []struct {
		slug     string
		hostName string
		players  []string
	}{
		{"demo-party", "Alice", []string{"Bob", "Charlie"}},
		{"game-night", "Diana", []string{"Evan"}},
		{"validroom99", "Frank", nil},
	}

	for _, r := range rooms {
		room := &model.Room{
			ID:         uuid.New().String(),
			Slug:       r.slug,
			HostName:   r.hostName,
			MaxPlayers: cfg.Room.MaxPlayers,
			ExpiresAt:  time.Now().Add(cfg.Room.DefaultTTL),
		}

		if err := roomRepo.Create(ctx, room); err != nil {
			log.Printf("Room %s might already exist: %v", r.slug, err)
			existing, err := roomRepo.FindLiveBySlug(ctx, r.slug)
			if err != nil {
				continue
			}
			room = existing
		} else {
			log.Printf("Created room: %s", r.slug)
		}

		for _, name := range r.players {
			player := &model.Player{
				ID:          uuid.New().String(),
				RoomID:      room.ID,
				DisplayName: name,
			}
			if err := playerRepo.Join(ctx, player); err != nil {
				log.Printf("Failed to add player %s to %s: %v", name, r.slug, err)
				continue
			}
			log.Printf("Added player %s to %s", name, r.slug)
		}
	}

	log.Println("Seed completed")
}
