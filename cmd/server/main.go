package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/party/internal/config"
	"github.com/go-demo/party/internal/handler"
	"github.com/go-demo/party/internal/middleware"
	"github.com/go-demo/party/internal/pkg/cache"
	"github.com/go-demo/party/internal/pkg/database"
	"github.com/go-demo/party/internal/pkg/utils"
	"github.com/go-demo/party/internal/repository"
	"github.com/go-demo/party/internal/service"
	"github.com/go-demo/party/internal/ws"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// @title           Party Room API
// @version         1.0
// @description     Ephemeral multiplayer party room sessions

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description The host token returned by room creation, prefixed with "Bearer ".

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.Log.Level)
	defer logger.Sync()

	logger.Info("Starting party server",
		zap.String("mode", cfg.Server.Mode),
		zap.Int("port", cfg.Server.Port),
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.NewPostgres(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db, logger)

	// Initialize Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close(redisClient, logger)

	// Initialize host token manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Initialize repositories
	roomRepo := repository.NewRoomRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	stateRepo := repository.NewStateRepository(redisClient)

	// Initialize event hub
	hub := ws.NewHub(logger)
	go hub.Run()

	// Initialize session service
	partyService := service.NewPartyService(
		roomRepo,
		playerRepo,
		stateRepo,
		nil, // default capacity rule
		hub,
		jwtManager,
		cfg.Room,
		logger,
	)

	// Initialize handlers
	partyHandler := handler.NewPartyHandler(partyService)
	wsHandler := ws.NewHandler(hub, partyService, logger)

	// Setup router
	router := setupRouter(cfg, logger, jwtManager, redisClient, partyHandler, wsHandler)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server is running",
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	return logger
}

func setupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *utils.JWTManager,
	redisClient *redis.Client,
	partyHandler *handler.PartyHandler,
	wsHandler *ws.Handler,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket room event stream
	router.GET("/ws/rooms/:slug", wsHandler.Serve)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		mutationLimit := middleware.MutationRateLimit(
			redisClient,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
		)

		rooms := v1.Group("/rooms")
		{
			rooms.POST("", middleware.CreateRoomRateLimit(redisClient), partyHandler.Create)
			rooms.GET("/:slug", partyHandler.Get)
			rooms.DELETE("/:slug", middleware.HostAuth(jwtManager), partyHandler.Close)

			rooms.POST("/:slug/join", mutationLimit, partyHandler.Join)
			rooms.POST("/:slug/leave", mutationLimit, partyHandler.Leave)
			rooms.POST("/:slug/cheers", mutationLimit, partyHandler.Cheers)

			rooms.GET("/:slug/state", partyHandler.GetState)
			rooms.PUT("/:slug/state", mutationLimit, partyHandler.UpdateState)
		}
	}

	return router
}
