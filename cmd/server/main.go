package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/media"
	"github.com/instashot/backend/internal/notify"
	"github.com/instashot/backend/internal/repositories"
	"github.com/instashot/backend/internal/router"
	"github.com/instashot/backend/pkg/config"
	"github.com/instashot/backend/pkg/firebase"
	"github.com/instashot/backend/pkg/logger"
	"github.com/instashot/backend/pkg/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	// Redis backs the notification queues and the response cache. When it
	// is unreachable the process still serves, on process-local fallbacks.
	var queue notify.Queue
	var cacheStore cache.Store
	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		zlog.Warn("Redis unavailable, using in-memory notification queue and cache", zap.Error(err))
		queue = notify.NewInMemoryQueue(notify.DefaultCapacity)
		cacheStore = cache.NewInMemoryStore()
	} else {
		queue = notify.NewRedisQueue(redisClient, notify.DefaultCapacity)
		cacheStore = cache.NewRedisStore(redisClient)
		defer redisClient.Close()
	}
	coordinator := cache.NewCoordinator(cacheStore, cfg.CacheTTL, zlog)

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		zlog.Fatal("Failed to initialize Firebase", zap.Error(err))
	}
	mediaStore := media.NewFirebaseStore(firebaseApp.Bucket, firebaseApp.BucketName)

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	// Readers filter expired stories themselves; this loop only reclaims
	// storage.
	go reapExpiredStories(mongoDB, zlog)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	if err := router.SetupRoutes(e, router.Deps{
		Postgres:  db.Postgres,
		Mongo:     mongoDB,
		Queue:     queue,
		Cache:     coordinator,
		Media:     mediaStore,
		JWTSecret: cfg.JWTSecret,
		Logger:    zlog,
	}); err != nil {
		zlog.Fatal("Failed to set up routes", zap.Error(err))
	}

	// Start server with graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			zlog.Info("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Forced shutdown", zap.Error(err))
	}
}

func reapExpiredStories(db *mongo.Database, zlog *zap.Logger) {
	stories := repositories.NewMongoStoryRepository(db)
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		deleted, err := stories.DeleteExpired(ctx)
		cancel()
		if err != nil {
			zlog.Warn("expired story cleanup failed", zap.Error(err))
			continue
		}
		if deleted > 0 {
			zlog.Info("expired stories removed", zap.Int64("count", deleted))
		}
	}
}
