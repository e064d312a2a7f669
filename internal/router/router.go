package router

import (
	"fmt"

	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/handlers"
	"github.com/instashot/backend/internal/media"
	"github.com/instashot/backend/internal/middleware"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/notify"
	"github.com/instashot/backend/internal/repositories"
	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Postgres  *gorm.DB
	Mongo     *mongo.Database
	Queue     notify.Queue
	Cache     *cache.Coordinator
	Media     media.Store
	JWTSecret string
	Logger    *zap.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) error {
	// AutoMigrate PostgreSQL models
	err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.SavedPost{},
		&models.Comment{},
		&models.CommentLike{},
	)
	if err != nil {
		return fmt.Errorf("auto migrating models: %w", err)
	}

	// Health check - always accessible
	handlers.RegisterHealthRoutes(e)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(deps.Postgres)
	postRepo := repositories.NewMongoPostRepository(deps.Mongo)
	storyRepo := repositories.NewMongoStoryRepository(deps.Mongo)

	// --- Initialize Services ---
	graphService := services.NewGraphService(followRepo, userRepo, deps.Queue, deps.Logger)
	engagementService := services.NewEngagementService(likeRepo, savedPostRepo, commentRepo, commentLikeRepo, postRepo, userRepo, deps.Queue, deps.Logger)
	feedService := services.NewFeedService(postRepo, userRepo, followRepo, likeRepo, savedPostRepo)
	exploreService := services.NewExploreService(postRepo, userRepo, likeRepo, savedPostRepo)
	postService := services.NewPostService(postRepo, userRepo, followRepo, likeRepo, savedPostRepo, commentRepo, deps.Media, deps.Logger)
	storyService := services.NewStoryService(storyRepo, followRepo, userRepo, deps.Media, deps.Queue, deps.Logger)
	notificationService := services.NewNotificationService(deps.Queue)
	userService := services.NewUserService(userRepo, followRepo, postRepo, storyRepo, likeRepo, savedPostRepo, commentRepo, deps.Media, deps.Queue, deps.Logger)

	// --- Protected routes (require JWT authentication) ---
	// Reads go through the per-user response cache. Notifications stay
	// uncached: events pushed by other users would otherwise be invisible
	// until the TTL ran out.
	jwtAuth := middleware.JWTAuthMiddleware(deps.JWTSecret)
	api := e.Group("/api/v1", jwtAuth, middleware.ResponseCache(deps.Cache))
	uncached := e.Group("/api/v1", jwtAuth)

	followHandler := handlers.NewFollowHandler(graphService, deps.Cache, deps.Logger)
	followHandler.RegisterFollowRoutes(api)

	userHandler := handlers.NewUserHandler(userService, deps.Cache, deps.Logger)
	userHandler.RegisterUserRoutes(api)

	postHandler := handlers.NewPostHandler(postService, engagementService, deps.Cache, deps.Logger)
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(engagementService, deps.Cache, deps.Logger)
	commentHandler.RegisterCommentRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedService, exploreService, deps.Logger)
	feedHandler.RegisterFeedRoutes(api)

	storyHandler := handlers.NewStoryHandler(storyService, deps.Cache, deps.Logger)
	storyHandler.RegisterStoryRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService, deps.Logger)
	notificationHandler.RegisterNotificationRoutes(uncached)

	return nil
}
