// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"

	"wallmirror/internal/cache"
	"wallmirror/internal/config"
	"wallmirror/internal/database"
	"wallmirror/internal/middleware"
	"wallmirror/internal/repository"
	"wallmirror/internal/scheduler"
	syncengine "wallmirror/internal/sync"
	"wallmirror/internal/vk"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SyncRunner is the synchronization entry point the admin trigger and the
// scheduler invoke.
type SyncRunner interface {
	Run(ctx context.Context, opts syncengine.Options) (*syncengine.Result, error)
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	postRepo       repository.PostRepository
	stateRepo      repository.SyncStateRepository
	engine         SyncRunner
	schedCancel    context.CancelFunc
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	postRepo := repository.NewPostRepository(db)
	stateRepo := repository.NewSyncStateRepository(db)

	source := vk.NewClient(cfg.VKToken, cfg.VKAPIVersion)
	loader := syncengine.NewDiskLoader(cfg.UploadsDir)
	engine := syncengine.NewEngine(source, postRepo, stateRepo, loader, cfg)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("wallmirror"),
		postRepo:       postRepo,
		stateRepo:      stateRepo,
		engine:         engine,
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware, app))
	}

	app.Use(middleware.RequestLogger())
}

// SetupRoutes registers the API surface.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.Health)

	api := app.Group("/api")
	api.Get("/posts", s.ListPosts)

	admin := app.Group("/admin", middleware.APIKeyRequired(s.config.AdminAPIKey))
	admin.Post("/sync", s.TriggerSync)
	admin.Get("/sync/state", s.GetSyncState)

	// Side-loaded media is served straight from the uploads directory.
	app.Static(s.config.PublicUploadsURL, s.config.UploadsDir)
}

// StartScheduler launches the periodic sync trigger in the background.
func (s *Server) StartScheduler() {
	ctx, cancel := context.WithCancel(context.Background())
	s.schedCancel = cancel
	go scheduler.New(s.engine, s.config.SyncInterval).Start(ctx)
}

// Health handles GET /health
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.schedCancel != nil {
		s.schedCancel()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
