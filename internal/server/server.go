// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "snapdare/docs" // swagger docs
	"snapdare/internal/cache"
	"snapdare/internal/config"
	"snapdare/internal/database"
	"snapdare/internal/middleware"
	"snapdare/internal/models"
	"snapdare/internal/repository"
	"snapdare/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// reconcileInterval is how often the counter reconciliation sweep runs.
const reconcileInterval = 15 * time.Minute

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	followRepo     repository.FollowRepository
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.SubmissionRepository
	mediaRepo      repository.MediaRepository

	userService       *service.UserService
	postService       *service.PostService
	commentService    *service.CommentService
	followService     *service.FollowService
	challengeService  *service.ChallengeService
	submissionService *service.SubmissionService
	mediaService      *service.MediaService
	reconcileService  *service.ReconcileService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("snapdare-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		followRepo:     repository.NewFollowRepository(db),
		challengeRepo:  repository.NewChallengeRepository(db),
		submissionRepo: repository.NewSubmissionRepository(db),
		mediaRepo:      repository.NewMediaRepository(db),
	}

	s.userService = service.NewUserService(s.userRepo)
	s.postService = service.NewPostService(s.postRepo, s.userRepo, s.isAdminByUserID)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.challengeService = service.NewChallengeService(s.challengeRepo, s.isAdminByUserID)
	s.submissionService = service.NewSubmissionService(db, s.submissionRepo, s.challengeRepo, s.postRepo, s.userRepo)
	s.mediaService = service.NewMediaService(s.mediaRepo, cfg)
	s.reconcileService = service.NewReconcileService(db, s.challengeRepo, s.userRepo, s.postRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so browser
	// clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded media
	app.Get("/media/:file", s.ServeMedia)

	authRequired := middleware.AuthRequired(s.config.JWTSecret, s.redis)
	optionalAuth := middleware.OptionalAuth(s.config.JWTSecret)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", authRequired, s.Refresh)
	auth.Post("/logout", authRequired, s.Logout)

	// User routes
	user := api.Group("/user")
	user.Get("/me", authRequired, s.GetMyProfile)
	user.Patch("/me", authRequired, s.UpdateMyProfile)
	user.Get("/:userId", optionalAuth, s.GetUserProfile)

	// Post routes. Specific paths before the generic /:postId.
	post := api.Group("/post")
	post.Post("/create", authRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	post.Patch("/edit/:postId", authRequired, s.EditPost)
	post.Delete("/delete/:postId", authRequired, s.DeletePost)
	post.Get("/feed", optionalAuth, s.GetFeed)
	post.Get("/my-posts", authRequired, s.GetMyPosts)
	post.Post("/like/:postId", authRequired, s.LikePost)
	post.Post("/unlike/:postId", authRequired, s.UnlikePost)
	post.Get("/:postId", optionalAuth, s.GetPost)

	// Comment routes
	comment := api.Group("/comment")
	comment.Post("/:postId", authRequired, middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	comment.Get("/:postId", s.GetComments)
	comment.Delete("/:commentId", authRequired, s.DeleteComment)

	// Follow routes
	follow := api.Group("/follow")
	follow.Post("/", authRequired, s.Follow)
	follow.Delete("/", authRequired, s.Unfollow)
	follow.Get("/followers/:userId", s.GetFollowers)
	follow.Get("/following/:userId", s.GetFollowing)

	// Challenge routes. Specific paths before the generic /:challengeId.
	challenge := api.Group("/challenge")
	challenge.Post("/create", authRequired, middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_challenge"), s.CreateChallenge)
	challenge.Patch("/edit/:challengeId", authRequired, s.EditChallenge)
	challenge.Delete("/delete/:challengeId", authRequired, s.DeleteChallenge)
	challenge.Get("/getall", s.GetAllChallenges)
	challenge.Get("/getmy", authRequired, s.GetMyChallenges)
	challenge.Get("/:challengeId", authRequired, s.GetChallenge)

	// Submission routes
	submit := api.Group("/submit")
	submit.Post("/existing/:challengeId", authRequired, s.SubmitExistingPost)
	submit.Post("/new/:challengeId", authRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_submission"), s.SubmitNewPost)
	submit.Get("/get/:challengeId", authRequired, s.GetSubmissions)
	submit.Delete("/delete/:submissionId", authRequired, s.DeleteSubmission)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API degrades without Redis but reports it
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Snapdare API",
		BodyLimit: (s.config.MediaMaxUploadSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	s.reconcileService.StartPeriodic(s.shutdownCtx, reconcileInterval)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
