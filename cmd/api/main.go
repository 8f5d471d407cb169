// @title Adaptive IQ Test API
// @version 1.0
// @description Adaptive multiple-choice IQ test: sessions, next-question selection, answers, reports and report unlocking.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Optional. Type 'Bearer YOUR_JWT_TOKEN' to attach answers to a user.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "adaptive-iq/cmd/api/docs"
	"adaptive-iq/internal/adapter"
	"adaptive-iq/internal/cache"
	"adaptive-iq/internal/config"
	"adaptive-iq/internal/database"
	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/engine"
	"adaptive-iq/internal/handler"
	"adaptive-iq/internal/logger"
	"adaptive-iq/internal/metrics"
	"adaptive-iq/internal/middleware"
	"adaptive-iq/internal/repository"
	"adaptive-iq/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return nil
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional: without it reports are rebuilt on every request.
	var reportCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, report caching disabled", zap.Error(err))
			reportCache = adapter.NewNoopCache()
		} else {
			defer redisClient.Close()
			reportCache = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
		}
	} else {
		reportCache = adapter.NewNoopCache()
	}

	// Repositories
	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	answerRepo := repository.NewAnswerDatabaseAdapter(db)
	sessionRepo := repository.NewTestSessionDatabaseAdapter(db)
	emailRepo := repository.NewEmailDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	adaptiveEngine := engine.New(questionRepo, answerRepo,
		engine.WithTransactionManager(txManager),
		engine.WithMaxQuestions(cfg.Engine.MaxQuestions),
	)
	appLogger.Info("Adaptive engine initialized", zap.Int("max_questions", adaptiveEngine.MaxQuestions()))

	// Services
	testService := service.NewTestService(adaptiveEngine, sessionRepo, questionRepo, emailRepo, txManager, cfg.Unlock)
	reportService := service.NewReportService(adaptiveEngine, sessionRepo, answerRepo, reportCache, cfg.Cache.ReportTTL)

	var authService service.AuthService
	if svc, err := service.NewAuthService(cfg.Auth); err != nil {
		appLogger.Warn("JWT secret not configured, all answers are anonymous", zap.Error(err))
	} else {
		authService = svc
	}

	// Handlers
	validationMiddleware := middleware.NewValidationMiddleware()
	testHandler := handler.NewTestHandler(testService, validationMiddleware.Validator())
	reportHandler := handler.NewReportHandler(reportService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/metrics", metrics.Handler())
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return domain.NewInternalError("Database unreachable", err)
		}
		if err := reportCache.Ping(ctx); err != nil {
			appLogger.Warn("Cache ping failed", zap.Error(err))
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.RegisterRoutes(app.Group("/api"), testHandler, reportHandler, validationMiddleware, authService)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
