package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/domain/fiber/handler"
	"github.com/fadilmartias/pitch-analyzer/internal/extractor"
	"github.com/fadilmartias/pitch-analyzer/internal/logger"
	"github.com/fadilmartias/pitch-analyzer/internal/metrics"
	"github.com/fadilmartias/pitch-analyzer/internal/middleware"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/fadilmartias/pitch-analyzer/internal/repository"
	"github.com/fadilmartias/pitch-analyzer/internal/service"
	"github.com/fadilmartias/pitch-analyzer/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	logr := logger.New(appConfig.LogLevel, appConfig.Env)
	defer logr.Sync()

	m := metrics.New()
	storageConfig := config.LoadStorageConfig()
	llmConfig := config.LoadLLMConfig()

	store, err := newResultStore(ctx, storageConfig, logr)
	if err != nil {
		logr.Fatal("result store unavailable", zap.Error(err))
	}

	completer, err := newCompleter(ctx, llmConfig, m, logr)
	if err != nil {
		logr.Fatal("completion client unavailable", zap.Error(err))
	}

	notifier, err := newNotifier(ctx, config.LoadEmailConfig(), logr)
	if err != nil {
		logr.Fatal("email notifier unavailable", zap.Error(err))
	}

	scoring := service.NewScoringService(completer, llmConfig, logr)
	evaluator := usecase.NewEvaluator(scoring, m, logr)
	uc := usecase.NewEvaluationUsecase(
		extractor.New(storageConfig.PDFEngine, logr),
		evaluator,
		store,
		notifier,
		llmConfig.CheckCredential,
		m,
		logr,
	)
	if err := uc.Ready(); err != nil {
		logr.Warn("uploads will be rejected until the credential is set", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		// one extra MB so oversize uploads reach the handler and get a 400
		BodyLimit: (appConfig.MaxUploadMB + 1) * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(middleware.Metrics(m))
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return uc.Ready() == nil
		},
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	handler.NewEvaluateHandler(uc, appConfig, logr).RegisterRoutes(app)

	logr.Info("server running",
		zap.String("port", appConfig.Port),
		zap.String("provider", llmConfig.Provider),
		zap.String("model", llmConfig.Model),
		zap.String("cache", storageConfig.Cache),
		zap.String("mirror", storageConfig.Mirror),
	)
	if err := app.Listen(appConfig.Port); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func newResultStore(ctx context.Context, cfg *config.StorageConfig, logr *zap.Logger) (*repository.ResultRepository, error) {
	var cache repository.Cache = repository.NewMemoryCache()
	if cfg.Cache == config.CacheRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		cache = repository.NewRedisCache(client, cfg.RedisPrefix)
	}

	var mirror repository.Mirror = repository.NewFileMirror(cfg.ReportsDir)
	if cfg.Mirror == config.MirrorPostgres {
		db, err := ConnectDB()
		if err != nil {
			return nil, err
		}
		mirror = repository.NewPostgresMirror(db)
	}

	return repository.NewResultRepository(cache, mirror, logr), nil
}

func newCompleter(ctx context.Context, cfg *config.LLMConfig, m *metrics.Metrics, logr *zap.Logger) (service.Completer, error) {
	if cfg.Provider != config.ProviderGemini {
		return service.NewChatCompletionService(cfg, m, logr), nil
	}

	geminiConfig := config.LoadGeminiConfig()
	if geminiConfig.APIKey == "" {
		// requests are refused by the credential check, no client needed yet
		return nil, nil
	}
	return service.NewGeminiService(ctx, cfg, geminiConfig, m, logr)
}

// newNotifier returns nil when email is not configured.
func newNotifier(ctx context.Context, cfg *config.EmailConfig, logr *zap.Logger) (usecase.ReportNotifier, error) {
	if !cfg.Enabled() {
		logr.Info("email notifications disabled", zap.String("provider", cfg.Provider))
		return nil, nil
	}
	switch cfg.Provider {
	case config.EmailSES:
		return service.NewSESNotifierFromConfig(ctx, cfg)
	default:
		return service.NewSendGridNotifier(cfg), nil
	}
}

func ConnectDB() (*gorm.DB, error) {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&model.EvaluationReport{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
