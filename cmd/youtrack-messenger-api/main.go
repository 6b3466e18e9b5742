// cmd/youtrack-messenger-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	v1 "github.com/zxxqaq/YouTrack-Messenger/internal/api/rest/v1"
	"github.com/zxxqaq/YouTrack-Messenger/internal/app"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/bot"
	"github.com/zxxqaq/YouTrack-Messenger/internal/domain/notifications"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/persistence"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/telegram"
	"github.com/zxxqaq/YouTrack-Messenger/internal/infrastructure/youtrack"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/config"
	"github.com/zxxqaq/YouTrack-Messenger/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/app.yaml"
	}

	appConfig, err := config.InitializeAppConfig(configPath, os.Getenv("APP_PROFILE"))
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&appConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(appConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := closeDB(deps.db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, appConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db          *gorm.DB
	broadcast   notifications.BroadcastService
	sentRecords notifications.SentRecordService
	webhook     bot.WebhookProcessor
	scheduler   *app.Scheduler
	janitor     *app.Janitor
}

var closeDB = persistence.CloseDB

// initializeDependencies sets up all application components. The database
// is closed again when a later step fails.
func initializeDependencies(cfg *config.AppConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	deps, err := wireDependencies(cfg, db, log)
	if err != nil {
		if closeErr := closeDB(db); closeErr != nil {
			log.Warn("failed to close database", "error", closeErr)
		}
		return nil, err
	}
	return deps, nil
}

func wireDependencies(cfg *config.AppConfig, db *gorm.DB, log logger.Logger) (*appDependencies, error) {
	// Run migrations
	if err := persistence.AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info("Database migrations completed successfully")

	storage, err := persistence.NewGormNotificationStorage(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification storage: %w", err)
	}

	// Initialize adapters
	youTrackClient, err := youtrack.NewClient(&cfg.YouTrack, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTrack client: %w", err)
	}

	telegramClient, err := telegram.NewClient(&cfg.Telegram, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram client: %w", err)
	}

	// Initialize services
	broadcast, err := app.NewNotifyService(youTrackClient, telegramClient, storage, cfg.Scheduler.Pagination, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notify service: %w", err)
	}

	sentRecords, err := app.NewSentRecordService(storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create sent record service: %w", err)
	}

	scheduler, err := app.NewScheduler(broadcast, telegramClient, app.NewHealthService(), cfg.Scheduler, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	commands, err := app.NewCommandService(youTrackClient, telegramClient, scheduler, sentRecords, youTrackClient.BaseURL(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create command service: %w", err)
	}

	webhook, err := telegram.NewWebhookHandler(commands, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook handler: %w", err)
	}

	janitor, err := app.NewJanitor(storage, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create janitor: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appDependencies{
		db:          db,
		broadcast:   broadcast,
		sentRecords: sentRecords,
		webhook:     webhook,
		scheduler:   scheduler,
		janitor:     janitor,
	}, nil
}

func newRouter(cfg *config.AppConfig, deps *appDependencies, log logger.Logger) *gin.Engine {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	r := gin.Default()

	// Configure CORS
	corsConfig := cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", v1.SecretTokenHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	v1.SetupRoutes(r,
		deps.broadcast,
		deps.sentRecords,
		deps.webhook,
		deps.scheduler,
		cfg.Scheduler.Top,
		cfg.Telegram.WebhookSecret,
		log,
	)
	return r
}

// serve runs the HTTP server, the scheduler and the janitor until ctx is
// cancelled or one of them fails, then shuts the server down gracefully.
func serve(ctx context.Context, cfg *config.AppConfig, deps *appDependencies, log logger.Logger) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, deps, log),
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return deps.scheduler.Run(gctx)
	})

	g.Go(func() error {
		return deps.janitor.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server stopped gracefully")
	return nil
}
