package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/internal/adapter/handler"
	"github.com/johnquangdev/meetmind/internal/adapter/repository"
	"github.com/johnquangdev/meetmind/internal/infrastructure/cache"
	"github.com/johnquangdev/meetmind/internal/infrastructure/database"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/bot"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/notify"
	httpmw "github.com/johnquangdev/meetmind/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meetmind/internal/infrastructure/storage"
	"github.com/johnquangdev/meetmind/internal/metrics"
	"github.com/johnquangdev/meetmind/internal/usecase/autojoin"
	meetingUsecase "github.com/johnquangdev/meetmind/internal/usecase/meeting"
	"github.com/johnquangdev/meetmind/pkg/config"
	"github.com/johnquangdev/meetmind/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/meetmind/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Lives until shutdown; recordings and the scheduler stop with it
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE and run meetmindctl migrate up.")
		}
		if err := database.AutoMigrate(db, cfg.Database.MigrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use meetmindctl migrate up")
	}

	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)

	// Trigger ledger
	var ledger autojoin.Ledger
	switch cfg.Scheduler.LedgerBackend {
	case config.LedgerBackendRedis:
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(appCtx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		ledger = cache.NewRedisLedger(redisClient, cfg.Scheduler.LedgerTTL)
	default:
		memLedger := cache.NewMemoryLedger(cfg.Scheduler.LedgerTTL)
		defer memLedger.Close()
		ledger = memLedger
	}

	log.Printf("🗄️  Initializing %s artifact storage...", cfg.Storage.Type)
	store, err := storage.New(appCtx, &cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	notifier, err := notify.New(cfg.SMTP, logger)
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	recorder := bot.NewRecorder(cfg.Bot, logger)
	probe := bot.NewProbe(cfg.Bot)
	if st := probe.Check(appCtx); !st.Ready {
		logger.Warn("⚠️ Meeting bot is not ready, auto-join will be suppressed", zap.String("reason", st.Message))
	}

	sink := metrics.NewPrometheusSink(prometheus.DefaultRegisterer)

	log.Println("🤖 Initializing auto-join components...")
	supervisor := autojoin.NewSupervisor(appCtx, autojoin.SupervisorConfig{
		Location:       cfg.Location(),
		TrackingBuffer: cfg.Scheduler.TrackingBuffer,
		BotName:        cfg.Bot.DisplayName,
	}, meetingRepo, summaryRepo, recorder, store, notifier, ledger, logger).WithMetrics(sink)

	scheduler := autojoin.NewScheduler(autojoin.SchedulerConfig{
		TickInterval: cfg.Scheduler.TickInterval,
		Location:     cfg.Location(),
	}, meetingRepo, ledger, supervisor, probe, notifier, logger).WithMetrics(sink)

	schedulerDone := make(chan struct{})
	if cfg.Scheduler.Enabled {
		go func() {
			defer close(schedulerDone)
			if err := scheduler.Run(appCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("❌ Scheduler stopped", zap.Error(err))
			}
		}()
	} else {
		close(schedulerDone)
		log.Println("⏸️  Scheduler disabled")
	}

	// Services and handlers
	v := pkgvalidator.New()
	meetingService := meetingUsecase.NewMeetingService(meetingRepo, supervisor, probe, v)
	summaryService := meetingUsecase.NewSummaryService(summaryRepo, meetingRepo, store, logger)
	meetingHandler := handler.NewMeetingHandler(meetingService, logger)
	summaryHandler := handler.NewSummaryHandler(summaryService, logger)

	log.Println("🛣️  Setting up routes...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	router := handler.NewRouter(cfg, meetingHandler, summaryHandler, httpmw.EchoAuth(jwtManager), v).
		WithMetrics(promhttp.Handler()).
		WithReadiness("database", func(ctx context.Context) error { return database.Ping(ctx, db) }).
		WithReadiness("storage", store.Ping).
		WithReadiness("bot", func(ctx context.Context) error {
			if st := probe.Check(ctx); !st.Ready {
				return errors.New(st.Message)
			}
			return nil
		})
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	stopApp()
	<-schedulerDone
	scheduler.Wait()
	supervisor.Wait()

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
