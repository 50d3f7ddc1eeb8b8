package internal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"url-shrinker/internal/config"
	"url-shrinker/internal/managers"
	"url-shrinker/internal/metrics"
	"url-shrinker/internal/migrations"
	"url-shrinker/internal/routing"
	"url-shrinker/internal/utils"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func Init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	setLogLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	utils.SetServiceName(cfg.ServiceName)
	utils.EmailValidationType = cfg.EmailValidationType
	if cfg.Email != "" {
		utils.VerifierEmail = cfg.Email
	}

	ctx := context.Background()

	// Connect to database
	log.Info("Initializing database")
	pool, err := managers.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer pool.Close()
	log.Info("Connected to database")

	if cfg.RunMigrations {
		if err := migrations.Run(cfg.DatabaseURL); err != nil {
			log.Fatal("Error running migrations: ", err)
		}
		log.Info("Database schema is up to date")
	}

	// Initialize database manager
	databaseMgr := managers.NewDatabaseManager(pool)

	// Initialize session manager
	sessionMgr, redisClient := initializeSessions(ctx, cfg.RedisURL)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("Error closing redis client: ", err)
			}
		}()
	}

	// Initialize mail manager
	mailMgr, err := managers.NewMailManager(cfg)
	if err != nil {
		log.Fatal("Error initializing mail manager: ", err)
	}

	// Initialize JWT manager
	jwtMgr := managers.NewJWTManager(cfg.AuthKey, cfg.ActivationKey)

	// Initialize router
	r := routing.InitRouter(cfg, databaseMgr, mailMgr, jwtMgr, sessionMgr)
	log.Info("Initialized router")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsServer := metrics.NewServer(cfg.MetricsPort)

	go func() {
		log.Infof("Serving metrics on %s", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Error serving metrics: ", err)
		}
	}()

	go func() {
		log.Infof("Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server: ", err)
		}
	}()

	// Handle interrupt signal gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server: ", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down metrics server: ", err)
	}
	log.Info("Server stopped")
}

// initializeSessions uses redis when a URL is configured and falls back to process memory otherwise.
// The returned client is nil for the memory store.
func initializeSessions(ctx context.Context, redisURL string) (managers.SessionMgr, *redis.Client) {
	if redisURL == "" {
		log.Warn("REDIS_URL not set, sessions are kept in memory and lost on restart")
		return managers.NewMemorySessionManager(), nil
	}

	client, err := managers.NewRedisClient(ctx, redisURL)
	if err != nil {
		log.Fatal("Error connecting to redis: ", err)
	}
	log.Info("Connected to redis")
	return managers.NewRedisSessionManager(client), client
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)

	log.SetOutput(os.Stdout)
}
