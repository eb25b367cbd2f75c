package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"lolstats/ingestion/internal/cache"
	"lolstats/ingestion/internal/config"
	"lolstats/ingestion/internal/metrics"
	"lolstats/ingestion/internal/pipeline"
	"lolstats/ingestion/internal/repository"
	"lolstats/ingestion/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting LoL stats ingestion worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Bool("player_stats", cfg.EnablePlayerStats).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize database connection
	db, err := repository.NewDatabase(ctx, repository.Config{
		DSN:      cfg.DatabaseDSN(),
		Host:     cfg.DatabaseHost,
		Database: cfg.DatabaseName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize Redis client
	var pageCache pipeline.Cache
	var redisCache *cache.RedisCache
	if cfg.CacheEnabled {
		redisCache, err = cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			defer redisCache.Close()
			pageCache = redisCache
			log.Info().Msg("Redis cache connected")
		}
	}

	// Build champion index and data sources
	p, err := pipeline.New(ctx, cfg, pageCache)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build ingestion pipeline")
	}
	updater := p.Updater(scheduler.NewDBStore(db))

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		var cacheCheck healthChecker
		if redisCache != nil {
			cacheCheck = redisCache
		}
		srv := newServer(ctx, db, cacheCheck, updater)
		go srv.start(ctx, cfg.MetricsPort)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg.RefreshCron, updater)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial sync if enabled
	if cfg.InitialSyncEnabled {
		log.Info().Msg("Running initial update...")
		if _, err := updater.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("Initial update failed, continuing anyway...")
		} else {
			log.Info().Msg("Initial update completed")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	if cfg.EnableScheduler {
		log.Info().Msg("Shutting down scheduler...")
		sched.Stop()
	}

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}
