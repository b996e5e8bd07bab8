package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sjsage522/adscraper/config"
	"sjsage522/adscraper/helpers"
	"sjsage522/adscraper/internal/api"
	"sjsage522/adscraper/internal/crawler"
	"sjsage522/adscraper/logger"
	"sjsage522/adscraper/services/publisher"
	"sjsage522/adscraper/services/session"
	"sjsage522/adscraper/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("target_url", cfg.TargetURL).
		Int("max_pages", cfg.MaxPages).
		Dur("page_delay", cfg.PageDelay).
		Msg("Starting application")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	collector := crawler.NewCollector(
		crawler.CollectorConfig{MaxPages: cfg.MaxPages, Delay: cfg.PageDelay},
		helpers.NewPageFetcher(cfg.UserAgent, cfg.RequestTimeout),
		crawler.NewExtractor(crawler.DefaultSelectors()),
	)
	w := worker.NewWorker(collector, services.Sessions, services.Publisher)

	server := api.NewServer(w, services.Sessions, api.Options{
		TargetURL:      cfg.TargetURL,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookie:   strings.EqualFold(cfg.Environment, "production"),
	})

	httpServer := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		// a scrape holds the request open for every page fetch and delay
		WriteTimeout: time.Duration(cfg.MaxPages)*(cfg.RequestTimeout+cfg.PageDelay) + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("Starting HTTP server")
		serverDone <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

// Services holds all the initialized services
type Services struct {
	Sessions  session.Store
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	switch cfg.SessionBackend {
	case config.SessionBackendMemcache:
		store := session.NewMemcacheStore(cfg.MemcacheAddr, cfg.SessionTTL)
		if err := store.Ping(); err != nil {
			logger.Warn("Memcache at %s is not reachable yet: %v", cfg.MemcacheAddr, err)
		} else {
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
		services.Sessions = store
	default:
		services.Sessions = session.NewMemoryStore()
		logger.Info("Using in-memory session store")
	}

	if cfg.RedisAddr == "" {
		services.Publisher = publisher.NopPublisher{}
		logger.Info("Redis publisher disabled")
		return services, nil
	}

	redisPublisher := publisher.NewRedisPublisher(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLength,
	)
	if err := redisPublisher.Ping(ctx); err != nil {
		logger.LogError("publisher", err, "Redis at %s is not reachable", cfg.RedisAddr)
		redisPublisher.Close()
		return nil, err
	}
	services.Publisher = redisPublisher

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return services, nil
}
