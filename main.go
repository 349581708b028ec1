package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"rede-backend/internal/config"
	"rede-backend/internal/container"
	"rede-backend/internal/handler"
	"rede-backend/internal/middleware"
	"rede-backend/pkg/logger"
	"rede-backend/pkg/redis"
	"rede-backend/web"
)

// Resources holds all resources that need cleanup
type Resources struct {
	redisClient *redis.Client
	server      *http.Server
	log         *logger.Logger
	mu          sync.Mutex
	closed      bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	// Close Redis connection with health check
	if r.redisClient != nil {
		r.log.Info("Closing Redis connection...")

		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.redisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		healthCancel()

		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting rede-backend server")

	// Create dependency injection container
	c, err := container.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Setup router
	router, err := setupRouter(c)
	if err != nil {
		log.WithError(err).Fatal("Failed to setup router")
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Create resources manager for cleanup
	resources := &Resources{
		redisClient: c.Redis,
		server:      server,
		log:         log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) (*chi.Mux, error) {
	cfg := c.GetConfig()
	log := c.GetLogger()
	secureCookies := cfg.Environment == "production"

	renderer, err := handler.NewRenderer(log)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	homeHandler := handler.NewHomeHandler(renderer)
	authHandler := handler.NewAuthHandler(c.Sessions, renderer, cfg.SessionTTL, secureCookies, log)
	profileHandler := handler.NewProfileHandler(c.Profiles, renderer, cfg.SessionTTL, secureCookies, log)
	feedHandler := handler.NewFeedHandler(c.Feed, renderer)
	userHandler := handler.NewUserHandler(c.Profiles, renderer, log)
	cepHandler := handler.NewCEPHandler(c.ViaCEP, log)
	healthHandler := handler.NewHealthHandler(c.Redis, log)

	r := chi.NewRouter()

	// Setup middlewares
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.NotFound(handler.NotFound(renderer))

	// Operational endpoints stay outside the session middleware
	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", c.Metrics.Handler())
	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))

	// Pages resolve the session before any navigation decision
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(c.Sessions, log))

		// landing only makes sense without an identity
		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectAuthenticated("/lista"))
			r.Get("/", homeHandler.Show)
		})

		r.Post("/entrar", authHandler.Login)
		r.Post("/sair", authHandler.Logout)

		// the profile form serves both creation and edit mode
		r.Get("/cadastro", profileHandler.Show)
		r.Post("/cadastro", profileHandler.Submit)

		r.Get("/api/cep/{code}", cepHandler.Lookup)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity(log))
			r.Get("/lista", feedHandler.Show)
			r.Get("/user/{userID}", userHandler.Show)
		})
	})

	return r, nil
}
