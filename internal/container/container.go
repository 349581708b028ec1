package container

import (
	"fmt"

	"rede-backend/internal/config"
	"rede-backend/internal/metrics"
	"rede-backend/internal/randomuser"
	"rede-backend/internal/service"
	"rede-backend/internal/service/session"
	"rede-backend/internal/supabase"
	"rede-backend/internal/viacep"
	"rede-backend/pkg/logger"
	"rede-backend/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *logger.Logger
	Redis      *redis.Client
	Metrics    *metrics.Collector
	Supabase   *supabase.Client
	Sessions   *session.Manager
	Feed       *service.FeedService
	Profiles   *service.ProfileService
	ViaCEP     *viacep.Client
	RandomUser *randomuser.Client
}

// New creates a new dependency injection container. The session store
// lives in Redis, so a Redis URL is required rather than optional.
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info("Redis client initialized successfully")

	collector := metrics.NewCollector()

	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, log, collector)

	sessions := session.NewManager(supabaseClient.Auth(), redisClient, cfg.SessionTTL, cfg.SupabaseJWTSecret, log)

	viaCEPClient := viacep.NewClient(cfg.ViaCEPBaseURL, log, collector)
	randomUserClient := randomuser.NewClient(cfg.RandomUserBaseURL, cfg.SuggestedProxyURL, cfg.SuggestedNationality, log, collector)

	feed := service.NewFeedService(supabaseClient.Rest(), randomUserClient, sessions, log)
	profiles := service.NewProfileService(sessions, supabaseClient.Storage(), supabaseClient.Rest(), sessions, log)

	return &Container{
		Config:     cfg,
		Logger:     log,
		Redis:      redisClient,
		Metrics:    collector,
		Supabase:   supabaseClient,
		Sessions:   sessions,
		Feed:       feed,
		Profiles:   profiles,
		ViaCEP:     viaCEPClient,
		RandomUser: randomUserClient,
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client
func (c *Container) GetRedisClient() *redis.Client {
	return c.Redis
}
