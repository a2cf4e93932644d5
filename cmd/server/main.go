package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"lectio/internal/app"
	"lectio/internal/config"
	"lectio/internal/queue"
	"lectio/internal/ratelimit"
	"lectio/internal/server"
	"lectio/internal/storage"
	"lectio/internal/store"
	"lectio/internal/util"
	"lectio/pkg/ai"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	secret := cfg.SecretKey
	if secret == "" {
		secret = "insecure-test-secret"
	}
	sessions, err := store.NewJWTSessionStore(secret, cfg.Algorithm,
		time.Duration(cfg.AccessTokenExpireMinutes)*time.Minute, store.JWTOptions{})
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}

	var (
		refreshTokens   store.RefreshTokenStore = store.NewMemoryRefreshTokenStore()
		registerLimiter *ratelimit.FixedWindowLimiter
		loginLimiter    *ratelimit.FixedWindowLimiter
		refreshLimiter  *ratelimit.FixedWindowLimiter
		enqueuer        app.Enqueuer
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		refreshTokens = store.NewRedisRefreshTokenStore(cfg.RedisAddr, cfg.RedisPassword)

		newLimiter := func(name string, limit int) *ratelimit.FixedWindowLimiter {
			limiter, err := ratelimit.NewFixedWindowLimiter(redisClient, "lectio:ratelimit:"+name, limit, time.Minute)
			if err != nil {
				log.Fatalf("failed to init %s limiter: %v", name, err)
			}
			return limiter
		}
		registerLimiter = newLimiter("register", 3)
		loginLimiter = newLimiter("login", 5)
		refreshLimiter = newLimiter("refresh", 10)

		q, err := queue.NewEnrichmentQueue(redisClient, queue.Config{})
		if err != nil {
			log.Fatalf("failed to init enrichment queue: %v", err)
		}
		enqueuer = q
	} else {
		logger.Warn("redis not configured: rate limits, enrichment and durable refresh tokens are disabled")
	}

	var objects storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		objects, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("failed to init object store: %v", err)
		}
	}
	files, err := storage.NewFileStore(cfg.ImageStorePath)
	if err != nil {
		log.Fatalf("failed to init file store: %v", err)
	}

	explainInstructions, err := ai.LoadPrompt(cfg.PromptsDir, "explain_words.txt")
	if err != nil {
		log.Fatalf("failed to load explain prompt: %v", err)
	}

	appCore, err := app.New(app.Options{
		Store:               db,
		Sessions:            sessions,
		RefreshTokens:       refreshTokens,
		Parser:              ai.NewOpenAIParser(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel),
		Objects:             objects,
		Files:               files,
		Queue:               enqueuer,
		ChunkSize:           cfg.ChunkSize,
		MaxUploadBytes:      cfg.MaxUploadBytes,
		AllowedExtensions:   cfg.AllowedExtensions,
		RefreshTokenTTL:     time.Duration(cfg.RefreshTokenExpireDays) * 24 * time.Hour,
		ExplainInstructions: explainInstructions,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:             appCore,
		Environment:     cfg.Environment,
		RegisterLimiter: registerLimiter,
		LoginLimiter:    loginLimiter,
		RefreshLimiter:  refreshLimiter,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("lectio server listening", "addr", addr, "environment", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
