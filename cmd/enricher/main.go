package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"lectio/internal/app"
	"lectio/internal/config"
	"lectio/internal/queue"
	"lectio/internal/store"
	"lectio/internal/util"
	"lectio/pkg/ai"
)

const workerCount = 2

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.InitLogger(cfg.LogLevel)

	if cfg.RedisAddr == "" {
		log.Fatal("enricher requires redisAddr (set REDIS_ADDR)")
	}

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

	metadataInstructions, err := ai.LoadPrompt(cfg.PromptsDir, "document_metadata.txt")
	if err != nil {
		log.Fatalf("failed to load metadata prompt: %v", err)
	}

	appCore, err := app.New(app.Options{
		Store:                db,
		Sessions:             sessions,
		RefreshTokens:        store.NewMemoryRefreshTokenStore(),
		Parser:               ai.NewOpenAIParser(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel),
		MetadataInstructions: metadataInstructions,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	hostname, _ := os.Hostname()
	q, err := queue.NewEnrichmentQueue(redisClient, queue.Config{Consumer: hostname})
	if err != nil {
		log.Fatalf("failed to init enrichment queue: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := func(ctx context.Context, job queue.Job) error {
		jobCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		return appCore.EnrichSourceDocument(jobCtx, job.DocumentID)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workerCount; i++ {
		consumer := fmt.Sprintf("%s-%d", hostname, i)
		g.Go(func() error {
			q.Run(ctx, consumer, handler)
			return nil
		})
	}

	slog.Info("enricher running", "workers", workerCount)
	_ = g.Wait()
	slog.Info("enricher stopped")
}
