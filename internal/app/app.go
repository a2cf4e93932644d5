package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"lectio/internal/chunker"
	"lectio/internal/queue"
	"lectio/internal/storage"
	"lectio/internal/store"
	"lectio/pkg/ai"
)

const defaultMaxUploadBytes = 10 << 20

// Enqueuer hands upload IDs to the asynchronous enrichment pipeline.
type Enqueuer interface {
	Enqueue(ctx context.Context, documentID string) (queue.Job, error)
}

// Options collects the collaborators and tuning for an App. Objects, Files
// and Queue may be nil; the features backed by them degrade gracefully.
type Options struct {
	Store         store.Store
	Sessions      *store.JWTSessionStore
	RefreshTokens store.RefreshTokenStore
	Parser        ai.StructuredParser
	Objects       storage.ObjectStore
	Files         *storage.FileStore
	Queue         Enqueuer

	ChunkSize         int
	MaxUploadBytes    int64
	AllowedExtensions []string
	RefreshTokenTTL   time.Duration

	ExplainInstructions  string
	MetadataInstructions string
}

// App implements the workbench operations on top of the store and the
// external collaborators. Handlers stay thin; all semantics live here.
type App struct {
	store         store.Store
	sessions      *store.JWTSessionStore
	refreshTokens store.RefreshTokenStore
	parser        ai.StructuredParser
	objects       storage.ObjectStore
	files         *storage.FileStore
	queue         Enqueuer

	chunkSize      int
	maxUploadBytes int64
	allowedExts    map[string]bool
	refreshTTL     time.Duration

	explainInstructions  string
	metadataInstructions string
}

// New validates options and builds an App.
func New(opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if opts.RefreshTokens == nil {
		return nil, errors.New("refresh token store is required")
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	exts := opts.AllowedExtensions
	if len(exts) == 0 {
		exts = []string{".txt"}
	}
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	refreshTTL := opts.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &App{
		store:                opts.Store,
		sessions:             opts.Sessions,
		refreshTokens:        opts.RefreshTokens,
		parser:               opts.Parser,
		objects:              opts.Objects,
		files:                opts.Files,
		queue:                opts.Queue,
		chunkSize:            chunkSize,
		maxUploadBytes:       maxUpload,
		allowedExts:          allowed,
		refreshTTL:           refreshTTL,
		explainInstructions:  opts.ExplainInstructions,
		metadataInstructions: opts.MetadataInstructions,
	}, nil
}

// AccessTokenTTL exposes the session lifetime for cookie expiry.
func (a *App) AccessTokenTTL() time.Duration {
	return a.sessions.TTL()
}
