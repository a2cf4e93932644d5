package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"lectio/internal/store"
	"lectio/pkg/domain"
)

// ownedChunk resolves a chunk and verifies the caller owns its metatext.
// Failures collapse into NotFound so existence is not disclosed.
func (a *App) ownedChunk(user domain.User, chunkID string) (domain.Chunk, error) {
	chunk, ok, err := a.store.GetChunk(chunkID)
	if err != nil {
		return domain.Chunk{}, err
	}
	if !ok {
		return domain.Chunk{}, store.ErrNotFound
	}
	m, ok, err := a.store.GetMetatext(chunk.MetatextID)
	if err != nil {
		return domain.Chunk{}, err
	}
	if !ok || m.OwnerID != user.ID {
		return domain.Chunk{}, store.ErrNotFound
	}
	return chunk, nil
}

// GetChunk returns one chunk with its rewrites and images attached.
func (a *App) GetChunk(ctx context.Context, user domain.User, id string) (domain.Chunk, error) {
	chunk, err := a.ownedChunk(user, id)
	if err != nil {
		return domain.Chunk{}, err
	}
	return a.attachChunkChildren(chunk)
}

// ListChunks returns a metatext's chunks in canonical order. The metatext
// must exist and be owned; an empty chunk list is a valid result.
func (a *App) ListChunks(ctx context.Context, user domain.User, metatextID string) ([]domain.Chunk, error) {
	m, ok, err := a.store.GetMetatext(metatextID)
	if err != nil {
		return nil, err
	}
	if !ok || m.OwnerID != user.ID {
		return nil, store.ErrNotFound
	}
	return a.store.ListChunksByMetatext(m.ID)
}

// UpdateChunk patches the permitted fields of a chunk.
func (a *App) UpdateChunk(ctx context.Context, user domain.User, id string, fields map[string]any) (domain.Chunk, error) {
	if _, err := a.ownedChunk(user, id); err != nil {
		return domain.Chunk{}, err
	}
	return a.store.UpdateChunk(id, fields)
}

// SplitChunk divides a chunk at a 1-based token boundary, returning the
// original (left part) and the new chunk (right part).
func (a *App) SplitChunk(ctx context.Context, user domain.User, id string, wordIndex int) ([]domain.Chunk, error) {
	if _, err := a.ownedChunk(user, id); err != nil {
		return nil, err
	}
	return a.store.SplitChunk(id, wordIndex)
}

// CombineChunks merges a chunk with its immediate successor. secondID may be
// empty, in which case the successor is looked up.
func (a *App) CombineChunks(ctx context.Context, user domain.User, firstID, secondID string) (domain.Chunk, error) {
	if _, err := a.ownedChunk(user, firstID); err != nil {
		return domain.Chunk{}, err
	}
	combined, err := a.store.CombineChunks(firstID, secondID)
	if err != nil {
		return domain.Chunk{}, err
	}
	return a.attachChunkChildren(combined)
}

// FavoriteChunk marks a chunk as the user's favorite.
func (a *App) FavoriteChunk(ctx context.Context, user domain.User, id string) (domain.Chunk, error) {
	if _, err := a.ownedChunk(user, id); err != nil {
		return domain.Chunk{}, err
	}
	return a.store.SetChunkFavorite(id, user.ID)
}

// UnfavoriteChunk clears the favorite mark; only the favoriter may clear it.
func (a *App) UnfavoriteChunk(ctx context.Context, user domain.User, id string) (domain.Chunk, error) {
	if _, err := a.ownedChunk(user, id); err != nil {
		return domain.Chunk{}, err
	}
	return a.store.ClearChunkFavorite(id, user.ID)
}

// AddRewrite stores an alternate phrasing of a chunk.
func (a *App) AddRewrite(ctx context.Context, user domain.User, chunkID, title, rewriteText string) (domain.Rewrite, error) {
	if strings.TrimSpace(title) == "" {
		return domain.Rewrite{}, ErrTitleRequired
	}
	if _, err := a.ownedChunk(user, chunkID); err != nil {
		return domain.Rewrite{}, err
	}
	rewrite := domain.Rewrite{
		ID:          store.NewID(),
		ChunkID:     chunkID,
		Title:       strings.TrimSpace(title),
		RewriteText: rewriteText,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.CreateRewrite(rewrite); err != nil {
		return domain.Rewrite{}, err
	}
	return rewrite, nil
}

// ListRewrites returns a chunk's rewrites.
func (a *App) ListRewrites(ctx context.Context, user domain.User, chunkID string) ([]domain.Rewrite, error) {
	if _, err := a.ownedChunk(user, chunkID); err != nil {
		return nil, err
	}
	return a.store.ListRewritesByChunk(chunkID)
}

// AddImage saves an uploaded illustration for a chunk and records the prompt
// that produced it. The file lands on disk via the file store's atomic write.
func (a *App) AddImage(ctx context.Context, user domain.User, chunkID, prompt, filename string, file io.Reader) (domain.Image, error) {
	if a.files == nil {
		return domain.Image{}, fmt.Errorf("image storage is not configured")
	}
	if _, err := a.ownedChunk(user, chunkID); err != nil {
		return domain.Image{}, err
	}
	path, err := a.files.Save(chunkID, filename, file)
	if err != nil {
		return domain.Image{}, fmt.Errorf("save image: %w", err)
	}
	image := domain.Image{
		ID:        store.NewID(),
		ChunkID:   chunkID,
		Prompt:    strings.TrimSpace(prompt),
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.CreateImage(image); err != nil {
		return domain.Image{}, err
	}
	return image, nil
}

// ListImages returns a chunk's images.
func (a *App) ListImages(ctx context.Context, user domain.User, chunkID string) ([]domain.Image, error) {
	if _, err := a.ownedChunk(user, chunkID); err != nil {
		return nil, err
	}
	return a.store.ListImagesByChunk(chunkID)
}

func (a *App) attachChunkChildren(chunk domain.Chunk) (domain.Chunk, error) {
	rewrites, err := a.store.ListRewritesByChunk(chunk.ID)
	if err != nil {
		return domain.Chunk{}, err
	}
	images, err := a.store.ListImagesByChunk(chunk.ID)
	if err != nil {
		return domain.Chunk{}, err
	}
	chunk.Rewrites = rewrites
	chunk.Images = images
	return chunk, nil
}
