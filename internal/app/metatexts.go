package app

import (
	"context"
	"strings"
	"time"

	"lectio/internal/chunker"
	"lectio/internal/store"
	"lectio/pkg/domain"
)

// CreateMetatext snapshots a source document under a new title and chunks it
// in one atomic unit.
func (a *App) CreateMetatext(ctx context.Context, user domain.User, title, sourceDocID string) (domain.MetatextSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.MetatextSummary{}, ErrTitleRequired
	}
	if strings.TrimSpace(sourceDocID) == "" {
		return domain.MetatextSummary{}, ErrSourceDocumentRequired
	}
	doc, err := a.GetSourceDocument(ctx, user, sourceDocID)
	if err != nil {
		return domain.MetatextSummary{}, err
	}
	m := domain.Metatext{
		ID:               store.NewID(),
		OwnerID:          user.ID,
		SourceDocumentID: doc.ID,
		Title:            title,
		Text:             doc.Text,
		CreatedAt:        time.Now().UTC(),
	}
	created, err := a.store.CreateMetatextWithChunks(m, chunker.Split(doc.Text, a.chunkSize))
	if err != nil {
		return domain.MetatextSummary{}, err
	}
	return created.Summary(), nil
}

// GetMetatext returns the metatext with its chunks in canonical order.
// Not-owned reads surface the same NotFound as absent rows.
func (a *App) GetMetatext(ctx context.Context, user domain.User, id string) (domain.Metatext, error) {
	m, ok, err := a.store.GetMetatext(id)
	if err != nil {
		return domain.Metatext{}, err
	}
	if !ok || m.OwnerID != user.ID {
		return domain.Metatext{}, store.ErrNotFound
	}
	chunks, err := a.store.ListChunksByMetatext(m.ID)
	if err != nil {
		return domain.Metatext{}, err
	}
	m.Chunks = chunks
	return m, nil
}

// ListMetatexts returns list-view summaries for the user's metatexts.
func (a *App) ListMetatexts(ctx context.Context, user domain.User) ([]domain.MetatextSummary, error) {
	metatexts, err := a.store.ListMetatextsByOwner(user.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.MetatextSummary, 0, len(metatexts))
	for _, m := range metatexts {
		summaries = append(summaries, m.Summary())
	}
	return summaries, nil
}

// DeleteMetatext removes the metatext and cascades to its chunks, rewrites,
// images and explanations.
func (a *App) DeleteMetatext(ctx context.Context, user domain.User, id string) error {
	m, ok, err := a.store.GetMetatext(id)
	if err != nil {
		return err
	}
	if !ok || m.OwnerID != user.ID {
		return store.ErrNotFound
	}
	return a.store.DeleteMetatext(m.ID)
}

// DownloadMetatext returns the full metatext for the JSON dump endpoint.
func (a *App) DownloadMetatext(ctx context.Context, user domain.User, id string) (domain.Metatext, error) {
	return a.GetMetatext(ctx, user, id)
}
