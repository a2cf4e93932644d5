package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"lectio/internal/storage"
	"lectio/internal/store"
	"lectio/internal/util"
	"lectio/pkg/domain"
)

// CreateSourceDocument validates and ingests an uploaded file, retains the
// raw bytes in object storage when configured, and queues metadata
// enrichment. The document is fully usable even when those side paths fail.
func (a *App) CreateSourceDocument(ctx context.Context, user domain.User, title, filename string, file io.Reader, declaredSize int64) (domain.SourceDocument, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.SourceDocument{}, ErrTitleRequired
	}
	ext := strings.ToLower(path.Ext(filename))
	if !a.allowedExts[ext] {
		return domain.SourceDocument{}, &UnsupportedExtensionError{Extension: ext}
	}
	if declaredSize > a.maxUploadBytes {
		return domain.SourceDocument{}, &FileTooLargeError{SizeBytes: declaredSize, LimitBytes: a.maxUploadBytes}
	}

	data, err := io.ReadAll(io.LimitReader(file, a.maxUploadBytes+1))
	if err != nil {
		return domain.SourceDocument{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > a.maxUploadBytes {
		return domain.SourceDocument{}, &FileTooLargeError{SizeBytes: int64(len(data)), LimitBytes: a.maxUploadBytes}
	}

	text, err := extractText(ext, data)
	if err != nil {
		return domain.SourceDocument{}, err
	}
	author := extractAuthor(text)
	text = trimGutenbergBoilerplate(text)

	now := time.Now().UTC()
	doc := domain.SourceDocument{
		ID:        store.NewID(),
		OwnerID:   user.ID,
		Title:     title,
		Text:      text,
		Author:    author,
		SizeBytes: int64(len(data)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if a.objects != nil {
		doc.StorageKey = storage.DocumentKey(doc.ID, filename)
	}
	if err := a.store.CreateSourceDocument(doc); err != nil {
		return domain.SourceDocument{}, err
	}

	logger := util.LoggerFromContext(ctx)
	if a.objects != nil {
		contentType := "text/plain; charset=utf-8"
		if ext == ".pdf" {
			contentType = "application/pdf"
		} else if ext == ".html" || ext == ".htm" {
			contentType = "text/html; charset=utf-8"
		}
		if err := a.objects.Put(ctx, doc.StorageKey, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			logger.Warn("retain raw upload", "document_id", doc.ID, "error", err)
		}
	}
	if a.queue != nil {
		if _, err := a.queue.Enqueue(ctx, doc.ID); err != nil {
			logger.Warn("enqueue enrichment", "document_id", doc.ID, "error", err)
		}
	}
	return doc, nil
}

// ListSourceDocuments returns list-view summaries for the user's documents.
func (a *App) ListSourceDocuments(ctx context.Context, user domain.User) ([]domain.SourceDocumentSummary, error) {
	docs, err := a.store.ListSourceDocumentsByOwner(user.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.SourceDocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.ToSummary())
	}
	return summaries, nil
}

// GetSourceDocument returns the full document. Not-owned reads surface the
// same NotFound as absent rows.
func (a *App) GetSourceDocument(ctx context.Context, user domain.User, id string) (domain.SourceDocument, error) {
	doc, ok, err := a.store.GetSourceDocument(id)
	if err != nil {
		return domain.SourceDocument{}, err
	}
	if !ok || doc.OwnerID != user.ID {
		return domain.SourceDocument{}, store.ErrNotFound
	}
	return doc, nil
}

// DeleteSourceDocument removes a document unless metatexts still depend on it.
func (a *App) DeleteSourceDocument(ctx context.Context, user domain.User, id string) error {
	doc, err := a.GetSourceDocument(ctx, user, id)
	if err != nil {
		return err
	}
	if err := a.store.DeleteSourceDocument(doc.ID); err != nil {
		return err
	}
	if a.objects != nil && doc.StorageKey != "" {
		if err := a.objects.Delete(ctx, doc.StorageKey); err != nil {
			util.LoggerFromContext(ctx).Warn("delete raw upload", "document_id", doc.ID, "error", err)
		}
	}
	return nil
}

// SourceDocumentDownloadURL returns a pre-signed URL for the original file.
func (a *App) SourceDocumentDownloadURL(ctx context.Context, user domain.User, id string) (string, error) {
	doc, err := a.GetSourceDocument(ctx, user, id)
	if err != nil {
		return "", err
	}
	if a.objects == nil || doc.StorageKey == "" {
		return "", store.ErrNotFound
	}
	return a.objects.PresignGet(ctx, doc.StorageKey, 15*time.Minute)
}
