package app

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"lectio/internal/store"
	"lectio/internal/util"
)

const enrichmentExcerptLimit = 8000

// documentMetadataAnswer is the model's response shape for enrichment.
type documentMetadataAnswer struct {
	Summary    string   `json:"summary"`
	Characters []string `json:"characters"`
	Locations  []string `json:"locations"`
	Themes     []string `json:"themes"`
	Symbols    []string `json:"symbols"`
}

// EnrichSourceDocument asks the model for document metadata and applies it.
// Metatexts created before enrichment keep their frozen snapshot; only the
// source document row changes.
func (a *App) EnrichSourceDocument(ctx context.Context, documentID string) error {
	doc, ok, err := a.store.GetSourceDocument(documentID)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}

	excerpt := truncateValidUTF8(doc.Text, enrichmentExcerptLimit)
	prompt := fmt.Sprintf("title='%s' text='%s'", doc.Title, excerpt)

	var answer documentMetadataAnswer
	if err := a.parser.Parse(ctx, a.metadataInstructions, prompt, &answer); err != nil {
		return err
	}

	meta := store.DocumentMetadata{
		Author:     doc.Author,
		Summary:    strings.TrimSpace(answer.Summary),
		Characters: joinList(answer.Characters),
		Locations:  joinList(answer.Locations),
		Themes:     joinList(answer.Themes),
		Symbols:    joinList(answer.Symbols),
	}
	if err := a.store.UpdateSourceDocumentMetadata(doc.ID, meta); err != nil {
		return err
	}
	util.LoggerFromContext(ctx).Info("document enriched", "document_id", doc.ID)
	return nil
}

// truncateValidUTF8 cuts text at or before limit bytes, never mid-rune.
func truncateValidUTF8(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

func joinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, "; ")
}
