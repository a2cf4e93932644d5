package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lectio/internal/store"
	"lectio/pkg/domain"
)

// ExplainRequest carries the span a user wants explained. The metatext may
// be named directly or implied through one of its chunks.
type ExplainRequest struct {
	Words      string `json:"words"`
	Context    string `json:"context"`
	MetatextID string `json:"metatextId"`
	ChunkID    string `json:"chunkId"`
}

// ExplainResult is the model's two-field answer, returned verbatim.
type ExplainResult struct {
	Explanation          string `json:"explanation"`
	ExplanationInContext string `json:"explanation_in_context"`
}

// Explain classifies the span as a word or phrase, asks the model for a
// gloss, and persists the answer scoped to (user, metatext). Nothing is
// persisted when the model call fails.
func (a *App) Explain(ctx context.Context, user domain.User, req ExplainRequest) (ExplainResult, error) {
	words := strings.TrimSpace(req.Words)
	if words == "" {
		return ExplainResult{}, ErrWordsRequired
	}
	metatextID, err := a.resolveMetatextID(user, req)
	if err != nil {
		return ExplainResult{}, err
	}

	prompt := fmt.Sprintf("words='%s' context='%s'", words, req.Context)
	var result ExplainResult
	if err := a.parser.Parse(ctx, a.explainInstructions, prompt, &result); err != nil {
		return ExplainResult{}, err
	}

	explanation := domain.Explanation{
		ID:                   store.NewID(),
		UserID:               user.ID,
		MetatextID:           metatextID,
		Type:                 domain.ClassifyWords(words),
		Words:                words,
		Context:              req.Context,
		Explanation:          result.Explanation,
		ExplanationInContext: result.ExplanationInContext,
		CreatedAt:            time.Now().UTC(),
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return ExplainResult{}, fmt.Errorf("encode ai response: %w", err)
	}
	if err := a.store.CreateExplanation(explanation, raw); err != nil {
		return ExplainResult{}, err
	}
	return result, nil
}

func (a *App) resolveMetatextID(user domain.User, req ExplainRequest) (string, error) {
	if id := strings.TrimSpace(req.MetatextID); id != "" {
		m, ok, err := a.store.GetMetatext(id)
		if err != nil {
			return "", err
		}
		if !ok || m.OwnerID != user.ID {
			return "", store.ErrNotFound
		}
		return m.ID, nil
	}
	if id := strings.TrimSpace(req.ChunkID); id != "" {
		chunk, err := a.ownedChunk(user, id)
		if err != nil {
			return "", err
		}
		return chunk.MetatextID, nil
	}
	return "", ErrMetatextRequired
}

// ListExplanations returns every explanation for (user, metatext), most
// recent first.
func (a *App) ListExplanations(ctx context.Context, user domain.User, metatextID string) ([]domain.Explanation, error) {
	if _, err := a.requireOwnedMetatext(user, metatextID); err != nil {
		return nil, err
	}
	return a.store.ListExplanations(metatextID, user.ID)
}

func (a *App) requireOwnedMetatext(user domain.User, metatextID string) (domain.Metatext, error) {
	m, ok, err := a.store.GetMetatext(metatextID)
	if err != nil {
		return domain.Metatext{}, err
	}
	if !ok || m.OwnerID != user.ID {
		return domain.Metatext{}, store.ErrNotFound
	}
	return m, nil
}
