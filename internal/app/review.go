package app

import (
	"context"
	"strings"

	"lectio/pkg/domain"
)

// ReviewLists partitions a metatext's explanations by type.
type ReviewLists struct {
	WordList   []domain.Explanation `json:"word_list"`
	PhraseList []domain.Explanation `json:"phrase_list"`
}

// WordlistSummary aggregates the word-type explanations.
type WordlistSummary struct {
	Total          int    `json:"total"`
	UniqueWords    int    `json:"unique_words"`
	MostRecentWord string `json:"most_recent_word,omitempty"`
}

// ChunksSummary reports annotation progress across a metatext's chunks.
// A field counts as present iff its string is non-empty.
type ChunksSummary struct {
	Total          int `json:"total"`
	WithSummary    int `json:"with_summary"`
	WithNote       int `json:"with_note"`
	WithComparison int `json:"with_comparison"`

	SummaryPercent    float64 `json:"summary_percent"`
	NotePercent       float64 `json:"note_percent"`
	ComparisonPercent float64 `json:"comparison_percent"`
}

// MetatextReviewSummary bundles both summaries for the summary endpoint.
type MetatextReviewSummary struct {
	Wordlist WordlistSummary `json:"wordlist_summary"`
	Chunks   ChunksSummary   `json:"chunks_summary"`
}

// Wordlist returns word-type explanations, most recent first.
func (a *App) Wordlist(ctx context.Context, user domain.User, metatextID string) ([]domain.Explanation, error) {
	if _, err := a.requireOwnedMetatext(user, metatextID); err != nil {
		return nil, err
	}
	return a.store.ListExplanationsByType(metatextID, user.ID, domain.ExplanationWord)
}

// PhraseList returns phrase-type explanations, most recent first.
func (a *App) PhraseList(ctx context.Context, user domain.User, metatextID string) ([]domain.Explanation, error) {
	if _, err := a.requireOwnedMetatext(user, metatextID); err != nil {
		return nil, err
	}
	return a.store.ListExplanationsByType(metatextID, user.ID, domain.ExplanationPhrase)
}

// Review returns both explanation lists in one shape.
func (a *App) Review(ctx context.Context, user domain.User, metatextID string) (ReviewLists, error) {
	if _, err := a.requireOwnedMetatext(user, metatextID); err != nil {
		return ReviewLists{}, err
	}
	words, err := a.store.ListExplanationsByType(metatextID, user.ID, domain.ExplanationWord)
	if err != nil {
		return ReviewLists{}, err
	}
	phrases, err := a.store.ListExplanationsByType(metatextID, user.ID, domain.ExplanationPhrase)
	if err != nil {
		return ReviewLists{}, err
	}
	return ReviewLists{WordList: words, PhraseList: phrases}, nil
}

// ChunksForReview returns the metatext's chunks in canonical order.
func (a *App) ChunksForReview(ctx context.Context, user domain.User, metatextID string) ([]domain.Chunk, error) {
	return a.ListChunks(ctx, user, metatextID)
}

// ReviewSummary computes both aggregate shapes. Empty inputs produce
// all-zero summaries rather than errors.
func (a *App) ReviewSummary(ctx context.Context, user domain.User, metatextID string) (MetatextReviewSummary, error) {
	if _, err := a.requireOwnedMetatext(user, metatextID); err != nil {
		return MetatextReviewSummary{}, err
	}
	words, err := a.store.ListExplanationsByType(metatextID, user.ID, domain.ExplanationWord)
	if err != nil {
		return MetatextReviewSummary{}, err
	}
	chunks, err := a.store.ListChunksByMetatext(metatextID)
	if err != nil {
		return MetatextReviewSummary{}, err
	}
	return MetatextReviewSummary{
		Wordlist: summarizeWordlist(words),
		Chunks:   summarizeChunks(chunks),
	}, nil
}

func summarizeWordlist(words []domain.Explanation) WordlistSummary {
	summary := WordlistSummary{Total: len(words)}
	if len(words) == 0 {
		return summary
	}
	unique := make(map[string]struct{}, len(words))
	for _, e := range words {
		unique[strings.ToLower(e.Words)] = struct{}{}
	}
	summary.UniqueWords = len(unique)
	// lists arrive most recent first
	summary.MostRecentWord = words[0].Words
	return summary
}

func summarizeChunks(chunks []domain.Chunk) ChunksSummary {
	summary := ChunksSummary{Total: len(chunks)}
	if len(chunks) == 0 {
		return summary
	}
	for _, c := range chunks {
		if c.Summary != "" {
			summary.WithSummary++
		}
		if c.Note != "" {
			summary.WithNote++
		}
		if c.Evaluation != "" {
			summary.WithComparison++
		}
	}
	total := float64(summary.Total)
	summary.SummaryPercent = 100 * float64(summary.WithSummary) / total
	summary.NotePercent = 100 * float64(summary.WithNote) / total
	summary.ComparisonPercent = 100 * float64(summary.WithComparison) / total
	return summary
}
