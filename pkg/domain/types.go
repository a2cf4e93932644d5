package domain

import (
	"strings"
	"time"
)

// ExplanationType partitions explanations by the shape of their input.
type ExplanationType string

const (
	ExplanationWord   ExplanationType = "word"
	ExplanationPhrase ExplanationType = "phrase"
)

// ClassifyWords derives the explanation type from the input span.
// Exactly one whitespace-delimited token is a word, anything else a phrase.
// The rule is syntactic: "don't" is one token, "New York" is two.
func ClassifyWords(words string) ExplanationType {
	if len(strings.Fields(words)) == 1 {
		return ExplanationWord
	}
	return ExplanationPhrase
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

type SourceDocument struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Author     string    `json:"author,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Characters string    `json:"characters,omitempty"`
	Locations  string    `json:"locations,omitempty"`
	Themes     string    `json:"themes,omitempty"`
	Symbols    string    `json:"symbols,omitempty"`
	StorageKey string    `json:"-"`
	SizeBytes  int64     `json:"sizeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SourceDocumentSummary is the list-view shape without the full text.
type SourceDocumentSummary struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToSummary projects the document into its list-view shape.
func (d SourceDocument) ToSummary() SourceDocumentSummary {
	return SourceDocumentSummary{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Title:     d.Title,
		Author:    d.Author,
		SizeBytes: d.SizeBytes,
		CreatedAt: d.CreatedAt,
	}
}

// Metatext is a frozen snapshot of a source document bound to a user and a
// title, chunked for annotation. Its Text never changes after creation;
// edits happen on chunks only.
type Metatext struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	SourceDocumentID string    `json:"sourceDocId"`
	Title            string    `json:"title"`
	Text             string    `json:"text,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	Chunks           []Chunk   `json:"chunks,omitempty"`
}

// MetatextSummary is the list-view shape without text or chunks.
type MetatextSummary struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	SourceDocumentID string    `json:"sourceDocId"`
	Title            string    `json:"title"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (m Metatext) Summary() MetatextSummary {
	return MetatextSummary{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		SourceDocumentID: m.SourceDocumentID,
		Title:            m.Title,
		CreatedAt:        m.CreatedAt,
	}
}

// Chunk is a contiguous slice of a metatext's text. Position is a real-valued
// sparse ordering key; ascending position is the canonical chunk order.
type Chunk struct {
	ID                string    `json:"id"`
	MetatextID        string    `json:"metatextId"`
	Text              string    `json:"text"`
	Position          float64   `json:"position"`
	Note              string    `json:"note"`
	Summary           string    `json:"summary"`
	Evaluation        string    `json:"evaluation"`
	Explanation       string    `json:"explanation"`
	FavoritedByUserID *string   `json:"favoritedByUserId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	Rewrites          []Rewrite `json:"rewrites,omitempty"`
	Images            []Image   `json:"images,omitempty"`
}

type Explanation struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"userId"`
	MetatextID           string          `json:"metatextId"`
	Type                 ExplanationType `json:"type"`
	Words                string          `json:"words"`
	Context              string          `json:"context"`
	Explanation          string          `json:"explanation"`
	ExplanationInContext string          `json:"explanationInContext"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// Rewrite is an alternate phrasing of a chunk, e.g. a "like-I'm-5" version.
type Rewrite struct {
	ID          string    `json:"id"`
	ChunkID     string    `json:"chunkId"`
	Title       string    `json:"title"`
	RewriteText string    `json:"rewriteText"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Image references a file managed by the file store; the core only records
// the resulting path.
type Image struct {
	ID        string    `json:"id"`
	ChunkID   string    `json:"chunkId"`
	Prompt    string    `json:"prompt"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}

type UIPreferences struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"userId"`
	TextSizePx         int     `json:"textSizePx"`
	FontFamily         string  `json:"fontFamily"`
	LineHeight         float64 `json:"lineHeight"`
	PaddingX           int     `json:"paddingX"`
	ShowChunkPositions bool    `json:"showChunkPositions"`
}

// DefaultUIPreferences returns the preference values applied before a user
// has saved any.
func DefaultUIPreferences(userID string) UIPreferences {
	return UIPreferences{
		UserID:             userID,
		TextSizePx:         18,
		FontFamily:         "Georgia, serif",
		LineHeight:         1.6,
		PaddingX:           24,
		ShowChunkPositions: false,
	}
}
