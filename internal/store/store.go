package store

import "lectio/pkg/domain"

// DocumentMetadata carries the AI-derived fields applied to a source
// document after enrichment. Each list is a delimited string.
type DocumentMetadata struct {
	Author     string
	Summary    string
	Characters string
	Locations  string
	Themes     string
	Symbols    string
}

// Store abstracts persistence for handlers and services.
type Store interface {
	// users
	CreateUser(u domain.User) error
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	DeleteUser(id string) error

	// source documents
	CreateSourceDocument(doc domain.SourceDocument) error
	GetSourceDocument(id string) (domain.SourceDocument, bool, error)
	ListSourceDocumentsByOwner(ownerID string) ([]domain.SourceDocument, error)
	UpdateSourceDocumentMetadata(id string, meta DocumentMetadata) error
	MetatextCountForDocument(id string) (int64, error)
	DeleteSourceDocument(id string) error

	// metatexts
	CreateMetatextWithChunks(m domain.Metatext, chunkTexts []string) (domain.Metatext, error)
	GetMetatext(id string) (domain.Metatext, bool, error)
	ListMetatextsByOwner(ownerID string) ([]domain.Metatext, error)
	DeleteMetatext(id string) error

	// chunks
	GetChunk(id string) (domain.Chunk, bool, error)
	ListChunksByMetatext(metatextID string) ([]domain.Chunk, error)
	UpdateChunk(id string, fields map[string]any) (domain.Chunk, error)
	SplitChunk(id string, wordIndex int) ([]domain.Chunk, error)
	CombineChunks(firstID, secondID string) (domain.Chunk, error)
	SetChunkFavorite(id, userID string) (domain.Chunk, error)
	ClearChunkFavorite(id, userID string) (domain.Chunk, error)

	// rewrites and images
	CreateRewrite(r domain.Rewrite) error
	ListRewritesByChunk(chunkID string) ([]domain.Rewrite, error)
	CreateImage(img domain.Image) error
	ListImagesByChunk(chunkID string) ([]domain.Image, error)

	// explanations
	CreateExplanation(e domain.Explanation, raw []byte) error
	ListExplanations(metatextID, userID string) ([]domain.Explanation, error)
	ListExplanationsByType(metatextID, userID string, t domain.ExplanationType) ([]domain.Explanation, error)

	// ui preferences
	GetUIPreferences(userID string) (domain.UIPreferences, bool, error)
	SaveUIPreferences(p domain.UIPreferences) (domain.UIPreferences, error)
}
