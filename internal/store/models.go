package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID             string    `gorm:"primaryKey"`
	Username       string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

type SourceDocumentModel struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"not null;index;uniqueIndex:idx_source_documents_owner_title"`
	Title      string `gorm:"not null;uniqueIndex:idx_source_documents_owner_title"`
	Text       string `gorm:"type:text;not null"`
	Author     string
	Summary    string `gorm:"type:text"`
	Characters string
	Locations  string
	Themes     string
	Symbols    string
	StorageKey string
	SizeBytes  int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

type MetatextModel struct {
	ID               string    `gorm:"primaryKey"`
	UserID           string    `gorm:"not null;index;uniqueIndex:idx_metatexts_owner_title"`
	Title            string    `gorm:"not null;uniqueIndex:idx_metatexts_owner_title"`
	SourceDocumentID string    `gorm:"not null;index"`
	Text             string    `gorm:"type:text;not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

type ChunkModel struct {
	ID                string  `gorm:"primaryKey"`
	MetatextID        string  `gorm:"not null;index"`
	Text              string  `gorm:"type:text;not null"`
	Position          float64 `gorm:"not null;index"`
	Note              string  `gorm:"type:text"`
	Summary           string  `gorm:"type:text"`
	Evaluation        string  `gorm:"type:text"`
	Explanation       string  `gorm:"type:text"`
	FavoritedByUserID *string
	CreatedAt         time.Time `gorm:"not null"`
}

type ExplanationModel struct {
	ID                   string `gorm:"primaryKey"`
	UserID               string `gorm:"not null;index"`
	MetatextID           string `gorm:"not null;index"`
	Type                 string `gorm:"not null;index"`
	Words                string `gorm:"not null"`
	Context              string `gorm:"type:text"`
	Explanation          string `gorm:"type:text;not null"`
	ExplanationInContext string `gorm:"type:text"`
	Raw                  datatypes.JSON
	CreatedAt            time.Time `gorm:"not null;index"`
}

type RewriteModel struct {
	ID          string `gorm:"primaryKey"`
	ChunkID     string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	RewriteText string `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

type ImageModel struct {
	ID        string `gorm:"primaryKey"`
	ChunkID   string `gorm:"not null;index"`
	Prompt    string `gorm:"type:text;not null"`
	Path      string `gorm:"not null"`
	CreatedAt time.Time
}

type UIPreferencesModel struct {
	ID                 string `gorm:"primaryKey"`
	UserID             string `gorm:"uniqueIndex;not null"`
	TextSizePx         int
	FontFamily         string
	LineHeight         float64
	PaddingX           int
	ShowChunkPositions bool
	UpdatedAt          time.Time
}
