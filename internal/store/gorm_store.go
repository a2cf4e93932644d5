package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"lectio/internal/chunker"
	"lectio/pkg/domain"
)

// chunkPatchFields is the subset of chunk columns a partial update may touch.
// Unknown keys are silently ignored.
var chunkPatchFields = map[string]struct{}{
	"text":        {},
	"position":    {},
	"note":        {},
	"summary":     {},
	"evaluation":  {},
	"explanation": {},
}

// GormStore implements Store using GORM. The DSN selects the backend:
// postgres URLs open Postgres, anything else opens SQLite.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(openDialector(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&SourceDocumentModel{},
		&MetatextModel{},
		&ChunkModel{},
		&ExplanationModel{},
		&RewriteModel{},
		&ImageModel{},
		&UIPreferencesModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func openDialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// NewID returns an identifier for a new row.
func NewID() string {
	return uuid.NewString()
}

// CreateUser registers a user.
func (s *GormStore) CreateUser(u domain.User) error {
	model := userToModel(u)
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameExists
		}
		return err
	}
	return nil
}

// GetUserByUsername looks up a user by unique name.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// DeleteUser removes a user together with their metatexts, source documents
// and preferences.
func (s *GormStore) DeleteUser(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var metatextIDs []string
		if err := tx.Model(&MetatextModel{}).Where("user_id = ?", id).Pluck("id", &metatextIDs).Error; err != nil {
			return err
		}
		for _, metatextID := range metatextIDs {
			if err := deleteMetatextTx(tx, metatextID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&SourceDocumentModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&UIPreferencesModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&UserModel{}, "id = ?", id).Error
	})
}

// CreateSourceDocument stores an uploaded document.
func (s *GormStore) CreateSourceDocument(doc domain.SourceDocument) error {
	model := sourceDocumentToModel(doc)
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTitleExists
		}
		return err
	}
	return nil
}

// GetSourceDocument retrieves a document by ID.
func (s *GormStore) GetSourceDocument(id string) (domain.SourceDocument, bool, error) {
	var model SourceDocumentModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SourceDocument{}, false, nil
		}
		return domain.SourceDocument{}, false, err
	}
	return sourceDocumentFromModel(model), true, nil
}

// ListSourceDocumentsByOwner returns the owner's documents ordered by creation.
func (s *GormStore) ListSourceDocumentsByOwner(ownerID string) ([]domain.SourceDocument, error) {
	var models []SourceDocumentModel
	if err := s.db.Where("user_id = ?", ownerID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	docs := make([]domain.SourceDocument, 0, len(models))
	for _, m := range models {
		docs = append(docs, sourceDocumentFromModel(m))
	}
	return docs, nil
}

// UpdateSourceDocumentMetadata applies enrichment output. The document text
// is never touched; existing metatexts keep their snapshot.
func (s *GormStore) UpdateSourceDocumentMetadata(id string, meta DocumentMetadata) error {
	updates := map[string]any{
		"summary":    meta.Summary,
		"characters": meta.Characters,
		"locations":  meta.Locations,
		"themes":     meta.Themes,
		"symbols":    meta.Symbols,
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(meta.Author) != "" {
		updates["author"] = meta.Author
	}
	res := s.db.Model(&SourceDocumentModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MetatextCountForDocument counts metatexts referencing the document.
func (s *GormStore) MetatextCountForDocument(id string) (int64, error) {
	var count int64
	if err := s.db.Model(&MetatextModel{}).Where("source_document_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteSourceDocument removes a document; refused while metatexts reference it.
func (s *GormStore) DeleteSourceDocument(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&MetatextModel{}).Where("source_document_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &HasDependenciesError{Count: count}
		}
		res := tx.Delete(&SourceDocumentModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateMetatextWithChunks allocates a metatext and its initial chunks in one
// transaction. Chunks receive ascending integer positions starting at 0.
func (s *GormStore) CreateMetatextWithChunks(m domain.Metatext, chunkTexts []string) (domain.Metatext, error) {
	now := time.Now().UTC()
	if m.ID == "" {
		m.ID = NewID()
	}
	m.CreatedAt = now
	err := s.db.Transaction(func(tx *gorm.DB) error {
		model := metatextToModel(m)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if len(chunkTexts) == 0 {
			return nil
		}
		models := make([]ChunkModel, 0, len(chunkTexts))
		for i, text := range chunkTexts {
			models = append(models, ChunkModel{
				ID:         NewID(),
				MetatextID: m.ID,
				Text:       text,
				Position:   float64(i),
				CreatedAt:  now,
			})
		}
		return tx.CreateInBatches(&models, 200).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Metatext{}, ErrTitleExists
		}
		return domain.Metatext{}, err
	}
	chunks, err := s.ListChunksByMetatext(m.ID)
	if err != nil {
		return domain.Metatext{}, err
	}
	m.Chunks = chunks
	return m, nil
}

// GetMetatext retrieves a metatext without its chunks.
func (s *GormStore) GetMetatext(id string) (domain.Metatext, bool, error) {
	var model MetatextModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Metatext{}, false, nil
		}
		return domain.Metatext{}, false, err
	}
	return metatextFromModel(model), true, nil
}

// ListMetatextsByOwner returns the owner's metatexts ordered by creation.
func (s *GormStore) ListMetatextsByOwner(ownerID string) ([]domain.Metatext, error) {
	var models []MetatextModel
	if err := s.db.Where("user_id = ?", ownerID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Metatext, 0, len(models))
	for _, m := range models {
		items = append(items, metatextFromModel(m))
	}
	return items, nil
}

// DeleteMetatext removes a metatext and, transitively, its chunks,
// explanations, rewrites and images. Source documents are untouched.
func (s *GormStore) DeleteMetatext(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return deleteMetatextTx(tx, id)
	})
}

func deleteMetatextTx(tx *gorm.DB, id string) error {
	chunkIDs := tx.Model(&ChunkModel{}).Select("id").Where("metatext_id = ?", id)
	if err := tx.Where("chunk_id IN (?)", chunkIDs).Delete(&RewriteModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chunk_id IN (?)", chunkIDs).Delete(&ImageModel{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&ChunkModel{}, "metatext_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Delete(&ExplanationModel{}, "metatext_id = ?", id).Error; err != nil {
		return err
	}
	res := tx.Delete(&MetatextModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *GormStore) GetChunk(id string) (domain.Chunk, bool, error) {
	var model ChunkModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Chunk{}, false, nil
		}
		return domain.Chunk{}, false, err
	}
	return chunkFromModel(model), true, nil
}

// ListChunksByMetatext returns chunks in canonical order, ascending position.
func (s *GormStore) ListChunksByMetatext(metatextID string) ([]domain.Chunk, error) {
	var models []ChunkModel
	if err := s.db.Where("metatext_id = ?", metatextID).Order("position ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	chunks := make([]domain.Chunk, 0, len(models))
	for _, m := range models {
		chunks = append(chunks, chunkFromModel(m))
	}
	return chunks, nil
}

// UpdateChunk patches a permitted subset of fields atomically and returns
// the refreshed chunk. Keys outside the permitted set are ignored.
func (s *GormStore) UpdateChunk(id string, fields map[string]any) (domain.Chunk, error) {
	updates := make(map[string]any, len(fields))
	for key, value := range fields {
		if _, ok := chunkPatchFields[key]; ok {
			updates[key] = value
		}
	}
	var out domain.Chunk
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model ChunkModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&ChunkModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return &UpdateError{Reason: err.Error()}
			}
			if err := tx.First(&model, "id = ?", id).Error; err != nil {
				return err
			}
		}
		out = chunkFromModel(model)
		return nil
	})
	if err != nil {
		return domain.Chunk{}, err
	}
	return out, nil
}

// SplitChunk splits a chunk's text at a 1-based token boundary. The original
// keeps the left partition together with its annotations, rewrites and
// images; the new chunk carries the right partition at the midpoint position
// before the successor (or original+1 without one). Returns [original, new].
func (s *GormStore) SplitChunk(id string, wordIndex int) ([]domain.Chunk, error) {
	var out []domain.Chunk
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model ChunkModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		tokens := chunker.Tokens(model.Text)
		if wordIndex <= 0 || wordIndex >= len(tokens) {
			return &InvalidSplitIndexError{WordIndex: wordIndex, MaxWords: len(tokens)}
		}
		left := strings.Join(tokens[:wordIndex], " ")
		right := strings.Join(tokens[wordIndex:], " ")

		newPosition := model.Position + 1
		var successor ChunkModel
		err := tx.Where("metatext_id = ? AND position > ?", model.MetatextID, model.Position).
			Order("position ASC").First(&successor).Error
		switch {
		case err == nil:
			newPosition = chunker.Midpoint(model.Position, successor.Position)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// last chunk: append after it
		default:
			return err
		}

		if err := tx.Model(&ChunkModel{}).Where("id = ?", id).Update("text", left).Error; err != nil {
			return err
		}
		created := ChunkModel{
			ID:         NewID(),
			MetatextID: model.MetatextID,
			Text:       right,
			Position:   newPosition,
			CreatedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			return err
		}
		out = []domain.Chunk{chunkFromModel(model), chunkFromModel(created)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CombineChunks merges a chunk with its immediate successor by canonical
// order. With an empty secondID the successor is looked up; otherwise the
// pair is reordered so the lower position comes first and adjacency within
// the same metatext is enforced. The survivor keeps the lower position;
// annotations are joined with a blank line, rewrites and images are
// re-parented, and the other row is deleted.
func (s *GormStore) CombineChunks(firstID, secondID string) (domain.Chunk, error) {
	var out domain.Chunk
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var first ChunkModel
		if err := tx.First(&first, "id = ?", firstID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var second ChunkModel
		if secondID == "" {
			err := tx.Where("metatext_id = ? AND position > ?", first.MetatextID, first.Position).
				Order("position ASC").First(&second).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &CombineError{Reason: "chunk has no successor"}
			}
			if err != nil {
				return err
			}
		} else {
			if err := tx.First(&second, "id = ?", secondID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if second.ID == first.ID {
				return &CombineError{Reason: "cannot combine a chunk with itself"}
			}
			if second.MetatextID != first.MetatextID {
				return &CombineError{Reason: "chunks belong to different metatexts"}
			}
			if second.Position < first.Position {
				first, second = second, first
			}
			var between int64
			if err := tx.Model(&ChunkModel{}).
				Where("metatext_id = ? AND position > ? AND position < ?", first.MetatextID, first.Position, second.Position).
				Count(&between).Error; err != nil {
				return err
			}
			if between > 0 {
				return &CombineError{Reason: "chunks are not adjacent"}
			}
		}

		updates := map[string]any{
			"text":        first.Text + " " + second.Text,
			"note":        chunker.JoinBlankLine(first.Note, second.Note),
			"summary":     chunker.JoinBlankLine(first.Summary, second.Summary),
			"evaluation":  chunker.JoinBlankLine(first.Evaluation, second.Evaluation),
			"explanation": chunker.JoinBlankLine(first.Explanation, second.Explanation),
		}
		if err := tx.Model(&ChunkModel{}).Where("id = ?", first.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&RewriteModel{}).Where("chunk_id = ?", second.ID).Update("chunk_id", first.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&ImageModel{}).Where("chunk_id = ?", second.ID).Update("chunk_id", first.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ChunkModel{}, "id = ?", second.ID).Error; err != nil {
			return err
		}
		var refreshed ChunkModel
		if err := tx.First(&refreshed, "id = ?", first.ID).Error; err != nil {
			return err
		}
		out = chunkFromModel(refreshed)
		return nil
	})
	if err != nil {
		return domain.Chunk{}, err
	}
	return out, nil
}

// SetChunkFavorite marks the chunk as favorited by the user.
func (s *GormStore) SetChunkFavorite(id, userID string) (domain.Chunk, error) {
	return s.setFavorite(id, userID, true)
}

// ClearChunkFavorite removes the favorite mark. Clearing someone else's
// favorite is forbidden; clearing an unfavorited chunk is a no-op.
func (s *GormStore) ClearChunkFavorite(id, userID string) (domain.Chunk, error) {
	return s.setFavorite(id, userID, false)
}

func (s *GormStore) setFavorite(id, userID string, favorite bool) (domain.Chunk, error) {
	var out domain.Chunk
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var model ChunkModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var value *string
		if favorite {
			value = &userID
		} else {
			if model.FavoritedByUserID != nil && *model.FavoritedByUserID != userID {
				return ErrForbidden
			}
		}
		if err := tx.Model(&ChunkModel{}).Where("id = ?", id).Update("favorited_by_user_id", value).Error; err != nil {
			return err
		}
		model.FavoritedByUserID = value
		out = chunkFromModel(model)
		return nil
	})
	if err != nil {
		return domain.Chunk{}, err
	}
	return out, nil
}

// CreateRewrite records an alternate phrasing for a chunk.
func (s *GormStore) CreateRewrite(r domain.Rewrite) error {
	model := RewriteModel{
		ID:          r.ID,
		ChunkID:     r.ChunkID,
		Title:       r.Title,
		RewriteText: r.RewriteText,
		CreatedAt:   r.CreatedAt,
	}
	return s.db.Create(&model).Error
}

// ListRewritesByChunk returns rewrites for a chunk ordered by creation.
func (s *GormStore) ListRewritesByChunk(chunkID string) ([]domain.Rewrite, error) {
	var models []RewriteModel
	if err := s.db.Where("chunk_id = ?", chunkID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Rewrite, 0, len(models))
	for _, m := range models {
		items = append(items, domain.Rewrite{
			ID:          m.ID,
			ChunkID:     m.ChunkID,
			Title:       m.Title,
			RewriteText: m.RewriteText,
			CreatedAt:   m.CreatedAt,
		})
	}
	return items, nil
}

// CreateImage records an image reference for a chunk.
func (s *GormStore) CreateImage(img domain.Image) error {
	model := ImageModel{
		ID:        img.ID,
		ChunkID:   img.ChunkID,
		Prompt:    img.Prompt,
		Path:      img.Path,
		CreatedAt: img.CreatedAt,
	}
	return s.db.Create(&model).Error
}

// ListImagesByChunk returns image references for a chunk ordered by creation.
func (s *GormStore) ListImagesByChunk(chunkID string) ([]domain.Image, error) {
	var models []ImageModel
	if err := s.db.Where("chunk_id = ?", chunkID).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Image, 0, len(models))
	for _, m := range models {
		items = append(items, domain.Image{
			ID:        m.ID,
			ChunkID:   m.ChunkID,
			Prompt:    m.Prompt,
			Path:      m.Path,
			CreatedAt: m.CreatedAt,
		})
	}
	return items, nil
}

// CreateExplanation persists one explanation row together with the raw AI
// response payload.
func (s *GormStore) CreateExplanation(e domain.Explanation, raw []byte) error {
	model := ExplanationModel{
		ID:                   e.ID,
		UserID:               e.UserID,
		MetatextID:           e.MetatextID,
		Type:                 string(e.Type),
		Words:                e.Words,
		Context:              e.Context,
		Explanation:          e.Explanation,
		ExplanationInContext: e.ExplanationInContext,
		CreatedAt:            e.CreatedAt,
	}
	if len(raw) > 0 {
		model.Raw = datatypes.JSON(raw)
	}
	return s.db.Create(&model).Error
}

// ListExplanations returns a user's explanations for a metatext, most
// recent first.
func (s *GormStore) ListExplanations(metatextID, userID string) ([]domain.Explanation, error) {
	return s.listExplanations(metatextID, userID, "")
}

// ListExplanationsByType filters by word or phrase, most recent first.
func (s *GormStore) ListExplanationsByType(metatextID, userID string, t domain.ExplanationType) ([]domain.Explanation, error) {
	return s.listExplanations(metatextID, userID, string(t))
}

func (s *GormStore) listExplanations(metatextID, userID, explType string) ([]domain.Explanation, error) {
	tx := s.db.Where("metatext_id = ? AND user_id = ?", metatextID, userID)
	if explType != "" {
		tx = tx.Where("type = ?", explType)
	}
	var models []ExplanationModel
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Explanation, 0, len(models))
	for _, m := range models {
		items = append(items, explanationFromModel(m))
	}
	return items, nil
}

// GetUIPreferences returns the user's stored preferences.
func (s *GormStore) GetUIPreferences(userID string) (domain.UIPreferences, bool, error) {
	var model UIPreferencesModel
	if err := s.db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UIPreferences{}, false, nil
		}
		return domain.UIPreferences{}, false, err
	}
	return preferencesFromModel(model), true, nil
}

// SaveUIPreferences creates or replaces the user's preferences row.
func (s *GormStore) SaveUIPreferences(p domain.UIPreferences) (domain.UIPreferences, error) {
	var out domain.UIPreferences
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing UIPreferencesModel
		err := tx.Where("user_id = ?", p.UserID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		model := UIPreferencesModel{
			ID:                 existing.ID,
			UserID:             p.UserID,
			TextSizePx:         p.TextSizePx,
			FontFamily:         p.FontFamily,
			LineHeight:         p.LineHeight,
			PaddingX:           p.PaddingX,
			ShowChunkPositions: p.ShowChunkPositions,
			UpdatedAt:          time.Now().UTC(),
		}
		if model.ID == "" {
			model.ID = NewID()
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		} else if err := tx.Save(&model).Error; err != nil {
			return err
		}
		out = preferencesFromModel(model)
		return nil
	})
	if err != nil {
		return domain.UIPreferences{}, err
	}
	return out, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:             u.ID,
		Username:       u.Username,
		HashedPassword: u.HashedPassword,
		CreatedAt:      u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:             m.ID,
		Username:       m.Username,
		HashedPassword: m.HashedPassword,
		CreatedAt:      m.CreatedAt,
	}
}

func sourceDocumentToModel(d domain.SourceDocument) SourceDocumentModel {
	return SourceDocumentModel{
		ID:         d.ID,
		UserID:     d.OwnerID,
		Title:      d.Title,
		Text:       d.Text,
		Author:     d.Author,
		Summary:    d.Summary,
		Characters: d.Characters,
		Locations:  d.Locations,
		Themes:     d.Themes,
		Symbols:    d.Symbols,
		StorageKey: d.StorageKey,
		SizeBytes:  d.SizeBytes,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func sourceDocumentFromModel(m SourceDocumentModel) domain.SourceDocument {
	return domain.SourceDocument{
		ID:         m.ID,
		OwnerID:    m.UserID,
		Title:      m.Title,
		Text:       m.Text,
		Author:     m.Author,
		Summary:    m.Summary,
		Characters: m.Characters,
		Locations:  m.Locations,
		Themes:     m.Themes,
		Symbols:    m.Symbols,
		StorageKey: m.StorageKey,
		SizeBytes:  m.SizeBytes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func metatextToModel(m domain.Metatext) MetatextModel {
	return MetatextModel{
		ID:               m.ID,
		UserID:           m.OwnerID,
		Title:            m.Title,
		SourceDocumentID: m.SourceDocumentID,
		Text:             m.Text,
		CreatedAt:        m.CreatedAt,
	}
}

func metatextFromModel(m MetatextModel) domain.Metatext {
	return domain.Metatext{
		ID:               m.ID,
		OwnerID:          m.UserID,
		SourceDocumentID: m.SourceDocumentID,
		Title:            m.Title,
		Text:             m.Text,
		CreatedAt:        m.CreatedAt,
	}
}

func chunkFromModel(m ChunkModel) domain.Chunk {
	return domain.Chunk{
		ID:                m.ID,
		MetatextID:        m.MetatextID,
		Text:              m.Text,
		Position:          m.Position,
		Note:              m.Note,
		Summary:           m.Summary,
		Evaluation:        m.Evaluation,
		Explanation:       m.Explanation,
		FavoritedByUserID: m.FavoritedByUserID,
		CreatedAt:         m.CreatedAt,
	}
}

func explanationFromModel(m ExplanationModel) domain.Explanation {
	return domain.Explanation{
		ID:                   m.ID,
		UserID:               m.UserID,
		MetatextID:           m.MetatextID,
		Type:                 domain.ExplanationType(m.Type),
		Words:                m.Words,
		Context:              m.Context,
		Explanation:          m.Explanation,
		ExplanationInContext: m.ExplanationInContext,
		CreatedAt:            m.CreatedAt,
	}
}

func preferencesFromModel(m UIPreferencesModel) domain.UIPreferences {
	return domain.UIPreferences{
		ID:                 m.ID,
		UserID:             m.UserID,
		TextSizePx:         m.TextSizePx,
		FontFamily:         m.FontFamily,
		LineHeight:         m.LineHeight,
		PaddingX:           m.PaddingX,
		ShowChunkPositions: m.ShowChunkPositions,
	}
}
