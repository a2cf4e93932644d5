package app

import (
	"context"
	"errors"
	"testing"

	"lectio/internal/store"
	"lectio/pkg/domain"
)

func assembleMetatext(t *testing.T, a *App, user domain.User, text string) []domain.Chunk {
	t.Helper()
	ctx := context.Background()
	doc := uploadTestDocument(t, a, user, "Book-"+t.Name(), text)
	summary, err := a.CreateMetatext(ctx, user, "Reading-"+t.Name(), doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}
	chunks, err := a.ListChunks(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("list chunks: %v", err)
	}
	return chunks
}

func TestSplitThenCombineRoundTripsText(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	chunks := assembleMetatext(t, a, user, "one two three four five")
	original := chunks[0]

	parts, err := a.SplitChunk(ctx, user, original.ID, 2)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if parts[0].Text != "one two" || parts[1].Text != "three four five" {
		t.Fatalf("split parts = %q / %q", parts[0].Text, parts[1].Text)
	}

	combined, err := a.CombineChunks(ctx, user, parts[0].ID, parts[1].ID)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if combined.Text != original.Text {
		t.Fatalf("combined text = %q, want %q", combined.Text, original.Text)
	}
}

func TestCombineReparentsRewrites(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	// 10 tokens at chunk size 5 -> two chunks
	chunks := assembleMetatext(t, a, user, "a b c d e f g h i j")
	if _, err := a.AddRewrite(ctx, user, chunks[0].ID, "simple", "first rewrite"); err != nil {
		t.Fatalf("add rewrite: %v", err)
	}
	if _, err := a.AddRewrite(ctx, user, chunks[1].ID, "simple", "second rewrite"); err != nil {
		t.Fatalf("add rewrite: %v", err)
	}

	combined, err := a.CombineChunks(ctx, user, chunks[0].ID, chunks[1].ID)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if len(combined.Rewrites) != 2 {
		t.Fatalf("rewrites on survivor = %d, want 2", len(combined.Rewrites))
	}
	if _, err := a.GetChunk(ctx, user, chunks[1].ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second chunk should be gone, err = %v", err)
	}
}

func TestFavoriteRoundTrip(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	chunks := assembleMetatext(t, a, user, "some words")
	chunk, err := a.FavoriteChunk(ctx, user, chunks[0].ID)
	if err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if chunk.FavoritedByUserID == nil || *chunk.FavoritedByUserID != user.ID {
		t.Fatalf("favoriter = %v", chunk.FavoritedByUserID)
	}

	chunk, err = a.UnfavoriteChunk(ctx, user, chunks[0].ID)
	if err != nil {
		t.Fatalf("unfavorite: %v", err)
	}
	if chunk.FavoritedByUserID != nil {
		t.Fatalf("favoriter should be cleared, got %v", chunk.FavoritedByUserID)
	}
}

func TestChunkAccessIsOwnerScoped(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	owner := registerTestUser(t, a, "owner")
	other := registerTestUser(t, a, "other")

	chunks := assembleMetatext(t, a, owner, "private words")
	if _, err := a.GetChunk(ctx, other, chunks[0].ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign chunk read err = %v", err)
	}
	if _, err := a.UpdateChunk(ctx, other, chunks[0].ID, map[string]any{"note": "x"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign chunk update err = %v", err)
	}
}

func TestUpdateChunkIgnoresUnknownFields(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	chunks := assembleMetatext(t, a, user, "alpha beta gamma")
	updated, err := a.UpdateChunk(ctx, user, chunks[0].ID, map[string]any{
		"note":        "annotated",
		"id":          "hijack",
		"metatext_id": "hijack",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Note != "annotated" {
		t.Fatalf("note = %q", updated.Note)
	}
	if updated.ID != chunks[0].ID || updated.MetatextID != chunks[0].MetatextID {
		t.Fatal("identity fields must not be patchable")
	}
}
