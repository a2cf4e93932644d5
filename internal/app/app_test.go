package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"lectio/internal/store"
	"lectio/pkg/domain"
)

// fakeParser returns canned JSON answers without any network.
type fakeParser struct {
	answer string
	err    error
	calls  int
}

func (f *fakeParser) Parse(ctx context.Context, instructions, prompt string, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.answer), out)
}

func newTestApp(t *testing.T) (*App, *fakeParser) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := store.NewGormStore(dsn)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	sessions, err := store.NewJWTSessionStore("test-secret", "HS256", time.Minute, store.JWTOptions{})
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	parser := &fakeParser{answer: `{"explanation": "a lucky find", "explanation_in_context": "here it means chance discovery"}`}
	a, err := New(Options{
		Store:               st,
		Sessions:            sessions,
		RefreshTokens:       store.NewMemoryRefreshTokenStore(),
		Parser:              parser,
		ChunkSize:           5,
		ExplainInstructions: "explain the span",
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, parser
}

func registerTestUser(t *testing.T, a *App, username string) domain.User {
	t.Helper()
	user, err := a.Register(context.Background(), username, "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func uploadTestDocument(t *testing.T, a *App, user domain.User, title, text string) domain.SourceDocument {
	t.Helper()
	doc, err := a.CreateSourceDocument(context.Background(), user, title, "book.txt", strings.NewReader(text), int64(len(text)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return doc
}

func TestRegisterAndLogin(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	user := registerTestUser(t, a, "ada")
	if user.ID == "" {
		t.Fatal("expected user id")
	}

	if _, err := a.Register(ctx, "ada", "other"); !errors.Is(err, store.ErrUsernameExists) {
		t.Fatalf("duplicate register err = %v", err)
	}

	pair, got, err := a.Login(ctx, "ada", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("unexpected login result: %+v", pair)
	}

	if _, _, err := a.Login(ctx, "ada", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}

	resolved, err := a.Authenticate(ctx, pair.AccessToken)
	if err != nil || resolved.ID != user.ID {
		t.Fatalf("authenticate: user=%+v err=%v", resolved, err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	if _, err := a.Authenticate(ctx, ""); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("empty token err = %v", err)
	}
	if _, err := a.Authenticate(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token err = %v", err)
	}
}

func TestRefreshRotationAndReplay(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	registerTestUser(t, a, "ada")
	pair, _, err := a.Login(ctx, "ada", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := a.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token should rotate")
	}

	// replaying the superseded token revokes the family
	if _, err := a.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("replay err = %v", err)
	}
	if _, err := a.Refresh(ctx, rotated.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked family err = %v", err)
	}
}

func TestUploadExtractsAuthorAndTrimsBoilerplate(t *testing.T) {
	a, _ := newTestApp(t)
	user := registerTestUser(t, a, "ada")

	text := strings.Join([]string{
		"Title: Some Book",
		"Author: Jane Austen",
		"*** START OF THE PROJECT GUTENBERG EBOOK ***",
		"It is a truth universally acknowledged.",
		"*** END OF THE PROJECT GUTENBERG EBOOK ***",
		"license text here",
	}, "\n")

	doc := uploadTestDocument(t, a, user, "Pride", text)
	if doc.Author != "Jane Austen" {
		t.Fatalf("author = %q", doc.Author)
	}
	if doc.Text != "It is a truth universally acknowledged." {
		t.Fatalf("text = %q", doc.Text)
	}
}

func TestUploadWithoutMarkersKeepsTextVerbatim(t *testing.T) {
	a, _ := newTestApp(t)
	user := registerTestUser(t, a, "ada")

	doc := uploadTestDocument(t, a, user, "Plain", "just some text\nwith two lines")
	if doc.Text != "just some text\nwith two lines" {
		t.Fatalf("text = %q", doc.Text)
	}
}

func TestUploadValidation(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	_, err := a.CreateSourceDocument(ctx, user, "Bad", "book.exe", strings.NewReader("x"), 1)
	var extErr *UnsupportedExtensionError
	if !errors.As(err, &extErr) {
		t.Fatalf("extension err = %v", err)
	}

	_, err = a.CreateSourceDocument(ctx, user, "Big", "book.txt", strings.NewReader("x"), 11<<20)
	var sizeErr *FileTooLargeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("size err = %v", err)
	}

	_, err = a.CreateSourceDocument(ctx, user, "NotUTF8", "book.txt", strings.NewReader("\xff\xfe"), 2)
	var encErr *InvalidEncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("encoding err = %v", err)
	}

	uploadTestDocument(t, a, user, "Dup", "text")
	_, err = a.CreateSourceDocument(ctx, user, "Dup", "book.txt", strings.NewReader("text"), 4)
	if !errors.Is(err, store.ErrTitleExists) {
		t.Fatalf("duplicate title err = %v", err)
	}
}

func TestDocumentOwnershipIsNotDisclosed(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	owner := registerTestUser(t, a, "owner")
	other := registerTestUser(t, a, "other")

	doc := uploadTestDocument(t, a, owner, "Mine", "text")
	if _, err := a.GetSourceDocument(ctx, other, doc.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign read err = %v", err)
	}
}

func TestDeleteDocumentBlockedByMetatexts(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	doc := uploadTestDocument(t, a, user, "Book", "one two three")
	if _, err := a.CreateMetatext(ctx, user, "Reading", doc.ID); err != nil {
		t.Fatalf("create metatext: %v", err)
	}

	err := a.DeleteSourceDocument(ctx, user, doc.ID)
	var depsErr *store.HasDependenciesError
	if !errors.As(err, &depsErr) || depsErr.Count != 1 {
		t.Fatalf("delete err = %v", err)
	}
}

func TestCreateMetatextChunksDocument(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	// 12 tokens at chunk size 5 -> 3 chunks
	doc := uploadTestDocument(t, a, user, "Book", "a b c d e f g h i j k l")
	summary, err := a.CreateMetatext(ctx, user, "Reading", doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}

	m, err := a.GetMetatext(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("get metatext: %v", err)
	}
	if len(m.Chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(m.Chunks))
	}
	for i, c := range m.Chunks {
		if c.Position != float64(i) {
			t.Fatalf("chunk %d position = %v", i, c.Position)
		}
	}
	if m.Chunks[2].Text != "k l" {
		t.Fatalf("last chunk text = %q", m.Chunks[2].Text)
	}
}

func TestMetatextTextIsFrozenSnapshot(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	doc := uploadTestDocument(t, a, user, "Book", "original words here")
	summary, err := a.CreateMetatext(ctx, user, "Reading", doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}

	m, err := a.GetMetatext(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("get metatext: %v", err)
	}
	if _, err := a.UpdateChunk(ctx, user, m.Chunks[0].ID, map[string]any{"text": "edited"}); err != nil {
		t.Fatalf("update chunk: %v", err)
	}

	m, err = a.GetMetatext(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("get metatext: %v", err)
	}
	if m.Text != "original words here" {
		t.Fatalf("metatext text changed: %q", m.Text)
	}
	if m.Chunks[0].Text != "edited" {
		t.Fatalf("chunk text = %q", m.Chunks[0].Text)
	}
}

func TestExplainPersistsTypedExplanations(t *testing.T) {
	a, parser := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")
	doc := uploadTestDocument(t, a, user, "Book", "some text")
	summary, err := a.CreateMetatext(ctx, user, "Reading", doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}

	result, err := a.Explain(ctx, user, ExplainRequest{Words: "serendipity", Context: "a serendipity of sorts", MetatextID: summary.ID})
	if err != nil {
		t.Fatalf("explain word: %v", err)
	}
	if result.Explanation != "a lucky find" {
		t.Fatalf("explanation = %q", result.Explanation)
	}

	if _, err := a.Explain(ctx, user, ExplainRequest{Words: "a stitch in time", Context: "ctx", MetatextID: summary.ID}); err != nil {
		t.Fatalf("explain phrase: %v", err)
	}
	if parser.calls != 2 {
		t.Fatalf("parser calls = %d", parser.calls)
	}

	review, err := a.Review(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(review.WordList) != 1 || review.WordList[0].Words != "serendipity" {
		t.Fatalf("word list = %+v", review.WordList)
	}
	if len(review.PhraseList) != 1 || review.PhraseList[0].Type != domain.ExplanationPhrase {
		t.Fatalf("phrase list = %+v", review.PhraseList)
	}
}

func TestExplainFailureDoesNotPersist(t *testing.T) {
	a, parser := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")
	doc := uploadTestDocument(t, a, user, "Book", "some text")
	summary, err := a.CreateMetatext(ctx, user, "Reading", doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}

	parser.err = errors.New("model unavailable")
	if _, err := a.Explain(ctx, user, ExplainRequest{Words: "word", Context: "c", MetatextID: summary.ID}); err == nil {
		t.Fatal("expected explain error")
	}

	parser.err = nil
	review, err := a.Review(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(review.WordList)+len(review.PhraseList) != 0 {
		t.Fatal("failed explain must not persist")
	}
}

func TestExplainValidation(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	if _, err := a.Explain(ctx, user, ExplainRequest{Words: "  ", MetatextID: "m"}); !errors.Is(err, ErrWordsRequired) {
		t.Fatalf("empty words err = %v", err)
	}
	if _, err := a.Explain(ctx, user, ExplainRequest{Words: "word"}); !errors.Is(err, ErrMetatextRequired) {
		t.Fatalf("missing metatext err = %v", err)
	}
	if _, err := a.Explain(ctx, user, ExplainRequest{Words: "word", MetatextID: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown metatext err = %v", err)
	}
}

func TestExplainViaChunkID(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")
	doc := uploadTestDocument(t, a, user, "Book", "some text")
	summary, err := a.CreateMetatext(ctx, user, "Reading", doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}
	chunks, err := a.ListChunks(ctx, user, summary.ID)
	if err != nil || len(chunks) == 0 {
		t.Fatalf("list chunks: %v", err)
	}

	if _, err := a.Explain(ctx, user, ExplainRequest{Words: "text", Context: "c", ChunkID: chunks[0].ID}); err != nil {
		t.Fatalf("explain via chunk: %v", err)
	}
	words, err := a.Wordlist(ctx, user, summary.ID)
	if err != nil || len(words) != 1 {
		t.Fatalf("wordlist = %+v err = %v", words, err)
	}
}

func TestReviewSummaries(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")
	doc := uploadTestDocument(t, a, user, "Book", "a b c d e f g h i j")
	summary, err := a.CreateMetatext(ctx, user, "Reading", doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}

	for _, words := range []string{"Serendipity", "serendipity", "ephemeral"} {
		if _, err := a.Explain(ctx, user, ExplainRequest{Words: words, Context: "c", MetatextID: summary.ID}); err != nil {
			t.Fatalf("explain: %v", err)
		}
	}
	chunks, err := a.ListChunks(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("list chunks: %v", err)
	}
	if _, err := a.UpdateChunk(ctx, user, chunks[0].ID, map[string]any{"summary": "s", "note": "n"}); err != nil {
		t.Fatalf("update chunk: %v", err)
	}

	got, err := a.ReviewSummary(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Wordlist.Total != 3 || got.Wordlist.UniqueWords != 2 {
		t.Fatalf("wordlist summary = %+v", got.Wordlist)
	}
	if got.Wordlist.MostRecentWord != "ephemeral" {
		t.Fatalf("most recent word = %q", got.Wordlist.MostRecentWord)
	}
	if got.Chunks.Total != 2 || got.Chunks.WithSummary != 1 || got.Chunks.WithNote != 1 || got.Chunks.WithComparison != 0 {
		t.Fatalf("chunks summary = %+v", got.Chunks)
	}
	if got.Chunks.SummaryPercent != 50 {
		t.Fatalf("summary percent = %v", got.Chunks.SummaryPercent)
	}
}

func TestReviewSummaryEmptyMetatext(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")
	doc := uploadTestDocument(t, a, user, "Book", "only a few words")
	summary, err := a.CreateMetatext(ctx, user, "Reading", doc.ID)
	if err != nil {
		t.Fatalf("create metatext: %v", err)
	}

	got, err := a.ReviewSummary(ctx, user, summary.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Wordlist.Total != 0 || got.Wordlist.MostRecentWord != "" {
		t.Fatalf("wordlist summary = %+v", got.Wordlist)
	}
}

func TestPreferencesDefaultsAndSave(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")

	prefs, err := a.GetPreferences(ctx, user)
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if prefs.TextSizePx != 18 || prefs.FontFamily != "Georgia, serif" {
		t.Fatalf("defaults = %+v", prefs)
	}

	prefs.TextSizePx = 22
	prefs.ShowChunkPositions = true
	saved, err := a.SavePreferences(ctx, user, prefs)
	if err != nil {
		t.Fatalf("save preferences: %v", err)
	}
	if saved.TextSizePx != 22 || !saved.ShowChunkPositions {
		t.Fatalf("saved = %+v", saved)
	}

	again, err := a.GetPreferences(ctx, user)
	if err != nil || again.TextSizePx != 22 {
		t.Fatalf("reread = %+v err = %v", again, err)
	}
}

func TestEnrichSourceDocument(t *testing.T) {
	a, parser := newTestApp(t)
	ctx := context.Background()
	user := registerTestUser(t, a, "ada")
	doc := uploadTestDocument(t, a, user, "Book", "a story about things")

	parser.answer = `{"summary": "a short tale", "characters": ["Anne", "Mr. Darcy"], "locations": ["London"], "themes": [], "symbols": ["the letter"]}`
	if err := a.EnrichSourceDocument(ctx, doc.ID); err != nil {
		t.Fatalf("enrich: %v", err)
	}

	got, err := a.GetSourceDocument(ctx, user, doc.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.Summary != "a short tale" {
		t.Fatalf("summary = %q", got.Summary)
	}
	if got.Characters != "Anne; Mr. Darcy" {
		t.Fatalf("characters = %q", got.Characters)
	}
	if got.Themes != "" {
		t.Fatalf("themes = %q", got.Themes)
	}
}

func TestTruncateValidUTF8(t *testing.T) {
	text := strings.Repeat("é", 10) // 2 bytes per rune
	for limit := 0; limit <= 20; limit++ {
		got := truncateValidUTF8(text, limit)
		if !utf8.ValidString(got) {
			t.Fatalf("limit %d: invalid UTF-8 %q", limit, got)
		}
		if len(got) > limit {
			t.Fatalf("limit %d: length %d", limit, len(got))
		}
	}
	if got := truncateValidUTF8("short", 100); got != "short" {
		t.Fatalf("under limit = %q", got)
	}
	if got := truncateValidUTF8("日本語", 4); got != "日" {
		t.Fatalf("mid-rune cut = %q", got)
	}
}
