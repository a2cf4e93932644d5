package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"lectio/pkg/domain"
)

func (s *Server) handleChunksAll(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	metatextID := strings.TrimPrefix(r.URL.Path, "/api/chunks/all/")
	if metatextID == "" || strings.Contains(metatextID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	chunks, err := s.app.ListChunks(r.Context(), user, metatextID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	writeJSON(w, http.StatusOK, chunks)
}

func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	firstID := strings.TrimSpace(r.URL.Query().Get("first_chunk_id"))
	secondID := strings.TrimSpace(r.URL.Query().Get("second_chunk_id"))
	if firstID == "" {
		writeError(w, http.StatusBadRequest, "first_chunk_id is required")
		return
	}
	combined, err := s.app.CombineChunks(r.Context(), user, firstID, secondID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, combined)
}

func (s *Server) handleChunkByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/chunk/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch action {
	case "":
		s.handleChunk(w, r, user, id)
	case "split":
		s.handleSplit(w, r, user, id)
	case "favorite":
		s.handleFavorite(w, r, user, id)
	case "rewrites":
		s.handleRewrites(w, r, user, id)
	case "images":
		s.handleImages(w, r, user, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	switch r.Method {
	case http.MethodGet:
		chunk, err := s.app.GetChunk(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, chunk)
	case http.MethodPut, http.MethodPatch:
		var fields map[string]any
		if err := json.NewDecoder(io.LimitReader(r.Body, requestBodyLimit)).Decode(&fields); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		chunk, err := s.app.UpdateChunk(r.Context(), user, id, fields)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, chunk)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	wordIndex, err := strconv.Atoi(r.URL.Query().Get("word_index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "word_index must be an integer")
		return
	}
	parts, err := s.app.SplitChunk(r.Context(), user, id, wordIndex)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	switch r.Method {
	case http.MethodPost:
		chunk, err := s.app.FavoriteChunk(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, chunk)
	case http.MethodDelete:
		chunk, err := s.app.UnfavoriteChunk(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, chunk)
	default:
		methodNotAllowed(w)
	}
}

type createRewriteRequest struct {
	Title       string `json:"title"`
	RewriteText string `json:"rewriteText"`
}

func (s *Server) handleRewrites(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	switch r.Method {
	case http.MethodPost:
		var req createRewriteRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, requestBodyLimit)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rewrite, err := s.app.AddRewrite(r.Context(), user, id, req.Title, req.RewriteText)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, rewrite)
	case http.MethodGet:
		rewrites, err := s.app.ListRewrites(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rewrites)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	switch r.Method {
	case http.MethodPost:
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "expected multipart form with prompt and file")
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()
		image, err := s.app.AddImage(r.Context(), user, id, r.FormValue("prompt"), header.Filename, file)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, image)
	case http.MethodGet:
		images, err := s.app.ListImages(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, images)
	default:
		methodNotAllowed(w)
	}
}
