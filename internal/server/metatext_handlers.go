package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lectio/pkg/domain"
)

type createMetatextRequest struct {
	Title       string `json:"title"`
	SourceDocID string `json:"sourceDocId"`
}

func (s *Server) handleMetatexts(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		var req createMetatextRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, requestBodyLimit)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		summary, err := s.app.CreateMetatext(r.Context(), user, req.Title, req.SourceDocID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, summary)
	case http.MethodGet:
		summaries, err := s.app.ListMetatexts(r.Context(), user)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summaries)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleMetatextByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/metatext/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if action != "" && r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			m, err := s.app.GetMetatext(r.Context(), user, id)
			if err != nil {
				s.writeAppError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, m)
		case http.MethodDelete:
			if err := s.app.DeleteMetatext(r.Context(), user, id); err != nil {
				s.writeAppError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			methodNotAllowed(w)
		}
	case "download":
		s.handleMetatextDownload(w, r, user, id)
	case "review":
		review, err := s.app.Review(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, review)
	case "wordlist":
		words, err := s.app.Wordlist(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, words)
	case "summary":
		summary, err := s.app.ReviewSummary(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	case "explanations":
		explanations, err := s.app.ListExplanations(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, explanations)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleMetatextDownload(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	m, err := s.app.DownloadMetatext(r.Context(), user, id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.Title+".json"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
