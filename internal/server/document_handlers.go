package server

import (
	"net/http"
	"strings"

	"lectio/pkg/domain"
)

func (s *Server) handleSourceDocuments(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		s.handleUploadSourceDocument(w, r, user)
	case http.MethodGet:
		docs, err := s.app.ListSourceDocuments(r.Context(), user)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, docs)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUploadSourceDocument(w http.ResponseWriter, r *http.Request, user domain.User) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with title and file")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()
	title := r.FormValue("title")
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	doc, err := s.app.CreateSourceDocument(r.Context(), user, title, header.Filename, file, header.Size)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc.ToSummary())
}

func (s *Server) handleSourceDocumentByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/source-documents/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		doc, err := s.app.GetSourceDocument(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case action == "" && r.Method == http.MethodDelete:
		if err := s.app.DeleteSourceDocument(r.Context(), user, id); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case action == "download" && r.Method == http.MethodGet:
		url, err := s.app.SourceDocumentDownloadURL(r.Context(), user, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	case action == "":
		methodNotAllowed(w)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}
