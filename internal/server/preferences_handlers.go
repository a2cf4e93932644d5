package server

import (
	"encoding/json"
	"io"
	"net/http"

	"lectio/pkg/domain"
)

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		prefs, err := s.app.GetPreferences(r.Context(), user)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	case http.MethodPut:
		var prefs domain.UIPreferences
		if err := json.NewDecoder(io.LimitReader(r.Body, requestBodyLimit)).Decode(&prefs); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		saved, err := s.app.SavePreferences(r.Context(), user, prefs)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	default:
		methodNotAllowed(w)
	}
}
