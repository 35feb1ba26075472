package httpapi

import (
	"net/http"
)

// handleGetSettings returns the caller's preferences, creating defaults on
// first read.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	st, err := s.settings.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsDTO{Theme: st.Theme, Language: st.Language})
}

// handleUpdateSettings rewrites theme and language.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	var req settingsDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	st, err := s.settings.Update(r.Context(), userID, req.Theme, req.Language)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsDTO{Theme: st.Theme, Language: st.Language})
}
