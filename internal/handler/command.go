package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// commandRequest is the body of POST /trips/{id}/command.
type commandRequest struct {
	Text string `json:"text"`
}

// PostCommand handles POST /trips/{id}/command: free text in, summary plus
// updated trip out.
func (s *Server) PostCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		requestError(w, "text is required")
		return
	}

	result, err := s.trips.Command(r.Context(), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
