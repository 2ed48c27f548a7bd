package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/htpc-tools/kodivoice/internal/domain"
)

func (s *Server) handlePlayerMedia(w http.ResponseWriter, r *http.Request) {
	var req domain.PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.BadRequest("invalid_body", "Request body must be a JSON object."))
		return
	}
	if err := s.dispatcher.Dispatch(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

// handlePlayerState takes a raw-text action: resume, pause or next.
// Resume and pause are the same toggle; unknown actions fall through
// as a no-op.
func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	switch strings.ToLower(strings.TrimSpace(string(body))) {
	case "resume", "pause":
		err = s.controls.TogglePlayPause(r.Context())
	case "next":
		err = s.controls.SkipNext(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
