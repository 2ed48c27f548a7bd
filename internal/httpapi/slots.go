package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/htpc-tools/kodivoice/internal/library"
	"github.com/htpc-tools/kodivoice/internal/spoken"
)

// Slot output is newline-delimited "(spoken):(value)" pairs, the
// ingestion format of the voice-assistant slot pipeline. Not JSON.
func writeSlots(w http.ResponseWriter, slots []spoken.Slot) {
	var out strings.Builder
	for _, slot := range slots {
		fmt.Fprintf(&out, "(%s):(%s)\n", slot.Spoken, slot.Value)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out.String()))
}

// generateSlots builds all three tables. Every kind has to be
// generated on each request so the shared collision set stays
// consistent no matter which table the caller wants.
func (s *Server) generateSlots(r *http.Request) (spoken.SlotTables, error) {
	ctx := r.Context()
	movies, err := s.library.Movies(ctx)
	if err != nil {
		return spoken.SlotTables{}, err
	}
	shows, err := s.library.Shows(ctx)
	if err != nil {
		return spoken.SlotTables{}, err
	}
	episodes, err := s.library.EpisodeSlots(ctx)
	if err != nil {
		return spoken.SlotTables{}, err
	}

	movieEntries := lo.Map(movies, func(m library.Movie, _ int) spoken.Entry {
		return spoken.Entry{ID: m.ID, Title: m.Title}
	})
	showEntries := lo.Map(shows, func(t library.TvShow, _ int) spoken.Entry {
		return spoken.Entry{ID: t.ID, Title: t.Title}
	})
	episodeEntries := lo.Map(episodes, func(e library.EpisodeSlot, _ int) spoken.EpisodeEntry {
		return spoken.EpisodeEntry{ID: e.ID, Title: e.Title, ShowTitle: e.ShowTitle}
	})
	return spoken.GenerateVideoSlots(movieEntries, showEntries, episodeEntries), nil
}

func (s *Server) handleMovieSlots(w http.ResponseWriter, r *http.Request) {
	tables, err := s.generateSlots(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSlots(w, tables.Movies)
}

func (s *Server) handleShowSlots(w http.ResponseWriter, r *http.Request) {
	tables, err := s.generateSlots(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSlots(w, tables.Shows)
}

func (s *Server) handleEpisodeSlots(w http.ResponseWriter, r *http.Request) {
	tables, err := s.generateSlots(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSlots(w, tables.Episodes)
}

// handleVideoSlots is the older title-keyed listing: movies and shows
// only, values are the raw titles and the first title to claim a
// phrase wins.
func (s *Server) handleVideoSlots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movies, err := s.library.Movies(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shows, err := s.library.Shows(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	seen := map[string]struct{}{}
	var slots []spoken.Slot
	add := func(title string) {
		if _, done := seen[title]; done {
			return
		}
		seen[title] = struct{}{}
		slots = append(slots, spoken.Slot{Spoken: spoken.Normalize(title), Value: title})
	}
	for _, movie := range movies {
		add(movie.Title)
	}
	for _, show := range shows {
		add(show.Title)
	}
	writeSlots(w, slots)
}
