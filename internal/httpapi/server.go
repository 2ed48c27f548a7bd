// Package httpapi exposes the voice-assistant control surface over
// HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/htpc-tools/kodivoice/internal/domain"
	"github.com/htpc-tools/kodivoice/internal/library"
)

// PlayDispatcher resolves and starts playback for a play request.
type PlayDispatcher interface {
	Dispatch(ctx context.Context, req domain.PlayRequest) error
}

// PlaybackControls is the slice of the remote-control client the
// handlers call directly.
type PlaybackControls interface {
	TogglePlayPause(ctx context.Context) error
	SkipNext(ctx context.Context) error
	SwitchMonitor(ctx context.Context) error
}

// SlotSource lists library titles for spoken-slot generation.
type SlotSource interface {
	Movies(ctx context.Context) ([]library.Movie, error)
	Shows(ctx context.Context) ([]library.TvShow, error)
	EpisodeSlots(ctx context.Context) ([]library.EpisodeSlot, error)
}

type VolumeMixer interface {
	Mute(ctx context.Context) error
	Unmute(ctx context.Context) error
	Dim(ctx context.Context) error
	Undim(ctx context.Context) error
	SetVolume(ctx context.Context, level int) error
	AdjustVolume(ctx context.Context, delta int) error
	SwitchDevice(ctx context.Context, device string) error
}

type SoundPlayer interface {
	PlayWav(ctx context.Context, path string) error
}

type DisplaySwitcher interface {
	SwitchDisplay(ctx context.Context, mode string) error
}

type Config struct {
	Logger     *slog.Logger
	Dispatcher PlayDispatcher
	Controls   PlaybackControls
	Library    SlotSource
	Mixer      VolumeMixer
	Sound      SoundPlayer
	Display    DisplaySwitcher
}

type Server struct {
	logger     *slog.Logger
	dispatcher PlayDispatcher
	controls   PlaybackControls
	library    SlotSource
	mixer      VolumeMixer
	sound      SoundPlayer
	display    DisplaySwitcher

	router chi.Router
}

func New(cfg Config) *Server {
	server := &Server{
		logger:     cfg.Logger,
		dispatcher: cfg.Dispatcher,
		controls:   cfg.Controls,
		library:    cfg.Library,
		mixer:      cfg.Mixer,
		sound:      cfg.Sound,
		display:    cfg.Display,
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(server.requestLogger)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, domain.NotFound("not_found", "No such resource."))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, domain.MethodNotAllowed("method_not_allowed", "Method not allowed for this resource."))
	})

	router.Route("/api/video", func(r chi.Router) {
		r.Post("/player/media", server.handlePlayerMedia)
		r.Post("/player/state", server.handlePlayerState)
	})
	router.Route("/api/slots", func(r chi.Router) {
		r.Get("/movies", server.handleMovieSlots)
		r.Get("/tvShows", server.handleShowSlots)
		r.Get("/episodes", server.handleEpisodeSlots)
		r.Get("/video", server.handleVideoSlots)
	})
	router.Route("/api/mc", func(r chi.Router) {
		r.Post("/speakers/volume", server.handleSpeakersVolume)
		r.Post("/speakers/play", server.handleSpeakersPlay)
		r.Post("/monitors/switch", server.handleMonitorSwitch)
		r.Post("/rooms/switch", server.handleRoomSwitch)
	})
	server.router = router
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
