// Package player resolves loosely-specified play requests into a
// concrete playback target and drives the remote-control client.
package player

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	retry "github.com/avast/retry-go/v5"

	"github.com/htpc-tools/kodivoice/internal/domain"
	"github.com/htpc-tools/kodivoice/internal/library"
	"github.com/htpc-tools/kodivoice/internal/logger"
	"github.com/htpc-tools/kodivoice/internal/spoken"
)

const nbaPlayAttempts = 2

// MediaLibrary is the slice of the library repository the dispatcher
// needs.
type MediaLibrary interface {
	MovieByID(ctx context.Context, id int) (*library.Movie, error)
	MovieByTitle(ctx context.Context, title string) (*library.Movie, error)
	MovieByIDAndTitle(ctx context.Context, id int, title string) (*library.Movie, error)
	ShowByID(ctx context.Context, id int) (*library.TvShow, error)
	ShowByTitle(ctx context.Context, title string) (*library.TvShow, error)
	ShowByIDAndTitle(ctx context.Context, id int, title string) (*library.TvShow, error)
	EpisodeByID(ctx context.Context, id int) (*library.Episode, error)
	EpisodeByTitle(ctx context.Context, title string) (*library.Episode, error)
	EpisodeByIDAndTitle(ctx context.Context, id int, title string) (*library.Episode, error)
	NextEpisode(ctx context.Context, showID int) (*library.Episode, error)
	EpisodeAfter(ctx context.Context, after *library.Episode) (*library.Episode, error)
}

// MediaController is the remote-control surface the dispatcher drives.
type MediaController interface {
	PlayVideo(ctx context.Context, target domain.PlayTarget) error
	SetFullscreen(ctx context.Context) error
	PlayMLB(ctx context.Context, listIndex int, home bool, gameStatus string) error
}

type DesktopController interface {
	BringToFront(ctx context.Context) error
}

type BrowserSession interface {
	PlayNBAGame(ctx context.Context, username, password, team string) (bool, error)
	Close(ctx context.Context) error
}

type ScheduleSource interface {
	Games(ctx context.Context) ([]Game, error)
}

// Game mirrors the schedule lookup's result shape.
type Game struct {
	HomeName string
	AwayName string
	Status   string
}

// Options carries the static knobs for the sports paths.
type Options struct {
	MLBTeam     string
	NBAUsername string
	NBAPassword string
}

type Dispatcher struct {
	library    MediaLibrary
	controller MediaController
	desktop    DesktopController
	browser    BrowserSession
	schedule   ScheduleSource
	opts       Options
}

func NewDispatcher(lib MediaLibrary, controller MediaController, desktop DesktopController, browser BrowserSession, schedule ScheduleSource, opts Options) *Dispatcher {
	return &Dispatcher{
		library:    lib,
		controller: controller,
		desktop:    desktop,
		browser:    browser,
		schedule:   schedule,
		opts:       opts,
	}
}

// Dispatch resolves the request to a playable item and starts it.
// Input shapes are checked in priority order: combo id, id+type,
// id+title, bare id (invalid), bare title.
func (d *Dispatcher) Dispatch(ctx context.Context, req domain.PlayRequest) error {
	mediaID := strings.TrimSpace(string(req.MediaID))
	mediaType := req.MediaType
	mediaTitle := req.MediaTitle
	queueNext := req.QueueCount()

	if req.MediaComboID != "" {
		parts := strings.SplitN(req.MediaComboID, "-", 2)
		mediaID = parts[0]
		if len(parts) > 1 {
			mediaType = parts[1]
		}
	}
	// Some voice-assistant slots send the literal string "null".
	if strings.EqualFold(mediaID, "null") {
		mediaID = ""
	}

	numericID, numericErr := strconv.Atoi(mediaID)
	idIsNumeric := numericErr == nil

	var (
		movie   *library.Movie
		show    *library.TvShow
		episode *library.Episode
		err     error
	)

	switch {
	case mediaID != "" && mediaType != "":
		if mediaType != string(domain.MediaNBA) {
			d.clearScreen(ctx)
		}
		switch mediaType {
		case string(domain.MediaShow):
			show, err = d.library.ShowByID(ctx, numericID)
		case string(domain.MediaMovie):
			movie, err = d.library.MovieByID(ctx, numericID)
		case string(domain.MediaEpisode):
			episode, err = d.library.EpisodeByID(ctx, numericID)
		case string(domain.MediaMLB):
			return d.playMLB(ctx)
		case string(domain.MediaNBA):
			return d.playNBA(ctx, mediaID)
		}
		if err != nil {
			return err
		}
	case mediaID != "" && mediaTitle != "":
		if show, err = d.library.ShowByIDAndTitle(ctx, numericID, mediaTitle); err != nil {
			return err
		}
		if movie, err = d.library.MovieByIDAndTitle(ctx, numericID, mediaTitle); err != nil {
			return err
		}
		if episode, err = d.library.EpisodeByIDAndTitle(ctx, numericID, mediaTitle); err != nil {
			return err
		}
	case mediaID != "":
		return domain.BadRequest(
			"missing_input",
			"Must provide at least one of mediaType or mediaTitle along with mediaId",
		)
	case mediaTitle != "":
		mediaTitle = spoken.Deformat(mediaTitle)
		if mediaType == string(domain.MediaMovie) || mediaType == "" {
			if movie, err = d.library.MovieByTitle(ctx, mediaTitle); err != nil {
				return err
			}
		}
		if mediaType == string(domain.MediaShow) || mediaType == "" {
			if show, err = d.library.ShowByTitle(ctx, mediaTitle); err != nil {
				return err
			}
		}
		// The "epsidoe" literal is what existing clients send; it
		// predates this service and cannot change.
		if mediaType == "epsidoe" || mediaType == "" {
			if episode, err = d.library.EpisodeByTitle(ctx, mediaTitle); err != nil {
				return err
			}
		}
	}

	// Reduce whatever matched to an id and kind. A movie match wins
	// over a show, a show over a bare episode.
	playID := numericID
	playIDKnown := idIsNumeric
	var resume float64
	switch {
	case movie != nil:
		playID = movie.ID
		playIDKnown = true
		mediaType = string(domain.MediaMovie)
		resume = movie.File.ResumeSeconds()
	case show != nil:
		mediaType = string(domain.MediaEpisode)
		if episode, err = d.library.NextEpisode(ctx, show.ID); err != nil {
			return err
		}
		if episode != nil {
			playID = episode.ID
			playIDKnown = true
		}
	case episode != nil:
		playID = episode.ID
		playIDKnown = true
		mediaType = string(domain.MediaEpisode)
	}

	playIDs := []int{playID}
	if mediaType == string(domain.MediaEpisode) {
		if episode != nil {
			resume = episode.File.ResumeSeconds()
		}
		last := episode
		for i := 0; i < queueNext && last != nil; i++ {
			next, err := d.library.EpisodeAfter(ctx, last)
			if err != nil {
				return err
			}
			if next == nil {
				break
			}
			playIDs = append(playIDs, next.ID)
			last = next
		}
	}

	if playIDKnown && mediaType != "" {
		target := domain.PlayTarget{
			MediaIDs:      playIDs,
			Kind:          domain.MediaKind(mediaType),
			ResumeSeconds: resume,
		}
		if err := d.controller.PlayVideo(ctx, target); err != nil {
			return err
		}
		return d.controller.SetFullscreen(ctx)
	}
	return domain.BadRequest("no_media_found", "No such video found.")
}

// clearScreen hands the display back to the media center: raise its
// window and tear down any streaming-site browser session. Best
// effort; playback proceeds even when the scripts misbehave.
func (d *Dispatcher) clearScreen(ctx context.Context) {
	log := logger.FromContext(ctx)
	if err := d.desktop.BringToFront(ctx); err != nil {
		log.Warn("bring_to_front_failed", slog.String("error", err.Error()))
	}
	if err := d.browser.Close(ctx); err != nil {
		log.Warn("browser_close_failed", slog.String("error", err.Error()))
	}
}

// playMLB picks today's game for the configured team and walks the
// add-on menu to it. With no game matching, the last slate entry is
// selected; an empty slate is a quiet no-op.
func (d *Dispatcher) playMLB(ctx context.Context) error {
	games, err := d.schedule.Games(ctx)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		return nil
	}
	listIndex := 0
	home := false
	status := ""
	for i, game := range games {
		listIndex = i
		status = game.Status
		if game.AwayName == d.opts.MLBTeam {
			home = false
			break
		}
		if game.HomeName == d.opts.MLBTeam {
			home = true
			break
		}
	}
	return d.controller.PlayMLB(ctx, listIndex, home, status)
}

var errStreamNotStarted = errors.New("stream did not start")

// playNBA hands off to the browser helper, trying twice: the site's
// login flow fails transiently often enough that one retry is worth
// it. The outcome is best effort either way.
func (d *Dispatcher) playNBA(ctx context.Context, team string) error {
	err := retry.New(
		retry.Attempts(nbaPlayAttempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	).Do(func() error {
		ok, err := d.browser.PlayNBAGame(ctx, d.opts.NBAUsername, d.opts.NBAPassword, team)
		if err != nil {
			return err
		}
		if !ok {
			return errStreamNotStarted
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn("nba_stream_failed", slog.String("error", err.Error()))
	}
	return nil
}
