package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/htpc-tools/kodivoice/internal/audio"
	"github.com/htpc-tools/kodivoice/internal/buildinfo"
	"github.com/htpc-tools/kodivoice/internal/config"
	"github.com/htpc-tools/kodivoice/internal/desktop"
	"github.com/htpc-tools/kodivoice/internal/diagnostics"
	"github.com/htpc-tools/kodivoice/internal/httpapi"
	"github.com/htpc-tools/kodivoice/internal/kodi"
	"github.com/htpc-tools/kodivoice/internal/library"
	"github.com/htpc-tools/kodivoice/internal/lifecycle"
	"github.com/htpc-tools/kodivoice/internal/player"
	"github.com/htpc-tools/kodivoice/internal/sports"
)

type selfTestOutput struct {
	Server struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"server"`
	Wiring struct {
		VideoDBReadable bool `json:"video_db_readable"`
		NBAConfigured   bool `json:"nba_configured"`
	} `json:"wiring"`
	Dependencies diagnostics.DependencyReport `json:"dependencies"`
}

// scheduleAdapter bridges the MLB schedule lookup to the dispatcher's
// game shape.
type scheduleAdapter struct {
	schedule *sports.MLBSchedule
}

func (a scheduleAdapter) Games(ctx context.Context) ([]player.Game, error) {
	games, err := a.schedule.Games(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(games, func(g sports.Game, _ int) player.Game {
		return player.Game{HomeName: g.HomeName, AwayName: g.AwayName, Status: g.Status}
	}), nil
}

func main() {
	selfTest := flag.Bool("self-test", false, "run dependency and wiring diagnostics then exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.Version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *selfTest {
		out := selfTestOutput{
			Dependencies: diagnostics.DetectDependencies(cfg.PowershellBin, cfg.MixerBin, cfg.NBABrowserBin),
		}
		out.Server.Name = "kodivoice"
		out.Server.Version = buildinfo.Version
		_, statErr := os.Stat(cfg.VideoDBPath)
		out.Wiring.VideoDBReadable = statErr == nil
		out.Wiring.NBAConfigured = cfg.NBABrowserBin != "" && cfg.NBAUsername != ""

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	runCtx, stopSignals := signal.NotifyContext(context.Background(), lifecycle.TerminationSignals()...)
	defer stopSignals()

	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	logger.Info(
		"server_start",
		slog.String("server", "kodivoice"),
		slog.String("version", buildinfo.Version),
		slog.String("listen_addr", cfg.ListenAddr),
		slog.String("log_level", logLevel.String()),
	)

	repo, err := library.Open(cfg.VideoDBPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kodiClient := kodi.NewClient(
		cfg.KodiURL, cfg.KodiUsername, cfg.KodiPassword,
		kodi.WithTiming(
			time.Duration(cfg.SeekDelayMS)*time.Millisecond,
			time.Duration(cfg.MenuLoadDelayMS)*time.Millisecond,
			time.Duration(cfg.MenuStepDelayMS)*time.Millisecond,
		),
		kodi.WithMLBAddonID(cfg.MLBAddonID),
	)
	scripts := desktop.NewScripts(cfg.PowershellBin, cfg.BringToFrontScript, cfg.DisplaySwitchScript)
	mixer := audio.NewMixer(runCtx, cfg.MixerBin)
	wavPlayer := audio.NewWavPlayer(cfg.PowershellBin)
	browser := sports.NewBrowserController(cfg.NBABrowserBin)
	schedule := scheduleAdapter{schedule: sports.NewMLBSchedule(cfg.MLBAPIURL)}

	dispatcher := player.NewDispatcher(repo, kodiClient, scripts, browser, schedule, player.Options{
		MLBTeam:     cfg.MLBTeam,
		NBAUsername: cfg.NBAUsername,
		NBAPassword: cfg.NBAPassword,
	})

	apiServer := httpapi.New(httpapi.Config{
		Logger:     logger,
		Dispatcher: dispatcher,
		Controls:   kodiClient,
		Library:    repo,
		Mixer:      mixer,
		Sound:      wavPlayer,
		Display:    scripts,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           apiServer,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- httpServer.ListenAndServe()
	}()

	var runErr error
	select {
	case runErr = <-runErrCh:
	case <-runCtx.Done():
	}

	reason := "signal"
	if runErr != nil {
		reason = runErr.Error()
	}
	logger.Info("server_stopping", slog.String("reason", reason))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "invalid KODIVOICE_LOG_LEVEL=%q; defaulting to info\n", raw)
		return slog.LevelInfo
	}
}
