package sports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/htpc-tools/kodivoice/internal/logger"
)

// BrowserController drives the league-pass site through an external
// browser-automation helper. The helper owns the selenium-style
// clicking; this side only launches and tears it down.
type BrowserController struct {
	browserBin string

	runCommand func(ctx context.Context, env []string, name string, args ...string) error
}

func NewBrowserController(browserBin string) *BrowserController {
	return &BrowserController{
		browserBin: browserBin,
		runCommand: func(ctx context.Context, env []string, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Env = env
			return cmd.Run()
		},
	}
}

// PlayNBAGame logs into the streaming site and starts the game for the
// given team abbreviation in fullscreen. Reports whether the helper
// got the stream playing.
func (b *BrowserController) PlayNBAGame(ctx context.Context, username, password, team string) (bool, error) {
	if b.browserBin == "" {
		return false, errors.New("nba browser helper is not configured")
	}
	env := []string{
		"NBA_USERNAME=" + username,
		"NBA_PASSWORD=" + password,
	}
	if err := b.runCommand(ctx, env, b.browserBin, "play", "--team", team); err != nil {
		return false, fmt.Errorf("nba browser helper: %w", err)
	}
	return true, nil
}

// Close tears down any browser session the helper left running. Native
// playback cannot take the screen while the stream window is up.
func (b *BrowserController) Close(ctx context.Context) error {
	if b.browserBin == "" {
		return nil
	}
	if err := b.runCommand(ctx, nil, b.browserBin, "close"); err != nil {
		logger.FromContext(ctx).Warn("nba_browser_close_failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
