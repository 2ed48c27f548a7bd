// Package desktop shells out to the host's PowerShell scripts for
// window and display management.
package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/htpc-tools/kodivoice/internal/logger"
)

// Display-switch modes understood by the script. "external" drives the
// TV output only, "extend" restores the desktop span.
const (
	ModeExternal = "external"
	ModeExtend   = "extend"
)

type Scripts struct {
	powershellBin       string
	bringToFrontScript  string
	displaySwitchScript string

	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewScripts(powershellBin, bringToFrontScript, displaySwitchScript string) *Scripts {
	return &Scripts{
		powershellBin:       powershellBin,
		bringToFrontScript:  bringToFrontScript,
		displaySwitchScript: displaySwitchScript,
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// BringToFront raises the media center window above whatever browser
// or overlay currently owns the screen.
func (s *Scripts) BringToFront(ctx context.Context) error {
	output, err := s.runCommand(ctx, s.powershellBin, s.bringToFrontScript)
	if err != nil {
		return fmt.Errorf("bring-to-front script: %w: %s", err, output)
	}
	logger.FromContext(ctx).Debug("desktop_bring_to_front")
	return nil
}

// SwitchDisplay changes the projection mode via the display script.
func (s *Scripts) SwitchDisplay(ctx context.Context, mode string) error {
	if mode != ModeExternal && mode != ModeExtend {
		return fmt.Errorf("unknown display mode %q", mode)
	}
	output, err := s.runCommand(ctx, s.powershellBin, s.displaySwitchScript, mode)
	if err != nil {
		return fmt.Errorf("display-switch script: %w: %s", err, output)
	}
	logger.FromContext(ctx).Info("desktop_display_switch", slog.String("mode", mode))
	return nil
}
