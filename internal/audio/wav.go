package audio

import (
	"context"
	"fmt"
	"os/exec"
)

// WavPlayer plays a wav file on the host's speakers through
// PowerShell's SoundPlayer, blocking until playback finishes.
type WavPlayer struct {
	powershellBin string

	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewWavPlayer(powershellBin string) *WavPlayer {
	return &WavPlayer{
		powershellBin: powershellBin,
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

func (p *WavPlayer) PlayWav(ctx context.Context, path string) error {
	script := fmt.Sprintf("(New-Object Media.SoundPlayer %q).PlaySync()", path)
	output, err := p.runCommand(ctx, p.powershellBin, "-NoProfile", "-Command", script)
	if err != nil {
		return fmt.Errorf("playing wav: %w: %s", err, output)
	}
	return nil
}
