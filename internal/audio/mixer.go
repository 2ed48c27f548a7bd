// Package audio crudely controls the host's audio through an external
// mixer executable (SoundVolumeView or compatible).
package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/htpc-tools/kodivoice/internal/logger"
)

const dimVolume = 10

type Mixer struct {
	mixerBin string

	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)

	mu sync.Mutex
	// Name of the playback device the mixer commands address.
	device string
	// Last volume this process set. The mixer has no reliable volume
	// query, so relative changes only work once an absolute level is
	// known.
	volume       *int
	preDimVolume *int
}

func NewMixer(ctx context.Context, mixerBin string) *Mixer {
	mixer := &Mixer{
		mixerBin: mixerBin,
		device:   "Speakers",
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
	if device, err := mixer.detectDefaultDevice(ctx); err == nil && device != "" {
		mixer.device = device
	} else if err != nil {
		logger.FromContext(ctx).Warn("audio_device_detect_failed", slog.String("error", err.Error()))
	}
	return mixer
}

type deviceRow struct {
	Name    string `json:"Name"`
	Default string `json:"Default"`
}

// detectDefaultDevice asks the mixer to dump its device table and picks
// the default render device.
func (m *Mixer) detectDefaultDevice(ctx context.Context) (string, error) {
	tmpDir, err := os.MkdirTemp("", "kodivoice-audio")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)
	dumpPath := filepath.Join(tmpDir, "audio.json")
	if _, err := m.runCommand(ctx, m.mixerBin, "/sjson", dumpPath); err != nil {
		return "", fmt.Errorf("dumping audio devices: %w", err)
	}
	data, err := os.ReadFile(dumpPath)
	if err != nil {
		return "", err
	}
	var rows []deviceRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("parsing audio device dump: %w", err)
	}
	for _, row := range rows {
		if row.Default == "Render" {
			return row.Name, nil
		}
	}
	return "", nil
}

func (m *Mixer) currentDevice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.device
}

// SwitchDevice makes the named device the system default and retargets
// all later mixer commands at it.
func (m *Mixer) SwitchDevice(ctx context.Context, device string) error {
	m.mu.Lock()
	m.device = device
	m.mu.Unlock()
	_, err := m.runCommand(ctx, m.mixerBin, "/SetDefault", device)
	return err
}

func (m *Mixer) Mute(ctx context.Context) error {
	_, err := m.runCommand(ctx, m.mixerBin, "/Mute", m.currentDevice())
	return err
}

func (m *Mixer) Unmute(ctx context.Context) error {
	_, err := m.runCommand(ctx, m.mixerBin, "/Unmute", m.currentDevice())
	return err
}

// SetVolume sets an absolute level and remembers it as the baseline
// for later relative changes.
func (m *Mixer) SetVolume(ctx context.Context, level int) error {
	if _, err := m.runCommand(ctx, m.mixerBin, "/SetVolume", m.currentDevice(), strconv.Itoa(level)); err != nil {
		return err
	}
	m.mu.Lock()
	m.volume = &level
	m.mu.Unlock()
	return nil
}

// AdjustVolume moves the level relative to the last known one. A no-op
// until some absolute level has been set this session.
func (m *Mixer) AdjustVolume(ctx context.Context, delta int) error {
	m.mu.Lock()
	known := m.volume
	m.mu.Unlock()
	if known == nil {
		return nil
	}
	return m.SetVolume(ctx, *known+delta)
}

// Dim drops the volume to a conversational level, remembering where it
// was.
func (m *Mixer) Dim(ctx context.Context) error {
	m.mu.Lock()
	m.preDimVolume = m.volume
	m.mu.Unlock()
	return m.SetVolume(ctx, dimVolume)
}

// Undim restores the pre-dim level. A no-op when the level before the
// dim was never known.
func (m *Mixer) Undim(ctx context.Context) error {
	m.mu.Lock()
	restore := m.preDimVolume
	m.mu.Unlock()
	if restore == nil {
		return nil
	}
	return m.SetVolume(ctx, *restore)
}
