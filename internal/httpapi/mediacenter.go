package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/htpc-tools/kodivoice/internal/desktop"
	"github.com/htpc-tools/kodivoice/internal/domain"
)

const (
	defaultVolumeStep = 10
	bigVolumeStep     = 20
)

type volumeRequest struct {
	VolumeLevel domain.Scalar `json:"volumeLevel"`
	Amount      domain.Scalar `json:"amount"`
}

// handleSpeakersVolume handles both the named verbs (mute, unmute,
// dim, undim, increase, decrease) and absolute numeric levels. The
// only recognized amount is "a lot"; everything else steps by ten.
func (s *Server) handleSpeakersVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.BadRequest("invalid_body", "Request body must be a JSON object."))
		return
	}
	ctx := r.Context()
	value := strings.ToLower(strings.TrimSpace(req.VolumeLevel.String()))
	if value == "" {
		writeError(w, r, domain.BadRequest("missing_input", "volumeLevel is required."))
		return
	}

	var err error
	switch value {
	case "mute":
		err = s.mixer.Mute(ctx)
	case "unmute":
		err = s.mixer.Unmute(ctx)
	case "dim":
		err = s.mixer.Dim(ctx)
	case "undim":
		err = s.mixer.Undim(ctx)
	default:
		step := defaultVolumeStep
		if strings.EqualFold(strings.TrimSpace(req.Amount.String()), "a lot") {
			step = bigVolumeStep
		}
		switch {
		case value == "decrease":
			err = s.mixer.AdjustVolume(ctx, -step)
		case value == "increase":
			err = s.mixer.AdjustVolume(ctx, step)
		default:
			if level, convErr := strconv.Atoi(value); convErr == nil {
				err = s.mixer.SetVolume(ctx, level)
			}
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

// handleSpeakersPlay plays a wav payload on the host speakers. The
// body is spooled to a temp file for the external player and removed
// afterwards.
func (s *Server) handleSpeakersPlay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tmpDir, err := os.MkdirTemp("", "kodivoice-wav")
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer os.RemoveAll(tmpDir)
	wavPath := filepath.Join(tmpDir, "speech.wav")
	if err := os.WriteFile(wavPath, body, 0o600); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.sound.PlayWav(r.Context(), wavPath); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (s *Server) handleMonitorSwitch(w http.ResponseWriter, r *http.Request) {
	if err := s.controls.SwitchMonitor(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

type roomRequest struct {
	RoomID string `json:"roomId"`
}

// handleRoomSwitch moves picture and sound together: the bedroom gets
// the external display and HDMI audio, everywhere else gets the
// extended desktop and the speakers.
func (s *Server) handleRoomSwitch(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.BadRequest("invalid_body", "Request body must be a JSON object."))
		return
	}
	ctx := r.Context()
	mode := desktop.ModeExtend
	audioDevice := "Speakers"
	if req.RoomID == "bedroom" {
		mode = desktop.ModeExternal
		audioDevice = "HDMI"
	}
	if err := s.display.SwitchDisplay(ctx, mode); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.mixer.SwitchDevice(ctx, audioDevice); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
