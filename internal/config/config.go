package config

import (
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime knob, loaded from KODIVOICE_* environment
// variables.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":5000"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	KodiURL      string `envconfig:"KODI_URL" required:"true"`
	KodiUsername string `envconfig:"KODI_USERNAME" required:"true"`
	KodiPassword string `envconfig:"KODI_PASSWORD" required:"true"`

	VideoDBPath string `envconfig:"VIDEO_DB_PATH" required:"true"`

	PowershellBin       string `envconfig:"POWERSHELL_BIN" default:"powershell.exe"`
	BringToFrontScript  string `envconfig:"BRING_TO_FRONT_SCRIPT" default:"scripts/bring_to_front.ps1"`
	DisplaySwitchScript string `envconfig:"DISPLAY_SWITCH_SCRIPT" default:"scripts/display_switch.ps1"`
	MixerBin            string `envconfig:"MIXER_BIN" default:"SoundVolumeView.exe"`

	NBABrowserBin string `envconfig:"NBA_BROWSER_BIN"`
	NBAUsername   string `envconfig:"NBA_USERNAME"`
	NBAPassword   string `envconfig:"NBA_PASSWORD"`

	MLBAPIURL  string `envconfig:"MLB_API_URL" default:"https://statsapi.mlb.com"`
	MLBTeam    string `envconfig:"MLB_TEAM" default:"Boston Red Sox"`
	MLBAddonID string `envconfig:"MLB_ADDON_ID" default:"plugin.video.mlbserver"`

	// Empirical pacing for backend state changes. The backend has no
	// ready signal, so these delays are load-bearing.
	SeekDelayMS     int `envconfig:"SEEK_DELAY_MS" default:"500"`
	MenuLoadDelayMS int `envconfig:"MENU_LOAD_DELAY_MS" default:"5000"`
	MenuStepDelayMS int `envconfig:"MENU_STEP_DELAY_MS" default:"750"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("KODIVOICE", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	parsed, err := url.Parse(c.KodiURL)
	if err != nil {
		return fmt.Errorf("invalid KODIVOICE_KODI_URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid KODIVOICE_KODI_URL scheme %q", parsed.Scheme)
	}
	if _, err := url.Parse(c.MLBAPIURL); err != nil {
		return fmt.Errorf("invalid KODIVOICE_MLB_API_URL: %w", err)
	}
	if c.SeekDelayMS < 0 || c.MenuLoadDelayMS < 0 || c.MenuStepDelayMS < 0 {
		return fmt.Errorf("delay values must not be negative")
	}
	return nil
}
