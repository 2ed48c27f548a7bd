// Package kodi speaks the media center's JSON-RPC protocol over HTTP
// and exposes the handful of playback and display operations this
// system needs.
package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/htpc-tools/kodivoice/internal/domain"
)

const (
	// The backend assigns video playback to playlist and player 1.
	videoPlaylistID = 1
	videoPlayerID   = 1

	monitorSetting = "videoscreen.monitor"
	screenSetting  = "videoscreen.screen"

	requestCounterSeed = 140

	defaultSeekDelay     = 500 * time.Millisecond
	defaultMenuLoadDelay = 5 * time.Second
	defaultMenuStepDelay = 750 * time.Millisecond
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	ID      int             `json:"id"`
}

type settingValue struct {
	Value json.RawMessage `json:"value"`
}

// Client drives a single known backend. Safe for concurrent use; the
// only shared state is the request counter.
type Client struct {
	baseURL  string
	username string
	password string

	httpClient httpDoer
	sleep      func(time.Duration)

	seekDelay     time.Duration
	menuLoadDelay time.Duration
	menuStepDelay time.Duration

	mlbAddonID string

	mu         sync.Mutex
	reqCounter int
}

type Option func(*Client)

// WithTiming overrides the empirical pacing delays.
func WithTiming(seekDelay, menuLoadDelay, menuStepDelay time.Duration) Option {
	return func(c *Client) {
		c.seekDelay = seekDelay
		c.menuLoadDelay = menuLoadDelay
		c.menuStepDelay = menuStepDelay
	}
}

func WithMLBAddonID(addonID string) Option {
	return func(c *Client) {
		c.mlbAddonID = addonID
	}
}

func NewClient(baseURL, username, password string, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	client := &Client{
		baseURL:       baseURL,
		username:      username,
		password:      password,
		httpClient:    &http.Client{},
		sleep:         time.Sleep,
		seekDelay:     defaultSeekDelay,
		menuLoadDelay: defaultMenuLoadDelay,
		menuStepDelay: defaultMenuStepDelay,
		mlbAddonID:    "plugin.video.mlbserver",
		reqCounter:    requestCounterSeed,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) nextRequestID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.reqCounter
	// The counter moves even when the call fails. Ids are never
	// reused, which is all the protocol requires.
	c.reqCounter++
	return id
}

// call POSTs a single-element batch to {base}jsonrpc?{method} and
// returns the result of its lone response. Transport errors propagate
// raw; there is no retry.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	payload := []rpcRequest{{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextRequestID(),
	}}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}
	url := c.baseURL + "jsonrpc?" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var batch []rpcResponse
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", method, err)
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("%s returned an empty batch", method)
	}
	return batch[0].Result, nil
}

func (c *Client) getSetting(ctx context.Context, setting string) (json.RawMessage, error) {
	result, err := c.call(ctx, "Settings.GetSettingValue", map[string]any{"setting": setting})
	if err != nil {
		return nil, err
	}
	var value settingValue
	if err := json.Unmarshal(result, &value); err != nil {
		return nil, fmt.Errorf("decoding setting %s: %w", setting, err)
	}
	return value.Value, nil
}

func (c *Client) GetMonitor(ctx context.Context) (string, error) {
	raw, err := c.getSetting(ctx, monitorSetting)
	if err != nil {
		return "", err
	}
	var monitor string
	if err := json.Unmarshal(raw, &monitor); err != nil {
		return "", fmt.Errorf("decoding monitor value: %w", err)
	}
	return monitor, nil
}

// SetMonitor writes the monitor setting, skipping the write when the
// backend already reports the requested value. A redundant write makes
// the display flicker.
func (c *Client) SetMonitor(ctx context.Context, value string) error {
	current, err := c.GetMonitor(ctx)
	if err != nil {
		return err
	}
	if current == value {
		return nil
	}
	_, err = c.call(ctx, "Settings.SetSettingValue", map[string]any{
		"setting": monitorSetting,
		"value":   value,
	})
	return err
}

func (c *Client) getScreen(ctx context.Context) (int, error) {
	raw, err := c.getSetting(ctx, screenSetting)
	if err != nil {
		return 0, err
	}
	var screen int
	if err := json.Unmarshal(raw, &screen); err != nil {
		return 0, fmt.Errorf("decoding screen value: %w", err)
	}
	return screen, nil
}

// SetFullscreen moves the backend to screen 0 unless it is already
// there.
func (c *Client) SetFullscreen(ctx context.Context) error {
	current, err := c.getScreen(ctx)
	if err != nil {
		return err
	}
	if current == 0 {
		return nil
	}
	_, err = c.call(ctx, "Settings.SetSettingValue", map[string]any{
		"setting": screenSetting,
		"value":   0,
	})
	return err
}

func (c *Client) ExecuteAction(ctx context.Context, action string) error {
	_, err := c.call(ctx, "Input.ExecuteAction", map[string]any{"action": action})
	return err
}

func (c *Client) TogglePlayPause(ctx context.Context) error {
	_, err := c.call(ctx, "Player.PlayPause", map[string]any{
		"playerid": videoPlayerID,
		"play":     "toggle",
	})
	return err
}

func (c *Client) SkipNext(ctx context.Context) error {
	_, err := c.call(ctx, "Player.GoTo", map[string]any{
		"playerid": videoPlayerID,
		"to":       "next",
	})
	return err
}

func (c *Client) input(ctx context.Context, method string) error {
	_, err := c.call(ctx, method, map[string]any{})
	return err
}

// PlayVideo replaces the video playlist with the target and starts
// playback. The sequence is order-significant: the playlist must be
// cleared and populated before the player opens, and the seek has to
// wait out the backend's playback-start latency.
func (c *Client) PlayVideo(ctx context.Context, target domain.PlayTarget) error {
	if len(target.MediaIDs) == 0 {
		return fmt.Errorf("play target has no media ids")
	}
	idKey := "episodeid"
	if target.Kind == domain.MediaMovie {
		idKey = "movieid"
	}
	primary := target.MediaIDs[0]
	queued := target.MediaIDs[1:]

	if _, err := c.call(ctx, "Playlist.Clear", []any{videoPlaylistID}); err != nil {
		return err
	}
	if _, err := c.call(ctx, "Playlist.Insert", []any{videoPlaylistID, 0, map[string]int{idKey: primary}}); err != nil {
		return err
	}
	// The resume hint here is a fixed placeholder; the real offset is
	// applied by the explicit seek below.
	_, err := c.call(ctx, "Player.Open", map[string]any{
		"item": map[string]any{
			"position":   0,
			"playlistid": videoPlaylistID,
		},
		"options": map[string]any{
			"resume": map[string]int{"hours": 1, "minutes": 0, "seconds": 8},
		},
	})
	if err != nil {
		return err
	}
	if _, err := c.call(ctx, "GUI.SetFullscreen", []any{true}); err != nil {
		return err
	}
	if target.ResumeSeconds > 0 {
		c.sleep(c.seekDelay)
		_, err := c.call(ctx, "Player.Seek", map[string]any{
			"playerid": videoPlayerID,
			"value":    map[string]int{"seconds": int(target.ResumeSeconds)},
		})
		if err != nil {
			return err
		}
	}
	for i, nextID := range queued {
		_, err := c.call(ctx, "Playlist.Insert", []any{videoPlaylistID, i + 1, map[string]int{idKey: nextID}})
		if err != nil {
			return err
		}
	}
	return nil
}

// PlayMLB walks the streaming add-on's on-screen menu blindly: launch
// the add-on, step down to the game row, select it, then pick a feed
// from the stream dialog. There is no readiness signal from the add-on,
// only the pacing delays. Fragile by nature; the add-on UI layout is
// not under our control.
func (c *Client) PlayMLB(ctx context.Context, listIndex int, home bool, gameStatus string) error {
	_, err := c.call(ctx, "Addons.ExecuteAddon", map[string]any{"addonid": c.mlbAddonID})
	if err != nil {
		return err
	}
	c.sleep(c.menuLoadDelay)
	for i := 0; i < listIndex; i++ {
		if err := c.input(ctx, "Input.Down"); err != nil {
			return err
		}
		c.sleep(c.menuStepDelay)
	}
	if err := c.input(ctx, "Input.Select"); err != nil {
		return err
	}
	c.sleep(c.menuLoadDelay)
	// Finished games open straight into the archive stream; live games
	// pop a feed dialog with the home feed focused first.
	if strings.EqualFold(gameStatus, "Final") || strings.EqualFold(gameStatus, "Game Over") {
		return c.input(ctx, "Input.Select")
	}
	if !home {
		if err := c.input(ctx, "Input.Down"); err != nil {
			return err
		}
		c.sleep(c.menuStepDelay)
	}
	return c.input(ctx, "Input.Select")
}

// SwitchMonitor flips the monitor setting between outputs 1 and 2.
// The setting write is slow and triggers a resolution-change dialog on
// the previous display, so the write runs concurrently with the input
// sequence that dismisses the dialog. Both must finish before this
// returns.
func (c *Client) SwitchMonitor(ctx context.Context) error {
	monitor, err := c.GetMonitor(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(monitor, "1") {
		monitor = strings.ReplaceAll(monitor, "1", "2")
	} else {
		monitor = strings.ReplaceAll(monitor, "2", "1")
	}
	if err := c.SetFullscreen(ctx); err != nil {
		return err
	}

	setDone := make(chan error, 1)
	go func() {
		setDone <- c.SetMonitor(ctx, monitor)
	}()

	inputErr := c.ExecuteAction(ctx, "green")
	for _, method := range []string{"Input.Down", "Input.Left", "Input.Select"} {
		if inputErr != nil {
			break
		}
		inputErr = c.input(ctx, method)
	}
	setErr := <-setDone
	if inputErr != nil {
		return inputErr
	}
	return setErr
}
