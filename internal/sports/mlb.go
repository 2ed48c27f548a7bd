// Package sports holds the two out-of-library playback collaborators:
// the MLB schedule lookup and the NBA browser-automation helper.
package sports

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"context"
)

// Game is one scheduled MLB game for the lookup date.
type Game struct {
	HomeName string
	AwayName string
	Status   string
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MLBSchedule queries the league's public stats API for today's
// slate.
type MLBSchedule struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
	location   *time.Location
}

func NewMLBSchedule(baseURL string) *MLBSchedule {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Games are scheduled on US Eastern wall time; a fixed offset
		// is close enough when tzdata is unavailable.
		location = time.FixedZone("EST", -5*60*60)
	}
	return &MLBSchedule{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
		location:   location,
	}
}

// gameDate is today's slate date in Eastern time. Before 03:00 the
// previous day's games are still "tonight's game" from the couch, so
// the date rolls back.
func (s *MLBSchedule) gameDate() string {
	now := s.now().In(s.location)
	if now.Hour() < 3 {
		now = now.AddDate(0, 0, -1)
	}
	return now.Format("2006-01-02")
}

type scheduleResponse struct {
	Dates []struct {
		Games []struct {
			Status struct {
				DetailedState string `json:"detailedState"`
			} `json:"status"`
			Teams struct {
				Away struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"away"`
				Home struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"home"`
			} `json:"teams"`
		} `json:"games"`
	} `json:"dates"`
}

// Games returns the slate for the current lookup date, in schedule
// order.
func (s *MLBSchedule) Games(ctx context.Context) ([]Game, error) {
	date := s.gameDate()
	url := fmt.Sprintf("%s/api/v1/schedule?sportId=1&startDate=%s&endDate=%s", s.baseURL, date, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching mlb schedule: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mlb schedule returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed scheduleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding mlb schedule: %w", err)
	}
	var games []Game
	for _, d := range parsed.Dates {
		for _, g := range d.Games {
			games = append(games, Game{
				HomeName: g.Teams.Home.Team.Name,
				AwayName: g.Teams.Away.Team.Name,
				Status:   g.Status.DetailedState,
			})
		}
	}
	return games, nil
}
