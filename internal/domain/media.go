package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type MediaKind string

const (
	MediaMovie   MediaKind = "movie"
	MediaShow    MediaKind = "tvshow"
	MediaEpisode MediaKind = "episode"
	MediaMLB     MediaKind = "mlb"
	MediaNBA     MediaKind = "nba"
)

// Scalar is a JSON field that voice-assistant clients send as either a
// string or a number. It decodes both to their string form.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = Scalar(num.String())
		return nil
	}
	return fmt.Errorf("scalar field must be a string or number, got %s", data)
}

func (s Scalar) String() string {
	return string(s)
}

// PlayRequest is the inbound payload of the playback endpoint. All
// identifying fields are optional; the dispatcher decides which
// combination is usable.
type PlayRequest struct {
	MediaID      Scalar `json:"mediaId"`
	MediaType    string `json:"mediaType"`
	MediaTitle   string `json:"mediaTitle"`
	MediaComboID string `json:"mediaComboId"`
	QueueNext    Scalar `json:"queueNext"`
}

// QueueCount returns how many extra episodes should be queued after the
// primary item. Zero disables queueing. A present but unparseable value
// falls back to one.
func (r PlayRequest) QueueCount() int {
	raw := string(r.QueueNext)
	if raw == "" || raw == "0" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// PlayTarget is a fully resolved playback order: the playlist ids (the
// first entry is played, the rest are queued), the media kind and the
// absolute resume offset.
type PlayTarget struct {
	MediaIDs      []int
	Kind          MediaKind
	ResumeSeconds float64
}
