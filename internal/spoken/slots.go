package spoken

import "fmt"

// Entry is a library row reduced to what slot generation needs.
type Entry struct {
	ID    int
	Title string
}

// EpisodeEntry carries the show title too; episodes are spoken as
// "<show> <episode title>".
type EpisodeEntry struct {
	ID        int
	Title     string
	ShowTitle string
}

// Slot is one spoken phrase mapped to its "<id>-<mediaType>" value.
// Order is the generation order, which callers rely on for stable
// output.
type Slot struct {
	Spoken string
	Value  string
}

type SlotTables struct {
	Movies   []Slot
	Shows    []Slot
	Episodes []Slot
}

// GenerateVideoSlots normalizes every title across all three media
// kinds against one shared collision set. All kinds must be generated
// together even when only one table is wanted, otherwise a movie and a
// show with the same title would each claim the same phrase. On a
// collision the phrase is prefixed with "the other " until unique.
func GenerateVideoSlots(movies, shows []Entry, episodes []EpisodeEntry) SlotTables {
	taken := map[string]struct{}{}
	claim := func(spoken string) string {
		for {
			if _, exists := taken[spoken]; !exists {
				taken[spoken] = struct{}{}
				return spoken
			}
			spoken = "the other " + spoken
		}
	}

	var tables SlotTables
	for _, movie := range movies {
		tables.Movies = append(tables.Movies, Slot{
			Spoken: claim(Normalize(movie.Title)),
			Value:  fmt.Sprintf("%d-movie", movie.ID),
		})
	}
	for _, show := range shows {
		tables.Shows = append(tables.Shows, Slot{
			Spoken: claim(Normalize(show.Title)),
			Value:  fmt.Sprintf("%d-tvshow", show.ID),
		})
	}
	for _, episode := range episodes {
		tables.Episodes = append(tables.Episodes, Slot{
			Spoken: claim(Normalize(episode.ShowTitle + " " + episode.Title)),
			Value:  fmt.Sprintf("%d-episode", episode.ID),
		})
	}
	return tables
}
