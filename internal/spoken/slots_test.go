package spoken

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateVideoSlotsValueFormat(t *testing.T) {
	tables := GenerateVideoSlots(
		[]Entry{{ID: 12, Title: "Blade Runner"}},
		[]Entry{{ID: 3, Title: "The Office (US)"}},
		[]EpisodeEntry{{ID: 55, Title: "Diversity Day", ShowTitle: "The Office (US)"}},
	)

	require.Equal(t, []Slot{{Spoken: "blade runner", Value: "12-movie"}}, tables.Movies)
	require.Equal(t, []Slot{{Spoken: "office", Value: "3-tvshow"}}, tables.Shows)
	require.Equal(t, []Slot{{Spoken: "office diversity day", Value: "55-episode"}}, tables.Episodes)
}

func TestGenerateVideoSlotsResolvesCollisionsAcrossKinds(t *testing.T) {
	tables := GenerateVideoSlots(
		[]Entry{{ID: 1, Title: "Spider-Man"}},
		[]Entry{{ID: 2, Title: "Spider-Man (1994)"}},
		nil,
	)

	require.Equal(t, "spider man", tables.Movies[0].Spoken)
	require.Equal(t, "the other spider man", tables.Shows[0].Spoken)
}

func TestGenerateVideoSlotsNeverDuplicatesKeys(t *testing.T) {
	movies := []Entry{
		{ID: 1, Title: "Dune"},
		{ID: 2, Title: "Dune (1984)"},
		{ID: 3, Title: "Dune (2021)"},
	}
	shows := []Entry{{ID: 4, Title: "Dune"}}

	tables := GenerateVideoSlots(movies, shows, nil)

	seen := map[string]struct{}{}
	for _, table := range [][]Slot{tables.Movies, tables.Shows, tables.Episodes} {
		for _, slot := range table {
			_, duplicate := seen[slot.Spoken]
			require.False(t, duplicate, "duplicate spoken key %q", slot.Spoken)
			seen[slot.Spoken] = struct{}{}
		}
	}
	require.Len(t, seen, 4)
	require.Contains(t, seen, "dune")
	require.Contains(t, seen, "the other dune")
	require.Contains(t, seen, "the other the other dune")
	require.Contains(t, seen, "the other the other the other dune")
}

func TestGenerateVideoSlotsIsDeterministic(t *testing.T) {
	movies := []Entry{{ID: 1, Title: "Alien"}, {ID: 2, Title: "Aliens"}}
	first := GenerateVideoSlots(movies, nil, nil)
	second := GenerateVideoSlots(movies, nil, nil)
	require.Equal(t, first, second)
}
