package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeFinder serves episodes from fixed answers and records which
// tiers were consulted.
type fakeFinder struct {
	resumable *Episode
	unplayed  *Episode
	lastSeen  *Episode
	byNumber  map[[3]int]*Episode

	consulted []string
}

func (f *fakeFinder) ResumeCandidate(_ context.Context, _ int) (*Episode, error) {
	f.consulted = append(f.consulted, "resume")
	return f.resumable, nil
}

func (f *fakeFinder) EarliestUnplayed(_ context.Context, _ int) (*Episode, error) {
	f.consulted = append(f.consulted, "unplayed")
	return f.unplayed, nil
}

func (f *fakeFinder) LastPlayed(_ context.Context, _ int) (*Episode, error) {
	f.consulted = append(f.consulted, "last_played")
	return f.lastSeen, nil
}

func (f *fakeFinder) EpisodeByNumber(_ context.Context, showID, season, episode int) (*Episode, error) {
	f.consulted = append(f.consulted, "by_number")
	return f.byNumber[[3]int{showID, season, episode}], nil
}

func ep(id, show int, season, episode string) *Episode {
	return &Episode{ID: id, ShowID: show, SeasonNumber: season, EpisodeNumber: episode}
}

func TestNextEpisodePrefersResumeBookmark(t *testing.T) {
	finder := &fakeFinder{
		resumable: ep(10, 1, "2", "4"),
		unplayed:  ep(11, 1, "1", "1"),
	}

	got, err := NextEpisode(context.Background(), finder, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 10, got.ID)
	require.Equal(t, []string{"resume"}, finder.consulted)
}

func TestNextEpisodeFallsBackToEarliestUnplayed(t *testing.T) {
	finder := &fakeFinder{
		unplayed: ep(13, 1, "1", "3"),
	}

	got, err := NextEpisode(context.Background(), finder, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 13, got.ID)
	require.Equal(t, []string{"resume", "unplayed"}, finder.consulted)
}

func TestNextEpisodeAdvancesFromLastPlayed(t *testing.T) {
	finder := &fakeFinder{
		lastSeen: ep(15, 1, "1", "5"),
		byNumber: map[[3]int]*Episode{
			{1, 1, 6}: ep(16, 1, "1", "6"),
		},
	}

	got, err := NextEpisode(context.Background(), finder, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 16, got.ID)
}

func TestNextEpisodeRollsIntoNextSeason(t *testing.T) {
	finder := &fakeFinder{
		lastSeen: ep(20, 1, "1", "10"),
		byNumber: map[[3]int]*Episode{
			{1, 2, 1}: ep(21, 1, "2", "1"),
		},
	}

	got, err := NextEpisode(context.Background(), finder, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 21, got.ID)
}

func TestNextEpisodeWrapsAroundToSeriesStart(t *testing.T) {
	finder := &fakeFinder{
		lastSeen: ep(30, 1, "3", "8"),
		byNumber: map[[3]int]*Episode{
			{1, 1, 1}: ep(1, 1, "1", "1"),
		},
	}

	got, err := NextEpisode(context.Background(), finder, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 1, got.ID)
}

func TestNextEpisodeAfterAnchorSkipsResumeTiers(t *testing.T) {
	finder := &fakeFinder{
		resumable: ep(99, 1, "9", "9"),
		byNumber: map[[3]int]*Episode{
			{1, 1, 3}: ep(3, 1, "1", "3"),
		},
	}

	got, err := NextEpisode(context.Background(), finder, 1, ep(2, 1, "1", "2"))
	require.NoError(t, err)
	require.Equal(t, 3, got.ID)
	require.NotContains(t, finder.consulted, "resume")
	require.NotContains(t, finder.consulted, "unplayed")
}

func TestNextEpisodeAfterAnchorUsesAnchorsShow(t *testing.T) {
	finder := &fakeFinder{
		byNumber: map[[3]int]*Episode{
			{7, 1, 1}: ep(70, 7, "1", "1"),
		},
	}

	// The anchor belongs to show 7; the passed-in show id is stale.
	got, err := NextEpisode(context.Background(), finder, 1, ep(75, 7, "4", "12"))
	require.NoError(t, err)
	require.Equal(t, 70, got.ID)
}
