package library

import (
	"context"
	"fmt"
	"strconv"
)

// episodeFinder is the slice of Repository the resolver needs.
type episodeFinder interface {
	ResumeCandidate(ctx context.Context, showID int) (*Episode, error)
	EarliestUnplayed(ctx context.Context, showID int) (*Episode, error)
	LastPlayed(ctx context.Context, showID int) (*Episode, error)
	EpisodeByNumber(ctx context.Context, showID, season, episode int) (*Episode, error)
}

// NextEpisode picks the episode to play for a show, tiered:
//
//  1. an episode with an in-progress resume bookmark, most recently
//     played first
//  2. the earliest unplayed episode
//  3. the episode after the last played one, rolling into the next
//     season when the current one runs out
//  4. season 1 episode 1
//
// When after is non-nil the first two tiers are skipped and after is
// the advance anchor. That is the "what comes after this episode" mode
// used while queueing.
func NextEpisode(ctx context.Context, finder episodeFinder, showID int, after *Episode) (*Episode, error) {
	anchor := after
	if after == nil {
		resumable, err := finder.ResumeCandidate(ctx, showID)
		if err != nil {
			return nil, err
		}
		if resumable != nil {
			return resumable, nil
		}
		unplayed, err := finder.EarliestUnplayed(ctx, showID)
		if err != nil {
			return nil, err
		}
		if unplayed != nil {
			return unplayed, nil
		}
		anchor, err = finder.LastPlayed(ctx, showID)
		if err != nil {
			return nil, err
		}
	} else {
		showID = after.ShowID
	}
	if anchor != nil {
		season, err := strconv.Atoi(anchor.SeasonNumber)
		if err != nil {
			return nil, fmt.Errorf("episode %d has season %q: %w", anchor.ID, anchor.SeasonNumber, err)
		}
		episode, err := strconv.Atoi(anchor.EpisodeNumber)
		if err != nil {
			return nil, fmt.Errorf("episode %d has episode number %q: %w", anchor.ID, anchor.EpisodeNumber, err)
		}
		next, err := finder.EpisodeByNumber(ctx, showID, season, episode+1)
		if err != nil {
			return nil, err
		}
		if next != nil {
			return next, nil
		}
		next, err = finder.EpisodeByNumber(ctx, showID, season+1, 1)
		if err != nil {
			return nil, err
		}
		if next != nil {
			return next, nil
		}
	}
	// Nothing watched, or everything watched. Loop back to the start.
	return finder.EpisodeByNumber(ctx, showID, 1, 1)
}
