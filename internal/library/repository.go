package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Repository wraps the video database. Lookups that find nothing
// return (nil, nil); errors are reserved for the database itself.
type Repository struct {
	db *gorm.DB
}

// Open connects to the video database read-only.
func Open(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path+"?mode=ro"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening video database: %w", err)
	}
	return &Repository{db: db}, nil
}

// NewRepository wraps an existing gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func first[T any](db *gorm.DB) (*T, error) {
	var record T
	err := db.First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) session(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository) MovieByID(ctx context.Context, id int) (*Movie, error) {
	return first[Movie](r.session(ctx).Preload("File.Bookmarks").Where("idMovie = ?", id))
}

func (r *Repository) MovieByTitle(ctx context.Context, title string) (*Movie, error) {
	return first[Movie](r.session(ctx).Preload("File.Bookmarks").Where("c00 = ?", title))
}

func (r *Repository) MovieByIDAndTitle(ctx context.Context, id int, title string) (*Movie, error) {
	return first[Movie](r.session(ctx).Preload("File.Bookmarks").Where("idMovie = ? AND c00 = ?", id, title))
}

func (r *Repository) ShowByID(ctx context.Context, id int) (*TvShow, error) {
	return first[TvShow](r.session(ctx).Where("idShow = ?", id))
}

func (r *Repository) ShowByTitle(ctx context.Context, title string) (*TvShow, error) {
	return first[TvShow](r.session(ctx).Where("c00 = ?", title))
}

func (r *Repository) ShowByIDAndTitle(ctx context.Context, id int, title string) (*TvShow, error) {
	return first[TvShow](r.session(ctx).Where("idShow = ? AND c00 = ?", id, title))
}

func (r *Repository) EpisodeByID(ctx context.Context, id int) (*Episode, error) {
	return first[Episode](r.session(ctx).Preload("File.Bookmarks").Where("idEpisode = ?", id))
}

func (r *Repository) EpisodeByTitle(ctx context.Context, title string) (*Episode, error) {
	return first[Episode](r.session(ctx).Preload("File.Bookmarks").Where("c00 = ?", title))
}

func (r *Repository) EpisodeByIDAndTitle(ctx context.Context, id int, title string) (*Episode, error) {
	return first[Episode](r.session(ctx).Preload("File.Bookmarks").Where("idEpisode = ? AND c00 = ?", id, title))
}

func (r *Repository) Movies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := r.session(ctx).Order("idMovie").Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *Repository) Shows(ctx context.Context) ([]TvShow, error) {
	var shows []TvShow
	if err := r.session(ctx).Order("idShow").Find(&shows).Error; err != nil {
		return nil, err
	}
	return shows, nil
}

// EpisodeSlots returns every episode joined with its show title, in
// stable id order.
func (r *Repository) EpisodeSlots(ctx context.Context) ([]EpisodeSlot, error) {
	var slots []EpisodeSlot
	err := r.session(ctx).
		Table("episode").
		Select("episode.idEpisode AS id, episode.c00 AS title, tvshow.c00 AS show_title").
		Joins("JOIN tvshow ON tvshow.idShow = episode.idShow").
		Order("episode.idEpisode").
		Scan(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ResumeCandidate finds the episode behind the most recently played
// file of the show that has a positive-offset bookmark.
func (r *Repository) ResumeCandidate(ctx context.Context, showID int) (*Episode, error) {
	return first[Episode](r.session(ctx).
		Preload("File.Bookmarks").
		Joins("JOIN files ON files.idFile = episode.idFile").
		Where("episode.idShow = ?", showID).
		Where("EXISTS (SELECT 1 FROM bookmark WHERE bookmark.idFile = files.idFile AND bookmark.timeInSeconds > 0)").
		Order("files.lastPlayed DESC"))
}

// EarliestUnplayed returns the unplayed episode of the show with the
// smallest (season, episode) by integer order.
func (r *Repository) EarliestUnplayed(ctx context.Context, showID int) (*Episode, error) {
	return first[Episode](r.session(ctx).
		Preload("File.Bookmarks").
		Joins("JOIN files ON files.idFile = episode.idFile").
		Where("episode.idShow = ?", showID).
		Where("files.playCount IS NULL").
		Order("CAST(episode.c12 AS INTEGER) ASC, CAST(episode.c13 AS INTEGER) ASC"))
}

// LastPlayed returns the episode behind the show's most recently
// played file.
func (r *Repository) LastPlayed(ctx context.Context, showID int) (*Episode, error) {
	return first[Episode](r.session(ctx).
		Preload("File.Bookmarks").
		Joins("JOIN files ON files.idFile = episode.idFile").
		Where("episode.idShow = ?", showID).
		Order("files.lastPlayed DESC"))
}

// NextEpisode resolves what to play next for a show; see NextEpisode
// the function for the tier order.
func (r *Repository) NextEpisode(ctx context.Context, showID int) (*Episode, error) {
	return NextEpisode(ctx, r, showID, nil)
}

// EpisodeAfter resolves the episode following after, the queueing
// variant that skips the resume and unplayed tiers.
func (r *Repository) EpisodeAfter(ctx context.Context, after *Episode) (*Episode, error) {
	return NextEpisode(ctx, r, after.ShowID, after)
}

func (r *Repository) EpisodeByNumber(ctx context.Context, showID, season, episode int) (*Episode, error) {
	return first[Episode](r.session(ctx).
		Preload("File.Bookmarks").
		Where("idShow = ?", showID).
		Where("CAST(c12 AS INTEGER) = ?", season).
		Where("CAST(c13 AS INTEGER) = ?", episode))
}
