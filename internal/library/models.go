// Package library reads the media center's video database. The schema
// is owned by the media center; column names follow its cNN convention
// and everything here is strictly read-only.
package library

// Movie is a row of the movie table. Season-less feature content.
type Movie struct {
	ID     int    `gorm:"column:idMovie;primaryKey"`
	FileID *int   `gorm:"column:idFile"`
	Title  string `gorm:"column:c00"`

	File *File `gorm:"foreignKey:FileID;references:ID"`
}

func (Movie) TableName() string { return "movie" }

type TvShow struct {
	ID    int    `gorm:"column:idShow;primaryKey"`
	Title string `gorm:"column:c00"`
}

func (TvShow) TableName() string { return "tvshow" }

// Episode keeps its season and episode numbers as text columns. They
// are always numeric strings; ordering must go through an integer cast.
type Episode struct {
	ID            int    `gorm:"column:idEpisode;primaryKey"`
	FileID        *int   `gorm:"column:idFile"`
	Title         string `gorm:"column:c00"`
	SeasonNumber  string `gorm:"column:c12"`
	EpisodeNumber string `gorm:"column:c13"`
	ShowID        int    `gorm:"column:idShow"`

	File *File `gorm:"foreignKey:FileID;references:ID"`
}

func (Episode) TableName() string { return "episode" }

// File is the playback-state record shared by movies and episodes. A
// null PlayCount means never played.
type File struct {
	ID         int     `gorm:"column:idFile;primaryKey"`
	PlayCount  *int    `gorm:"column:playCount"`
	LastPlayed *string `gorm:"column:lastPlayed"`

	Bookmarks []Bookmark `gorm:"foreignKey:FileID;references:ID"`
}

func (File) TableName() string { return "files" }

// Bookmark type 1 is the resume point; other types are chapter and
// similar markers.
type Bookmark struct {
	ID            int     `gorm:"column:idBookmark;primaryKey"`
	FileID        *int    `gorm:"column:idFile"`
	TimeInSeconds float64 `gorm:"column:timeInSeconds"`
	Type          int     `gorm:"column:type"`
}

func (Bookmark) TableName() string { return "bookmark" }

const resumeBookmarkType = 1

// ResumeSeconds returns the resume-point offset recorded against the
// file, or zero when none exists.
func (f *File) ResumeSeconds() float64 {
	if f == nil {
		return 0
	}
	var resume float64
	for _, bookmark := range f.Bookmarks {
		if bookmark.Type == resumeBookmarkType {
			resume = bookmark.TimeInSeconds
		}
	}
	return resume
}

// EpisodeSlot is a flattened episode row carrying its show title, used
// for spoken-slot generation.
type EpisodeSlot struct {
	ID        int
	Title     string
	ShowTitle string
}
