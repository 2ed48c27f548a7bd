package player

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/htpc-tools/kodivoice/internal/domain"
	"github.com/htpc-tools/kodivoice/internal/library"
)

type fakeLibrary struct {
	moviesByID      map[int]*library.Movie
	moviesByTitle   map[string]*library.Movie
	showsByID       map[int]*library.TvShow
	showsByTitle    map[string]*library.TvShow
	episodesByID    map[int]*library.Episode
	episodesByTitle map[string]*library.Episode

	nextForShow  map[int]*library.Episode
	afterEpisode map[int]*library.Episode

	titleQueries []string
}

func (f *fakeLibrary) MovieByID(_ context.Context, id int) (*library.Movie, error) {
	return f.moviesByID[id], nil
}

func (f *fakeLibrary) MovieByTitle(_ context.Context, title string) (*library.Movie, error) {
	f.titleQueries = append(f.titleQueries, "movie:"+title)
	return f.moviesByTitle[title], nil
}

func (f *fakeLibrary) MovieByIDAndTitle(_ context.Context, id int, title string) (*library.Movie, error) {
	movie := f.moviesByID[id]
	if movie == nil || movie.Title != title {
		return nil, nil
	}
	return movie, nil
}

func (f *fakeLibrary) ShowByID(_ context.Context, id int) (*library.TvShow, error) {
	return f.showsByID[id], nil
}

func (f *fakeLibrary) ShowByTitle(_ context.Context, title string) (*library.TvShow, error) {
	f.titleQueries = append(f.titleQueries, "tvshow:"+title)
	return f.showsByTitle[title], nil
}

func (f *fakeLibrary) ShowByIDAndTitle(_ context.Context, id int, title string) (*library.TvShow, error) {
	show := f.showsByID[id]
	if show == nil || show.Title != title {
		return nil, nil
	}
	return show, nil
}

func (f *fakeLibrary) EpisodeByID(_ context.Context, id int) (*library.Episode, error) {
	return f.episodesByID[id], nil
}

func (f *fakeLibrary) EpisodeByTitle(_ context.Context, title string) (*library.Episode, error) {
	f.titleQueries = append(f.titleQueries, "episode:"+title)
	return f.episodesByTitle[title], nil
}

func (f *fakeLibrary) EpisodeByIDAndTitle(_ context.Context, id int, title string) (*library.Episode, error) {
	episode := f.episodesByID[id]
	if episode == nil || episode.Title != title {
		return nil, nil
	}
	return episode, nil
}

func (f *fakeLibrary) NextEpisode(_ context.Context, showID int) (*library.Episode, error) {
	return f.nextForShow[showID], nil
}

func (f *fakeLibrary) EpisodeAfter(_ context.Context, after *library.Episode) (*library.Episode, error) {
	return f.afterEpisode[after.ID], nil
}

type fakeController struct {
	targets    []domain.PlayTarget
	fullscreen int
	mlbCalls   []struct {
		ListIndex int
		Home      bool
		Status    string
	}
}

func (f *fakeController) PlayVideo(_ context.Context, target domain.PlayTarget) error {
	f.targets = append(f.targets, target)
	return nil
}

func (f *fakeController) SetFullscreen(_ context.Context) error {
	f.fullscreen++
	return nil
}

func (f *fakeController) PlayMLB(_ context.Context, listIndex int, home bool, gameStatus string) error {
	f.mlbCalls = append(f.mlbCalls, struct {
		ListIndex int
		Home      bool
		Status    string
	}{listIndex, home, gameStatus})
	return nil
}

type fakeDesktop struct {
	brought int
}

func (f *fakeDesktop) BringToFront(_ context.Context) error {
	f.brought++
	return nil
}

type fakeBrowser struct {
	closed   int
	attempts int
	results  []bool
	err      error
	lastTeam string
}

func (f *fakeBrowser) PlayNBAGame(_ context.Context, _, _, team string) (bool, error) {
	f.lastTeam = team
	index := f.attempts
	f.attempts++
	if f.err != nil {
		return false, f.err
	}
	if index < len(f.results) {
		return f.results[index], nil
	}
	return true, nil
}

func (f *fakeBrowser) Close(_ context.Context) error {
	f.closed++
	return nil
}

type fakeSchedule struct {
	games []Game
	err   error
}

func (f *fakeSchedule) Games(_ context.Context) ([]Game, error) {
	return f.games, f.err
}

func intPtr(v int) *int { return &v }

func fileWithResume(seconds float64) *library.File {
	return &library.File{
		ID: 1,
		Bookmarks: []Bookmark{
			{Type: 0, TimeInSeconds: 12},
			{Type: 1, TimeInSeconds: seconds},
		},
	}
}

type Bookmark = library.Bookmark

func newTestDispatcher(lib *fakeLibrary) (*Dispatcher, *fakeController, *fakeDesktop, *fakeBrowser, *fakeSchedule) {
	controller := &fakeController{}
	desktop := &fakeDesktop{}
	browser := &fakeBrowser{}
	schedule := &fakeSchedule{}
	dispatcher := NewDispatcher(lib, controller, desktop, browser, schedule, Options{
		MLBTeam:     "Boston Red Sox",
		NBAUsername: "user",
		NBAPassword: "pass",
	})
	return dispatcher, controller, desktop, browser, schedule
}

func TestDispatchMovieByIDPlaysWithBookmarkResume(t *testing.T) {
	lib := &fakeLibrary{
		moviesByID: map[int]*library.Movie{
			12: {ID: 12, Title: "Blade Runner", FileID: intPtr(1), File: fileWithResume(541.5)},
		},
	}
	dispatcher, controller, desktop, browser, _ := newTestDispatcher(lib)

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "12",
		MediaType: "movie",
	})
	require.NoError(t, err)

	require.Equal(t, []domain.PlayTarget{{
		MediaIDs:      []int{12},
		Kind:          domain.MediaMovie,
		ResumeSeconds: 541.5,
	}}, controller.targets)
	require.Equal(t, 1, controller.fullscreen)
	require.Equal(t, 1, desktop.brought)
	require.Equal(t, 1, browser.closed)
}

func TestDispatchComboIDSplitsIntoIDAndType(t *testing.T) {
	lib := &fakeLibrary{
		episodesByID: map[int]*library.Episode{
			55: {ID: 55, ShowID: 3, SeasonNumber: "1", EpisodeNumber: "4"},
		},
	}
	dispatcher, controller, _, _, _ := newTestDispatcher(lib)

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaComboID: "55-episode",
	})
	require.NoError(t, err)
	require.Len(t, controller.targets, 1)
	require.Equal(t, []int{55}, controller.targets[0].MediaIDs)
	require.Equal(t, domain.MediaEpisode, controller.targets[0].Kind)
}

func TestDispatchShowDelegatesToContinuationResolver(t *testing.T) {
	lib := &fakeLibrary{
		showsByID: map[int]*library.TvShow{3: {ID: 3, Title: "The Office (US)"}},
		nextForShow: map[int]*library.Episode{
			3: {ID: 77, ShowID: 3, SeasonNumber: "2", EpisodeNumber: "5", File: fileWithResume(120)},
		},
	}
	dispatcher, controller, _, _, _ := newTestDispatcher(lib)

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "3",
		MediaType: "tvshow",
	})
	require.NoError(t, err)
	require.Equal(t, []int{77}, controller.targets[0].MediaIDs)
	require.Equal(t, domain.MediaEpisode, controller.targets[0].Kind)
	require.Equal(t, 120.0, controller.targets[0].ResumeSeconds)
}

func TestDispatchQueueNextAccumulatesEpisodes(t *testing.T) {
	lib := &fakeLibrary{
		episodesByID: map[int]*library.Episode{
			70: {ID: 70, ShowID: 3, SeasonNumber: "1", EpisodeNumber: "1"},
		},
		afterEpisode: map[int]*library.Episode{
			70: {ID: 71, ShowID: 3, SeasonNumber: "1", EpisodeNumber: "2"},
			71: {ID: 72, ShowID: 3, SeasonNumber: "1", EpisodeNumber: "3"},
		},
	}
	dispatcher, controller, _, _, _ := newTestDispatcher(lib)

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "70",
		MediaType: "episode",
		QueueNext: "2",
	})
	require.NoError(t, err)
	require.Equal(t, []int{70, 71, 72}, controller.targets[0].MediaIDs)
}

func TestDispatchQueueNextUnparseableDefaultsToOne(t *testing.T) {
	lib := &fakeLibrary{
		episodesByID: map[int]*library.Episode{
			70: {ID: 70, ShowID: 3, SeasonNumber: "1", EpisodeNumber: "1"},
		},
		afterEpisode: map[int]*library.Episode{
			70: {ID: 71, ShowID: 3, SeasonNumber: "1", EpisodeNumber: "2"},
		},
	}
	dispatcher, controller, _, _, _ := newTestDispatcher(lib)

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "70",
		MediaType: "episode",
		QueueNext: "a couple",
	})
	require.NoError(t, err)
	require.Equal(t, []int{70, 71}, controller.targets[0].MediaIDs)
}

func TestDispatchIDAloneFailsWithMissingInput(t *testing.T) {
	dispatcher, controller, _, _, _ := newTestDispatcher(&fakeLibrary{})

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{MediaID: "42"})

	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "missing_input", reqErr.Code)
	require.Equal(t, 400, reqErr.Status)
	require.Empty(t, controller.targets)
}

func TestDispatchUnresolvableTitleFailsWithNoMediaFound(t *testing.T) {
	dispatcher, _, _, _, _ := newTestDispatcher(&fakeLibrary{})

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaTitle: "No Such Title",
	})

	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "no_media_found", reqErr.Code)
}

func TestDispatchTitleAloneDeformatsPlaceholders(t *testing.T) {
	lib := &fakeLibrary{
		moviesByTitle: map[string]*library.Movie{
			"3:10 to Yuma": {ID: 9, Title: "3:10 to Yuma"},
		},
	}
	dispatcher, controller, _, _, _ := newTestDispatcher(lib)

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaTitle: "3__COLON__10__SPACE__to__SPACE__Yuma",
	})
	require.NoError(t, err)
	require.Equal(t, []int{9}, controller.targets[0].MediaIDs)
}

func TestDispatchLiteralNullIDIsTreatedAsAbsent(t *testing.T) {
	lib := &fakeLibrary{
		showsByTitle: map[string]*library.TvShow{"Severance": {ID: 4, Title: "Severance"}},
		nextForShow: map[int]*library.Episode{
			4: {ID: 90, ShowID: 4, SeasonNumber: "1", EpisodeNumber: "1"},
		},
	}
	dispatcher, controller, _, _, _ := newTestDispatcher(lib)

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:    "null",
		MediaTitle: "Severance",
	})
	require.NoError(t, err)
	require.Equal(t, []int{90}, controller.targets[0].MediaIDs)
}

func TestDispatchMLBPicksConfiguredTeamsGame(t *testing.T) {
	dispatcher, controller, desktop, browser, schedule := newTestDispatcher(&fakeLibrary{})
	schedule.games = []Game{
		{HomeName: "St. Louis Cardinals", AwayName: "Chicago Cubs", Status: "In Progress"},
		{HomeName: "Boston Red Sox", AwayName: "New York Yankees", Status: "In Progress"},
	}

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "bos",
		MediaType: "mlb",
	})
	require.NoError(t, err)
	require.Len(t, controller.mlbCalls, 1)
	require.Equal(t, 1, controller.mlbCalls[0].ListIndex)
	require.True(t, controller.mlbCalls[0].Home)
	require.Equal(t, "In Progress", controller.mlbCalls[0].Status)
	// The sports path still clears the screen first.
	require.Equal(t, 1, desktop.brought)
	require.Equal(t, 1, browser.closed)
}

func TestDispatchMLBEmptySlateIsANoOp(t *testing.T) {
	dispatcher, controller, _, _, _ := newTestDispatcher(&fakeLibrary{})

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "bos",
		MediaType: "mlb",
	})
	require.NoError(t, err)
	require.Empty(t, controller.mlbCalls)
}

func TestDispatchNBARetriesOnceThenSucceeds(t *testing.T) {
	dispatcher, _, desktop, browser, _ := newTestDispatcher(&fakeLibrary{})
	browser.results = []bool{false, true}

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "bos",
		MediaType: "nba",
	})
	require.NoError(t, err)
	require.Equal(t, 2, browser.attempts)
	require.Equal(t, "bos", browser.lastTeam)
	// NBA playback happens inside the browser; the media center window
	// stays where it is.
	require.Zero(t, desktop.brought)
	require.Zero(t, browser.closed)
}

func TestDispatchNBAFailureStillReportsSuccess(t *testing.T) {
	dispatcher, _, _, browser, _ := newTestDispatcher(&fakeLibrary{})
	browser.err = errors.New("login flow broke")

	err := dispatcher.Dispatch(context.Background(), domain.PlayRequest{
		MediaID:   "bos",
		MediaType: "nba",
	})
	require.NoError(t, err)
	require.Equal(t, 2, browser.attempts)
}

func TestDispatchMediaIDAcceptsJSONNumbers(t *testing.T) {
	lib := &fakeLibrary{
		moviesByID: map[int]*library.Movie{7: {ID: 7, Title: "Heat"}},
	}
	dispatcher, controller, _, _, _ := newTestDispatcher(lib)

	var req domain.PlayRequest
	require.NoError(t, json.Unmarshal([]byte(`{"mediaId": 7, "mediaType": "movie"}`), &req))

	err := dispatcher.Dispatch(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, []int{7}, controller.targets[0].MediaIDs)
}
