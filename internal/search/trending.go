package search

import (
	"math"
	"sort"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

// DefaultTrendingTopN bounds the trending list returned to callers.
const DefaultTrendingTopN = 20

// TrendingEntry is one row of the trending ranking.
type TrendingEntry struct {
	MovieID         string   `json:"movie_id"`
	Title           string   `json:"title"`
	PosterURL       string   `json:"poster_url,omitempty"`
	Rating          float64  `json:"rating"`
	Genres          []string `json:"genres"`
	ReleaseYear     int32    `json:"release_year,omitempty"`
	WatchCount      int      `json:"watch_count"`
	UniqueViewers   int      `json:"unique_viewers"`
	AvgWatchTime    int      `json:"avg_watch_time"`
	GenreMatch      int      `json:"genre_match"`
	WatchedByViewer bool     `json:"watched_by_viewer"`
}

// movieGroup is the grouped form of one movie's window events.
type movieGroup struct {
	movieID       string
	watchCount    int
	totalDuration int
	viewers       map[string]struct{}
}

// Trend runs the trending pipeline over an already window-filtered event
// slice: group by movie, join movie records, annotate genre affinity and
// watched status, sort, truncate. Watched movies are demoted below unwatched
// ones at equal genre-match tier, never removed.
//
// Each stage is a pure in-memory transform so the pipeline tests without a
// live store.
func Trend(events []activitystore.WindowEvent, movies map[string]catalogstore.Movie,
	favoriteGenre string, watched map[string]struct{}, topN int) []TrendingEntry {
	if topN <= 0 {
		topN = DefaultTrendingTopN
	}

	groups := groupByMovie(events)
	entries := annotate(groups, movies, favoriteGenre, watched)
	sortTrending(entries)

	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// groupByMovie aggregates events per movie, preserving first-seen movie
// order so downstream ties are deterministic.
func groupByMovie(events []activitystore.WindowEvent) []movieGroup {
	index := make(map[string]int)
	var groups []movieGroup

	for _, ev := range events {
		i, ok := index[ev.MovieID]
		if !ok {
			i = len(groups)
			index[ev.MovieID] = i
			groups = append(groups, movieGroup{movieID: ev.MovieID, viewers: make(map[string]struct{})})
		}
		groups[i].watchCount++
		groups[i].totalDuration += ev.WatchDurationMin
		groups[i].viewers[ev.ViewerID] = struct{}{}
	}
	return groups
}

// annotate joins groups to their movie records and computes genre affinity
// and watched status. Groups whose movie is missing from the join are
// dropped, mirroring an inner join.
func annotate(groups []movieGroup, movies map[string]catalogstore.Movie,
	favoriteGenre string, watched map[string]struct{}) []TrendingEntry {
	var out []TrendingEntry
	for _, g := range groups {
		m, ok := movies[g.movieID]
		if !ok {
			continue
		}

		genreMatch := 0
		if favoriteGenre != "" && containsGenre(m.Genres, favoriteGenre) {
			genreMatch = 1
		}
		_, isWatched := watched[g.movieID]

		avg := 0
		if g.watchCount > 0 {
			avg = int(math.Round(float64(g.totalDuration) / float64(g.watchCount)))
		}

		out = append(out, TrendingEntry{
			MovieID:         g.movieID,
			Title:           m.Title,
			PosterURL:       m.PosterURL,
			Rating:          m.Rating,
			Genres:          m.Genres,
			ReleaseYear:     m.ReleaseYear,
			WatchCount:      g.watchCount,
			UniqueViewers:   len(g.viewers),
			AvgWatchTime:    avg,
			GenreMatch:      genreMatch,
			WatchedByViewer: isWatched,
		})
	}
	return out
}

// sortTrending orders by genre match desc, unwatched first, watch count desc.
// The sort is stable, so entries tied on all three keys keep group order.
func sortTrending(entries []TrendingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.GenreMatch != b.GenreMatch {
			return a.GenreMatch > b.GenreMatch
		}
		if a.WatchedByViewer != b.WatchedByViewer {
			return !a.WatchedByViewer
		}
		return a.WatchCount > b.WatchCount
	})
}
