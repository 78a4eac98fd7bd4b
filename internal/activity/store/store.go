package store

import (
	"context"
	"errors"
	"time"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

// ErrNotFound is returned when a viewer or event id resolves to nothing.
var ErrNotFound = errors.New("not found")

// WatchEvent is one entry in the append-only viewing log. Events are never
// mutated or deleted after creation.
type WatchEvent struct {
	ID                string
	ViewerID          string
	MovieID           string
	Timestamp         time.Time
	WatchDurationMin  int // minutes, >= 0
	CompletionPercent int // 0-100
}

// HistoryEntry is a watch event joined with its movie for history listings.
type HistoryEntry struct {
	Event WatchEvent
	Movie catalogstore.Movie
}

// HistoryFilter pages and narrows a viewer's history listing.
type HistoryFilter struct {
	Start  *time.Time
	End    *time.Time
	Limit  int
	Offset int
}

// WatchGenres is one watch event's movie genre list, used by the
// favorite-genre aggregation. Rows are ordered by event timestamp.
type WatchGenres struct {
	MovieID string
	Genres  []string
}

// WindowEvent is the projection of a watch event consumed by the trending
// aggregation: movie, viewer, and duration only.
type WindowEvent struct {
	MovieID          string
	ViewerID         string
	WatchDurationMin int
}

// ViewerStats summarizes a viewer's full history.
type ViewerStats struct {
	TotalMoviesWatched int
	TotalWatchTimeMin  int
}

// ActivityStore defines persistence operations for the watch-event log.
type ActivityStore interface {
	// Record appends a watch event and returns it with id and timestamp set.
	Record(ctx context.Context, ev WatchEvent) (WatchEvent, error)
	// ListByViewer returns a page of history entries, newest first, plus the
	// total count for the filter.
	ListByViewer(ctx context.Context, viewerID string, f HistoryFilter) ([]HistoryEntry, int, error)
	// ViewerWatchGenres returns one row per watch event for the viewer,
	// oldest first, each carrying the watched movie's genre list.
	ViewerWatchGenres(ctx context.Context, viewerID string) ([]WatchGenres, error)
	// EventsSince returns all watch events with timestamp >= since, in a
	// deterministic (timestamp, id) order.
	EventsSince(ctx context.Context, since time.Time) ([]WindowEvent, error)
	// WatchedMovieIDs returns the set of movie ids the viewer has ever watched.
	WatchedMovieIDs(ctx context.Context, viewerID string) (map[string]struct{}, error)
	ViewerStats(ctx context.Context, viewerID string) (ViewerStats, error)
}
