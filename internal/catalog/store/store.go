package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a movie id resolves to nothing.
var ErrNotFound = errors.New("movie not found")

// CastMember is one credited cast entry.
type CastMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Movie is the internal catalog representation of a movie.
type Movie struct {
	ID          string
	Title       string
	ReleaseYear int32
	Genres      []string
	Cast        []CastMember
	Director    string
	Rating      float64 // 0-10
	PosterURL   string
	Description string
	WatchCount  int64
}

// CandidateFilter is the broad pre-ranking existence filter: the text term
// must match title, director, or any cast name; genre and minimum rating
// optionally narrow the set.
type CandidateFilter struct {
	TextMatch string
	Genre     string
	MinRating float64 // <= 0 disables
}

// ListFilter narrows and pages the plain catalog listing.
type ListFilter struct {
	Genre     string
	MinRating float64
	Limit     int
	Offset    int
}

// MovieStore defines all persistence operations for the movie catalog.
type MovieStore interface {
	// FindCandidates returns up to limit movies matching the broad filter.
	// Order is unspecified; ranking happens in memory afterwards.
	FindCandidates(ctx context.Context, f CandidateFilter, limit int) ([]Movie, error)
	GetMovie(ctx context.Context, id string) (Movie, error)
	MoviesByIDs(ctx context.Context, ids []string) ([]Movie, error)
	// ListMovies returns a page ordered by rating desc, watch count desc,
	// plus the total count for the filter.
	ListMovies(ctx context.Context, f ListFilter) ([]Movie, int, error)
	CreateMovie(ctx context.Context, m Movie) (Movie, error)
	// IncrementWatchCount bumps the popularity counter after a watch event.
	IncrementWatchCount(ctx context.Context, id string) error
}
