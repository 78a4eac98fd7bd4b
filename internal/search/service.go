package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

// ErrEmptyQuery rejects a search before any scoring work begins.
var ErrEmptyQuery = errors.New("search query is required")

// CandidateSource is the slice of the catalog store the search service needs.
type CandidateSource interface {
	FindCandidates(ctx context.Context, f catalogstore.CandidateFilter, limit int) ([]catalogstore.Movie, error)
	MoviesByIDs(ctx context.Context, ids []string) ([]catalogstore.Movie, error)
}

// HistorySource is the slice of the activity store the search service needs.
type HistorySource interface {
	ViewerWatchGenres(ctx context.Context, viewerID string) ([]activitystore.WatchGenres, error)
	EventsSince(ctx context.Context, since time.Time) ([]activitystore.WindowEvent, error)
	WatchedMovieIDs(ctx context.Context, viewerID string) (map[string]struct{}, error)
}

// Options tunes the service. Zero values fall back to documented defaults.
type Options struct {
	Weights        Weights
	CandidateLimit int           // default 100
	TrendingWindow time.Duration // default 90 days
	TrendingTopN   int           // default 20
}

// Service implements the search, trending, and favorite-genre operations
// over the storage collaborators. All computation is request-local and
// recomputed from source data on every call; there is no caching layer.
type Service struct {
	movies  CandidateSource
	history HistorySource
	opts    Options
	log     *zap.Logger
}

func NewService(movies CandidateSource, history HistorySource, opts Options, log *zap.Logger) *Service {
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = 100
	}
	if opts.TrendingWindow <= 0 {
		opts.TrendingWindow = 90 * 24 * time.Hour
	}
	if opts.TrendingTopN <= 0 {
		opts.TrendingTopN = DefaultTrendingTopN
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{movies: movies, history: history, opts: opts, log: log}
}

// Filters narrows the candidate fetch.
type Filters struct {
	Genre     string
	MinRating float64
}

// SearchResult is the ranked outcome of one search request.
type SearchResult struct {
	Results       []ScoredMovie
	FavoriteGenre string // "" means no signal
	Personalized  bool
}

// TrendingResult is the outcome of one trending request.
type TrendingResult struct {
	Entries       []TrendingEntry
	FavoriteGenre string
	// FilteredOutWatched counts the viewer's watched movies that were
	// demoted (not removed) by the ranking, for UI messaging.
	FilteredOutWatched int
}

// Search fetches a bounded candidate set, scores it, and orders it with the
// tie-break ladder. A known viewer contributes a favorite-genre signal that
// outranks raw relevance.
func (s *Service) Search(ctx context.Context, query string, f Filters, viewerID string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, ErrEmptyQuery
	}

	favorite := ""
	if viewerID != "" {
		history, err := s.history.ViewerWatchGenres(ctx, viewerID)
		if err != nil {
			return SearchResult{}, fmt.Errorf("resolve favorite genre: %w", err)
		}
		favorite = FavoriteGenre(history)
	}

	candidates, err := s.movies.FindCandidates(ctx, catalogstore.CandidateFilter{
		TextMatch: query,
		Genre:     f.Genre,
		MinRating: f.MinRating,
	}, s.opts.CandidateLimit)
	if err != nil {
		return SearchResult{}, fmt.Errorf("fetch candidates: %w", err)
	}

	scored := make([]ScoredMovie, 0, len(candidates))
	for _, m := range candidates {
		scored = append(scored, ScoredMovie{Movie: m, Score: HybridScore(m, query, s.opts.Weights)})
	}
	Rank(scored, query, favorite)
	highlightMatches(scored, query)

	s.log.Debug("search ranked",
		zap.String("query", query),
		zap.Int("candidates", len(scored)),
		zap.String("favorite_genre", favorite))

	return SearchResult{
		Results:       scored,
		FavoriteGenre: favorite,
		Personalized:  viewerID != "",
	}, nil
}

// Trending builds the recency-windowed popularity ranking, re-weighted by
// the viewer's genre affinity and watched status.
func (s *Service) Trending(ctx context.Context, viewerID string) (TrendingResult, error) {
	favorite := ""
	watched := map[string]struct{}{}

	if viewerID != "" {
		history, err := s.history.ViewerWatchGenres(ctx, viewerID)
		if err != nil {
			return TrendingResult{}, fmt.Errorf("resolve favorite genre: %w", err)
		}
		favorite = FavoriteGenre(history)

		watched, err = s.history.WatchedMovieIDs(ctx, viewerID)
		if err != nil {
			return TrendingResult{}, fmt.Errorf("watched movie ids: %w", err)
		}
	}

	since := time.Now().UTC().Add(-s.opts.TrendingWindow)
	events, err := s.history.EventsSince(ctx, since)
	if err != nil {
		return TrendingResult{}, fmt.Errorf("window events: %w", err)
	}

	movies, err := s.moviesForEvents(ctx, events)
	if err != nil {
		return TrendingResult{}, err
	}

	entries := Trend(events, movies, favorite, watched, s.opts.TrendingTopN)
	return TrendingResult{
		Entries:            entries,
		FavoriteGenre:      favorite,
		FilteredOutWatched: len(watched),
	}, nil
}

// FavoriteGenre resolves the viewer's favorite-genre signal, "" when the
// viewer has no watch history.
func (s *Service) FavoriteGenre(ctx context.Context, viewerID string) (string, error) {
	history, err := s.history.ViewerWatchGenres(ctx, viewerID)
	if err != nil {
		return "", fmt.Errorf("resolve favorite genre: %w", err)
	}
	return FavoriteGenre(history), nil
}

func (s *Service) moviesForEvents(ctx context.Context, events []activitystore.WindowEvent) (map[string]catalogstore.Movie, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, ev := range events {
		if _, ok := seen[ev.MovieID]; ok {
			continue
		}
		seen[ev.MovieID] = struct{}{}
		ids = append(ids, ev.MovieID)
	}

	list, err := s.movies.MoviesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("join movies: %w", err)
	}
	out := make(map[string]catalogstore.Movie, len(list))
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

// highlightMatches fills presentation variants on fields that actually
// matched the query. Ranking is already done; this is cosmetic.
func highlightMatches(results []ScoredMovie, query string) {
	q := strings.ToLower(query)
	for i := range results {
		m := results[i].Movie
		if strings.Contains(strings.ToLower(m.Title), q) {
			results[i].TitleHighlighted = Highlight(m.Title, query)
		}
		if m.Director != "" && strings.Contains(strings.ToLower(m.Director), q) {
			results[i].DirectorHighlighted = Highlight(m.Director, query)
		}
		for _, c := range m.Cast {
			if strings.Contains(strings.ToLower(c.Name), q) {
				hc := make([]catalogstore.CastMember, len(m.Cast))
				for j, cm := range m.Cast {
					hc[j] = cm
					if strings.Contains(strings.ToLower(cm.Name), q) {
						hc[j].Name = Highlight(cm.Name, query)
					}
				}
				results[i].CastHighlighted = hc
				break
			}
		}
	}
}
