package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

// MovieLookup resolves movies for history joins. The catalog's in-memory
// store satisfies it.
type MovieLookup interface {
	GetMovie(ctx context.Context, id string) (catalogstore.Movie, error)
}

// InMemoryActivityStore is an ActivityStore for tests and local development.
// Events are kept in append order.
type InMemoryActivityStore struct {
	mu     sync.RWMutex
	events []WatchEvent
	movies MovieLookup
}

func NewInMemoryActivityStore(movies MovieLookup) *InMemoryActivityStore {
	return &InMemoryActivityStore{movies: movies}
}

func (s *InMemoryActivityStore) Record(_ context.Context, ev WatchEvent) (WatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	s.events = append(s.events, ev)
	return ev, nil
}

func (s *InMemoryActivityStore) ListByViewer(ctx context.Context, viewerID string, f HistoryFilter) ([]HistoryEntry, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first.
	var matched []WatchEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if ev.ViewerID != viewerID {
			continue
		}
		if f.Start != nil && ev.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil && ev.Timestamp.After(*f.End) {
			continue
		}
		matched = append(matched, ev)
	}

	total := len(matched)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}

	var out []HistoryEntry
	for _, ev := range matched[f.Offset:end] {
		m, err := s.movies.GetMovie(ctx, ev.MovieID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, HistoryEntry{Event: ev, Movie: m})
	}
	return out, total, nil
}

func (s *InMemoryActivityStore) ViewerWatchGenres(ctx context.Context, viewerID string) ([]WatchGenres, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []WatchGenres
	for _, ev := range s.events {
		if ev.ViewerID != viewerID {
			continue
		}
		m, err := s.movies.GetMovie(ctx, ev.MovieID)
		if err != nil {
			return nil, err
		}
		out = append(out, WatchGenres{MovieID: ev.MovieID, Genres: m.Genres})
	}
	return out, nil
}

func (s *InMemoryActivityStore) EventsSince(_ context.Context, since time.Time) ([]WindowEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []WindowEvent
	for _, ev := range s.events {
		if ev.Timestamp.Before(since) {
			continue
		}
		out = append(out, WindowEvent{MovieID: ev.MovieID, ViewerID: ev.ViewerID, WatchDurationMin: ev.WatchDurationMin})
	}
	return out, nil
}

func (s *InMemoryActivityStore) WatchedMovieIDs(_ context.Context, viewerID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{})
	for _, ev := range s.events {
		if ev.ViewerID == viewerID {
			out[ev.MovieID] = struct{}{}
		}
	}
	return out, nil
}

func (s *InMemoryActivityStore) ViewerStats(_ context.Context, viewerID string) (ViewerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st ViewerStats
	for _, ev := range s.events {
		if ev.ViewerID == viewerID {
			st.TotalMoviesWatched++
			st.TotalWatchTimeMin += ev.WatchDurationMin
		}
	}
	return st, nil
}
