package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// InMemoryMovieStore is a MovieStore for tests and local development.
type InMemoryMovieStore struct {
	mu     sync.RWMutex
	order  []string
	movies map[string]Movie
}

func NewInMemoryMovieStore() *InMemoryMovieStore {
	return &InMemoryMovieStore{movies: make(map[string]Movie)}
}

func (s *InMemoryMovieStore) FindCandidates(_ context.Context, f CandidateFilter, limit int) ([]Movie, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(f.TextMatch))
	var out []Movie
	for _, id := range s.order {
		m := s.movies[id]
		if !matchesText(m, term) {
			continue
		}
		if !matchesGenre(m, f.Genre) {
			continue
		}
		if f.MinRating > 0 && m.Rating < f.MinRating {
			continue
		}
		out = append(out, m)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryMovieStore) GetMovie(_ context.Context, id string) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	return m, nil
}

func (s *InMemoryMovieStore) MoviesByIDs(_ context.Context, ids []string) ([]Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Movie
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *InMemoryMovieStore) ListMovies(_ context.Context, f ListFilter) ([]Movie, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []Movie
	for _, id := range s.order {
		m := s.movies[id]
		if !matchesGenre(m, f.Genre) {
			continue
		}
		if f.MinRating > 0 && m.Rating < f.MinRating {
			continue
		}
		all = append(all, m)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Rating != all[j].Rating {
			return all[i].Rating > all[j].Rating
		}
		return all[i].WatchCount > all[j].WatchCount
	})

	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

func (s *InMemoryMovieStore) CreateMovie(_ context.Context, m Movie) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, exists := s.movies[m.ID]; !exists {
		s.order = append(s.order, m.ID)
	}
	s.movies[m.ID] = m
	return m, nil
}

func (s *InMemoryMovieStore) IncrementWatchCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return ErrNotFound
	}
	m.WatchCount++
	s.movies[id] = m
	return nil
}

func matchesText(m Movie, term string) bool {
	if term == "" {
		return false
	}
	if strings.Contains(strings.ToLower(m.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Director), term) {
		return true
	}
	for _, c := range m.Cast {
		if strings.Contains(strings.ToLower(c.Name), term) {
			return true
		}
	}
	return false
}

func matchesGenre(m Movie, genre string) bool {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "" {
		return true
	}
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), genre) {
			return true
		}
	}
	return false
}
