package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryReviewStore is a ReviewStore for tests and local development.
type InMemoryReviewStore struct {
	mu      sync.RWMutex
	reviews []Review
}

func NewInMemoryReviewStore() *InMemoryReviewStore {
	return &InMemoryReviewStore{}
}

func (s *InMemoryReviewStore) Create(_ context.Context, r Review) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reviews {
		if existing.ViewerID == r.ViewerID && existing.MovieID == r.MovieID {
			return Review{}, ErrAlreadyReviewed
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Helpful = 0
	r.CreatedAt = time.Now().UTC()
	s.reviews = append(s.reviews, r)
	return r, nil
}

func (s *InMemoryReviewStore) Upsert(_ context.Context, r Review) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.reviews {
		if existing.ViewerID == r.ViewerID && existing.MovieID == r.MovieID {
			s.reviews[i].Rating = r.Rating
			if r.Text != "" {
				s.reviews[i].Text = r.Text
			}
			return s.reviews[i], nil
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Helpful = 0
	r.CreatedAt = time.Now().UTC()
	s.reviews = append(s.reviews, r)
	return r, nil
}

func (s *InMemoryReviewStore) ListByMovie(_ context.Context, movieID string, limit, offset int) ([]Review, int, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Review
	for _, r := range s.reviews {
		if r.MovieID == movieID {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Helpful != matched[j].Helpful {
			return matched[i].Helpful > matched[j].Helpful
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *InMemoryReviewStore) StatsByMovie(_ context.Context, movieID string) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Distribution: make(map[int]int)}
	sum := 0
	for _, r := range s.reviews {
		if r.MovieID != movieID {
			continue
		}
		st.TotalReviews++
		st.Distribution[r.Rating]++
		sum += r.Rating
	}
	if st.TotalReviews > 0 {
		st.AverageRating = float64(sum) / float64(st.TotalReviews)
	}
	return st, nil
}

func (s *InMemoryReviewStore) MarkHelpful(_ context.Context, reviewID string) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reviews {
		if r.ID == reviewID {
			s.reviews[i].Helpful++
			return s.reviews[i], nil
		}
	}
	return Review{}, ErrNotFound
}
