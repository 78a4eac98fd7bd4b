package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryViewerStore is a ViewerStore for tests and local development.
type InMemoryViewerStore struct {
	mu      sync.RWMutex
	order   []string
	viewers map[string]Viewer
}

func NewInMemoryViewerStore() *InMemoryViewerStore {
	return &InMemoryViewerStore{viewers: make(map[string]Viewer)}
}

func (s *InMemoryViewerStore) Create(_ context.Context, v Viewer) (Viewer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	for _, existing := range s.viewers {
		if existing.Email == v.Email {
			return Viewer{}, ErrEmailTaken
		}
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Subscription == "" {
		v.Subscription = TierFree
	}
	v.CreatedAt = time.Now().UTC()
	s.order = append(s.order, v.ID)
	s.viewers[v.ID] = v
	return v, nil
}

func (s *InMemoryViewerStore) GetByID(_ context.Context, id string) (Viewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.viewers[id]
	if !ok {
		return Viewer{}, ErrNotFound
	}
	return v, nil
}

func (s *InMemoryViewerStore) List(_ context.Context) ([]Viewer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Viewer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.viewers[id])
	}
	return out, nil
}
