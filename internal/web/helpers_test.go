package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
	reviewstore "github.com/example/movie-catalog/internal/review/store"
	"github.com/example/movie-catalog/internal/search"
	viewerstore "github.com/example/movie-catalog/internal/viewer/store"
)

// setupReq builds a request with chi URL params in context.
func setupReq(method, url, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type fixture struct {
	movies   *catalogstore.InMemoryMovieStore
	activity *activitystore.InMemoryActivityStore
	reviews  *reviewstore.InMemoryReviewStore
	viewers  *viewerstore.InMemoryViewerStore
	search   *search.Service
}

func newFixture() *fixture {
	movies := catalogstore.NewInMemoryMovieStore()
	activity := activitystore.NewInMemoryActivityStore(movies)
	return &fixture{
		movies:   movies,
		activity: activity,
		reviews:  reviewstore.NewInMemoryReviewStore(),
		viewers:  viewerstore.NewInMemoryViewerStore(),
		search:   search.NewService(movies, activity, search.Options{}, nil),
	}
}

func (f *fixture) addMovie(t *testing.T, title string, genres []string, rating float64) catalogstore.Movie {
	t.Helper()
	m, err := f.movies.CreateMovie(context.Background(), catalogstore.Movie{
		ID:     uuid.NewString(),
		Title:  title,
		Genres: genres,
		Rating: rating,
	})
	if err != nil {
		t.Fatalf("create movie %q: %v", title, err)
	}
	return m
}

func (f *fixture) addViewer(t *testing.T, name, email string) viewerstore.Viewer {
	t.Helper()
	v, err := f.viewers.Create(context.Background(), viewerstore.Viewer{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	})
	if err != nil {
		t.Fatalf("create viewer %q: %v", name, err)
	}
	return v
}

func (f *fixture) watch(t *testing.T, viewerID, movieID string, durationMin int) {
	t.Helper()
	_, err := f.activity.Record(context.Background(), activitystore.WatchEvent{
		ViewerID:         viewerID,
		MovieID:          movieID,
		WatchDurationMin: durationMin,
	})
	if err != nil {
		t.Fatalf("record watch: %v", err)
	}
}
