package store

import (
	"context"
	"testing"
	"time"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

func newActivityFixture(t *testing.T) (*InMemoryActivityStore, *catalogstore.InMemoryMovieStore) {
	t.Helper()
	movies := catalogstore.NewInMemoryMovieStore()
	ctx := context.Background()
	for _, m := range []catalogstore.Movie{
		{ID: "m1", Title: "First", Genres: []string{"Drama"}},
		{ID: "m2", Title: "Second", Genres: []string{"Horror"}},
	} {
		if _, err := movies.CreateMovie(ctx, m); err != nil {
			t.Fatalf("create movie: %v", err)
		}
	}
	return NewInMemoryActivityStore(movies), movies
}

func record(t *testing.T, s *InMemoryActivityStore, viewerID, movieID string, ts time.Time, dur int) WatchEvent {
	t.Helper()
	ev, err := s.Record(context.Background(), WatchEvent{
		ViewerID:         viewerID,
		MovieID:          movieID,
		Timestamp:        ts,
		WatchDurationMin: dur,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return ev
}

func TestInMemoryActivityStore_ListByViewer(t *testing.T) {
	s, _ := newActivityFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	record(t, s, "v1", "m1", base, 90)
	record(t, s, "v1", "m2", base.Add(24*time.Hour), 30)
	record(t, s, "v2", "m1", base, 10)

	out, total, err := s.ListByViewer(ctx, "v1", HistoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(out) != 2 {
		t.Fatalf("expected 2 entries, got total=%d len=%d", total, len(out))
	}
	if out[0].Event.MovieID != "m2" {
		t.Fatalf("expected newest first, got %q", out[0].Event.MovieID)
	}
	if out[0].Movie.Title != "Second" {
		t.Fatalf("expected joined movie, got %+v", out[0].Movie)
	}

	// Date bounds narrow the listing.
	start := base.Add(12 * time.Hour)
	out, total, _ = s.ListByViewer(ctx, "v1", HistoryFilter{Start: &start})
	if total != 1 || out[0].Event.MovieID != "m2" {
		t.Fatalf("expected only the later event, got %+v", out)
	}
}

func TestInMemoryActivityStore_GenresAndWatched(t *testing.T) {
	s, _ := newActivityFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	record(t, s, "v1", "m1", base, 90)
	record(t, s, "v1", "m2", base.Add(time.Hour), 60)
	record(t, s, "v1", "m1", base.Add(2*time.Hour), 45)

	genres, err := s.ViewerWatchGenres(ctx, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(genres) != 3 {
		t.Fatalf("expected one row per event, got %d", len(genres))
	}
	if genres[0].Genres[0] != "Drama" || genres[1].Genres[0] != "Horror" {
		t.Fatalf("expected event-order rows, got %+v", genres)
	}

	watched, err := s.WatchedMovieIDs(ctx, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(watched) != 2 {
		t.Fatalf("expected distinct movie set of 2, got %d", len(watched))
	}

	stats, err := s.ViewerStats(ctx, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalMoviesWatched != 3 || stats.TotalWatchTimeMin != 195 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestInMemoryActivityStore_EventsSince(t *testing.T) {
	s, _ := newActivityFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	record(t, s, "v1", "m1", base.Add(-48*time.Hour), 90)
	record(t, s, "v2", "m2", base, 60)

	out, err := s.EventsSince(ctx, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].MovieID != "m2" {
		t.Fatalf("expected only the in-window event, got %+v", out)
	}
}
