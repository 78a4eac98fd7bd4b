package search

import (
	"testing"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

func eventN(movieID, viewerID string, duration int) activitystore.WindowEvent {
	return activitystore.WindowEvent{MovieID: movieID, ViewerID: viewerID, WatchDurationMin: duration}
}

func movieMap(movies ...catalogstore.Movie) map[string]catalogstore.Movie {
	out := make(map[string]catalogstore.Movie, len(movies))
	for _, m := range movies {
		out[m.ID] = m
	}
	return out
}

func TestTrend_GroupsAndCounts(t *testing.T) {
	events := []activitystore.WindowEvent{
		eventN("m1", "v1", 120),
		eventN("m1", "v2", 90),
		eventN("m1", "v1", 110),
		eventN("m2", "v3", 80),
	}
	movies := movieMap(
		catalogstore.Movie{ID: "m1", Title: "First"},
		catalogstore.Movie{ID: "m2", Title: "Second"},
	)

	entries := Trend(events, movies, "", nil, 20)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	top := entries[0]
	if top.MovieID != "m1" || top.WatchCount != 3 {
		t.Fatalf("expected m1 with 3 watches first, got %+v", top)
	}
	if top.UniqueViewers != 2 {
		t.Fatalf("expected 2 unique viewers, got %d", top.UniqueViewers)
	}
	// (120+90+110)/3 ≈ 107
	if top.AvgWatchTime != 107 {
		t.Fatalf("expected avg watch time 107, got %d", top.AvgWatchTime)
	}
}

func TestTrend_GenreMatchBeatsWatchCount(t *testing.T) {
	// Spec scenario: one unwatched Horror movie with 10 watches vs one
	// watched Action movie with 500 watches; Horror affinity wins outright.
	var events []activitystore.WindowEvent
	for i := 0; i < 10; i++ {
		events = append(events, eventN("horror", "v", 100))
	}
	for i := 0; i < 500; i++ {
		events = append(events, eventN("action", "v", 100))
	}
	movies := movieMap(
		catalogstore.Movie{ID: "horror", Title: "Quiet Basement", Genres: []string{"Horror"}},
		catalogstore.Movie{ID: "action", Title: "Loud Street", Genres: []string{"Action"}},
	)
	watched := map[string]struct{}{"action": {}}

	entries := Trend(events, movies, "Horror", watched, 20)
	if entries[0].MovieID != "horror" {
		t.Fatalf("expected genre-matched movie first, got %s", entries[0].MovieID)
	}
	if entries[0].GenreMatch != 1 || entries[1].GenreMatch != 0 {
		t.Fatalf("unexpected genre match flags: %+v", entries)
	}
}

func TestTrend_UnwatchedDemotionLaw(t *testing.T) {
	// Equal genre match and equal watch count: unwatched ranks first.
	events := []activitystore.WindowEvent{
		eventN("seen", "v1", 60),
		eventN("fresh", "v2", 60),
	}
	movies := movieMap(
		catalogstore.Movie{ID: "seen", Title: "Seen It"},
		catalogstore.Movie{ID: "fresh", Title: "Fresh One"},
	)
	watched := map[string]struct{}{"seen": {}}

	entries := Trend(events, movies, "", watched, 20)
	if entries[0].MovieID != "fresh" {
		t.Fatalf("expected unwatched movie first, got %s", entries[0].MovieID)
	}
	// Demotion, not removal: the watched movie stays in the result.
	if len(entries) != 2 || entries[1].MovieID != "seen" {
		t.Fatalf("watched movie must remain in results, got %+v", entries)
	}
}

func TestTrend_Truncates(t *testing.T) {
	var events []activitystore.WindowEvent
	movies := make(map[string]catalogstore.Movie)
	for i := 0; i < 30; i++ {
		id := string(rune('a' + i))
		events = append(events, eventN(id, "v", 10))
		movies[id] = catalogstore.Movie{ID: id, Title: id}
	}

	entries := Trend(events, movies, "", nil, 20)
	if len(entries) != 20 {
		t.Fatalf("expected truncation to 20, got %d", len(entries))
	}
}

func TestTrend_DropsEventsWithoutMovie(t *testing.T) {
	events := []activitystore.WindowEvent{eventN("ghost", "v", 10)}
	entries := Trend(events, map[string]catalogstore.Movie{}, "", nil, 20)
	if len(entries) != 0 {
		t.Fatalf("expected inner-join semantics to drop unknown movies, got %+v", entries)
	}
}

func TestTrend_EmptyWindow(t *testing.T) {
	entries := Trend(nil, nil, "Horror", nil, 20)
	if len(entries) != 0 {
		t.Fatalf("expected empty ordered list, got %d entries", len(entries))
	}
}
