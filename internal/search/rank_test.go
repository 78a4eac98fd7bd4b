package search

import (
	"testing"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

func scoredFor(movies []catalogstore.Movie, query string) []ScoredMovie {
	out := make([]ScoredMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, ScoredMovie{Movie: m, Score: HybridScore(m, query, DefaultWeights())})
	}
	return out
}

func titlesOf(list []ScoredMovie) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Movie.Title
	}
	return out
}

func TestRank_FavoriteGenreBeatsEqualScore(t *testing.T) {
	// Identical scoring inputs; only the genre differs.
	a := catalogstore.Movie{ID: "a", Title: "Dark Tide", Genres: []string{"Action"}, Rating: 7, WatchCount: 100}
	b := catalogstore.Movie{ID: "b", Title: "Dark Wave", Genres: []string{"Horror"}, Rating: 7, WatchCount: 100}

	list := scoredFor([]catalogstore.Movie{a, b}, "dark")
	Rank(list, "dark", "Horror")

	if list[0].Movie.ID != "b" {
		t.Fatalf("expected favorite-genre movie first, got %v", titlesOf(list))
	}
}

func TestRank_FavoriteGenreRequiresExactListMembership(t *testing.T) {
	a := catalogstore.Movie{ID: "a", Title: "Dark Tide", Genres: []string{"Horror Comedy"}, Rating: 7}
	b := catalogstore.Movie{ID: "b", Title: "Dark Wave", Genres: []string{"Horror"}, Rating: 7}

	list := scoredFor([]catalogstore.Movie{a, b}, "dark")
	Rank(list, "dark", "Horror")

	if list[0].Movie.ID != "b" {
		t.Fatal("genre predicate must require the exact label in the genre list")
	}
}

func TestRank_TitleStartsBeforeContains(t *testing.T) {
	contains := catalogstore.Movie{ID: "c", Title: "The Dark Knight", Rating: 9, WatchCount: 3200}
	starts := catalogstore.Movie{ID: "s", Title: "Dark Waters", Rating: 6.5, WatchCount: 100}

	list := scoredFor([]catalogstore.Movie{contains, starts}, "dark")
	Rank(list, "dark", "")

	// Prefix tier outranks containment even though the containing movie has
	// the higher hybrid score.
	if list[0].Movie.ID != "s" {
		t.Fatalf("expected starts-with title first, got %v", titlesOf(list))
	}
}

func TestRank_DirectorTier(t *testing.T) {
	byDirector := catalogstore.Movie{ID: "d", Title: "Memento", Director: "Dark Smith", Rating: 5}
	byScore := catalogstore.Movie{ID: "x", Title: "Unrelated", Rating: 10, WatchCount: 1000}

	list := scoredFor([]catalogstore.Movie{byScore, byDirector}, "dark")
	Rank(list, "dark", "")

	if list[0].Movie.ID != "d" {
		t.Fatalf("expected director-substring match first, got %v", titlesOf(list))
	}
}

func TestRank_FallsThroughToFinalScore(t *testing.T) {
	low := catalogstore.Movie{ID: "low", Title: "Dark Alpha", Rating: 5, WatchCount: 0}
	high := catalogstore.Movie{ID: "high", Title: "Dark Omega", Rating: 9, WatchCount: 900}

	list := scoredFor([]catalogstore.Movie{low, high}, "dark")
	Rank(list, "dark", "")

	if list[0].Movie.ID != "high" {
		t.Fatalf("expected higher final score first on tied tiers, got %v", titlesOf(list))
	}
}

func TestRank_StableOnFullyTiedInput(t *testing.T) {
	// Same title, rating, popularity: tied through all seven tiers.
	mk := func(id string) catalogstore.Movie {
		return catalogstore.Movie{ID: id, Title: "Dark Mirror", Rating: 7, WatchCount: 50}
	}
	list := scoredFor([]catalogstore.Movie{mk("1"), mk("2"), mk("3")}, "dark")
	Rank(list, "dark", "")

	for i, want := range []string{"1", "2", "3"} {
		if list[i].Movie.ID != want {
			t.Fatalf("tied elements reordered: position %d = %s", i, list[i].Movie.ID)
		}
	}

	// Re-running on the already-sorted slice must not reorder anything.
	Rank(list, "dark", "")
	for i, want := range []string{"1", "2", "3"} {
		if list[i].Movie.ID != want {
			t.Fatalf("second pass reordered tied elements: position %d = %s", i, list[i].Movie.ID)
		}
	}
}

func TestRank_FavoriteGenrePlusPrefixIsTopTier(t *testing.T) {
	prefixOnly := catalogstore.Movie{ID: "p", Title: "Dark Alpha", Genres: []string{"Action"}, Rating: 10, WatchCount: 1000}
	favAndPrefix := catalogstore.Movie{ID: "fp", Title: "Dark Beta", Genres: []string{"Horror"}, Rating: 1}
	favOnly := catalogstore.Movie{ID: "f", Title: "Umbra", Genres: []string{"Horror"}, Rating: 8, Director: "Darko Jones"}

	list := scoredFor([]catalogstore.Movie{prefixOnly, favOnly, favAndPrefix}, "dark")
	Rank(list, "dark", "Horror")

	want := []string{"fp", "f", "p"}
	for i, id := range want {
		if list[i].Movie.ID != id {
			t.Fatalf("expected order %v, got %v", want, titlesOf(list))
		}
	}
}

func TestRank_EndToEndDarkScenario(t *testing.T) {
	movies := []catalogstore.Movie{
		{ID: "tdk", Title: "The Dark Knight", Rating: 9.0, WatchCount: 3200},
		{ID: "dw", Title: "Dark Waters", Rating: 6.5, WatchCount: 100},
		{ID: "lh", Title: "Light House", Rating: 7.0, WatchCount: 50},
	}
	list := scoredFor(movies, "dark")
	Rank(list, "dark", "")

	// Both "Dark" titles must outrank "Light House", whose text score is 0.
	if list[2].Movie.ID != "lh" {
		t.Fatalf("expected Light House last, got %v", titlesOf(list))
	}
	if list[2].Score.Text != 0 {
		t.Fatalf("expected zero text score for Light House, got %.4f", list[2].Score.Text)
	}
	// Dark Waters wins the prefix tier over The Dark Knight.
	if list[0].Movie.ID != "dw" || list[1].Movie.ID != "tdk" {
		t.Fatalf("unexpected order %v", titlesOf(list))
	}
}
