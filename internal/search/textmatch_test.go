package search

import (
	"math"
	"testing"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

func TestTextScore_TitleContainment(t *testing.T) {
	m := catalogstore.Movie{Title: "The Dark Knight"}

	got := TextScore(m, "dark")
	want := 0.9 + 0.1*(4.0/15.0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %.6f, got %.6f", want, got)
	}
	if got < 0.9 {
		t.Fatalf("contained title match must score >= 0.9, got %.4f", got)
	}
}

func TestTextScore_ExactTitleIsOne(t *testing.T) {
	m := catalogstore.Movie{Title: "Heat"}
	got := TextScore(m, "Heat")
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected 1.0 for full-title match, got %.6f", got)
	}
}

func TestTextScore_NoFuzzyFallbackForTitle(t *testing.T) {
	// A near-miss title must score zero: title matching is strict substring only.
	m := catalogstore.Movie{Title: "Inception"}
	if got := TextScore(m, "incepcion"); got != 0 {
		t.Fatalf("expected 0 for non-contained title, got %.6f", got)
	}
}

func TestTextScore_CastBand(t *testing.T) {
	m := catalogstore.Movie{
		Title: "Heat",
		Cast:  []catalogstore.CastMember{{Name: "Al Pacino", Role: "Actor"}},
	}
	got := TextScore(m, "pacino")
	want := 0.7 + 0.3*(6.0/9.0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %.6f, got %.6f", want, got)
	}
}

func TestTextScore_GenreFlatBand(t *testing.T) {
	m := catalogstore.Movie{Title: "Alien", Genres: []string{"Horror", "Sci-Fi"}}
	if got := TextScore(m, "horror"); got != 0.6 {
		t.Fatalf("expected flat 0.6 genre score, got %.6f", got)
	}
}

func TestTextScore_DirectorFuzzy(t *testing.T) {
	// Director matching is the one fuzzy field: bigram Dice similarity
	// produces a continuous score even without containment.
	m := catalogstore.Movie{Title: "Memento", Director: "Christopher Nolan"}
	got := TextScore(m, "nolan")
	// "nolan" (4 bigrams) vs "christophernolan" (15 bigrams), 4 shared.
	want := 2 * 4.0 / (4.0 + 15.0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %.6f, got %.6f", want, got)
	}
	if got <= 0 {
		t.Fatal("director fuzzy score should be positive without containment")
	}
}

func TestTextScore_ZeroWhenNothingMatches(t *testing.T) {
	m := catalogstore.Movie{
		Title:  "Light House",
		Genres: []string{"Drama"},
		Cast:   []catalogstore.CastMember{{Name: "Jane Doe"}},
	}
	if got := TextScore(m, "xqzv"); got != 0 {
		t.Fatalf("expected 0 with no field match and no director, got %.6f", got)
	}
}

func TestTextScore_BestFieldWins(t *testing.T) {
	// "Horror" appears in both title and genre; best field wins, not the sum.
	m := catalogstore.Movie{Title: "Horror", Genres: []string{"Horror"}}
	got := TextScore(m, "horror")
	if math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("expected title band 1.0 to win over genre 0.6, got %.6f", got)
	}
}

func TestDiceSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"night", "nacht", 2 * 1.0 / 8.0},
		{"same", "same", 1},
		{"", "", 0},
		{"a", "ab", 0},
		{"french", "quebec", 0},
	}
	for _, tc := range cases {
		got := diceSimilarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("diceSimilarity(%q,%q): expected %.4f, got %.4f", tc.a, tc.b, tc.want, got)
		}
	}
}
