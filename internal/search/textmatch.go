package search

import (
	"strings"
	"unicode/utf8"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

// Field score bands. Title and cast matches scale with how much of the field
// the query covers; genre matches are flat.
const (
	titleBandBase  = 0.9
	titleBandSpan  = 0.1
	castBandBase   = 0.7
	castBandSpan   = 0.3
	genreBandScore = 0.6
)

// TextScore computes the movie's overall text-match strength in [0,1]:
// the maximum of the title, director, cast, and genre field scores
// (best field wins, scores are not summed).
//
// Title, cast, and genre use strict substring containment only, with no
// fuzzy fallback for them. Director matching alone uses a
// bigram Dice similarity, so it yields a continuous score even without
// containment.
func TextScore(m catalogstore.Movie, query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	best := titleScore(m.Title, q)

	if m.Director != "" {
		if s := diceSimilarity(q, strings.ToLower(m.Director)); s > best {
			best = s
		}
	}
	for _, c := range m.Cast {
		if s := castScore(c.Name, q); s > best {
			best = s
		}
	}
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), q) && genreBandScore > best {
			best = genreBandScore
		}
	}
	return best
}

func titleScore(title, q string) float64 {
	t := strings.ToLower(title)
	if t == "" || !strings.Contains(t, q) {
		return 0
	}
	return titleBandBase + coverage(q, t)*titleBandSpan
}

func castScore(name, q string) float64 {
	n := strings.ToLower(name)
	if n == "" || !strings.Contains(n, q) {
		return 0
	}
	return castBandBase + coverage(q, n)*castBandSpan
}

// coverage is the fraction of the field the query spans.
func coverage(q, field string) float64 {
	return float64(utf8.RuneCountInString(q)) / float64(utf8.RuneCountInString(field))
}

// diceSimilarity is the Sørensen–Dice coefficient over character bigrams.
// Whitespace is stripped before pairing; identical strings score 1 and
// strings shorter than two characters score 0 unless equal.
func diceSimilarity(a, b string) float64 {
	a = stripSpace(a)
	b = stripSpace(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[string(ra[i:i+2])]++
	}

	intersection := 0
	for i := 0; i < len(rb)-1; i++ {
		key := string(rb[i : i+2])
		if bigrams[key] > 0 {
			bigrams[key]--
			intersection++
		}
	}
	return 2 * float64(intersection) / float64(len(ra)+len(rb)-2)
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
