package search

import (
	"sort"
	"strings"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
)

// ScoredMovie is a candidate carrying its hybrid score and, after
// highlighting, presentation variants of the matched fields. It lives only
// for the duration of one search request.
type ScoredMovie struct {
	Movie catalogstore.Movie
	Score Breakdown

	TitleHighlighted    string
	DirectorHighlighted string
	CastHighlighted     []catalogstore.CastMember
}

// rankKey is the per-candidate tuple the comparator ladder orders by.
// Tiers are evaluated left to right; the first inequality decides.
type rankKey struct {
	favGenreAndTitleStarts   bool
	favGenreAndTitleContains bool
	favGenre                 bool
	titleStarts              bool
	titleContains            bool
	directorContains         bool
}

func (k rankKey) tiers() [6]bool {
	return [6]bool{
		k.favGenreAndTitleStarts,
		k.favGenreAndTitleContains,
		k.favGenre,
		k.titleStarts,
		k.titleContains,
		k.directorContains,
	}
}

func makeRankKey(m catalogstore.Movie, queryLower, favoriteGenre string) rankKey {
	title := strings.ToLower(m.Title)
	fav := favoriteGenre != "" && containsGenre(m.Genres, favoriteGenre)
	starts := strings.HasPrefix(title, queryLower)
	contains := strings.Contains(title, queryLower)

	return rankKey{
		favGenreAndTitleStarts:   fav && starts,
		favGenreAndTitleContains: fav && contains,
		favGenre:                 fav,
		titleStarts:              starts,
		titleContains:            contains && !starts,
		directorContains:         m.Director != "" && strings.Contains(strings.ToLower(m.Director), queryLower),
	}
}

func containsGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Rank orders candidates in place with a stable sort over the tie-break
// ladder: favorite genre combined with title prefix, favorite genre combined
// with title containment, favorite genre alone, title prefix, title
// containment, director containment, and finally descending hybrid score.
// Candidates equal through every tier keep their relative input order.
func Rank(candidates []ScoredMovie, query, favoriteGenre string) {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	keys := make([]rankKey, len(candidates))
	for i, c := range candidates {
		keys[i] = makeRankKey(c.Movie, queryLower, favoriteGenre)
	}

	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := keys[idx[a]].tiers(), keys[idx[b]].tiers()
		for t := range ta {
			if ta[t] != tb[t] {
				return ta[t]
			}
		}
		return candidates[idx[a]].Score.Final > candidates[idx[b]].Score.Final
	})

	ordered := make([]ScoredMovie, len(candidates))
	for i, j := range idx {
		ordered[i] = candidates[j]
	}
	copy(candidates, ordered)
}
