package search

import (
	"strings"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
)

// FavoriteGenre derives a viewer's favorite genre from their watch history:
// every watched movie's genre list counts once per watch event, and the
// genre with the highest total wins. Ties go to the genre that reached the
// maximum first, scanning events oldest-first and each genre list in
// declared order, which keeps the result deterministic for a fixed history.
//
// An empty history yields "": no signal, not an error.
func FavoriteGenre(history []activitystore.WatchGenres) string {
	counts := make(map[string]int)
	best := ""
	bestCount := 0

	for _, row := range history {
		for _, g := range row.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			counts[g]++
			if counts[g] > bestCount {
				bestCount = counts[g]
				best = g
			}
		}
	}
	return best
}
