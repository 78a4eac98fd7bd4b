package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
	"github.com/example/movie-catalog/internal/platform/analytics"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/httpserver"
	"github.com/example/movie-catalog/internal/search"
)

// Searcher is the slice of the search service the handlers need.
type Searcher interface {
	Search(ctx context.Context, query string, f search.Filters, viewerID string) (search.SearchResult, error)
	Trending(ctx context.Context, viewerID string) (search.TrendingResult, error)
}

type searchResultJSON struct {
	Movie               movieJSON                 `json:"movie"`
	Score               search.Breakdown          `json:"score"`
	TitleHighlighted    string                    `json:"title_highlighted,omitempty"`
	DirectorHighlighted string                    `json:"director_highlighted,omitempty"`
	CastHighlighted     []catalogstore.CastMember `json:"cast_highlighted,omitempty"`
}

type searchResponse struct {
	Results       []searchResultJSON `json:"results"`
	Query         string             `json:"query"`
	FavoriteGenre string             `json:"favorite_genre,omitempty"`
	Personalized  bool               `json:"personalized"`
	Pagination    pagination         `json:"pagination"`
}

// SearchMovies runs the hybrid-scored, ladder-ranked search and pages the
// ranked list in memory. Ranking happens over the full candidate set, so a
// later page continues the same ordering.
func SearchMovies(svc Searcher, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		q := r.URL.Query()

		query := strings.TrimSpace(q.Get("q"))
		if query == "" {
			api.BadRequest(w, "MISSING_QUERY", "Search query is required", rid, nil)
			return
		}

		minRating, ok := parseFloat(q.Get("min_rating"), 0)
		if !ok || minRating < 0 || minRating > 10 {
			api.BadRequest(w, "INVALID_MIN_RATING", "min_rating must be between 0 and 10", rid, nil)
			return
		}

		viewerID := q.Get("viewer_id")
		if viewerID != "" {
			var ok bool
			if viewerID, ok = requireUUID(w, rid, "viewer_id", viewerID); !ok {
				return
			}
		}

		res, err := svc.Search(r.Context(), query, search.Filters{
			Genre:     q.Get("genre"),
			MinRating: minRating,
		}, viewerID)
		if err != nil {
			if errors.Is(err, search.ErrEmptyQuery) {
				api.BadRequest(w, "MISSING_QUERY", "Search query is required", rid, nil)
				return
			}
			api.Internal(w, rid)
			return
		}

		page, limit := pageParams(r, 20)
		total := len(res.Results)
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}

		out := make([]searchResultJSON, 0, end-start)
		for _, sm := range res.Results[start:end] {
			out = append(out, searchResultJSON{
				Movie:               toMovieJSON(sm.Movie),
				Score:               sm.Score,
				TitleHighlighted:    sm.TitleHighlighted,
				DirectorHighlighted: sm.DirectorHighlighted,
				CastHighlighted:     sm.CastHighlighted,
			})
		}

		ap.Publish(analytics.SubjectSearchPerformed, "search_performed", viewerID, map[string]any{
			"query":        query,
			"result_count": total,
			"personalized": res.Personalized,
		})

		api.WriteJSON(w, http.StatusOK, searchResponse{
			Results:       out,
			Query:         query,
			FavoriteGenre: res.FavoriteGenre,
			Personalized:  res.Personalized,
			Pagination:    newPagination(page, limit, total),
		})
	}
}

type trendingResponse struct {
	Trending           []search.TrendingEntry `json:"trending"`
	FavoriteGenre      string                 `json:"favorite_genre,omitempty"`
	FilteredOutWatched int                    `json:"filtered_out_watched"`
}

// TrendingMovies returns the windowed popularity ranking, personalized when a
// viewer_id query parameter is present.
func TrendingMovies(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		viewerID := r.URL.Query().Get("viewer_id")
		if viewerID != "" {
			var ok bool
			if viewerID, ok = requireUUID(w, rid, "viewer_id", viewerID); !ok {
				return
			}
		}

		res, err := svc.Trending(r.Context(), viewerID)
		if err != nil {
			api.Internal(w, rid)
			return
		}

		entries := res.Entries
		if entries == nil {
			entries = []search.TrendingEntry{}
		}
		api.WriteJSON(w, http.StatusOK, trendingResponse{
			Trending:           entries,
			FavoriteGenre:      res.FavoriteGenre,
			FilteredOutWatched: res.FilteredOutWatched,
		})
	}
}
