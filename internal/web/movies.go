package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
	"github.com/example/movie-catalog/internal/platform/analytics"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/httpserver"
	reviewstore "github.com/example/movie-catalog/internal/review/store"
)

// MovieReader is the slice of the catalog store the movie handlers need.
type MovieReader interface {
	GetMovie(ctx context.Context, id string) (catalogstore.Movie, error)
	ListMovies(ctx context.Context, f catalogstore.ListFilter) ([]catalogstore.Movie, int, error)
	CreateMovie(ctx context.Context, m catalogstore.Movie) (catalogstore.Movie, error)
}

// ReviewStatsSource supplies aggregate review figures for the detail view.
type ReviewStatsSource interface {
	StatsByMovie(ctx context.Context, movieID string) (reviewstore.Stats, error)
}

type movieJSON struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	ReleaseYear int32                     `json:"release_year,omitempty"`
	Genres      []string                  `json:"genres"`
	Cast        []catalogstore.CastMember `json:"cast,omitempty"`
	Director    string                    `json:"director,omitempty"`
	Rating      float64                   `json:"rating"`
	PosterURL   string                    `json:"poster_url,omitempty"`
	Description string                    `json:"description,omitempty"`
	WatchCount  int64                     `json:"watch_count"`
}

func toMovieJSON(m catalogstore.Movie) movieJSON {
	return movieJSON{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		Genres:      m.Genres,
		Cast:        m.Cast,
		Director:    m.Director,
		Rating:      m.Rating,
		PosterURL:   m.PosterURL,
		Description: m.Description,
		WatchCount:  m.WatchCount,
	}
}

type listMoviesResponse struct {
	Movies     []movieJSON `json:"movies"`
	Pagination pagination  `json:"pagination"`
}

// ListMovies returns a catalog page ordered by rating, then popularity.
func ListMovies(movies MovieReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		page, limit := pageParams(r, 20)

		minRating, ok := parseFloat(r.URL.Query().Get("min_rating"), 0)
		if !ok || minRating < 0 || minRating > 10 {
			api.BadRequest(w, "INVALID_MIN_RATING", "min_rating must be between 0 and 10", rid, nil)
			return
		}

		list, total, err := movies.ListMovies(r.Context(), catalogstore.ListFilter{
			Genre:     r.URL.Query().Get("genre"),
			MinRating: minRating,
			Limit:     limit,
			Offset:    (page - 1) * limit,
		})
		if err != nil {
			api.Internal(w, rid)
			return
		}

		out := make([]movieJSON, 0, len(list))
		for _, m := range list {
			out = append(out, toMovieJSON(m))
		}
		api.WriteJSON(w, http.StatusOK, listMoviesResponse{
			Movies:     out,
			Pagination: newPagination(page, limit, total),
		})
	}
}

type createMovieRequest struct {
	Title       string                    `json:"title"`
	ReleaseYear int32                     `json:"release_year"`
	Genres      []string                  `json:"genres"`
	Cast        []catalogstore.CastMember `json:"cast"`
	Director    string                    `json:"director"`
	Rating      float64                   `json:"rating"`
	PosterURL   string                    `json:"poster_url"`
	Description string                    `json:"description"`
}

// CreateMovie adds a movie to the catalog.
func CreateMovie(movies MovieReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req createMovieRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			api.BadRequest(w, "MISSING_TITLE", "title is required", rid, nil)
			return
		}
		if req.Rating < 0 || req.Rating > 10 {
			api.BadRequest(w, "INVALID_RATING", "rating must be between 0 and 10", rid, nil)
			return
		}
		if req.Genres == nil {
			req.Genres = []string{}
		}

		m, err := movies.CreateMovie(r.Context(), catalogstore.Movie{
			ID:          uuid.NewString(),
			Title:       req.Title,
			ReleaseYear: req.ReleaseYear,
			Genres:      req.Genres,
			Cast:        req.Cast,
			Director:    strings.TrimSpace(req.Director),
			Rating:      req.Rating,
			PosterURL:   req.PosterURL,
			Description: req.Description,
		})
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusCreated, map[string]any{"movie": toMovieJSON(m)})
	}
}

type movieDetailResponse struct {
	Movie       movieJSON       `json:"movie"`
	ReviewStats reviewStatsJSON `json:"review_stats"`
}

// GetMovie returns one movie with its aggregate review figures.
func GetMovie(movies MovieReader, reviews ReviewStatsSource, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		id, ok := requireUUID(w, rid, "movie id", chi.URLParam(r, "id"))
		if !ok {
			return
		}

		m, err := movies.GetMovie(r.Context(), id)
		if err != nil {
			if errors.Is(err, catalogstore.ErrNotFound) {
				api.NotFound(w, "MOVIE_NOT_FOUND", "Movie not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}

		stats, err := reviews.StatsByMovie(r.Context(), id)
		if err != nil {
			api.Internal(w, rid)
			return
		}

		ap.Publish(analytics.SubjectMovieViewed, "movie_viewed", "", map[string]any{"movie_id": id})
		api.WriteJSON(w, http.StatusOK, movieDetailResponse{
			Movie:       toMovieJSON(m),
			ReviewStats: toReviewStatsJSON(stats),
		})
	}
}
