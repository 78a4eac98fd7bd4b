package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
	"github.com/example/movie-catalog/internal/platform/analytics"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/httpserver"
	reviewstore "github.com/example/movie-catalog/internal/review/store"
)

const maxReviewTextLen = 1000

// ReviewWriter is the slice of the review store the review handlers need.
type ReviewWriter interface {
	Create(ctx context.Context, rv reviewstore.Review) (reviewstore.Review, error)
	ListByMovie(ctx context.Context, movieID string, limit, offset int) ([]reviewstore.Review, int, error)
	StatsByMovie(ctx context.Context, movieID string) (reviewstore.Stats, error)
	MarkHelpful(ctx context.Context, reviewID string) (reviewstore.Review, error)
}

// MovieChecker verifies a movie exists before attaching a review to it.
type MovieChecker interface {
	GetMovie(ctx context.Context, id string) (catalogstore.Movie, error)
}

type reviewJSON struct {
	ID         string    `json:"id"`
	ViewerID   string    `json:"viewer_id"`
	ViewerName string    `json:"viewer_name,omitempty"`
	MovieID    string    `json:"movie_id"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text,omitempty"`
	Helpful    int       `json:"helpful"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReviewJSON(rv reviewstore.Review) reviewJSON {
	return reviewJSON{
		ID:         rv.ID,
		ViewerID:   rv.ViewerID,
		ViewerName: rv.ViewerName,
		MovieID:    rv.MovieID,
		Rating:     rv.Rating,
		Text:       rv.Text,
		Helpful:    rv.Helpful,
		CreatedAt:  rv.CreatedAt,
	}
}

type reviewStatsJSON struct {
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	Distribution  map[int]int `json:"distribution"`
}

func toReviewStatsJSON(s reviewstore.Stats) reviewStatsJSON {
	if s.Distribution == nil {
		s.Distribution = map[int]int{}
	}
	return reviewStatsJSON{
		AverageRating: s.AverageRating,
		TotalReviews:  s.TotalReviews,
		Distribution:  s.Distribution,
	}
}

type listReviewsResponse struct {
	Reviews    []reviewJSON `json:"reviews"`
	Pagination pagination   `json:"pagination"`
}

// ListReviews returns one movie's reviews, most helpful first.
func ListReviews(reviews ReviewWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		movieID, ok := requireUUID(w, rid, "movie id", chi.URLParam(r, "id"))
		if !ok {
			return
		}
		page, limit := pageParams(r, 20)

		list, total, err := reviews.ListByMovie(r.Context(), movieID, limit, (page-1)*limit)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		out := make([]reviewJSON, 0, len(list))
		for _, rv := range list {
			out = append(out, toReviewJSON(rv))
		}
		api.WriteJSON(w, http.StatusOK, listReviewsResponse{
			Reviews:    out,
			Pagination: newPagination(page, limit, total),
		})
	}
}

type createReviewRequest struct {
	ViewerID string `json:"viewer_id"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
}

// CreateReview attaches a new review to a movie. A second review from the
// same viewer for the same movie is rejected with a conflict.
func CreateReview(reviews ReviewWriter, movies MovieChecker, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		movieID, ok := requireUUID(w, rid, "movie id", chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var req createReviewRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		viewerID, ok := requireUUID(w, rid, "viewer_id", req.ViewerID)
		if !ok {
			return
		}
		if req.Rating < 1 || req.Rating > 10 {
			api.BadRequest(w, "INVALID_RATING", "rating must be between 1 and 10", rid, nil)
			return
		}
		req.Text = strings.TrimSpace(req.Text)
		if len(req.Text) > maxReviewTextLen {
			api.BadRequest(w, "TEXT_TOO_LONG", "review text must be at most 1000 characters", rid, nil)
			return
		}

		if _, err := movies.GetMovie(r.Context(), movieID); err != nil {
			if errors.Is(err, catalogstore.ErrNotFound) {
				api.NotFound(w, "MOVIE_NOT_FOUND", "Movie not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}

		rv, err := reviews.Create(r.Context(), reviewstore.Review{
			ID:       uuid.NewString(),
			ViewerID: viewerID,
			MovieID:  movieID,
			Rating:   req.Rating,
			Text:     req.Text,
		})
		if err != nil {
			switch {
			case errors.Is(err, reviewstore.ErrAlreadyReviewed):
				api.Conflict(w, "ALREADY_REVIEWED", "Viewer has already reviewed this movie", rid, nil)
			case errors.Is(err, reviewstore.ErrNotFound):
				api.NotFound(w, "VIEWER_NOT_FOUND", "Viewer not found", rid)
			default:
				api.Internal(w, rid)
			}
			return
		}

		ap.Publish(analytics.SubjectReviewCreated, "review_created", viewerID, map[string]any{
			"movie_id": movieID,
			"rating":   req.Rating,
		})
		api.WriteJSON(w, http.StatusCreated, map[string]any{"review": toReviewJSON(rv)})
	}
}

// ReviewStats returns the aggregate figures for one movie's reviews.
func ReviewStats(reviews ReviewWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		movieID, ok := requireUUID(w, rid, "movie id", chi.URLParam(r, "id"))
		if !ok {
			return
		}
		stats, err := reviews.StatsByMovie(r.Context(), movieID)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"stats": toReviewStatsJSON(stats)})
	}
}

// MarkReviewHelpful bumps a review's helpful counter.
func MarkReviewHelpful(reviews ReviewWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		reviewID, ok := requireUUID(w, rid, "review id", chi.URLParam(r, "reviewID"))
		if !ok {
			return
		}
		rv, err := reviews.MarkHelpful(r.Context(), reviewID)
		if err != nil {
			if errors.Is(err, reviewstore.ErrNotFound) {
				api.NotFound(w, "REVIEW_NOT_FOUND", "Review not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"review": toReviewJSON(rv)})
	}
}
