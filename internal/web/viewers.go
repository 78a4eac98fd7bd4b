package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
	"github.com/example/movie-catalog/internal/platform/analytics"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/httpserver"
	reviewstore "github.com/example/movie-catalog/internal/review/store"
	viewerstore "github.com/example/movie-catalog/internal/viewer/store"
)

// ViewerRegistry is the slice of the viewer store the handlers need.
type ViewerRegistry interface {
	Create(ctx context.Context, v viewerstore.Viewer) (viewerstore.Viewer, error)
	GetByID(ctx context.Context, id string) (viewerstore.Viewer, error)
	List(ctx context.Context) ([]viewerstore.Viewer, error)
}

// WatchLog is the slice of the activity store the handlers need.
type WatchLog interface {
	Record(ctx context.Context, ev activitystore.WatchEvent) (activitystore.WatchEvent, error)
	ListByViewer(ctx context.Context, viewerID string, f activitystore.HistoryFilter) ([]activitystore.HistoryEntry, int, error)
	ViewerStats(ctx context.Context, viewerID string) (activitystore.ViewerStats, error)
}

// FavoriteGenreResolver resolves a viewer's dominant genre from history.
type FavoriteGenreResolver interface {
	FavoriteGenre(ctx context.Context, viewerID string) (string, error)
}

// MovieCounter covers the watch-count bump done when a watch is recorded.
type MovieCounter interface {
	GetMovie(ctx context.Context, id string) (catalogstore.Movie, error)
	IncrementWatchCount(ctx context.Context, id string) error
}

// ReviewUpserter covers the inline review attached to a watch event.
type ReviewUpserter interface {
	Upsert(ctx context.Context, rv reviewstore.Review) (reviewstore.Review, error)
}

type viewerJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Subscription string    `json:"subscription"`
	CreatedAt    time.Time `json:"created_at"`
}

func toViewerJSON(v viewerstore.Viewer) viewerJSON {
	return viewerJSON{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Subscription: v.Subscription,
		CreatedAt:    v.CreatedAt,
	}
}

// ListViewers returns every registered viewer.
func ListViewers(viewers ViewerRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		list, err := viewers.List(r.Context())
		if err != nil {
			api.Internal(w, rid)
			return
		}
		out := make([]viewerJSON, 0, len(list))
		for _, v := range list {
			out = append(out, toViewerJSON(v))
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"users": out})
	}
}

type createViewerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

// CreateViewer registers a viewer. Email must be unique; subscription
// defaults to free.
func CreateViewer(viewers ViewerRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req createViewerRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" {
			api.BadRequest(w, "MISSING_NAME", "name is required", rid, nil)
			return
		}
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			api.BadRequest(w, "INVALID_EMAIL", "a valid email is required", rid, nil)
			return
		}
		if req.Subscription == "" {
			req.Subscription = viewerstore.TierFree
		}
		if !viewerstore.ValidTier(req.Subscription) {
			api.BadRequest(w, "INVALID_SUBSCRIPTION", "subscription must be free, premium, or vip", rid, nil)
			return
		}

		v, err := viewers.Create(r.Context(), viewerstore.Viewer{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			Subscription: req.Subscription,
		})
		if err != nil {
			if errors.Is(err, viewerstore.ErrEmailTaken) {
				api.Conflict(w, "EMAIL_TAKEN", "Email already registered", rid, nil)
				return
			}
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusCreated, map[string]any{"user": toViewerJSON(v)})
	}
}

// GetViewer returns one viewer by id.
func GetViewer(viewers ViewerRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		id, ok := requireUUID(w, rid, "user id", chi.URLParam(r, "id"))
		if !ok {
			return
		}
		v, err := viewers.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, viewerstore.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "User not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"user": toViewerJSON(v)})
	}
}

type historyEntryJSON struct {
	ID                string    `json:"id"`
	Movie             movieJSON `json:"movie"`
	Timestamp         time.Time `json:"timestamp"`
	WatchDurationMin  int       `json:"watch_duration_min"`
	CompletionPercent int       `json:"completion_percent"`
}

type viewerHistoryResponse struct {
	History       []historyEntryJSON `json:"history"`
	Stats         historyStatsJSON   `json:"stats"`
	FavoriteGenre string             `json:"favorite_genre,omitempty"`
	Pagination    pagination         `json:"pagination"`
}

type historyStatsJSON struct {
	TotalMoviesWatched int `json:"total_movies_watched"`
	TotalWatchTimeMin  int `json:"total_watch_time_min"`
}

// ViewerHistory returns a viewer's watch history newest first, with full-log
// stats and the favorite-genre signal. The optional from/to query parameters
// bound the listing but not the stats.
func ViewerHistory(viewers ViewerRegistry, log WatchLog, genres FavoriteGenreResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		id, ok := requireUUID(w, rid, "user id", chi.URLParam(r, "id"))
		if !ok {
			return
		}
		if _, err := viewers.GetByID(r.Context(), id); err != nil {
			if errors.Is(err, viewerstore.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "User not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}

		filter := activitystore.HistoryFilter{}
		q := r.URL.Query()
		for _, p := range []struct {
			key string
			dst **time.Time
		}{
			{"from", &filter.Start},
			{"to", &filter.End},
		} {
			raw := strings.TrimSpace(q.Get(p.key))
			if raw == "" {
				continue
			}
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				api.BadRequest(w, "INVALID_DATE", p.key+" must be an RFC 3339 timestamp", rid, nil)
				return
			}
			*p.dst = &ts
		}

		page, limit := pageParams(r, 20)
		filter.Limit = limit
		filter.Offset = (page - 1) * limit

		entries, total, err := log.ListByViewer(r.Context(), id, filter)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		stats, err := log.ViewerStats(r.Context(), id)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		favorite, err := genres.FavoriteGenre(r.Context(), id)
		if err != nil {
			api.Internal(w, rid)
			return
		}

		out := make([]historyEntryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, historyEntryJSON{
				ID:                e.Event.ID,
				Movie:             toMovieJSON(e.Movie),
				Timestamp:         e.Event.Timestamp,
				WatchDurationMin:  e.Event.WatchDurationMin,
				CompletionPercent: e.Event.CompletionPercent,
			})
		}
		api.WriteJSON(w, http.StatusOK, viewerHistoryResponse{
			History: out,
			Stats: historyStatsJSON{
				TotalMoviesWatched: stats.TotalMoviesWatched,
				TotalWatchTimeMin:  stats.TotalWatchTimeMin,
			},
			FavoriteGenre: favorite,
			Pagination:    newPagination(page, limit, total),
		})
	}
}

// FavoriteGenre returns the viewer's favorite-genre signal on its own.
func FavoriteGenre(viewers ViewerRegistry, genres FavoriteGenreResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		id, ok := requireUUID(w, rid, "user id", chi.URLParam(r, "id"))
		if !ok {
			return
		}
		if _, err := viewers.GetByID(r.Context(), id); err != nil {
			if errors.Is(err, viewerstore.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "User not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		favorite, err := genres.FavoriteGenre(r.Context(), id)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"favorite_genre": favorite})
	}
}

type recordWatchRequest struct {
	MovieID           string `json:"movie_id"`
	WatchDurationMin  int    `json:"watch_duration_min"`
	CompletionPercent int    `json:"completion_percent"`
	Review            *struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	} `json:"review"`
}

type recordWatchResponse struct {
	Event  historyEntryJSON `json:"event"`
	Review *reviewJSON      `json:"review,omitempty"`
}

// RecordWatch appends a watch event for the viewer, bumps the movie's watch
// counter, and optionally upserts an inline review in the same request.
func RecordWatch(viewers ViewerRegistry, log WatchLog, movies MovieCounter, reviews ReviewUpserter, ap *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		viewerID, ok := requireUUID(w, rid, "user id", chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var req recordWatchRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		movieID, ok := requireUUID(w, rid, "movie_id", req.MovieID)
		if !ok {
			return
		}
		if req.WatchDurationMin < 0 {
			api.BadRequest(w, "INVALID_DURATION", "watch_duration_min must not be negative", rid, nil)
			return
		}
		if req.CompletionPercent < 0 || req.CompletionPercent > 100 {
			api.BadRequest(w, "INVALID_COMPLETION", "completion_percent must be between 0 and 100", rid, nil)
			return
		}
		if req.Review != nil {
			if req.Review.Rating < 1 || req.Review.Rating > 10 {
				api.BadRequest(w, "INVALID_RATING", "review rating must be between 1 and 10", rid, nil)
				return
			}
			if len(strings.TrimSpace(req.Review.Text)) > maxReviewTextLen {
				api.BadRequest(w, "TEXT_TOO_LONG", "review text must be at most 1000 characters", rid, nil)
				return
			}
		}

		if _, err := viewers.GetByID(r.Context(), viewerID); err != nil {
			if errors.Is(err, viewerstore.ErrNotFound) {
				api.NotFound(w, "USER_NOT_FOUND", "User not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		movie, err := movies.GetMovie(r.Context(), movieID)
		if err != nil {
			if errors.Is(err, catalogstore.ErrNotFound) {
				api.NotFound(w, "MOVIE_NOT_FOUND", "Movie not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}

		ev, err := log.Record(r.Context(), activitystore.WatchEvent{
			ID:                uuid.NewString(),
			ViewerID:          viewerID,
			MovieID:           movieID,
			Timestamp:         time.Now().UTC(),
			WatchDurationMin:  req.WatchDurationMin,
			CompletionPercent: req.CompletionPercent,
		})
		if err != nil {
			if errors.Is(err, activitystore.ErrNotFound) {
				api.NotFound(w, "MOVIE_NOT_FOUND", "Movie not found", rid)
				return
			}
			api.Internal(w, rid)
			return
		}
		if err := movies.IncrementWatchCount(r.Context(), movieID); err != nil && !errors.Is(err, catalogstore.ErrNotFound) {
			api.Internal(w, rid)
			return
		}

		resp := recordWatchResponse{Event: historyEntryJSON{
			ID:                ev.ID,
			Movie:             toMovieJSON(movie),
			Timestamp:         ev.Timestamp,
			WatchDurationMin:  ev.WatchDurationMin,
			CompletionPercent: ev.CompletionPercent,
		}}

		if req.Review != nil {
			rv, err := reviews.Upsert(r.Context(), reviewstore.Review{
				ID:       uuid.NewString(),
				ViewerID: viewerID,
				MovieID:  movieID,
				Rating:   req.Review.Rating,
				Text:     strings.TrimSpace(req.Review.Text),
			})
			if err != nil {
				api.Internal(w, rid)
				return
			}
			j := toReviewJSON(rv)
			resp.Review = &j
		}

		ap.Publish(analytics.SubjectWatchRecorded, "watch_recorded", viewerID, map[string]any{
			"movie_id":           movieID,
			"watch_duration_min": req.WatchDurationMin,
			"completion_percent": req.CompletionPercent,
		})
		api.WriteJSON(w, http.StatusCreated, resp)
	}
}
