package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	activitystore "github.com/example/movie-catalog/internal/activity/store"
	catalogstore "github.com/example/movie-catalog/internal/catalog/store"
	"github.com/example/movie-catalog/internal/platform/analytics"
	reviewstore "github.com/example/movie-catalog/internal/review/store"
	viewerstore "github.com/example/movie-catalog/internal/viewer/store"
)

// SearchService combines the search operations the routes expose.
type SearchService interface {
	Searcher
	FavoriteGenreResolver
}

// Deps carries every collaborator the HTTP surface needs.
type Deps struct {
	Movies    catalogstore.MovieStore
	Activity  activitystore.ActivityStore
	Reviews   reviewstore.ReviewStore
	Viewers   viewerstore.ViewerStore
	Search    SearchService
	Analytics *analytics.Publisher
	// RateLimit, when set, throttles the /api surface. Health endpoints
	// registered elsewhere stay unthrottled.
	RateLimit func(http.Handler) http.Handler
}

// Register mounts the public API under /api.
func Register(r chi.Router, d Deps) {
	r.Route("/api", func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", ListMovies(d.Movies))
			r.Post("/", CreateMovie(d.Movies))
			r.Get("/search", SearchMovies(d.Search, d.Analytics))
			r.Get("/trending", TrendingMovies(d.Search))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", GetMovie(d.Movies, d.Reviews, d.Analytics))
				r.Get("/reviews", ListReviews(d.Reviews))
				r.Post("/reviews", CreateReview(d.Reviews, d.Movies, d.Analytics))
				r.Get("/reviews/stats", ReviewStats(d.Reviews))
			})
		})
		r.Patch("/reviews/{reviewID}/helpful", MarkReviewHelpful(d.Reviews))
		r.Route("/users", func(r chi.Router) {
			r.Get("/", ListViewers(d.Viewers))
			r.Post("/", CreateViewer(d.Viewers))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", GetViewer(d.Viewers))
				r.Get("/history", ViewerHistory(d.Viewers, d.Activity, d.Search))
				r.Get("/favorite-genre", FavoriteGenre(d.Viewers, d.Search))
				r.Post("/watch", RecordWatch(d.Viewers, d.Activity, d.Movies, d.Reviews, d.Analytics))
			})
		})
	})
}
