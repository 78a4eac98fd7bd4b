package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestListMovies(t *testing.T) {
	f := newFixture()
	f.addMovie(t, "Low", []string{"Drama"}, 5.0)
	f.addMovie(t, "High", []string{"Action"}, 9.0)
	f.addMovie(t, "Mid", []string{"Drama"}, 7.0)

	handler := ListMovies(f.movies)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/api/movies", "", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp listMoviesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(resp.Movies))
	}
	if resp.Movies[0].Title != "High" || resp.Movies[2].Title != "Low" {
		t.Fatalf("expected rating-desc order, got %q..%q", resp.Movies[0].Title, resp.Movies[2].Title)
	}
	if resp.Pagination.Total != 3 {
		t.Fatalf("expected total 3, got %d", resp.Pagination.Total)
	}
}

func TestListMovies_GenreFilter(t *testing.T) {
	f := newFixture()
	f.addMovie(t, "Drama One", []string{"Drama"}, 7.0)
	f.addMovie(t, "Action One", []string{"Action"}, 8.0)

	handler := ListMovies(f.movies)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodGet, "/api/movies?genre=Drama", "", nil))

	var resp listMoviesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Movies) != 1 || resp.Movies[0].Title != "Drama One" {
		t.Fatalf("expected only Drama One, got %+v", resp.Movies)
	}
}

func TestListMovies_InvalidMinRating(t *testing.T) {
	f := newFixture()
	handler := ListMovies(f.movies)

	for _, raw := range []string{"11", "-1", "abc"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, setupReq(http.MethodGet, "/api/movies?min_rating="+raw, "", nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("min_rating=%q: expected 400, got %d", raw, rr.Code)
		}
	}
}

func TestCreateMovie(t *testing.T) {
	f := newFixture()
	handler := CreateMovie(f.movies)

	body := `{"title":"Inception","release_year":2010,"genres":["Sci-Fi"],"director":"Christopher Nolan","rating":8.8}`
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodPost, "/api/movies", body, nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Movie movieJSON `json:"movie"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Movie.ID == "" || resp.Movie.Title != "Inception" {
		t.Fatalf("unexpected movie: %+v", resp.Movie)
	}
}

func TestCreateMovie_MissingTitle(t *testing.T) {
	f := newFixture()
	handler := CreateMovie(f.movies)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, setupReq(http.MethodPost, "/api/movies", `{"rating":5}`, nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetMovie(t *testing.T) {
	f := newFixture()
	m := f.addMovie(t, "The Matrix", []string{"Sci-Fi"}, 8.7)
	v := f.addViewer(t, "Neo", "neo@example.com")
	rr := httptest.NewRecorder()
	CreateReview(f.reviews, f.movies, nil).ServeHTTP(rr, setupReq(http.MethodPost,
		"/api/movies/"+m.ID+"/reviews", `{"viewer_id":"`+v.ID+`","rating":9}`,
		map[string]string{"id": m.ID}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed review: %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	GetMovie(f.movies, f.reviews, nil).ServeHTTP(rr, setupReq(http.MethodGet,
		"/api/movies/"+m.ID, "", map[string]string{"id": m.ID}))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp movieDetailResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Movie.Title != "The Matrix" {
		t.Fatalf("expected The Matrix, got %q", resp.Movie.Title)
	}
	if resp.ReviewStats.TotalReviews != 1 || resp.ReviewStats.AverageRating != 9 {
		t.Fatalf("unexpected stats: %+v", resp.ReviewStats)
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	f := newFixture()
	id := uuid.NewString()
	rr := httptest.NewRecorder()
	GetMovie(f.movies, f.reviews, nil).ServeHTTP(rr, setupReq(http.MethodGet,
		"/api/movies/"+id, "", map[string]string{"id": id}))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetMovie_InvalidID(t *testing.T) {
	f := newFixture()
	rr := httptest.NewRecorder()
	GetMovie(f.movies, f.reviews, nil).ServeHTTP(rr, setupReq(http.MethodGet,
		"/api/movies/not-a-uuid", "", map[string]string{"id": "not-a-uuid"}))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
