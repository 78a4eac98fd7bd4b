package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMovieStore is the production Postgres-backed implementation.
type PostgresMovieStore struct {
	db *pgxpool.Pool
}

func NewPostgresMovieStore(db *pgxpool.Pool) *PostgresMovieStore {
	return &PostgresMovieStore{db: db}
}

const movieColumns = `id, title, release_year, genres, cast_members, director, rating, poster_url, description, watch_count`

func (s *PostgresMovieStore) FindCandidates(ctx context.Context, f CandidateFilter, limit int) ([]Movie, error) {
	if limit <= 0 {
		limit = 100
	}
	term := "%" + escapeLike(f.TextMatch) + "%"
	genreTerm := strings.TrimSpace(f.Genre)

	q := `
SELECT ` + movieColumns + `
FROM movies
WHERE (title ILIKE $1 OR director ILIKE $1
       OR EXISTS (SELECT 1 FROM jsonb_array_elements(cast_members) c WHERE c->>'name' ILIKE $1))
  AND ($2 = '' OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(genres) g WHERE g ILIKE '%' || $2 || '%'))
  AND ($3::float8 <= 0 OR rating >= $3)
LIMIT $4`

	rows, err := s.db.Query(ctx, q, term, genreTerm, f.MinRating, limit)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	defer rows.Close()
	return scanMovies(rows)
}

func (s *PostgresMovieStore) GetMovie(ctx context.Context, id string) (Movie, error) {
	row := s.db.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1::uuid`, id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

func (s *PostgresMovieStore) MoviesByIDs(ctx context.Context, ids []string) ([]Movie, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("movies by ids: %w", err)
	}
	defer rows.Close()
	return scanMovies(rows)
}

func (s *PostgresMovieStore) ListMovies(ctx context.Context, f ListFilter) ([]Movie, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	genreTerm := strings.TrimSpace(f.Genre)

	where := `
WHERE ($1 = '' OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(genres) g WHERE g ILIKE '%' || $1 || '%'))
  AND ($2::float8 <= 0 OR rating >= $2)`

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM movies`+where, genreTerm, f.MinRating).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	rows, err := s.db.Query(ctx, `
SELECT `+movieColumns+`
FROM movies`+where+`
ORDER BY rating DESC, watch_count DESC
LIMIT $3 OFFSET $4`, genreTerm, f.MinRating, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	out, err := scanMovies(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *PostgresMovieStore) CreateMovie(ctx context.Context, m Movie) (Movie, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	genresJSON, _ := json.Marshal(m.Genres)
	castJSON, _ := json.Marshal(m.Cast)

	_, err := s.db.Exec(ctx, `
INSERT INTO movies (id, title, release_year, genres, cast_members, director, rating, poster_url, description, watch_count)
VALUES ($1::uuid,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.Title, m.ReleaseYear, genresJSON, castJSON, m.Director, m.Rating, m.PosterURL, m.Description, m.WatchCount)
	if err != nil {
		return Movie{}, fmt.Errorf("create movie: %w", err)
	}
	return m, nil
}

func (s *PostgresMovieStore) IncrementWatchCount(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE movies SET watch_count = watch_count + 1 WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("increment watch count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── helpers ────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (Movie, error) {
	var m Movie
	var genresJSON, castJSON []byte
	if err := row.Scan(&m.ID, &m.Title, &m.ReleaseYear, &genresJSON, &castJSON,
		&m.Director, &m.Rating, &m.PosterURL, &m.Description, &m.WatchCount); err != nil {
		return Movie{}, err
	}
	_ = json.Unmarshal(genresJSON, &m.Genres)
	_ = json.Unmarshal(castJSON, &m.Cast)
	return m, nil
}

func scanMovies(rows pgx.Rows) ([]Movie, error) {
	var out []Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// escapeLike neutralizes LIKE metacharacters in user-supplied terms.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.TrimSpace(s))
}
