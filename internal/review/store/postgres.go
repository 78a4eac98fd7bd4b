package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReviewStore is the production Postgres-backed implementation.
type PostgresReviewStore struct {
	db *pgxpool.Pool
}

func NewPostgresReviewStore(db *pgxpool.Pool) *PostgresReviewStore {
	return &PostgresReviewStore{db: db}
}

func (s *PostgresReviewStore) Create(ctx context.Context, r Review) (Review, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(ctx, `
INSERT INTO reviews (id, viewer_id, movie_id, rating, review_text, helpful, created_at)
VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, 0, $6)`,
		r.ID, r.ViewerID, r.MovieID, r.Rating, r.Text, r.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Review{}, ErrAlreadyReviewed
		}
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	r.Helpful = 0
	return r, nil
}

func (s *PostgresReviewStore) Upsert(ctx context.Context, r Review) (Review, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	// Text is only overwritten when the new submission carries one.
	err := s.db.QueryRow(ctx, `
INSERT INTO reviews (id, viewer_id, movie_id, rating, review_text, helpful, created_at)
VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, 0, $6)
ON CONFLICT (viewer_id, movie_id) DO UPDATE SET
  rating      = EXCLUDED.rating,
  review_text = CASE WHEN EXCLUDED.review_text <> '' THEN EXCLUDED.review_text ELSE reviews.review_text END
RETURNING id, review_text, helpful, created_at`,
		r.ID, r.ViewerID, r.MovieID, r.Rating, r.Text, now).
		Scan(&r.ID, &r.Text, &r.Helpful, &r.CreatedAt)
	if err != nil {
		return Review{}, fmt.Errorf("upsert review: %w", err)
	}
	return r, nil
}

func (s *PostgresReviewStore) ListByMovie(ctx context.Context, movieID string, limit, offset int) ([]Review, int, error) {
	if limit <= 0 {
		limit = 10
	}

	var total int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE movie_id = $1::uuid`, movieID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := s.db.Query(ctx, `
SELECT r.id, r.viewer_id, v.name, r.movie_id, r.rating, r.review_text, r.helpful, r.created_at
FROM reviews r
JOIN viewers v ON v.id = r.viewer_id
WHERE r.movie_id = $1::uuid
ORDER BY r.helpful DESC, r.created_at DESC
LIMIT $2 OFFSET $3`, movieID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.ViewerID, &r.ViewerName, &r.MovieID, &r.Rating, &r.Text, &r.Helpful, &r.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (s *PostgresReviewStore) StatsByMovie(ctx context.Context, movieID string) (Stats, error) {
	st := Stats{Distribution: make(map[int]int)}

	if err := s.db.QueryRow(ctx, `
SELECT COALESCE(AVG(rating), 0), COUNT(*)
FROM reviews WHERE movie_id = $1::uuid`, movieID).
		Scan(&st.AverageRating, &st.TotalReviews); err != nil {
		return Stats{}, fmt.Errorf("review stats: %w", err)
	}

	rows, err := s.db.Query(ctx, `
SELECT rating, COUNT(*) FROM reviews WHERE movie_id = $1::uuid GROUP BY rating`, movieID)
	if err != nil {
		return Stats{}, fmt.Errorf("review distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return Stats{}, fmt.Errorf("scan distribution: %w", err)
		}
		st.Distribution[rating] = count
	}
	return st, rows.Err()
}

func (s *PostgresReviewStore) MarkHelpful(ctx context.Context, reviewID string) (Review, error) {
	var r Review
	err := s.db.QueryRow(ctx, `
UPDATE reviews SET helpful = helpful + 1
WHERE id = $1::uuid
RETURNING id, viewer_id, movie_id, rating, review_text, helpful, created_at`, reviewID).
		Scan(&r.ID, &r.ViewerID, &r.MovieID, &r.Rating, &r.Text, &r.Helpful, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, ErrNotFound
		}
		return Review{}, fmt.Errorf("mark helpful: %w", err)
	}
	return r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
