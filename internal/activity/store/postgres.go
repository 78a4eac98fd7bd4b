package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresActivityStore is the production Postgres-backed implementation.
type PostgresActivityStore struct {
	db *pgxpool.Pool
}

func NewPostgresActivityStore(db *pgxpool.Pool) *PostgresActivityStore {
	return &PostgresActivityStore{db: db}
}

func (s *PostgresActivityStore) Record(ctx context.Context, ev WatchEvent) (WatchEvent, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
INSERT INTO watch_events (id, viewer_id, movie_id, ts, watch_duration, completion_percent)
VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6)`,
		ev.ID, ev.ViewerID, ev.MovieID, ev.Timestamp, ev.WatchDurationMin, ev.CompletionPercent)
	if err != nil {
		if isForeignKeyViolation(err) {
			return WatchEvent{}, ErrNotFound
		}
		return WatchEvent{}, fmt.Errorf("record watch event: %w", err)
	}
	return ev, nil
}

func (s *PostgresActivityStore) ListByViewer(ctx context.Context, viewerID string, f HistoryFilter) ([]HistoryEntry, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}

	where := ` WHERE w.viewer_id = $1::uuid`
	args := []any{viewerID}
	if f.Start != nil {
		args = append(args, *f.Start)
		where += ` AND w.ts >= $` + strconv.Itoa(len(args))
	}
	if f.End != nil {
		args = append(args, *f.End)
		where += ` AND w.ts <= $` + strconv.Itoa(len(args))
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM watch_events w`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	q := `
SELECT w.id, w.viewer_id, w.movie_id, w.ts, w.watch_duration, w.completion_percent,
       m.id, m.title, m.release_year, m.genres, m.rating, m.poster_url
FROM watch_events w
JOIN movies m ON m.id = w.movie_id` + where + `
ORDER BY w.ts DESC, w.id DESC
LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var genresJSON []byte
		if err := rows.Scan(&e.Event.ID, &e.Event.ViewerID, &e.Event.MovieID, &e.Event.Timestamp,
			&e.Event.WatchDurationMin, &e.Event.CompletionPercent,
			&e.Movie.ID, &e.Movie.Title, &e.Movie.ReleaseYear, &genresJSON, &e.Movie.Rating, &e.Movie.PosterURL); err != nil {
			return nil, 0, fmt.Errorf("scan history: %w", err)
		}
		_ = json.Unmarshal(genresJSON, &e.Movie.Genres)
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (s *PostgresActivityStore) ViewerWatchGenres(ctx context.Context, viewerID string) ([]WatchGenres, error) {
	rows, err := s.db.Query(ctx, `
SELECT w.movie_id, m.genres
FROM watch_events w
JOIN movies m ON m.id = w.movie_id
WHERE w.viewer_id = $1::uuid
ORDER BY w.ts ASC, w.id ASC`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("viewer watch genres: %w", err)
	}
	defer rows.Close()

	var out []WatchGenres
	for rows.Next() {
		var wg WatchGenres
		var genresJSON []byte
		if err := rows.Scan(&wg.MovieID, &genresJSON); err != nil {
			return nil, fmt.Errorf("scan watch genres: %w", err)
		}
		_ = json.Unmarshal(genresJSON, &wg.Genres)
		out = append(out, wg)
	}
	return out, rows.Err()
}

func (s *PostgresActivityStore) EventsSince(ctx context.Context, since time.Time) ([]WindowEvent, error) {
	rows, err := s.db.Query(ctx, `
SELECT movie_id, viewer_id, watch_duration
FROM watch_events
WHERE ts >= $1
ORDER BY ts ASC, id ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("events since: %w", err)
	}
	defer rows.Close()

	var out []WindowEvent
	for rows.Next() {
		var ev WindowEvent
		if err := rows.Scan(&ev.MovieID, &ev.ViewerID, &ev.WatchDurationMin); err != nil {
			return nil, fmt.Errorf("scan window event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *PostgresActivityStore) WatchedMovieIDs(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT movie_id FROM watch_events WHERE viewer_id = $1::uuid`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("watched movie ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (s *PostgresActivityStore) ViewerStats(ctx context.Context, viewerID string) (ViewerStats, error) {
	var st ViewerStats
	err := s.db.QueryRow(ctx, `
SELECT COUNT(*), COALESCE(SUM(watch_duration), 0)
FROM watch_events WHERE viewer_id = $1::uuid`, viewerID).
		Scan(&st.TotalMoviesWatched, &st.TotalWatchTimeMin)
	if err != nil {
		return ViewerStats{}, fmt.Errorf("viewer stats: %w", err)
	}
	return st, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
