package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresViewerStore is the production Postgres-backed implementation.
type PostgresViewerStore struct {
	db *pgxpool.Pool
}

func NewPostgresViewerStore(db *pgxpool.Pool) *PostgresViewerStore {
	return &PostgresViewerStore{db: db}
}

func (s *PostgresViewerStore) Create(ctx context.Context, v Viewer) (Viewer, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Subscription == "" {
		v.Subscription = TierFree
	}
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	v.CreatedAt = time.Now().UTC()

	_, err := s.db.Exec(ctx, `
INSERT INTO viewers (id, name, email, subscription, created_at)
VALUES ($1::uuid, $2, $3, $4, $5)`,
		v.ID, v.Name, v.Email, v.Subscription, v.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Viewer{}, ErrEmailTaken
		}
		return Viewer{}, fmt.Errorf("create viewer: %w", err)
	}
	return v, nil
}

func (s *PostgresViewerStore) GetByID(ctx context.Context, id string) (Viewer, error) {
	var v Viewer
	err := s.db.QueryRow(ctx, `
SELECT id, name, email, subscription, created_at FROM viewers WHERE id = $1::uuid`, id).
		Scan(&v.ID, &v.Name, &v.Email, &v.Subscription, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Viewer{}, ErrNotFound
		}
		return Viewer{}, fmt.Errorf("get viewer: %w", err)
	}
	return v, nil
}

func (s *PostgresViewerStore) List(ctx context.Context) ([]Viewer, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, subscription, created_at FROM viewers ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list viewers: %w", err)
	}
	defer rows.Close()

	var out []Viewer
	for rows.Next() {
		var v Viewer
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Subscription, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan viewer: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
