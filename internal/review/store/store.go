package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a review id resolves to nothing.
	ErrNotFound = errors.New("review not found")
	// ErrAlreadyReviewed signals the one-review-per-(viewer,movie) rule.
	ErrAlreadyReviewed = errors.New("viewer has already reviewed this movie")
)

// Review is a viewer's rating and text for one movie.
type Review struct {
	ID         string
	ViewerID   string
	ViewerName string // joined for display, empty on writes
	MovieID    string
	Rating     int // 1-10
	Text       string
	Helpful    int
	CreatedAt  time.Time
}

// Stats aggregates the reviews of one movie.
type Stats struct {
	AverageRating float64
	TotalReviews  int
	// Distribution maps rating value (1-10) to count.
	Distribution map[int]int
}

// ReviewStore defines persistence operations for reviews.
// Create enforces at most one review per (viewer, movie) pair.
type ReviewStore interface {
	Create(ctx context.Context, r Review) (Review, error)
	// Upsert creates the review or, if the pair already has one, updates
	// rating and text in place. Used by the watch-with-review flow.
	Upsert(ctx context.Context, r Review) (Review, error)
	// ListByMovie orders by helpful desc, then newest first.
	ListByMovie(ctx context.Context, movieID string, limit, offset int) ([]Review, int, error)
	StatsByMovie(ctx context.Context, movieID string) (Stats, error)
	// MarkHelpful increments the helpful counter and returns the review.
	MarkHelpful(ctx context.Context, reviewID string) (Review, error)
}
