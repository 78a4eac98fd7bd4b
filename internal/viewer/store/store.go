package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a viewer id resolves to nothing.
	ErrNotFound = errors.New("viewer not found")
	// ErrEmailTaken signals a duplicate email on create.
	ErrEmailTaken = errors.New("email already registered")
)

// Subscription tiers.
const (
	TierFree    = "free"
	TierPremium = "premium"
	TierVIP     = "vip"
)

// Viewer is a registered catalog user.
type Viewer struct {
	ID           string
	Name         string
	Email        string
	Subscription string // free | premium | vip
	CreatedAt    time.Time
}

// ValidTier reports whether t is a known subscription tier.
func ValidTier(t string) bool {
	switch t {
	case TierFree, TierPremium, TierVIP:
		return true
	}
	return false
}

// ViewerStore defines persistence operations for viewers.
type ViewerStore interface {
	Create(ctx context.Context, v Viewer) (Viewer, error)
	GetByID(ctx context.Context, id string) (Viewer, error)
	List(ctx context.Context) ([]Viewer, error)
}
