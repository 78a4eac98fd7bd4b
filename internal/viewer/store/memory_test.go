package store

import (
	"context"
	"testing"
)

func TestInMemoryViewerStore(t *testing.T) {
	s := NewInMemoryViewerStore()
	ctx := context.Background()

	v, err := s.Create(ctx, Viewer{Name: "Sam", Email: "Sam@Example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Email != "sam@example.com" {
		t.Fatalf("expected normalized email, got %q", v.Email)
	}
	if v.Subscription != TierFree {
		t.Fatalf("expected free tier default, got %q", v.Subscription)
	}

	if _, err := s.Create(ctx, Viewer{Name: "Other", Email: "sam@example.com"}); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := s.GetByID(ctx, v.ID)
	if err != nil || got.Name != "Sam" {
		t.Fatalf("get: %v %+v", err, got)
	}
	if _, err := s.GetByID(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
}

func TestValidTier(t *testing.T) {
	for _, tier := range []string{TierFree, TierPremium, TierVIP} {
		if !ValidTier(tier) {
			t.Fatalf("expected %q to be valid", tier)
		}
	}
	if ValidTier("gold") {
		t.Fatal("expected gold to be invalid")
	}
}
