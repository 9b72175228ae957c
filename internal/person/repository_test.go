package person

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUpsertAndGet(t *testing.T) {
	repo := NewInMemoryPersonRepository()
	ctx := context.Background()

	p := &Person{ID: "user1", DisplayName: "Ada", Skills: []string{"Sales"}}
	if err := repo.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, "user1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DisplayName != "Ada" || len(got.Skills) != 1 {
		t.Errorf("unexpected profile: %+v", got)
	}

	// A second upsert replaces fields but keeps the creation time.
	created := got.CreatedAt
	if err := repo.Upsert(ctx, &Person{ID: "user1", DisplayName: "Ada O."}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err = repo.GetByID(ctx, "user1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DisplayName != "Ada O." {
		t.Errorf("expected updated name, got %q", got.DisplayName)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected creation time to be preserved, got %v", got.CreatedAt)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewInMemoryPersonRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestTouchUpdatesActivity(t *testing.T) {
	repo := NewInMemoryPersonRepository()
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Person{ID: "user1"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	if err := repo.Touch(ctx, "user1", at); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	got, err := repo.GetByID(ctx, "user1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.LastActiveAt.Equal(at) {
		t.Errorf("expected last active %v, got %v", at, got.LastActiveAt)
	}

	if err := repo.Touch(ctx, "missing", at); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("expected ErrPersonNotFound, got %v", err)
	}
}

func TestListVisibleExcludesHiddenAndSelf(t *testing.T) {
	repo := NewInMemoryPersonRepository()
	ctx := context.Background()

	for _, p := range []*Person{
		{ID: "viewer1", DisplayName: "Viewer"},
		{ID: "user2", DisplayName: "Visible"},
		{ID: "user3", DisplayName: "Hidden", IsHidden: true},
	} {
		if err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	visible, err := repo.ListVisible(ctx, "viewer1")
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible person, got %d", len(visible))
	}
	if visible[0].ID != "user2" {
		t.Errorf("expected user2, got %q", visible[0].ID)
	}
}

func TestListVisibleReturnsCopies(t *testing.T) {
	repo := NewInMemoryPersonRepository()
	ctx := context.Background()

	if err := repo.Upsert(ctx, &Person{ID: "user2", Skills: []string{"Excel"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	visible, err := repo.ListVisible(ctx, "viewer1")
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	visible[0].Skills[0] = "mutated"

	got, err := repo.GetByID(ctx, "user2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Skills[0] != "Excel" {
		t.Error("mutating a listed profile must not affect the stored one")
	}
}

func TestCandidateConversion(t *testing.T) {
	lastActive := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &Person{
		ID:                 "user2",
		Skills:             []string{"Sales"},
		City:               "Lagos",
		State:              "Lagos State",
		Industry:           "Retail",
		Role:               "seeker",
		IsIdentityVerified: true,
		LastActiveAt:       lastActive,
	}

	c := p.Candidate()
	if c.CandidateID() != "user2" {
		t.Errorf("expected candidate ID user2, got %q", c.CandidateID())
	}
	if !c.ActivityTime().Equal(lastActive) {
		t.Errorf("expected activity time %v, got %v", lastActive, c.ActivityTime())
	}
	if c.Industry != "Retail" || c.Role != "seeker" || !c.IsIdentityVerified {
		t.Errorf("unexpected candidate fields: %+v", c)
	}
}
