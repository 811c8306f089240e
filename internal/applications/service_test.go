package applications

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateDefaultsStatus(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	application, err := svc.Create(context.Background(), "user-1", "Initech", "Backend Engineer", "", "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if application.Status != StatusSaved {
		t.Fatalf("status = %q, want %q", application.Status, StatusSaved)
	}
	if application.ID == "" {
		t.Fatal("missing id")
	}
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	_, err := svc.Create(context.Background(), "user-1", "Initech", "Backend Engineer", "ghosted", "", nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateScopedToOwner(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "Initech", "Backend Engineer", StatusApplied, "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, "user-2", created.ID, "Initech", "Backend Engineer", StatusOffer, "", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}

	applied := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, "user-1", created.ID, "Initech", "Staff Engineer", StatusOffer, "phone screen done", &applied)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.JobTitle != "Staff Engineer" || updated.Status != StatusOffer {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.AppliedDate == nil || !updated.AppliedDate.Equal(applied) {
		t.Fatalf("appliedDate = %v, want %v", updated.AppliedDate, applied)
	}
}

func TestDeleteHidesApplication(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "Initech", "Backend Engineer", StatusApplied, "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "user-1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	items, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d items", len(items))
	}
}

func TestSummary(t *testing.T) {
	a := Application{JobTitle: "Backend Engineer", CompanyName: "Initech"}
	if got := a.Summary(); got != "Backend Engineer at Initech" {
		t.Fatalf("Summary() = %q", got)
	}
}
