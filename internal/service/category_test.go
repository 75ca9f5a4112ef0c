package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/repository/inmemory"
)

func newCategoryFixture(t *testing.T) *CategoryService {
	t.Helper()
	clock := &stubClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewCategoryService(inmemory.NewCategoryStore(), clock, testLogger())
}

func TestCreateCategoryAssignsSlugFromName(t *testing.T) {
	svc := newCategoryFixture(t)

	category, err := svc.CreateCategory(context.Background(), &CreateCategoryRequest{
		Name: "Distributed Systems",
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.Slug != "distributed-systems" {
		t.Errorf("Slug = %q, want %q", category.Slug, "distributed-systems")
	}
}

func TestCreateCategorySlugCollisionProbes(t *testing.T) {
	svc := newCategoryFixture(t)
	ctx := context.Background()

	// Different names, same normalized slug.
	first, err := svc.CreateCategory(ctx, &CreateCategoryRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("first CreateCategory: %v", err)
	}
	second, err := svc.CreateCategory(ctx, &CreateCategoryRequest{Name: "Go!"})
	if err != nil {
		t.Fatalf("second CreateCategory: %v", err)
	}

	if first.Slug != "go" || second.Slug != "go-1" {
		t.Errorf("slugs = %q, %q, want go, go-1", first.Slug, second.Slug)
	}
}

func TestCreateCategoryDuplicateNameConflicts(t *testing.T) {
	svc := newCategoryFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, &CreateCategoryRequest{Name: "Databases"}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	_, err := svc.CreateCategory(ctx, &CreateCategoryRequest{Name: "Databases"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := newCategoryFixture(t)

	_, err := svc.CreateCategory(context.Background(), &CreateCategoryRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}
