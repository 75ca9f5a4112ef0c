package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/slug"
)

const maxCategoryNameLength = 100

// CategoryService manages post categories. Categories are sluggable
// from their name, the same way posts are from their title.
type CategoryService struct {
	categories repositories.CategoryRepository
	clock      repositories.Clock
	logger     *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories repositories.CategoryRepository, clock repositories.Clock, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		clock:      clock,
		logger:     logger,
	}
}

// CreateCategoryRequest carries input for a new category.
type CreateCategoryRequest struct {
	Name        string
	Description string
	ParentID    *string
}

// CreateCategory assigns a slug from the name and persists the
// category. Duplicate names surface as ConflictError from storage.
func (s *CategoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, maxCategoryNameLength),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.clock.Now()
	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	assigned, err := slug.Assign(ctx, category.Name, func(ctx context.Context, candidate string) (bool, error) {
		return s.categories.SlugExists(ctx, candidate, category.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("assign slug: %w", err)
	}
	category.Slug = assigned

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "id", category.ID, "slug", category.Slug)

	return category, nil
}

// GetBySlug retrieves a category by its slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slugValue string) (*models.Category, error) {
	return s.categories.GetBySlug(ctx, slugValue)
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}
