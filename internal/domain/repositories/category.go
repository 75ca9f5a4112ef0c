package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// CategoryRepository defines data access operations for categories
type CategoryRepository interface {
	// Create persists a new category. Name and slug are unique;
	// violations surface as ConflictError.
	Create(ctx context.Context, category *models.Category) error

	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id string) (*models.Category, error)

	// GetBySlug retrieves a category by slug
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)

	// SlugExists reports whether a slug is taken by any category
	// other than excludeID. Pass excludeID == "" when creating.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)

	// List returns all categories ordered by name
	List(ctx context.Context) ([]models.Category, error)
}
