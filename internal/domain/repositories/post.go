package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// PostRepository defines data access operations for posts
type PostRepository interface {
	// Create persists a new post. A slug collision surfaces as a
	// ConflictError from the storage unique constraint.
	Create(ctx context.Context, post *models.Post) error

	// GetByID retrieves a post by ID
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// GetBySlug retrieves a post by slug
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)

	// SlugExists reports whether a slug is taken by any post other
	// than excludeID. Pass excludeID == "" when creating.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)

	// Update updates an existing post
	Update(ctx context.Context, post *models.Post) error

	// IncrementViews atomically bumps the view counter in place so
	// concurrent readers never lose updates.
	IncrementViews(ctx context.Context, id string) error

	// List returns all posts, newest publication first
	List(ctx context.Context) ([]models.Post, error)
}
