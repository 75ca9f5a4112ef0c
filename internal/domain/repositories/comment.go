package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// CommentRepository defines data access operations for comments
type CommentRepository interface {
	// Create persists a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID retrieves a comment by ID
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// Update updates an existing comment
	Update(ctx context.Context, comment *models.Comment) error

	// ListByPost returns all comments on a post, creation time
	// ascending. Includes unapproved comments; visibility filtering
	// is the service's concern.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)

	// Delete removes a comment and cascades to its replies
	Delete(ctx context.Context, id string) error
}
