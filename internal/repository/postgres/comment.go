package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
)

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) *PostgresCommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const commentColumns = `id, post_id, parent_id, user_id, nickname, email,
		content, is_approved, ip, user_agent, created_at`

// Create persists a new comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Comments, commentColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.ParentID,
		comment.UserID,
		comment.Nickname,
		comment.Email,
		comment.Content,
		comment.IsApproved,
		comment.IP,
		comment.UserAgent,
		comment.CreatedAt,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("comment references a missing post or parent: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, commentColumns, r.tables.Comments)

	var comment models.Comment
	executor := GetExecutor(ctx, r.pool)
	err := scanComment(executor.QueryRow(ctx, query, id), &comment)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

// Update updates an existing comment
func (r *PostgresCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, is_approved = $2
		WHERE id = $3
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, comment.Content, comment.IsApproved, comment.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
	}

	return nil
}

// ListByPost returns all comments on a post, creation time ascending
func (r *PostgresCommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`, commentColumns, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := scanComment(rows, &comment); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	// Return empty slice instead of nil
	if comments == nil {
		comments = []models.Comment{}
	}

	return comments, nil
}

// Delete removes a comment. The parent_id foreign key carries ON
// DELETE CASCADE, so replies go with their parent.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanComment(row rowScanner, comment *models.Comment) error {
	return row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.ParentID,
		&comment.UserID,
		&comment.Nickname,
		&comment.Email,
		&comment.Content,
		&comment.IsApproved,
		&comment.IP,
		&comment.UserAgent,
		&comment.CreatedAt,
	)
}
