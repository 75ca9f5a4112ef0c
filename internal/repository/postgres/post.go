package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
)

// PostgresPostRepository implements the PostRepository interface
type PostgresPostRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) *PostgresPostRepository {
	return &PostgresPostRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const postColumns = `id, slug, title, excerpt, author_id, category_id, tags,
		body_markdown, body_html, reading_time, status, published_at,
		is_featured, views, allow_comments, meta_title, meta_description,
		created_at, updated_at, version`

// Create persists a new post. The unique index on slug is the final
// arbiter for concurrent slug races; losing surfaces as ConflictError.
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`, r.tables.Posts, postColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		post.ID,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.AuthorID,
		post.CategoryID,
		post.Tags,
		post.BodyMarkdown,
		post.BodyHTML,
		post.ReadingTime,
		post.Status,
		post.PublishedAt,
		post.IsFeatured,
		post.Views,
		post.AllowComments,
		post.MetaTitle,
		post.MetaDescription,
		post.CreatedAt,
		post.UpdatedAt,
		post.Version,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return r.slugConflict(ctx, post.Slug)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, postColumns, r.tables.Posts)
	return r.getOne(ctx, query, id, fmt.Sprintf("post %s", id))
}

// GetBySlug retrieves a post by slug
func (r *PostgresPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, postColumns, r.tables.Posts)
	return r.getOne(ctx, query, slug, fmt.Sprintf("post with slug %q", slug))
}

// SlugExists reports whether the slug is taken by another post
func (r *PostgresPostRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var query string
	var args []interface{}

	if excludeID != "" {
		query = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1 AND id <> $2)`, r.tables.Posts)
		args = []interface{}{slug, excludeID}
	} else {
		query = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)`, r.tables.Posts)
		args = []interface{}{slug}
	}

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}

// Update updates an existing post. The view counter is deliberately
// absent: it only moves through IncrementViews.
func (r *PostgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET slug = $1, title = $2, excerpt = $3, category_id = $4, tags = $5,
		    body_markdown = $6, body_html = $7, reading_time = $8, status = $9,
		    published_at = $10, is_featured = $11, allow_comments = $12,
		    meta_title = $13, meta_description = $14, updated_at = $15, version = $16
		WHERE id = $17
	`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.CategoryID,
		post.Tags,
		post.BodyMarkdown,
		post.BodyHTML,
		post.ReadingTime,
		post.Status,
		post.PublishedAt,
		post.IsFeatured,
		post.AllowComments,
		post.MetaTitle,
		post.MetaDescription,
		post.UpdatedAt,
		post.Version,
		post.ID,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return r.slugConflict(ctx, post.Slug)
		}
		return fmt.Errorf("update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
	}

	return nil
}

// IncrementViews bumps the view counter in a single statement so
// concurrent increments never lose updates.
func (r *PostgresPostRepository) IncrementViews(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET views = views + 1 WHERE id = $1`, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List returns all posts, newest publication first
func (r *PostgresPostRepository) List(ctx context.Context) ([]models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY published_at DESC NULLS LAST, id DESC
	`, postColumns, r.tables.Posts)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	// Return empty slice instead of nil
	if posts == nil {
		posts = []models.Post{}
	}

	return posts, nil
}

func (r *PostgresPostRepository) getOne(ctx context.Context, query, arg, what string) (*models.Post, error) {
	var post models.Post
	executor := GetExecutor(ctx, r.pool)
	row := executor.QueryRow(ctx, query, arg)
	if err := scanPost(row, &post); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// slugConflict resolves the existing post behind a unique violation so
// callers can report which record won the race.
func (r *PostgresPostRepository) slugConflict(ctx context.Context, slug string) error {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE slug = $1`, r.tables.Posts)

	var existingID string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, slug).Scan(&existingID); err != nil {
		return fmt.Errorf("post slug %q already exists: %w", slug, domain.ErrConflict)
	}

	return &domain.ConflictError{
		Message:      fmt.Sprintf("post slug %q already exists", slug),
		ResourceType: "post",
		ResourceID:   existingID,
	}
}

// rowScanner covers pgx.Row and pgx.Rows for shared scan code.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner, post *models.Post) error {
	return row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.AuthorID,
		&post.CategoryID,
		&post.Tags,
		&post.BodyMarkdown,
		&post.BodyHTML,
		&post.ReadingTime,
		&post.Status,
		&post.PublishedAt,
		&post.IsFeatured,
		&post.Views,
		&post.AllowComments,
		&post.MetaTitle,
		&post.MetaDescription,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Version,
	)
}
