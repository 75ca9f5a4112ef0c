package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const categoryColumns = `id, slug, name, description, parent_id, created_at, updated_at, version`

// Create persists a new category. Both name and slug carry unique
// indexes; either violation surfaces as ConflictError.
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Categories, categoryColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		category.ID,
		category.Slug,
		category.Name,
		category.Description,
		category.ParentID,
		category.CreatedAt,
		category.UpdatedAt,
		category.Version,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category %q already exists", category.Name),
				ResourceType: "category",
			}
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, categoryColumns, r.tables.Categories)
	return r.getOne(ctx, query, id, fmt.Sprintf("category %s", id))
}

// GetBySlug retrieves a category by slug
func (r *PostgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, categoryColumns, r.tables.Categories)
	return r.getOne(ctx, query, slug, fmt.Sprintf("category with slug %q", slug))
}

// SlugExists reports whether the slug is taken by another category
func (r *PostgresCategoryRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var query string
	var args []interface{}

	if excludeID != "" {
		query = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1 AND id <> $2)`, r.tables.Categories)
		args = []interface{}{slug, excludeID}
	} else {
		query = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)`, r.tables.Categories)
		args = []interface{}{slug}
	}

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

// List returns all categories ordered by name
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY name ASC`, categoryColumns, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := scanCategory(rows, &category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	// Return empty slice instead of nil
	if categories == nil {
		categories = []models.Category{}
	}

	return categories, nil
}

func (r *PostgresCategoryRepository) getOne(ctx context.Context, query, arg, what string) (*models.Category, error) {
	var category models.Category
	executor := GetExecutor(ctx, r.pool)
	row := executor.QueryRow(ctx, query, arg)
	if err := scanCategory(row, &category); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

func scanCategory(row rowScanner, category *models.Category) error {
	return row.Scan(
		&category.ID,
		&category.Slug,
		&category.Name,
		&category.Description,
		&category.ParentID,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.Version,
	)
}
