package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes if they do not exist.
// The unique indexes on slugs are load-bearing: they are the fail-fast
// arbiter for concurrent slug assignment races.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				slug VARCHAR(60) NOT NULL UNIQUE,
				name VARCHAR(100) NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				parent_id UUID REFERENCES %s(id) ON DELETE SET NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				version INTEGER NOT NULL DEFAULT 1
			)
		`, tables.Categories, tables.Categories),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				slug VARCHAR(60) NOT NULL UNIQUE,
				title VARCHAR(200) NOT NULL,
				excerpt TEXT NOT NULL DEFAULT '',
				author_id TEXT NOT NULL,
				category_id UUID REFERENCES %s(id) ON DELETE SET NULL,
				tags TEXT[] NOT NULL DEFAULT '{}',
				body_markdown TEXT NOT NULL,
				body_html TEXT NOT NULL DEFAULT '',
				reading_time INTEGER NOT NULL DEFAULT 1,
				status VARCHAR(20) NOT NULL DEFAULT 'draft',
				published_at TIMESTAMPTZ,
				is_featured BOOLEAN NOT NULL DEFAULT FALSE,
				views INTEGER NOT NULL DEFAULT 0,
				allow_comments BOOLEAN NOT NULL DEFAULT TRUE,
				meta_title VARCHAR(255) NOT NULL DEFAULT '',
				meta_description VARCHAR(500) NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				version INTEGER NOT NULL DEFAULT 1
			)
		`, tables.Posts, tables.Categories),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_status_published_at_idx
			ON %s (status, published_at)
		`, tables.Posts, tables.Posts),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				post_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				user_id TEXT,
				nickname VARCHAR(50) NOT NULL DEFAULT '',
				email VARCHAR(255) NOT NULL DEFAULT '',
				content TEXT NOT NULL,
				is_approved BOOLEAN NOT NULL DEFAULT FALSE,
				ip TEXT NOT NULL DEFAULT '',
				user_agent VARCHAR(255) NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Comments, tables.Posts, tables.Comments),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_post_id_idx
			ON %s (post_id, created_at)
		`, tables.Comments, tables.Comments),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
