// Package seed loads YAML fixture files and applies them through the
// service layer, so seeded content passes the same slug, rendering and
// moderation pipeline as content created at runtime.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/service"
)

// Fixture is the root of a seed file.
type Fixture struct {
	Categories []CategoryFixture `yaml:"categories"`
	Posts      []PostFixture     `yaml:"posts"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type PostFixture struct {
	Title           string           `yaml:"title"`
	Excerpt         string           `yaml:"excerpt"`
	Author          string           `yaml:"author"`
	Category        string           `yaml:"category"` // category name, resolved during apply
	Tags            []string         `yaml:"tags"`
	Body            string           `yaml:"body"`
	Status          string           `yaml:"status"`
	Featured        bool             `yaml:"featured"`
	DisableComments bool             `yaml:"disable_comments"`
	MetaTitle       string           `yaml:"meta_title"`
	MetaDescription string           `yaml:"meta_description"`
	Comments        []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Nickname string           `yaml:"nickname"`
	Email    string           `yaml:"email"`
	UserID   string           `yaml:"user_id"`
	Content  string           `yaml:"content"`
	Approve  bool             `yaml:"approve"`
	Replies  []CommentFixture `yaml:"replies"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	return &fixture, nil
}

// Seeder applies fixtures through the service layer.
type Seeder struct {
	categories *service.CategoryService
	posts      *service.PostService
	comments   *service.CommentService
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

func NewSeeder(
	categories *service.CategoryService,
	posts *service.PostService,
	comments *service.CommentService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		posts:      posts,
		comments:   comments,
		txManager:  txManager,
		logger:     logger,
	}
}

// Apply creates all fixture content. Each post and its comment thread
// is applied in one transaction, so a failing fixture never leaves a
// half-seeded post behind.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture) error {
	categoryIDs := make(map[string]string, len(fixture.Categories))
	for _, cf := range fixture.Categories {
		category, err := s.categories.CreateCategory(ctx, &service.CreateCategoryRequest{
			Name:        cf.Name,
			Description: cf.Description,
		})
		if err != nil {
			return fmt.Errorf("seed category %q: %w", cf.Name, err)
		}
		categoryIDs[cf.Name] = category.ID
		s.logger.Info("seeded category", "name", category.Name, "slug", category.Slug)
	}

	for _, pf := range fixture.Posts {
		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return s.applyPost(txCtx, &pf, categoryIDs)
		})
		if err != nil {
			return fmt.Errorf("seed post %q: %w", pf.Title, err)
		}
	}

	return nil
}

func (s *Seeder) applyPost(ctx context.Context, pf *PostFixture, categoryIDs map[string]string) error {
	var categoryID *string
	if pf.Category != "" {
		id, ok := categoryIDs[pf.Category]
		if !ok {
			return fmt.Errorf("unknown category %q", pf.Category)
		}
		categoryID = &id
	}

	allowComments := !pf.DisableComments
	post, err := s.posts.CreatePost(ctx, &service.CreatePostRequest{
		Title:           pf.Title,
		Excerpt:         pf.Excerpt,
		AuthorID:        pf.Author,
		CategoryID:      categoryID,
		Tags:            pf.Tags,
		BodyMarkdown:    pf.Body,
		Status:          models.PostStatus(pf.Status),
		IsFeatured:      pf.Featured,
		AllowComments:   &allowComments,
		MetaTitle:       pf.MetaTitle,
		MetaDescription: pf.MetaDescription,
	})
	if err != nil {
		return err
	}

	s.logger.Info("seeded post",
		"slug", post.Slug,
		"status", post.Status,
		"reading_time", post.ReadingTime,
	)

	for i := range pf.Comments {
		if err := s.applyComment(ctx, post, &pf.Comments[i], nil); err != nil {
			return err
		}
	}

	return nil
}

// applyComment creates one comment and recurses into its replies.
// Replies require an approved parent, so fixtures that nest replies
// under an unapproved comment fail loudly instead of seeding silently
// broken threads.
func (s *Seeder) applyComment(ctx context.Context, post *models.Post, cf *CommentFixture, parentID *string) error {
	var userID *string
	if cf.UserID != "" {
		userID = &cf.UserID
	}

	comment, err := s.comments.Create(ctx, &service.CreateCommentRequest{
		PostID:   post.ID,
		ParentID: parentID,
		UserID:   userID,
		Nickname: cf.Nickname,
		Email:    cf.Email,
		Content:  cf.Content,
	})
	if err != nil {
		return fmt.Errorf("comment on %q: %w", post.Slug, err)
	}

	if cf.Approve {
		if _, err := s.comments.Approve(ctx, comment.ID); err != nil {
			return fmt.Errorf("approve comment on %q: %w", post.Slug, err)
		}
	}

	for i := range cf.Replies {
		if err := s.applyComment(ctx, post, &cf.Replies[i], &comment.ID); err != nil {
			return err
		}
	}

	return nil
}
