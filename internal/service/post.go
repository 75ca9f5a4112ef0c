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
	"inkwell/internal/render"
	"inkwell/internal/slug"
)

const maxTitleLength = 200

// PostService owns the post publication lifecycle: slug assignment on
// first save, derived-content recomputation on every save, and the
// one-shot publication timestamp.
type PostService struct {
	posts  repositories.PostRepository
	clock  repositories.Clock
	logger *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(posts repositories.PostRepository, clock repositories.Clock, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		clock:  clock,
		logger: logger,
	}
}

// CreatePostRequest carries author input for a new post.
type CreatePostRequest struct {
	Title           string
	Excerpt         string
	AuthorID        string
	CategoryID      *string
	Tags            []string
	BodyMarkdown    string
	Status          models.PostStatus
	IsFeatured      bool
	AllowComments   *bool // nil means the default, true
	MetaTitle       string
	MetaDescription string
}

// UpdatePostRequest carries partial edits. Nil fields keep their
// current value. The slug is deliberately absent: it is immutable
// once assigned.
type UpdatePostRequest struct {
	Title           *string
	Excerpt         *string
	CategoryID      *string
	Tags            []string
	BodyMarkdown    *string
	Status          *models.PostStatus
	IsFeatured      *bool
	AllowComments   *bool
	MetaTitle       *string
	MetaDescription *string
}

// CreatePost validates the request, assigns a slug from the title, and
// persists the post with its derived fields.
func (s *PostService) CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.clock.Now()
	allowComments := true
	if req.AllowComments != nil {
		allowComments = *req.AllowComments
	}

	post := &models.Post{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Excerpt:         req.Excerpt,
		AuthorID:        req.AuthorID,
		CategoryID:      req.CategoryID,
		Tags:            req.Tags,
		BodyMarkdown:    req.BodyMarkdown,
		Status:          req.Status,
		IsFeatured:      req.IsFeatured,
		AllowComments:   allowComments,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CreatedAt:       now,
	}
	if post.Status == "" {
		post.Status = models.StatusDraft
	}

	if err := s.beforeSave(ctx, post); err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		"id", post.ID,
		"slug", post.Slug,
		"status", post.Status,
		"reading_time", post.ReadingTime,
	)

	return post, nil
}

// UpdatePost applies edits and re-runs the save pipeline. The slug and
// any previously set publication timestamp are left untouched.
func (s *PostService) UpdatePost(ctx context.Context, id string, req *UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.CategoryID != nil {
		post.CategoryID = req.CategoryID
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.BodyMarkdown != nil {
		post.BodyMarkdown = *req.BodyMarkdown
	}
	if req.Status != nil {
		if err := checkTransition(post.Status, *req.Status); err != nil {
			return nil, err
		}
		post.Status = *req.Status
	}
	if req.IsFeatured != nil {
		post.IsFeatured = *req.IsFeatured
	}
	if req.AllowComments != nil {
		post.AllowComments = *req.AllowComments
	}
	if req.MetaTitle != nil {
		post.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		post.MetaDescription = *req.MetaDescription
	}

	if err := s.validatePost(post); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.beforeSave(ctx, post); err != nil {
		return nil, err
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post updated",
		"id", post.ID,
		"slug", post.Slug,
		"status", post.Status,
		"version", post.Version,
	)

	return post, nil
}

// ChangeStatus moves the post through the publication state machine.
func (s *PostService) ChangeStatus(ctx context.Context, id string, status models.PostStatus) (*models.Post, error) {
	return s.UpdatePost(ctx, id, &UpdatePostRequest{Status: &status})
}

// GetBySlug retrieves a post by its slug.
func (s *PostService) GetBySlug(ctx context.Context, slugValue string) (*models.Post, error) {
	return s.posts.GetBySlug(ctx, slugValue)
}

// List returns all posts.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.posts.List(ctx)
}

// RecordView bumps the post's view counter. The increment happens
// atomically in storage so concurrent readers never lose updates.
func (s *PostService) RecordView(ctx context.Context, id string) error {
	return s.posts.IncrementViews(ctx, id)
}

// beforeSave is the pipeline run on every save, regardless of status:
//  1. first save assigns the slug from the title;
//  2. derived HTML and reading time are recomputed from the markdown;
//  3. the first transition into published stamps PublishedAt, exactly
//     once, and nothing here ever touches it afterwards;
//  4. the timestamp/version bookkeeping fields advance.
func (s *PostService) beforeSave(ctx context.Context, post *models.Post) error {
	if post.Slug == "" {
		assigned, err := slug.Assign(ctx, post.Title, func(ctx context.Context, candidate string) (bool, error) {
			return s.posts.SlugExists(ctx, candidate, post.ID)
		})
		if err != nil {
			return fmt.Errorf("assign slug: %w", err)
		}
		post.Slug = assigned
	}

	res := render.Render(post.BodyMarkdown)
	if res.Degraded {
		s.logger.Warn("markdown render degraded, keeping literal text",
			"post_id", post.ID,
		)
	}
	post.BodyHTML = res.HTML
	post.ReadingTime = res.ReadingTime

	if post.Status == models.StatusPublished && post.PublishedAt == nil {
		now := s.clock.Now()
		post.PublishedAt = &now
	}

	post.UpdatedAt = s.clock.Now()
	post.Version++

	return nil
}

// checkTransition enforces the state machine. Every state may loop on
// itself; the only forbidden move is published back to scheduled.
func checkTransition(from, to models.PostStatus) error {
	if !to.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown status %q", to)}
	}
	if from == models.StatusPublished && to == models.StatusScheduled {
		return &domain.ValidationError{
			Message: "a published post cannot be rescheduled; revert it to draft first",
		}
	}
	return nil
}

// validateCreateRequest validates a post creation request
func (s *PostService) validateCreateRequest(req *CreatePostRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, maxTitleLength),
		),
		validation.Field(&req.AuthorID, validation.Required),
		validation.Field(&req.BodyMarkdown, validation.Required),
		validation.Field(&req.Status,
			validation.In(models.PostStatus(""), models.StatusDraft, models.StatusScheduled, models.StatusPublished),
		),
	)
}

// validatePost re-checks invariant fields after edits are applied
func (s *PostService) validatePost(post *models.Post) error {
	return validation.ValidateStruct(post,
		validation.Field(&post.Title,
			validation.Required,
			validation.Length(1, maxTitleLength),
		),
		validation.Field(&post.BodyMarkdown, validation.Required),
	)
}
