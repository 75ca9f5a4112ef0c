package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

const (
	maxNicknameLength = 50
	maxContentLength  = 2000
)

// CommentService manages the two-level comment thread and its
// moderation gate. Comments enter unapproved and surface to readers
// only after an explicit approval.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	clock    repositories.Clock
	logger   *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	clock repositories.Clock,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		clock:    clock,
		logger:   logger,
	}
}

// CreateCommentRequest carries a new comment. Exactly one identity
// form must be present: UserID for an authenticated author, or
// Nickname+Email for a guest.
type CreateCommentRequest struct {
	PostID    string
	ParentID  *string
	UserID    *string
	Nickname  string
	Email     string
	Content   string
	IP        string
	UserAgent string
}

// Create validates identity and threading rules and persists the
// comment unapproved. It has no other side effects: no notification,
// no HTML rendering of the content.
func (s *CommentService) Create(ctx context.Context, req *CreateCommentRequest) (*models.Comment, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if !post.AllowComments {
		return nil, &domain.ValidationError{Message: "comments are disabled for this post"}
	}

	if req.ParentID != nil {
		if err := s.checkParent(ctx, req.PostID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		ID:         uuid.NewString(),
		PostID:     req.PostID,
		ParentID:   req.ParentID,
		UserID:     req.UserID,
		Nickname:   req.Nickname,
		Email:      req.Email,
		Content:    req.Content,
		IsApproved: false,
		IP:         req.IP,
		UserAgent:  req.UserAgent,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created, awaiting moderation",
		"id", comment.ID,
		"post_id", comment.PostID,
		"reply", comment.IsReply(),
	)

	return comment, nil
}

// Approve marks a comment visible. Approving an already approved
// comment is a no-op, not an error. Approval never reverts
// automatically.
func (s *CommentService) Approve(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.IsApproved {
		return comment, nil
	}

	comment.IsApproved = true
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment approved", "id", comment.ID, "post_id", comment.PostID)

	return comment, nil
}

// Thread assembles the reader-visible comment tree for a post:
// approved top-level comments with their approved replies, both levels
// ordered by creation time ascending. Unapproved comments never
// appear, at any depth.
func (s *CommentService) Thread(ctx context.Context, postID string) ([]models.CommentThread, error) {
	all, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	replies := make(map[string][]models.Comment)
	for _, c := range all {
		if c.ParentID != nil && c.IsApproved {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}

	threads := make([]models.CommentThread, 0, len(all))
	for _, c := range all {
		if c.ParentID != nil || !c.IsApproved {
			continue
		}
		threads = append(threads, models.CommentThread{
			Comment: c,
			Replies: replies[c.ID],
		})
	}

	return threads, nil
}

// Delete removes a comment; its replies go with it.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("comment deleted", "id", id)
	return nil
}

// checkParent enforces the creation-time threading rules: the parent
// must exist, belong to the same post, be top-level, and be approved.
// Approval of the parent may change later without invalidating
// existing links.
func (s *CommentService) checkParent(ctx context.Context, postID, parentID string) error {
	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.InvalidParentError{Message: "parent comment does not exist"}
		}
		return fmt.Errorf("fetch parent comment: %w", err)
	}
	if parent.PostID != postID {
		return &domain.InvalidParentError{Message: "parent comment belongs to a different post"}
	}
	if parent.ParentID != nil {
		return &domain.InvalidParentError{Message: "replies to replies are not allowed"}
	}
	if !parent.IsApproved {
		return &domain.InvalidParentError{Message: "parent comment is not approved"}
	}
	return nil
}

// validateCreateRequest checks content and the one-of identity rule
func (s *CommentService) validateCreateRequest(req *CreateCommentRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.PostID, validation.Required),
		validation.Field(&req.Content,
			validation.Required,
			validation.Length(1, maxContentLength),
		),
		validation.Field(&req.Nickname, validation.Length(0, maxNicknameLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.UserID == nil {
		// Guest path: both nickname and a well-formed email required.
		if req.Nickname == "" || req.Email == "" {
			return &domain.ValidationError{Message: "guest comments require a nickname and email"}
		}
		if err := validation.Validate(req.Email, is.Email); err != nil {
			return &domain.ValidationError{Message: fmt.Sprintf("invalid email: %v", err)}
		}
		return nil
	}

	// Authenticated path: the guest fields must stay empty so exactly
	// one identity form is present.
	if req.Nickname != "" || req.Email != "" {
		return &domain.ValidationError{Message: "authenticated comments must not carry guest identity"}
	}
	return nil
}
