// Package inmemory provides mutex-guarded in-process implementations
// of the storage contracts. They back the unit tests; semantics mirror
// the postgres implementations, including conflict reporting on slug
// uniqueness.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
)

// PostStore implements repositories.PostRepository in memory.
type PostStore struct {
	mu     sync.RWMutex
	posts  map[string]*models.Post
	bySlug map[string]string // slug -> id
}

// NewPostStore creates an empty post store.
func NewPostStore() *PostStore {
	return &PostStore{
		posts:  make(map[string]*models.Post),
		bySlug: make(map[string]string),
	}
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.bySlug[post.Slug]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("post slug %q already exists", post.Slug),
			ResourceType: "post",
			ResourceID:   existingID,
		}
	}

	cp := clonePost(post)
	s.posts[post.ID] = cp
	s.bySlug[post.Slug] = post.ID
	return nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	return clonePost(post), nil
}

func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("post with slug %q: %w", slug, domain.ErrNotFound)
	}
	return clonePost(s.posts[id]), nil
}

func (s *PostStore) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return false, nil
	}
	return id != excludeID, nil
}

func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
	}
	if existingID, ok := s.bySlug[post.Slug]; ok && existingID != post.ID {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("post slug %q already exists", post.Slug),
			ResourceType: "post",
			ResourceID:   existingID,
		}
	}

	delete(s.bySlug, current.Slug)
	cp := clonePost(post)
	cp.Views = current.Views // the counter only moves through IncrementViews
	s.posts[post.ID] = cp
	s.bySlug[post.Slug] = post.ID
	return nil
}

func (s *PostStore) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	post.Views++
	return nil
}

func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		switch {
		case a == nil && b == nil:
			return out[i].ID > out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	if p.Tags != nil {
		cp.Tags = append([]string(nil), p.Tags...)
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		cp.PublishedAt = &t
	}
	return &cp
}

// CategoryStore implements repositories.CategoryRepository in memory.
type CategoryStore struct {
	mu         sync.RWMutex
	categories map[string]*models.Category
	bySlug     map[string]string
}

// NewCategoryStore creates an empty category store.
func NewCategoryStore() *CategoryStore {
	return &CategoryStore{
		categories: make(map[string]*models.Category),
		bySlug:     make(map[string]string),
	}
}

func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.bySlug[category.Slug]; ok {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("category slug %q already exists", category.Slug),
			ResourceType: "category",
			ResourceID:   existingID,
		}
	}
	for _, c := range s.categories {
		if c.Name == category.Name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category %q already exists", category.Name),
				ResourceType: "category",
				ResourceID:   c.ID,
			}
		}
	}

	cp := *category
	s.categories[category.ID] = &cp
	s.bySlug[category.Slug] = category.ID
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	cp := *category
	return &cp, nil
}

func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("category with slug %q: %w", slug, domain.ErrNotFound)
	}
	cp := *s.categories[id]
	return &cp, nil
}

func (s *CategoryStore) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return false, nil
	}
	return id != excludeID, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CommentStore implements repositories.CommentRepository in memory.
type CommentStore struct {
	mu       sync.RWMutex
	comments map[string]*models.Comment
	byPost   map[string][]string // postID -> commentIDs, insertion order
}

// NewCommentStore creates an empty comment store.
func NewCommentStore() *CommentStore {
	return &CommentStore{
		comments: make(map[string]*models.Comment),
		byPost:   make(map[string][]string),
	}
}

func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *comment
	s.comments[comment.ID] = &cp
	s.byPost[comment.PostID] = append(s.byPost[comment.PostID], comment.ID)
	return nil
}

func (s *CommentStore) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	cp := *comment
	return &cp, nil
}

func (s *CommentStore) Update(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[comment.ID]; !ok {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
	}
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *CommentStore) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPost[postID]
	out := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *CommentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	// Collect the comment and, when it is top-level, its replies.
	doomed := map[string]bool{id: true}
	for cid, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			doomed[cid] = true
		}
	}

	for cid := range doomed {
		delete(s.comments, cid)
	}
	ids := s.byPost[comment.PostID]
	kept := ids[:0]
	for _, cid := range ids {
		if !doomed[cid] {
			kept = append(kept, cid)
		}
	}
	s.byPost[comment.PostID] = kept
	return nil
}
