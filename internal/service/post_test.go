package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/repository/inmemory"
)

// stubClock lets tests control publication timestamps.
type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time          { return c.now }
func (c *stubClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPostFixture(t *testing.T) (*PostService, *inmemory.PostStore, *stubClock) {
	t.Helper()
	store := inmemory.NewPostStore()
	clock := &stubClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewPostService(store, clock, testLogger()), store, clock
}

func TestCreatePostAssignsSlugAndDerivedFields(t *testing.T) {
	svc, _, _ := newPostFixture(t)

	post, err := svc.CreatePost(context.Background(), &CreatePostRequest{
		Title:        "Hello World",
		AuthorID:     "author-1",
		BodyMarkdown: "# Title\n\nSome content with `code`.",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if post.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", post.Slug, "hello-world")
	}
	if !strings.Contains(post.BodyHTML, "<h1") {
		t.Errorf("BodyHTML missing heading: %q", post.BodyHTML)
	}
	if post.ReadingTime < 1 {
		t.Errorf("ReadingTime = %d, want >= 1", post.ReadingTime)
	}
	if post.Status != models.StatusDraft {
		t.Errorf("Status = %q, want draft default", post.Status)
	}
	if post.PublishedAt != nil {
		t.Errorf("PublishedAt = %v, want nil for draft", post.PublishedAt)
	}
	if post.Version != 1 {
		t.Errorf("Version = %d, want 1", post.Version)
	}
	if !post.AllowComments {
		t.Error("AllowComments should default to true")
	}
}

func TestCreatePostDuplicateTitleGetsSuffixedSlug(t *testing.T) {
	svc, _, _ := newPostFixture(t)
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, &CreatePostRequest{
		Title: "Hello World", AuthorID: "a", BodyMarkdown: "one",
	})
	if err != nil {
		t.Fatalf("first CreatePost: %v", err)
	}
	second, err := svc.CreatePost(ctx, &CreatePostRequest{
		Title: "Hello World", AuthorID: "a", BodyMarkdown: "two",
	})
	if err != nil {
		t.Fatalf("second CreatePost: %v", err)
	}

	if first.Slug != "hello-world" || second.Slug != "hello-world-1" {
		t.Errorf("slugs = %q, %q, want hello-world, hello-world-1", first.Slug, second.Slug)
	}
}

func TestPublishStampsTimestampExactlyOnce(t *testing.T) {
	svc, _, clock := newPostFixture(t)
	ctx := context.Background()
	publishedAt := clock.now

	post, err := svc.CreatePost(ctx, &CreatePostRequest{
		Title:        "Release notes",
		AuthorID:     "a",
		BodyMarkdown: "v1.0 is out",
		Status:       models.StatusPublished,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(publishedAt) {
		t.Fatalf("PublishedAt = %v, want %v", post.PublishedAt, publishedAt)
	}

	clock.advance(48 * time.Hour)

	body := "v1.0 is out, now with errata"
	updated, err := svc.UpdatePost(ctx, post.ID, &UpdatePostRequest{BodyMarkdown: &body})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if !updated.PublishedAt.Equal(publishedAt) {
		t.Errorf("PublishedAt changed on edit: %v, want %v", updated.PublishedAt, publishedAt)
	}
	if !updated.UpdatedAt.Equal(clock.now) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, clock.now)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}
	if updated.BodyHTML == post.BodyHTML {
		t.Error("BodyHTML not recomputed on save")
	}
}

func TestRevertAndRepublishKeepsOriginalTimestamp(t *testing.T) {
	svc, _, clock := newPostFixture(t)
	ctx := context.Background()
	publishedAt := clock.now

	post, err := svc.CreatePost(ctx, &CreatePostRequest{
		Title: "Oops", AuthorID: "a", BodyMarkdown: "text", Status: models.StatusPublished,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	clock.advance(time.Hour)
	if _, err := svc.ChangeStatus(ctx, post.ID, models.StatusDraft); err != nil {
		t.Fatalf("revert to draft: %v", err)
	}

	clock.advance(time.Hour)
	republished, err := svc.ChangeStatus(ctx, post.ID, models.StatusPublished)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !republished.PublishedAt.Equal(publishedAt) {
		t.Errorf("PublishedAt = %v, want original %v", republished.PublishedAt, publishedAt)
	}
}

func TestPublishedCannotBeRescheduled(t *testing.T) {
	svc, _, _ := newPostFixture(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, &CreatePostRequest{
		Title: "Live", AuthorID: "a", BodyMarkdown: "text", Status: models.StatusPublished,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	_, err = svc.ChangeStatus(ctx, post.ID, models.StatusScheduled)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestSlugSurvivesTitleChange(t *testing.T) {
	svc, _, _ := newPostFixture(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, &CreatePostRequest{
		Title: "Original Title", AuthorID: "a", BodyMarkdown: "text",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	newTitle := "Completely Different Title"
	updated, err := svc.UpdatePost(ctx, post.ID, &UpdatePostRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Slug != "original-title" {
		t.Errorf("Slug = %q, want unchanged %q", updated.Slug, "original-title")
	}
}

func TestCreatePostValidation(t *testing.T) {
	svc, _, _ := newPostFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreatePostRequest
	}{
		{"missing title", CreatePostRequest{AuthorID: "a", BodyMarkdown: "text"}},
		{"missing body", CreatePostRequest{Title: "T", AuthorID: "a"}},
		{"missing author", CreatePostRequest{Title: "T", BodyMarkdown: "text"}},
		{"overlong title", CreatePostRequest{
			Title: strings.Repeat("x", 201), AuthorID: "a", BodyMarkdown: "text",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreatePost(ctx, &tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRecordView(t *testing.T) {
	svc, store, _ := newPostFixture(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, &CreatePostRequest{
		Title: "Counted", AuthorID: "a", BodyMarkdown: "text",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.RecordView(ctx, post.ID); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	got, err := store.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("Views = %d, want 3", got.Views)
	}
}
