package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/repository/inmemory"
	"inkwell/internal/service"
)

const fixtureYAML = `
categories:
  - name: Engineering
    description: Deep dives.

posts:
  - title: Hello, World
    author: editor-1
    category: Engineering
    tags: [meta]
    status: published
    featured: true
    body: |
      # Welcome

      First post.
    comments:
      - nickname: alice
        email: alice@example.com
        content: Nice launch.
        approve: true
        replies:
          - user_id: editor-1
            content: Thanks!
            approve: true
      - nickname: bob
        email: bob@example.com
        content: Held for moderation.

  - title: Drafts Stay Hidden
    author: editor-1
    status: draft
    body: Not yet.
`

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// passthroughTx satisfies the transaction contract without a database.
type passthroughTx struct{}

func (passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error { return fn(ctx) }

type seedEnv struct {
	seeder   *Seeder
	posts    *service.PostService
	comments *service.CommentService
}

func newSeedEnv(t *testing.T) *seedEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := fixedClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	postStore := inmemory.NewPostStore()
	postService := service.NewPostService(postStore, clock, logger)
	categoryService := service.NewCategoryService(inmemory.NewCategoryStore(), clock, logger)
	commentService := service.NewCommentService(inmemory.NewCommentStore(), postStore, clock, logger)

	return &seedEnv{
		seeder:   NewSeeder(categoryService, postService, commentService, passthroughTx{}, logger),
		posts:    postService,
		comments: commentService,
	}
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadParsesFixture(t *testing.T) {
	fixture, err := Load(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(fixture.Categories) != 1 || len(fixture.Posts) != 2 {
		t.Fatalf("got %d categories, %d posts, want 1, 2",
			len(fixture.Categories), len(fixture.Posts))
	}
	if got := fixture.Posts[0].Comments[0].Replies[0].UserID; got != "editor-1" {
		t.Errorf("reply user_id = %q, want editor-1", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestApplyRunsContentThroughServices(t *testing.T) {
	env := newSeedEnv(t)
	ctx := context.Background()

	fixture, err := Load(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := env.seeder.Apply(ctx, fixture); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	post, err := env.posts.GetBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if post.Status != models.StatusPublished || post.PublishedAt == nil {
		t.Errorf("post not published: status=%s publishedAt=%v", post.Status, post.PublishedAt)
	}
	if post.BodyHTML == "" || post.ReadingTime < 1 {
		t.Errorf("derived fields missing: html=%q readingTime=%d", post.BodyHTML, post.ReadingTime)
	}

	draft, err := env.posts.GetBySlug(ctx, "drafts-stay-hidden")
	if err != nil {
		t.Fatalf("GetBySlug draft: %v", err)
	}
	if draft.Status != models.StatusDraft {
		t.Errorf("draft status = %s, want draft", draft.Status)
	}

	threads, err := env.comments.Thread(ctx, post.ID)
	if err != nil {
		t.Fatalf("Thread: %v", err)
	}
	// bob's unapproved comment must not surface.
	if len(threads) != 1 {
		t.Fatalf("got %d visible threads, want 1", len(threads))
	}
	if len(threads[0].Replies) != 1 {
		t.Errorf("got %d replies, want 1", len(threads[0].Replies))
	}
}

func TestApplyUnknownCategoryFails(t *testing.T) {
	env := newSeedEnv(t)

	fixture := &Fixture{
		Posts: []PostFixture{{
			Title:    "Orphan",
			Author:   "editor-1",
			Category: "Nope",
			Body:     "body",
		}},
	}
	if err := env.seeder.Apply(context.Background(), fixture); err == nil {
		t.Fatal("Apply with unknown category succeeded")
	}
}

func TestApplyReplyToUnapprovedParentFails(t *testing.T) {
	env := newSeedEnv(t)

	fixture := &Fixture{
		Posts: []PostFixture{{
			Title:  "Moderated",
			Author: "editor-1",
			Body:   "body",
			Comments: []CommentFixture{{
				Nickname: "carol",
				Email:    "carol@example.com",
				Content:  "top",
				// not approved, so the nested reply is invalid
				Replies: []CommentFixture{{
					Nickname: "dave",
					Email:    "dave@example.com",
					Content:  "reply",
				}},
			}},
		}},
	}
	if err := env.seeder.Apply(context.Background(), fixture); err == nil {
		t.Fatal("Apply with reply under unapproved parent succeeded")
	}
}
