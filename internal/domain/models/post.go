package models

import (
	"time"
)

// PostStatus is the publication state of a post. All transitions are
// operator-driven; there is no background scheduler. A scheduled post
// becomes visible purely through the listing predicate.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished:
		return true
	}
	return false
}

// Post is an article. BodyHTML and ReadingTime are derived from
// BodyMarkdown on every save. Slug is assigned on first save and never
// reassigned. PublishedAt is set exactly once, the first time the post
// enters the published status.
type Post struct {
	ID              string     `json:"id" db:"id"`
	Slug            string     `json:"slug" db:"slug"`
	Title           string     `json:"title" db:"title"`
	Excerpt         string     `json:"excerpt" db:"excerpt"`
	AuthorID        string     `json:"author_id" db:"author_id"`
	CategoryID      *string    `json:"category_id,omitempty" db:"category_id"`
	Tags            []string   `json:"tags" db:"tags"`
	BodyMarkdown    string     `json:"body_markdown" db:"body_markdown"`
	BodyHTML        string     `json:"body_html" db:"body_html"`
	ReadingTime     int        `json:"reading_time" db:"reading_time"`
	Status          PostStatus `json:"status" db:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty" db:"published_at"`
	IsFeatured      bool       `json:"is_featured" db:"is_featured"`
	Views           int        `json:"views" db:"views"`
	AllowComments   bool       `json:"allow_comments" db:"allow_comments"`
	MetaTitle       string     `json:"meta_title" db:"meta_title"`
	MetaDescription string     `json:"meta_description" db:"meta_description"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	Version         int        `json:"version" db:"version"`
}
