package models

import (
	"time"
)

// Comment is a reader comment on a post. Threading is limited to two
// levels: a comment either is top-level (ParentID nil) or replies to a
// top-level comment. Exactly one author identity form is present:
// an authenticated UserID, or a guest Nickname+Email pair.
//
// Comments are created unapproved and become visible only through an
// explicit moderation action. Content is never rendered as HTML.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	PostID     string    `json:"post_id" db:"post_id"`
	ParentID   *string   `json:"parent_id,omitempty" db:"parent_id"`
	UserID     *string   `json:"user_id,omitempty" db:"user_id"`
	Nickname   string    `json:"nickname" db:"nickname"`
	Email      string    `json:"email" db:"email"`
	Content    string    `json:"content" db:"content"`
	IsApproved bool      `json:"is_approved" db:"is_approved"`
	IP         string    `json:"ip" db:"ip"`
	UserAgent  string    `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsReply reports whether the comment is a second-level reply.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentThread is a top-level comment with its replies, as presented
// to readers: both levels hold approved comments only, ordered by
// creation time ascending.
type CommentThread struct {
	Comment Comment   `json:"comment"`
	Replies []Comment `json:"replies"`
}
