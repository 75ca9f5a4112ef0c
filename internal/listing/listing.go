// Package listing defines the canonical ordering and filter predicates
// used when presenting collections of posts. Predicates are plain
// functions over post values and compose by conjunction, independent
// of any storage engine.
package listing

import (
	"sort"
	"strings"
	"time"

	"inkwell/internal/domain/models"
)

// Predicate selects posts from a collection.
type Predicate func(post *models.Post) bool

// Published is the liveness predicate: status is published and the
// publication time has arrived. Both conditions are checked on
// purpose. A post labeled scheduled stays hidden even when its target
// time has passed, and a published post whose timestamp was manually
// pushed into the future stays hidden until then.
func Published(now time.Time) Predicate {
	return func(post *models.Post) bool {
		return post.Status == models.StatusPublished &&
			post.PublishedAt != nil &&
			!post.PublishedAt.After(now)
	}
}

// InCategory selects posts in the given category.
func InCategory(categoryID string) Predicate {
	return func(post *models.Post) bool {
		return post.CategoryID != nil && *post.CategoryID == categoryID
	}
}

// Tagged selects posts carrying the given tag, case-insensitively.
func Tagged(tag string) Predicate {
	return func(post *models.Post) bool {
		for _, t := range post.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
		return false
	}
}

// InYear selects posts published within the given calendar year.
func InYear(year int) Predicate {
	return func(post *models.Post) bool {
		return post.PublishedAt != nil && post.PublishedAt.UTC().Year() == year
	}
}

// Matching selects posts whose title or markdown source contains the
// query, case-insensitively. An empty query matches everything.
func Matching(query string) Predicate {
	query = strings.ToLower(strings.TrimSpace(query))
	return func(post *models.Post) bool {
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(post.Title), query) ||
			strings.Contains(strings.ToLower(post.BodyMarkdown), query)
	}
}

// Filter returns the posts satisfying every predicate, preserving
// input order.
func Filter(posts []models.Post, preds ...Predicate) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		keep := true
		for _, pred := range preds {
			if !pred(&posts[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, posts[i])
		}
	}
	return out
}

// FeaturedFirst returns a sorted copy: featured posts before the rest,
// then publication time descending with unpublished timestamps last,
// then ID descending so the newest record wins timestamp ties. The
// sort is stable.
func FeaturedFirst(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			// fall through to ID tie-break
		case a.PublishedAt == nil:
			return false
		case b.PublishedAt == nil:
			return true
		case !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return a.ID > b.ID
	})
	return out
}
