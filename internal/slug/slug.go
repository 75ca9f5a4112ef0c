// Package slug derives unique URL-safe identifiers from human-readable
// text.
//
// Normalization rules:
//  1. Lower-case everything.
//  2. Convert any run of non-[a-z0-9] characters to one "-". That
//     strips spaces, punctuation, emoji, and non-ASCII.
//  3. Collapse consecutive "-" to a single "-".
//  4. Truncate to MaxLength, then trim leading/trailing "-".
//  5. If the result is empty, use "item".
//
// Uniqueness is probed through a caller-supplied existence check
// scoped to the entity's own collection. The probe is a sequential
// linear scan: base, base-1, base-2, ... It narrows but does not close
// the race window between concurrent writers; the storage layer's
// unique constraint is the final arbiter and loses surface as a
// conflict error at save time.
package slug

import (
	"context"
	"fmt"
	"strings"
)

// MaxLength caps the base slug before any numeric suffix.
const MaxLength = 50

// Fallback replaces slugs whose source normalizes to nothing, e.g. a
// punctuation-only title.
const Fallback = "item"

// ExistsFunc reports whether a candidate slug is already taken within
// the caller's collection. When re-slugging an existing entity the
// caller must exclude the entity's own record.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Normalize converts source text into a URL-safe token. The result
// matches [a-z0-9-]+ and never exceeds MaxLength.
func Normalize(source string) string {
	var b strings.Builder
	b.Grow(len(source))

	lastWasDash := false
	for _, r := range strings.ToLower(source) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	s := b.String()
	if len(s) > MaxLength {
		s = s[:MaxLength]
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// Assign produces a unique slug for source, probing exists with the
// normalized base and then base-1, base-2, ... until a free candidate
// is found. The same source against a free namespace always yields the
// same slug.
func Assign(ctx context.Context, source string, exists ExistsFunc) (string, error) {
	base := Normalize(source)
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
