package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidParent = errors.New("invalid parent comment")
)

// Domain error types carrying user-facing detail
type (
	// ValidationError indicates malformed or incomplete input
	ValidationError struct {
		Message string
	}

	// InvalidParentError indicates a comment threading violation:
	// missing parent, cross-post parent, reply depth, or an
	// unapproved parent.
	InvalidParentError struct {
		Message string
	}
)

func (e *ValidationError) Error() string    { return e.Message }
func (e *InvalidParentError) Error() string { return e.Message }

// Is allows errors.Is() to match against the sentinels
func (e *ValidationError) Is(target error) bool    { return target == ErrValidation }
func (e *InvalidParentError) Is(target error) bool { return target == ErrInvalidParent }

// ConflictError represents a uniqueness race lost at the storage
// boundary, with details about the conflicting resource.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (post, category, comment)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
