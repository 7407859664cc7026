package rewindpg

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the client configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrReservedTagName is returned when creating a tag with the reserved
	// session-start name
	ErrReservedTagName = errors.New("tag name is reserved")

	// ErrPositionOutOfRange is returned when a tag position is outside
	// [0, len(messages)]
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrInvalidUndoCount is returned when an undo count is zero or negative
	ErrInvalidUndoCount = errors.New("undo count must be positive")

	// ErrTagNotFound is returned when a tag does not exist
	ErrTagNotFound = errors.New("tag not found")

	// ErrStaleTag is returned when a tag fails validation on use.
	// The tag has been evicted; the caller should re-tag.
	ErrStaleTag = errors.New("tag is stale")

	// ErrTruncateFailed is returned when the message log's truncate call
	// fails. The tag registry is left untouched when this is returned.
	ErrTruncateFailed = errors.New("message log truncate failed")

	// ErrInternal is returned when a computed truncation target falls
	// outside the log, which indicates a bug rather than bad input.
	ErrInternal = errors.New("internal error")
)

// RewindError represents an error with additional context
type RewindError struct {
	Op      string         // Operation that failed
	Err     error          // Underlying error
	TagName string         // Tag name if applicable
	Context map[string]any // Additional context
}

// Error implements the error interface
func (e *RewindError) Error() string {
	if e.TagName != "" {
		return fmt.Sprintf("%s (tag=%s): %v", e.Op, e.TagName, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RewindError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *RewindError) WithContext(key string, value any) *RewindError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewRewindError creates a new RewindError
func NewRewindError(op string, err error) *RewindError {
	return &RewindError{
		Op:  op,
		Err: err,
	}
}

// NewRewindErrorWithTag creates a new RewindError naming the tag involved
func NewRewindErrorWithTag(op string, tagName string, err error) *RewindError {
	return &RewindError{
		Op:      op,
		Err:     err,
		TagName: tagName,
	}
}
