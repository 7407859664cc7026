package hooks

import (
	"context"
	"log"
	"strings"
)

// LoggingHooks provides built-in logging hooks for observability
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with default logger
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// Register attaches the logging hooks to a registry
func (h *LoggingHooks) Register(r *Registry) {
	r.OnTagCreated(h.TagCreated)
	r.OnTagEvicted(h.TagEvicted)
	r.OnBeforeUndo(h.BeforeUndo)
	r.OnAfterUndo(h.AfterUndo)
}

// TagCreated logs tag creation
func (h *LoggingHooks) TagCreated(ctx context.Context, name string, position int) error {
	h.logger.Printf("[RewindPG] Tag %q created at position %d", name, position)
	return nil
}

// TagEvicted logs tag eviction
func (h *LoggingHooks) TagEvicted(ctx context.Context, name, reason string) error {
	h.logger.Printf("[RewindPG] Tag %q evicted: %s", name, reason)
	return nil
}

// BeforeUndo logs before an undo truncates the log
func (h *LoggingHooks) BeforeUndo(ctx context.Context, op, arg string) error {
	h.logger.Printf("[RewindPG] Starting %s (%s)", op, arg)
	return nil
}

// AfterUndo logs the result of an undo operation
func (h *LoggingHooks) AfterUndo(ctx context.Context, summary UndoSummary) error {
	if summary.NoOp {
		h.logger.Printf("[RewindPG] %s: already at position %d, nothing to do", summary.Op, summary.Target)
		return nil
	}
	evicted := "none"
	if len(summary.EvictedTags) > 0 {
		evicted = strings.Join(summary.EvictedTags, ", ")
	}
	h.logger.Printf("[RewindPG] %s complete: %d messages removed, log at %d, tags evicted: %s",
		summary.Op, summary.MessagesRemoved, summary.Target, evicted)
	return nil
}
