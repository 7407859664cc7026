package rewindpg

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/youssefsiam38/rewindpg/hooks"
	"github.com/youssefsiam38/rewindpg/msglog"
	"github.com/youssefsiam38/rewindpg/types"
)

// UndoResult reports what an undo operation did.
type UndoResult struct {
	// MessagesRemoved is how many messages were dropped from the log.
	MessagesRemoved int

	// NewLength is the log's length after the operation.
	NewLength int

	// EvictedTags lists tags removed because they pointed at or beyond
	// the truncation target, in position order. The tag restored to by
	// an undo-by-tag is never in this list.
	EvictedTags []string

	// NoOp is true when the log was already at the requested position
	// and nothing was truncated.
	NoOp bool
}

// Engine computes truncation targets and applies them: it reads a snapshot
// from the message log, truncates, then reconciles the tag registry. It is
// the only part of the subsystem that mutates anything outside the
// registry, and the truncate call is its single external mutation.
//
// Ordering guarantee: the log truncate is attempted before any registry
// cleanup, so a failed truncate leaves the tag set byte-for-byte unchanged.
type Engine struct {
	log      msglog.MessageLog
	registry *Registry
	hooks    *hooks.Registry
}

// NewEngine creates an undo engine over the given log and registry.
// The hook registry may be nil.
func NewEngine(log msglog.MessageLog, registry *Registry, hks *hooks.Registry) *Engine {
	if hks == nil {
		hks = hooks.NewRegistry()
	}
	return &Engine{
		log:      log,
		registry: registry,
		hooks:    hks,
	}
}

// UndoByCount removes the n most recent user-input messages and everything
// after each of them. Messages that merely carry tool results through the
// user role are not user input and are skipped when counting. If n is at
// least the number of user-input messages the whole log is cleared and the
// session-start tag is recreated at position 0.
func (e *Engine) UndoByCount(ctx context.Context, n int) (*UndoResult, error) {
	const op = "undo_by_count"

	if n <= 0 {
		return nil, NewRewindError(op, fmt.Errorf("%w: got %d", ErrInvalidUndoCount, n))
	}

	messages, err := e.log.Messages(ctx)
	if err != nil {
		return nil, NewRewindError(op, fmt.Errorf("read message log: %w", err))
	}

	// Positions of user-input messages, most recent first.
	var positions []int
	for i := len(messages) - 1; i >= 0; i-- {
		if IsUserInput(messages[i]) {
			positions = append(positions, i)
		}
	}

	target := 0
	if n < len(positions) {
		target = positions[n-1]
	}

	_ = e.hooks.TriggerBeforeUndo(ctx, op, strconv.Itoa(n))

	result, err := e.truncateAndReconcile(ctx, op, target, messages)
	if err != nil {
		return nil, err
	}

	_ = e.hooks.TriggerAfterUndo(ctx, summarize(op, target, result))
	return result, nil
}

// UndoByTag rolls the log back to a named tag. The tagged message itself is
// kept; everything after it is dropped. A tag that fails validation is
// evicted eagerly and the failure is reported so the user can re-tag.
func (e *Engine) UndoByTag(ctx context.Context, name string) (*UndoResult, error) {
	const op = "undo_by_tag"

	messages, err := e.log.Messages(ctx)
	if err != nil {
		return nil, NewRewindErrorWithTag(op, name, fmt.Errorf("read message log: %w", err))
	}

	tag, ok := e.registry.GetTag(name)
	if !ok {
		return nil, NewRewindErrorWithTag(op, name, ErrTagNotFound)
	}

	if verr := e.registry.Validate(tag, messages); verr != nil {
		// The user explicitly tried to use a stale tag; this is the one
		// place eviction is eager rather than lazy.
		e.registry.RemoveTag(name)
		_ = e.hooks.TriggerTagEvicted(ctx, name, verr.Error())
		return nil, NewRewindErrorWithTag(op, name, verr)
	}

	if tag.Position() == len(messages) {
		// Already there; nothing to truncate.
		result := &UndoResult{NewLength: len(messages), NoOp: true}
		_ = e.hooks.TriggerAfterUndo(ctx, summarize(op, len(messages), result))
		return result, nil
	}

	// Undo-to-tag is inclusive: the tagged message survives.
	target := tag.Position() + 1

	_ = e.hooks.TriggerBeforeUndo(ctx, op, name)

	result, err := e.truncateAndReconcile(ctx, op, target, messages)
	if err != nil {
		return nil, err
	}

	_ = e.hooks.TriggerAfterUndo(ctx, summarize(op, target, result))
	return result, nil
}

// truncateAndReconcile truncates the log to target, then evicts tags the
// truncation stranded and recreates the session-start tag if the log is now
// empty. The registry is not touched unless the truncate succeeded.
func (e *Engine) truncateAndReconcile(ctx context.Context, op string, target int, messages []*types.Message) (*UndoResult, error) {
	if target < 0 || target > len(messages) {
		// By construction this cannot happen; a violation means the
		// target computation is broken, not that the input was bad.
		return nil, NewRewindError(op, fmt.Errorf("%w: computed target %d outside [0, %d]",
			ErrInternal, target, len(messages)))
	}

	if err := e.log.TruncateTo(ctx, target); err != nil {
		return nil, NewRewindError(op, fmt.Errorf("%w: truncate to %d: %v", ErrTruncateFailed, target, err))
	}

	evicted := e.registry.RemoveTagsBeyond(target)
	for _, name := range evicted {
		_ = e.hooks.TriggerTagEvicted(ctx, name, fmt.Sprintf("log truncated to %d", target))
	}
	if target == 0 {
		e.registry.CreateSessionStart(0)
	}

	return &UndoResult{
		MessagesRemoved: len(messages) - target,
		NewLength:       target,
		EvictedTags:     evicted,
	}, nil
}

// summarize converts an UndoResult into the hooks payload.
func summarize(op string, target int, r *UndoResult) hooks.UndoSummary {
	return hooks.UndoSummary{
		Op:              op,
		Target:          target,
		MessagesRemoved: r.MessagesRemoved,
		EvictedTags:     r.EvictedTags,
		NoOp:            r.NoOp,
	}
}

// IsStale reports whether err is a stale-tag failure, after unwrapping.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleTag)
}
