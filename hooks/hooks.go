package hooks

import (
	"context"
	"sync"
)

// UndoSummary describes a completed undo operation for hook consumers.
type UndoSummary struct {
	// Op is "undo_by_count" or "undo_by_tag".
	Op string

	// Target is the truncation position (the log's new length).
	Target int

	// MessagesRemoved is how many messages the undo dropped.
	MessagesRemoved int

	// EvictedTags lists tags removed because they pointed at or beyond Target.
	EvictedTags []string

	// NoOp is true when the log was already at the requested position.
	NoOp bool
}

// TagCreatedHook is called after a tag is created or replaced
type TagCreatedHook func(ctx context.Context, name string, position int) error

// TagEvictedHook is called after a tag is evicted, with the reason
type TagEvictedHook func(ctx context.Context, name, reason string) error

// BeforeUndoHook is called before an undo operation truncates the log
// Parameters: ctx, op ("undo_by_count"/"undo_by_tag"), arg (count or tag name)
type BeforeUndoHook func(ctx context.Context, op, arg string) error

// AfterUndoHook is called after an undo operation completes
type AfterUndoHook func(ctx context.Context, summary UndoSummary) error

// Registry holds all registered hooks.
//
// Hooks are observational: the checkpoint subsystem invokes them and
// discards their errors, so a failing hook never aborts a tag or undo
// operation.
type Registry struct {
	mu         sync.RWMutex
	tagCreated []TagCreatedHook
	tagEvicted []TagEvictedHook
	beforeUndo []BeforeUndoHook
	afterUndo  []AfterUndoHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		tagCreated: []TagCreatedHook{},
		tagEvicted: []TagEvictedHook{},
		beforeUndo: []BeforeUndoHook{},
		afterUndo:  []AfterUndoHook{},
	}
}

// OnTagCreated registers a hook to be called after tag creation
func (r *Registry) OnTagCreated(hook TagCreatedHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tagCreated = append(r.tagCreated, hook)
}

// OnTagEvicted registers a hook to be called after tag eviction
func (r *Registry) OnTagEvicted(hook TagEvictedHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tagEvicted = append(r.tagEvicted, hook)
}

// OnBeforeUndo registers a hook to be called before undo truncates the log
func (r *Registry) OnBeforeUndo(hook BeforeUndoHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeUndo = append(r.beforeUndo, hook)
}

// OnAfterUndo registers a hook to be called after undo completes
func (r *Registry) OnAfterUndo(hook AfterUndoHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterUndo = append(r.afterUndo, hook)
}

// TriggerTagCreated calls all tag-created hooks, returning the first error
func (r *Registry) TriggerTagCreated(ctx context.Context, name string, position int) error {
	r.mu.RLock()
	hooks := r.tagCreated
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, name, position); err != nil {
			return err
		}
	}
	return nil
}

// TriggerTagEvicted calls all tag-evicted hooks, returning the first error
func (r *Registry) TriggerTagEvicted(ctx context.Context, name, reason string) error {
	r.mu.RLock()
	hooks := r.tagEvicted
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, name, reason); err != nil {
			return err
		}
	}
	return nil
}

// TriggerBeforeUndo calls all before-undo hooks, returning the first error
func (r *Registry) TriggerBeforeUndo(ctx context.Context, op, arg string) error {
	r.mu.RLock()
	hooks := r.beforeUndo
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, op, arg); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterUndo calls all after-undo hooks, returning the first error
func (r *Registry) TriggerAfterUndo(ctx context.Context, summary UndoSummary) error {
	r.mu.RLock()
	hooks := r.afterUndo
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, summary); err != nil {
			return err
		}
	}
	return nil
}
