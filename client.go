package rewindpg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/youssefsiam38/rewindpg/hooks"
	"github.com/youssefsiam38/rewindpg/msglog"
)

// Client is the command-layer surface of the checkpoint subsystem. It owns
// a tag registry and an undo engine over one conversation's message log,
// and is what a host application's command handlers (a "/tag" or "/undo"
// command, a UI button) call into.
//
// A Client serves one session and is driven by a single goroutine; it
// performs no locking. Tags live only as long as the Client.
type Client struct {
	log      msglog.MessageLog
	registry *Registry
	engine   *Engine
	hooks    *hooks.Registry
}

// New creates a Client over the given message log. The session-start tag is
// created at position 0 immediately.
//
// Example:
//
//	log := memory.New(sessionID)
//	client, err := rewindpg.New(log,
//	    rewindpg.WithHooks(hks),
//	)
func New(log msglog.MessageLog, opts ...Option) (*Client, error) {
	if log == nil {
		return nil, NewRewindError("New", fmt.Errorf("%w: message log is required", ErrInvalidConfig))
	}

	c := &Client{
		log:      log,
		registry: NewRegistry(),
		hooks:    hooks.NewRegistry(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.engine = NewEngine(log, c.registry, c.hooks)
	c.registry.CreateSessionStart(0)
	return c, nil
}

// Registry returns the client's tag registry, for hosts that need direct
// access (clearing user tags, removing a single tag).
func (c *Client) Registry() *Registry {
	return c.registry
}

// Messages returns the current snapshot of the underlying message log.
func (c *Client) Messages(ctx context.Context) ([]*Message, error) {
	return c.log.Messages(ctx)
}

// CreateTag creates a tag and returns its name. Without options it tags the
// current end of the conversation under a generated anonymous name; use
// WithName and WithPosition to override.
func (c *Client) CreateTag(ctx context.Context, opts ...TagOption) (string, error) {
	const op = "create_tag"

	var cfg tagConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	messages, err := c.log.Messages(ctx)
	if err != nil {
		return "", NewRewindError(op, fmt.Errorf("read message log: %w", err))
	}

	position := len(messages)
	if cfg.position != nil {
		position = *cfg.position
	}

	name := cfg.name
	if name == "" {
		name, err = c.registry.GenerateTag(position, messages)
	} else {
		err = c.registry.SetTag(name, position, messages)
	}
	if err != nil {
		return "", NewRewindErrorWithTag(op, name, err)
	}

	_ = c.hooks.TriggerTagCreated(ctx, name, position)
	return name, nil
}

// Undo dispatches on its argument: a positive integer undoes that many
// user-input messages, anything else is treated as a tag name to roll back
// to.
func (c *Client) Undo(ctx context.Context, arg string) (*UndoResult, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil && n > 0 {
		return c.engine.UndoByCount(ctx, n)
	}
	return c.engine.UndoByTag(ctx, arg)
}

// UndoByCount removes the n most recent user-input messages. See
// Engine.UndoByCount.
func (c *Client) UndoByCount(ctx context.Context, n int) (*UndoResult, error) {
	return c.engine.UndoByCount(ctx, n)
}

// UndoByTag rolls the log back to a named tag, keeping the tagged message.
// See Engine.UndoByTag.
func (c *Client) UndoByTag(ctx context.Context, name string) (*UndoResult, error) {
	return c.engine.UndoByTag(ctx, name)
}

// EvictedTag describes a tag removed during listing because it failed
// validation.
type EvictedTag struct {
	Name   string
	Reason string
}

// TagListing is the result of ListTags: the surviving tags in position
// order, plus whatever the listing evicted.
type TagListing struct {
	Tags    []Tag
	Evicted []EvictedTag
}

// ListTags validates every tag against the current log, evicts the invalid
// ones, and returns the survivors sorted ascending by position. Eviction on
// listing is the lazy half of validation: tags are never checked on log
// appends, only here and on use.
func (c *Client) ListTags(ctx context.Context) (*TagListing, error) {
	const op = "list_tags"

	messages, err := c.log.Messages(ctx)
	if err != nil {
		return nil, NewRewindError(op, fmt.Errorf("read message log: %w", err))
	}

	listing := &TagListing{}
	for _, tag := range c.registry.ListTags() {
		if verr := c.registry.Validate(tag, messages); verr != nil {
			c.registry.RemoveTag(tag.Name())
			_ = c.hooks.TriggerTagEvicted(ctx, tag.Name(), verr.Error())
			listing.Evicted = append(listing.Evicted, EvictedTag{Name: tag.Name(), Reason: verr.Error()})
			continue
		}
		listing.Tags = append(listing.Tags, tag)
	}
	return listing, nil
}
