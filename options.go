package rewindpg

import (
	"time"

	"github.com/youssefsiam38/rewindpg/hooks"
)

// Option is a functional option for configuring a Client
type Option func(*Client) error

// WithHooks sets the hook registry used for observability callbacks
func WithHooks(hks *hooks.Registry) Option {
	return func(c *Client) error {
		if hks == nil {
			return NewRewindError("WithHooks", ErrInvalidConfig)
		}
		c.hooks = hks
		return nil
	}
}

// WithClock overrides the clock used for tag creation timestamps.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return NewRewindError("WithClock", ErrInvalidConfig)
		}
		c.registry.now = now
		return nil
	}
}

// TagOption is a functional option for Client.CreateTag
type TagOption func(*tagConfig)

// tagConfig holds the resolved CreateTag parameters.
type tagConfig struct {
	name     string
	position *int
}

// WithName names the tag instead of generating an anonymous name
func WithName(name string) TagOption {
	return func(cfg *tagConfig) {
		cfg.name = name
	}
}

// WithPosition tags the given position instead of the current log length
func WithPosition(position int) TagOption {
	return func(cfg *tagConfig) {
		cfg.position = &position
	}
}
