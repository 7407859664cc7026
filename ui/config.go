package ui

// DefaultPreviewLength is the maximum preview length in runes.
const DefaultPreviewLength = 120

// Config holds UI package configuration.
type Config struct {
	// ReadOnly disables write operations (tag creation, undo).
	// Useful for monitoring-only deployments.
	ReadOnly bool

	// PreviewLength caps the message preview length in runes.
	// Defaults to 120.
	PreviewLength int
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		PreviewLength: DefaultPreviewLength,
	}
}

// applyDefaults fills in default values for zero-valued fields.
func (c *Config) applyDefaults() {
	if c.PreviewLength <= 0 {
		c.PreviewLength = DefaultPreviewLength
	}
}
