package rewindpg

import "time"

// SessionStartName is the reserved name of the session-start tag. User tags
// may not take this name.
const SessionStartName = "__session_start__"

// Tag is a named bookmark into the message log. There are exactly two
// variants: SessionStartTag, a pure positional marker immune to content
// drift, and Checkpoint, an ordinary user tag carrying a content
// fingerprint. Modeling the variants as separate types makes "session-start
// ignores fingerprints" a fact of the type rather than a runtime branch.
//
// Tags are immutable; the registry replaces them wholesale.
type Tag interface {
	// Name returns the tag's unique name within its registry.
	Name() string

	// Position returns the tagged index into the message sequence,
	// in [0, len(messages)] at creation time. Position == len denotes
	// "end of conversation at time of tagging".
	Position() int

	// CreatedAt returns when the tag was created. Informational only.
	CreatedAt() time.Time

	// Fingerprint returns the tag's content fingerprint or sentinel.
	Fingerprint() Fingerprint

	sealed()
}

// SessionStartTag is the reserved positional marker created at position 0
// when a session begins and whenever the log is fully cleared. It is valid
// as long as its position is in range; its fingerprint is never recomputed
// or compared, so it survives arbitrary rewrites of the message at its
// position.
type SessionStartTag struct {
	position  int
	createdAt time.Time
}

// Name returns SessionStartName.
func (t SessionStartTag) Name() string { return SessionStartName }

// Position returns the tagged index.
func (t SessionStartTag) Position() int { return t.position }

// CreatedAt returns when the tag was created.
func (t SessionStartTag) CreatedAt() time.Time { return t.createdAt }

// Fingerprint returns FingerprintSessionStart.
func (t SessionStartTag) Fingerprint() Fingerprint { return FingerprintSessionStart }

func (SessionStartTag) sealed() {}

// Checkpoint is an ordinary user-created tag. Its fingerprint is either a
// content digest of the message at its position or
// FingerprintEndOfConversation when the tag was created at the end of the
// log.
type Checkpoint struct {
	name        string
	position    int
	fingerprint Fingerprint
	createdAt   time.Time
}

// Name returns the tag's name.
func (t Checkpoint) Name() string { return t.name }

// Position returns the tagged index.
func (t Checkpoint) Position() int { return t.position }

// CreatedAt returns when the tag was created.
func (t Checkpoint) CreatedAt() time.Time { return t.createdAt }

// Fingerprint returns the content digest or FingerprintEndOfConversation.
func (t Checkpoint) Fingerprint() Fingerprint { return t.fingerprint }

func (Checkpoint) sealed() {}
