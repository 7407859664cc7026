package rewindpg

import (
	"fmt"
	"sort"
	"time"

	"github.com/youssefsiam38/rewindpg/types"
)

// Registry owns the name→Tag mapping for one conversation session. It
// creates, validates, enumerates, and evicts tags. It holds no disk state
// and lives exactly as long as the session.
//
// A Registry is driven by a single goroutine (the interactive session) and
// performs no locking. Validation is lazy: tags are checked when listed or
// used, never on log appends, so appending stays free of hashing cost.
type Registry struct {
	tags    map[string]*tagEntry
	nextSeq uint64
	counter uint64
	now     func() time.Time
}

// tagEntry pairs a tag with its insertion sequence, which breaks position
// ties in ListTags deterministically.
type tagEntry struct {
	tag Tag
	seq uint64
}

// NewRegistry creates an empty tag registry.
func NewRegistry() *Registry {
	return &Registry{
		tags: make(map[string]*tagEntry),
		now:  time.Now,
	}
}

// insert stores a tag under its name, replacing any previous holder.
func (r *Registry) insert(tag Tag) {
	r.nextSeq++
	r.tags[tag.Name()] = &tagEntry{tag: tag, seq: r.nextSeq}
}

// CreateSessionStart unconditionally (re)creates the reserved session-start
// tag at the given position. It is called once when a session initializes
// and again whenever the log is fully cleared. It never fails.
func (r *Registry) CreateSessionStart(position int) {
	r.insert(SessionStartTag{
		position:  position,
		createdAt: r.now(),
	})
}

// SetTag creates or replaces the tag named name at position, fingerprinting
// the message there (or recording an end-of-conversation fingerprint when
// position equals the log length).
//
// It fails with ErrReservedTagName if name is the reserved session-start
// name and with ErrPositionOutOfRange if position is outside
// [0, len(messages)]. Nothing is mutated on failure.
func (r *Registry) SetTag(name string, position int, messages []*types.Message) error {
	if name == SessionStartName {
		return fmt.Errorf("%w: %q", ErrReservedTagName, name)
	}
	if position < 0 || position > len(messages) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPositionOutOfRange, position, len(messages))
	}

	fingerprint := FingerprintEndOfConversation
	if position < len(messages) {
		fp, err := ComputeFingerprint(messages[position])
		if err != nil {
			return fmt.Errorf("fingerprint message at %d: %w", position, err)
		}
		fingerprint = fp
	}

	r.insert(Checkpoint{
		name:        name,
		position:    position,
		fingerprint: fingerprint,
		createdAt:   r.now(),
	})
	return nil
}

// GenerateTag creates a tag like SetTag but synthesizes a unique name from
// the registry's monotonic counter (tag_1, tag_2, ...). The counter never
// resets and never reuses a number, even after tags are removed.
func (r *Registry) GenerateTag(position int, messages []*types.Message) (string, error) {
	r.counter++
	name := fmt.Sprintf("tag_%d", r.counter)
	if err := r.SetTag(name, position, messages); err != nil {
		return "", err
	}
	return name, nil
}

// GetTag returns the tag named name, or false if absent.
func (r *Registry) GetTag(name string) (Tag, bool) {
	entry, ok := r.tags[name]
	if !ok {
		return nil, false
	}
	return entry.tag, true
}

// ListTags returns all tags sorted ascending by position, ties broken by
// insertion order. It does not validate; see Validate.
func (r *Registry) ListTags() []Tag {
	entries := r.sortedEntries()
	tags := make([]Tag, len(entries))
	for i, e := range entries {
		tags[i] = e.tag
	}
	return tags
}

// RemoveTag removes the tag named name. It returns false if no such tag
// exists; removing an absent tag is not an error.
func (r *Registry) RemoveTag(name string) bool {
	if _, ok := r.tags[name]; !ok {
		return false
	}
	delete(r.tags, name)
	return true
}

// RemoveTagsBeyond removes every tag whose position is at or beyond
// maxPosition and returns the removed names in position order. It is called
// after a truncate to maxPosition: a tag exactly at the boundary points at
// a message that no longer exists.
func (r *Registry) RemoveTagsBeyond(maxPosition int) []string {
	var removed []string
	for _, e := range r.sortedEntries() {
		if e.tag.Position() >= maxPosition {
			removed = append(removed, e.tag.Name())
			delete(r.tags, e.tag.Name())
		}
	}
	return removed
}

// ClearUserTags removes every tag except the session-start tag and returns
// how many were removed.
func (r *Registry) ClearUserTags() int {
	count := 0
	for name, e := range r.tags {
		if _, special := e.tag.(SessionStartTag); special {
			continue
		}
		delete(r.tags, name)
		count++
	}
	return count
}

// Validate checks a tag against the current message snapshot and returns
// nil if it is still valid. It never mutates the registry; callers decide
// whether to evict on failure.
//
// A tag in any variant is invalid outside [0, len(messages)]. A
// session-start tag is otherwise always valid. A checkpoint is valid when
// its position equals the current length (the log grew past it but never
// shrank below it), or when its fingerprint matches the recomputed digest
// of the message at its position.
func (r *Registry) Validate(tag Tag, messages []*types.Message) error {
	pos := tag.Position()
	if pos < 0 || pos > len(messages) {
		return fmt.Errorf("%w: position %d not in [0, %d]", ErrStaleTag, pos, len(messages))
	}

	if _, special := tag.(SessionStartTag); special {
		return nil
	}

	if pos == len(messages) {
		return nil
	}

	if tag.Fingerprint() == FingerprintEndOfConversation {
		return fmt.Errorf("%w: end-of-conversation tag at %d but log has %d messages",
			ErrStaleTag, pos, len(messages))
	}

	fp, err := ComputeFingerprint(messages[pos])
	if err != nil {
		return fmt.Errorf("fingerprint message at %d: %w", pos, err)
	}
	if fp != tag.Fingerprint() {
		return fmt.Errorf("%w: message at %d changed since tagging", ErrStaleTag, pos)
	}
	return nil
}

// sortedEntries returns the entries ordered by position, then insertion
// sequence.
func (r *Registry) sortedEntries() []*tagEntry {
	entries := make([]*tagEntry, 0, len(r.tags))
	for _, e := range r.tags {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].tag.Position() != entries[j].tag.Position() {
			return entries[i].tag.Position() < entries[j].tag.Position()
		}
		return entries[i].seq < entries[j].seq
	})
	return entries
}
