package rewindpg

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/youssefsiam38/rewindpg/types"
)

// Fingerprint identifies the content of a tagged message. It is either a
// short content digest or one of the two sentinel values below. It is a
// change detector, not a security primitive.
type Fingerprint string

const (
	// FingerprintEndOfConversation marks a tag created at the end of the
	// conversation (position == length at creation time). Such a tag stays
	// valid as the log grows; only shrinking below it invalidates it.
	FingerprintEndOfConversation Fingerprint = "END_OF_CONVERSATION"

	// FingerprintSessionStart is the fingerprint of the reserved
	// session-start tag. It is never recomputed or compared.
	FingerprintSessionStart Fingerprint = "SESSION_START"
)

// fingerprintHexLen is the length of a content digest in hex characters.
const fingerprintHexLen = 16

// ComputeFingerprint returns the content-only fingerprint of a message.
//
// Only msg.Content participates: role, IDs, metadata, and timestamps are
// excluded, so the same content hashes identically regardless of who said it
// or when it arrived. The content blocks are serialized with encoding/json
// (fixed struct field order, sorted map keys) and hashed with SHA-256,
// truncated to 16 hex characters. Any difference in blocks, including their
// order, produces a different digest.
func ComputeFingerprint(msg *types.Message) (Fingerprint, error) {
	data, err := json.Marshal(msg.Content)
	if err != nil {
		return "", fmt.Errorf("marshal message content: %w", err)
	}

	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:])[:fingerprintHexLen]), nil
}
