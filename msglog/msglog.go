// Package msglog defines the message-log contract the checkpoint subsystem
// consumes.
//
// The log itself belongs to the host application (the agent or session that
// owns the conversation); this package only specifies the two operations
// checkpointing needs: an ordered snapshot of the messages and a tail
// truncate. Implementations for common hosts live in the memory, pgxv5, and
// databasesql subpackages.
package msglog

import (
	"context"

	"github.com/youssefsiam38/rewindpg/types"
)

// MessageLog is the consumed contract over a conversation's message log.
type MessageLog interface {
	// Messages returns an ordered snapshot of all messages currently in
	// the conversation. The returned slice must not be mutated by the
	// caller and must not alias the log's internal state in a way that a
	// later truncate would corrupt.
	Messages(ctx context.Context) ([]*types.Message, error)

	// TruncateTo removes all messages at index >= position, leaving
	// exactly position messages. Positions in [0, len] are legal; any
	// other input must fail cleanly with no partial effect. Truncation
	// must be atomic: no interleaved append may observe a half-truncated
	// log.
	TruncateTo(ctx context.Context, position int) error
}
