// Package memory provides a slice-backed message log for a single
// in-process session. It is the default collaborator for hosts that keep
// conversation history in memory, and the log the test suite runs against.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/rewindpg/types"
)

// Log is an in-memory, append/truncate-only message log.
//
// Like the checkpoint subsystem it serves, a Log is driven by one goroutine
// and performs no locking.
type Log struct {
	sessionID string
	messages  []*types.Message
}

// New creates an empty log for the given session.
func New(sessionID string) *Log {
	return &Log{sessionID: sessionID}
}

// Append adds messages to the tail of the log, assigning IDs and timestamps
// to messages that lack them.
func (l *Log) Append(msgs ...*types.Message) {
	now := time.Now()
	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.SessionID == "" {
			msg.SessionID = l.sessionID
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
			msg.UpdatedAt = now
		}
		l.messages = append(l.messages, msg)
	}
}

// AppendUserText appends a user message with a single text block.
func (l *Log) AppendUserText(text string) *types.Message {
	msg := &types.Message{
		Role:    types.RoleUser,
		Content: []types.ContentBlock{{Type: types.ContentTypeText, Text: text}},
	}
	l.Append(msg)
	return msg
}

// AppendAssistantText appends an assistant message with a single text block.
func (l *Log) AppendAssistantText(text string) *types.Message {
	msg := &types.Message{
		Role:    types.RoleAssistant,
		Content: []types.ContentBlock{{Type: types.ContentTypeText, Text: text}},
	}
	l.Append(msg)
	return msg
}

// Len returns the current number of messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// Messages returns a snapshot of the log. The slice is a copy; the messages
// themselves are shared and must be treated as read-only.
func (l *Log) Messages(ctx context.Context) ([]*types.Message, error) {
	snapshot := make([]*types.Message, len(l.messages))
	copy(snapshot, l.messages)
	return snapshot, nil
}

// TruncateTo removes all messages at index >= position.
func (l *Log) TruncateTo(ctx context.Context, position int) error {
	if position < 0 || position > len(l.messages) {
		return fmt.Errorf("truncate position %d not in [0, %d]", position, len(l.messages))
	}
	for i := position; i < len(l.messages); i++ {
		l.messages[i] = nil
	}
	l.messages = l.messages[:position]
	return nil
}
