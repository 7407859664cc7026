package memory

import (
	"context"
	"testing"

	"github.com/youssefsiam38/rewindpg/types"
)

func TestAppendAssignsIdentity(t *testing.T) {
	log := New("session-1")

	msg := &types.Message{
		Role:    types.RoleUser,
		Content: []types.ContentBlock{{Type: types.ContentTypeText, Text: "hi"}},
	}
	log.Append(msg)

	if msg.ID == "" {
		t.Error("Append() did not assign an ID")
	}
	if msg.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want %q", msg.SessionID, "session-1")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Append() did not assign CreatedAt")
	}
}

func TestMessagesSnapshot(t *testing.T) {
	log := New("session-1")
	ctx := context.Background()

	log.AppendUserText("one")
	log.AppendAssistantText("two")

	snapshot, err := log.Messages(ctx)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("snapshot length = %d, want 2", len(snapshot))
	}

	// Truncating after the snapshot must not corrupt it.
	if err := log.TruncateTo(ctx, 0); err != nil {
		t.Fatalf("TruncateTo() error = %v", err)
	}
	if snapshot[0] == nil || snapshot[1] == nil {
		t.Error("snapshot aliased the log's backing array")
	}
	if log.Len() != 0 {
		t.Errorf("Len() = %d, want 0", log.Len())
	}
}

func TestTruncateTo(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		position int
		wantErr  bool
		wantLen  int
	}{
		{"drop tail", 1, false, 1},
		{"full clear", 0, false, 0},
		{"whole length is legal", 3, false, 3},
		{"negative", -1, true, 3},
		{"past end", 4, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New("session-1")
			log.AppendUserText("a")
			log.AppendAssistantText("b")
			log.AppendUserText("c")

			err := log.TruncateTo(ctx, tt.position)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TruncateTo(%d) error = %v, wantErr %v", tt.position, err, tt.wantErr)
			}
			if log.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", log.Len(), tt.wantLen)
			}
		})
	}
}
