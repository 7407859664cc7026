package rewindpg

import (
	"encoding/json"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
	"github.com/youssefsiam38/rewindpg/types"
)

// FromAnthropicMessage converts an Anthropic API response message into a
// log message, so hosts that append SDK responses directly to their
// conversation can hand the same history to the checkpoint subsystem
// without reshaping it. Unknown block variants are skipped.
func FromAnthropicMessage(msg *anthropic.Message, sessionID string) *types.Message {
	content := make([]types.ContentBlock, 0, len(msg.Content))
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			content = append(content, types.ContentBlock{
				Type: types.ContentTypeText,
				Text: variant.Text,
			})
		case anthropic.ToolUseBlock:
			cb := types.ContentBlock{
				Type:      types.ContentTypeToolUse,
				ToolUseID: variant.ID,
				ToolName:  variant.Name,
			}
			if inputBytes, err := json.Marshal(variant.Input); err == nil {
				cb.ToolInputRaw = inputBytes
			}
			content = append(content, cb)
		}
	}

	now := time.Now()
	return &types.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      types.RoleAssistant,
		Content:   content,
		Metadata: map[string]any{
			"anthropic_message_id": msg.ID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ToolResultMessage builds the user-role message that carries tool results
// back to the model. Messages built this way are deliberately not user
// input: IsUserInput returns false for them, and undo-by-count skips them.
func ToolResultMessage(sessionID string, results ...types.ContentBlock) *types.Message {
	return NewMessage(sessionID, RoleUser, results)
}
