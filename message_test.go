package rewindpg

import (
	"testing"

	"github.com/youssefsiam38/rewindpg/types"
)

func TestIsUserInput(t *testing.T) {
	tests := []struct {
		name string
		msg  *types.Message
		want bool
	}{
		{
			name: "user text message",
			msg:  NewUserMessage("s1", "hello"),
			want: true,
		},
		{
			name: "assistant message",
			msg:  NewAssistantMessage("s1", []ContentBlock{NewTextBlock("hi")}),
			want: false,
		},
		{
			name: "user message carrying a tool result",
			msg: NewMessage("s1", RoleUser, []ContentBlock{
				NewToolResultBlock("tu_1", "42", false),
			}),
			want: false,
		},
		{
			name: "user message with text and a tool result",
			msg: NewMessage("s1", RoleUser, []ContentBlock{
				NewTextBlock("here you go"),
				NewToolResultBlock("tu_1", "42", false),
			}),
			want: false,
		},
		{
			name: "user message with image",
			msg: NewMessage("s1", RoleUser, []ContentBlock{
				{Type: ContentTypeImage, ImageSource: &ImageSource{Type: "url", URL: "https://example.com/x.png"}},
			}),
			want: true,
		},
		{
			name: "nil message",
			msg:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserInput(tt.msg); got != tt.want {
				t.Errorf("IsUserInput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToolResultMessage(t *testing.T) {
	msg := ToolResultMessage("s1", NewToolResultBlock("tu_1", "result", false))

	if msg.Role != RoleUser {
		t.Errorf("Role = %v, want %v", msg.Role, RoleUser)
	}
	if IsUserInput(msg) {
		t.Error("ToolResultMessage() counted as user input")
	}
}
