package types

import (
	"encoding/json"
	"time"
)

// Role represents the message role
type Role string

const (
	// RoleUser represents a user message
	RoleUser Role = "user"

	// RoleAssistant represents an assistant message
	RoleAssistant Role = "assistant"
)

// Message represents a conversation message.
//
// Messages are owned by the host application's message log; this module only
// ever reads them. Only Role and Content are meaningful to checkpointing;
// ID, SessionID, Metadata, and the timestamps are carried for the host and
// are ignored by fingerprinting.
type Message struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Role      Role           `json:"role"`
	Content   []ContentBlock `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ContentType represents the type of content block
type ContentType string

const (
	// ContentTypeText represents text content
	ContentTypeText ContentType = "text"

	// ContentTypeToolUse represents a tool use block
	ContentTypeToolUse ContentType = "tool_use"

	// ContentTypeToolResult represents a tool result block
	ContentTypeToolResult ContentType = "tool_result"

	// ContentTypeImage represents an image block
	ContentTypeImage ContentType = "image"

	// ContentTypeDocument represents a document block
	ContentTypeDocument ContentType = "document"
)

// ContentBlock represents a piece of content in a message
type ContentBlock struct {
	Type ContentType `json:"type"`

	// Text content
	Text string `json:"text,omitempty"`

	// Tool use content
	ToolUseID    string          `json:"id,omitempty"`
	ToolName     string          `json:"name,omitempty"`
	ToolInput    map[string]any  `json:"input,omitempty"`
	ToolInputRaw json.RawMessage `json:"input_raw,omitempty"`

	// Tool result content
	ToolResultID string `json:"tool_use_id,omitempty"`
	ToolContent  string `json:"content,omitempty"`
	IsError      bool   `json:"is_error,omitempty"`

	// Image content
	ImageSource *ImageSource `json:"source,omitempty"`

	// Document content
	DocumentSource *DocumentSource `json:"document,omitempty"`
}

// ImageSource represents an image source
type ImageSource struct {
	Type      string `json:"type"`       // "base64" or "url"
	MediaType string `json:"media_type"` // "image/jpeg", "image/png", etc.
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// DocumentSource represents a document source
type DocumentSource struct {
	Type      string `json:"type"`       // "base64"
	MediaType string `json:"media_type"` // "application/pdf"
	Data      string `json:"data"`
}
