package ui

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/youssefsiam38/rewindpg/types"
)

// markdown renders message text previews; the UGC policy strips anything a
// conversation could smuggle into the page.
var (
	markdown = goldmark.New()
	policy   = bluemonday.UGCPolicy()
)

// renderPreview renders the first text block of a message as sanitized
// HTML, truncated to limit runes. Messages without text get a placeholder
// describing their leading block.
func renderPreview(msg *types.Message, limit int) template.HTML {
	text := previewText(msg)
	runes := []rune(text)
	if len(runes) > limit {
		text = string(runes[:limit]) + "…"
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		// Fall back to the raw text through the sanitizer.
		return template.HTML(policy.Sanitize(text))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

// previewText picks the text to preview for a message.
func previewText(msg *types.Message) string {
	if msg == nil {
		return "(end of conversation)"
	}
	for _, block := range msg.Content {
		if block.Type == types.ContentTypeText && strings.TrimSpace(block.Text) != "" {
			return block.Text
		}
	}
	if len(msg.Content) > 0 {
		return "(" + string(msg.Content[0].Type) + ")"
	}
	return "(empty message)"
}
