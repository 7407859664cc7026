package rewindpg

import (
	"testing"

	"github.com/youssefsiam38/rewindpg/types"
)

func TestComputeFingerprint_Deterministic(t *testing.T) {
	msg := NewUserMessage("s1", "hello world")

	fp1, err := ComputeFingerprint(msg)
	if err != nil {
		t.Fatalf("ComputeFingerprint() error = %v", err)
	}
	fp2, err := ComputeFingerprint(msg)
	if err != nil {
		t.Fatalf("ComputeFingerprint() error = %v", err)
	}

	if fp1 != fp2 {
		t.Errorf("Fingerprint not deterministic: %s != %s", fp1, fp2)
	}
	if len(fp1) != 16 {
		t.Errorf("Fingerprint length = %d, want 16", len(fp1))
	}
}

func TestComputeFingerprint_ContentOnly(t *testing.T) {
	content := []ContentBlock{NewTextBlock("same content")}

	userMsg := NewMessage("s1", RoleUser, content)
	assistantMsg := NewMessage("s2", RoleAssistant, content)

	fpUser, err := ComputeFingerprint(userMsg)
	if err != nil {
		t.Fatalf("ComputeFingerprint() error = %v", err)
	}
	fpAssistant, err := ComputeFingerprint(assistantMsg)
	if err != nil {
		t.Fatalf("ComputeFingerprint() error = %v", err)
	}

	// Role, IDs, session, and timestamps differ; content does not.
	if fpUser != fpAssistant {
		t.Errorf("Fingerprint depends on metadata: %s != %s", fpUser, fpAssistant)
	}
}

func TestComputeFingerprint_Sensitivity(t *testing.T) {
	base := NewMessage("s1", RoleUser, []ContentBlock{
		NewTextBlock("first"),
		NewTextBlock("second"),
	})

	tests := []struct {
		name string
		msg  *types.Message
	}{
		{
			name: "changed text",
			msg: NewMessage("s1", RoleUser, []ContentBlock{
				NewTextBlock("first"),
				NewTextBlock("changed"),
			}),
		},
		{
			name: "reordered blocks",
			msg: NewMessage("s1", RoleUser, []ContentBlock{
				NewTextBlock("second"),
				NewTextBlock("first"),
			}),
		},
		{
			name: "extra block",
			msg: NewMessage("s1", RoleUser, []ContentBlock{
				NewTextBlock("first"),
				NewTextBlock("second"),
				NewTextBlock("third"),
			}),
		},
		{
			name: "different block type",
			msg: NewMessage("s1", RoleUser, []ContentBlock{
				NewTextBlock("first"),
				NewToolResultBlock("tu_1", "second", false),
			}),
		},
	}

	baseFp, err := ComputeFingerprint(base)
	if err != nil {
		t.Fatalf("ComputeFingerprint() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := ComputeFingerprint(tt.msg)
			if err != nil {
				t.Fatalf("ComputeFingerprint() error = %v", err)
			}
			if fp == baseFp {
				t.Errorf("Fingerprint unchanged for %s", tt.name)
			}
		})
	}
}
