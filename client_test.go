package rewindpg

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/youssefsiam38/rewindpg/hooks"
	"github.com/youssefsiam38/rewindpg/msglog/memory"
)

func newClientFixture(t *testing.T) (*memory.Log, *Client) {
	t.Helper()

	mlog := memory.New("test-session")
	client, err := New(mlog)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return mlog, client
}

func TestNew_RequiresLog(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestNew_CreatesSessionStart(t *testing.T) {
	_, client := newClientFixture(t)

	tag, ok := client.Registry().GetTag(SessionStartName)
	if !ok {
		t.Fatal("session start tag missing after New()")
	}
	if tag.Position() != 0 {
		t.Errorf("session start position = %d, want 0", tag.Position())
	}
}

func TestCreateTag_Defaults(t *testing.T) {
	mlog, client := newClientFixture(t)
	ctx := context.Background()

	mlog.AppendUserText("hello")
	mlog.AppendAssistantText("hi")

	name, err := client.CreateTag(ctx)
	if err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	if name != "tag_1" {
		t.Errorf("generated name = %q, want %q", name, "tag_1")
	}

	tag, ok := client.Registry().GetTag(name)
	if !ok {
		t.Fatal("created tag not found")
	}
	// Defaults to the current end of the conversation.
	if tag.Position() != 2 {
		t.Errorf("Position() = %d, want 2", tag.Position())
	}
	if tag.Fingerprint() != FingerprintEndOfConversation {
		t.Errorf("Fingerprint() = %v, want end-of-conversation", tag.Fingerprint())
	}
}

func TestCreateTag_NamedAtPosition(t *testing.T) {
	mlog, client := newClientFixture(t)
	ctx := context.Background()

	mlog.AppendUserText("hello")
	mlog.AppendAssistantText("hi")

	name, err := client.CreateTag(ctx, WithName("mark"), WithPosition(1))
	if err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	if name != "mark" {
		t.Errorf("name = %q, want %q", name, "mark")
	}

	tag, _ := client.Registry().GetTag("mark")
	if tag.Position() != 1 {
		t.Errorf("Position() = %d, want 1", tag.Position())
	}
}

func TestCreateTag_Invalid(t *testing.T) {
	mlog, client := newClientFixture(t)
	ctx := context.Background()

	mlog.AppendUserText("hello")

	tests := []struct {
		name    string
		opts    []TagOption
		wantErr error
	}{
		{"reserved name", []TagOption{WithName(SessionStartName)}, ErrReservedTagName},
		{"negative position", []TagOption{WithPosition(-1)}, ErrPositionOutOfRange},
		{"position past end", []TagOption{WithPosition(2)}, ErrPositionOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.CreateTag(ctx, tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateTag() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUndo_Dispatch(t *testing.T) {
	mlog, client := newClientFixture(t)
	ctx := context.Background()

	mlog.AppendUserText("one")
	mlog.AppendAssistantText("reply one")
	mlog.AppendUserText("two")
	mlog.AppendAssistantText("reply two")

	if _, err := client.CreateTag(ctx, WithName("cut"), WithPosition(1)); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}

	// A positive integer is a count.
	result, err := client.Undo(ctx, "1")
	if err != nil {
		t.Fatalf("Undo(\"1\") error = %v", err)
	}
	if result.NewLength != 2 {
		t.Errorf("NewLength = %d, want 2", result.NewLength)
	}

	// Anything else is a tag name.
	result, err = client.Undo(ctx, "cut")
	if err != nil {
		t.Fatalf("Undo(\"cut\") error = %v", err)
	}
	if result.NewLength != 2 {
		t.Errorf("NewLength after undo-to-tag = %d, want 2", result.NewLength)
	}

	// A numeric-looking but non-positive argument is a tag name lookup.
	if _, err := client.Undo(ctx, "0"); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("Undo(\"0\") error = %v, want ErrTagNotFound", err)
	}
}

func TestListTags_EvictsStale(t *testing.T) {
	mlog, client := newClientFixture(t)
	ctx := context.Background()

	mlog.AppendUserText("hello")
	mlog.AppendAssistantText("hi")

	if _, err := client.CreateTag(ctx, WithName("good"), WithPosition(0)); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	if _, err := client.CreateTag(ctx, WithName("bad"), WithPosition(1)); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}

	// Rewrite the message under "bad".
	if err := mlog.TruncateTo(ctx, 1); err != nil {
		t.Fatalf("TruncateTo() error = %v", err)
	}
	mlog.AppendAssistantText("something else")

	listing, err := client.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}

	if len(listing.Evicted) != 1 || listing.Evicted[0].Name != "bad" {
		t.Errorf("Evicted = %v, want [bad]", listing.Evicted)
	}
	if listing.Evicted != nil && !strings.Contains(listing.Evicted[0].Reason, "changed") {
		t.Errorf("eviction reason = %q, want content-change explanation", listing.Evicted[0].Reason)
	}

	names := make([]string, len(listing.Tags))
	for i, tag := range listing.Tags {
		names[i] = tag.Name()
	}
	if len(names) != 2 || names[0] != SessionStartName || names[1] != "good" {
		t.Errorf("surviving tags = %v, want [%s good]", names, SessionStartName)
	}

	// The eviction is permanent, not just filtered from the listing.
	if _, ok := client.Registry().GetTag("bad"); ok {
		t.Error("stale tag still in registry after listing")
	}
}

func TestWithClock(t *testing.T) {
	mlog := memory.New("test-session")
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	client, err := New(mlog, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	name, err := client.CreateTag(context.Background())
	if err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	tag, _ := client.Registry().GetTag(name)
	if !tag.CreatedAt().Equal(fixed) {
		t.Errorf("CreatedAt() = %v, want %v", tag.CreatedAt(), fixed)
	}
}

func TestWithHooks(t *testing.T) {
	mlog := memory.New("test-session")
	hks := hooks.NewRegistry()

	var created []string
	hks.OnTagCreated(func(ctx context.Context, name string, position int) error {
		created = append(created, name)
		return nil
	})

	var evicted []string
	hks.OnTagEvicted(func(ctx context.Context, name, reason string) error {
		evicted = append(evicted, name)
		return nil
	})

	client, err := New(mlog, WithHooks(hks))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	mlog.AppendUserText("hello")
	mlog.AppendAssistantText("hi")

	if _, err := client.CreateTag(ctx, WithName("a"), WithPosition(1)); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	if len(created) != 1 || created[0] != "a" {
		t.Errorf("created hook calls = %v, want [a]", created)
	}

	// Undoing the only user message clears the log, evicting both the
	// user tag and the session-start tag (which is then recreated).
	if _, err := client.Undo(ctx, "1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if len(evicted) != 2 || evicted[0] != SessionStartName || evicted[1] != "a" {
		t.Errorf("evicted hook calls = %v, want [%s a]", evicted, SessionStartName)
	}
}

func TestHookErrorsAreAdvisory(t *testing.T) {
	mlog := memory.New("test-session")
	hks := hooks.NewRegistry()
	hks.OnTagCreated(func(ctx context.Context, name string, position int) error {
		return errors.New("hook exploded")
	})

	client, err := New(mlog, WithHooks(hks))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := client.CreateTag(context.Background()); err != nil {
		t.Errorf("CreateTag() error = %v, want nil despite failing hook", err)
	}
}

func TestLoggingHooksSmoke(t *testing.T) {
	var buf strings.Builder
	logger := log.New(&buf, "", 0)

	hks := hooks.NewRegistry()
	hooks.NewLoggingHooks(logger).Register(hks)

	mlog := memory.New("test-session")
	client, err := New(mlog, WithHooks(hks))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	mlog.AppendUserText("hello")
	if _, err := client.CreateTag(ctx, WithName("a")); err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}
	if _, err := client.Undo(ctx, "1"); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"created", "undo_by_count", "evicted"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
