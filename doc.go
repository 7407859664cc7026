// Package rewindpg provides conversation checkpoints (tags) and undo for
// AI agent message logs.
//
// A tag is a named bookmark into an append-only conversation: a position
// plus a content fingerprint of the message there. Tags are validated
// lazily, when listed or used rather than on append, so the message hot path
// pays no hashing cost. Undo rolls the log back either by a number of
// user-input messages (tool results delivered through the user role are
// skipped) or to a named tag, keeping the tagged message and dropping
// everything after it. Tags stranded past a truncation are evicted, and a
// reserved session-start tag is recreated whenever the log is cleared.
//
// The message log itself belongs to the host: anything implementing
// msglog.MessageLog works. Ready-made logs live in msglog/memory (in
// process), msglog/pgxv5, and msglog/databasesql (PostgreSQL).
//
// # Quick Start
//
//	log := memory.New(sessionID)
//	client, err := rewindpg.New(log)
//
//	// ... conversation happens, log.Append(...) ...
//
//	name, _ := client.CreateTag(ctx, rewindpg.WithName("before-refactor"))
//
//	// Roll back to the tag; the tagged message is kept.
//	result, err := client.Undo(ctx, "before-refactor")
//
//	// Or undo the last two things the user said.
//	result, err = client.Undo(ctx, "2")
//
// Tags live only as long as the Client: there is no persistence and no
// cross-process sharing. A Client serves one session, driven by one
// goroutine at a time.
package rewindpg
