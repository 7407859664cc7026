// Package pgxv5 provides a PostgreSQL-backed message log using pgx/v5.
//
// Messages are keyed by (session_id, position) so the log's index order is
// the table's order, and truncation is a single positional DELETE. Tags are
// never persisted here; only the conversation itself lives in the database.
package pgxv5

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/youssefsiam38/rewindpg/types"
)

// Schema is the DDL for the message table. Hosts that manage migrations
// themselves can embed it; EnsureSchema applies it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS rewindpg_messages (
	id         UUID NOT NULL,
	session_id TEXT NOT NULL,
	position   BIGINT NOT NULL,
	role       TEXT NOT NULL,
	content    JSONB NOT NULL,
	metadata   JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (session_id, position)
);
`

// EnsureSchema creates the message table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create rewindpg_messages: %w", err)
	}
	return nil
}

// Log is a PostgreSQL-backed message log for one session.
type Log struct {
	pool      *pgxpool.Pool
	sessionID string
}

// New creates a log over the given pool for one session.
func New(pool *pgxpool.Pool, sessionID string) *Log {
	return &Log{pool: pool, sessionID: sessionID}
}

// Len returns the current number of messages in the session.
func (l *Log) Len(ctx context.Context) (int, error) {
	var count int
	err := l.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM rewindpg_messages WHERE session_id = $1`,
		l.sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// Append adds a message at the end of the session's log.
func (l *Log) Append(ctx context.Context, msg *types.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.SessionID == "" {
		msg.SessionID = l.sessionID
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
		msg.UpdatedAt = msg.CreatedAt
	}

	contentJSON, err := json.Marshal(msg.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	metadataJSON, err := json.Marshal(msg.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO rewindpg_messages (id, session_id, position, role, content, metadata, created_at, updated_at)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0), $3, $4, $5, $6, $7
		FROM rewindpg_messages
		WHERE session_id = $2
	`

	_, err = l.pool.Exec(ctx, query,
		msg.ID, l.sessionID, string(msg.Role), contentJSON, metadataJSON,
		msg.CreatedAt, msg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// Messages returns the session's messages ordered by position.
func (l *Log) Messages(ctx context.Context) ([]*types.Message, error) {
	query := `
		SELECT id, session_id, role, content, metadata, created_at, updated_at
		FROM rewindpg_messages
		WHERE session_id = $1
		ORDER BY position ASC
	`

	rows, err := l.pool.Query(ctx, query, l.sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*types.Message
	for rows.Next() {
		var msg types.Message
		var role string
		var contentJSON, metadataJSON []byte

		err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&role,
			&contentJSON,
			&metadataJSON,
			&msg.CreatedAt,
			&msg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg.Role = types.Role(role)
		if err := json.Unmarshal(contentJSON, &msg.Content); err != nil {
			return nil, fmt.Errorf("failed to unmarshal content: %w", err)
		}
		if err := json.Unmarshal(metadataJSON, &msg.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}

		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// TruncateTo removes all messages at position >= position. The delete runs
// in a transaction that first checks the requested position against the
// current length, so an out-of-range truncate fails with no partial effect.
func (l *Log) TruncateTo(ctx context.Context, position int) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM rewindpg_messages WHERE session_id = $1`,
		l.sessionID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count messages: %w", err)
	}

	if position < 0 || position > count {
		return fmt.Errorf("truncate position %d not in [0, %d]", position, count)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM rewindpg_messages WHERE session_id = $1 AND position >= $2`,
		l.sessionID, position,
	)
	if err != nil {
		return fmt.Errorf("failed to truncate messages: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit truncate: %w", err)
	}
	return nil
}
