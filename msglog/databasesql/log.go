// Package databasesql provides a PostgreSQL-backed message log over
// database/sql, for hosts that are not on pgx. Any PostgreSQL driver works
// (lib/pq, pgx stdlib); the tests use lib/pq.
package databasesql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/rewindpg/types"
)

// Schema is the DDL for the message table, identical to the pgxv5 log's.
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
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create rewindpg_messages: %w", err)
	}
	return nil
}

// Log is a PostgreSQL-backed message log for one session.
type Log struct {
	db        *sql.DB
	sessionID string
}

// New creates a log over the given database handle for one session.
func New(db *sql.DB, sessionID string) *Log {
	return &Log{db: db, sessionID: sessionID}
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

	_, err = l.db.ExecContext(ctx, query,
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

	rows, err := l.db.QueryContext(ctx, query, l.sessionID)
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

// TruncateTo removes all messages at position >= position, transactionally
// so an out-of-range truncate fails with no partial effect.
func (l *Log) TruncateTo(ctx context.Context, position int) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rewindpg_messages WHERE session_id = $1`,
		l.sessionID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count messages: %w", err)
	}

	if position < 0 || position > count {
		return fmt.Errorf("truncate position %d not in [0, %d]", position, count)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM rewindpg_messages WHERE session_id = $1 AND position >= $2`,
		l.sessionID, position,
	)
	if err != nil {
		return fmt.Errorf("failed to truncate messages: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit truncate: %w", err)
	}
	return nil
}
