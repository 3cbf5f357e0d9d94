package conversations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voiceagent-platform/internal/tasks"
	"voiceagent-platform/pkg/utils"
)

// NOTE: This store assumes the following table exists:
//
//   conversations (
//     id              uuid primary key,
//     conversation_id text not null unique,   -- remote id; the dedup key
//     call_id         text,
//     agent_id        uuid not null references agents(id),
//     task_id         uuid references tasks(id),
//     status          text not null,          -- raw remote status, verbatim
//     transcript      jsonb,
//     metadata        jsonb,
//     analysis        jsonb,
//     created_at      timestamptz not null
//   )
//
// The UNIQUE constraint on conversation_id is load-bearing: it is what makes
// concurrent reconciliation runs safe, not the in-memory existence check.

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) AgentRemoteID(ctx context.Context, userID, agentID string) (string, error) {
	// Ownership scoping: a foreign agent reads as not-found.
	const q = `SELECT elevenlabs_agent_id FROM agents WHERE user_id = $1 AND id = $2`
	var remoteID sql.NullString
	if err := s.db.QueryRowContext(ctx, q, userID, agentID).Scan(&remoteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrAgentNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !remoteID.Valid || remoteID.String == "" {
		return "", ErrAgentNotFound
	}
	return remoteID.String, nil
}

func (s *PostgresStore) ExistingConversationIDs(ctx context.Context, agentID string) (map[string]struct{}, error) {
	const q = `SELECT conversation_id FROM conversations WHERE agent_id = $1`
	rows, err := s.db.QueryContext(ctx, q, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindTaskByCallID(ctx context.Context, callID string) (string, bool, error) {
	if callID == "" {
		return "", false, nil
	}
	const q = `SELECT id FROM tasks WHERE call_id = $1 LIMIT 1`
	var id string
	if err := s.db.QueryRowContext(ctx, q, callID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return id, true, nil
}

// InsertConversation relies on the conversation_id uniqueness constraint:
// ON CONFLICT DO NOTHING turns a duplicate into a reported no-op instead of
// an error, closing the check-then-insert race between concurrent runs.
func (s *PostgresStore) InsertConversation(ctx context.Context, c Conversation) (bool, error) {
	const q = `
INSERT INTO conversations (id, conversation_id, call_id, agent_id, task_id, status, transcript, metadata, analysis, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (conversation_id) DO NOTHING
`
	res, err := s.db.ExecContext(ctx, q,
		c.ID,
		c.ConversationID,
		utils.NullString(c.CallID),
		c.AgentID,
		utils.NullString(c.TaskID),
		c.Status,
		nullableJSON(c.Transcript),
		nullableJSON(c.Metadata),
		nullableJSON(c.Analysis),
		c.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return n > 0, nil
}

// LinkTask updates the task under a row lock so the transition guard in the
// tasks lifecycle holds even against a concurrent initiation.
func (s *PostgresStore) LinkTask(ctx context.Context, taskID, conversationID string, status tasks.Status) error {
	err := utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		var current string
		const sel = `SELECT status FROM tasks WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRowContext(ctx, sel, taskID).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: task %s no longer exists", ErrStore, taskID)
			}
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		if !tasks.CanTransition(tasks.Status(current), status) {
			return fmt.Errorf("%w: task %s cannot move %s -> %s", ErrStore, taskID, current, status)
		}

		const upd = `
UPDATE tasks
SET conversation_id = $2,
    status = $3,
    updated_at = $4
WHERE id = $1
`
		_, err := tx.ExecContext(ctx, upd, taskID, conversationID, string(status), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
		return nil
	})
	return err
}

// nullableJSON maps an empty payload to SQL NULL; jsonb columns reject
// zero-length input.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
