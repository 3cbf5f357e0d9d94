package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voiceagent-platform/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
//   tasks (
//     id              uuid primary key,
//     agent_id        uuid not null references agents(id),
//     name            text,
//     to_phone_number text not null,
//     status          text not null,
//     call_id         text,
//     conversation_id text,
//     created_at      timestamptz not null,
//     updated_at      timestamptz not null
//   )
//
// Ownership is enforced by joining through agents.user_id; tasks carry no
// user column of their own.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const taskColumns = `t.id, t.agent_id, t.name, t.to_phone_number, t.status, t.call_id, t.conversation_id, t.created_at, t.updated_at`

func (r *PostgresRepo) Create(ctx context.Context, t Task) error {
	const q = `
INSERT INTO tasks (id, agent_id, name, to_phone_number, status, call_id, conversation_id, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		t.ID,
		t.AgentID,
		utils.NullString(t.Name),
		t.ToPhoneNumber,
		string(t.Status),
		utils.NullString(t.CallID),
		utils.NullString(t.ConversationID),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) GetOwned(ctx context.Context, userID, taskID string) (Task, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM tasks t
JOIN agents a ON a.id = t.agent_id
WHERE a.user_id = $1 AND t.id = $2
`, taskColumns)
	return scanTask(r.db.QueryRowContext(ctx, q, userID, taskID))
}

func (r *PostgresRepo) ListByAgent(ctx context.Context, userID, agentID string) ([]Task, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM tasks t
JOIN agents a ON a.id = t.agent_id
WHERE a.user_id = $1 AND t.agent_id = $2
ORDER BY t.created_at DESC
`, taskColumns)
	rows, err := r.db.QueryContext(ctx, q, userID, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetStatus locks the task row, validates the transition, and applies it.
// The lock serializes concurrent initiation and reconciliation touching the
// same task; the transition check guarantees terminal states never revert.
func (r *PostgresRepo) SetStatus(ctx context.Context, taskID string, to Status, callID string) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		var current string
		const sel = `SELECT status FROM tasks WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRowContext(ctx, sel, taskID).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if !CanTransition(Status(current), to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
		}

		const upd = `
UPDATE tasks
SET status = $2,
    call_id = COALESCE($3, call_id),
    updated_at = $4
WHERE id = $1
`
		_, err := tx.ExecContext(ctx, upd, taskID, string(to), utils.NullString(callID), time.Now().UTC())
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var name, callID, conversationID sql.NullString
	var status string
	if err := row.Scan(
		&t.ID,
		&t.AgentID,
		&name,
		&t.ToPhoneNumber,
		&status,
		&callID,
		&conversationID,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	t.Name = utils.StringOrEmpty(name)
	t.CallID = utils.StringOrEmpty(callID)
	t.ConversationID = utils.StringOrEmpty(conversationID)
	t.Status = Status(status)
	return t, nil
}
