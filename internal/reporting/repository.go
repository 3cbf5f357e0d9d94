package reporting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voiceagent-platform/internal/tasks"
	"voiceagent-platform/pkg/utils"
)

// PostgresRepo reads the tasks and conversations tables owned by the other
// packages; reporting writes nothing.

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) ListTasks(ctx context.Context, userID, agentID string, from, to time.Time) ([]tasks.Task, error) {
	// Ownership check first so a foreign agent reads as not-found rather
	// than as an agent with zero tasks.
	const own = `SELECT 1 FROM agents WHERE id = $1 AND user_id = $2`
	var one int
	if err := r.db.QueryRowContext(ctx, own, agentID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	const q = `
SELECT t.id, t.agent_id, t.name, t.to_phone_number, t.status, t.call_id, t.conversation_id, t.created_at, t.updated_at
FROM tasks t
WHERE t.agent_id = $1 AND t.created_at >= $2 AND t.created_at < $3
ORDER BY t.created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q, agentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tasks.Task
	for rows.Next() {
		var t tasks.Task
		var name, callID, conversationID sql.NullString
		var status string
		if err := rows.Scan(
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
			return nil, err
		}
		t.Name = utils.StringOrEmpty(name)
		t.CallID = utils.StringOrEmpty(callID)
		t.ConversationID = utils.StringOrEmpty(conversationID)
		t.Status = tasks.Status(status)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CountConversations(ctx context.Context, agentID string, from, to time.Time) (int, int, error) {
	const q = `
SELECT COUNT(*), COUNT(task_id)
FROM conversations
WHERE agent_id = $1 AND created_at >= $2 AND created_at < $3
`
	var total, linked int
	if err := r.db.QueryRowContext(ctx, q, agentID, from, to).Scan(&total, &linked); err != nil {
		return 0, 0, fmt.Errorf("counting conversations: %w", err)
	}
	return total, linked, nil
}
