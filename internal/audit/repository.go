package audit

import (
	"context"
	"database/sql"

	"voiceagent-platform/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
//   audit_events (
//     id              uuid primary key,
//     agent_id        uuid not null,
//     type            text not null,
//     conversation_id text,
//     task_id         text,
//     message         text,
//     metadata        jsonb,
//     created_at      timestamptz not null
//   )

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (id, agent_id, type, conversation_id, task_id, message, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.AgentID,
		string(e.Type),
		utils.NullString(e.ConversationID),
		utils.NullString(e.TaskID),
		utils.NullString(e.Message),
		utils.NullString(e.Metadata),
		e.CreatedAt,
	)
	return err
}
