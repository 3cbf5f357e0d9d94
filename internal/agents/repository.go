package agents

import (
	"context"
	"database/sql"
	"errors"

	"voiceagent-platform/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
//   agents (
//     id                  uuid primary key,
//     user_id             uuid not null,
//     name                text not null,
//     elevenlabs_agent_id text not null,
//     language            text,
//     llm_model           text,
//     prompt              text,
//     created_at          timestamptz not null,
//     updated_at          timestamptz not null
//   )

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Create(ctx context.Context, a Agent) error {
	const q = `
INSERT INTO agents (id, user_id, name, elevenlabs_agent_id, language, llm_model, prompt, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.UserID,
		a.Name,
		a.RemoteAgentID,
		utils.NullString(a.Language),
		utils.NullString(a.LLMModel),
		utils.NullString(a.Prompt),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) GetOwned(ctx context.Context, userID, agentID string) (Agent, error) {
	const q = `
SELECT id, user_id, name, elevenlabs_agent_id, language, llm_model, prompt, created_at, updated_at
FROM agents
WHERE user_id = $1 AND id = $2
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, userID, agentID))
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Agent, error) {
	const q = `
SELECT id, user_id, name, elevenlabs_agent_id, language, llm_model, prompt, created_at, updated_at
FROM agents
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agent
	for rows.Next() {
		a, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepo) scanOne(row rowScanner) (Agent, error) {
	var a Agent
	var language, llmModel, prompt sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.RemoteAgentID,
		&language,
		&llmModel,
		&prompt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Agent{}, ErrNotFound
		}
		return Agent{}, err
	}
	a.Language = utils.StringOrEmpty(language)
	a.LLMModel = utils.StringOrEmpty(llmModel)
	a.Prompt = utils.StringOrEmpty(prompt)
	return a, nil
}
