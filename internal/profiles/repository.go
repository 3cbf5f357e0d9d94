package profiles

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"voiceagent-platform/pkg/utils"
)

var ErrNotFound = errors.New("profiles: not found")

// NOTE: This repository assumes the following table exists:
//
//   profiles (
//     user_id      uuid primary key,
//     phone_number text,
//     created_at   timestamptz not null,
//     updated_at   timestamptz not null
//   )

type Repository interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, p Profile) error
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const q = `
SELECT user_id, phone_number, created_at, updated_at
FROM profiles
WHERE user_id = $1
`
	var p Profile
	var phone sql.NullString
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&p.UserID, &phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.PhoneNumberID = utils.StringOrEmpty(phone)
	return p, nil
}

func (r *PostgresRepo) Upsert(ctx context.Context, p Profile) error {
	const q = `
INSERT INTO profiles (user_id, phone_number, created_at, updated_at)
VALUES ($1,$2,$3,$3)
ON CONFLICT (user_id)
DO UPDATE SET phone_number = EXCLUDED.phone_number,
              updated_at = EXCLUDED.updated_at
`
	_, err := r.db.ExecContext(ctx, q, p.UserID, utils.NullString(p.PhoneNumberID), time.Now().UTC())
	return err
}

// MemoryRepo is an in-memory Repository useful for tests.
type MemoryRepo struct {
	profiles map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, p Profile) error {
	r.profiles[p.UserID] = p
	return nil
}
