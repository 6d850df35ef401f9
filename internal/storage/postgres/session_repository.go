package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cimillas/event-manager/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s domain.Session) error {
	const stmt = `
INSERT INTO sessions (token, account_id, role, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt, s.Token, s.AccountID, s.Role, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, token string) (domain.Session, error) {
	const query = `
SELECT token, account_id, role, created_at, expires_at
FROM sessions
WHERE token = $1`

	var s domain.Session
	err := db(ctx, r.pool).QueryRow(ctx, query, token).
		Scan(&s.Token, &s.AccountID, &s.Role, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired clears stale sessions; called opportunistically on login.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
