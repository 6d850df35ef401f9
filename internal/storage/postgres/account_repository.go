package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cimillas/event-manager/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository persists organiser and admin accounts plus per-organiser
// site settings.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) CreateOrganiser(ctx context.Context, o domain.Organiser) error {
	const stmt = `
INSERT INTO organisers (id, username, password_hash, organisation, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		o.ID, o.Username, o.PasswordHash, o.Organisation, o.IsActive, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("create organiser: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetOrganiserByUsername(ctx context.Context, username string) (domain.Organiser, error) {
	const query = `
SELECT id, username, password_hash, organisation, is_active, created_at
FROM organisers
WHERE username = $1`

	return r.scanOrganiser(db(ctx, r.pool).QueryRow(ctx, query, username))
}

func (r *AccountRepository) GetOrganiserByID(ctx context.Context, id string) (domain.Organiser, error) {
	const query = `
SELECT id, username, password_hash, organisation, is_active, created_at
FROM organisers
WHERE id = $1`

	return r.scanOrganiser(db(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *AccountRepository) scanOrganiser(row pgx.Row) (domain.Organiser, error) {
	var o domain.Organiser
	err := row.Scan(&o.ID, &o.Username, &o.PasswordHash, &o.Organisation, &o.IsActive, &o.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Organiser{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Organiser{}, domain.ErrOrganiserNotFound
		}
		return domain.Organiser{}, fmt.Errorf("get organiser: %w", err)
	}
	return o, nil
}

func (r *AccountRepository) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	const query = `
SELECT id, username, email, password_hash, created_at
FROM admins
WHERE username = $1`

	return r.scanAdmin(db(ctx, r.pool).QueryRow(ctx, query, username))
}

func (r *AccountRepository) GetAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	const query = `
SELECT id, username, email, password_hash, created_at
FROM admins
WHERE id = $1`

	return r.scanAdmin(db(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *AccountRepository) scanAdmin(row pgx.Row) (domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Admin{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Admin{}, domain.ErrAdminNotFound
		}
		return domain.Admin{}, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetSettings(ctx context.Context, organiserID string) (domain.SiteSettings, error) {
	const query = `
SELECT organiser_id, name, description, updated_at
FROM site_settings
WHERE organiser_id = $1`

	var s domain.SiteSettings
	err := db(ctx, r.pool).QueryRow(ctx, query, organiserID).
		Scan(&s.OrganiserID, &s.Name, &s.Description, &s.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.SiteSettings{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SiteSettings{}, domain.ErrOrganiserNotFound
		}
		return domain.SiteSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *AccountRepository) UpsertSettings(ctx context.Context, s domain.SiteSettings) error {
	const stmt = `
INSERT INTO site_settings (organiser_id, name, description, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (organiser_id)
DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`

	_, err := db(ctx, r.pool).Exec(ctx, stmt, s.OrganiserID, s.Name, s.Description, s.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
