package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cimillas/event-manager/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository serves the platform-wide admin views: headline stats,
// organiser management, and global event/booking listings.
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) PlatformStats(ctx context.Context) (domain.PlatformStats, error) {
	const query = `
SELECT
	(SELECT COUNT(*) FROM organisers),
	(SELECT COUNT(*) FROM events),
	(SELECT COUNT(*) FROM bookings WHERE payment_status = 'completed'),
	(SELECT COALESCE(SUM(total_cents), 0) FROM bookings WHERE payment_status = 'completed')`

	var stats domain.PlatformStats
	err := db(ctx, r.pool).QueryRow(ctx, query).Scan(
		&stats.TotalOrganisers,
		&stats.TotalEvents,
		&stats.TotalBookings,
		&stats.TotalRevenueCents,
	)
	if err != nil {
		return domain.PlatformStats{}, fmt.Errorf("platform stats: %w", err)
	}
	return stats, nil
}

func (r *AdminRepository) ListOrganiserOverviews(ctx context.Context) ([]domain.OrganiserOverview, error) {
	const query = `
SELECT o.id, o.username, o.organisation, o.is_active, o.created_at,
       COUNT(DISTINCT e.id),
       COUNT(DISTINCT b.id),
       COALESCE(SUM(b.total_cents), 0)
FROM organisers o
LEFT JOIN events e ON e.organiser_id = o.id
LEFT JOIN bookings b ON b.event_id = e.id AND b.payment_status = 'completed'
GROUP BY o.id
ORDER BY o.created_at DESC`

	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organisers: %w", err)
	}
	defer rows.Close()

	var overviews []domain.OrganiserOverview
	for rows.Next() {
		var o domain.OrganiserOverview
		if err := rows.Scan(
			&o.ID, &o.Username, &o.Organisation, &o.IsActive, &o.CreatedAt,
			&o.EventCount, &o.BookingCount, &o.RevenueCents,
		); err != nil {
			return nil, fmt.Errorf("scan organiser: %w", err)
		}
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}

// SetOrganiserActive flips the account switch and returns the new value.
func (r *AdminRepository) SetOrganiserActive(ctx context.Context, organiserID string, active bool) error {
	tag, err := db(ctx, r.pool).Exec(ctx,
		`UPDATE organisers SET is_active = $2 WHERE id = $1`,
		organiserID, active,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set organiser active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrganiserNotFound
	}
	return nil
}

func (r *AdminRepository) ListAllEvents(ctx context.Context) ([]domain.EventOverview, error) {
	const query = `
SELECT e.id, e.organiser_id, e.title, e.description, e.event_date, e.state,
       e.created_at, e.last_modified, e.published_at,
       o.username, o.organisation,
       COUNT(DISTINCT b.id),
       COALESCE(SUM(b.total_cents), 0)
FROM events e
JOIN organisers o ON o.id = e.organiser_id
LEFT JOIN bookings b ON b.event_id = e.id AND b.payment_status = 'completed'
GROUP BY e.id, o.id
ORDER BY e.created_at DESC`

	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	defer rows.Close()

	var overviews []domain.EventOverview
	for rows.Next() {
		var (
			o         domain.EventOverview
			eventDate *time.Time
		)
		if err := rows.Scan(
			&o.ID, &o.OrganiserID, &o.Title, &o.Description, &eventDate,
			&o.State, &o.CreatedAt, &o.LastModified, &o.PublishedAt,
			&o.OrganiserUsername, &o.Organisation,
			&o.BookingCount, &o.RevenueCents,
		); err != nil {
			return nil, fmt.Errorf("scan event overview: %w", err)
		}
		if eventDate != nil {
			o.EventDate = *eventDate
		}
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}

func (r *AdminRepository) ListAllBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	const query = `
SELECT b.id, b.event_id, b.ticket_id, b.buyer_name, b.buyer_email, b.quantity,
       b.total_cents, b.payment_status, b.booked_at, e.title, t.type
FROM bookings b
JOIN events e ON e.id = b.event_id
JOIN tickets t ON t.id = b.ticket_id
ORDER BY b.booked_at DESC`

	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	defer rows.Close()
	return scanBookingDetails(rows)
}

func (r *AdminRepository) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	const query = `
SELECT id, username, email, password_hash, created_at
FROM admins
ORDER BY created_at ASC`

	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *AdminRepository) CreateAdmin(ctx context.Context, a domain.Admin) error {
	const stmt = `
INSERT INTO admins (id, username, email, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt, a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (r *AdminRepository) DeleteAdmin(ctx context.Context, adminID string) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM admins WHERE id = $1`, adminID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}
