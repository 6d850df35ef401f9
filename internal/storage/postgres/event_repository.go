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

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const eventColumns = `id, organiser_id, title, description, event_date, state, created_at, last_modified, published_at`

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, organiser_id, title, description, event_date, state, created_at, last_modified)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		event.ID,
		event.OrganiserID,
		event.Title,
		event.Description,
		nullableDate(event.EventDate),
		event.State,
		event.CreatedAt,
		event.LastModified,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(db(ctx, r.pool).QueryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListByOrganiserAndState returns the organiser's events in one state with
// remaining ticket totals. Published events are ordered by event date,
// drafts by creation date, matching the organiser home page.
func (r *EventRepository) ListByOrganiserAndState(ctx context.Context, organiserID string, state domain.EventState) ([]domain.EventSummary, error) {
	const query = `
SELECT e.id, e.organiser_id, e.title, e.description, e.event_date, e.state,
       e.created_at, e.last_modified, e.published_at,
       COALESCE(SUM(t.quantity), 0)
FROM events e
LEFT JOIN tickets t ON t.event_id = e.id
WHERE e.organiser_id = $1 AND e.state = $2
GROUP BY e.id
ORDER BY CASE WHEN e.state = 'published' THEN e.event_date END ASC,
         e.created_at ASC`

	rows, err := db(ctx, r.pool).Query(ctx, query, organiserID, state)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEventSummaries(rows)
}

// ListPublished returns all published events across organisers for the
// attendee listing, soonest first.
func (r *EventRepository) ListPublished(ctx context.Context) ([]domain.EventSummary, error) {
	const query = `
SELECT e.id, e.organiser_id, e.title, e.description, e.event_date, e.state,
       e.created_at, e.last_modified, e.published_at,
       COALESCE(SUM(t.quantity), 0)
FROM events e
LEFT JOIN tickets t ON t.event_id = e.id
WHERE e.state = 'published'
GROUP BY e.id
ORDER BY e.event_date ASC`

	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}
	defer rows.Close()
	return scanEventSummaries(rows)
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET title = $2, description = $3, event_date = $4, last_modified = $5
WHERE id = $1`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		nullableDate(event.EventDate),
		event.LastModified,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Publish flips a draft to published exactly once. Returns ErrAlreadyPublished
// when the event exists but is not a draft.
func (r *EventRepository) Publish(ctx context.Context, eventID string, at time.Time) error {
	const stmt = `
UPDATE events
SET state = 'published', published_at = $2, last_modified = $2
WHERE id = $1 AND state = 'draft'`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt, eventID, at)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("publish event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetEvent(ctx, eventID); err != nil {
			return err
		}
		return domain.ErrAlreadyPublished
	}
	return nil
}

// DeleteEvent removes the event; tickets and bookings go with it via
// ON DELETE CASCADE.
func (r *EventRepository) DeleteEvent(ctx context.Context, eventID string) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ListTickets(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	const query = `
SELECT id, event_id, type, price_cents, quantity
FROM tickets
WHERE event_id = $1
ORDER BY type`

	rows, err := db(ctx, r.pool).Query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.Type, &t.PriceCents, &t.Quantity); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// UpsertTicket inserts a ticket type or, when the (event, type) pair already
// exists, sets its price and quantity absolutely.
func (r *EventRepository) UpsertTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, event_id, type, price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (event_id, type)
DO UPDATE SET price_cents = EXCLUDED.price_cents, quantity = EXCLUDED.quantity`

	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		ticket.ID, ticket.EventID, ticket.Type, ticket.PriceCents, ticket.Quantity,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidTicketQty
		}
		return fmt.Errorf("upsert ticket: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		e         domain.Event
		eventDate *time.Time
	)
	if err := row.Scan(
		&e.ID, &e.OrganiserID, &e.Title, &e.Description, &eventDate,
		&e.State, &e.CreatedAt, &e.LastModified, &e.PublishedAt,
	); err != nil {
		return domain.Event{}, err
	}
	if eventDate != nil {
		e.EventDate = *eventDate
	}
	return e, nil
}

func scanEventSummaries(rows pgx.Rows) ([]domain.EventSummary, error) {
	var summaries []domain.EventSummary
	for rows.Next() {
		var (
			s         domain.EventSummary
			eventDate *time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.OrganiserID, &s.Title, &s.Description, &eventDate,
			&s.State, &s.CreatedAt, &s.LastModified, &s.PublishedAt,
			&s.RemainingTickets,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if eventDate != nil {
			s.EventDate = *eventDate
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// nullableDate maps the zero time to NULL so blank drafts round-trip.
func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
