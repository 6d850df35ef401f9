package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cimillas/event-manager/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetPublishedEvent returns the event only when it is published. Draft and
// missing events are indistinguishable to attendees.
func (r *BookingRepository) GetPublishedEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `
SELECT id, organiser_id, title, description, event_date, state, created_at, last_modified, published_at
FROM events
WHERE id = $1 AND state = 'published'`

	event, err := scanEvent(db(ctx, r.pool).QueryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get published event: %w", err)
	}
	return event, nil
}

// ListTicketsForUpdate locks the event's ticket rows for the duration of the
// surrounding transaction. Deterministic ordering keeps concurrent bookings
// from deadlocking on each other.
func (r *BookingRepository) ListTicketsForUpdate(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	const query = `
SELECT id, event_id, type, price_cents, quantity
FROM tickets
WHERE event_id = $1
ORDER BY id
FOR UPDATE`

	rows, err := db(ctx, r.pool).Query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("lock tickets: %w", err)
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

// DecrementTicket takes quantity off a ticket's remaining stock only when
// enough stock remains. The condition and the write are a single statement,
// so stock can never be driven below zero even outside a caller transaction.
func (r *BookingRepository) DecrementTicket(ctx context.Context, ticketID string, quantity int) (bool, error) {
	const stmt = `
UPDATE tickets
SET quantity = quantity - $2
WHERE id = $1 AND quantity >= $2`

	tag, err := db(ctx, r.pool).Exec(ctx, stmt, ticketID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("decrement ticket: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) InsertBooking(ctx context.Context, b domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, event_id, ticket_id, buyer_name, buyer_email, quantity, total_cents, payment_status, booked_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		b.ID,
		b.EventID,
		b.TicketID,
		b.BuyerName,
		b.BuyerEmail,
		b.Quantity,
		b.TotalCents,
		b.PaymentStatus,
		b.BookedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ListByOrganiser returns every booking against the organiser's events,
// newest first.
func (r *BookingRepository) ListByOrganiser(ctx context.Context, organiserID string) ([]domain.BookingDetail, error) {
	const query = `
SELECT b.id, b.event_id, b.ticket_id, b.buyer_name, b.buyer_email, b.quantity,
       b.total_cents, b.payment_status, b.booked_at, e.title, t.type
FROM bookings b
JOIN events e ON e.id = b.event_id
JOIN tickets t ON t.id = b.ticket_id
WHERE e.organiser_id = $1
ORDER BY b.booked_at DESC`

	rows, err := db(ctx, r.pool).Query(ctx, query, organiserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	return scanBookingDetails(rows)
}

// TicketSalesByOrganiser sums sold quantities per ticket type label, the
// feed for the organiser's sales chart.
func (r *BookingRepository) TicketSalesByOrganiser(ctx context.Context, organiserID string) ([]domain.TicketSales, error) {
	const query = `
SELECT t.type, COALESCE(SUM(b.quantity), 0)
FROM bookings b
JOIN tickets t ON t.id = b.ticket_id
JOIN events e ON e.id = b.event_id
WHERE e.organiser_id = $1
GROUP BY t.type
ORDER BY t.type`

	rows, err := db(ctx, r.pool).Query(ctx, query, organiserID)
	if err != nil {
		return nil, fmt.Errorf("ticket sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.TicketSales
	for rows.Next() {
		var s domain.TicketSales
		if err := rows.Scan(&s.TicketType, &s.Sold); err != nil {
			return nil, fmt.Errorf("scan ticket sales: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func scanBookingDetails(rows pgx.Rows) ([]domain.BookingDetail, error) {
	var details []domain.BookingDetail
	for rows.Next() {
		var d domain.BookingDetail
		if err := rows.Scan(
			&d.ID, &d.EventID, &d.TicketID, &d.BuyerName, &d.BuyerEmail,
			&d.Quantity, &d.TotalCents, &d.PaymentStatus, &d.BookedAt,
			&d.EventTitle, &d.TicketType,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
