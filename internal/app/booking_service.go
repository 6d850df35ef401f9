package app

import (
	"context"
	"net/mail"
	"sort"
	"strings"

	"github.com/cimillas/event-manager/internal/clock"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/google/uuid"
)

// BookingRepository is the persistence contract for the booking transaction.
// The availability check and the decrement run inside one WithTx call; the
// decrement itself is conditional on remaining stock so two concurrent
// bookings can never jointly overdraw a ticket type.
type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetPublishedEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListTicketsForUpdate(ctx context.Context, eventID string) ([]domain.Ticket, error)
	DecrementTicket(ctx context.Context, ticketID string, quantity int) (bool, error)
	InsertBooking(ctx context.Context, b domain.Booking) error
	ListByOrganiser(ctx context.Context, organiserID string) ([]domain.BookingDetail, error)
	TicketSalesByOrganiser(ctx context.Context, organiserID string) ([]domain.TicketSales, error)
}

type BookingService struct {
	repo  BookingRepository
	clock clock.Clock
}

func NewBookingService(repo BookingRepository, clk clock.Clock) *BookingService {
	return &BookingService{
		repo:  repo,
		clock: clk,
	}
}

type CreateBookingInput struct {
	EventID    string
	BuyerName  string
	BuyerEmail string
	// Quantities maps ticket id to requested quantity. Zero entries are
	// ignored; negative entries are rejected.
	Quantities map[string]int
}

type CreateBookingResult struct {
	Bookings   []domain.Booking
	TotalCents int64
}

// CreateBooking converts a buyer's ticket selection into booking rows while
// enforcing stock availability, all-or-nothing.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (CreateBookingResult, error) {
	buyerName := strings.TrimSpace(in.BuyerName)
	buyerEmail := strings.ToLower(strings.TrimSpace(in.BuyerEmail))

	if buyerName == "" {
		return CreateBookingResult{}, domain.ErrBuyerNameRequired
	}
	if _, err := mail.ParseAddress(buyerEmail); err != nil {
		return CreateBookingResult{}, domain.ErrInvalidBuyerEmail
	}

	requested := make(map[string]int, len(in.Quantities))
	for ticketID, qty := range in.Quantities {
		if qty < 0 {
			return CreateBookingResult{}, domain.ErrInvalidQuantity
		}
		if qty == 0 {
			continue
		}
		requested[ticketID] = qty
	}
	if len(requested) == 0 {
		return CreateBookingResult{}, domain.ErrNoTicketsRequested
	}

	now := s.clock.Now()
	var result CreateBookingResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetPublishedEvent(txCtx, in.EventID)
		if err != nil {
			return err
		}

		tickets, err := s.repo.ListTicketsForUpdate(txCtx, event.ID)
		if err != nil {
			return err
		}
		byID := make(map[string]domain.Ticket, len(tickets))
		for _, t := range tickets {
			byID[t.ID] = t
		}

		// Validate the whole selection before writing anything so a
		// shortfall in one type leaves every type untouched.
		var shortages []domain.StockShortage
		for _, ticketID := range sortedKeys(requested) {
			ticket, ok := byID[ticketID]
			if !ok {
				return domain.ErrTicketNotFound
			}
			if qty := requested[ticketID]; qty > ticket.Quantity {
				shortages = append(shortages, domain.StockShortage{
					TicketID:   ticket.ID,
					TicketType: ticket.Type,
					Requested:  qty,
					Remaining:  ticket.Quantity,
				})
			}
		}
		if len(shortages) > 0 {
			return &domain.InsufficientStockError{Shortages: shortages}
		}

		bookings := make([]domain.Booking, 0, len(requested))
		var total int64
		for _, ticketID := range sortedKeys(requested) {
			ticket := byID[ticketID]
			qty := requested[ticketID]

			ok, err := s.repo.DecrementTicket(txCtx, ticket.ID, qty)
			if err != nil {
				return err
			}
			if !ok {
				// The rows are locked, so this only fires if the
				// guard condition itself rejected the decrement.
				return &domain.InsufficientStockError{Shortages: []domain.StockShortage{{
					TicketID:   ticket.ID,
					TicketType: ticket.Type,
					Requested:  qty,
					Remaining:  ticket.Quantity,
				}}}
			}

			booking := domain.Booking{
				ID:            uuid.NewString(),
				EventID:       event.ID,
				TicketID:      ticket.ID,
				BuyerName:     buyerName,
				BuyerEmail:    buyerEmail,
				Quantity:      qty,
				TotalCents:    int64(qty) * ticket.PriceCents,
				PaymentStatus: domain.PaymentStatusCompleted,
				BookedAt:      now,
			}
			if err := s.repo.InsertBooking(txCtx, booking); err != nil {
				return err
			}
			bookings = append(bookings, booking)
			total += booking.TotalCents
		}

		result = CreateBookingResult{Bookings: bookings, TotalCents: total}
		return nil
	})
	if err != nil {
		return CreateBookingResult{}, err
	}
	return result, nil
}

// ListForOrganiser returns every booking against the organiser's events.
func (s *BookingService) ListForOrganiser(ctx context.Context, organiserID string) ([]domain.BookingDetail, error) {
	return s.repo.ListByOrganiser(ctx, organiserID)
}

// TicketSales returns sold quantities per ticket type for the organiser's
// dashboard chart.
func (s *BookingService) TicketSales(ctx context.Context, organiserID string) ([]domain.TicketSales, error) {
	return s.repo.TicketSalesByOrganiser(ctx, organiserID)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
