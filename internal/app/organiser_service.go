package app

import (
	"context"
	"strings"
	"time"

	"github.com/cimillas/event-manager/internal/clock"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/google/uuid"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListByOrganiserAndState(ctx context.Context, organiserID string, state domain.EventState) ([]domain.EventSummary, error)
	ListPublished(ctx context.Context) ([]domain.EventSummary, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	Publish(ctx context.Context, eventID string, at time.Time) error
	DeleteEvent(ctx context.Context, eventID string) error
	ListTickets(ctx context.Context, eventID string) ([]domain.Ticket, error)
	UpsertTicket(ctx context.Context, ticket domain.Ticket) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context, organiserID string) (domain.SiteSettings, error)
	UpsertSettings(ctx context.Context, s domain.SiteSettings) error
}

// OrganiserService covers the organiser's side of the platform: event and
// ticket management, publishing, and site settings.
type OrganiserService struct {
	events   EventRepository
	settings SettingsRepository
	clock    clock.Clock
}

func NewOrganiserService(events EventRepository, settings SettingsRepository, clk clock.Clock) *OrganiserService {
	return &OrganiserService{
		events:   events,
		settings: settings,
		clock:    clk,
	}
}

// CreateDraft makes a blank draft event owned by the organiser, mirroring
// the "new event" button that creates first and edits later.
func (s *OrganiserService) CreateDraft(ctx context.Context, organiserID string) (domain.Event, error) {
	now := s.clock.Now()
	event := domain.Event{
		ID:           uuid.NewString(),
		OrganiserID:  organiserID,
		State:        domain.EventStateDraft,
		CreatedAt:    now,
		LastModified: now,
	}
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

type TicketInput struct {
	Type       string
	PriceCents int64
	Quantity   int
}

type UpdateEventInput struct {
	EventID     string
	Title       string
	Description string
	EventDate   time.Time
	Tickets     []TicketInput
}

// EventWithTickets bundles an event with its ticket types for edit screens
// and the attendee detail page.
type EventWithTickets struct {
	Event   domain.Event
	Tickets []domain.Ticket
}

// UpdateEvent saves the event details and upserts its ticket types as one
// transaction. Ticket quantities are absolute sets, not deltas.
func (s *OrganiserService) UpdateEvent(ctx context.Context, organiserID string, in UpdateEventInput) (EventWithTickets, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" {
		return EventWithTickets{}, domain.ErrTitleRequired
	}
	if description == "" {
		return EventWithTickets{}, domain.ErrDescriptionRequired
	}
	if in.EventDate.IsZero() {
		return EventWithTickets{}, domain.ErrEventDateRequired
	}
	for _, t := range in.Tickets {
		if strings.TrimSpace(t.Type) == "" {
			return EventWithTickets{}, domain.ErrTicketTypeRequired
		}
		if t.PriceCents < 0 {
			return EventWithTickets{}, domain.ErrInvalidTicketPrice
		}
		if t.Quantity < 0 {
			return EventWithTickets{}, domain.ErrInvalidTicketQty
		}
	}

	now := s.clock.Now()
	var result EventWithTickets

	err := s.events.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.ownedEvent(txCtx, organiserID, in.EventID)
		if err != nil {
			return err
		}

		event.Title = title
		event.Description = description
		event.EventDate = in.EventDate
		event.LastModified = now
		if err := s.events.UpdateEvent(txCtx, event); err != nil {
			return err
		}

		for _, t := range in.Tickets {
			ticket := domain.Ticket{
				ID:         uuid.NewString(),
				EventID:    event.ID,
				Type:       strings.TrimSpace(t.Type),
				PriceCents: t.PriceCents,
				Quantity:   t.Quantity,
			}
			if err := s.events.UpsertTicket(txCtx, ticket); err != nil {
				return err
			}
		}

		tickets, err := s.events.ListTickets(txCtx, event.ID)
		if err != nil {
			return err
		}
		result = EventWithTickets{Event: event, Tickets: tickets}
		return nil
	})
	if err != nil {
		return EventWithTickets{}, err
	}
	return result, nil
}

// GetEvent returns one of the organiser's events with its tickets.
func (s *OrganiserService) GetEvent(ctx context.Context, organiserID, eventID string) (EventWithTickets, error) {
	event, err := s.ownedEvent(ctx, organiserID, eventID)
	if err != nil {
		return EventWithTickets{}, err
	}
	tickets, err := s.events.ListTickets(ctx, event.ID)
	if err != nil {
		return EventWithTickets{}, err
	}
	return EventWithTickets{Event: event, Tickets: tickets}, nil
}

// Publish moves a draft to published. Publishing is one-directional; a
// second publish reports ErrAlreadyPublished.
func (s *OrganiserService) Publish(ctx context.Context, organiserID, eventID string) error {
	if _, err := s.ownedEvent(ctx, organiserID, eventID); err != nil {
		return err
	}
	return s.events.Publish(ctx, eventID, s.clock.Now())
}

// Delete removes an event in either state along with its tickets and
// bookings.
func (s *OrganiserService) Delete(ctx context.Context, organiserID, eventID string) error {
	if _, err := s.ownedEvent(ctx, organiserID, eventID); err != nil {
		return err
	}
	return s.events.DeleteEvent(ctx, eventID)
}

// EventLists is the organiser home page payload: published and draft
// events side by side.
type EventLists struct {
	Published []domain.EventSummary
	Drafts    []domain.EventSummary
}

func (s *OrganiserService) ListEvents(ctx context.Context, organiserID string) (EventLists, error) {
	published, err := s.events.ListByOrganiserAndState(ctx, organiserID, domain.EventStatePublished)
	if err != nil {
		return EventLists{}, err
	}
	drafts, err := s.events.ListByOrganiserAndState(ctx, organiserID, domain.EventStateDraft)
	if err != nil {
		return EventLists{}, err
	}
	return EventLists{Published: published, Drafts: drafts}, nil
}

func (s *OrganiserService) GetSettings(ctx context.Context, organiserID string) (domain.SiteSettings, error) {
	return s.settings.GetSettings(ctx, organiserID)
}

func (s *OrganiserService) UpdateSettings(ctx context.Context, organiserID, name, description string) (domain.SiteSettings, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return domain.SiteSettings{}, domain.ErrNameRequired
	}
	if description == "" {
		return domain.SiteSettings{}, domain.ErrDescriptionRequired
	}

	settings := domain.SiteSettings{
		OrganiserID: organiserID,
		Name:        name,
		Description: description,
		UpdatedAt:   s.clock.Now(),
	}
	if err := s.settings.UpsertSettings(ctx, settings); err != nil {
		return domain.SiteSettings{}, err
	}
	return settings, nil
}

// ownedEvent fetches the event and enforces tenancy: organisers only ever
// see their own events.
func (s *OrganiserService) ownedEvent(ctx context.Context, organiserID, eventID string) (domain.Event, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.OrganiserID != organiserID {
		return domain.Event{}, domain.ErrNotEventOwner
	}
	return event, nil
}
