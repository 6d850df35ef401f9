package app

import (
	"context"

	"github.com/cimillas/event-manager/internal/domain"
)

// AttendeeService serves the anonymous browsing side: published events only.
type AttendeeService struct {
	events   EventRepository
	bookings BookingRepository
	settings SettingsRepository
}

func NewAttendeeService(events EventRepository, bookings BookingRepository, settings SettingsRepository) *AttendeeService {
	return &AttendeeService{
		events:   events,
		bookings: bookings,
		settings: settings,
	}
}

// ListEvents returns all published events, soonest first, with remaining
// ticket totals.
func (s *AttendeeService) ListEvents(ctx context.Context) ([]domain.EventSummary, error) {
	return s.events.ListPublished(ctx)
}

// EventPage is the attendee event detail: the event, its ticket types, and
// the owning organiser's storefront header when one is configured.
type EventPage struct {
	Event    domain.Event
	Tickets  []domain.Ticket
	Settings *domain.SiteSettings
}

// GetEvent returns a published event's detail page. Draft events are
// reported as not found.
func (s *AttendeeService) GetEvent(ctx context.Context, eventID string) (EventPage, error) {
	event, err := s.bookings.GetPublishedEvent(ctx, eventID)
	if err != nil {
		return EventPage{}, err
	}

	tickets, err := s.events.ListTickets(ctx, event.ID)
	if err != nil {
		return EventPage{}, err
	}

	page := EventPage{Event: event, Tickets: tickets}
	settings, err := s.settings.GetSettings(ctx, event.OrganiserID)
	switch err {
	case nil:
		page.Settings = &settings
	case domain.ErrOrganiserNotFound:
		// No storefront configured yet; the page renders without one.
	default:
		return EventPage{}, err
	}
	return page, nil
}
