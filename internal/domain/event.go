package domain

import "time"

type EventState string

const (
	EventStateDraft     EventState = "draft"
	EventStatePublished EventState = "published"
)

// Event is a bookable occasion owned by an organiser. Drafts are editable and
// invisible to attendees; publishing is one-directional and stamps PublishedAt once.
type Event struct {
	ID           string
	OrganiserID  string
	Title        string
	Description  string
	EventDate    time.Time
	State        EventState
	CreatedAt    time.Time
	LastModified time.Time
	PublishedAt  *time.Time
}

// EventSummary is an event row augmented with the total remaining tickets
// across its ticket types, as shown on listing pages.
type EventSummary struct {
	Event
	RemainingTickets int
}

// EventOverview is an event with organiser identity and sales aggregates for
// the admin event listing.
type EventOverview struct {
	Event
	OrganiserUsername string
	Organisation      string
	BookingCount      int
	RevenueCents      int64
}
