package app

import (
	"context"
	"testing"
	"time"

	"github.com/cimillas/event-manager/internal/clock"
	"github.com/cimillas/event-manager/internal/domain"
)

type fakeEventRepo struct {
	events  map[string]domain.Event
	tickets map[string][]domain.Ticket
}

func newFakeEventRepo(events ...domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{
		events:  make(map[string]domain.Event),
		tickets: make(map[string][]domain.Ticket),
	}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeEventRepo) CreateEvent(_ context.Context, event domain.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	event, ok := r.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (r *fakeEventRepo) ListByOrganiserAndState(_ context.Context, organiserID string, state domain.EventState) ([]domain.EventSummary, error) {
	var summaries []domain.EventSummary
	for _, e := range r.events {
		if e.OrganiserID == organiserID && e.State == state {
			summaries = append(summaries, domain.EventSummary{Event: e})
		}
	}
	return summaries, nil
}

func (r *fakeEventRepo) ListPublished(context.Context) ([]domain.EventSummary, error) {
	var summaries []domain.EventSummary
	for _, e := range r.events {
		if e.State == domain.EventStatePublished {
			summaries = append(summaries, domain.EventSummary{Event: e})
		}
	}
	return summaries, nil
}

func (r *fakeEventRepo) UpdateEvent(_ context.Context, event domain.Event) error {
	existing, ok := r.events[event.ID]
	if !ok {
		return domain.ErrEventNotFound
	}
	existing.Title = event.Title
	existing.Description = event.Description
	existing.EventDate = event.EventDate
	existing.LastModified = event.LastModified
	r.events[event.ID] = existing
	return nil
}

func (r *fakeEventRepo) Publish(_ context.Context, eventID string, at time.Time) error {
	event, ok := r.events[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if event.State != domain.EventStateDraft {
		return domain.ErrAlreadyPublished
	}
	event.State = domain.EventStatePublished
	event.PublishedAt = &at
	event.LastModified = at
	r.events[eventID] = event
	return nil
}

func (r *fakeEventRepo) DeleteEvent(_ context.Context, eventID string) error {
	if _, ok := r.events[eventID]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, eventID)
	delete(r.tickets, eventID)
	return nil
}

func (r *fakeEventRepo) ListTickets(_ context.Context, eventID string) ([]domain.Ticket, error) {
	return r.tickets[eventID], nil
}

func (r *fakeEventRepo) UpsertTicket(_ context.Context, ticket domain.Ticket) error {
	existing := r.tickets[ticket.EventID]
	for i, t := range existing {
		if t.Type == ticket.Type {
			existing[i].PriceCents = ticket.PriceCents
			existing[i].Quantity = ticket.Quantity
			return nil
		}
	}
	r.tickets[ticket.EventID] = append(existing, ticket)
	return nil
}

type fakeSettingsRepo struct {
	settings map[string]domain.SiteSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]domain.SiteSettings)}
}

func (r *fakeSettingsRepo) GetSettings(_ context.Context, organiserID string) (domain.SiteSettings, error) {
	s, ok := r.settings[organiserID]
	if !ok {
		return domain.SiteSettings{}, domain.ErrOrganiserNotFound
	}
	return s, nil
}

func (r *fakeSettingsRepo) UpsertSettings(_ context.Context, s domain.SiteSettings) error {
	r.settings[s.OrganiserID] = s
	return nil
}

func TestOrganiserService_Events(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	eventDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	makeSvc := func(events ...domain.Event) (*OrganiserService, *fakeEventRepo) {
		repo := newFakeEventRepo(events...)
		return NewOrganiserService(repo, newFakeSettingsRepo(), clock.NewFixed(now)), repo
	}

	draft := domain.Event{
		ID:          "event-1",
		OrganiserID: "org-1",
		Title:       "Old Title",
		Description: "Old description",
		State:       domain.EventStateDraft,
	}

	t.Run("create draft starts blank", func(t *testing.T) {
		svc, repo := makeSvc()

		event, err := svc.CreateDraft(context.Background(), "org-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.State != domain.EventStateDraft {
			t.Fatalf("expected draft state, got %s", event.State)
		}
		if event.Title != "" || event.Description != "" {
			t.Fatalf("expected blank draft, got %+v", event)
		}
		if _, ok := repo.events[event.ID]; !ok {
			t.Fatalf("expected draft persisted")
		}
	})

	t.Run("update saves details and tickets together", func(t *testing.T) {
		svc, repo := makeSvc(draft)

		result, err := svc.UpdateEvent(context.Background(), "org-1", UpdateEventInput{
			EventID:     "event-1",
			Title:       "  New Title  ",
			Description: "New description",
			EventDate:   eventDate,
			Tickets: []TicketInput{
				{Type: "General", PriceCents: 2000, Quantity: 100},
				{Type: "VIP", PriceCents: 5000, Quantity: 10},
			},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Event.Title != "New Title" {
			t.Fatalf("expected trimmed title, got %q", result.Event.Title)
		}
		if !result.Event.LastModified.Equal(now) {
			t.Fatalf("expected last_modified %v, got %v", now, result.Event.LastModified)
		}
		if len(result.Tickets) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(result.Tickets))
		}
		if len(repo.tickets["event-1"]) != 2 {
			t.Fatalf("expected tickets persisted, got %d", len(repo.tickets["event-1"]))
		}
	})

	t.Run("update validates before writing", func(t *testing.T) {
		cases := []struct {
			name string
			in   UpdateEventInput
			want error
		}{
			{"blank title", UpdateEventInput{EventID: "event-1", Title: " ", Description: "d", EventDate: eventDate}, domain.ErrTitleRequired},
			{"blank description", UpdateEventInput{EventID: "event-1", Title: "t", Description: "", EventDate: eventDate}, domain.ErrDescriptionRequired},
			{"missing date", UpdateEventInput{EventID: "event-1", Title: "t", Description: "d"}, domain.ErrEventDateRequired},
			{"blank ticket type", UpdateEventInput{EventID: "event-1", Title: "t", Description: "d", EventDate: eventDate,
				Tickets: []TicketInput{{Type: " ", PriceCents: 100, Quantity: 1}}}, domain.ErrTicketTypeRequired},
			{"negative price", UpdateEventInput{EventID: "event-1", Title: "t", Description: "d", EventDate: eventDate,
				Tickets: []TicketInput{{Type: "GA", PriceCents: -1, Quantity: 1}}}, domain.ErrInvalidTicketPrice},
			{"negative quantity", UpdateEventInput{EventID: "event-1", Title: "t", Description: "d", EventDate: eventDate,
				Tickets: []TicketInput{{Type: "GA", PriceCents: 100, Quantity: -1}}}, domain.ErrInvalidTicketQty},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc, repo := makeSvc(draft)
				if _, err := svc.UpdateEvent(context.Background(), "org-1", tc.in); err != tc.want {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
				if repo.events["event-1"].Title != "Old Title" {
					t.Fatalf("expected event untouched")
				}
			})
		}
	})

	t.Run("organisers cannot touch another tenant's event", func(t *testing.T) {
		svc, _ := makeSvc(draft)

		if _, err := svc.GetEvent(context.Background(), "org-2", "event-1"); err != domain.ErrNotEventOwner {
			t.Fatalf("expected ErrNotEventOwner on get, got %v", err)
		}
		if err := svc.Publish(context.Background(), "org-2", "event-1"); err != domain.ErrNotEventOwner {
			t.Fatalf("expected ErrNotEventOwner on publish, got %v", err)
		}
		if err := svc.Delete(context.Background(), "org-2", "event-1"); err != domain.ErrNotEventOwner {
			t.Fatalf("expected ErrNotEventOwner on delete, got %v", err)
		}
	})

	t.Run("publish is one-directional", func(t *testing.T) {
		svc, repo := makeSvc(draft)

		if err := svc.Publish(context.Background(), "org-1", "event-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repo.events["event-1"].State != domain.EventStatePublished {
			t.Fatalf("expected published state")
		}
		if err := svc.Publish(context.Background(), "org-1", "event-1"); err != domain.ErrAlreadyPublished {
			t.Fatalf("expected ErrAlreadyPublished, got %v", err)
		}
	})

	t.Run("delete removes the event", func(t *testing.T) {
		svc, repo := makeSvc(draft)

		if err := svc.Delete(context.Background(), "org-1", "event-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := repo.events["event-1"]; ok {
			t.Fatalf("expected event removed")
		}
	})

	t.Run("list splits published and drafts", func(t *testing.T) {
		published := domain.Event{ID: "event-2", OrganiserID: "org-1", State: domain.EventStatePublished}
		svc, _ := makeSvc(draft, published)

		lists, err := svc.ListEvents(context.Background(), "org-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(lists.Published) != 1 || len(lists.Drafts) != 1 {
			t.Fatalf("expected 1 published and 1 draft, got %d/%d", len(lists.Published), len(lists.Drafts))
		}
	})
}

func TestOrganiserService_Settings(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewOrganiserService(newFakeEventRepo(), newFakeSettingsRepo(), clock.NewFixed(now))

	t.Run("update requires name and description", func(t *testing.T) {
		if _, err := svc.UpdateSettings(context.Background(), "org-1", " ", "d"); err != domain.ErrNameRequired {
			t.Fatalf("expected ErrNameRequired, got %v", err)
		}
		if _, err := svc.UpdateSettings(context.Background(), "org-1", "n", ""); err != domain.ErrDescriptionRequired {
			t.Fatalf("expected ErrDescriptionRequired, got %v", err)
		}
	})

	t.Run("update round-trips through get", func(t *testing.T) {
		saved, err := svc.UpdateSettings(context.Background(), "org-1", "My Site", "All our events")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !saved.UpdatedAt.Equal(now) {
			t.Fatalf("expected updated_at %v, got %v", now, saved.UpdatedAt)
		}

		got, err := svc.GetSettings(context.Background(), "org-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Name != "My Site" || got.Description != "All our events" {
			t.Fatalf("unexpected settings: %+v", got)
		}
	})
}
