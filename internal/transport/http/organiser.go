package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cimillas/event-manager/internal/app"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/go-chi/chi/v5"
)

// EventManager is the minimal interface needed for organiser event routes.
type EventManager interface {
	CreateDraft(ctx context.Context, organiserID string) (domain.Event, error)
	UpdateEvent(ctx context.Context, organiserID string, in app.UpdateEventInput) (app.EventWithTickets, error)
	GetEvent(ctx context.Context, organiserID, eventID string) (app.EventWithTickets, error)
	Publish(ctx context.Context, organiserID, eventID string) error
	Delete(ctx context.Context, organiserID, eventID string) error
	ListEvents(ctx context.Context, organiserID string) (app.EventLists, error)
	GetSettings(ctx context.Context, organiserID string) (domain.SiteSettings, error)
	UpdateSettings(ctx context.Context, organiserID, name, description string) (domain.SiteSettings, error)
}

// BookingLister is the minimal interface for organiser booking reports.
type BookingLister interface {
	ListForOrganiser(ctx context.Context, organiserID string) ([]domain.BookingDetail, error)
	TicketSales(ctx context.Context, organiserID string) ([]domain.TicketSales, error)
}

type eventListsResponse struct {
	Published []eventSummaryResponse `json:"published"`
	Drafts    []eventSummaryResponse `json:"drafts"`
}

// HandleListOrganiserEvents returns the organiser's published and draft
// events side by side.
func HandleListOrganiserEvents(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		lists, err := svc.ListEvents(r.Context(), identity.AccountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, eventListsResponse{
			Published: toEventSummaries(lists.Published),
			Drafts:    toEventSummaries(lists.Drafts),
		})
	}
}

// HandleCreateDraft creates a blank draft event.
func HandleCreateDraft(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		event, err := svc.CreateDraft(r.Context(), identity.AccountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

type eventWithTicketsResponse struct {
	Event   eventResponse    `json:"event"`
	Tickets []ticketResponse `json:"tickets"`
}

// HandleGetOrganiserEvent returns one of the organiser's events for editing.
func HandleGetOrganiserEvent(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		result, err := svc.GetEvent(r.Context(), identity.AccountID, chi.URLParam(r, "eventID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, eventWithTicketsResponse{
			Event:   toEventResponse(result.Event),
			Tickets: toTicketResponses(result.Tickets),
		})
	}
}

type updateEventRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	EventDate   string               `json:"event_date"`
	Tickets     []ticketInputRequest `json:"tickets"`
}

type ticketInputRequest struct {
	Type       string `json:"type"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// HandleUpdateEvent saves event details and ticket types in one shot.
func HandleUpdateEvent(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		var eventDate time.Time
		if req.EventDate != "" {
			parsed, err := time.Parse(dateLayout, req.EventDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeEventDateRequired, "invalid event_date format")
				return
			}
			eventDate = parsed
		}

		in := app.UpdateEventInput{
			EventID:     chi.URLParam(r, "eventID"),
			Title:       req.Title,
			Description: req.Description,
			EventDate:   eventDate,
		}
		for _, t := range req.Tickets {
			in.Tickets = append(in.Tickets, app.TicketInput{
				Type:       t.Type,
				PriceCents: t.PriceCents,
				Quantity:   t.Quantity,
			})
		}

		identity, _ := IdentityFrom(r.Context())
		result, err := svc.UpdateEvent(r.Context(), identity.AccountID, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, eventWithTicketsResponse{
			Event:   toEventResponse(result.Event),
			Tickets: toTicketResponses(result.Tickets),
		})
	}
}

// HandlePublishEvent moves a draft to published.
func HandlePublishEvent(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		if err := svc.Publish(r.Context(), identity.AccountID, chi.URLParam(r, "eventID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleDeleteEvent removes an event with its tickets and bookings.
func HandleDeleteEvent(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		if err := svc.Delete(r.Context(), identity.AccountID, chi.URLParam(r, "eventID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleGetSettings returns the organiser's storefront settings. Organisers
// without settings yet get an empty object rather than a 404.
func HandleGetSettings(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		settings, err := svc.GetSettings(r.Context(), identity.AccountID)
		if err != nil {
			if err == domain.ErrOrganiserNotFound {
				writeJSON(w, http.StatusOK, settingsResponse{})
				return
			}
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSettingsResponse(settings))
	}
}

type updateSettingsRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleUpdateSettings saves the organiser's storefront settings.
func HandleUpdateSettings(svc EventManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSettingsRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		identity, _ := IdentityFrom(r.Context())
		settings, err := svc.UpdateSettings(r.Context(), identity.AccountID, req.Name, req.Description)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSettingsResponse(settings))
	}
}

// HandleListOrganiserBookings returns every booking against the organiser's
// events, newest first.
func HandleListOrganiserBookings(svc BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		bookings, err := svc.ListForOrganiser(r.Context(), identity.AccountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingDetails(bookings))
	}
}

type ticketSalesResponse struct {
	TicketType string `json:"ticket_type"`
	Sold       int    `json:"sold"`
}

// HandleTicketSales returns sold quantities per ticket type.
func HandleTicketSales(svc BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		sales, err := svc.TicketSales(r.Context(), identity.AccountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]ticketSalesResponse, 0, len(sales))
		for _, s := range sales {
			resp = append(resp, ticketSalesResponse{TicketType: s.TicketType, Sold: s.Sold})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
