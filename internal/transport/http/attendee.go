package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cimillas/event-manager/internal/app"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/go-chi/chi/v5"
)

// EventBrowser is the minimal interface needed for attendee browsing.
type EventBrowser interface {
	ListEvents(ctx context.Context) ([]domain.EventSummary, error)
	GetEvent(ctx context.Context, eventID string) (app.EventPage, error)
}

// BookingCreator is the minimal interface needed to book tickets.
type BookingCreator interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (app.CreateBookingResult, error)
}

// HandleListPublishedEvents returns the public event listing.
func HandleListPublishedEvents(svc EventBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventSummaries(events))
	}
}

type eventPageResponse struct {
	Event   eventResponse     `json:"event"`
	Tickets []ticketResponse  `json:"tickets"`
	Site    *settingsResponse `json:"site,omitempty"`
}

// HandleGetPublishedEvent returns the attendee event detail page.
func HandleGetPublishedEvent(svc EventBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := eventPageResponse{
			Event:   toEventResponse(page.Event),
			Tickets: toTicketResponses(page.Tickets),
		}
		if page.Settings != nil {
			site := toSettingsResponse(*page.Settings)
			resp.Site = &site
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type createBookingRequest struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Tickets map[string]int `json:"tickets"`
}

type bookingLineResponse struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticket_id"`
	Quantity   int    `json:"quantity"`
	TotalCents int64  `json:"total_cents"`
}

type createBookingResponse struct {
	Bookings   []bookingLineResponse `json:"bookings"`
	TotalCents int64                 `json:"total_cents"`
}

// HandleCreateBooking books tickets for a published event.
func HandleCreateBooking(svc BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		result, err := svc.CreateBooking(r.Context(), app.CreateBookingInput{
			EventID:    chi.URLParam(r, "eventID"),
			BuyerName:  req.Name,
			BuyerEmail: req.Email,
			Quantities: req.Tickets,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := createBookingResponse{TotalCents: result.TotalCents}
		for _, b := range result.Bookings {
			resp.Bookings = append(resp.Bookings, bookingLineResponse{
				ID:         b.ID,
				TicketID:   b.TicketID,
				Quantity:   b.Quantity,
				TotalCents: b.TotalCents,
			})
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}
