package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cimillas/event-manager/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

const dateLayout = "2006-01-02"

type eventResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	EventDate    string `json:"event_date,omitempty"`
	State        string `json:"state"`
	CreatedAt    string `json:"created_at"`
	LastModified string `json:"last_modified"`
	PublishedAt  string `json:"published_at,omitempty"`
}

func toEventResponse(e domain.Event) eventResponse {
	resp := eventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		State:        string(e.State),
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		LastModified: e.LastModified.Format(time.RFC3339),
	}
	if !e.EventDate.IsZero() {
		resp.EventDate = e.EventDate.Format(dateLayout)
	}
	if e.PublishedAt != nil {
		resp.PublishedAt = e.PublishedAt.Format(time.RFC3339)
	}
	return resp
}

type eventSummaryResponse struct {
	eventResponse
	RemainingTickets int `json:"remaining_tickets"`
}

func toEventSummaries(summaries []domain.EventSummary) []eventSummaryResponse {
	resp := make([]eventSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, eventSummaryResponse{
			eventResponse:    toEventResponse(s.Event),
			RemainingTickets: s.RemainingTickets,
		})
	}
	return resp
}

type ticketResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

func toTicketResponses(tickets []domain.Ticket) []ticketResponse {
	resp := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, ticketResponse{
			ID:         t.ID,
			Type:       t.Type,
			PriceCents: t.PriceCents,
			Quantity:   t.Quantity,
		})
	}
	return resp
}

type bookingDetailResponse struct {
	ID            string `json:"id"`
	EventID       string `json:"event_id"`
	EventTitle    string `json:"event_title"`
	TicketType    string `json:"ticket_type"`
	BuyerName     string `json:"buyer_name"`
	BuyerEmail    string `json:"buyer_email"`
	Quantity      int    `json:"quantity"`
	TotalCents    int64  `json:"total_cents"`
	PaymentStatus string `json:"payment_status"`
	BookedAt      string `json:"booked_at"`
}

func toBookingDetails(details []domain.BookingDetail) []bookingDetailResponse {
	resp := make([]bookingDetailResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, bookingDetailResponse{
			ID:            d.ID,
			EventID:       d.EventID,
			EventTitle:    d.EventTitle,
			TicketType:    d.TicketType,
			BuyerName:     d.BuyerName,
			BuyerEmail:    d.BuyerEmail,
			Quantity:      d.Quantity,
			TotalCents:    d.TotalCents,
			PaymentStatus: d.PaymentStatus,
			BookedAt:      d.BookedAt.Format(time.RFC3339),
		})
	}
	return resp
}

type settingsResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

func toSettingsResponse(s domain.SiteSettings) settingsResponse {
	return settingsResponse{
		Name:        s.Name,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}
