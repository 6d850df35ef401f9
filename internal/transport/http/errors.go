package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cimillas/event-manager/internal/domain"
)

const (
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeTitleRequired       = "title_required"
	codeDescriptionRequired = "description_required"
	codeEventDateRequired   = "event_date_required"
	codeNameRequired        = "name_required"
	codeTicketTypeRequired  = "ticket_type_required"
	codeInvalidTicketPrice  = "invalid_ticket_price"
	codeInvalidTicketQty    = "invalid_ticket_quantity"
	codeBuyerNameRequired   = "buyer_name_required"
	codeInvalidBuyerEmail   = "invalid_buyer_email"
	codeNoTicketsRequested  = "no_tickets_requested"
	codeInvalidQuantity     = "invalid_quantity"
	codeEventNotFound       = "event_not_found"
	codeTicketNotFound      = "ticket_not_found"
	codeBookingNotFound     = "booking_not_found"
	codeOrganiserNotFound   = "organiser_not_found"
	codeAdminNotFound       = "admin_not_found"
	codeAlreadyPublished    = "already_published"
	codeUsernameTaken       = "username_taken"
	codeInsufficientStock   = "insufficient_stock"
	codeMissingFields       = "missing_required_field"
	codeInvalidCredentials  = "invalid_credentials"
	codeAccountDisabled     = "account_disabled"
	codeSelfDeletion        = "self_deletion"
	codeUnauthorized        = "unauthorized"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	Shortages []shortageEntry `json:"shortages,omitempty"`
}

type shortageEntry struct {
	TicketID   string `json:"ticket_id"`
	TicketType string `json:"ticket_type"`
	Requested  int    `json:"requested"`
	Remaining  int    `json:"remaining"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps service errors to HTTP responses. Anything outside
// the known taxonomy becomes an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		resp := errorResponse{Error: stock.Error(), Code: codeInsufficientStock}
		for _, sh := range stock.Shortages {
			resp.Shortages = append(resp.Shortages, shortageEntry{
				TicketID:   sh.TicketID,
				TicketType: sh.TicketType,
				Requested:  sh.Requested,
				Remaining:  sh.Remaining,
			})
		}
		writeErrorResponse(w, http.StatusConflict, resp)
		return
	}

	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusNotFound, codeInvalidID, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrTicketNotFound:
		writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
	case domain.ErrBookingNotFound:
		writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
	case domain.ErrOrganiserNotFound:
		writeError(w, http.StatusNotFound, codeOrganiserNotFound, err.Error())
	case domain.ErrAdminNotFound:
		writeError(w, http.StatusNotFound, codeAdminNotFound, err.Error())
	case domain.ErrNotEventOwner:
		// Ownership failures read as 404 so organisers cannot probe for
		// other tenants' event ids.
		writeError(w, http.StatusNotFound, codeEventNotFound, domain.ErrEventNotFound.Error())
	case domain.ErrTitleRequired:
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case domain.ErrDescriptionRequired:
		writeError(w, http.StatusBadRequest, codeDescriptionRequired, err.Error())
	case domain.ErrEventDateRequired:
		writeError(w, http.StatusBadRequest, codeEventDateRequired, err.Error())
	case domain.ErrNameRequired:
		writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
	case domain.ErrTicketTypeRequired:
		writeError(w, http.StatusBadRequest, codeTicketTypeRequired, err.Error())
	case domain.ErrInvalidTicketPrice:
		writeError(w, http.StatusBadRequest, codeInvalidTicketPrice, err.Error())
	case domain.ErrInvalidTicketQty:
		writeError(w, http.StatusBadRequest, codeInvalidTicketQty, err.Error())
	case domain.ErrBuyerNameRequired:
		writeError(w, http.StatusBadRequest, codeBuyerNameRequired, err.Error())
	case domain.ErrInvalidBuyerEmail:
		writeError(w, http.StatusBadRequest, codeInvalidBuyerEmail, err.Error())
	case domain.ErrNoTicketsRequested:
		writeError(w, http.StatusBadRequest, codeNoTicketsRequested, err.Error())
	case domain.ErrInvalidQuantity:
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case domain.ErrMissingFields:
		writeError(w, http.StatusBadRequest, codeMissingFields, err.Error())
	case domain.ErrAlreadyPublished:
		writeError(w, http.StatusConflict, codeAlreadyPublished, err.Error())
	case domain.ErrUsernameTaken:
		writeError(w, http.StatusConflict, codeUsernameTaken, err.Error())
	case domain.ErrSelfDeletion:
		writeError(w, http.StatusConflict, codeSelfDeletion, err.Error())
	case domain.ErrCredentials:
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case domain.ErrAccountDisabled:
		writeError(w, http.StatusForbidden, codeAccountDisabled, err.Error())
	case domain.ErrSessionNotFound, domain.ErrSessionExpired:
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired session")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
