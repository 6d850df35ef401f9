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

// PlatformAdmin is the minimal interface needed for the admin routes.
type PlatformAdmin interface {
	Stats(ctx context.Context) (domain.PlatformStats, error)
	ListOrganisers(ctx context.Context) ([]domain.OrganiserOverview, error)
	ToggleOrganiser(ctx context.Context, organiserID string) (bool, error)
	ListEvents(ctx context.Context) ([]domain.EventOverview, error)
	ListBookings(ctx context.Context) ([]domain.BookingDetail, error)
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
	CreateAdmin(ctx context.Context, in app.CreateAdminInput) (domain.Admin, error)
	DeleteAdmin(ctx context.Context, actingAdminID, adminID string) error
}

type statsResponse struct {
	TotalOrganisers   int   `json:"total_organisers"`
	TotalEvents       int   `json:"total_events"`
	TotalBookings     int   `json:"total_bookings"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
}

// HandlePlatformStats returns platform-wide totals.
func HandlePlatformStats(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			TotalOrganisers:   stats.TotalOrganisers,
			TotalEvents:       stats.TotalEvents,
			TotalBookings:     stats.TotalBookings,
			TotalRevenueCents: stats.TotalRevenueCents,
		})
	}
}

type organiserOverviewResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Organisation string `json:"organisation"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	EventCount   int    `json:"event_count"`
	BookingCount int    `json:"booking_count"`
	RevenueCents int64  `json:"revenue_cents"`
}

// HandleListAllOrganisers returns every organiser with their aggregates.
func HandleListAllOrganisers(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		organisers, err := svc.ListOrganisers(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]organiserOverviewResponse, 0, len(organisers))
		for _, o := range organisers {
			resp = append(resp, organiserOverviewResponse{
				ID:           o.ID,
				Username:     o.Username,
				Organisation: o.Organisation,
				IsActive:     o.IsActive,
				CreatedAt:    o.CreatedAt.Format(time.RFC3339),
				EventCount:   o.EventCount,
				BookingCount: o.BookingCount,
				RevenueCents: o.RevenueCents,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleToggleOrganiser flips an organiser's active flag.
func HandleToggleOrganiser(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := svc.ToggleOrganiser(r.Context(), chi.URLParam(r, "organiserID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"is_active": active})
	}
}

type eventOverviewResponse struct {
	eventResponse
	OrganiserUsername string `json:"organiser_username"`
	Organisation      string `json:"organisation"`
	BookingCount      int    `json:"booking_count"`
	RevenueCents      int64  `json:"revenue_cents"`
}

// HandleListAllEvents returns every event on the platform with its owner
// and sales aggregates.
func HandleListAllEvents(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]eventOverviewResponse, 0, len(events))
		for _, e := range events {
			resp = append(resp, eventOverviewResponse{
				eventResponse:     toEventResponse(e.Event),
				OrganiserUsername: e.OrganiserUsername,
				Organisation:      e.Organisation,
				BookingCount:      e.BookingCount,
				RevenueCents:      e.RevenueCents,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleListAllBookings returns every booking on the platform.
func HandleListAllBookings(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := svc.ListBookings(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingDetails(bookings))
	}
}

type adminResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// HandleListAdmins returns all admin accounts.
func HandleListAdmins(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admins, err := svc.ListAdmins(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]adminResponse, 0, len(admins))
		for _, a := range admins {
			resp = append(resp, adminResponse{
				ID:        a.ID,
				Username:  a.Username,
				Email:     a.Email,
				CreatedAt: a.CreatedAt.Format(time.RFC3339),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type createAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleCreateAdmin creates a new admin account.
func HandleCreateAdmin(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAdminRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		admin, err := svc.CreateAdmin(r.Context(), app.CreateAdminInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, adminResponse{
			ID:        admin.ID,
			Username:  admin.Username,
			Email:     admin.Email,
			CreatedAt: admin.CreatedAt.Format(time.RFC3339),
		})
	}
}

// HandleDeleteAdmin removes an admin account other than the caller's own.
func HandleDeleteAdmin(svc PlatformAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFrom(r.Context())
		if err := svc.DeleteAdmin(r.Context(), identity.AccountID, chi.URLParam(r, "adminID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
