package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cimillas/event-manager/internal/app"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	session    domain.Session
	loginErr   error
	identities map[string]domain.Identity
	loggedOut  []string
}

func (s *stubAuth) Login(_ context.Context, role domain.Role, username, password string) (domain.Session, error) {
	if s.loginErr != nil {
		return domain.Session{}, s.loginErr
	}
	session := s.session
	session.Role = role
	return session, nil
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	identity, ok := s.identities[token]
	if !ok {
		return domain.Identity{}, domain.ErrSessionNotFound
	}
	return identity, nil
}

type stubBrowser struct {
	summaries []domain.EventSummary
	page      app.EventPage
	pageErr   error
}

func (s *stubBrowser) ListEvents(context.Context) ([]domain.EventSummary, error) {
	return s.summaries, nil
}

func (s *stubBrowser) GetEvent(context.Context, string) (app.EventPage, error) {
	if s.pageErr != nil {
		return app.EventPage{}, s.pageErr
	}
	return s.page, nil
}

type stubBooker struct {
	gotInput app.CreateBookingInput
	result   app.CreateBookingResult
	err      error
}

func (s *stubBooker) CreateBooking(_ context.Context, in app.CreateBookingInput) (app.CreateBookingResult, error) {
	s.gotInput = in
	if s.err != nil {
		return app.CreateBookingResult{}, s.err
	}
	return s.result, nil
}

type stubOrganiser struct {
	lists    app.EventLists
	draft    domain.Event
	updated  app.EventWithTickets
	err      error
	settings domain.SiteSettings
}

func (s *stubOrganiser) CreateDraft(context.Context, string) (domain.Event, error) {
	return s.draft, s.err
}

func (s *stubOrganiser) UpdateEvent(context.Context, string, app.UpdateEventInput) (app.EventWithTickets, error) {
	if s.err != nil {
		return app.EventWithTickets{}, s.err
	}
	return s.updated, nil
}

func (s *stubOrganiser) GetEvent(context.Context, string, string) (app.EventWithTickets, error) {
	if s.err != nil {
		return app.EventWithTickets{}, s.err
	}
	return s.updated, nil
}

func (s *stubOrganiser) Publish(context.Context, string, string) error { return s.err }
func (s *stubOrganiser) Delete(context.Context, string, string) error  { return s.err }

func (s *stubOrganiser) ListEvents(context.Context, string) (app.EventLists, error) {
	return s.lists, s.err
}

func (s *stubOrganiser) GetSettings(context.Context, string) (domain.SiteSettings, error) {
	return s.settings, s.err
}

func (s *stubOrganiser) UpdateSettings(context.Context, string, string, string) (domain.SiteSettings, error) {
	return s.settings, s.err
}

type stubLister struct{}

func (stubLister) ListForOrganiser(context.Context, string) ([]domain.BookingDetail, error) {
	return nil, nil
}

func (stubLister) TicketSales(context.Context, string) ([]domain.TicketSales, error) {
	return []domain.TicketSales{{TicketType: "General", Sold: 7}}, nil
}

type stubAdmin struct {
	stats        domain.PlatformStats
	deletedBy    string
	deletedAdmin string
	err          error
}

func (s *stubAdmin) Stats(context.Context) (domain.PlatformStats, error) { return s.stats, s.err }
func (s *stubAdmin) ListOrganisers(context.Context) ([]domain.OrganiserOverview, error) {
	return nil, nil
}
func (s *stubAdmin) ToggleOrganiser(context.Context, string) (bool, error) { return true, s.err }
func (s *stubAdmin) ListEvents(context.Context) ([]domain.EventOverview, error) {
	return nil, nil
}
func (s *stubAdmin) ListBookings(context.Context) ([]domain.BookingDetail, error) {
	return nil, nil
}
func (s *stubAdmin) ListAdmins(context.Context) ([]domain.Admin, error) { return nil, nil }
func (s *stubAdmin) CreateAdmin(context.Context, app.CreateAdminInput) (domain.Admin, error) {
	return domain.Admin{}, s.err
}
func (s *stubAdmin) DeleteAdmin(_ context.Context, actingAdminID, adminID string) error {
	s.deletedBy = actingAdminID
	s.deletedAdmin = adminID
	return s.err
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type testDeps struct {
	auth      *stubAuth
	browser   *stubBrowser
	booker    *stubBooker
	organiser *stubOrganiser
	admin     *stubAdmin
}

func newTestRouter(t *testing.T) (http.Handler, *testDeps) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))

	deps := &testDeps{
		auth: &stubAuth{
			session: domain.Session{Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour)},
			identities: map[string]domain.Identity{
				"org-token": {AccountID: "org-1", Username: "organiser1", Role: domain.RoleOrganiser},
				"adm-token": {AccountID: "adm-1", Username: "admin", Role: domain.RoleAdmin},
			},
		},
		browser:   &stubBrowser{},
		booker:    &stubBooker{},
		organiser: &stubOrganiser{},
		admin:     &stubAdmin{},
	}

	router := NewRouter(RouterDeps{
		Logger:         logger,
		Auth:           deps.auth,
		Authenticator:  deps.auth,
		Events:         deps.browser,
		Bookings:       deps.booker,
		Organiser:      deps.organiser,
		OrganiserSales: stubLister{},
		Admin:          deps.admin,
		DB:             stubPinger{},
	})
	return router, deps
}

func TestRouter_AttendeeBooking(t *testing.T) {
	t.Parallel()

	t.Run("forwards the booking request anonymously", func(t *testing.T) {
		router, deps := newTestRouter(t)
		deps.booker.result = app.CreateBookingResult{
			Bookings: []domain.Booking{
				{ID: "b-1", TicketID: "ticket-ga", Quantity: 2, TotalCents: 5000},
			},
			TotalCents: 5000,
		}

		body := `{"name":"Ada","email":"ada@example.com","tickets":{"ticket-ga":2}}`
		req := httptest.NewRequest(http.MethodPost, "/api/events/event-1/bookings", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "event-1", deps.booker.gotInput.EventID)
		require.Equal(t, map[string]int{"ticket-ga": 2}, deps.booker.gotInput.Quantities)

		var resp createBookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, int64(5000), resp.TotalCents)
		require.Len(t, resp.Bookings, 1)
	})

	t.Run("shortages surface as 409 with details", func(t *testing.T) {
		router, deps := newTestRouter(t)
		deps.booker.err = &domain.InsufficientStockError{Shortages: []domain.StockShortage{
			{TicketID: "ticket-ga", TicketType: "General", Requested: 5, Remaining: 2},
		}}

		body := `{"name":"Ada","email":"ada@example.com","tickets":{"ticket-ga":5}}`
		req := httptest.NewRequest(http.MethodPost, "/api/events/event-1/bookings", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, codeInsufficientStock, resp.Code)
		require.Len(t, resp.Shortages, 1)
		require.Equal(t, 2, resp.Shortages[0].Remaining)
	})

	t.Run("rejects unknown fields in the body", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"name":"Ada","email":"ada@example.com","tickets":{},"extra":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/events/event-1/bookings", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation errors map to 400", func(t *testing.T) {
		router, deps := newTestRouter(t)
		deps.booker.err = domain.ErrInvalidBuyerEmail

		body := `{"name":"Ada","email":"bad","tickets":{"ticket-ga":1}}`
		req := httptest.NewRequest(http.MethodPost, "/api/events/event-1/bookings", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, codeInvalidBuyerEmail, resp.Code)
	})
}

func TestRouter_AuthGates(t *testing.T) {
	t.Parallel()

	t.Run("organiser routes need a session", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/organiser/events", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("organiser token opens organiser routes", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/organiser/events", nil)
		req.Header.Set("Authorization", "Bearer org-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("organiser token cannot reach admin routes", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer org-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid token is rejected outright", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login returns the session token", func(t *testing.T) {
		router, _ := newTestRouter(t)

		body := `{"username":"organiser1","password":"secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/organiser/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp loginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "tok-1", resp.Token)
		require.Equal(t, string(domain.RoleOrganiser), resp.Role)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		router, deps := newTestRouter(t)
		deps.auth.loginErr = domain.ErrCredentials

		body := `{"username":"organiser1","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/organiser/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout deletes the presented session", func(t *testing.T) {
		router, deps := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer org-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, []string{"org-token"}, deps.auth.loggedOut)
	})
}

func TestRouter_Admin(t *testing.T) {
	t.Parallel()

	t.Run("delete admin passes the acting account", func(t *testing.T) {
		router, deps := newTestRouter(t)

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/admins/adm-2", nil)
		req.Header.Set("Authorization", "Bearer adm-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "adm-1", deps.admin.deletedBy)
		require.Equal(t, "adm-2", deps.admin.deletedAdmin)
	})

	t.Run("self deletion maps to 409", func(t *testing.T) {
		router, deps := newTestRouter(t)
		deps.admin.err = domain.ErrSelfDeletion

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/admins/adm-1", nil)
		req.Header.Set("Authorization", "Bearer adm-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("stats round-trip", func(t *testing.T) {
		router, deps := newTestRouter(t)
		deps.admin.stats = domain.PlatformStats{
			TotalOrganisers: 2, TotalEvents: 5, TotalBookings: 9, TotalRevenueCents: 123400,
		}

		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer adm-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp statsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, int64(123400), resp.TotalRevenueCents)
	})
}

func TestRouter_Misc(t *testing.T) {
	t.Parallel()

	t.Run("health reports database state", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"database":"up"`)
	})

	t.Run("unknown routes return a json 404", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), codeNotFound)
	})

	t.Run("ownership failures read as not found", func(t *testing.T) {
		router, deps := newTestRouter(t)
		deps.organiser.err = domain.ErrNotEventOwner

		req := httptest.NewRequest(http.MethodGet, "/api/organiser/events/event-9", nil)
		req.Header.Set("Authorization", "Bearer org-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), codeEventNotFound)
	})
}
