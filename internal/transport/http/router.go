package http

import (
	"net/http"

	"github.com/cimillas/event-manager/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Logger         *logrus.Logger
	Auth           AuthSessions
	Authenticator  Authenticator
	Events         EventBrowser
	Bookings       BookingCreator
	Organiser      EventManager
	OrganiserSales BookingLister
	Admin          PlatformAdmin
	DB             Pinger
	AllowedOrigins []string
}

// NewRouter wires every route behind the shared middleware stack.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))

	r.Get("/healthz", HandleHealth(deps.DB))

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(deps.Authenticator))

		// Public attendee surface.
		r.Get("/events", HandleListPublishedEvents(deps.Events))
		r.Get("/events/{eventID}", HandleGetPublishedEvent(deps.Events))
		r.Post("/events/{eventID}/bookings", HandleCreateBooking(deps.Bookings))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/organiser/login", HandleLogin(deps.Auth, domain.RoleOrganiser))
			r.Post("/admin/login", HandleLogin(deps.Auth, domain.RoleAdmin))
			r.Post("/logout", HandleLogout(deps.Auth))
		})

		r.Route("/organiser", func(r chi.Router) {
			r.Use(RequireRole(domain.RoleOrganiser))

			r.Get("/events", HandleListOrganiserEvents(deps.Organiser))
			r.Post("/events", HandleCreateDraft(deps.Organiser))
			r.Get("/events/{eventID}", HandleGetOrganiserEvent(deps.Organiser))
			r.Put("/events/{eventID}", HandleUpdateEvent(deps.Organiser))
			r.Post("/events/{eventID}/publish", HandlePublishEvent(deps.Organiser))
			r.Delete("/events/{eventID}", HandleDeleteEvent(deps.Organiser))

			r.Get("/settings", HandleGetSettings(deps.Organiser))
			r.Put("/settings", HandleUpdateSettings(deps.Organiser))

			r.Get("/bookings", HandleListOrganiserBookings(deps.OrganiserSales))
			r.Get("/ticket-sales", HandleTicketSales(deps.OrganiserSales))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(domain.RoleAdmin))

			r.Get("/stats", HandlePlatformStats(deps.Admin))
			r.Get("/organisers", HandleListAllOrganisers(deps.Admin))
			r.Post("/organisers/{organiserID}/toggle", HandleToggleOrganiser(deps.Admin))
			r.Get("/events", HandleListAllEvents(deps.Admin))
			r.Get("/bookings", HandleListAllBookings(deps.Admin))
			r.Get("/admins", HandleListAdmins(deps.Admin))
			r.Post("/admins", HandleCreateAdmin(deps.Admin))
			r.Delete("/admins/{adminID}", HandleDeleteAdmin(deps.Admin))
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})

	return r
}
