package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cimillas/event-manager/internal/domain"
)

// AuthSessions is the minimal interface needed for login and logout.
type AuthSessions interface {
	Login(ctx context.Context, role domain.Role, username, password string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

// HandleLogin returns an HTTP handler authenticating accounts of one role.
func HandleLogin(svc AuthSessions, role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		session, err := svc.Login(r.Context(), role, req.Username, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token:     session.Token,
			Role:      string(session.Role),
			ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		})
	}
}

// HandleLogout deletes the presented session. Requests without a token are
// a no-op success.
func HandleLogout(svc AuthSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token != "" {
			if err := svc.Logout(r.Context(), token); err != nil {
				writeDomainError(w, err)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
