package app

import (
	"context"
	"strings"
	"time"

	"github.com/cimillas/event-manager/internal/clock"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type SessionRepository interface {
	Create(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type AccountRepository interface {
	GetOrganiserByUsername(ctx context.Context, username string) (domain.Organiser, error)
	GetOrganiserByID(ctx context.Context, id string) (domain.Organiser, error)
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)
	GetAdminByID(ctx context.Context, id string) (domain.Admin, error)
}

// AuthService issues and resolves opaque session tokens for organiser and
// admin accounts.
type AuthService struct {
	accounts AccountRepository
	sessions SessionRepository
	clock    clock.Clock
	ttl      time.Duration
}

func NewAuthService(accounts AccountRepository, sessions SessionRepository, clk clock.Clock, ttl time.Duration) *AuthService {
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		clock:    clk,
		ttl:      ttl,
	}
}

// Login verifies the credentials for the given role and returns a fresh
// session. Bad username and bad password are indistinguishable to the
// caller; disabled organiser accounts are reported separately.
func (s *AuthService) Login(ctx context.Context, role domain.Role, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, domain.ErrMissingFields
	}

	var accountID, hash string
	switch role {
	case domain.RoleOrganiser:
		organiser, err := s.accounts.GetOrganiserByUsername(ctx, username)
		if err != nil {
			if err == domain.ErrOrganiserNotFound {
				return domain.Session{}, domain.ErrCredentials
			}
			return domain.Session{}, err
		}
		if !organiser.IsActive {
			return domain.Session{}, domain.ErrAccountDisabled
		}
		accountID, hash = organiser.ID, organiser.PasswordHash
	case domain.RoleAdmin:
		admin, err := s.accounts.GetAdminByUsername(ctx, username)
		if err != nil {
			if err == domain.ErrAdminNotFound {
				return domain.Session{}, domain.ErrCredentials
			}
			return domain.Session{}, err
		}
		accountID, hash = admin.ID, admin.PasswordHash
	default:
		return domain.Session{}, domain.ErrCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return domain.Session{}, domain.ErrCredentials
	}

	now := s.clock.Now()
	// Login is as good a moment as any to sweep out stale sessions.
	if _, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		return domain.Session{}, err
	}

	session := domain.Session{
		Token:     uuid.NewString(),
		AccountID: accountID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to the acting identity. Expired
// sessions are deleted on sight; organisers disabled since login are
// rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	if !session.ExpiresAt.After(s.clock.Now()) {
		_ = s.sessions.Delete(ctx, session.Token)
		return domain.Identity{}, domain.ErrSessionExpired
	}

	switch session.Role {
	case domain.RoleOrganiser:
		organiser, err := s.accounts.GetOrganiserByID(ctx, session.AccountID)
		if err != nil {
			return domain.Identity{}, err
		}
		if !organiser.IsActive {
			return domain.Identity{}, domain.ErrAccountDisabled
		}
		return domain.Identity{AccountID: organiser.ID, Username: organiser.Username, Role: domain.RoleOrganiser}, nil
	case domain.RoleAdmin:
		admin, err := s.accounts.GetAdminByID(ctx, session.AccountID)
		if err != nil {
			return domain.Identity{}, err
		}
		return domain.Identity{AccountID: admin.ID, Username: admin.Username, Role: domain.RoleAdmin}, nil
	default:
		return domain.Identity{}, domain.ErrSessionNotFound
	}
}
