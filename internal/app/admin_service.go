package app

import (
	"context"
	"strings"

	"github.com/cimillas/event-manager/internal/clock"
	"github.com/cimillas/event-manager/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AdminRepository interface {
	PlatformStats(ctx context.Context) (domain.PlatformStats, error)
	ListOrganiserOverviews(ctx context.Context) ([]domain.OrganiserOverview, error)
	SetOrganiserActive(ctx context.Context, organiserID string, active bool) error
	ListAllEvents(ctx context.Context) ([]domain.EventOverview, error)
	ListAllBookings(ctx context.Context) ([]domain.BookingDetail, error)
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
	CreateAdmin(ctx context.Context, a domain.Admin) error
	DeleteAdmin(ctx context.Context, adminID string) error
}

type OrganiserFetcher interface {
	GetOrganiserByID(ctx context.Context, id string) (domain.Organiser, error)
}

// AdminService is the platform operator's view: stats, organiser
// management, global listings, and admin account management.
type AdminService struct {
	repo       AdminRepository
	organisers OrganiserFetcher
	clock      clock.Clock
}

func NewAdminService(repo AdminRepository, organisers OrganiserFetcher, clk clock.Clock) *AdminService {
	return &AdminService{
		repo:       repo,
		organisers: organisers,
		clock:      clk,
	}
}

func (s *AdminService) Stats(ctx context.Context) (domain.PlatformStats, error) {
	return s.repo.PlatformStats(ctx)
}

func (s *AdminService) ListOrganisers(ctx context.Context) ([]domain.OrganiserOverview, error) {
	return s.repo.ListOrganiserOverviews(ctx)
}

// ToggleOrganiser flips an organiser's active flag and returns the new state.
func (s *AdminService) ToggleOrganiser(ctx context.Context, organiserID string) (bool, error) {
	organiser, err := s.organisers.GetOrganiserByID(ctx, organiserID)
	if err != nil {
		return false, err
	}
	next := !organiser.IsActive
	if err := s.repo.SetOrganiserActive(ctx, organiserID, next); err != nil {
		return false, err
	}
	return next, nil
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.EventOverview, error) {
	return s.repo.ListAllEvents(ctx)
}

func (s *AdminService) ListBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	return s.repo.ListAllBookings(ctx)
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.repo.ListAdmins(ctx)
}

type CreateAdminInput struct {
	Username string
	Email    string
	Password string
}

func (s *AdminService) CreateAdmin(ctx context.Context, in CreateAdminInput) (domain.Admin, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return domain.Admin{}, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, err
	}

	admin := domain.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return domain.Admin{}, err
	}
	return admin, nil
}

// DeleteAdmin removes an admin account. Admins cannot delete themselves.
func (s *AdminService) DeleteAdmin(ctx context.Context, actingAdminID, adminID string) error {
	if actingAdminID == adminID {
		return domain.ErrSelfDeletion
	}
	return s.repo.DeleteAdmin(ctx, adminID)
}
