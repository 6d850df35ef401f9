package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrTicketNotFound    = errors.New("ticket type not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrOrganiserNotFound = errors.New("organiser not found")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidID         = errors.New("invalid id")
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrEventDateRequired   = errors.New("event date is required")
	ErrNameRequired        = errors.New("name is required")
	ErrTicketTypeRequired  = errors.New("ticket type name cannot be blank")
	ErrInvalidTicketPrice  = errors.New("ticket price must not be negative")
	ErrInvalidTicketQty    = errors.New("ticket quantity must not be negative")
	ErrBuyerNameRequired   = errors.New("buyer name is required")
	ErrInvalidBuyerEmail   = errors.New("buyer email is not a valid address")
	ErrNoTicketsRequested  = errors.New("select at least one ticket")
	ErrInvalidQuantity     = errors.New("requested quantity must not be negative")
)

var (
	ErrAlreadyPublished  = errors.New("event is already published")
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrCredentials       = errors.New("invalid username or password")
	ErrAccountDisabled   = errors.New("account is disabled")
	ErrSessionExpired    = errors.New("session expired")
	ErrSelfDeletion      = errors.New("cannot delete your own account")
	ErrMissingFields     = errors.New("all fields are required")
	ErrNotEventOwner     = errors.New("event belongs to another organiser")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockShortage reports one ticket type whose requested quantity exceeds
// the remaining stock.
type StockShortage struct {
	TicketID   string
	TicketType string
	Requested  int
	Remaining  int
}

// InsufficientStockError aborts a booking with no partial effect and names
// every short ticket type. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %d, %d remaining", s.TicketType, s.Requested, s.Remaining))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
