package domain

import "time"

// Organiser is a tenant account owning events and site settings. Inactive
// organisers keep their data but cannot log in.
type Organiser struct {
	ID           string
	Username     string
	PasswordHash string
	Organisation string
	IsActive     bool
	CreatedAt    time.Time
}

// OrganiserOverview is an organiser with platform-level aggregates for the
// admin screen.
type OrganiserOverview struct {
	Organiser
	EventCount   int
	BookingCount int
	RevenueCents int64
}

// SiteSettings is the per-organiser public storefront header.
type SiteSettings struct {
	OrganiserID string
	Name        string
	Description string
	UpdatedAt   time.Time
}
