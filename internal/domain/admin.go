package domain

import "time"

// Admin is a platform-level account overseeing organisers, events, and bookings.
type Admin struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PlatformStats is the admin dashboard headline numbers.
type PlatformStats struct {
	TotalOrganisers   int
	TotalEvents       int
	TotalBookings     int
	TotalRevenueCents int64
}
