package domain

import "time"

// PaymentStatusCompleted is the only payment status the platform records;
// payment processing itself is out of scope.
const PaymentStatusCompleted = "completed"

// Booking is an immutable record of a buyer's purchase against one ticket
// type. A multi-type purchase produces one Booking per type, written in the
// same transaction as the matching stock decrements.
type Booking struct {
	ID            string
	EventID       string
	TicketID      string
	BuyerName     string
	BuyerEmail    string
	Quantity      int
	TotalCents    int64
	PaymentStatus string
	BookedAt      time.Time
}

// BookingDetail joins a booking with its event and ticket labels for
// organiser and admin listings.
type BookingDetail struct {
	Booking
	EventTitle string
	TicketType string
}

// TicketSales aggregates sold quantities per ticket type label.
type TicketSales struct {
	TicketType string
	Sold       int
}
