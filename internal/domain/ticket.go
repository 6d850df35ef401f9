package domain

// Ticket is a priced, finite-inventory admission category tied to one event.
// Quantity is the remaining stock: organiser edits set it absolutely, the
// booking transaction decrements it. It never goes below zero.
type Ticket struct {
	ID         string
	EventID    string
	Type       string
	PriceCents int64
	Quantity   int
}
