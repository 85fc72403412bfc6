package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

// Status represents the rental lifecycle of an order.
type Status string

const (
	StatusActive    Status = "active"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusReturned, StatusCancelled:
		return true
	}

	return false
}

// Order is a washer rental for a client under a given plan.
type Order struct {
	ID          uuid.UUID
	ClientName  string
	ClientPhone string
	Plan        string
	Total       int64 // Amount in cents
	Status      Status
	StartDate   time.Time
	Payments    []Payment // Loaded separately
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Paid returns the sum of all payments received for the order.
func (o *Order) Paid() int64 {
	var paid int64
	for _, p := range o.Payments {
		paid += p.Amount
	}

	return paid
}

// Outstanding returns what the client still owes, never below zero.
func (o *Order) Outstanding() int64 {
	return max(0, o.Total-o.Paid())
}

// Payment is one entry of an order's payment history.
type Payment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Amount    int64
	Channel   money.Channel
	PaidAt    time.Time
	Reference string
	CreatedAt time.Time
}

// PaymentRecord is a payment together with the order context the ledger shows.
type PaymentRecord struct {
	Payment
	ClientName string
	Plan       string
}
