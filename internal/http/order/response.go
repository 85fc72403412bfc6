package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/order"
)

type paymentResponse struct {
	ID        uuid.UUID     `json:"id"`
	Amount    int64         `json:"amount"`
	Channel   money.Channel `json:"channel"`
	PaidAt    time.Time     `json:"paid_at"`
	Reference string        `json:"reference,omitempty"`
}

type response struct {
	ID          uuid.UUID         `json:"id"`
	ClientName  string            `json:"client_name"`
	ClientPhone string            `json:"client_phone,omitempty"`
	Plan        string            `json:"plan"`
	Total       int64             `json:"total"`
	Paid        int64             `json:"paid"`
	Outstanding int64             `json:"outstanding"`
	Status      order.Status      `json:"status"`
	StartDate   time.Time         `json:"start_date"`
	Payments    []paymentResponse `json:"payments"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toPaymentResponse(p order.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		Amount:    p.Amount,
		Channel:   p.Channel,
		PaidAt:    p.PaidAt,
		Reference: p.Reference,
	}
}

func toResponse(o *order.Order) response {
	payments := make([]paymentResponse, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, toPaymentResponse(p))
	}

	return response{
		ID:          o.ID,
		ClientName:  o.ClientName,
		ClientPhone: o.ClientPhone,
		Plan:        o.Plan,
		Total:       o.Total,
		Paid:        o.Paid(),
		Outstanding: o.Outstanding(),
		Status:      o.Status,
		StartDate:   o.StartDate,
		Payments:    payments,
		CreatedAt:   o.CreatedAt,
	}
}
