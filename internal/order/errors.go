package order

import "errors"

var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrMissingClient = errors.New("client name is required")
	ErrMissingPlan   = errors.New("plan is required")
)
