package expense

import "errors"

var (
	ErrNotFound            = errors.New("expense not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrMissingConcept      = errors.New("concept is required")
	ErrMissingEquipment    = errors.New("equipment is required")
	ErrMissingAuthor       = errors.New("author is required")
	ErrInsufficientFunds   = errors.New("insufficient funds in channel")
	ErrBalancesUnavailable = errors.New("balances unavailable")
)
