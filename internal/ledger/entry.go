// Package ledger derives the running-balance ledger and the current channel
// balances from the recorded capital, payment and expense events.
package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Source identifies the record an entry was derived from. The numeric value
// is the tie-break rank between entries stamped at the same instant.
type Source int

const (
	SourceInitialCapital Source = iota
	SourceMovement
	SourcePayment
	SourceExpense
	SourceMaintenance
)

func (s Source) String() string {
	switch s {
	case SourceInitialCapital:
		return "initial_capital"
	case SourceMovement:
		return "movement"
	case SourcePayment:
		return "payment"
	case SourceExpense:
		return "expense"
	case SourceMaintenance:
		return "maintenance"
	}

	return "unknown"
}

// Entry is one event normalized to a single amount on a single channel, with
// the balances that hold right after it.
type Entry struct {
	ID      uuid.UUID     `json:"id"`
	Source  Source        `json:"source"`
	Kind    Kind          `json:"kind"`
	Date    time.Time     `json:"date"`
	Concept string        `json:"concept"`
	Notes   string        `json:"notes,omitempty"`
	Amount  int64         `json:"amount"`
	Channel money.Channel `json:"channel"`
	Author  string        `json:"author,omitempty"`

	// Order context, set on payment entries only.
	Client    string `json:"client,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Reference string `json:"reference,omitempty"`

	Running      money.Balances `json:"running"`
	RunningTotal int64          `json:"running_total"`
}
