// Package solvency decides whether a channel balance can absorb an expense.
package solvency

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

// ErrNonPositiveAmount is returned when the gate is asked about an amount
// that is zero or negative. That is a caller bug, not a gate outcome.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// Check reports whether the balance of ch covers amount.
func Check(b money.Balances, amount int64, ch money.Channel) (bool, error) {
	if amount <= 0 {
		return false, ErrNonPositiveAmount
	}

	if !ch.Valid() {
		return false, fmt.Errorf("%w: %q", money.ErrUnknownChannel, ch)
	}

	return b.Get(ch) >= amount, nil
}

// AdmissibleChannels returns every channel whose balance covers amount, in
// the fixed order of money.Channels.
func AdmissibleChannels(b money.Balances, amount int64) ([]money.Channel, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}

	channels := make([]money.Channel, 0, len(money.Channels))

	for _, ch := range money.Channels {
		if b.Get(ch) >= amount {
			channels = append(channels, ch)
		}
	}

	return channels, nil
}

// Default picks the first admissible channel, if any.
func Default(b money.Balances, amount int64) (money.Channel, bool) {
	channels, err := AdmissibleChannels(b, amount)
	if err != nil || len(channels) == 0 {
		return "", false
	}

	return channels[0], true
}
