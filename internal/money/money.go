package money

import (
	"errors"
	"fmt"
	"strings"
)

// Channel is the payment medium a balance is tracked for.
type Channel string

const (
	ChannelCash    Channel = "cash"     // efectivo
	ChannelWalletA Channel = "wallet_a" // nequi
	ChannelWalletB Channel = "wallet_b" // daviplata
)

// Channels lists every channel in the fixed priority order callers rely on
// for default selection.
var Channels = []Channel{ChannelCash, ChannelWalletA, ChannelWalletB}

var ErrUnknownChannel = errors.New("unknown channel")

// Valid reports whether c belongs to the closed channel set.
func (c Channel) Valid() bool {
	switch c {
	case ChannelCash, ChannelWalletA, ChannelWalletB:
		return true
	}

	return false
}

func (c Channel) Label() string {
	switch c {
	case ChannelCash:
		return "Efectivo"
	case ChannelWalletA:
		return "Nequi"
	case ChannelWalletB:
		return "Daviplata"
	}

	return string(c)
}

// ParseChannel accepts a channel code or its label, case-insensitively.
func ParseChannel(s string) (Channel, error) {
	clean := strings.ToLower(strings.TrimSpace(s))

	for _, c := range Channels {
		if clean == string(c) || clean == strings.ToLower(c.Label()) {
			return c, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

// Split is an amount broken down per channel. Amounts are in cents.
type Split struct {
	Cash    int64 `json:"cash"`
	WalletA int64 `json:"wallet_a"`
	WalletB int64 `json:"wallet_b"`
}

func (s Split) Total() int64 {
	return s.Cash + s.WalletA + s.WalletB
}

func (s Split) IsZero() bool {
	return s.Cash == 0 && s.WalletA == 0 && s.WalletB == 0
}

// HasNegative reports whether any component is below zero.
func (s Split) HasNegative() bool {
	return s.Cash < 0 || s.WalletA < 0 || s.WalletB < 0
}

func (s Split) Get(c Channel) int64 {
	switch c {
	case ChannelCash:
		return s.Cash
	case ChannelWalletA:
		return s.WalletA
	case ChannelWalletB:
		return s.WalletB
	}

	return 0
}

// Balances holds signed per-channel balances. The total is always derived.
type Balances struct {
	Cash    int64 `json:"cash"`
	WalletA int64 `json:"wallet_a"`
	WalletB int64 `json:"wallet_b"`
}

func (b Balances) Total() int64 {
	return b.Cash + b.WalletA + b.WalletB
}

func (b Balances) Get(c Channel) int64 {
	switch c {
	case ChannelCash:
		return b.Cash
	case ChannelWalletA:
		return b.WalletA
	case ChannelWalletB:
		return b.WalletB
	}

	return 0
}

// Credit adds amount to the balance of channel c.
func (b *Balances) Credit(c Channel, amount int64) {
	switch c {
	case ChannelCash:
		b.Cash += amount
	case ChannelWalletA:
		b.WalletA += amount
	case ChannelWalletB:
		b.WalletB += amount
	}
}

// Debit subtracts amount from the balance of channel c.
func (b *Balances) Debit(c Channel, amount int64) {
	b.Credit(c, -amount)
}

// Add credits every component of s.
func (b *Balances) Add(s Split) {
	b.Cash += s.Cash
	b.WalletA += s.WalletA
	b.WalletB += s.WalletB
}

// Sub debits every component of s.
func (b *Balances) Sub(s Split) {
	b.Cash -= s.Cash
	b.WalletA -= s.WalletA
	b.WalletB -= s.WalletB
}
