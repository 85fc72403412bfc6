package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type LedgerBuilder interface {
	Build(ctx context.Context, start, end time.Time) ([]ledger.Entry, error)
}

// Summary condenses a ledger window. Income and Expense only count entries
// dated inside the window; Closing is the running balance after the last
// entry, baseline events included.
type Summary struct {
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"`
	Income       money.Balances `json:"income"`
	Expense      money.Balances `json:"expense"`
	Net          int64          `json:"net"`
	Entries      int            `json:"entries"`
	Closing      money.Balances `json:"closing"`
	ClosingTotal int64          `json:"closing_total"`
}

type Service struct {
	ledger LedgerBuilder
}

func NewService(l LedgerBuilder) *Service {
	return &Service{ledger: l}
}

// Summary builds the ledger for [start, end] and summarises it. The entries
// are returned too so callers can print a statement without a second build.
func (s *Service) Summary(ctx context.Context, start, end time.Time) (*Summary, []ledger.Entry, error) {
	entries, err := s.ledger.Build(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("building ledger: %w", err)
	}

	return Summarize(start, end, entries), entries, nil
}

func Summarize(start, end time.Time, entries []ledger.Entry) *Summary {
	sum := &Summary{Start: start, End: end, Entries: len(entries)}

	for _, e := range entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}

		switch e.Kind {
		case ledger.KindIncome:
			sum.Income.Credit(e.Channel, e.Amount)
		case ledger.KindExpense:
			sum.Expense.Credit(e.Channel, e.Amount)
		}
	}

	sum.Net = sum.Income.Total() - sum.Expense.Total()

	if n := len(entries); n > 0 {
		sum.Closing = entries[n-1].Running
		sum.ClosingTotal = entries[n-1].RunningTotal
	}

	return sum
}

// Statement renders entries as plain text lines, one per entry.
func Statement(entries []ledger.Entry, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var sb strings.Builder

	for _, e := range entries {
		sign := "-"
		if e.Kind == ledger.KindIncome {
			sign = "+"
		}

		concept := e.Concept
		if e.Client != "" {
			concept += " (" + e.Client + ")"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s | saldo %s\n",
			e.Date.In(loc).Format("2006-01-02 15:04"),
			concept,
			sign,
			money.Format(e.Amount),
			e.Channel.Label(),
			money.Format(e.RunningTotal),
		)
	}

	return sb.String()
}
