package ledger

import (
	"context"
	"log/slog"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

const degradedWarning = "balances could not be loaded; showing zero"

// Aggregator reduces the whole event history to current channel balances.
// Unlike Builder it applies no window and books capital per channel.
type Aggregator struct {
	capital  CapitalSource
	payments PaymentSource
	expenses ExpenseSource
	opts     options
}

func NewAggregator(cs CapitalSource, ps PaymentSource, es ExpenseSource, opts ...Option) *Aggregator {
	return &Aggregator{capital: cs, payments: ps, expenses: es, opts: newOptions(opts)}
}

// Balances fails with ErrSourceUnavailable when any source cannot be read.
func (a *Aggregator) Balances(ctx context.Context) (money.Balances, error) {
	snap, err := fetch(ctx, a.capital, a.payments, a.expenses, window{})
	if err != nil {
		return money.Balances{}, err
	}

	return reduce(snap), nil
}

func reduce(snap *snapshot) money.Balances {
	var b money.Balances

	if snap.initial != nil {
		b.Add(snap.initial.Amounts)
	}

	for _, m := range snap.movements {
		switch m.Kind {
		case capital.KindInjection:
			b.Add(m.Amounts)
		case capital.KindWithdrawal:
			b.Sub(m.Amounts)
		}
	}

	for _, p := range snap.payments {
		b.Credit(p.Channel, p.Amount)
	}

	for _, e := range snap.expenses {
		b.Debit(e.Channel, e.Amount)
	}

	for _, m := range snap.maintenance {
		b.Debit(m.Channel, m.Cost)
	}

	return b
}

// Snapshot is the outcome of Current. A non-empty Warning means the balances
// are the zero fallback, not real figures.
type Snapshot struct {
	Balances money.Balances `json:"balances"`
	Total    int64          `json:"total"`
	Warning  string         `json:"warning,omitempty"`
}

func (s Snapshot) Degraded() bool {
	return s.Warning != ""
}

// Current never fails. When the sources are unavailable it reports zero
// balances flagged with a warning, for display only. Gate writes on Balances.
func (a *Aggregator) Current(ctx context.Context) Snapshot {
	b, err := a.Balances(ctx)
	if err != nil {
		slog.Warn("serving degraded balances", "error", err)
		a.opts.metrics.ObserveDegraded()

		return Snapshot{Warning: degradedWarning}
	}

	return Snapshot{Balances: b, Total: b.Total()}
}
