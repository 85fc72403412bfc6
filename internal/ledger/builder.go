package ledger

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

// timeOfDay breaks ties between equal instants. Fixed width, so string order
// is time order.
const timeOfDay = "15:04:05.000000000"

const (
	conceptInitialCapital = "Capital inicial"
	conceptPayment        = "Pago de pedido"
	conceptMaintenance    = "Mantenimiento"
)

// Option configures a Builder or an Aggregator.
type Option func(*options)

type options struct {
	markers []string
	loc     *time.Location
	cache   *Cache
	metrics Metrics
}

func newOptions(opts []Option) options {
	o := options{loc: time.Local, metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithPaymentMarkers sets the substrings that flag a capital movement as an
// echo of an order payment. Matching is case-insensitive.
func WithPaymentMarkers(markers ...string) Option {
	return func(o *options) {
		o.markers = o.markers[:0]

		for _, m := range markers {
			m = strings.ToLower(strings.TrimSpace(m))
			if m != "" {
				o.markers = append(o.markers, m)
			}
		}
	}
}

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

func WithCache(c *Cache) Option {
	return func(o *options) { o.cache = c }
}

func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// Builder produces the windowed ledger view.
type Builder struct {
	capital  CapitalSource
	payments PaymentSource
	expenses ExpenseSource
	opts     options
}

func NewBuilder(cs CapitalSource, ps PaymentSource, es ExpenseSource, opts ...Option) *Builder {
	return &Builder{capital: cs, payments: ps, expenses: es, opts: newOptions(opts)}
}

// Build returns every event in [start, end] plus all baseline events (initial
// capital and capital movements, whatever their date), ordered and stamped
// with running balances. It never returns a partial ledger.
func (b *Builder) Build(ctx context.Context, start, end time.Time) ([]Entry, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid window: end %s before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	entries, err := b.cached(ctx, start, end)

	switch {
	case err == nil:
		b.opts.metrics.ObserveBuild("ok")
	case errors.Is(err, ErrSourceUnavailable):
		b.opts.metrics.ObserveBuild("source_unavailable")
	default:
		b.opts.metrics.ObserveBuild("error")
	}

	return entries, err
}

func (b *Builder) cached(ctx context.Context, start, end time.Time) ([]Entry, error) {
	if b.opts.cache == nil {
		return b.build(ctx, start, end)
	}

	key, err := b.opts.cache.BuildKey(ctx, "ledger", start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano))
	if err != nil {
		slog.Warn("ledger cache unavailable, building directly", "error", err)
		return b.build(ctx, start, end)
	}

	var (
		entries []Entry
		loadErr error
	)

	err = b.opts.cache.FetchJSON(ctx, key, &entries, func(ctx context.Context) (any, error) {
		built, err := b.build(ctx, start, end)
		if err != nil {
			loadErr = err
			return nil, err
		}

		return built, nil
	})

	switch {
	case loadErr != nil:
		return nil, loadErr
	case err != nil:
		slog.Warn("ledger cache unavailable, building directly", "error", err)
		return b.build(ctx, start, end)
	}

	return entries, nil
}

func (b *Builder) build(ctx context.Context, start, end time.Time) ([]Entry, error) {
	snap, err := fetch(ctx, b.capital, b.payments, b.expenses, window{start: &start, end: &end})
	if err != nil {
		return nil, err
	}

	entries := b.entries(snap)
	b.sort(entries)
	stampRunning(entries)

	return entries, nil
}

func (b *Builder) isPaymentEcho(m *capital.Movement) bool {
	text := strings.ToLower(m.Concept + "\n" + m.Notes)
	for _, marker := range b.opts.markers {
		if strings.Contains(text, marker) {
			return true
		}
	}

	return false
}

// entries maps every fetched record to one ledger entry. Capital events span
// channels but are booked as a single cash amount.
func (b *Builder) entries(snap *snapshot) []Entry {
	entries := make([]Entry, 0,
		1+len(snap.movements)+len(snap.payments)+len(snap.expenses)+len(snap.maintenance))

	if ic := snap.initial; ic != nil {
		entries = append(entries, Entry{
			ID:      ic.ID,
			Source:  SourceInitialCapital,
			Kind:    KindIncome,
			Date:    ic.Date,
			Concept: conceptInitialCapital,
			Amount:  ic.Amounts.Total(),
			Channel: money.ChannelCash,
			Author:  ic.Author,
		})
	}

	for _, m := range snap.movements {
		if b.isPaymentEcho(m) {
			continue
		}

		kind := KindIncome
		if m.Kind == capital.KindWithdrawal {
			kind = KindExpense
		}

		entries = append(entries, Entry{
			ID:      m.ID,
			Source:  SourceMovement,
			Kind:    kind,
			Date:    m.Date,
			Concept: m.Concept,
			Notes:   m.Notes,
			Amount:  m.Amounts.Total(),
			Channel: money.ChannelCash,
			Author:  m.Author,
		})
	}

	for _, p := range snap.payments {
		entries = append(entries, Entry{
			ID:        p.ID,
			Source:    SourcePayment,
			Kind:      KindIncome,
			Date:      p.PaidAt,
			Concept:   conceptPayment,
			Amount:    p.Amount,
			Channel:   p.Channel,
			Client:    p.ClientName,
			Plan:      p.Plan,
			Reference: p.Reference,
		})
	}

	for _, e := range snap.expenses {
		entries = append(entries, Entry{
			ID:      e.ID,
			Source:  SourceExpense,
			Kind:    KindExpense,
			Date:    e.Date,
			Concept: e.Concept,
			Notes:   e.Description,
			Amount:  e.Amount,
			Channel: e.Channel,
			Author:  e.Author,
		})
	}

	for _, m := range snap.maintenance {
		entries = append(entries, Entry{
			ID:      m.ID,
			Source:  SourceMaintenance,
			Kind:    KindExpense,
			Date:    m.CreatedAt,
			Concept: conceptMaintenance + ": " + m.Equipment,
			Notes:   m.Description,
			Amount:  m.Cost,
			Channel: m.Channel,
			Author:  m.Author,
		})
	}

	return entries
}

// sort orders by instant, then time-of-day text, then source rank, then ID.
// The result does not depend on the order records were fetched in.
func (b *Builder) sort(entries []Entry) {
	type keyed struct {
		tod   string
		entry Entry
	}

	items := make([]keyed, len(entries))

	for i, e := range entries {
		items[i] = keyed{tod: e.Date.In(b.opts.loc).Format(timeOfDay), entry: e}
	}

	slices.SortFunc(items, func(x, y keyed) int {
		if c := x.entry.Date.Compare(y.entry.Date); c != 0 {
			return c
		}

		if c := strings.Compare(x.tod, y.tod); c != 0 {
			return c
		}

		if c := cmp.Compare(x.entry.Source, y.entry.Source); c != 0 {
			return c
		}

		return bytes.Compare(x.entry.ID[:], y.entry.ID[:])
	})

	for i := range items {
		entries[i] = items[i].entry
	}
}

// stampRunning walks the ordered entries once, crediting income and debiting
// expenses on the entry's channel.
func stampRunning(entries []Entry) {
	var running money.Balances

	for i := range entries {
		e := &entries[i]

		switch e.Kind {
		case KindIncome:
			running.Credit(e.Channel, e.Amount)
		case KindExpense:
			running.Debit(e.Channel, e.Amount)
		}

		e.Running = running
		e.RunningTotal = running.Total()
	}
}
