package ledger_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/order"
)

var errBooksDown = errors.New("books down")

// books is an in-memory stand-in for all event sources. It honours the same
// window filters as the stores.
type books struct {
	mu sync.Mutex

	initial     *capital.InitialCapital
	movements   []*capital.Movement
	payments    []*order.PaymentRecord
	expenses    []*expense.Expense
	maintenance []*expense.Maintenance

	failInitial     bool
	failMovements   bool
	failPayments    bool
	failExpenses    bool
	failMaintenance bool

	calls int
}

func inWindow(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}

	if end != nil && t.After(*end) {
		return false
	}

	return true
}

func (b *books) hit(ctx context.Context, fail bool) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if fail {
		return errBooksDown
	}

	return nil
}

func (b *books) InitialCapital(ctx context.Context) (*capital.InitialCapital, error) {
	if err := b.hit(ctx, b.failInitial); err != nil {
		return nil, err
	}

	return b.initial, nil
}

func (b *books) ListMovements(ctx context.Context) ([]*capital.Movement, error) {
	if err := b.hit(ctx, b.failMovements); err != nil {
		return nil, err
	}

	return b.movements, nil
}

func (b *books) ListPayments(ctx context.Context, filter order.PaymentFilter) ([]*order.PaymentRecord, error) {
	if err := b.hit(ctx, b.failPayments); err != nil {
		return nil, err
	}

	var out []*order.PaymentRecord

	for _, p := range b.payments {
		if inWindow(p.PaidAt, filter.StartDate, filter.EndDate) {
			out = append(out, p)
		}
	}

	return out, nil
}

func (b *books) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	if err := b.hit(ctx, b.failExpenses); err != nil {
		return nil, err
	}

	var out []*expense.Expense

	for _, e := range b.expenses {
		if inWindow(e.Date, filter.StartDate, filter.EndDate) {
			out = append(out, e)
		}
	}

	return out, nil
}

func (b *books) ListMaintenance(ctx context.Context, filter expense.ListFilter) ([]*expense.Maintenance, error) {
	if err := b.hit(ctx, b.failMaintenance); err != nil {
		return nil, err
	}

	var out []*expense.Maintenance

	for _, m := range b.maintenance {
		if inWindow(m.CreatedAt, filter.StartDate, filter.EndDate) {
			out = append(out, m)
		}
	}

	return out, nil
}

func (b *books) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.calls
}
