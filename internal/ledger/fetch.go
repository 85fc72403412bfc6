package ledger

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/order"
)

type window struct {
	start *time.Time
	end   *time.Time
}

// fetch reads all five sources in parallel. Capital sources are never
// windowed. A cancelled ctx is returned as-is; any other failure is wrapped in
// ErrSourceUnavailable.
func fetch(ctx context.Context, cs CapitalSource, ps PaymentSource, es ExpenseSource, w window) (*snapshot, error) {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ic, err := cs.InitialCapital(gctx)
		if err != nil {
			return fmt.Errorf("fetching initial capital: %w", err)
		}

		snap.initial = ic

		return nil
	})

	g.Go(func() error {
		movements, err := cs.ListMovements(gctx)
		if err != nil {
			return fmt.Errorf("fetching capital movements: %w", err)
		}

		snap.movements = movements

		return nil
	})

	g.Go(func() error {
		payments, err := ps.ListPayments(gctx, order.PaymentFilter{StartDate: w.start, EndDate: w.end})
		if err != nil {
			return fmt.Errorf("fetching order payments: %w", err)
		}

		snap.payments = payments

		return nil
	})

	g.Go(func() error {
		expenses, err := es.ListExpenses(gctx, expense.ListFilter{StartDate: w.start, EndDate: w.end})
		if err != nil {
			return fmt.Errorf("fetching expenses: %w", err)
		}

		snap.expenses = expenses

		return nil
	})

	g.Go(func() error {
		jobs, err := es.ListMaintenance(gctx, expense.ListFilter{StartDate: w.start, EndDate: w.end})
		if err != nil {
			return fmt.Errorf("fetching maintenance: %w", err)
		}

		snap.maintenance = jobs

		return nil
	})

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	return &snap, nil
}
