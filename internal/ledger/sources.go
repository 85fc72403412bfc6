package ledger

import (
	"context"
	"errors"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/order"
)

// ErrSourceUnavailable means at least one event source could not be read and
// no result was produced.
var ErrSourceUnavailable = errors.New("ledger source unavailable")

// CapitalSource yields the baseline events. InitialCapital returns nil, nil
// when none has been recorded.
type CapitalSource interface {
	InitialCapital(ctx context.Context) (*capital.InitialCapital, error)
	ListMovements(ctx context.Context) ([]*capital.Movement, error)
}

type PaymentSource interface {
	ListPayments(ctx context.Context, filter order.PaymentFilter) ([]*order.PaymentRecord, error)
}

// ExpenseSource filters expenses by Date and maintenance by CreatedAt.
type ExpenseSource interface {
	ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error)
	ListMaintenance(ctx context.Context, filter expense.ListFilter) ([]*expense.Maintenance, error)
}

// Metrics receives build and balance outcomes.
type Metrics interface {
	ObserveBuild(outcome string)
	ObserveDegraded()
}

type noopMetrics struct{}

func (noopMetrics) ObserveBuild(string) {}
func (noopMetrics) ObserveDegraded()    {}

// snapshot is everything one computation reads, fetched concurrently.
type snapshot struct {
	initial     *capital.InitialCapital
	movements   []*capital.Movement
	payments    []*order.PaymentRecord
	expenses    []*expense.Expense
	maintenance []*expense.Maintenance
}
