// Package app wires stores, services and the ledger for the binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	capitalStore "github.com/MrJamesThe3rd/washrent/internal/capital/store"
	"github.com/MrJamesThe3rd/washrent/internal/config"
	"github.com/MrJamesThe3rd/washrent/internal/database"
	"github.com/MrJamesThe3rd/washrent/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/washrent/internal/expense/store"
	"github.com/MrJamesThe3rd/washrent/internal/importer"
	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/washrent/internal/matching/store"
	"github.com/MrJamesThe3rd/washrent/internal/observability"
	"github.com/MrJamesThe3rd/washrent/internal/order"
	orderStore "github.com/MrJamesThe3rd/washrent/internal/order/store"
	"github.com/MrJamesThe3rd/washrent/internal/report"
)

type App struct {
	Config   *config.Config
	Location *time.Location
	Metrics  *observability.Metrics

	Capital    *capital.Service
	Orders     *order.Service
	Expenses   *expense.Service
	Matching   *matching.Service
	Importer   *importer.Service
	Reports    *report.Service
	Builder    *ledger.Builder
	Aggregator *ledger.Aggregator

	db    *sql.DB
	redis *redis.Client
}

// New connects to PostgreSQL and, when enabled, Redis, and builds every
// service. An unreachable Redis disables the ledger cache instead of failing.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	a := &App{Config: cfg, Location: loc, Metrics: observability.NewMetrics(), db: db}

	var cache *ledger.Cache

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, ledger cache disabled", "addr", cfg.Redis.Addr, "error", err)
			client.Close()
		} else {
			a.redis = client
			cache = ledger.NewCache(client, cfg.Redis.TTL)
		}
	}

	// A nil *ledger.Cache must not become a non-nil Invalidator.
	var invalidator interface {
		Bump(ctx context.Context) error
	}
	if cache != nil {
		invalidator = cache
	}

	expenses := expenseStore.New(db, loc)

	a.Capital = capital.NewService(capitalStore.New(db), invalidator)
	a.Orders = order.NewService(orderStore.New(db), invalidator)
	a.Matching = matching.NewService(matchingStore.New(db))
	a.Importer = importer.NewService(loc, a.Matching)

	opts := []ledger.Option{
		ledger.WithLocation(loc),
		ledger.WithPaymentMarkers(cfg.Ledger.PaymentMarkers...),
		ledger.WithMetrics(a.Metrics),
	}
	if cache != nil {
		opts = append(opts, ledger.WithCache(cache))
	}

	a.Builder = ledger.NewBuilder(a.Capital, a.Orders, expenses, opts...)
	a.Aggregator = ledger.NewAggregator(a.Capital, a.Orders, expenses, opts...)
	a.Expenses = expense.NewService(expenses, a.Aggregator, invalidator, expense.WithLocation(loc))
	a.Reports = report.NewService(a.Builder)

	return a, nil
}

func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("failed to close redis", "error", err)
		}
	}

	return a.db.Close()
}
