package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/washrent/internal/app"
	"github.com/MrJamesThe3rd/washrent/internal/config"
	washHttp "github.com/MrJamesThe3rd/washrent/internal/http"
	capitalHandler "github.com/MrJamesThe3rd/washrent/internal/http/capital"
	expenseHandler "github.com/MrJamesThe3rd/washrent/internal/http/expense"
	ledgerHandler "github.com/MrJamesThe3rd/washrent/internal/http/ledger"
	matchingHandler "github.com/MrJamesThe3rd/washrent/internal/http/matching"
	orderHandler "github.com/MrJamesThe3rd/washrent/internal/http/order"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(config.NewLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	router := washHttp.New(washHttp.Options{
		Timeout:    cfg.Server.Timeout,
		RateLimit:  cfg.Server.RateLimit,
		Origins:    cfg.Server.Origins,
		Production: cfg.IsProduction(),
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		Metrics:    a.Metrics,
	}, washHttp.Handlers{
		Capital:  capitalHandler.NewHandler(a.Capital),
		Ledger:   ledgerHandler.NewHandler(a.Builder, a.Aggregator, a.Reports, a.Location),
		Expense:  expenseHandler.NewHandler(a.Expenses, a.Importer, a.Location),
		Order:    orderHandler.NewHandler(a.Orders),
		Matching: matchingHandler.NewHandler(a.Matching),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "env", cfg.App.Env)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
