package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/washrent/internal/app"
	"github.com/MrJamesThe3rd/washrent/internal/config"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

// skipApp marks commands that run without a database.
const skipApp = "skip-app"

var application *app.App

var rootCmd = &cobra.Command{
	Use:           "washctl",
	Short:         "Administer the washer-rental books",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		if _, ok := cmd.Annotations[skipApp]; ok {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		application = a

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("as", os.Getenv("USER"), "Operator recorded as author of writes")
}

func author(cmd *cobra.Command) (string, error) {
	as, _ := cmd.Flags().GetString("as")
	if strings.TrimSpace(as) == "" {
		return "", fmt.Errorf("operator required: pass --as")
	}

	return as, nil
}

func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().String("cash", "", "Amount in cash (efectivo)")
	cmd.Flags().String("nequi", "", "Amount in Nequi")
	cmd.Flags().String("daviplata", "", "Amount in Daviplata")
}

// splitFromFlags reads the per-channel amount flags. Missing flags are zero.
func splitFromFlags(cmd *cobra.Command) (money.Split, error) {
	var split money.Split

	targets := map[string]*int64{
		"cash":      &split.Cash,
		"nequi":     &split.WalletA,
		"daviplata": &split.WalletB,
	}

	for name, dst := range targets {
		raw, _ := cmd.Flags().GetString(name)
		if raw == "" {
			continue
		}

		amount, err := money.ParseAmount(raw)
		if err != nil {
			return money.Split{}, fmt.Errorf("--%s: %w", name, err)
		}

		*dst = amount
	}

	return split, nil
}

// parseDay reads a YYYY-MM-DD day in loc. Empty means now.
func parseDay(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", raw, err)
	}

	return t, nil
}

// window turns --start/--end days into an inclusive range, defaulting to the
// current month.
func window(cmd *cobra.Command, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	endDay := start.AddDate(0, 1, -1)

	if raw, _ := cmd.Flags().GetString("start"); raw != "" {
		t, err := parseDay(raw, loc, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		start = t
	}

	if raw, _ := cmd.Flags().GetString("end"); raw != "" {
		t, err := parseDay(raw, loc, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		endDay = t
	}

	return start, endDay.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func printBalances(cmd *cobra.Command, b money.Balances) {
	out := cmd.OutOrStdout()
	for _, ch := range money.Channels {
		fmt.Fprintf(out, "%-10s %14s\n", ch.Label(), money.Format(b.Get(ch)))
	}

	fmt.Fprintf(out, "%-10s %14s\n", "Total", money.Format(b.Total()))
}
