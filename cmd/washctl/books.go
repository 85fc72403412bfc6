package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/washrent/internal/config"
	"github.com/MrJamesThe3rd/washrent/internal/http/auth"
	"github.com/MrJamesThe3rd/washrent/internal/importer"
	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/report"
)

func init() {
	rootCmd.AddCommand(balancesCmd, ledgerCmd, importCmd, tokenCmd)

	ledgerCmd.Flags().String("start", "", "First day (YYYY-MM-DD), default start of month")
	ledgerCmd.Flags().String("end", "", "Last day (YYYY-MM-DD), default end of month")
	ledgerCmd.Flags().Bool("summary", false, "Print totals instead of the statement")
	importCmd.Flags().String("format", string(importer.FormatSheet), "Input format")
	tokenCmd.Flags().Duration("ttl", 30*24*time.Hour, "Token lifetime")
}

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show current balances per channel",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := application.Aggregator.Balances(cmd.Context())
		if err != nil {
			return err
		}

		printBalances(cmd, b)

		return nil
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the ledger with running balances",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, end, err := window(cmd, application.Location, time.Now())
		if err != nil {
			return err
		}

		sum, entries, err := application.Reports.Summary(cmd.Context(), start, end)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if onlySummary, _ := cmd.Flags().GetBool("summary"); onlySummary {
			fmt.Fprintf(out, "%s to %s, %d entries\n",
				start.Format(time.DateOnly), end.Format(time.DateOnly), sum.Entries)
			fmt.Fprintf(out, "income  %s\nexpense %s\nnet     %s\n\nclosing:\n",
				money.Format(sum.Income.Total()), money.Format(sum.Expense.Total()), money.Format(sum.Net))
			printBalances(cmd, sum.Closing)

			return nil
		}

		fmt.Fprint(out, report.Statement(entries, application.Location))

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import expenses from a spreadsheet or wallet export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		who, err := author(cmd)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		format, _ := cmd.Flags().GetString("format")

		params, err := application.Importer.Import(cmd.Context(), importer.Format(format), f, who)
		if err != nil {
			return err
		}

		result, err := application.Expenses.ImportBatch(cmd.Context(), params)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if len(result.Conflicts) > 0 {
			for _, c := range result.Conflicts {
				fmt.Fprintf(out, "already on file: %s %s %s\n",
					c.Existing.Date.In(application.Location).Format(time.DateOnly),
					c.Existing.Concept,
					money.Format(c.Existing.Amount))
			}

			return errors.New("nothing imported, remove the rows above and retry")
		}

		fmt.Fprintf(out, "imported %d expenses\n", len(result.Imported))

		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:         "token SUBJECT",
	Short:       "Mint an operator token for the API",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if cfg.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := auth.Sign([]byte(cfg.Auth.JWTSecret), args[0], ttl)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)

		return nil
	},
}
