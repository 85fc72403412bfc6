package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

func init() {
	rootCmd.AddCommand(initialCmd, movementCmd)

	initialCmd.AddCommand(initialSetCmd, initialShowCmd)
	addSplitFlags(initialSetCmd)
	initialSetCmd.Flags().String("date", "", "Date of the opening balance (YYYY-MM-DD)")

	movementCmd.AddCommand(movementAddCmd, movementListCmd, movementDeleteCmd)
	addSplitFlags(movementAddCmd)
	movementAddCmd.Flags().String("kind", string(capital.KindInjection), "injection or withdrawal")
	movementAddCmd.Flags().String("concept", "", "What the movement is for")
	movementAddCmd.Flags().String("notes", "", "Free-form notes")
	movementAddCmd.Flags().String("date", "", "Date of the movement (YYYY-MM-DD)")
	movementDeleteCmd.Flags().Bool("yes", false, "Confirm the deletion")
}

var initialCmd = &cobra.Command{
	Use:   "initial",
	Short: "Record or show the opening balance",
}

var initialSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Record the opening balance. It can only be set once.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		who, err := author(cmd)
		if err != nil {
			return err
		}

		split, err := splitFromFlags(cmd)
		if err != nil {
			return err
		}

		rawDate, _ := cmd.Flags().GetString("date")

		date, err := parseDay(rawDate, application.Location, time.Now())
		if err != nil {
			return err
		}

		ic, err := application.Capital.CreateInitialCapital(cmd.Context(), capital.CreateInitialParams{
			Amounts: split,
			Date:    date,
			Author:  who,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "initial capital %s recorded: %s\n", ic.ID, money.Format(ic.Amounts.Total()))

		return nil
	},
}

var initialShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the opening balance",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ic, err := application.Capital.InitialCapital(cmd.Context())
		if err != nil {
			return err
		}

		if ic == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no initial capital recorded")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "recorded %s by %s\n", ic.Date.In(application.Location).Format(time.DateOnly), ic.Author)
		printBalances(cmd, money.Balances(ic.Amounts))

		return nil
	},
}

var movementCmd = &cobra.Command{
	Use:     "movement",
	Aliases: []string{"mv"},
	Short:   "Manage capital injections and withdrawals",
}

var movementAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an injection or withdrawal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		who, err := author(cmd)
		if err != nil {
			return err
		}

		split, err := splitFromFlags(cmd)
		if err != nil {
			return err
		}

		kind, _ := cmd.Flags().GetString("kind")
		concept, _ := cmd.Flags().GetString("concept")
		notes, _ := cmd.Flags().GetString("notes")
		rawDate, _ := cmd.Flags().GetString("date")

		date, err := parseDay(rawDate, application.Location, time.Now())
		if err != nil {
			return err
		}

		m, err := application.Capital.CreateMovement(cmd.Context(), capital.CreateMovementParams{
			Kind:    capital.Kind(kind),
			Amounts: split,
			Concept: concept,
			Notes:   notes,
			Date:    date,
			Author:  who,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s recorded: %s\n", m.Kind, m.ID, money.Format(m.Amounts.Total()))

		return nil
	},
}

var movementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List capital movements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		movements, err := application.Capital.ListMovements(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range movements {
			fmt.Fprintf(out, "%s  %s  %-10s %14s  %s\n",
				m.ID,
				m.Date.In(application.Location).Format(time.DateOnly),
				m.Kind,
				money.Format(m.Amounts.Total()),
				m.Concept,
			)
		}

		return nil
	},
}

var movementDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a capital movement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete %s without --yes", id)
		}

		if err := application.Capital.DeleteMovement(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "movement %s deleted\n", id)

		return nil
	},
}
