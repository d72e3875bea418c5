package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"budget/internal/core"
)

func newGoalsCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List or create savings goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *App) (any, error) {
				goals, err := app.Goals.ListGoals(cmd.Context())
				return orEmpty(goals), err
			})
		},
	}

	var name, target string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a savings goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := core.Goal{Name: name, CurrentAmount: decimal.Zero}
			if target != "" {
				amount, err := core.ParseAmount(target)
				if err != nil {
					return err
				}
				g.TargetAmount = decimal.NewNullDecimal(amount)
			}
			return withApp(cmd, open, func(app *App) (any, error) {
				return app.Goals.CreateGoal(cmd.Context(), g)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "goal name (required)")
	_ = create.MarkFlagRequired("name")
	create.Flags().StringVar(&target, "target", "", "target amount")

	cmd.AddCommand(create)
	return cmd
}

func newTransactionsCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List or record transactions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *App) (any, error) {
				txs, err := app.Transactions.ListTransactions(cmd.Context())
				return orEmpty(txs), err
			})
		},
	}

	var amount, txType, category, description, date string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			t := core.Transaction{
				Description: description,
				Amount:      decimal.NewNullDecimal(value),
				Type:        txType,
			}
			if strings.TrimSpace(category) != "" {
				t.Category = core.StringPtr(category)
			}
			if date != "" {
				if t.Date, err = core.ParseDate(date); err != nil {
					return fmt.Errorf("date must use YYYY-MM-DD: %w", err)
				}
			}
			return withApp(cmd, open, func(app *App) (any, error) {
				return app.Transactions.CreateTransaction(cmd.Context(), t)
			})
		},
	}
	add.Flags().StringVar(&amount, "amount", "", "amount (required)")
	_ = add.MarkFlagRequired("amount")
	add.Flags().StringVar(&txType, "type", core.TypeExpense, "income or expense")
	add.Flags().StringVar(&category, "category", "", "category")
	add.Flags().StringVar(&description, "description", "", "description")
	add.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD")

	cmd.AddCommand(add)
	return cmd
}

func newSummaryCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total income, expenses and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *App) (any, error) {
				return app.Transactions.Summary(cmd.Context())
			})
		},
	}
}

func newCategoriesCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show expense totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *App) (any, error) {
				totals, err := app.Transactions.SummaryByCategory(cmd.Context())
				if totals == nil {
					totals = core.CategoryTotals{}
				}
				return totals, err
			})
		},
	}
}

func newRecentCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: fmt.Sprintf("Show the %d most recent transactions", core.RecentLimit),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *App) (any, error) {
				txs, err := app.Transactions.RecentTransactions(cmd.Context())
				return orEmpty(txs), err
			})
		},
	}
}

func newContributeCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <goal-id> <amount>",
		Short: "Add money to a goal and record it as a Savings expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid goal id %q", args[0])
			}
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, open, func(app *App) (any, error) {
				return app.Goals.Contribute(cmd.Context(), id, decimal.NewNullDecimal(amount))
			})
		},
	}
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
