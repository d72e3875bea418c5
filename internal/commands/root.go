// Package commands implements budgetctl, the operator CLI over the same
// services the HTTP API uses.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/services"
)

// App is the set of services a command runs against.
type App struct {
	Goals        *services.GoalService
	Transactions *services.TransactionService
	Close        func() error
}

// Opener builds the App for one command invocation.
type Opener func(ctx context.Context) (*App, error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openFromEnv)
}

func newRootCommand(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "budgetctl",
		Short: "Inspect and update the budget ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newGoalsCommand(open),
		newTransactionsCommand(open),
		newSummaryCommand(open),
		newCategoriesCommand(open),
		newRecentCommand(open),
		newContributeCommand(open),
	)

	return rootCmd
}

// openFromEnv wires the services from the environment, the way cmd/budget does.
func openFromEnv(ctx context.Context) (*App, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cli.RequireSharedBackend(cfg); err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg, log.ComponentCLI, io.Discard)

	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	transactions := services.NewTransactionService(res.Store, res.Publisher)
	return &App{
		Goals:        services.NewGoalService(res.Store, transactions),
		Transactions: transactions,
		Close:        res.Close,
	}, nil
}

// withApp opens the App, runs fn and releases the App.
func withApp(cmd *cobra.Command, open Opener, fn func(app *App) (any, error)) (err error) {
	app, err := open(cmd.Context())
	if err != nil {
		return fmt.Errorf("opening backend: %w", err)
	}
	defer func() {
		if app.Close == nil {
			return
		}
		if cerr := app.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing backend: %w", cerr)
		}
	}()

	v, err := fn(app)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
