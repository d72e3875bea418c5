package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch cfg.DataBackend {
			case "sqlite":
				repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
				if err != nil {
					return err
				}
				defer repo.Close()
				fmt.Fprintf(out, "sqlite schema at %s is up to date\n", cfg.SQLiteDBPath)
			case "postgres":
				if err := storage.RunMigrations(storage.Postgres, cfg.DatabaseURL); err != nil {
					return err
				}
				fmt.Fprintln(out, "postgres schema is up to date")
			default:
				fmt.Fprintf(out, "%s backend has no schema to migrate\n", cfg.DataBackend)
			}
			return nil
		},
	}
}
