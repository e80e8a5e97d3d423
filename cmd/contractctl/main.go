/*
main.go - contractctl, the command-line client for the contract store

PURPOSE:
  Operates directly on the SQLite database the server uses: list the
  table, show alerts, print a schedule, export or delete a contract. Useful
  for scripting and for checking a database without starting the server.

COMMANDS:
  list      [--query q] [--sort key] [--dir asc|desc]
  alerts    Contracts nearest to their aviso date first
  schedule  <id>          Automatic escalation schedule
  export    <id> [--dir path]
  delete    <id>

GLOBAL FLAGS:
  --config   YAML config file (default: leases.yaml, optional)
  --db       SQLite database path (overrides config)

SEE ALSO:
  - commands.go: Command implementations
  - cmd/server/main.go: The HTTP server over the same database
*/
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/lease-tracker/config"
	"github.com/warp/lease-tracker/contract"
	"github.com/warp/lease-tracker/store/sqlite"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	dbPath     string

	now       func() time.Time
	logger    *zap.Logger
	db        *sqlite.Store
	contracts *contract.Store
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "contractctl",
		Short:         "Inspect and maintain the lease contract database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "leases.yaml", "YAML config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")

	root.AddCommand(
		a.listCmd(),
		a.alertsCmd(),
		a.scheduleCmd(),
		a.exportCmd(),
		a.deleteCmd(),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}

	if a.logger == nil {
		if a.logger, err = cfg.Logger(); err != nil {
			return err
		}
	}

	a.db, err = sqlite.New(cfg.DBPath, a.logger)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	a.contracts = contract.Open(ctx, a.db, a.logger)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func main() {
	root := newRootCmd(&app{now: time.Now})
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
