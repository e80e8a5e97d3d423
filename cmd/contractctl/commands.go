package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/lease-tracker/contract"
)

// =============================================================================
// LIST
// =============================================================================

func (a *app) listCmd() *cobra.Command {
	var query, sortKey, dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the contract table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := contract.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			direction, err := contract.ParseDirection(dir)
			if err != nil {
				return err
			}
			rows := contract.Table(a.contracts.All(), query, key, direction)
			return a.printTable(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Substring filter over id, file name and monthly amount")
	cmd.Flags().StringVar(&sortKey, "sort", string(contract.SortByAvisoDate), "Sort key")
	cmd.Flags().StringVar(&dir, "dir", string(contract.Ascending), "Sort direction (asc|desc)")
	return cmd
}

// =============================================================================
// ALERTS
// =============================================================================

func (a *app) alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Print contracts nearest to their aviso date first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := a.contracts.All()
			if err := a.printTable(cmd.OutOrStdout(), contract.SemaphoreOrder(all, a.now())); err != nil {
				return err
			}
			s := contract.Summarize(all)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "\n%d contracts, %s monthly, %d with file\n",
				s.Count, s.TotalMonthly.StringFixed(2), s.WithFile)
			return err
		},
	}
}

// =============================================================================
// SCHEDULE
// =============================================================================

func (a *app) scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id>",
		Short: "Print a contract's automatic escalation schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.contracts.Get(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			rows := contract.Automatic(c.Terms())
			if len(rows) == 0 {
				_, err := fmt.Fprintln(out, "Insufficient data to compute an escalation schedule.")
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MONTH\tAMOUNT")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\n", r.Month, r.Amount.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

// =============================================================================
// EXPORT
// =============================================================================

func (a *app) exportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a contract as pretty-printed JSON",
		Long:  "Writes the contract to stdout, or to <dir>/contract-<id>.json when --dir is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.contracts.Get(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			data, err := contract.Export(c)
			if err != nil {
				return err
			}

			if dir == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			path := filepath.Join(dir, contract.ExportFilename(c.ID))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			a.logger.Debug("contract exported", zap.String("id", c.ID), zap.String("path", path))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write contract-<id>.json into")
	return cmd
}

// =============================================================================
// DELETE
// =============================================================================

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := "deleted"
			if !a.contracts.Remove(cmd.Context(), args[0]) {
				msg = "not found"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], msg)
			return err
		},
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (a *app) printTable(w io.Writer, rows []contract.Contract) error {
	now := a.now()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAVISO\tEND\tMONTHLY\tLEVEL\tDAYS")
	for _, c := range rows {
		days := "-"
		if d := contract.DaysUntil(c.UrgencyDate(), now); d != contract.Infinite {
			days = fmt.Sprint(d)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			c.DisplayName(),
			dateOrDash(c.AvisoDate),
			dateOrDash(c.EndDate),
			c.MonthlyAmount.StringFixed(2),
			contract.Classify(c, now),
			days,
		)
	}
	return tw.Flush()
}

func dateOrDash(d contract.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}
