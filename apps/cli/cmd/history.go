package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/unitspec/packages/history"
)

type historyFlags struct {
	db    string
	limit int
	flaky bool
	prune int
}

func newHistoryCmd() *cobra.Command {
	f := &historyFlags{}
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs recorded with --history",
		Long: `List runs recorded in a history database, newest first.

Examples:
  mytests history --db runs.db
  mytests history --db runs.db --flaky
  mytests history --db runs.db --prune 100
  mytests history show <run-id> --db runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyCommand(cmd, f)
		},
	}

	historyCmd.PersistentFlags().StringVar(&f.db, "db", getEnvString("UNITSPEC_HISTORY", ""), "History database (env: UNITSPEC_HISTORY)")
	historyCmd.Flags().IntVar(&f.limit, "limit", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&f.flaky, "flaky", false, "List tests that have both passed and failed")
	historyCmd.Flags().IntVar(&f.prune, "prune", -1, "Delete all but the newest N runs")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the tests of one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyShowCommand(cmd, f, args[0])
		},
	})
	return historyCmd
}

func openHistory(ctx context.Context, f *historyFlags) (*history.Store, error) {
	if f.db == "" {
		return nil, withCode(ExitUsageError, errors.New("--db is required"))
	}
	store, err := history.Open(ctx, f.db)
	if err != nil {
		return nil, withCode(ExitReportError, err)
	}
	return store, nil
}

func historyCommand(cmd *cobra.Command, f *historyFlags) error {
	ctx := cmd.Context()
	store, err := openHistory(ctx, f)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if f.prune >= 0 {
		n, err := store.Prune(ctx, f.prune)
		if err != nil {
			return withCode(ExitReportError, err)
		}
		fmt.Fprintf(out, "Removed %d %s\n", n, plural(int(n), "run", "runs"))
		return nil
	}

	if f.flaky {
		flaky, err := store.Flaky(ctx)
		if err != nil {
			return withCode(ExitReportError, err)
		}
		if len(flaky) == 0 {
			fmt.Fprintln(out, "No flaky tests")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SUITE\tTEST\tPASSED\tFAILED")
		for _, ft := range flaky {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", ft.Suite, ft.Name, ft.Passed, ft.Failed)
		}
		return tw.Flush()
	}

	runs, err := store.Runs(ctx, f.limit)
	if err != nil {
		return withCode(ExitReportError, err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tMODE\tPASSED\tFAILED\tNOT RUN\tTIME\tP95")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Mode,
			r.Passed, r.Failed, r.Skipped,
			r.Duration.Round(time.Millisecond), r.P95.Round(time.Microsecond))
	}
	return tw.Flush()
}

func historyShowCommand(cmd *cobra.Command, f *historyFlags, id string) error {
	ctx := cmd.Context()
	store, err := openHistory(ctx, f)
	if err != nil {
		return err
	}
	defer store.Close()

	run, tests, err := store.Run(ctx, id)
	if err != nil {
		return withCode(ExitReportError, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) at %s\n", run.ID, run.Mode, run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "%d passed, %d failed, %d total", run.Passed, run.Failed, run.Total)
	if run.Aborted {
		fmt.Fprintf(out, " (stopped after first failure, %d not run)", run.Skipped)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSUITE\tTEST\tRESULT\tTIME\tDETAIL")
	for _, t := range tests {
		result := "PASSED"
		if !t.Passed {
			result = "FAILED"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.Suite, t.Name, result, t.Duration.Round(time.Microsecond), t.Detail)
	}
	return tw.Flush()
}
