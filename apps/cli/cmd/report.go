package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/unitspec/packages/report"
)

func newReportCmd() *cobra.Command {
	var schemaFlag bool
	reportCmd := &cobra.Command{
		Use:   "report <report.json>",
		Short: "Check and summarize a JSON report",
		Long: `Validate a report written with --output json and print its totals
and failed tests. Exits with status 1 when the report has failures.

Examples:
  mytests run -o json --output-file report.json
  mytests report report.json
  mytests report --schema`,
		Args: func(cmd *cobra.Command, args []string) error {
			if schemaFlag {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaFlag {
				_, err := cmd.OutOrStdout().Write(report.Schema())
				return err
			}
			return reportCommand(cmd, args[0])
		},
	}
	reportCmd.Flags().BoolVar(&schemaFlag, "schema", false, "Print the JSON schema reports are checked against")
	return reportCmd
}

func reportCommand(cmd *cobra.Command, path string) error {
	s, err := report.Load(path)
	if err != nil {
		return withCode(ExitReportError, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) at %s\n", s.ID, s.Mode, s.Time)
	fmt.Fprintf(out, "Suites: %d  Tests: %d  ", s.Suites, s.Total)
	fmt.Fprintf(out, "%s  %s", color.GreenString("%d passed", s.Passed), color.RedString("%d failed", s.Failed))
	if s.Skipped > 0 {
		fmt.Fprintf(out, "  %s", color.YellowString("%d not run", s.Skipped))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Time: %.0fms  p95: %.3fms\n", s.Duration, s.P95)

	if len(s.Failures) > 0 {
		fmt.Fprintln(out, "\nFailed tests:")
		for _, ft := range s.Failures {
			fmt.Fprintf(out, "  %s/%s", ft.Suite, ft.Name)
			if ft.File != "" {
				fmt.Fprintf(out, " (%s:%d)", ft.File, ft.Line)
			}
			if ft.Detail != "" {
				fmt.Fprintf(out, ": %s", ft.Detail)
			}
			fmt.Fprintln(out)
		}
	}
	if s.Aborted {
		fmt.Fprintln(out, "\nThe run stopped at the first failure")
	}

	if !s.Success() {
		return withCode(ExitTestFailure, nil)
	}
	return nil
}
