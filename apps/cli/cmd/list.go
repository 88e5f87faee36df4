package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
)

func newListCmd(register Register) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered suites and tests",
		Long: `List every registered suite with its tests and where each test
was registered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCommand(cmd, register)
		},
	}
}

func listCommand(cmd *cobra.Command, register Register) error {
	if root, err := os.Getwd(); err == nil {
		callsite.SetRoot(root)
	}

	reg := runner.New()
	register(reg)

	out := cmd.OutOrStdout()
	if reg.SuiteCount() == 0 {
		fmt.Fprintln(out, "No suites registered")
		return nil
	}

	for _, s := range reg.Suites() {
		fmt.Fprintf(out, "\n%s (%d %s):\n", s.Name, s.TestCount, plural(s.TestCount, "test", "tests"))
		for _, t := range s.Tests() {
			fmt.Fprintf(out, "  - %s", t.Name)
			if !t.Context.IsZero() {
				fmt.Fprintf(out, "  %s", t.Context)
			}
			fmt.Fprintln(out)
		}
	}
	fmt.Fprintf(out, "\n%d %s, %d %s\n",
		reg.SuiteCount(), plural(reg.SuiteCount(), "suite", "suites"),
		reg.TestCount(), plural(reg.TestCount(), "test", "tests"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
