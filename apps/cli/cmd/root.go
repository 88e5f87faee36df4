package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// Register declares the suites of a test program on r.
type Register func(r *runner.Registry)

func newRootCmd(register Register) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   programName(),
		Short: "Run the unit tests built into this program",
		Long: `This program carries its own unit tests, written with unitspec.
Without a command it runs every registered suite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd(register))
	rootCmd.AddCommand(newListCmd(register))
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func programName() string {
	if len(os.Args) == 0 {
		return "unitspec"
	}
	return filepath.Base(os.Args[0])
}

// Execute runs the command line of a test program and exits. register is
// called once per run to declare the program's suites.
func Execute(v, bt string, register Register) {
	version = v
	buildTime = bt
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr, register))
}

// execute runs the command tree and maps its outcome to an exit code.
func execute(args []string, stdout, stderr io.Writer, register Register) int {
	if len(args) == 0 {
		args = []string{"run"}
	}

	rootCmd := newRootCmd(register)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	// anything else came from cobra's argument and flag parsing
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitUsageError
}
