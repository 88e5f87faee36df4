package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/unitspec/packages/core/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file...]",
		Short: "Validate configuration files",
		Long: `Check unitspec configuration files for unknown keys and bad values.
Without arguments the config file in the current directory is checked.

Examples:
  mytests validate
  mytests validate ci/.unitspec.yaml`,
		RunE: validateCommand,
	}
}

func validateCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if _, err := config.LoadConfig(""); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return withCode(ExitConfigError, nil)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Valid: current directory")
		return nil
	}

	hasErrors := false
	for _, file := range args {
		if _, err := config.LoadConfig(file); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withCode(ExitConfigError, fmt.Errorf("validation failed"))
	}
	return nil
}
