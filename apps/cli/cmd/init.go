package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/unitspec/packages/core/config"
)

func newInitCmd() *cobra.Command {
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .unitspec.yaml",
		Long: `Write a configuration file with the default settings to the current
directory.

Examples:
  mytests init
  mytests init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommand(cmd, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return initCmd
}

func initCommand(cmd *cobra.Command, force bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	if !force {
		if _, err := os.Stat(configFile); err == nil {
			return withCode(ExitConfigError, fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile))
		}
	}

	cfg := config.DefaultConfig()
	cfg.Watch.Paths = []string{"."}
	if err := cfg.SaveConfig(configFile); err != nil {
		return withCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)
	return nil
}
