// Package main provides the Lumen desktop shell entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rennerdo30/lumen-desktop/internal/config"
	"github.com/rennerdo30/lumen-desktop/internal/version"
)

var (
	configFile string

	initOutput string
	initForce  bool

	rootCmd = newRootCommand()
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lumen",
		Short:         "Lumen desktop shell",
		Long:          `Lumen opens the Lumen web application in a native window with a tray icon and keeps itself up to date.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default "+config.DefaultPath()+")")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		RunE:  runConfigInit,
	}
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "", "output file path (default: the --config path)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing file")
	configCmd.AddCommand(initCmd)
	root.AddCommand(configCmd)

	root.AddCommand(newUpdateCommand())

	return root
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultPath()
}

// loadConfig reads the config file. A missing file yields the defaults.
func loadConfig() (config.Config, error) {
	cfg := config.DefaultConfig()
	if _, err := config.LoadOptional(configPath(), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := initOutput
	if out == "" {
		out = configPath()
	}

	if !initForce {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("file %s already exists (use --force to overwrite)", out)
		}
	}

	cfg := config.DefaultConfig()
	if err := config.Save(out, &cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated configuration: %s\n", out)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
