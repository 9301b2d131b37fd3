// Package cmd implements the newsfeed command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/config"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/bootstrap"
)

const defaultConfigPath = "config.yml"

// version can be set at build time via -ldflags.
var version = "dev"

// NewRootCommand builds the CLI. Running it without a subcommand serves.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "newsfeed",
		Short:         "News feed service",
		Long:          "Indexes article files and serves them as a normalized JSON news feed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Start(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c",
		infraconfig.GetConfigPath(defaultConfigPath),
		"config file (default from CONFIG_PATH, else config.yml; missing file uses defaults)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Load the dataset and serve the HTTP API (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return bootstrap.Start(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "load",
			Short: "Write the article index to the configured store and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				n, err := bootstrap.LoadOnly(cmd.Context(), configPath)
				if err != nil {
					return err
				}
				cmd.Printf("Indexed %d article files\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Printf("newsfeed version %s\n", version)
			},
		},
	)
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		return fmt.Errorf("newsfeed: %w", err)
	}
	return nil
}
