// Package commands defines all Cobra CLI commands for the campusai binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/campusconnect/campusai-go/internal/audit"
	"github.com/campusconnect/campusai-go/internal/config"
	"github.com/campusconnect/campusai-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "campusai",
		Short: "CampusConnect AI — the SVU campus assistant powered by LLMs",
		Long: `CampusConnect AI is a retrieval-augmented assistant for the
Sri Venkateswara University public knowledge base.

It answers questions about admissions, academics, hostels, placements, and
campus life grounded strictly on a curated FAQ store, and it maintains that
store by scraping the official university site and extracting FAQ pairs
with an LLM.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.campusai/config.yaml).
See 'campusai --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.campusai/config.yaml)")

	root.AddCommand(
		NewAskCmd(),
		NewServeCmd(),
		NewScrapeCmd(),
		NewAddURLCmd(),
		NewRefineCmd(),
		NewIndexCmd(),
		NewVersionCmd(),
	)

	return root
}
