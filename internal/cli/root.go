// Package cli wires the portal's commands: serving pages, prerendering the
// static export, pulling the CMS schema, and printing build metadata.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"devportal/internal/config"
	"devportal/internal/logging"

	"go.uber.org/zap"
)

// Build metadata, overridden through -ldflags at release time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type configKey struct{}

// NewRootCmd builds the devportal command tree.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "devportal",
		Short: "Developer portal over a headless CMS",
		Long: `devportal renders a developer portal whose pages, components, and
translations live in a headless CMS. It serves them on demand, prerenders
them to static files, and hosts the editing preview flow.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Help and completion must work without a valid config.
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} v{{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command, reporting errors on stderr once.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}

func configFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration was not loaded")
	}

	return cfg, nil
}

func buildLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	return logging.New(cfg.IsDevelopment(), verbose)
}
