// Package cli implements the metallca command line.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

type configKey struct{}

// NewRootCmd creates the root command for the metallca CLI.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:   "metallca",
		Short: "Life-cycle assessment of metal production pathways",
		Long: `metallca compares the CO2e footprint of a conventional (raw material)
production pathway with a circular (recycled) one for aluminium, copper,
steel and other metals. Missing energy and transport figures are estimated
from reference tables.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			resolved := config.ResolveProjectDir(ctx, projectDir, workingDir())
			cfg := config.NewWithProjectDir(ctx, resolved)
			ctx = context.WithValue(ctx, configKey{}, &cliConfig{Config: cfg, ProjectDir: resolved})
			cmd.SetContext(ctx)

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return logResult.Close()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding a .metallca/config.yaml overlay")

	cmd.AddCommand(
		NewAssessCmd(), NewBatchCmd(), NewServeCmd(),
		newReportCmd(), newTablesCmd(), newConfigCmd(),
	)
	return cmd
}

const rootCmdExample = `  # Assess recycled aluminium with known energy use and transport distance
  metallca assess --metal aluminium --route recycled --energy-use 8 --transport-distance 500 --end-of-life recycle

  # Let metallca estimate missing parameters and save a report
  metallca assess --metal steel --route raw --end-of-life landfill --save

  # Assess every scenario in a file
  metallca batch --file scenarios.yaml

  # Serve the JSON API for the input form
  metallca serve --addr 127.0.0.1:8080`

// cliConfig is the configuration resolved for one invocation.
type cliConfig struct {
	*config.Config
	ProjectDir string
}

// configFrom returns the configuration resolved by the root command, or a
// freshly loaded one when a subcommand runs on its own.
func configFrom(cmd *cobra.Command) *cliConfig {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*cliConfig); ok {
			return cfg
		}
	}
	return &cliConfig{Config: config.New()}
}

// loggerFrom returns the invocation logger.
func loggerFrom(cmd *cobra.Command) *zerolog.Logger {
	return logging.FromContext(cmd.Context())
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}

// newReportCmd creates the report command group.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "report", Short: "Manage saved assessment reports"}
	cmd.AddCommand(NewReportListCmd(), NewReportShowCmd(), NewReportDeleteCmd())
	return cmd
}

// newTablesCmd creates the tables command group.
func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tables", Short: "Inspect reference emission tables"}
	cmd.AddCommand(NewTablesShowCmd())
	return cmd
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// errOutputFormat is returned for an unsupported --output value.
var errOutputFormat = errors.New("output format must be table or json")
