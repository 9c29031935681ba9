package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/lca"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force, global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write the default configuration. Inside a project (see --project-dir) the
file is written to the project's .metallca directory together with a
.gitignore; otherwise, or with --global, to ~/.metallca/config.yaml.`,
		Example: `  metallca config init
  metallca --project-dir . config init
  metallca config init --global --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)

			var target *config.Config
			if cfg.ProjectDir != "" && !global {
				target = config.Default(cfg.ProjectDir)
			} else {
				dir, err := config.GetConfigDir()
				if err != nil {
					return err
				}
				target = config.Default(dir)
			}

			path := target.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
			}
			if err := target.Save(); err != nil {
				return err
			}

			if cfg.ProjectDir != "" && !global {
				created, err := config.EnsureGitignore(cfg.ProjectDir)
				if err != nil {
					return err
				}
				if created {
					cmd.Printf("Created %s\n", filepath.Join(cfg.ProjectDir, ".gitignore"))
				}
			}

			cmd.Printf("Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "write the global configuration even inside a project")
	return cmd
}

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after merging the project overlay and the environment.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(cfg.Config); err != nil {
					return fmt.Errorf("encoding config: %w", err)
				}
				return enc.Close()
			case config.FormatJSON:
				return writeJSON(cmd.OutOrStdout(), cfg.Config)
			default:
				return fmt.Errorf("unsupported format %q (use yaml or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if cfg.Tables.Path != "" {
				if _, err := lca.LoadTables(cfg.Tables.Path); err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
			}
			cmd.Println("Configuration is valid")
			return nil
		},
	}
}
