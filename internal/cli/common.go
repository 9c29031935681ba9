package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/internal/report"
)

// buildAssessor loads the configured tables and returns an assessor tuned by
// the estimator section. A non-nil seed makes estimates reproducible.
func buildAssessor(cfg *config.Config, seed *uint64) (*lca.Assessor, *lca.Tables, error) {
	tables, err := lca.LoadTables(cfg.Tables.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading reference tables: %w", err)
	}

	opts := []lca.EstimatorOption{
		lca.WithJitter(cfg.Estimator.Jitter),
		lca.WithDerivedJitter(cfg.Estimator.DerivedJitter),
	}
	if seed != nil {
		opts = append(opts, lca.WithRandomSource(lca.NewSeededSource(*seed)))
	}
	return lca.NewDefaultAssessor(tables, opts...), tables, nil
}

// openStore opens the configured report directory.
func openStore(cfg *config.Config) (*report.FileStore, error) {
	store, err := report.NewFileStore(cfg.Reports.Directory)
	if err != nil {
		return nil, fmt.Errorf("opening report store: %w", err)
	}
	return store, nil
}

// resolveOutputFormat picks the --output flag value or the configured default.
func resolveOutputFormat(cmd *cobra.Command, flagValue string) (string, error) {
	format := flagValue
	if format == "" {
		format = configFrom(cmd).Output.DefaultFormat
	}
	switch format {
	case config.FormatTable, config.FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w, got %q", errOutputFormat, format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "", "output format: table or json (default from config)")
}
