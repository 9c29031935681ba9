package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/metallca/internal/batch"
	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/greenops"
	"github.com/rshade/metallca/internal/lca"
)

// errBatchFailures is returned when at least one scenario failed.
var errBatchFailures = errors.New("one or more scenarios failed")

type batchParams struct {
	file        string
	concurrency int
	batchSize   int
	seed        uint64
	output      string
}

// batchResult is one entry of `batch --output json`.
type batchResult struct {
	Name         string              `json:"name"`
	Success      bool                `json:"success"`
	EnhancedData *lca.EnhancedRecord `json:"enhanced_data,omitempty"`
	Results      *lca.Comparison     `json:"results,omitempty"`
	Error        *batchError         `json:"error,omitempty"`
}

type batchError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	var p batchParams

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Assess every scenario in a YAML or JSON file",
		Long: `Assess a list of scenarios. Each scenario takes the same fields as the
assess command; a failing scenario is reported without stopping the others.`,
		Example: `  # scenarios.yaml
  # scenarios:
  #   - name: cans
  #     metal: aluminium
  #     productionRoute: recycled
  #     endOfLife: recycle
  metallca batch --file scenarios.yaml --concurrency 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, p)
		},
	}

	cmd.Flags().StringVarP(&p.file, "file", "f", "", "scenario file (required)")
	cmd.Flags().IntVar(&p.concurrency, "concurrency", 1, "number of batches assessed in parallel")
	cmd.Flags().IntVar(&p.batchSize, "batch-size", batch.DefaultBatchSize, "scenarios per batch")
	cmd.Flags().Uint64Var(&p.seed, "seed", 0, "seed for reproducible parameter estimates")
	addOutputFlag(cmd, &p.output)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runBatch(cmd *cobra.Command, p batchParams) error {
	format, err := resolveOutputFormat(cmd, p.output)
	if err != nil {
		return err
	}
	cfg := configFrom(cmd)
	logger := loggerFrom(cmd)

	scenarios, err := batch.LoadScenarios(p.file)
	if err != nil {
		return err
	}

	var seed *uint64
	if cmd.Flags().Changed("seed") {
		seed = &p.seed
	}
	assessor, _, err := buildAssessor(cfg.Config, seed)
	if err != nil {
		return err
	}

	opts := batch.RunOptions{Concurrency: p.concurrency, BatchSize: p.batchSize}
	if format == config.FormatTable && isTerminal(os.Stderr) {
		opts.OnProgress = func(s batch.ProgressSnapshot) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rAssessed %d/%d scenarios (%.0f%%)", s.ProcessedItems, s.TotalItems, s.PercentComplete())
			if s.IsComplete() {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}

	results, err := batch.Run(cmd.Context(), assessor, scenarios, opts)
	if err != nil {
		return fmt.Errorf("running batch: %w", err)
	}

	failed := batch.Failed(results)
	logger.Info().
		Str("component", "cli").
		Str("file", p.file).
		Int("scenarios", len(results)).
		Int("failed", failed).
		Msg("batch complete")

	if format == config.FormatJSON {
		err = writeJSON(cmd.OutOrStdout(), toBatchResults(results))
	} else {
		err = renderBatchTable(cmd.OutOrStdout(), results, cfg.Output.Precision)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errBatchFailures, failed, len(results))
	}
	return nil
}

func toBatchResults(results []batch.Result) []batchResult {
	out := make([]batchResult, 0, len(results))
	for _, r := range results {
		entry := batchResult{Name: r.Name, Success: r.Err == nil}
		if r.Err != nil {
			entry.Error = &batchError{Kind: lca.ErrorKind(r.Err), Message: r.Err.Error()}
		} else {
			entry.EnhancedData = &r.Assessment.Enhanced
			entry.Results = &r.Assessment.Results
		}
		out = append(out, entry)
	}
	return out
}

func renderBatchTable(w io.Writer, results []batch.Result, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tMETAL\tROUTE\tCONVENTIONAL CO2e\tCIRCULAR CO2e\tREDUCTION\tESTIMATED")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\terror: %v\n", r.Name, r.Err)
			continue
		}
		e := r.Assessment.Enhanced
		c := r.Assessment.Results
		estimated := "-"
		if fields := e.EstimatedFields(); len(fields) > 0 {
			estimated = fmt.Sprint(fields)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s%%\t%s\n",
			r.Name, e.Metal, e.ProductionRoute,
			greenops.FormatFloat(c.Conventional.CO2Equivalent, precision),
			greenops.FormatFloat(c.Circular.CO2Equivalent, precision),
			greenops.FormatFloat(c.Improvements.CO2ReductionPercent, precision),
			estimated)
	}
	return tw.Flush()
}
