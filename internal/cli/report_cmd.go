package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/greenops"
	"github.com/rshade/metallca/internal/report"
)

// NewReportListCmd creates the report list command.
func NewReportListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved reports, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(cmd, output)
			if err != nil {
				return err
			}
			cfg := configFrom(cmd)
			store, err := openStore(cfg.Config)
			if err != nil {
				return err
			}
			summaries, err := store.List()
			if err != nil {
				return fmt.Errorf("listing reports: %w", err)
			}

			if format == config.FormatJSON {
				if summaries == nil {
					summaries = []report.Summary{}
				}
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			if len(summaries) == 0 {
				cmd.Printf("No reports in %s\n", store.Directory())
				return nil
			}
			return renderSummaries(cmd.OutOrStdout(), summaries, cfg.Output.Precision)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func renderSummaries(w io.Writer, summaries []report.Summary, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tMETAL\tROUTE\tREDUCTION")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\n",
			s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Metal, s.ProductionRoute,
			greenops.FormatFloat(s.CO2ReductionPercent, precision))
	}
	return tw.Flush()
}

// NewReportShowCmd creates the report show command.
func NewReportShowCmd() *cobra.Command {
	var (
		output   string
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved report",
		Example: `  metallca report show lca_report_aluminium_recycled_01J9Z3Q4W5E6R7T8Y9V0A1B2C3
  metallca report show lca_report_aluminium_recycled_01J9Z3Q4W5E6R7T8Y9V0A1B2C3 --markdown > report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := loadReport(cmd, args[0])
			if err != nil {
				return err
			}
			if markdown {
				return report.RenderMarkdown(cmd.OutOrStdout(), rep)
			}

			format, err := resolveOutputFormat(cmd, output)
			if err != nil {
				return err
			}
			if format == config.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			return RenderAssessment(cmd.OutOrStdout(), rep, configFrom(cmd).Output.Precision)
		},
	}
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the report as Markdown")
	cmd.MarkFlagsMutuallyExclusive("markdown", "output")
	return cmd
}

// NewReportDeleteCmd creates the report delete command.
func NewReportDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved report",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := report.ValidateID(id); err != nil {
				return err
			}
			store, err := openStore(configFrom(cmd).Config)
			if err != nil {
				return err
			}
			if err = store.Delete(id); err != nil {
				return reportLookupError(id, err)
			}
			loggerFrom(cmd).Info().Str("component", "cli").Str("report_id", id).Msg("report deleted")
			cmd.Printf("Deleted report %s\n", id)
			return nil
		},
	}
}

func loadReport(cmd *cobra.Command, id string) (*report.Report, error) {
	if err := report.ValidateID(id); err != nil {
		return nil, err
	}
	store, err := openStore(configFrom(cmd).Config)
	if err != nil {
		return nil, err
	}
	rep, err := store.Get(id)
	if err != nil {
		return nil, reportLookupError(id, err)
	}
	return rep, nil
}

func reportLookupError(id string, err error) error {
	if errors.Is(err, report.ErrNotFound) {
		return err
	}
	return fmt.Errorf("reading report %s: %w", id, err)
}
