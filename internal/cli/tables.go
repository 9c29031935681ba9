package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/greenops"
	"github.com/rshade/metallca/internal/lca"
)

// NewTablesShowCmd creates the tables show command.
func NewTablesShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the reference emission factors in use",
		Long: `Show the reference tables used for estimation and calculation: the
embedded industry averages, or the file named by tables.path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(cmd, output)
			if err != nil {
				return err
			}
			cfg := configFrom(cmd)
			tables, err := lca.LoadTables(cfg.Tables.Path)
			if err != nil {
				return fmt.Errorf("loading reference tables: %w", err)
			}
			if format == config.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), tables.Snapshot())
			}
			return renderTables(cmd.OutOrStdout(), tables)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func renderTables(w io.Writer, tables *lca.Tables) error {
	set := tables.Snapshot()
	fmt.Fprintf(w, "Reference tables (schema %s)\n\n", set.SchemaVersion)

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "METAL\tROUTE\tCO2e (kg/kg)\tENERGY (kWh/kg)\tTRANSPORT (km)\tWATER (L/kg)\tPURITY")
	for _, metal := range lca.Metals() {
		entry := set.Metals[metal]
		for _, route := range lca.Routes() {
			f := entry.Raw
			if route == lca.RouteRecycled {
				f = entry.Recycled
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", metal, route,
				greenops.FormatFloat(f.CO2PerKg, 2), greenops.FormatFloat(f.EnergyUse, 2),
				greenops.FormatFloat(f.TransportDistance, 0), greenops.FormatFloat(f.WaterUsage, 0),
				greenops.FormatFloat(entry.MaterialPurity, 2))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "END OF LIFE\tIMPACT FACTOR")
	for _, eol := range lca.EndOfLifeOptions() {
		fmt.Fprintf(tw, "%s\t%s\n", eol, greenops.FormatFloat(set.EndOfLife[eol], 2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	c := set.Conversion
	fmt.Fprintf(w, "\nGrid intensity: %g kg CO2e/kWh, transport: %g kg CO2e/km, end-of-life scale: %g\n",
		c.EnergyKgCO2ePerKWh, c.TransportKgCO2ePerKm, c.EndOfLifeScale)
	fmt.Fprintf(w, "Circular pathway scaling: energy x%g, transport x%g\n",
		set.Circular.EnergyScale, set.Circular.TransportScale)
	return nil
}
