package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/greenops"
	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/internal/report"
)

type assessParams struct {
	metal             string
	route             string
	endOfLife         string
	energyUse         float64
	transportDistance float64
	mass              float64
	massUnit          string
	seed              uint64
	output            string
	save              bool
}

// assessOutput is the JSON shape of `assess --output json`.
type assessOutput struct {
	Success         bool                       `json:"success"`
	EnhancedData    lca.EnhancedRecord         `json:"enhanced_data"`
	Results         lca.Comparison             `json:"results"`
	Recommendations []string                   `json:"recommendations"`
	Equivalency     greenops.EquivalencyOutput `json:"equivalency"`
	ReportID        string                     `json:"report_id,omitempty"`
}

// NewAssessCmd creates the assess command.
func NewAssessCmd() *cobra.Command {
	var p assessParams

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Compare conventional and circular production of a metal",
		Long: `Assess one production scenario. Energy use and transport distance are
optional; when omitted they are estimated from the reference tables with a
small random variation (use --seed for reproducible estimates).`,
		Example: `  # Fully specified scenario
  metallca assess --metal aluminium --route recycled --energy-use 8 --transport-distance 500 --end-of-life recycle

  # Estimate the missing parameters, scale savings to 5 tonnes, save a report
  metallca assess --metal copper --route raw --end-of-life landfill --mass 5 --mass-unit t --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssess(cmd, p)
		},
	}

	cmd.Flags().StringVar(&p.metal, "metal", "", "metal: aluminium, copper, steel or other (required)")
	cmd.Flags().StringVar(&p.route, "route", "", "production route: raw or recycled (required)")
	cmd.Flags().StringVar(&p.endOfLife, "end-of-life", "", "end of life: reuse, recycle or landfill (required)")
	cmd.Flags().Float64Var(&p.energyUse, "energy-use", 0, "energy use in kWh/kg (estimated when omitted)")
	cmd.Flags().Float64Var(&p.transportDistance, "transport-distance", 0, "transport distance in km (estimated when omitted)")
	cmd.Flags().Float64Var(&p.mass, "mass", 1, "production quantity for savings equivalencies")
	cmd.Flags().StringVar(&p.massUnit, "mass-unit", "kg", "unit of --mass: g, kg, t or lb")
	cmd.Flags().Uint64Var(&p.seed, "seed", 0, "seed for reproducible parameter estimates")
	cmd.Flags().BoolVar(&p.save, "save", false, "save the assessment as a report")
	addOutputFlag(cmd, &p.output)

	_ = cmd.MarkFlagRequired("metal")
	_ = cmd.MarkFlagRequired("route")
	_ = cmd.MarkFlagRequired("end-of-life")

	return cmd
}

func runAssess(cmd *cobra.Command, p assessParams) error {
	format, err := resolveOutputFormat(cmd, p.output)
	if err != nil {
		return err
	}

	input, err := p.inputRecord(cmd)
	if err != nil {
		return err
	}
	if err = report.ValidateMass(p.mass, p.massUnit); err != nil {
		return err
	}

	cfg := configFrom(cmd).Config
	var seed *uint64
	if cmd.Flags().Changed("seed") {
		seed = &p.seed
	}
	assessor, _, err := buildAssessor(cfg, seed)
	if err != nil {
		return err
	}

	a, err := assessor.Assess(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("assessment failed (%s): %w", lca.ErrorKind(err), err)
	}

	rep, err := report.New(a, "", report.WithMass(p.mass, p.massUnit))
	if err != nil {
		return err
	}

	if p.save {
		if err = saveReport(cmd, cfg, rep); err != nil {
			return err
		}
	}

	if format == config.FormatJSON {
		out := assessOutput{
			Success:         true,
			EnhancedData:    a.Enhanced,
			Results:         a.Results,
			Recommendations: rep.Recommendations,
			Equivalency:     rep.Equivalency,
		}
		if p.save {
			out.ReportID = rep.ID
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	if err = RenderAssessment(cmd.OutOrStdout(), rep, cfg.Output.Precision); err != nil {
		return err
	}
	if p.save {
		cmd.Printf("\nReport saved: %s\n", rep.ID)
	}
	return nil
}

// inputRecord parses the enum flags and leaves unset numeric flags nil so
// they are estimated.
func (p assessParams) inputRecord(cmd *cobra.Command) (lca.InputRecord, error) {
	metal, err := lca.ParseMetal(p.metal)
	if err != nil {
		return lca.InputRecord{}, err
	}
	route, err := lca.ParseRoute(p.route)
	if err != nil {
		return lca.InputRecord{}, err
	}
	eol, err := lca.ParseEndOfLife(p.endOfLife)
	if err != nil {
		return lca.InputRecord{}, err
	}

	input := lca.InputRecord{Metal: metal, ProductionRoute: route, EndOfLife: eol}
	if cmd.Flags().Changed("energy-use") {
		input.EnergyUse = lca.Float(p.energyUse)
	}
	if cmd.Flags().Changed("transport-distance") {
		input.TransportDistance = lca.Float(p.transportDistance)
	}
	return input, nil
}

func saveReport(cmd *cobra.Command, cfg *config.Config, rep *report.Report) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err = store.Save(rep); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	loggerFrom(cmd).Info().Str("report_id", rep.ID).Str("directory", store.Directory()).Msg("report saved")
	return nil
}
