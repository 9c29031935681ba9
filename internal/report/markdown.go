package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rshade/metallca/internal/greenops"
	"github.com/rshade/metallca/internal/lca"
)

const numberPrecision = 2

// RenderMarkdown writes r as a Markdown document: input parameters,
// estimated parameters, pathway comparison, circular economy benefits and
// recommendations.
func RenderMarkdown(w io.Writer, r *Report) error {
	if r == nil {
		return ErrNilAssessment
	}

	var b strings.Builder
	a := r.Assessment
	e := a.Enhanced

	b.WriteString("# Metal Production LCA Report\n\n")
	fmt.Fprintf(&b, "- Report ID: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- Generated: %s\n\n", r.CreatedAt.Format(time.RFC3339))

	b.WriteString("## Input Parameters\n\n")
	b.WriteString("| Parameter | Value | Source |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Metal | %s | %s |\n", e.Metal, sourceLabel(lca.SourceUserSupplied))
	fmt.Fprintf(&b, "| Production route | %s | %s |\n", e.ProductionRoute, sourceLabel(lca.SourceUserSupplied))
	fmt.Fprintf(&b, "| Energy use (kWh/kg) | %s | %s |\n", num(e.EnergyUse), sourceLabel(e.Sources.EnergyUse))
	fmt.Fprintf(&b, "| Transport distance (km) | %s | %s |\n",
		num(e.TransportDistance), sourceLabel(e.Sources.TransportDistance))
	fmt.Fprintf(&b, "| End of life | %s | %s |\n\n", e.EndOfLife, sourceLabel(lca.SourceUserSupplied))

	b.WriteString("## Estimated Parameters\n\n")
	if estimated := e.EstimatedFields(); len(estimated) > 0 {
		fmt.Fprintf(&b, "Filled from reference tables: %s.\n\n", strings.Join(estimated, ", "))
	}
	fmt.Fprintf(&b, "- Process efficiency: %s%%\n", num(e.ProcessEfficiency*100))
	fmt.Fprintf(&b, "- Material purity: %s%%\n", num(e.MaterialPurity*100))
	fmt.Fprintf(&b, "- Water usage: %s L/kg\n", num(e.WaterUsage))
	fmt.Fprintf(&b, "- Waste rate: %s%%\n\n", num(e.WasteRate*100))

	conv, circ := a.Results.Conventional, a.Results.Circular
	b.WriteString("## Pathway Comparison\n\n")
	fmt.Fprintf(&b, "| Metric | %s | %s |\n|---|---|---|\n", conv.Name, circ.Name)
	row(&b, "CO2e (kg/kg)", conv.CO2Equivalent, circ.CO2Equivalent)
	row(&b, "Production (kg CO2e/kg)", conv.Breakdown.Production, circ.Breakdown.Production)
	row(&b, "Energy (kg CO2e/kg)", conv.Breakdown.Energy, circ.Breakdown.Energy)
	row(&b, "Transport (kg CO2e/kg)", conv.Breakdown.Transport, circ.Breakdown.Transport)
	row(&b, "End of life (kg CO2e/kg)", conv.Breakdown.EndOfLife, circ.Breakdown.EndOfLife)
	row(&b, "Energy consumed (kWh/kg)", conv.EnergyConsumed, circ.EnergyConsumed)
	row(&b, "Transport distance (km)", conv.TransportDistance, circ.TransportDistance)
	row(&b, "Recycled content (%)", conv.RecycledContent, circ.RecycledContent)
	row(&b, "Reuse potential (%)", conv.ReusePotential, circ.ReusePotential)
	fmt.Fprintf(&b, "| End-of-life route | %s | %s |\n\n", conv.EndOfLife, circ.EndOfLife)

	imp := a.Results.Improvements
	b.WriteString("## Circular Economy Benefits\n\n")
	fmt.Fprintf(&b, "- CO2 reduction: %s%%\n", num(imp.CO2ReductionPercent))
	fmt.Fprintf(&b, "- Circularity increase: +%s percentage points\n", num(imp.CircularityIncrease))
	fmt.Fprintf(&b, "- Reuse improvement: +%s percentage points\n", num(imp.ReuseImprovement))
	if !r.Equivalency.IsEmpty {
		fmt.Fprintf(&b, "- For %s %s: %s kg CO2e avoided. %s\n",
			num(r.Mass), r.MassUnit, num(r.Equivalency.SavedKg), r.Equivalency.DisplayText)
	}
	b.WriteString("\n")

	if len(r.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func row(b *strings.Builder, label string, conv, circ float64) {
	fmt.Fprintf(b, "| %s | %s | %s |\n", label, num(conv), num(circ))
}

func num(v float64) string {
	return greenops.FormatFloat(v, numberPrecision)
}

func sourceLabel(s lca.Source) string {
	if s == lca.SourceEstimated {
		return "estimated"
	}
	return "user supplied"
}
