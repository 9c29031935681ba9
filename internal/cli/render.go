package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rshade/metallca/internal/greenops"
	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/internal/report"
)

// Layout constants for styled output.
const (
	defaultBoxWidth     = 72
	minBoxWidth         = 48
	boxPaddingWidth     = 4
	narrowTerminalWidth = 60
	layoutWidthPercent  = 0.8
	tabPadding          = 2
)

func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }
func boxTitleColor() lipgloss.Color  { return lipgloss.Color("39") }
func goodColor() lipgloss.Color      { return lipgloss.Color("42") }
func warnColor() lipgloss.Color      { return lipgloss.Color("214") }
func mutedColor() lipgloss.Color     { return lipgloss.Color("246") }

// comparisonRow is one line of the pathway comparison table.
type comparisonRow struct {
	label      string
	conv, circ float64
}

func comparisonRows(c lca.Comparison) []comparisonRow {
	conv, circ := c.Conventional, c.Circular
	return []comparisonRow{
		{"CO2e (kg/kg)", conv.CO2Equivalent, circ.CO2Equivalent},
		{"Energy consumed (kWh/kg)", conv.EnergyConsumed, circ.EnergyConsumed},
		{"Transport distance (km)", conv.TransportDistance, circ.TransportDistance},
		{"Transport emissions (kg/kg)", conv.TransportEmissions, circ.TransportEmissions},
		{"End-of-life impact (kg/kg)", conv.EndOfLifeImpact, circ.EndOfLifeImpact},
		{"Recycled content (%)", conv.RecycledContent, circ.RecycledContent},
		{"Reuse potential (%)", conv.ReusePotential, circ.ReusePotential},
	}
}

// RenderAssessment writes the comparison in rep to w: a styled box on a
// terminal, aligned plain text otherwise.
func RenderAssessment(w io.Writer, rep *report.Report, precision int) error {
	if rep == nil {
		return nil
	}
	if isWriterTerminal(w) {
		return renderStyledAssessment(w, rep, precision)
	}
	return renderPlainAssessment(w, rep, precision)
}

// isWriterTerminal reports whether w is an *os.File attached to a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

func renderPlainAssessment(w io.Writer, rep *report.Report, precision int) error {
	a := rep.Assessment
	e := a.Enhanced

	var b strings.Builder
	fmt.Fprintf(&b, "LCA ASSESSMENT: %s (%s route, end of life: %s)\n", e.Metal, e.ProductionRoute, e.EndOfLife)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	tw := tabwriter.NewWriter(&b, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "METRIC\t%s\t%s\n", strings.ToUpper(a.Results.Conventional.Name), strings.ToUpper(a.Results.Circular.Name))
	for _, row := range comparisonRows(a.Results) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.label,
			greenops.FormatFloat(row.conv, precision), greenops.FormatFloat(row.circ, precision))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b.WriteString("\n")
	writeSummary(&b, rep, precision, func(s string) string { return s })

	_, err := io.WriteString(w, b.String())
	return err
}

func renderStyledAssessment(w io.Writer, rep *report.Report, precision int) error {
	boxWidth := calculateBoxWidth(getTerminalWidth(w))
	a := rep.Assessment
	e := a.Enhanced

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(boxTitleColor())
	labelStyle := lipgloss.NewStyle().Width(30)
	valueStyle := lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
	circStyle := valueStyle.Foreground(goodColor())
	mutedStyle := lipgloss.NewStyle().Italic(true).Foreground(mutedColor())
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(boxWidth)

	var content strings.Builder
	content.WriteString(titleStyle.Render(fmt.Sprintf("LCA ASSESSMENT: %s", strings.ToUpper(string(e.Metal)))))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render(fmt.Sprintf("%s route, end of life: %s", e.ProductionRoute, e.EndOfLife)))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", boxWidth-boxPaddingWidth))
	content.WriteString("\n")

	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(""),
		valueStyle.Render("Conventional"),
		valueStyle.Render("Circular")))
	content.WriteString("\n")
	for _, row := range comparisonRows(a.Results) {
		content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(row.label),
			valueStyle.Render(greenops.FormatFloat(row.conv, precision)),
			circStyle.Render(greenops.FormatFloat(row.circ, precision))))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	reduction := lipgloss.NewStyle().Bold(true).Foreground(goodColor())
	if a.Results.Improvements.CO2ReductionPercent == 0 {
		reduction = reduction.Foreground(warnColor())
	}
	writeSummary(&content, rep, precision, func(s string) string { return reduction.Render(s) })

	_, err := fmt.Fprintln(w, borderStyle.Render(strings.TrimRight(content.String(), "\n")))
	return err
}

// writeSummary writes improvements, estimated fields, savings and
// recommendations. highlight styles the headline reduction.
func writeSummary(b *strings.Builder, rep *report.Report, precision int, highlight func(string) string) {
	a := rep.Assessment
	imp := a.Results.Improvements

	b.WriteString(highlight(fmt.Sprintf("CO2 reduction: %s%%", greenops.FormatFloat(imp.CO2ReductionPercent, precision))))
	b.WriteString("\n")
	fmt.Fprintf(b, "Circularity increase: +%s percentage points\n", greenops.FormatFloat(imp.CircularityIncrease, precision))
	fmt.Fprintf(b, "Reuse improvement: +%s percentage points\n", greenops.FormatFloat(imp.ReuseImprovement, precision))

	if estimated := a.Enhanced.EstimatedFields(); len(estimated) > 0 {
		fmt.Fprintf(b, "Estimated from reference tables: %s\n", strings.Join(estimated, ", "))
	}
	if !rep.Equivalency.IsEmpty {
		fmt.Fprintf(b, "Savings for %s %s: %s kg CO2e %s\n",
			greenops.FormatFloat(rep.Mass, precision), rep.MassUnit,
			greenops.FormatFloat(rep.Equivalency.SavedKg, precision), rep.Equivalency.CompactText)
	}

	if len(rep.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range rep.Recommendations {
			fmt.Fprintf(b, "  - %s\n", rec)
		}
	}
}

// getTerminalWidth returns the width of w (or stdout) if it is a terminal.
func getTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultBoxWidth + boxPaddingWidth
	}
	return width
}

// calculateBoxWidth uses ~80% of the terminal, clamped to [minBoxWidth, defaultBoxWidth].
func calculateBoxWidth(termWidth int) int {
	if termWidth < narrowTerminalWidth {
		return minBoxWidth
	}
	boxWidth := int(float64(termWidth) * layoutWidthPercent)
	return max(min(boxWidth, defaultBoxWidth), minBoxWidth)
}
