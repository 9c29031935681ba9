package lca

import "fmt"

// Recommendation thresholds.
const (
	highEnergyUseKWh      = 10.0
	longTransportDistance = 500.0
)

// Recommend returns rule-based improvement suggestions for an assessed record.
// Route and end-of-life rules come first, then energy and logistics, then
// general circular economy measures.
func Recommend(e EnhancedRecord) []string {
	var recs []string

	if e.ProductionRoute == RouteRaw {
		recs = append(recs, fmt.Sprintf(
			"Consider transitioning to recycled %s production to reduce environmental impact by up to 60-80%%", e.Metal))
	}

	switch e.EndOfLife {
	case EndOfLifeLandfill:
		recs = append(recs, "Implement reuse or recycling programs instead of landfill disposal")
	case EndOfLifeRecycle:
		recs = append(recs, "Explore direct reuse opportunities to further minimize environmental impact")
	case EndOfLifeReuse:
	}

	if e.EnergyUse > highEnergyUseKWh {
		recs = append(recs, "Investigate energy efficiency improvements and renewable energy sources")
	}
	if e.TransportDistance > longTransportDistance {
		recs = append(recs, "Optimize supply chain logistics to reduce transport distances")
	}

	return append(recs,
		fmt.Sprintf("Develop partnerships with %s recyclers and reprocessors", e.Metal),
		"Implement design for circularity principles in product development",
		"Consider industrial symbiosis opportunities with other manufacturers",
	)
}
