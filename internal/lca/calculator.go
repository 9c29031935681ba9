package lca

import (
	"errors"
	"math"
)

// Calculator computes the conventional and circular pathway results for an
// EnhancedRecord. It holds no mutable state.
type Calculator struct {
	tables *Tables
}

// NewCalculator creates a Calculator over the given tables.
func NewCalculator(tables *Tables) *Calculator {
	return &Calculator{tables: tables}
}

// pathwayInput is the set of values one pathway is computed from.
type pathwayInput struct {
	kind      PathwayKind
	metal     Metal
	route     Route
	endOfLife EndOfLife
	energy    float64
	distance  float64
}

// Calculate returns both pathway results and the improvement metrics.
//
// The conventional pathway is always the raw route with landfill disposal,
// and the circular pathway always the recycled route, whatever the record's
// own production route. The circular pathway keeps reuse when the record
// asks for it and uses recycling otherwise; its energy use and transport
// distance are scaled by the table's circular factors.
//
// A zero conventional CO2e reports a reduction of 0 rather than failing.
func (c *Calculator) Calculate(e EnhancedRecord) (Comparison, error) {
	if err := validateEnums(e.Metal, e.ProductionRoute, e.EndOfLife); err != nil {
		return Comparison{}, err
	}
	if err := validateQuantity(FieldEnergyUse, e.EnergyUse); err != nil {
		return Comparison{}, err
	}
	if err := validateQuantity(FieldTransportDistance, e.TransportDistance); err != nil {
		return Comparison{}, err
	}

	circularEOL := EndOfLifeRecycle
	if e.EndOfLife == EndOfLifeReuse {
		circularEOL = EndOfLifeReuse
	}
	scaling := c.tables.Circular()

	conventional, err := c.pathway(pathwayInput{
		kind:      PathwayConventional,
		metal:     e.Metal,
		route:     RouteRaw,
		endOfLife: EndOfLifeLandfill,
		energy:    e.EnergyUse,
		distance:  e.TransportDistance,
	})
	if err != nil {
		return Comparison{}, err
	}

	circular, err := c.pathway(pathwayInput{
		kind:      PathwayCircular,
		metal:     e.Metal,
		route:     RouteRecycled,
		endOfLife: circularEOL,
		energy:    e.EnergyUse * scaling.EnergyScale,
		distance:  e.TransportDistance * scaling.TransportScale,
	})
	if err != nil {
		return Comparison{}, err
	}

	reduction, err := ReductionPercent(conventional.CO2Equivalent, circular.CO2Equivalent)
	if errors.Is(err, ErrDivisionByZero) {
		reduction = 0
	}

	return Comparison{
		Conventional: conventional,
		Circular:     circular,
		Improvements: Improvements{
			CO2ReductionPercent: math.Max(0, reduction),
			CircularityIncrease: circular.RecycledContent - conventional.RecycledContent,
			ReuseImprovement:    circular.ReusePotential - conventional.ReusePotential,
		},
	}, nil
}

// pathway computes CO2e per kg of metal for a single route:
//
//	production + energy*energyFactor + distance*transportFactor + production*eolFactor*eolScale
func (c *Calculator) pathway(in pathwayInput) (PathwayResult, error) {
	factor, err := c.tables.Factor(in.metal, in.route)
	if err != nil {
		return PathwayResult{}, err
	}
	profile, err := c.tables.Route(in.route)
	if err != nil {
		return PathwayResult{}, err
	}
	eolFactor, err := c.tables.EndOfLifeFactor(in.endOfLife)
	if err != nil {
		return PathwayResult{}, err
	}
	conv := c.tables.Conversion()

	breakdown := Breakdown{
		Production: factor.CO2PerKg,
		Energy:     in.energy * conv.EnergyKgCO2ePerKWh,
		Transport:  in.distance * conv.TransportKgCO2ePerKm,
		EndOfLife:  factor.CO2PerKg * eolFactor * conv.EndOfLifeScale,
	}
	total := breakdown.Production + breakdown.Energy + breakdown.Transport + breakdown.EndOfLife

	reuse := profile.ReusePotential
	if in.endOfLife == EndOfLifeReuse {
		reuse = profile.ReusePotentialOnReuse
	}

	return PathwayResult{
		Name:               in.kind.DisplayName(),
		Kind:               in.kind,
		Route:              in.route,
		EndOfLife:          in.endOfLife,
		CO2Equivalent:      round(total, co2Decimals),
		RecycledContent:    profile.RecycledContent,
		ReusePotential:     reuse,
		EnergyConsumed:     in.energy,
		TransportDistance:  in.distance,
		TransportEmissions: breakdown.Transport,
		EndOfLifeImpact:    breakdown.EndOfLife,
		Breakdown:          breakdown,
	}, nil
}

// ReductionPercent returns (conventional - circular) / conventional * 100.
// A zero conventional value returns 0 and a *DivisionError.
func ReductionPercent(conventional, circular float64) (float64, error) {
	if conventional == 0 {
		return 0, &DivisionError{Quantity: "co2 reduction percent"}
	}
	return (conventional - circular) / conventional * percentMax, nil
}

func round(v float64, decimals int) float64 {
	const base = 10
	m := math.Pow(base, float64(decimals))
	return math.Round(v*m) / m
}
