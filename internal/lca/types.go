// Package lca estimates life cycle impact metrics for metal production.
//
// It compares a conventional (primary, raw-material) pathway against a
// circular (secondary, recycled-material) pathway using static industry
// average emission factors. The package is a two-step pipeline:
//
//	input -> Estimator.Enhance -> EnhancedRecord -> Calculator.Calculate -> Comparison
//
// Both steps read the same immutable Tables, which are loaded once and
// injected into each component.
package lca

import (
	"fmt"
	"strings"
)

// Metal identifies the metal being produced.
type Metal string

// Supported metals.
const (
	MetalAluminium Metal = "aluminium"
	MetalCopper    Metal = "copper"
	MetalSteel     Metal = "steel"
	MetalOther     Metal = "other"
)

// Metals returns all supported metals in display order.
func Metals() []Metal {
	return []Metal{MetalAluminium, MetalCopper, MetalSteel, MetalOther}
}

// Valid reports whether m is a supported metal.
func (m Metal) Valid() bool {
	switch m {
	case MetalAluminium, MetalCopper, MetalSteel, MetalOther:
		return true
	default:
		return false
	}
}

// ParseMetal converts a case-insensitive string into a Metal.
// "aluminum" is accepted as an alias for aluminium.
func ParseMetal(s string) (Metal, error) {
	m := normalizeMetal(s)
	if !m.Valid() {
		return "", &ValidationError{Field: FieldMetal, Value: s, Err: ErrUnknownMetal}
	}
	return m, nil
}

func normalizeMetal(s string) Metal {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "aluminum" {
		v = string(MetalAluminium)
	}
	return Metal(v)
}

// UnmarshalText accepts the same spellings as ParseMetal. Unsupported
// values are kept as written and rejected when the record is validated.
func (m *Metal) UnmarshalText(text []byte) error {
	*m = Metal(normalizeText(string(text), func(s string) (string, bool) {
		v := normalizeMetal(s)
		return string(v), v.Valid()
	}))
	return nil
}

// Route identifies a production route.
type Route string

// Supported production routes.
const (
	RouteRaw      Route = "raw"
	RouteRecycled Route = "recycled"
)

// Routes returns all supported routes, conventional first.
func Routes() []Route {
	return []Route{RouteRaw, RouteRecycled}
}

// Valid reports whether r is a supported route.
func (r Route) Valid() bool {
	return r == RouteRaw || r == RouteRecycled
}

// ParseRoute converts a case-insensitive string into a Route.
func ParseRoute(s string) (Route, error) {
	r := Route(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", &ValidationError{Field: FieldProductionRoute, Value: s, Err: ErrUnknownRoute}
	}
	return r, nil
}

// UnmarshalText accepts the same spellings as ParseRoute. Unsupported
// values are kept as written and rejected when the record is validated.
func (r *Route) UnmarshalText(text []byte) error {
	*r = Route(normalizeText(string(text), func(s string) (string, bool) {
		v := Route(strings.ToLower(strings.TrimSpace(s)))
		return string(v), v.Valid()
	}))
	return nil
}

// EndOfLife identifies the disposal or recovery option applied after use.
type EndOfLife string

// Supported end-of-life options.
const (
	EndOfLifeReuse    EndOfLife = "reuse"
	EndOfLifeRecycle  EndOfLife = "recycle"
	EndOfLifeLandfill EndOfLife = "landfill"
)

// EndOfLifeOptions returns all supported end-of-life options.
func EndOfLifeOptions() []EndOfLife {
	return []EndOfLife{EndOfLifeReuse, EndOfLifeRecycle, EndOfLifeLandfill}
}

// Valid reports whether e is a supported end-of-life option.
func (e EndOfLife) Valid() bool {
	switch e {
	case EndOfLifeReuse, EndOfLifeRecycle, EndOfLifeLandfill:
		return true
	default:
		return false
	}
}

// ParseEndOfLife converts a case-insensitive string into an EndOfLife.
func ParseEndOfLife(s string) (EndOfLife, error) {
	e := EndOfLife(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", &ValidationError{Field: FieldEndOfLife, Value: s, Err: ErrUnknownEndOfLife}
	}
	return e, nil
}

// UnmarshalText accepts the same spellings as ParseEndOfLife. Unsupported
// values are kept as written and rejected when the record is validated.
func (e *EndOfLife) UnmarshalText(text []byte) error {
	*e = EndOfLife(normalizeText(string(text), func(s string) (string, bool) {
		v := EndOfLife(strings.ToLower(strings.TrimSpace(s)))
		return string(v), v.Valid()
	}))
	return nil
}

// normalizeText returns the canonical form of s when it names a supported
// value, otherwise s unchanged.
func normalizeText(s string, canonical func(string) (string, bool)) string {
	if v, ok := canonical(s); ok {
		return v
	}
	return s
}

// Field names as they appear in request and response payloads.
const (
	FieldMetal             = "metal"
	FieldProductionRoute   = "productionRoute"
	FieldEnergyUse         = "energyUse"
	FieldTransportDistance = "transportDistance"
	FieldEndOfLife         = "endOfLife"
)

// InputRecord is a partial assessment request.
// A nil EnergyUse or TransportDistance means the caller left it unset.
type InputRecord struct {
	Metal             Metal     `json:"metal" yaml:"metal"`
	ProductionRoute   Route     `json:"productionRoute" yaml:"productionRoute"`
	EnergyUse         *float64  `json:"energyUse,omitempty" yaml:"energyUse,omitempty"`                 // kWh/kg
	TransportDistance *float64  `json:"transportDistance,omitempty" yaml:"transportDistance,omitempty"` // km
	EndOfLife         EndOfLife `json:"endOfLife" yaml:"endOfLife"`
}

// Float returns a pointer to v, for building InputRecords.
func Float(v float64) *float64 {
	return &v
}

// Source records where a value in an EnhancedRecord came from.
type Source string

// Value sources.
const (
	SourceUserSupplied Source = "user_supplied"
	SourceEstimated    Source = "estimated"
)

// FieldSources flags each numeric field of an EnhancedRecord.
type FieldSources struct {
	EnergyUse         Source `json:"energyUse"`
	TransportDistance Source `json:"transportDistance"`
	ProcessEfficiency Source `json:"processEfficiency"`
	MaterialPurity    Source `json:"materialPurity"`
	WaterUsage        Source `json:"waterUsage"`
	WasteRate         Source `json:"wasteRate"`
}

// EnhancedRecord is an InputRecord with every numeric field populated and
// the derived process parameters attached.
type EnhancedRecord struct {
	Metal             Metal     `json:"metal"`
	ProductionRoute   Route     `json:"productionRoute"`
	EnergyUse         float64   `json:"energyUse"`         // kWh/kg
	TransportDistance float64   `json:"transportDistance"` // km
	EndOfLife         EndOfLife `json:"endOfLife"`

	ProcessEfficiency float64 `json:"processEfficiency"` // 0-1
	MaterialPurity    float64 `json:"materialPurity"`    // 0-1
	WaterUsage        float64 `json:"waterUsage"`        // L/kg
	WasteRate         float64 `json:"wasteRate"`         // 0-1

	Sources FieldSources `json:"sources"`
}

// EstimatedFields returns the payload names of the fields that were not
// supplied by the caller, in a stable order.
func (e EnhancedRecord) EstimatedFields() []string {
	var fields []string
	if e.Sources.EnergyUse == SourceEstimated {
		fields = append(fields, FieldEnergyUse)
	}
	if e.Sources.TransportDistance == SourceEstimated {
		fields = append(fields, FieldTransportDistance)
	}
	return fields
}

// PathwayKind names one side of the comparison.
type PathwayKind string

// Pathway kinds.
const (
	PathwayConventional PathwayKind = "conventional"
	PathwayCircular     PathwayKind = "circular"
)

// DisplayName returns the human-readable pathway name.
func (k PathwayKind) DisplayName() string {
	switch k {
	case PathwayConventional:
		return "Conventional Pathway"
	case PathwayCircular:
		return "Circular Pathway"
	default:
		return fmt.Sprintf("PathwayKind(%s)", string(k))
	}
}

// Breakdown splits a pathway's CO2e into its contributing terms (kg CO2e/kg).
type Breakdown struct {
	Production float64 `json:"production"`
	Energy     float64 `json:"energy"`
	Transport  float64 `json:"transport"`
	EndOfLife  float64 `json:"end_of_life"`
}

// PathwayResult is the impact of one production pathway per kg of metal.
type PathwayResult struct {
	Name               string      `json:"name"`
	Kind               PathwayKind `json:"kind"`
	Route              Route       `json:"route"`
	EndOfLife          EndOfLife   `json:"end_of_life"`
	CO2Equivalent      float64     `json:"co2_equivalent"`      // kg CO2e/kg, rounded to 2 decimals
	RecycledContent    float64     `json:"recycled_content"`    // %
	ReusePotential     float64     `json:"reuse_potential"`     // %
	EnergyConsumed     float64     `json:"energy_consumed"`     // kWh/kg
	TransportDistance  float64     `json:"transport_distance"`  // km
	TransportEmissions float64     `json:"transport_emissions"` // kg CO2e/kg
	EndOfLifeImpact    float64     `json:"end_of_life_impact"`  // kg CO2e/kg
	Breakdown          Breakdown   `json:"breakdown"`
}

// Improvements summarizes how the circular pathway compares to the conventional one.
type Improvements struct {
	CO2ReductionPercent float64 `json:"co2_reduction_percent"`
	CircularityIncrease float64 `json:"circularity_increase"` // percentage points of recycled content
	ReuseImprovement    float64 `json:"reuse_improvement"`    // percentage points of reuse potential
}

// Comparison holds both pathway results, always produced together.
type Comparison struct {
	Conventional PathwayResult `json:"conventional"`
	Circular     PathwayResult `json:"circular"`
	Improvements Improvements  `json:"improvements"`
}

// Pathways returns the two results in display order.
func (c Comparison) Pathways() []PathwayResult {
	return []PathwayResult{c.Conventional, c.Circular}
}

// Assessment is the full outcome of one request.
type Assessment struct {
	Input    InputRecord    `json:"input"`
	Enhanced EnhancedRecord `json:"enhanced_data"`
	Results  Comparison     `json:"results"`
}
