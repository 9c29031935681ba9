// Package greenops turns CO2e savings into relatable real-world equivalencies.
//
// A per-kg saving between two production pathways is scaled by a production
// mass and expressed as miles driven, smartphones charged, tree seedlings
// grown and days of home electricity, using EPA conversion factors.
package greenops

import "fmt"

// EquivalencyType is a category of carbon equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings is tree seedlings grown for 10 years.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays is days of average US home electricity use.
	EquivalencyHomeDays
)

// String returns the name of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	case EquivalencyHomeDays:
		return "HomeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// SavingsInput describes a per-kg CO2e saving applied to a production quantity.
type SavingsInput struct {
	// PerKgCO2e is the saving in kg CO2e per kg of metal.
	PerKgCO2e float64 `json:"per_kg_co2e"`

	// Mass is the production quantity.
	Mass float64 `json:"mass"`

	// MassUnit is one of g, kg, t, lb.
	MassUnit string `json:"mass_unit"`
}

// EquivalencyResult is a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput holds every equivalency for one saving.
type EquivalencyOutput struct {
	// MassKg is the production quantity in kilograms.
	MassKg float64 `json:"mass_kg"`

	// SavedKg is the total saving in kg CO2e.
	SavedKg float64 `json:"saved_kg"`

	// Results in display priority order.
	Results []EquivalencyResult `json:"results"`

	// DisplayText, e.g. "Saves the equivalent of driving ~781 miles or charging ~18,248 smartphones".
	DisplayText string `json:"display_text"`

	// CompactText, e.g. "(≈ 781 mi, 18,248 phones)".
	CompactText string `json:"compact_text"`

	IsEmpty bool `json:"is_empty"`
}
