package greenops

import (
	"fmt"
	"math"
)

// equivalencyDef pairs a type with its EPA factor and label.
type equivalencyDef struct {
	kind   EquivalencyType
	factor float64
	label  string
}

//nolint:gochecknoglobals // Read-only lookup table.
var equivalencyDefs = []equivalencyDef{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity"},
}

// CalculateSavings scales a per-kg saving by the production mass and returns
// its equivalencies.
//
// A non-positive per-kg saving (the circular pathway is no better) or a total
// below MinEquivalencyThresholdKg returns an empty output and no error.
func CalculateSavings(input SavingsInput) (EquivalencyOutput, error) {
	massKg, err := MassToKg(input.Mass, input.MassUnit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if math.IsInf(input.PerKgCO2e, 0) || math.IsNaN(input.PerKgCO2e) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if input.PerKgCO2e <= 0 {
		return EquivalencyOutput{MassKg: massKg, IsEmpty: true}, nil
	}

	out, err := Calculate(input.PerKgCO2e * massKg)
	out.MassKg = massKg
	return out, err
}

// Calculate returns the equivalencies of savedKg kilograms of CO2e.
func Calculate(savedKg float64) (EquivalencyOutput, error) {
	if math.IsInf(savedKg, 0) || math.IsNaN(savedKg) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if savedKg < 0 {
		return EquivalencyOutput{IsEmpty: true}, ErrNegativeValue
	}
	if savedKg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{SavedKg: savedKg, IsEmpty: true}, nil
	}

	results := make([]EquivalencyResult, 0, len(equivalencyDefs))
	for _, def := range equivalencyDefs {
		v := savedKg / def.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
		results = append(results, EquivalencyResult{
			Type:           def.kind,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          def.label,
		})
	}

	miles, phones := results[0].FormattedValue, results[1].FormattedValue
	return EquivalencyOutput{
		SavedKg:     savedKg,
		Results:     results,
		DisplayText: fmt.Sprintf("Saves the equivalent of driving ~%s miles or charging ~%s smartphones", miles, phones),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", miles, phones),
	}, nil
}

// Find returns the result of the given type, if present.
func (o EquivalencyOutput) Find(kind EquivalencyType) (EquivalencyResult, bool) {
	for _, r := range o.Results {
		if r.Type == kind {
			return r, true
		}
	}
	return EquivalencyResult{}, false
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
