package greenops

import (
	"math"
	"strings"
)

// massUnitFactor returns the kilogram factor for a case-insensitive mass unit.
func massUnitFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g":
		return GramsToKg, true
	case "", "kg":
		return KgToKg, true
	case "t", "tonne", "tonnes":
		return TonnesToKg, true
	case "lb", "lbs":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// MassToKg converts a production quantity to kilograms. An empty unit means kg.
func MassToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}
	factor, ok := massUnitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	kg := value * factor
	if math.IsInf(kg, 0) {
		return 0, ErrCalculationOverflow
	}
	return kg, nil
}

// IsRecognizedMassUnit reports whether unit is accepted by MassToKg.
func IsRecognizedMassUnit(unit string) bool {
	_, ok := massUnitFactor(unit)
	return ok
}
