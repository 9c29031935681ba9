package lca

// Estimation constants.
const (
	// DefaultJitter is the half-width of the multiplicative jitter band
	// applied to estimated values: a factor drawn from [1-j, 1+j).
	DefaultJitter = 0.1

	// MaxJitter bounds the configurable jitter. Estimates never leave the
	// ±10% band around the table default; a smaller jitter narrows it.
	MaxJitter = DefaultJitter
)

// Presentation constants.
const (
	// co2Decimals is the precision of reported CO2e values.
	co2Decimals = 2

	// percentMax is the upper bound of percentage indicators.
	percentMax = 100.0
)
