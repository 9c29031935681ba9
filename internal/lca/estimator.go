package lca

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
)

// RandomSource supplies uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSeededSource returns a deterministic RandomSource for the given seed.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Estimator fills missing input fields with jittered table defaults and
// attaches the derived process parameters.
//
// An Estimator is safe for concurrent use; draws from its RandomSource are
// serialized.
type Estimator struct {
	tables        *Tables
	jitter        float64
	derivedJitter bool

	mu  sync.Mutex
	src RandomSource
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithRandomSource sets the jitter source. Use NewSeededSource for
// reproducible estimates.
func WithRandomSource(src RandomSource) EstimatorOption {
	return func(e *Estimator) {
		if src != nil {
			e.src = src
		}
	}
}

// WithJitter sets the half-width of the jitter band. Values outside
// [0, MaxJitter] are clamped.
func WithJitter(fraction float64) EstimatorOption {
	return func(e *Estimator) {
		e.jitter = math.Min(math.Max(fraction, 0), MaxJitter)
	}
}

// WithDerivedJitter applies the jitter band to the derived process
// parameters as well. By default they are the exact table values.
func WithDerivedJitter(enabled bool) EstimatorOption {
	return func(e *Estimator) {
		e.derivedJitter = enabled
	}
}

// NewEstimator creates an Estimator over the given tables. Without
// WithRandomSource it draws from a freshly seeded generator.
func NewEstimator(tables *Tables, opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		tables: tables,
		jitter: DefaultJitter,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Jitter returns the configured jitter half-width.
func (e *Estimator) Jitter() float64 {
	return e.jitter
}

// Enhance validates input and returns a fully populated EnhancedRecord.
//
// Omitted EnergyUse and TransportDistance are replaced by the (metal, route)
// table default times a factor in [1-jitter, 1+jitter) and flagged
// SourceEstimated. Supplied values must be finite and non-negative and are
// passed through unchanged. Only a *ValidationError is ever returned.
func (e *Estimator) Enhance(input InputRecord) (EnhancedRecord, error) {
	if err := validateEnums(input.Metal, input.ProductionRoute, input.EndOfLife); err != nil {
		return EnhancedRecord{}, err
	}

	factor, err := e.tables.Factor(input.Metal, input.ProductionRoute)
	if err != nil {
		return EnhancedRecord{}, err
	}
	profile, err := e.tables.Route(input.ProductionRoute)
	if err != nil {
		return EnhancedRecord{}, err
	}
	purity, err := e.tables.MaterialPurity(input.Metal)
	if err != nil {
		return EnhancedRecord{}, err
	}

	out := EnhancedRecord{
		Metal:           input.Metal,
		ProductionRoute: input.ProductionRoute,
		EndOfLife:       input.EndOfLife,
		Sources: FieldSources{
			ProcessEfficiency: SourceEstimated,
			MaterialPurity:    SourceEstimated,
			WaterUsage:        SourceEstimated,
			WasteRate:         SourceEstimated,
		},
	}

	out.EnergyUse, out.Sources.EnergyUse, err = e.resolve(FieldEnergyUse, input.EnergyUse, factor.EnergyUse)
	if err != nil {
		return EnhancedRecord{}, err
	}
	out.TransportDistance, out.Sources.TransportDistance, err = e.resolve(
		FieldTransportDistance, input.TransportDistance, factor.TransportDistance)
	if err != nil {
		return EnhancedRecord{}, err
	}

	out.ProcessEfficiency = clampFraction(e.derive(profile.ProcessEfficiency))
	out.MaterialPurity = math.Min(e.tables.MaxMaterialPurity(), clampFraction(e.derive(purity)))
	out.WasteRate = clampFraction(e.derive(profile.WasteRate))
	out.WaterUsage = e.derive(factor.WaterUsage)

	return out, nil
}

// resolve returns the supplied value or a jittered estimate of base.
func (e *Estimator) resolve(field string, supplied *float64, base float64) (float64, Source, error) {
	if supplied == nil {
		return base * e.factor(), SourceEstimated, nil
	}
	if err := validateQuantity(field, *supplied); err != nil {
		return 0, "", err
	}
	return *supplied, SourceUserSupplied, nil
}

func (e *Estimator) derive(base float64) float64 {
	if !e.derivedJitter {
		return base
	}
	return base * e.factor()
}

// factor draws a multiplier in [1-jitter, 1+jitter).
func (e *Estimator) factor() float64 {
	if e.jitter == 0 {
		return 1
	}
	e.mu.Lock()
	u := e.src.Float64()
	e.mu.Unlock()
	return 1 - e.jitter + 2*e.jitter*u
}

func validateEnums(metal Metal, route Route, eol EndOfLife) error {
	if !metal.Valid() {
		return &ValidationError{Field: FieldMetal, Value: string(metal), Err: ErrUnknownMetal}
	}
	if !route.Valid() {
		return &ValidationError{Field: FieldProductionRoute, Value: string(route), Err: ErrUnknownRoute}
	}
	if !eol.Valid() {
		return &ValidationError{Field: FieldEndOfLife, Value: string(eol), Err: ErrUnknownEndOfLife}
	}
	return nil
}

func validateQuantity(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: fmt.Sprint(v), Err: ErrNonFiniteValue}
	}
	if v < 0 {
		return &ValidationError{Field: field, Value: strconv.FormatFloat(v, 'g', -1, 64), Err: ErrNegativeValue}
	}
	return nil
}

func clampFraction(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
