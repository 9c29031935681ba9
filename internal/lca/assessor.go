package lca

import (
	"context"

	"github.com/rs/zerolog"
)

// Assessor runs the estimator and calculator as one request.
type Assessor struct {
	estimator  *Estimator
	calculator *Calculator
}

// NewAssessor wires an Estimator and a Calculator. Both should share the same Tables.
func NewAssessor(estimator *Estimator, calculator *Calculator) *Assessor {
	return &Assessor{estimator: estimator, calculator: calculator}
}

// NewDefaultAssessor builds an Assessor over tables with the given estimator options.
func NewDefaultAssessor(tables *Tables, opts ...EstimatorOption) *Assessor {
	return NewAssessor(NewEstimator(tables, opts...), NewCalculator(tables))
}

// Assess enhances input and calculates both pathways. On error no partial
// assessment is returned.
func (a *Assessor) Assess(ctx context.Context, input InputRecord) (*Assessment, error) {
	logger := zerolog.Ctx(ctx)

	enhanced, err := a.estimator.Enhance(input)
	if err != nil {
		logger.Debug().
			Str("component", "lca").
			Str("kind", ErrorKind(err)).
			Err(err).
			Msg("input rejected")
		return nil, err
	}

	if estimated := enhanced.EstimatedFields(); len(estimated) > 0 {
		logger.Debug().
			Str("component", "lca").
			Strs("estimated_fields", estimated).
			Float64("energy_use", enhanced.EnergyUse).
			Float64("transport_distance", enhanced.TransportDistance).
			Msg("filled missing parameters from reference tables")
	}

	results, err := a.calculator.Calculate(enhanced)
	if err != nil {
		return nil, err
	}

	if results.Conventional.CO2Equivalent == 0 {
		logger.Warn().
			Str("component", "lca").
			Str("metal", string(enhanced.Metal)).
			Msg("conventional pathway has zero impact, reporting zero reduction")
	}

	logger.Debug().
		Str("component", "lca").
		Str("metal", string(enhanced.Metal)).
		Float64("conventional_co2e", results.Conventional.CO2Equivalent).
		Float64("circular_co2e", results.Circular.CO2Equivalent).
		Float64("reduction_percent", results.Improvements.CO2ReductionPercent).
		Msg("assessment complete")

	return &Assessment{
		Input:    input,
		Enhanced: enhanced,
		Results:  results,
	}, nil
}
