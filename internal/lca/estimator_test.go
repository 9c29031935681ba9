package lca

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always returns the same draw.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func defaultTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := DefaultTables()
	require.NoError(t, err)
	return tables
}

func TestEnhance_SuppliedValuesPassThrough(t *testing.T) {
	est := NewEstimator(defaultTables(t), WithRandomSource(fixedSource(0.99)))

	got, err := est.Enhance(InputRecord{
		Metal:             MetalCopper,
		ProductionRoute:   RouteRaw,
		EnergyUse:         Float(7.25),
		TransportDistance: Float(0),
		EndOfLife:         EndOfLifeLandfill,
	})
	require.NoError(t, err)

	assert.Equal(t, 7.25, got.EnergyUse)
	assert.Equal(t, 0.0, got.TransportDistance)
	assert.Equal(t, SourceUserSupplied, got.Sources.EnergyUse)
	assert.Equal(t, SourceUserSupplied, got.Sources.TransportDistance)
	assert.Empty(t, got.EstimatedFields())
}

func TestEnhance_EstimatesMissingFields(t *testing.T) {
	tests := []struct {
		name       string
		draw       float64
		wantEnergy float64
		wantDist   float64
	}{
		{name: "midpoint draw yields table default", draw: 0.5, wantEnergy: 3.2, wantDist: 150},
		{name: "lowest draw yields 90 percent", draw: 0, wantEnergy: 3.2 * 0.9, wantDist: 150 * 0.9},
		{name: "high draw stays below 110 percent", draw: 0.999, wantEnergy: 3.2 * 1.0998, wantDist: 150 * 1.0998},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := NewEstimator(defaultTables(t), WithRandomSource(fixedSource(tt.draw)))

			got, err := est.Enhance(InputRecord{
				Metal:           MetalAluminium,
				ProductionRoute: RouteRecycled,
				EndOfLife:       EndOfLifeRecycle,
			})
			require.NoError(t, err)

			assert.InDelta(t, tt.wantEnergy, got.EnergyUse, 1e-9)
			assert.InDelta(t, tt.wantDist, got.TransportDistance, 1e-9)
			assert.Equal(t, SourceEstimated, got.Sources.EnergyUse)
			assert.Equal(t, SourceEstimated, got.Sources.TransportDistance)
			assert.Equal(t, []string{FieldEnergyUse, FieldTransportDistance}, got.EstimatedFields())
		})
	}
}

func TestEnhance_DerivedParameters(t *testing.T) {
	est := NewEstimator(defaultTables(t), WithRandomSource(fixedSource(0.1)))

	raw, err := est.Enhance(InputRecord{Metal: MetalSteel, ProductionRoute: RouteRaw, EndOfLife: EndOfLifeRecycle})
	require.NoError(t, err)
	assert.Equal(t, 0.75, raw.ProcessEfficiency)
	assert.Equal(t, 0.92, raw.MaterialPurity)
	assert.Equal(t, 0.15, raw.WasteRate)
	assert.Equal(t, 25.0, raw.WaterUsage)

	recycled, err := est.Enhance(InputRecord{Metal: MetalSteel, ProductionRoute: RouteRecycled, EndOfLife: EndOfLifeRecycle})
	require.NoError(t, err)
	assert.Equal(t, 0.85, recycled.ProcessEfficiency)
	assert.Equal(t, 0.05, recycled.WasteRate)
	assert.Equal(t, 6.0, recycled.WaterUsage)
	assert.Equal(t, SourceEstimated, recycled.Sources.WaterUsage)
}

func TestEnhance_DerivedJitterCapsPurity(t *testing.T) {
	est := NewEstimator(defaultTables(t), WithRandomSource(fixedSource(0.999)), WithDerivedJitter(true))

	got, err := est.Enhance(InputRecord{Metal: MetalCopper, ProductionRoute: RouteRecycled, EndOfLife: EndOfLifeReuse})
	require.NoError(t, err)

	// 0.98 * ~1.1 exceeds the 0.99 cap.
	assert.Equal(t, 0.99, got.MaterialPurity)
	assert.InDelta(t, 45*1.0998, got.WaterUsage, 1e-9)
	assert.LessOrEqual(t, got.ProcessEfficiency, 1.0)
}

func TestEnhance_NeverNegativeAndWithinBand(t *testing.T) {
	tables := defaultTables(t)
	est := NewEstimator(tables, WithRandomSource(NewSeededSource(42)), WithDerivedJitter(true))

	for _, metal := range Metals() {
		for _, route := range Routes() {
			factor, err := tables.Factor(metal, route)
			require.NoError(t, err)

			for range 200 {
				got, enhanceErr := est.Enhance(InputRecord{Metal: metal, ProductionRoute: route, EndOfLife: EndOfLifeLandfill})
				require.NoError(t, enhanceErr)

				for _, v := range []float64{
					got.EnergyUse, got.TransportDistance, got.ProcessEfficiency,
					got.MaterialPurity, got.WaterUsage, got.WasteRate,
				} {
					assert.GreaterOrEqual(t, v, 0.0)
				}
				assert.GreaterOrEqual(t, got.EnergyUse, factor.EnergyUse*0.9-1e-9)
				assert.LessOrEqual(t, got.EnergyUse, factor.EnergyUse*1.1+1e-9)
				assert.GreaterOrEqual(t, got.TransportDistance, factor.TransportDistance*0.9-1e-9)
				assert.LessOrEqual(t, got.TransportDistance, factor.TransportDistance*1.1+1e-9)
			}
		}
	}
}

func TestEnhance_FullySpecifiedIsIdempotent(t *testing.T) {
	est := NewEstimator(defaultTables(t), WithRandomSource(NewSeededSource(7)))
	input := InputRecord{
		Metal:             MetalOther,
		ProductionRoute:   RouteRecycled,
		EnergyUse:         Float(4.4),
		TransportDistance: Float(321),
		EndOfLife:         EndOfLifeReuse,
	}

	first, err := est.Enhance(input)
	require.NoError(t, err)
	second, err := est.Enhance(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnhance_SeededSourceIsReproducible(t *testing.T) {
	input := InputRecord{Metal: MetalAluminium, ProductionRoute: RouteRaw, EndOfLife: EndOfLifeRecycle}

	a, err := NewEstimator(defaultTables(t), WithRandomSource(NewSeededSource(99))).Enhance(input)
	require.NoError(t, err)
	b, err := NewEstimator(defaultTables(t), WithRandomSource(NewSeededSource(99))).Enhance(input)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEnhance_ZeroJitterUsesDefaults(t *testing.T) {
	est := NewEstimator(defaultTables(t), WithJitter(0))

	got, err := est.Enhance(InputRecord{Metal: MetalCopper, ProductionRoute: RouteRaw, EndOfLife: EndOfLifeRecycle})
	require.NoError(t, err)
	assert.Equal(t, 8.3, got.EnergyUse)
	assert.Equal(t, 800.0, got.TransportDistance)
}

func TestEnhance_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     InputRecord
		wantField string
		wantErr   error
	}{
		{
			name:      "unknown metal",
			input:     InputRecord{Metal: "titanium", ProductionRoute: RouteRaw, EndOfLife: EndOfLifeRecycle},
			wantField: FieldMetal,
			wantErr:   ErrUnknownMetal,
		},
		{
			name:      "unknown route",
			input:     InputRecord{Metal: MetalSteel, ProductionRoute: "remanufactured", EndOfLife: EndOfLifeRecycle},
			wantField: FieldProductionRoute,
			wantErr:   ErrUnknownRoute,
		},
		{
			name:      "unknown end of life",
			input:     InputRecord{Metal: MetalSteel, ProductionRoute: RouteRaw, EndOfLife: "incinerate"},
			wantField: FieldEndOfLife,
			wantErr:   ErrUnknownEndOfLife,
		},
		{
			name: "negative energy",
			input: InputRecord{
				Metal: MetalSteel, ProductionRoute: RouteRaw, EndOfLife: EndOfLifeRecycle, EnergyUse: Float(-1),
			},
			wantField: FieldEnergyUse,
			wantErr:   ErrNegativeValue,
		},
		{
			name: "negative distance",
			input: InputRecord{
				Metal: MetalSteel, ProductionRoute: RouteRaw, EndOfLife: EndOfLifeRecycle, TransportDistance: Float(-0.5),
			},
			wantField: FieldTransportDistance,
			wantErr:   ErrNegativeValue,
		},
		{
			name: "NaN energy",
			input: InputRecord{
				Metal: MetalSteel, ProductionRoute: RouteRaw, EndOfLife: EndOfLifeRecycle, EnergyUse: Float(math.NaN()),
			},
			wantField: FieldEnergyUse,
			wantErr:   ErrNonFiniteValue,
		},
	}

	est := NewEstimator(defaultTables(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := est.Enhance(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Equal(t, KindValidation, ErrorKind(err))
		})
	}
}

func TestWithJitterClamps(t *testing.T) {
	assert.Equal(t, MaxJitter, NewEstimator(defaultTables(t), WithJitter(3)).Jitter())
	assert.Equal(t, 0.1, NewEstimator(defaultTables(t), WithJitter(0.2)).Jitter(), "band never exceeds 10 percent")
	assert.Equal(t, 0.05, NewEstimator(defaultTables(t), WithJitter(0.05)).Jitter())
	assert.Equal(t, 0.0, NewEstimator(defaultTables(t), WithJitter(-1)).Jitter())
	assert.Equal(t, DefaultJitter, NewEstimator(defaultTables(t)).Jitter())
}
