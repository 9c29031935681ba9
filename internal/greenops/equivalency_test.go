package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	got, err := Calculate(150)
	require.NoError(t, err)
	require.False(t, got.IsEmpty)
	require.Len(t, got.Results, 4)

	miles, ok := got.Find(EquivalencyMilesDriven)
	require.True(t, ok)
	assert.InDelta(t, 781.25, miles.Value, 0.01) // 150 / 0.192
	assert.Equal(t, "781", miles.FormattedValue)
	assert.Equal(t, "miles driven", miles.Label)

	phones, ok := got.Find(EquivalencySmartphonesCharged)
	require.True(t, ok)
	assert.InDelta(t, 18248.18, phones.Value, 0.01)
	assert.Equal(t, "18,248", phones.FormattedValue)

	trees, ok := got.Find(EquivalencyTreeSeedlings)
	require.True(t, ok)
	assert.InDelta(t, 2.5, trees.Value, 1e-9)

	home, ok := got.Find(EquivalencyHomeDays)
	require.True(t, ok)
	assert.InDelta(t, 150/18.3, home.Value, 1e-9)

	assert.Equal(t, "Saves the equivalent of driving ~781 miles or charging ~18,248 smartphones", got.DisplayText)
	assert.Equal(t, "(≈ 781 mi, 18,248 phones)", got.CompactText)
}

func TestCalculate_Edges(t *testing.T) {
	got, err := Calculate(0.5)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty)
	assert.Equal(t, 0.5, got.SavedKg)

	_, err = Calculate(-1)
	assert.ErrorIs(t, err, ErrNegativeValue)

	got, err = Calculate(1e7)
	require.NoError(t, err)
	phones, ok := got.Find(EquivalencySmartphonesCharged)
	require.True(t, ok)
	assert.Equal(t, "~1.2 billion", phones.FormattedValue)
}

func TestCalculateSavings(t *testing.T) {
	tests := []struct {
		name        string
		input       SavingsInput
		wantSavedKg float64
		wantMassKg  float64
		wantEmpty   bool
		wantErr     error
	}{
		{
			name:        "one tonne of aluminium",
			input:       SavingsInput{PerKgCO2e: 13.54, Mass: 1, MassUnit: "t"},
			wantSavedKg: 13540,
			wantMassKg:  1000,
		},
		{
			name:        "default unit is kg",
			input:       SavingsInput{PerKgCO2e: 2, Mass: 50},
			wantSavedKg: 100,
			wantMassKg:  50,
		},
		{
			name:        "pounds",
			input:       SavingsInput{PerKgCO2e: 1, Mass: 100, MassUnit: "LB"},
			wantSavedKg: 45.3592,
			wantMassKg:  45.3592,
		},
		{
			name:       "no saving",
			input:      SavingsInput{PerKgCO2e: 0, Mass: 1000, MassUnit: "kg"},
			wantMassKg: 1000,
			wantEmpty:  true,
		},
		{
			name:      "below threshold",
			input:     SavingsInput{PerKgCO2e: 0.5, Mass: 1, MassUnit: "kg"},
			wantEmpty: true,
		},
		{
			name:    "invalid unit",
			input:   SavingsInput{PerKgCO2e: 1, Mass: 1, MassUnit: "stone"},
			wantErr: ErrInvalidUnit,
		},
		{
			name:    "negative mass",
			input:   SavingsInput{PerKgCO2e: 1, Mass: -1, MassUnit: "kg"},
			wantErr: ErrNegativeValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSavings(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsEmpty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmpty, got.IsEmpty)
			if tt.wantMassKg != 0 {
				assert.InDelta(t, tt.wantMassKg, got.MassKg, 1e-9)
			}
			if !tt.wantEmpty {
				assert.InDelta(t, tt.wantSavedKg, got.SavedKg, 1e-6)
			}
		})
	}
}

func TestMassToKg(t *testing.T) {
	kg, err := MassToKg(2500, "g")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, kg, 1e-12)

	assert.True(t, IsRecognizedMassUnit("tonnes"))
	assert.False(t, IsRecognizedMassUnit("oz"))
}

func TestEquivalencyTypeString(t *testing.T) {
	assert.Equal(t, "MilesDriven", EquivalencyMilesDriven.String())
	assert.Equal(t, "HomeDays", EquivalencyHomeDays.String())
	assert.Equal(t, "EquivalencyType(9)", EquivalencyType(9).String())
}
