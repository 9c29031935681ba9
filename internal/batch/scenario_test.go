package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/metallca/internal/lca"
)

const scenarioYAML = `
scenarios:
  - name: smelter baseline
    metal: aluminium
    productionRoute: raw
    energyUse: 15.5
    transportDistance: 500
    endOfLife: landfill
  - metal: copper
    productionRoute: recycled
    endOfLife: reuse
  - name: bad metal
    metal: gold
    productionRoute: raw
    endOfLife: recycle
`

func newAssessor(t *testing.T) *lca.Assessor {
	t.Helper()
	tables, err := lca.DefaultTables()
	require.NoError(t, err)
	return lca.NewDefaultAssessor(tables, lca.WithRandomSource(lca.NewSeededSource(1)))
}

func TestParseScenarios(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(scenarioYAML))
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	assert.Equal(t, "smelter baseline", scenarios[0].Name)
	assert.Equal(t, lca.MetalAluminium, scenarios[0].Metal)
	require.NotNil(t, scenarios[0].EnergyUse)
	assert.Equal(t, 15.5, *scenarios[0].EnergyUse)

	assert.Equal(t, "scenario-2", scenarios[1].Name)
	assert.Nil(t, scenarios[1].EnergyUse)
	assert.Equal(t, lca.EndOfLifeReuse, scenarios[1].EndOfLife)

	_, err = ParseScenarios([]byte("scenarios: []\n"))
	require.ErrorIs(t, err, ErrNoScenarios)

	_, err = ParseScenarios([]byte("scenarios: {\n"))
	require.Error(t, err)
}

func TestParseScenarios_JSON(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(`{"scenarios":[{"name":"j","metal":"steel","productionRoute":"raw","endOfLife":"recycle"}]}`))
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, lca.MetalSteel, scenarios[0].Metal)
}

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0600))

	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)

	_, err = LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario file")
}

func TestRun(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(scenarioYAML))
	require.NoError(t, err)

	for _, opts := range []RunOptions{
		{},
		{Concurrency: 3, BatchSize: 1},
	} {
		results, runErr := Run(context.Background(), newAssessor(t), scenarios, opts)
		require.NoError(t, runErr)
		require.Len(t, results, 3)

		for i, r := range results {
			assert.Equal(t, i, r.Index)
			assert.Equal(t, scenarios[i].Name, r.Name)
		}

		require.NoError(t, results[0].Err)
		// 11.5 + 15.5*0.5 + 500*0.0001 + 11.5*0.1
		assert.InDelta(t, 20.45, results[0].Assessment.Results.Conventional.CO2Equivalent, 1e-9)
		require.NoError(t, results[1].Err)
		assert.Equal(t, lca.EndOfLifeReuse, results[1].Assessment.Results.Circular.EndOfLife)

		assert.Nil(t, results[2].Assessment)
		assert.ErrorIs(t, results[2].Err, lca.ErrUnknownMetal)
		assert.Equal(t, 1, Failed(results))
	}
}

func TestRun_Progress(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(scenarioYAML))
	require.NoError(t, err)

	var calls int
	_, err = Run(context.Background(), newAssessor(t), scenarios, RunOptions{
		BatchSize:  2,
		OnProgress: func(ProgressSnapshot) { calls++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, err = Run(context.Background(), newAssessor(t), scenarios, RunOptions{BatchSize: -1})
	require.ErrorIs(t, err, ErrInvalidBatchSize)
}

func TestRun_NormalizesEnumSpellings(t *testing.T) {
	scenarios, err := ParseScenarios([]byte(`
scenarios:
  - name: british
    metal: Aluminium
    productionRoute: Recycled
    endOfLife: RECYCLE
  - name: american
    metal: aluminum
    productionRoute: raw
    endOfLife: Landfill
`))
	require.NoError(t, err)
	assert.Equal(t, lca.MetalAluminium, scenarios[0].Metal)
	assert.Equal(t, lca.RouteRecycled, scenarios[0].ProductionRoute)
	assert.Equal(t, lca.MetalAluminium, scenarios[1].Metal)
	assert.Equal(t, lca.EndOfLifeLandfill, scenarios[1].EndOfLife)

	results, err := Run(context.Background(), newAssessor(t), scenarios, RunOptions{})
	require.NoError(t, err)
	assert.Zero(t, Failed(results))
}
