package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/internal/report"
)

func TestCalculateBoxWidth(t *testing.T) {
	tests := []struct {
		termWidth int
		want      int
	}{
		{termWidth: 40, want: minBoxWidth},
		{termWidth: 70, want: 56},
		{termWidth: 200, want: defaultBoxWidth},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateBoxWidth(tt.termWidth), "width %d", tt.termWidth)
	}
}

func TestRenderAssessment_PlainWhenNotTerminal(t *testing.T) {
	tables, err := lca.DefaultTables()
	require.NoError(t, err)
	a, err := lca.NewDefaultAssessor(tables, lca.WithJitter(0)).Assess(context.Background(), lca.InputRecord{
		Metal:           lca.MetalCopper,
		ProductionRoute: lca.RouteRaw,
		EndOfLife:       lca.EndOfLifeLandfill,
	})
	require.NoError(t, err)
	rep, err := report.New(a, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.False(t, isWriterTerminal(&buf))
	require.NoError(t, RenderAssessment(&buf, rep, 1))

	out := buf.String()
	assert.Contains(t, out, "LCA ASSESSMENT: copper (raw route, end of life: landfill)")
	assert.Contains(t, out, "CONVENTIONAL PATHWAY")
	assert.Contains(t, out, "Estimated from reference tables: energyUse, transportDistance")
	assert.Contains(t, out, "Implement reuse or recycling programs")
	assert.NotContains(t, out, "╭", "no box outside a terminal")
}

func TestRenderAssessment_NilReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderAssessment(&buf, nil, 2))
	assert.Empty(t, buf.String())
}
