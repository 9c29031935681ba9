package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/metallca/internal/lca"
)

func TestTablesShow(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "tables", "show", "-o", "json")
	require.NoError(t, err)
	var set lca.TableSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, "1.0.0", set.SchemaVersion)
	assert.Equal(t, 11.5, set.Metals[lca.MetalAluminium].Raw.CO2PerKg)

	out, err = runCLI(t, "tables", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Reference tables (schema 1.0.0)")
	assert.Contains(t, out, "aluminium")
	assert.Contains(t, out, "END OF LIFE")
	assert.Contains(t, out, "landfill")
}

func TestTablesShow_BadTablesPath(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_version: 9.0.0\n"), 0o600))
	t.Setenv("METALLCA_TABLES_PATH", path)

	_, err := runCLI(t, "tables", "show")
	require.ErrorIs(t, err, lca.ErrInvalidTables)
}
