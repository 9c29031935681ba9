package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/metallca/internal/config"
)

func TestResolveProjectDir(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()

	root := t.TempDir()
	projectDir := filepath.Join(root, ".metallca")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	nested := filepath.Join(root, "plants", "rotterdam")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	t.Run("walks up to the project", func(t *testing.T) {
		assert.Equal(t, projectDir, config.ResolveProjectDir(ctx, "", nested))
	})

	t.Run("flag wins", func(t *testing.T) {
		other := t.TempDir()
		assert.Equal(t, filepath.Join(other, ".metallca"), config.ResolveProjectDir(ctx, other, nested))
		assert.Equal(t, projectDir, config.ResolveProjectDir(ctx, projectDir, ""), "no double append")
	})

	t.Run("environment", func(t *testing.T) {
		other := t.TempDir()
		t.Setenv(config.EnvProjectDir, other)
		assert.Equal(t, filepath.Join(other, ".metallca"), config.ResolveProjectDir(ctx, "", nested))
	})

	t.Run("no project", func(t *testing.T) {
		assert.Empty(t, config.ResolveProjectDir(ctx, "", ""))
	})
}

func TestNewWithProjectDir(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()

	assert.Equal(t, config.FormatTable, config.NewWithProjectDir(ctx, "").Output.DefaultFormat)

	projectDir := t.TempDir()
	assert.Equal(t, config.FormatTable, config.NewWithProjectDir(ctx, projectDir).Output.DefaultFormat,
		"missing project config keeps defaults")

	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(`
output:
  default_format: json
  precision: 3
`), 0600))
	cfg := config.NewWithProjectDir(ctx, projectDir)
	assert.Equal(t, config.FormatJSON, cfg.Output.DefaultFormat)
	assert.Equal(t, 3, cfg.Output.Precision)

	t.Setenv(config.EnvOutputFormat, config.FormatTable)
	assert.Equal(t, config.FormatTable, config.NewWithProjectDir(ctx, projectDir).Output.DefaultFormat)

	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte("output: [\n"), 0600))
	t.Setenv(config.EnvOutputFormat, "")
	assert.Equal(t, config.FormatTable, config.NewWithProjectDir(ctx, projectDir).Output.DefaultFormat)
}
