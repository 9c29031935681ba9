package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/metallca/internal/config"
)

func TestGitignoreContent(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(config.GitignoreContent()), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Equal(t, []string{"reports/", "*.log", "*.tmp"}, lines[1:])
	assert.NotContains(t, config.GitignoreContent(), "config.yaml", "project config stays tracked")
}

func TestEnsureGitignore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".metallca")

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))

	created, err = config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created, "second call is a no-op")
}

func TestEnsureGitignore_KeepsUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("custom\n"), 0o600))

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom\n", string(data))
}
