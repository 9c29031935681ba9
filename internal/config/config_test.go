package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/metallca/internal/config"
	"github.com/rshade/metallca/internal/logging"
)

// isolateHome points METALLCA_HOME at a fresh directory and clears overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)
	for _, env := range []string{
		config.EnvLogLevel, config.EnvLogFormat, config.EnvServerAddr,
		config.EnvOutputFormat, config.EnvTablesPath, config.EnvProjectDir,
	} {
		t.Setenv(env, "")
	}
	return dir
}

func TestDefault(t *testing.T) {
	cfg := config.Default("/srv/metallca")

	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.InDelta(t, 0.1, cfg.Estimator.Jitter, 1e-12)
	assert.Equal(t, filepath.Join("/srv/metallca", "reports"), cfg.Reports.Directory)
	assert.Equal(t, filepath.Join("/srv/metallca", "config.yaml"), cfg.Path())
	require.NoError(t, cfg.Validate())
}

func TestNew_MissingFileUsesDefaults(t *testing.T) {
	dir := isolateHome(t)

	cfg := config.New()
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path())
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
}

func TestNew_ReadsFileAndEnvironmentWins(t *testing.T) {
	dir := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
output:
  default_format: json
logging:
  level: warn
server:
  addr: 0.0.0.0:9000
  request_timeout: 5s
estimator:
  jitter: 0.05
`), 0600))
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvTablesPath, "/etc/metallca/tables.yaml")

	cfg := config.New()

	assert.Equal(t, config.FormatJSON, cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level, "environment overrides file")
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.InDelta(t, 0.05, cfg.Estimator.Jitter, 1e-12)
	assert.Equal(t, "/etc/metallca/tables.yaml", cfg.Tables.Path)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, filepath.Join(dir, "reports"), cfg.Reports.Directory)
}

func TestNew_MalformedFileFallsBackToDefaults(t *testing.T) {
	dir := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: [\n"), 0600))

	cfg := config.New()
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
}

func TestLoad(t *testing.T) {
	isolateHome(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"), 0600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, path, cfg.Path())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := filepath.Join(isolateHome(t), "nested")

	cfg := config.Default(dir)
	cfg.Output.Precision = 4
	cfg.Server.RequestTimeout = 12 * time.Second
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Output.Precision)
	assert.Equal(t, 12*time.Second, loaded.Server.RequestTimeout)
	assert.Equal(t, cfg.Reports, loaded.Reports)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantMsg string
	}{
		{name: "output format", mutate: func(c *config.Config) { c.Output.DefaultFormat = "xml" }, wantMsg: "output.default_format"},
		{name: "precision", mutate: func(c *config.Config) { c.Output.Precision = 9 }, wantMsg: "output.precision"},
		{name: "log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, wantMsg: "logging.level"},
		{name: "log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantMsg: "logging.format"},
		{name: "server addr", mutate: func(c *config.Config) { c.Server.Addr = "localhost" }, wantMsg: "server.addr"},
		{name: "timeout", mutate: func(c *config.Config) { c.Server.RequestTimeout = 0 }, wantMsg: "request_timeout"},
		{name: "jitter", mutate: func(c *config.Config) { c.Estimator.Jitter = 0.9 }, wantMsg: "estimator.jitter"},
		{name: "jitter above band", mutate: func(c *config.Config) { c.Estimator.Jitter = 0.2 }, wantMsg: "between 0 and 0.1"},
		{name: "reports dir", mutate: func(c *config.Config) { c.Reports.Directory = "" }, wantMsg: "reports.directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default(t.TempDir())
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("reports all problems", func(t *testing.T) {
		cfg := config.Default(t.TempDir())
		cfg.Output.DefaultFormat = "xml"
		cfg.Logging.Level = "loud"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "output.default_format")
		assert.Contains(t, err.Error(), "logging.level")
	})
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = filepath.Join(t.TempDir(), "logs", "metallca.log")
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, lc.File, got.File)

	require.NoError(t, lc.EnsureLogDir())
	assert.DirExists(t, filepath.Dir(lc.File))
}
