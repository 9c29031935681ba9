// Package config loads and validates the metallca configuration file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/internal/logging"
)

// Output formats accepted by output.default_format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const (
	configFileName = "config.yaml"
	defaultAddr    = "127.0.0.1:8080"
	outputTypeFile = "file"

	// maxPrecision bounds output.precision.
	maxPrecision = 6
)

// Environment variables that override the config file.
const (
	EnvHome         = "METALLCA_HOME"
	EnvLogLevel     = "METALLCA_LOG_LEVEL"
	EnvLogFormat    = "METALLCA_LOG_FORMAT"
	EnvServerAddr   = "METALLCA_SERVER_ADDR"
	EnvOutputFormat = "METALLCA_OUTPUT_FORMAT"
	EnvTablesPath   = "METALLCA_TABLES_PATH"
)

// Config is the full metallca configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output"    json:"output"`
	Logging   LoggingConfig   `yaml:"logging"   json:"logging"`
	Server    ServerConfig    `yaml:"server"    json:"server"`
	Estimator EstimatorConfig `yaml:"estimator" json:"estimator"`
	Tables    TablesConfig    `yaml:"tables"    json:"tables"`
	Reports   ReportsConfig   `yaml:"reports"   json:"reports"`

	configPath string
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// ServerConfig controls `metallca serve`.
type ServerConfig struct {
	Addr           string        `yaml:"addr"            json:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins" json:"allowed_origins"`
}

// EstimatorConfig tunes parameter estimation.
type EstimatorConfig struct {
	// Jitter is the half-width of the estimate band, at most 0.1 (±10%).
	Jitter        float64 `yaml:"jitter"         json:"jitter"`
	DerivedJitter bool    `yaml:"derived_jitter" json:"derived_jitter"`
}

// TablesConfig points at an alternative reference table file. An empty path
// selects the built-in tables.
type TablesConfig struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// ReportsConfig controls where saved reports live.
type ReportsConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Server: ServerConfig{
			Addr:           defaultAddr,
			RequestTimeout: 30 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Estimator: EstimatorConfig{
			Jitter: lca.DefaultJitter,
		},
		Reports: ReportsConfig{
			Directory: filepath.Join(dir, "reports"),
		},
		configPath: filepath.Join(dir, configFileName),
	}
}

// New returns the defaults overlaid with the config file and then the
// environment. A missing file is not an error; an unreadable one is logged
// and ignored.
func New() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		log.Warn().Str("component", "config").Err(err).Msg("cannot resolve config directory, using working directory")
		dir = ".metallca"
	}

	cfg := Default(dir)
	if loadErr := cfg.loadFile(cfg.configPath); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
		log.Warn().
			Str("component", "config").
			Str("path", cfg.configPath).
			Err(loadErr).
			Msg("failed to load config file, using defaults")
		cfg = Default(dir)
	}
	cfg.applyEnvOverrides()
	return cfg
}

// Load reads the config file at path over the defaults and applies the
// environment. Unlike New, a missing or malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))
	cfg.configPath = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv(EnvTablesPath); v != "" {
		c.Tables.Path = v
	}
}

// Path returns the file this config was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("output.default_format must be %q or %q, got %q",
			FormatTable, FormatJSON, c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("output.precision must be between 0 and %d, got %d", maxPrecision, c.Output.Precision))
	}

	if !logging.IsValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case logging.FormatJSON, logging.FormatConsole, logging.FormatText:
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json, console or text", c.Logging.Format))
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.addr %q: %w", c.Server.Addr, err))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}

	if c.Estimator.Jitter < 0 || c.Estimator.Jitter > lca.MaxJitter {
		errs = append(errs, fmt.Errorf("estimator.jitter must be between 0 and %g, got %g", lca.MaxJitter, c.Estimator.Jitter))
	}

	if c.Reports.Directory == "" {
		errs = append(errs, errors.New("reports.directory is required"))
	}

	return errors.Join(errs...)
}

// GetConfigDir returns $METALLCA_HOME or ~/.metallca.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".metallca"), nil
}

// ConfigFilePath returns the path of the global config file.
func ConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
