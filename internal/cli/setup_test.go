package cli_test

import (
	"bytes"
	"testing"

	"github.com/rshade/metallca/internal/cli"
)

// setupCLITest isolates the config home and quiets logging. It returns the
// home directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("METALLCA_HOME", home)
	t.Setenv("METALLCA_LOG_LEVEL", "error")
	t.Setenv("METALLCA_PROJECT_DIR", "")
	t.Setenv("METALLCA_OUTPUT_FORMAT", "")
	t.Setenv("METALLCA_TABLES_PATH", "")
	return home
}

// runCLI executes the root command with args and returns everything written
// to stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
