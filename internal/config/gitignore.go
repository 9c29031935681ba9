package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreName = ".gitignore"

// ignoredProjectPaths are generated under a project's .metallca directory.
// config.yaml is shared with the team and stays tracked.
//
//nolint:gochecknoglobals // Read-only pattern list.
var ignoredProjectPaths = []string{
	"reports/",
	"*.log",
	"*.tmp",
}

// GitignoreContent returns the .gitignore that config init places next to a
// project config.
func GitignoreContent() string {
	var b strings.Builder
	b.WriteString("# generated by metallca: saved reports and logs stay local\n")
	for _, p := range ignoredProjectPaths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// EnsureGitignore adds a .gitignore to the project directory dir, creating
// dir if needed. A .gitignore the user already has is left alone; the
// boolean reports whether a file was written.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating project directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, gitignoreName)
	//nolint:gosec // Version control needs to read it.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}

	_, writeErr := f.WriteString(GitignoreContent())
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return true, fmt.Errorf("writing %s: %w", path, writeErr)
	}
	return true, nil
}
