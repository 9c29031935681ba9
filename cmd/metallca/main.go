// Command metallca compares conventional and circular metal production
// pathways by their CO2e footprint.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rshade/metallca/internal/cli"
	"github.com/rshade/metallca/internal/lca"
	"github.com/rshade/metallca/pkg/version"
)

// Exit codes.
const (
	exitOK         = 0
	exitError      = 1
	exitValidation = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCode(err)
}

// exitCode maps invalid-input errors to exitValidation and everything else
// to exitError.
func exitCode(err error) int {
	if errors.Is(err, lca.ErrValidation) {
		return exitValidation
	}
	return exitError
}
