package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/obsworks/calpipe/internal/cli"
	"github.com/obsworks/calpipe/internal/cluster"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/graph"
)

// main is the entrypoint for the calpipe binary.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "calpipe:", err)
		os.Exit(exitCode(err))
	}
}

// run executes the command tree. Split from main for testing.
func run(out, errOut io.Writer, args []string) error {
	root := cli.NewRootCmd(afero.NewOsFs(), out, errOut)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// exitCode maps an error to the documented process exit codes: 2 for
// configuration and resource mistakes the operator can fix, 3 for a cyclic
// stage catalog, which is a defect in this program, and 1 otherwise.
func exitCode(err error) int {
	var (
		parseErr   *config.ParseError
		missingErr *config.MissingError
		valueErr   *config.ValueError
		exceeded   *cluster.ResourceExceededError
		cyclic     *graph.CyclicDependencyError
	)
	switch {
	case errors.As(err, &cyclic):
		return 3
	case errors.As(err, &parseErr),
		errors.As(err, &missingErr),
		errors.As(err, &valueErr),
		errors.As(err, &exceeded):
		return 2
	}
	return 1
}
