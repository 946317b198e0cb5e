package cli

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/obsworks/calpipe/internal/ctxlog"
)

const version = "1.1.0"

// defaultConfigName is where build writes and run reads unless told
// otherwise.
const defaultConfigName = "calpipe.hcl"

// rootOptions carries the collaborators every subcommand shares. The
// filesystem and writers are injected so tests drive the full command tree
// without touching the host.
type rootOptions struct {
	fs      afero.Fs
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// context returns ctx with the invocation's logger attached.
func (o *rootOptions) context(ctx context.Context, verbose bool) context.Context {
	return ctxlog.WithLogger(ctx, newLogger(o.errOut, verbose))
}

// NewRootCmd assembles the calpipe command tree. Operator-facing messages go
// to out, logs to errOut.
func NewRootCmd(fs afero.Fs, out, errOut io.Writer) *cobra.Command {
	o := &rootOptions{fs: fs, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "calpipe",
		Short: "Compile an interferometric calibration run into SLURM scripts.",
		Long: `calpipe turns one configuration file into a ready-to-submit SLURM run:
per-job sbatch scripts, a master submission script that chains them with
afterok dependencies, and control scripts for watching, cancelling and
cleaning up the run.

Start with "calpipe build" to write a default configuration for your
measurement set, adjust it, then "calpipe run" to generate the scripts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false,
		"Enable debug logging.")

	cmd.AddCommand(newBuildCmd(o))
	cmd.AddCommand(newRunCmd(o))
	return cmd
}
