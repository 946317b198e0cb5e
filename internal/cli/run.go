package cli

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/obsworks/calpipe/internal/cluster"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/ctxlog"
	"github.com/obsworks/calpipe/internal/pipeline"
	"github.com/obsworks/calpipe/internal/slurm"
)

// runOptions are the flags of the run subcommand.
type runOptions struct {
	root *rootOptions

	configPath string
	dir        string
	submit     bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{root: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate the SLURM scripts for a configuration.",
		Long: `Validates the configuration against the cluster's resource ceilings,
builds the job graph, and writes the sbatch, submission and control scripts
into the run directory. Nothing is submitted unless --submit is given or the
configuration sets slurm.submit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context())
		},
	}

	o.addFlags(cmd.Flags())
	return cmd
}

func (o *runOptions) addFlags(f *pflag.FlagSet) {
	f.StringVar(&o.configPath, "config", defaultConfigName, "Configuration file to compile.")
	f.StringVar(&o.dir, "dir", ".", "Directory to write the run artifacts into.")
	f.BoolVar(&o.submit, "submit", false, "Execute the submission script after generating it.")
}

func (o *runOptions) run(ctx context.Context) error {
	ctx = o.root.context(ctx, o.root.verbose)

	cfg, err := config.Load(ctx, o.root.fs, o.configPath)
	if err != nil {
		return err
	}
	// The config file can ask for debug logging without the flag.
	if cfg.Slurm.Verbose && !o.root.verbose {
		ctx = o.root.context(ctx, true)
	}

	g, err := pipeline.New(o.root.fs, cluster.Default()).Generate(ctx, cfg, o.dir)
	if err != nil {
		return err
	}

	fmt.Fprintln(o.root.out, color.GreenString("Generated %d job scripts under %s.", g.Len(), o.dir))

	if !o.submit && !cfg.Slurm.Submit {
		fmt.Fprintf(o.root.out, "Submit the run with: %s\n", filepath.Join(o.dir, slurm.MasterScript))
		return nil
	}
	return o.runMaster(ctx)
}

// runMaster executes the generated submission script. Submission output goes
// straight to the operator so sbatch errors stay visible.
func (o *runOptions) runMaster(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Run: Executing submission script.", "dir", o.dir)

	cmd := exec.CommandContext(ctx, "./"+slurm.MasterScript)
	cmd.Dir = o.dir
	cmd.Stdout = o.root.out
	cmd.Stderr = o.root.errOut
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", slurm.MasterScript, err)
	}

	fmt.Fprintln(o.root.out, color.GreenString("Run submitted."))
	return nil
}
