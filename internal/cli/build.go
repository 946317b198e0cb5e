package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/ctxlog"
)

// buildOptions are the flags of the build subcommand. Resource flags default
// to the stock cluster geometry so the written file documents every knob.
type buildOptions struct {
	root *rootOptions

	ms         string
	configPath string

	nodes     int
	tasks     int
	plane     int
	memMB     int64
	partition string
	nspw      int
}

func newBuildCmd(root *rootOptions) *cobra.Command {
	o := &buildOptions{root: root}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write a default configuration file for a measurement set.",
		Long: `Writes a commented configuration file with the stock defaults and the
given measurement set filled in. The file is meant to be reviewed and edited
before "calpipe run" consumes it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd.Context())
		},
	}

	o.addFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("ms")

	return cmd
}

func (o *buildOptions) addFlags(f *pflag.FlagSet) {
	f.StringVarP(&o.ms, "ms", "M", "", "Path of the measurement set to calibrate. Required.")
	f.StringVar(&o.configPath, "config", defaultConfigName, "Where to write the configuration file.")
	f.IntVarP(&o.nodes, "nodes", "N", config.DefaultNodes, "Node count for parallel stages.")
	f.IntVarP(&o.tasks, "ntasks-per-node", "t", config.DefaultTasksPerNode, "Tasks per node for parallel stages.")
	f.IntVarP(&o.plane, "plane", "P", config.DefaultPlane, "Task distribution block size across nodes.")
	f.Int64VarP(&o.memMB, "mem", "m", config.DefaultMemMB, "Memory per node in MB for parallel stages.")
	f.StringVarP(&o.partition, "partition", "p", config.DefaultPartition, "SLURM partition to submit to.")
	f.IntVarP(&o.nspw, "nspw", "n", config.DefaultNSPW, "Number of spectral windows to split the band into.")
}

func (o *buildOptions) run(ctx context.Context) error {
	ctx = o.root.context(ctx, o.root.verbose)
	logger := ctxlog.FromContext(ctx)

	cfg := config.Defaults()
	cfg.Data.Vis = o.ms
	cfg.Slurm.Nodes = o.nodes
	cfg.Slurm.TasksPerNode = o.tasks
	cfg.Slurm.Plane = o.plane
	cfg.Slurm.MemMB = o.memMB
	cfg.Slurm.Partition = o.partition
	cfg.Workflow.NSPW = o.nspw

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := afero.WriteFile(o.root.fs, o.configPath, config.Render(cfg), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", o.configPath, err)
	}
	logger.Debug("Build: Configuration file written.", "path", o.configPath)

	fmt.Fprintln(o.root.out, color.GreenString("Wrote %s for %s.", o.configPath, o.ms))
	fmt.Fprintf(o.root.out, "Review it, then generate the run with: calpipe run --config %s\n", o.configPath)
	return nil
}
