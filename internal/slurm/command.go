package slurm

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/graph"
)

// commands renders a job's invocation sequence: one toolkit call per script,
// executed in order inside a single allocation.
func commands(cfg *config.Config, n *graph.JobNode) []string {
	scripts := n.Scripts
	if n.Script != "" {
		scripts = []string{n.Script}
	}

	out := make([]string, 0, len(scripts))
	for _, script := range scripts {
		out = append(out, command(cfg, n, script))
	}
	return out
}

// command renders one invocation of the numerical toolkit. Parallel jobs go
// through the MPI wrapper across the whole allocation; serial jobs run as a
// single task under srun. Toolkit console output lands in the job's .casa
// companion; MPI wrapper chatter is teed into the .mpi companion while still
// reaching the error log.
func command(cfg *config.Config, n *graph.JobNode, script string) string {
	wrapper := "srun"
	if n.Parallel {
		wrapper = cfg.Slurm.MPIWrapper
	}

	casaLog := path.Join(LogDirName, logStem(n, "${SLURM_JOB_ID}")+".casa")

	parts := []string{
		wrapper,
		"/usr/bin/singularity", "exec", cfg.Slurm.Container,
		"casa", "--nologger", "--nogui",
		"--logfile", casaLog,
		"-c", toolkitScript(cfg, script),
		"--config", relConfig(n),
	}
	parts = append(parts, scriptArgs(n)...)

	cmd := strings.Join(parts, " ")
	if n.Parallel {
		mpiLog := path.Join(LogDirName, logStem(n, "${SLURM_JOB_ID}")+".mpi")
		cmd = fmt.Sprintf("%s 2> >(tee -a %s >&2)", cmd, mpiLog)
	}
	return cmd
}

// scriptArgs returns the arguments a job passes after the config path, so
// each instance knows which slice of the run it owns.
func scriptArgs(n *graph.JobNode) []string {
	switch n.Kind {
	case catalog.KindCalibrate, catalog.KindPlotCal:
		return []string{"--spw", strconv.Quote(n.SPW)}
	case catalog.KindSelfCal:
		return []string{"--loop", strconv.Itoa(n.Loop)}
	}
	return nil
}
