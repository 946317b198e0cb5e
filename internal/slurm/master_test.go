package slurm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/graph"
)

// calibrationGraph builds the two-window calibration-only run used across
// the emitter tests: partition, two calibrate/plotcal pairs and concat.
func calibrationGraph(t *testing.T) (*config.Config, *graph.Graph) {
	t.Helper()
	cfg := emitterConfig()
	cfg.Workflow.NSPW = 2
	cfg.Workflow.SelfCal = false
	cfg.Workflow.Imaging = false
	require.NoError(t, cfg.Validate())

	g, err := graph.Build(context.Background(), cfg, catalog.Default())
	require.NoError(t, err)
	return cfg, g
}

func TestRenderMaster(t *testing.T) {
	// --- Arrange ---
	_, g := calibrationGraph(t)
	sorted, err := g.TopologicalSort()
	require.NoError(t, err)

	// --- Act ---
	body, err := renderMaster(sorted, runDirs(g))

	// --- Assert ---
	require.NoError(t, err)
	script := string(body)

	t.Run("should create every run directory up front", func(t *testing.T) {
		assert.Contains(t, script, "\nmkdir -p jobScripts logs spw00/logs spw01/logs\n")
	})

	t.Run("should submit roots without a dependency flag", func(t *testing.T) {
		assert.Contains(t, script,
			"partition=$(sbatch jobScripts/partition.sbatch | cut -d ' ' -f4)")
	})

	t.Run("should chain dependents with afterok", func(t *testing.T) {
		assert.Contains(t, script,
			"calibrate_00=$(sbatch -d afterok:$partition jobScripts/calibrate_00.sbatch | cut -d ' ' -f4)")
		assert.Contains(t, script,
			"concat=$(sbatch -d afterok:$calibrate_00:$calibrate_01 jobScripts/concat.sbatch | cut -d ' ' -f4)")
	})

	t.Run("should submit in dependency order", func(t *testing.T) {
		first := strings.Index(script, "partition=$(")
		second := strings.Index(script, "calibrate_00=$(")
		third := strings.Index(script, "concat=$(")
		assert.Greater(t, second, first)
		assert.Greater(t, third, second)
	})

	t.Run("should stop on a failed submission", func(t *testing.T) {
		assert.Contains(t, script,
			`[ -n "$partition" ] || { echo "ERROR: failed to submit partition" >&2; exit 1; }`)
	})

	t.Run("should record the issued job ids for the control scripts", func(t *testing.T) {
		assert.Contains(t, script, `allIDs="${allIDs:+$allIDs,}$partition"`)
		assert.Contains(t, script, `echo "allIDs=$allIDs"`)
		assert.Contains(t, script, "} > jobScripts/job_ids.sh")
	})

	t.Run("should report the submission count", func(t *testing.T) {
		assert.Contains(t, script, `echo "Submitted 6 jobs."`)
	})
}

func TestControlScripts(t *testing.T) {
	t.Run("summary guards against unsubmitted runs", func(t *testing.T) {
		// --- Act ---
		body, err := renderControl(summaryTpl, nil)

		// --- Assert ---
		require.NoError(t, err)
		script := string(body)
		assert.Contains(t, script, "if [ ! -f jobScripts/job_ids.sh ]; then")
		assert.Contains(t, script, "Run ./submit_pipeline.sh first.")
		assert.Contains(t, script, ". jobScripts/job_ids.sh")
		assert.Contains(t, script, `sacct -j "$allIDs" --format="JobID%-15,JobName%-20,`)
	})

	t.Run("error scan greps the failure signatures", func(t *testing.T) {
		// --- Act ---
		body, err := renderControl(errorsTpl, nil)

		// --- Assert ---
		require.NoError(t, err)
		script := string(body)
		assert.Contains(t, script,
			`grep -I 'SEVERE\|rror\|oom-kill\|Out Of Memory\|Segmentation fault\|Bus error\|CANCELLED'`)
		assert.Contains(t, script, `grep -v 'mpi\|MPI'`, "MPI chatter is not a failure")
		assert.Contains(t, script, "spw*/logs/*.casa", "per-window logs are scanned too")
		assert.True(t, strings.HasSuffix(script, "exit 0\n"),
			"a diagnostic scan must not fail the caller")
	})

	t.Run("kill cancels exactly the recorded jobs", func(t *testing.T) {
		// --- Act ---
		body, err := renderControl(killTpl, nil)

		// --- Assert ---
		require.NoError(t, err)
		script := string(body)
		assert.Contains(t, script, ". jobScripts/job_ids.sh")
		assert.Contains(t, script, "scancel ${allIDs//,/ }")
	})

	t.Run("cleanup lists artifacts and asks before removing", func(t *testing.T) {
		// --- Arrange ---
		artifacts := []string{"spw00/1538856059.partition.ms", "spw00/1538856059.split.ms"}

		// --- Act ---
		body, err := renderControl(cleanupTpl, artifacts)

		// --- Assert ---
		require.NoError(t, err)
		script := string(body)
		assert.Contains(t, script, "  spw00/1538856059.partition.ms\n")
		assert.Contains(t, script, `read -r -p "Proceed? [y/N] " answer`)
		assert.Contains(t, script, "rm -rf spw00/1538856059.split.ms\n")
	})

	t.Run("cleanup with nothing to remove exits early", func(t *testing.T) {
		// --- Act ---
		body, err := renderControl(cleanupTpl, nil)

		// --- Assert ---
		require.NoError(t, err)
		script := string(body)
		assert.Contains(t, script, "No intermediate artifacts declared for this run.")
		assert.NotContains(t, script, "rm -rf")
	})
}
