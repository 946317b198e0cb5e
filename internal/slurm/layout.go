package slurm

import (
	"path"
	"strings"

	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/graph"
)

// Fixed names inside a generated run directory.
const (
	LogDirName   = "logs"
	JobScriptDir = "jobScripts"
	MasterScript = "submit_pipeline.sh"
	FrozenConfig = ".config.run.hcl"

	// JobIDsScript is written by the master script at submission time and
	// sourced by the control scripts, scoping them to exactly one run.
	JobIDsScript = "job_ids.sh"

	SummaryScript = "summary.sh"
	ErrorScript   = "findErrors.sh"
	KillScript    = "killJobs.sh"
	CleanupScript = "cleanup.sh"
)

const generatedHeader = "# Generated by calpipe. Regenerating overwrites manual edits."

// logStem returns a job's log-file stem with ph standing in for the
// scheduler's job id ("%j" in sbatch directives, "${SLURM_JOB_ID}" inside
// the script body). Indexed jobs keep their zero-padded index as a suffix
// so one SPW's output is never confused with another's.
func logStem(n *graph.JobNode, ph string) string {
	kind := string(n.Kind)
	if n.ID == kind {
		return kind + "-" + ph
	}
	return kind + "-" + ph + "_" + strings.TrimPrefix(n.ID, kind+"_")
}

// jobScriptPath is the run-relative path of a job's sbatch script.
func jobScriptPath(n *graph.JobNode) string {
	return path.Join(JobScriptDir, n.ID+".sbatch")
}

// relConfig is the frozen config's path as seen from the job's working
// directory.
func relConfig(n *graph.JobNode) string {
	if n.WorkDir == "" {
		return FrozenConfig
	}
	depth := strings.Count(n.WorkDir, "/") + 1
	return strings.Repeat("../", depth) + FrozenConfig
}

// toolkitScript resolves a script name against the toolkit install unless
// the operator gave an explicit absolute path.
func toolkitScript(cfg *config.Config, script string) string {
	if path.IsAbs(script) {
		return script
	}
	return path.Join(cfg.Slurm.ScriptDir, script)
}
