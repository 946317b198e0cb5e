package slurm

import (
	"bytes"
	"fmt"
	"path"
	"text/template"

	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/graph"
)

const sbatchTemplate = `#!/bin/bash
{{.Header}}
#SBATCH --nodes={{.Nodes}}
#SBATCH --ntasks-per-node={{.TasksPerNode}}
#SBATCH --cpus-per-task={{.CPUsPerTask}}
#SBATCH --mem={{.MemMB}}
#SBATCH --job-name={{.Name}}
#SBATCH --distribution=plane={{.Plane}}
#SBATCH --output={{.Output}}
#SBATCH --error={{.Error}}
#SBATCH --partition={{.Partition}}
#SBATCH --time={{.Time}}
{{- if .WorkDir}}
#SBATCH --chdir={{.WorkDir}}
{{- end}}

set -e
export OMP_NUM_THREADS=1
{{range .Commands}}
{{.}}
{{- end}}
`

var sbatchTpl = template.Must(template.New("sbatch").Parse(sbatchTemplate))

type sbatchData struct {
	Header       string
	Nodes        int
	TasksPerNode int
	CPUsPerTask  int
	MemMB        int64
	Name         string
	Plane        int
	Output       string
	Error        string
	Partition    string
	Time         string
	WorkDir      string
	Commands     []string
}

// renderJob produces the sbatch script for one job node. Log paths inside
// the script are relative to the job's working directory, which the chdir
// directive pins for per-SPW jobs.
func renderJob(cfg *config.Config, n *graph.JobNode) ([]byte, error) {
	stem := logStem(n, "%j")
	data := sbatchData{
		Header:       generatedHeader,
		Nodes:        n.Resources.Nodes,
		TasksPerNode: n.Resources.TasksPerNode,
		CPUsPerTask:  n.Resources.CPUsPerTask,
		MemMB:        n.Resources.MemPerNodeMB,
		Name:         n.ID,
		Plane:        n.Resources.Plane,
		Output:       path.Join(LogDirName, stem+".out"),
		Error:        path.Join(LogDirName, stem+".err"),
		Partition:    cfg.Slurm.Partition,
		Time:         n.Resources.Time,
		WorkDir:      n.WorkDir,
		Commands:     commands(cfg, n),
	}

	var buf bytes.Buffer
	if err := sbatchTpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render job script for %s: %w", n.ID, err)
	}
	return buf.Bytes(), nil
}
