package slurm

import (
	"bytes"
	"fmt"
	"path"
	"text/template"

	"github.com/obsworks/calpipe/internal/graph"
)

const masterTemplate = `#!/bin/bash
{{.Header}}
#
# Submits every job of this run to SLURM in dependency order, then records
# the issued job ids so the control scripts act on this run alone.

cd "$(dirname "$0")" || exit 1

mkdir -p{{range .Dirs}} {{.}}{{end}}

allIDs=""
{{range .Jobs}}
{{- if .Deps}}
{{.Var}}=$(sbatch -d afterok{{range .Deps}}:${{.}}{{end}} {{.Script}} | cut -d ' ' -f4)
{{- else}}
{{.Var}}=$(sbatch {{.Script}} | cut -d ' ' -f4)
{{- end}}
[ -n "${{.Var}}" ] || { echo "ERROR: failed to submit {{.Var}}" >&2; exit 1; }
echo "Submitted {{.Var}} as job ${{.Var}}"
allIDs="${allIDs:+$allIDs,}${{.Var}}"
{{end}}
{
    echo '#!/bin/bash'
    echo '{{.Header}}'
    echo "allIDs=$allIDs"
} > {{.JobIDs}}

echo ""
echo "Submitted {{.Count}} jobs."
echo "Check progress with ./{{.Summary}}, scan for failures with ./{{.Errors}}."
`

var masterTpl = template.Must(template.New("master").Parse(masterTemplate))

type submitRow struct {
	Var    string
	Script string
	Deps   []string
}

type masterData struct {
	Header  string
	Dirs    []string
	Jobs    []submitRow
	JobIDs  string
	Count   int
	Summary string
	Errors  string
}

// renderMaster produces the submission script. Jobs must arrive
// topologically sorted so every dependency variable is assigned before it
// is referenced.
func renderMaster(sorted []*graph.JobNode, dirs []string) ([]byte, error) {
	rows := make([]submitRow, 0, len(sorted))
	for _, n := range sorted {
		rows = append(rows, submitRow{
			Var:    n.ID,
			Script: jobScriptPath(n),
			Deps:   n.DependsOn,
		})
	}

	data := masterData{
		Header:  generatedHeader,
		Dirs:    dirs,
		Jobs:    rows,
		JobIDs:  path.Join(JobScriptDir, JobIDsScript),
		Count:   len(rows),
		Summary: path.Join(JobScriptDir, SummaryScript),
		Errors:  path.Join(JobScriptDir, ErrorScript),
	}

	var buf bytes.Buffer
	if err := masterTpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render master script: %w", err)
	}
	return buf.Bytes(), nil
}
