package slurm

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"text/template"
)

// failureSignatures are the log patterns the error scan greps for: toolkit
// SEVERE messages, generic error lines, and the scheduler's out-of-memory,
// segfault and cancellation notices. MPI library chatter matches "rror"
// without meaning failure, so a second grep drops it.
var failureSignatures = []string{
	"SEVERE",
	"rror",
	"oom-kill",
	"Out Of Memory",
	"Segmentation fault",
	"Bus error",
	"CANCELLED",
}

const mpiNoise = `mpi\|MPI`

const summaryTemplate = `#!/bin/bash
{{.Header}}
#
# Reports scheduler state for every job of this run. Read-only.

cd "$(dirname "$0")/.." || exit 1
if [ ! -f {{.JobIDs}} ]; then
    echo "No submitted run found ({{.JobIDs}} missing). Run ./{{.Master}} first." >&2
    exit 1
fi
. {{.JobIDs}}

sacct -j "$allIDs" --format="JobID%-15,JobName%-20,Partition,Elapsed,State,ExitCode,MaxRSS,NNodes,NTasks"
echo ""
echo "Jobs by state:"
sacct -j "$allIDs" --format=State --noheader --parsable2 | sed 's/ .*//' | sort | uniq -c | sort -rn
`

const errorsTemplate = `#!/bin/bash
{{.Header}}
#
# Scans this run's logs for known failure signatures. Diagnostic only; the
# exit status does not reflect job health.

cd "$(dirname "$0")/.." || exit 1

files=$(ls {{.Log}}/*.err {{.Log}}/*.casa spw*/{{.Log}}/*.err spw*/{{.Log}}/*.casa 2> /dev/null)
if [ -z "$files" ]; then
    echo "No log files found yet."
    exit 0
fi

found=0
for f in $files; do
    matches=$(grep -I '{{.Pattern}}' "$f" | grep -v '{{.Exclude}}')
    if [ -n "$matches" ]; then
        found=1
        echo "== $f"
        echo "$matches"
        echo ""
    fi
done
[ "$found" -eq 0 ] && echo "No failure signatures found."
exit 0
`

const killTemplate = `#!/bin/bash
{{.Header}}
#
# Cancels every job of this run that is still pending or running. Jobs
# outside this run are never touched, even under the same account.

cd "$(dirname "$0")/.." || exit 1
if [ ! -f {{.JobIDs}} ]; then
    echo "No submitted run found ({{.JobIDs}} missing)." >&2
    exit 1
fi
. {{.JobIDs}}

echo "Cancelling jobs $allIDs"
scancel ${allIDs//,/ }
`

const cleanupTemplate = `#!/bin/bash
{{.Header}}
#
# Removes this run's intermediate artifacts. Final deliverables are kept.
# Run only after the products have been checked.

cd "$(dirname "$0")/.." || exit 1
{{- if not .Artifacts}}

echo "No intermediate artifacts declared for this run."
exit 0
{{- else}}

cat << 'ARTIFACTS'
This removes the following intermediate artifacts:
{{range .Artifacts}}  {{.}}
{{end}}ARTIFACTS

read -r -p "Proceed? [y/N] " answer
case "$answer" in
    y|Y) ;;
    *) echo "Aborted."; exit 1 ;;
esac

{{range .Artifacts}}rm -rf {{.}}
{{end}}echo "Cleanup complete."
{{- end}}
`

var (
	summaryTpl = template.Must(template.New("summary").Parse(summaryTemplate))
	errorsTpl  = template.Must(template.New("errors").Parse(errorsTemplate))
	killTpl    = template.Must(template.New("kill").Parse(killTemplate))
	cleanupTpl = template.Must(template.New("cleanup").Parse(cleanupTemplate))
)

type controlData struct {
	Header    string
	JobIDs    string
	Master    string
	Log       string
	Pattern   string
	Exclude   string
	Artifacts []string
}

// renderControl produces one of the four control scripts. Artifacts are only
// consumed by the cleanup script; the others operate on the job-id set the
// master script records at submission time.
func renderControl(tpl *template.Template, artifacts []string) ([]byte, error) {
	data := controlData{
		Header:    generatedHeader,
		JobIDs:    path.Join(JobScriptDir, JobIDsScript),
		Master:    MasterScript,
		Log:       LogDirName,
		Pattern:   strings.Join(failureSignatures, `\|`),
		Exclude:   mpiNoise,
		Artifacts: artifacts,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s script: %w", tpl.Name(), err)
	}
	return buf.Bytes(), nil
}
