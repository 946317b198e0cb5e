package slurm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/spf13/afero"

	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/ctxlog"
	"github.com/obsworks/calpipe/internal/graph"
)

// Emitter writes one run's artifact tree through an abstract filesystem.
type Emitter struct {
	fs  afero.Fs
	cfg *config.Config
}

// NewEmitter returns an Emitter for the given configuration.
func NewEmitter(fs afero.Fs, cfg *config.Config) *Emitter {
	return &Emitter{fs: fs, cfg: cfg}
}

// Emit writes the complete artifact tree for the graph under dir: the log
// directories, the frozen config, one sbatch script per job, the master
// submission script and the four control scripts.
func (e *Emitter) Emit(ctx context.Context, dir string, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)

	sorted, err := g.TopologicalSort()
	if err != nil {
		return err
	}
	dirs := runDirs(g)

	for _, d := range dirs {
		if err := e.fs.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", d, err)
		}
	}

	if err := e.write(dir, FrozenConfig, config.Render(e.cfg), 0o644); err != nil {
		return err
	}

	for _, n := range sorted {
		body, err := renderJob(e.cfg, n)
		if err != nil {
			return err
		}
		if err := e.write(dir, jobScriptPath(n), body, 0o644); err != nil {
			return err
		}
	}

	master, err := renderMaster(sorted, dirs)
	if err != nil {
		return err
	}
	if err := e.write(dir, MasterScript, master, 0o755); err != nil {
		return err
	}

	controls := []struct {
		name string
		tpl  *template.Template
	}{
		{SummaryScript, summaryTpl},
		{ErrorScript, errorsTpl},
		{KillScript, killTpl},
		{CleanupScript, cleanupTpl},
	}
	artifacts := runArtifacts(g)
	for _, c := range controls {
		body, err := renderControl(c.tpl, artifacts)
		if err != nil {
			return err
		}
		if err := e.write(dir, filepath.Join(JobScriptDir, c.name), body, 0o755); err != nil {
			return err
		}
	}

	logger.Info("Emit: Run artifacts written.", "dir", dir, "job_count", len(sorted))
	return nil
}

func (e *Emitter) write(dir, name string, body []byte, mode os.FileMode) error {
	if err := afero.WriteFile(e.fs, filepath.Join(dir, name), body, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// runDirs lists every directory the run needs, sorted for stable mkdir
// lines in the master script.
func runDirs(g *graph.Graph) []string {
	set := map[string]bool{
		LogDirName:   true,
		JobScriptDir: true,
	}
	for _, n := range g.Nodes() {
		set[n.LogDir] = true
	}

	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// runArtifacts gathers every node's intermediate outputs in graph order.
func runArtifacts(g *graph.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, n.Artifacts...)
	}
	return out
}
