package config

import (
	"context"
	"fmt"

	"github.com/agext/levenshtein"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"

	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/ctxlog"
)

// Load reads the configuration at path, merges it over the defaults and
// validates the result.
func Load(ctx context.Context, fsys afero.Fs, path string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading run configuration", "path", path)

	src, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(src, path)
	if err != nil {
		return nil, err
	}

	logger.Debug("Run configuration loaded",
		"vis", cfg.Data.Vis,
		"nspw", cfg.Workflow.NSPW,
		"selfcal", cfg.Workflow.SelfCal,
		"imaging", cfg.Workflow.Imaging,
	)
	return cfg, nil
}

// Parse decodes configuration source text over the defaults and validates
// the merged model. The filename only labels diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &ParseError{Path: filename, Diags: diags}
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, &ParseError{Path: filename, Diags: diags}
	}

	cfg := Defaults()
	if err := merge(cfg, &raw); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge applies every attribute the file actually set onto the defaults.
func merge(cfg *Config, raw *fileSchema) error {
	if raw.Data != nil {
		override(&cfg.Data.Vis, raw.Data.Vis)
	}

	if b := raw.Slurm; b != nil {
		override(&cfg.Slurm.Nodes, b.Nodes)
		override(&cfg.Slurm.TasksPerNode, b.TasksPerNode)
		override(&cfg.Slurm.Plane, b.Plane)
		override(&cfg.Slurm.MemMB, b.MemMB)
		override(&cfg.Slurm.Partition, b.Partition)
		override(&cfg.Slurm.Submit, b.Submit)
		override(&cfg.Slurm.Verbose, b.Verbose)
		override(&cfg.Slurm.Container, b.Container)
		override(&cfg.Slurm.MPIWrapper, b.MPIWrapper)
		override(&cfg.Slurm.ScriptDir, b.ScriptDir)
		if b.PreCalScripts != nil {
			cfg.Slurm.PreCalScripts = b.PreCalScripts
		}
		if b.PostCalScripts != nil {
			cfg.Slurm.PostCalScripts = b.PostCalScripts
		}
	}

	if b := raw.Workflow; b != nil {
		override(&cfg.Workflow.NSPW, b.NSPW)
		override(&cfg.Workflow.SPW, b.SPW)
		override(&cfg.Workflow.Polarization, b.Polarization)
		override(&cfg.Workflow.SelfCal, b.SelfCal)
		override(&cfg.Workflow.Imaging, b.Imaging)
	}

	if b := raw.SelfCal; b != nil {
		override(&cfg.SelfCal.NLoops, b.NLoops)
		override(&cfg.SelfCal.Loop, b.Loop)
		if b.SolInt != nil {
			cfg.SelfCal.SolInt = b.SolInt
		}
		if b.CalMode != nil {
			cfg.SelfCal.CalMode = b.CalMode
		}
		if b.Threshold != nil {
			cfg.SelfCal.Threshold = b.Threshold
		}
	}

	if b := raw.Image; b != nil {
		if b.Size != nil {
			cfg.Image.Size = b.Size
		}
		override(&cfg.Image.Cell, b.Cell)
		override(&cfg.Image.Niter, b.Niter)
		override(&cfg.Image.Robust, b.Robust)
		override(&cfg.Image.Weighting, b.Weighting)
	}

	cat := catalog.Default()
	for _, sb := range raw.Stages {
		kind, ok := cat.Lookup(sb.Name)
		if !ok {
			reason := "unknown stage"
			if hint := closest(sb.Name, cat.Names()); hint != "" {
				reason = fmt.Sprintf("unknown stage, did you mean %q?", hint)
			}
			return &ValueError{Key: "stage", Value: sb.Name, Reason: reason}
		}
		if _, dup := cfg.Stages[kind]; dup {
			return &ValueError{Key: "stage", Value: sb.Name, Reason: "declared more than once"}
		}

		var r catalog.Request
		if sb.Nodes != nil {
			r.Nodes = *sb.Nodes
		}
		if sb.TasksPerNode != nil {
			r.TasksPerNode = *sb.TasksPerNode
		}
		if sb.CPUsPerTask != nil {
			r.CPUsPerTask = *sb.CPUsPerTask
		}
		if sb.Plane != nil {
			r.Plane = *sb.Plane
		}
		if sb.MemMB != nil {
			r.MemPerNodeMB = *sb.MemMB
		}
		if sb.Time != nil {
			r.Time = *sb.Time
		}
		cfg.Stages[kind] = r
	}

	return nil
}

func override[T any](dst, src *T) {
	if src != nil {
		*dst = *src
	}
}

// closest returns the known name within a small edit distance of the given
// one, or "" when nothing is close enough to suggest.
func closest(given string, known []string) string {
	const maxDistance = 3
	best, bestDist := "", maxDistance+1
	for _, k := range known {
		if d := levenshtein.Distance(given, k, nil); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
