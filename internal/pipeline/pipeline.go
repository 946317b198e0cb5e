package pipeline

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/cluster"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/ctxlog"
	"github.com/obsworks/calpipe/internal/graph"
	"github.com/obsworks/calpipe/internal/slurm"
)

// Pipeline holds the fixed collaborators of a generation run. The cluster
// profile is injected rather than read from process state so tests can
// generate against hypothetical cluster shapes.
type Pipeline struct {
	fs      afero.Fs
	profile cluster.Profile
	catalog *catalog.Catalog
}

// New returns a Pipeline generating through fs against the given cluster
// profile.
func New(fs afero.Fs, profile cluster.Profile) *Pipeline {
	return &Pipeline{
		fs:      fs,
		profile: profile,
		catalog: catalog.Default(),
	}
}

// Generate compiles the configuration into a run directory: it resolves and
// validates every stage's resource request, builds the job graph, and emits
// the submission, job and control scripts under dir. The returned graph is
// the one the scripts were rendered from.
func (p *Pipeline) Generate(ctx context.Context, cfg *config.Config, dir string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Generate: Pipeline run started.", "dir", dir)

	requests := cluster.Resolve(cfg, p.catalog)
	if err := cluster.Validate(p.profile, p.catalog, requests); err != nil {
		return nil, fmt.Errorf("cluster %s rejected the resource requests: %w", p.profile.Name, err)
	}
	logger.Debug("Generate: Resource validation passed.", "stage_count", len(requests))

	g, err := graph.Build(ctx, cfg, p.catalog)
	if err != nil {
		return nil, err
	}

	if err := slurm.NewEmitter(p.fs, cfg).Emit(ctx, dir, g); err != nil {
		return nil, err
	}

	logger.Info("Generate: Pipeline run complete.", "dir", dir, "job_count", g.Len())
	return g, nil
}
