package graph

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/cluster"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/ctxlog"
)

// Build compiles a validated configuration and the stage table into the
// run's job graph.
func Build(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "catalog_version", catalog.Version)

	spws, err := cfg.SPWRanges()
	if err != nil {
		return nil, err
	}
	reqs := cluster.Resolve(cfg, cat)

	p := &runPlan{
		cfg:    cfg,
		spws:   spws,
		base:   visBase(cfg.Data.Vis),
		resume: cfg.Workflow.SelfCal && cfg.SelfCal.Loop > 0,
	}

	// First pass: instantiate nodes per cardinality rule, in catalog order.
	g := New()
	for _, kind := range cat.Order() {
		tpl, ok := cat.Template(kind)
		if !ok {
			continue
		}
		for _, n := range expand(tpl, p, reqs[kind]) {
			if err := g.Add(n); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	// Second pass: resolve template predecessors to concrete edges.
	if err := link(g, cat); err != nil {
		return nil, err
	}
	logger.Debug("Build: Dependency linking complete.", "edge_count", g.Edges())

	// Final validation: the edge set must stay acyclic.
	if _, err := g.TopologicalSort(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	logger.Info("Build: Graph construction successful.",
		"node_count", g.Len(), "edge_count", g.Edges())
	return g, nil
}

// runPlan carries the per-run expansion inputs derived from the
// configuration once, up front.
type runPlan struct {
	cfg    *config.Config
	spws   []string
	base   string
	resume bool
}

// expand instantiates a template's job nodes per its cardinality rule.
func expand(tpl catalog.Template, p *runPlan, req catalog.Request) []*JobNode {
	if !p.enabled(tpl.Kind) {
		return nil
	}

	switch tpl.Cardinality {
	case catalog.Singleton:
		return []*JobNode{p.newNode(tpl, req, 0, 1)}

	case catalog.PerSPW:
		out := make([]*JobNode, len(p.spws))
		for i := range p.spws {
			out[i] = p.newNode(tpl, req, i, len(p.spws))
		}
		return out

	case catalog.PerLoop:
		nloops := p.cfg.SelfCal.NLoops
		out := make([]*JobNode, 0, nloops-p.firstLoop())
		for k := p.firstLoop(); k < nloops; k++ {
			out = append(out, p.newNode(tpl, req, k, nloops))
		}
		return out

	case catalog.PerScript:
		scripts := p.auxScripts(tpl.Kind)
		out := make([]*JobNode, len(scripts))
		for i := range scripts {
			out[i] = p.newNode(tpl, req, i, len(scripts))
		}
		return out
	}
	return nil
}

func (p *runPlan) newNode(tpl catalog.Template, req catalog.Request, index, count int) *JobNode {
	n := &JobNode{
		ID:        NodeID(tpl.Kind, tpl.Cardinality, index, count),
		Kind:      tpl.Kind,
		Index:     index,
		Parallel:  tpl.Parallel,
		Resources: req,
		LogDir:    "logs",
		Scripts:   p.scripts(tpl),
	}

	switch tpl.Cardinality {
	case catalog.PerSPW:
		n.SPW = p.spws[index]
		n.WorkDir = SPWDir(index, count)
		n.LogDir = path.Join(n.WorkDir, "logs")
	case catalog.PerLoop:
		n.Loop = index
	case catalog.PerScript:
		n.Script = p.auxScripts(tpl.Kind)[index]
		n.Scripts = nil
	}

	n.Artifacts = p.artifacts(tpl.Kind, n)
	return n
}

// enabled decides whether a kind expands at all for this run. A resumed run
// rebuilds only the self-calibration tail and what follows it; the upstream
// stages already ran.
func (p *runPlan) enabled(kind catalog.Kind) bool {
	switch kind {
	case catalog.KindPreCal:
		return !p.resume && len(p.cfg.Slurm.PreCalScripts) > 0
	case catalog.KindPartition, catalog.KindCalibrate, catalog.KindPlotCal, catalog.KindConcat:
		return !p.resume
	case catalog.KindSelfCal:
		return p.cfg.Workflow.SelfCal
	case catalog.KindScienceImage:
		return p.cfg.Workflow.Imaging
	case catalog.KindPostCal:
		return len(p.cfg.Slurm.PostCalScripts) > 0
	}
	return false
}

func (p *runPlan) firstLoop() int {
	return p.cfg.SelfCal.Loop
}

func (p *runPlan) auxScripts(kind catalog.Kind) []string {
	if kind == catalog.KindPreCal {
		return p.cfg.Slurm.PreCalScripts
	}
	return p.cfg.Slurm.PostCalScripts
}

// scripts resolves a template's invocation sequence, splicing the
// polarization solve and apply in front of the final split when the run
// calibrates full polarization.
func (p *runPlan) scripts(tpl catalog.Template) []string {
	if !p.cfg.Workflow.Polarization || len(tpl.PolScripts) == 0 {
		return slices.Clone(tpl.Scripts)
	}

	out := make([]string, 0, len(tpl.Scripts)+len(tpl.PolScripts))
	out = append(out, tpl.Scripts[:len(tpl.Scripts)-1]...)
	out = append(out, tpl.PolScripts...)
	out = append(out, tpl.Scripts[len(tpl.Scripts)-1])
	return out
}

// artifacts lists a node's intermediate outputs. Final deliverables, the
// merged calibrated set and the science images, are never listed here.
func (p *runPlan) artifacts(kind catalog.Kind, n *JobNode) []string {
	switch kind {
	case catalog.KindPartition:
		out := make([]string, len(p.spws))
		for i := range p.spws {
			out[i] = path.Join(SPWDir(i, len(p.spws)), p.base+".partition.ms")
		}
		return out
	case catalog.KindCalibrate:
		return []string{
			path.Join(n.WorkDir, p.base+".split.ms"),
			path.Join(n.WorkDir, "caltables"),
			path.Join(n.WorkDir, p.base+".partition.ms.flagversions"),
		}
	case catalog.KindSelfCal:
		return []string{fmt.Sprintf("images/%s_im_%d*", p.base, n.Loop)}
	}
	return nil
}

// visBase is the measurement-set name artifact paths derive from.
func visBase(vis string) string {
	return strings.TrimSuffix(path.Base(vis), ".ms")
}
