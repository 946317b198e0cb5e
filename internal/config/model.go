package config

import (
	"sort"

	"github.com/obsworks/calpipe/internal/catalog"
)

// Config is the fully resolved run configuration. Every field holds an
// effective value; file contents have already been merged over defaults.
type Config struct {
	Data     Data
	Slurm    Slurm
	Workflow Workflow
	SelfCal  SelfCal
	Image    Image

	// Stages holds per-kind resource overrides from stage blocks.
	Stages map[catalog.Kind]catalog.Request
}

// Data names the observation inputs.
type Data struct {
	// Vis is the path of the measurement set to calibrate.
	Vis string
}

// Slurm carries the run-wide scheduler geometry and the execution
// environment each job script embeds.
type Slurm struct {
	Nodes        int
	TasksPerNode int
	Plane        int
	MemMB        int64
	Partition    string

	Submit  bool
	Verbose bool

	Container  string
	MPIWrapper string
	ScriptDir  string

	PreCalScripts  []string
	PostCalScripts []string
}

// Workflow toggles the optional parts of the pipeline.
type Workflow struct {
	NSPW         int
	SPW          string
	Polarization bool
	SelfCal      bool
	Imaging      bool
}

// SelfCal parameterizes the self-calibration loop. SolInt, CalMode and
// Threshold hold either one entry applied to every iteration or one entry
// per iteration.
type SelfCal struct {
	NLoops    int
	Loop      int
	SolInt    []string
	CalMode   []string
	Threshold []string
}

// Image carries the deconvolution parameters the imaging scripts consume.
type Image struct {
	Size      []int
	Cell      string
	Niter     int
	Robust    float64
	Weighting string
}

// RunRequest returns the slurm block as the run-wide default resource
// request that parallel stages inherit.
func (c *Config) RunRequest() catalog.Request {
	return catalog.Request{
		Nodes:        c.Slurm.Nodes,
		TasksPerNode: c.Slurm.TasksPerNode,
		CPUsPerTask:  1,
		MemPerNodeMB: c.Slurm.MemMB,
		Plane:        c.Slurm.Plane,
	}
}

// StageOverride returns the operator's resource override for a kind.
func (c *Config) StageOverride(k catalog.Kind) (catalog.Request, bool) {
	r, ok := c.Stages[k]
	return r, ok
}

// OverriddenKinds returns the kinds with stage overrides in lexical order.
func (c *Config) OverriddenKinds() []catalog.Kind {
	out := make([]catalog.Kind, 0, len(c.Stages))
	for k := range c.Stages {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SPWRanges splits the configured band into the per-window ranges the
// partition jobs operate on.
func (c *Config) SPWRanges() ([]string, error) {
	return SplitBand(c.Workflow.SPW, c.Workflow.NSPW)
}
