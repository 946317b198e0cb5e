package config

import "github.com/obsworks/calpipe/internal/catalog"

// Cluster-facing defaults. The geometry matches what the calibration tasks
// scale to on the target cluster; operators override per run, not per site.
const (
	DefaultNodes        = 15
	DefaultTasksPerNode = 8
	DefaultPlane        = 4
	DefaultMemMB        = 98304

	DefaultPartition = "Main"

	DefaultContainer  = "/data/exp_soft/pipelines/casameer-5.4.1.simg"
	DefaultMPIWrapper = "/data/exp_soft/pipelines/casa-prerelease-5.3.0-115.el7/bin/mpicasa"
	DefaultScriptDir  = "/data/exp_soft/pipelines/calpipe"
)

// Workflow defaults: the full L band split into sixteen windows.
const (
	DefaultNSPW = 16
	DefaultBand = "0:880~1680MHz"
)

// Defaults returns the configuration every run starts from before the file
// is merged in.
func Defaults() *Config {
	return &Config{
		Slurm: Slurm{
			Nodes:        DefaultNodes,
			TasksPerNode: DefaultTasksPerNode,
			Plane:        DefaultPlane,
			MemMB:        DefaultMemMB,
			Partition:    DefaultPartition,
			Container:    DefaultContainer,
			MPIWrapper:   DefaultMPIWrapper,
			ScriptDir:    DefaultScriptDir,
		},
		Workflow: Workflow{
			NSPW:    DefaultNSPW,
			SPW:     DefaultBand,
			SelfCal: true,
			Imaging: true,
		},
		SelfCal: SelfCal{
			NLoops:    2,
			SolInt:    []string{"10min"},
			CalMode:   []string{"p"},
			Threshold: []string{"0.5mJy"},
		},
		Image: Image{
			Size:      []int{1024},
			Cell:      "1arcsec",
			Niter:     1000,
			Robust:    0,
			Weighting: "briggs",
		},
		Stages: map[catalog.Kind]catalog.Request{},
	}
}
