package config

// The raw file schema. Every attribute is optional at decode time so that
// the parser only ever reports syntax and type problems; requiredness and
// domain rules are enforced afterwards, against the merged model, where we
// can attach the dotted key the operator actually has to fix.

type fileSchema struct {
	Data     *dataBlock     `hcl:"data,block"`
	Slurm    *slurmBlock    `hcl:"slurm,block"`
	Workflow *workflowBlock `hcl:"workflow,block"`
	SelfCal  *selfcalBlock  `hcl:"selfcal,block"`
	Image    *imageBlock    `hcl:"image,block"`
	Stages   []stageBlock   `hcl:"stage,block"`
}

type dataBlock struct {
	Vis *string `hcl:"vis,optional"`
}

type slurmBlock struct {
	Nodes          *int     `hcl:"nodes,optional"`
	TasksPerNode   *int     `hcl:"ntasks_per_node,optional"`
	Plane          *int     `hcl:"plane,optional"`
	MemMB          *int64   `hcl:"mem,optional"`
	Partition      *string  `hcl:"partition,optional"`
	Submit         *bool    `hcl:"submit,optional"`
	Verbose        *bool    `hcl:"verbose,optional"`
	Container      *string  `hcl:"container,optional"`
	MPIWrapper     *string  `hcl:"mpi_wrapper,optional"`
	ScriptDir      *string  `hcl:"script_dir,optional"`
	PreCalScripts  []string `hcl:"precal_scripts,optional"`
	PostCalScripts []string `hcl:"postcal_scripts,optional"`
}

type workflowBlock struct {
	NSPW         *int    `hcl:"nspw,optional"`
	SPW          *string `hcl:"spw,optional"`
	Polarization *bool   `hcl:"polarization,optional"`
	SelfCal      *bool   `hcl:"selfcal,optional"`
	Imaging      *bool   `hcl:"imaging,optional"`
}

type selfcalBlock struct {
	NLoops    *int     `hcl:"nloops,optional"`
	Loop      *int     `hcl:"loop,optional"`
	SolInt    []string `hcl:"solint,optional"`
	CalMode   []string `hcl:"calmode,optional"`
	Threshold []string `hcl:"threshold,optional"`
}

type imageBlock struct {
	Size      []int    `hcl:"imsize,optional"`
	Cell      *string  `hcl:"cell,optional"`
	Niter     *int     `hcl:"niter,optional"`
	Robust    *float64 `hcl:"robust,optional"`
	Weighting *string  `hcl:"weighting,optional"`
}

type stageBlock struct {
	Name         string  `hcl:"name,label"`
	Nodes        *int    `hcl:"nodes,optional"`
	TasksPerNode *int    `hcl:"ntasks_per_node,optional"`
	CPUsPerTask  *int    `hcl:"cpus_per_task,optional"`
	Plane        *int    `hcl:"plane,optional"`
	MemMB        *int64  `hcl:"mem,optional"`
	Time         *string `hcl:"time,optional"`
}
