package catalog

// Request is one job's resource demand on the cluster. A zero field means
// "inherit from the run-wide slurm defaults"; Merged applies that rule.
type Request struct {
	Nodes        int
	TasksPerNode int
	CPUsPerTask  int
	MemPerNodeMB int64
	Plane        int
	Time         string
}

// Merged overlays the request on top of run-wide defaults. Fields the
// template pinned stay pinned; everything else inherits.
func (r Request) Merged(def Request) Request {
	out := def
	if r.Nodes != 0 {
		out.Nodes = r.Nodes
	}
	if r.TasksPerNode != 0 {
		out.TasksPerNode = r.TasksPerNode
	}
	if r.CPUsPerTask != 0 {
		out.CPUsPerTask = r.CPUsPerTask
	}
	if r.MemPerNodeMB != 0 {
		out.MemPerNodeMB = r.MemPerNodeMB
	}
	if r.Plane != 0 {
		out.Plane = r.Plane
	}
	if r.Time != "" {
		out.Time = r.Time
	}
	return out
}

// Template is the static description of one stage kind: how it expands into
// job nodes, how those nodes link to their predecessors, and what each node
// asks of the cluster.
type Template struct {
	Kind        Kind
	Cardinality Cardinality
	Link        LinkRule

	// Predecessors lists the kinds this stage's jobs depend on. Kinds that
	// expanded to no jobs for a given run are skipped when linking.
	Predecessors []Kind

	// Parallel stages run under the MPI wrapper across the full allocation.
	// Serial stages are pinned to a single task regardless of run defaults.
	Parallel bool

	// HighMem stages are validated against the cluster's high-memory ceiling
	// instead of the standard one.
	HighMem bool

	Walltime WalltimeClass

	// Base is the template's fixed resource demand. Zero fields inherit the
	// run-wide slurm defaults at resolve time.
	Base Request

	// Scripts is the ordered list of toolkit scripts one job of this kind
	// invokes. Empty for kinds whose scripts come from the configuration.
	Scripts []string

	// PolScripts are inserted immediately before the final entry of Scripts
	// when full-polarization calibration is enabled.
	PolScripts []string
}
