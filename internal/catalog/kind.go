package catalog

// Kind identifies one logical pipeline stage. The set of kinds is fixed;
// configuration flags decide which of them expand into jobs for a given run.
type Kind string

const (
	// KindPreCal is an operator-supplied script run before the pipeline proper.
	KindPreCal Kind = "precal"
	// KindPartition splits the measurement set into per-SPW partitions.
	KindPartition Kind = "partition"
	// KindCalibrate performs the full cross-calibration sequence on one SPW.
	KindCalibrate Kind = "calibrate"
	// KindPlotCal renders diagnostic plots of one SPW's calibration solutions.
	KindPlotCal Kind = "plotcal"
	// KindConcat merges all calibrated SPW partitions back into one set.
	KindConcat Kind = "concat"
	// KindSelfCal is one image-and-solve iteration of the self-calibration loop.
	KindSelfCal Kind = "selfcal"
	// KindScienceImage produces the final science image from the merged set.
	KindScienceImage Kind = "science_image"
	// KindPostCal is an operator-supplied script run after the pipeline proper.
	KindPostCal Kind = "postcal"
)

// Cardinality is the expansion rule deciding how many job nodes a stage
// template instantiates for a given configuration.
type Cardinality int

const (
	// Singleton expands to exactly one job node.
	Singleton Cardinality = iota
	// PerSPW expands to one job node per spectral window.
	PerSPW
	// PerLoop expands to one job node per self-calibration iteration.
	PerLoop
	// PerScript expands to one job node per declared auxiliary script.
	PerScript
)

// LinkRule decides how a stage's template predecessors resolve to concrete
// dependency edges once both sides have been expanded.
type LinkRule int

const (
	// LinkAll depends on every instance of every predecessor kind.
	LinkAll LinkRule = iota
	// LinkSameIndex depends on the predecessor instance with the same index.
	LinkSameIndex
	// LinkChain makes instance k depend on instance k-1 of the same kind;
	// the first instance falls back to every instance of the predecessor kinds.
	LinkChain
	// LinkTail depends on the last instance of the first predecessor kind
	// that expanded to any jobs at all.
	LinkTail
)

// WalltimeClass buckets stages by how long the cluster should let them run.
type WalltimeClass int

const (
	// Short covers plotting and auxiliary scripts.
	Short WalltimeClass = iota
	// Standard covers partitioning, per-SPW calibration and concatenation.
	Standard
	// Long covers self-calibration iterations and science imaging.
	Long
)

// Limit returns the SLURM time limit for the class.
func (w WalltimeClass) Limit() string {
	switch w {
	case Short:
		return "03:00:00"
	case Long:
		return "72:00:00"
	default:
		return "12:00:00"
	}
}
