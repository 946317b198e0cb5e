// Package cluster describes the compute cluster the generated jobs target
// and validates resolved resource requests against its ceilings.
//
// Validation happens before any script is written. A request the scheduler
// would bounce at submit time, hours after generation, is caught here with
// the stage and the ceiling named.
package cluster

// Profile holds the hard per-job ceilings of the target cluster.
type Profile struct {
	Name string

	MaxNodes        int
	MaxTasksPerNode int

	// MaxMemPerNodeMB is the ceiling for ordinary compute nodes.
	// MaxHighMemPerNodeMB applies to stages the catalog marks HighMem,
	// which the scheduler places on the large-memory nodes.
	MaxMemPerNodeMB     int64
	MaxHighMemPerNodeMB int64
}

// Default returns the profile of the cluster the pipeline targets.
func Default() Profile {
	return Profile{
		Name:                "ilifu",
		MaxNodes:            30,
		MaxTasksPerNode:     128,
		MaxMemPerNodeMB:     230 * 1024,
		MaxHighMemPerNodeMB: 480 * 1024,
	}
}
