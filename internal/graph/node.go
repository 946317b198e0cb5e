package graph

import (
	"fmt"
	"strconv"

	"github.com/obsworks/calpipe/internal/catalog"
)

// JobNode is one schedulable unit of work. Nodes are created by Build and
// immutable afterwards; the emitters read them but never change them.
type JobNode struct {
	ID   string
	Kind catalog.Kind

	// Index is the instance's absolute position within its kind: the SPW
	// number, the self-calibration iteration, or the aux script position.
	Index int

	// SPW is the window a per-SPW instance operates on, in selection syntax.
	SPW string

	// Loop is the absolute self-calibration iteration. Selfcal nodes only.
	Loop int

	// Script is the operator-declared script an aux node runs. Toolkit
	// stages leave it empty and list their sequence in Scripts.
	Script  string
	Scripts []string

	Parallel  bool
	Resources catalog.Request

	// WorkDir is the job's run-relative working directory, "" for the run
	// root. LogDir is where the job's log artifacts land.
	WorkDir string
	LogDir  string

	// Artifacts lists the node's run-relative intermediate outputs, the
	// ones the cleanup script may remove after the operator confirms.
	Artifacts []string

	// DependsOn holds predecessor ids, sorted and without duplicates.
	DependsOn []string
}

// NodeID composes the stable identifier for a stage instance. Singletons
// take the bare kind; expanded kinds append a zero-padded index wide enough
// for the instance count, two digits at minimum.
func NodeID(kind catalog.Kind, cardinality catalog.Cardinality, index, count int) string {
	if cardinality == catalog.Singleton {
		return string(kind)
	}
	return fmt.Sprintf("%s_%0*d", kind, indexWidth(count), index)
}

// SPWDir names the per-window subdirectory for an SPW index.
func SPWDir(index, count int) string {
	return fmt.Sprintf("spw%0*d", indexWidth(count), index)
}

func indexWidth(count int) int {
	if w := len(strconv.Itoa(count - 1)); w > 2 {
		return w
	}
	return 2
}
