package cluster

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/obsworks/calpipe/internal/catalog"
)

// Resource names used in ResourceExceededError.
const (
	ResourceNodes  = "nodes"
	ResourceTasks  = "tasks per node"
	ResourceMemory = "memory per node"
)

// ResourceExceededError reports one stage asking for more of one resource
// than the cluster can give.
type ResourceExceededError struct {
	Kind      catalog.Kind
	Resource  string
	Requested int64
	Limit     int64
}

func (e *ResourceExceededError) Error() string {
	if e.Resource == ResourceMemory {
		return fmt.Sprintf("stage %s: requested %s per node, cluster allows %s",
			e.Kind,
			humanize.IBytes(uint64(e.Requested)<<20),
			humanize.IBytes(uint64(e.Limit)<<20))
	}
	return fmt.Sprintf("stage %s: requested %d %s, cluster allows %d",
		e.Kind, e.Requested, e.Resource, e.Limit)
}

// Validate checks every resolved request against the profile's ceilings and
// reports all violations together, so the operator fixes the configuration
// in one pass instead of resubmitting per mistake.
func Validate(p Profile, cat *catalog.Catalog, reqs map[catalog.Kind]catalog.Request) error {
	var errs []error
	for _, kind := range cat.Order() {
		req, ok := reqs[kind]
		if !ok {
			continue
		}
		tpl, ok := cat.Template(kind)
		if !ok {
			continue
		}

		if req.Nodes > p.MaxNodes {
			errs = append(errs, &ResourceExceededError{
				Kind: kind, Resource: ResourceNodes,
				Requested: int64(req.Nodes), Limit: int64(p.MaxNodes),
			})
		}
		if req.TasksPerNode > p.MaxTasksPerNode {
			errs = append(errs, &ResourceExceededError{
				Kind: kind, Resource: ResourceTasks,
				Requested: int64(req.TasksPerNode), Limit: int64(p.MaxTasksPerNode),
			})
		}

		memLimit := p.MaxMemPerNodeMB
		if tpl.HighMem {
			memLimit = p.MaxHighMemPerNodeMB
		}
		if req.MemPerNodeMB > memLimit {
			errs = append(errs, &ResourceExceededError{
				Kind: kind, Resource: ResourceMemory,
				Requested: req.MemPerNodeMB, Limit: memLimit,
			})
		}
	}
	return errors.Join(errs...)
}
