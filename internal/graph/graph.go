package graph

import (
	"fmt"
	"slices"
	"strings"
)

// Graph is the complete job set plus dependency edges for one run. It is
// built single-threaded and read-only afterwards.
type Graph struct {
	nodes map[string]*JobNode
	order []string
	edges int
}

// New returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*JobNode)}
}

// Add inserts a node. A duplicate id is a builder defect, not an operator
// mistake, so it is returned as a plain error.
func (g *Graph) Add(n *JobNode) error {
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("duplicate job id: %s", n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*JobNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node in insertion order. The slice is a copy.
func (g *Graph) Nodes() []*JobNode {
	out := make([]*JobNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.order) }

// Edges returns the dependency edge count.
func (g *Graph) Edges() int { return g.edges }

// AddDependency records that id may not start until dependsOn has completed
// successfully. Both nodes must already exist; self-references are rejected.
func (g *Graph) AddDependency(id, dependsOn string) error {
	if id == dependsOn {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", id, id)
	}
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("dependent node not found: %s", id)
	}
	if _, ok := g.nodes[dependsOn]; !ok {
		return fmt.Errorf("predecessor node not found: %s", dependsOn)
	}

	if slices.Contains(n.DependsOn, dependsOn) {
		return nil
	}
	n.DependsOn = append(n.DependsOn, dependsOn)
	slices.Sort(n.DependsOn)
	g.edges++
	return nil
}

// Roots returns the nodes with no predecessors, in insertion order.
func (g *Graph) Roots() []*JobNode {
	var out []*JobNode
	for _, id := range g.order {
		if n := g.nodes[id]; len(n.DependsOn) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// CyclicDependencyError reports a dependency cycle. A cycle can only come
// from a defective stage table, never from operator input, so callers treat
// it as an internal failure.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle among jobs: %s", strings.Join(e.Cycle, " -> "))
}

// TopologicalSort returns the nodes ordered so that every node comes after
// all of its predecessors. Ties break by insertion order, keeping the
// result identical across rebuilds of the same configuration.
func (g *Graph) TopologicalSort() ([]*JobNode, error) {
	done := make(map[string]bool, len(g.order))
	out := make([]*JobNode, 0, len(g.order))

	for len(out) < len(g.order) {
		progressed := false
		for _, id := range g.order {
			if done[id] {
				continue
			}
			n := g.nodes[id]

			ready := true
			for _, dep := range n.DependsOn {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				done[id] = true
				out = append(out, n)
				progressed = true
			}
		}
		if !progressed {
			return nil, &CyclicDependencyError{Cycle: g.findCycle()}
		}
	}
	return out, nil
}

// findCycle walks the dependency edges depth-first with the classic
// temporary/permanent marking and reconstructs the first cycle it meets
// from the recursion stack.
func (g *Graph) findCycle() []string {
	permanent := make(map[string]bool, len(g.order))
	temporary := make(map[string]bool)
	var stack []string

	var cycle []string
	var visit func(id string) bool
	visit = func(id string) bool {
		if permanent[id] {
			return false
		}
		if temporary[id] {
			start := slices.Index(stack, id)
			cycle = append(slices.Clone(stack[start:]), id)
			return true
		}

		temporary[id] = true
		stack = append(stack, id)
		for _, dep := range g.nodes[id].DependsOn {
			if visit(dep) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, id)
		permanent[id] = true
		return false
	}

	for _, id := range g.order {
		if !permanent[id] && visit(id) {
			return cycle
		}
	}
	return nil
}
