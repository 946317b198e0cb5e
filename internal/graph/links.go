package graph

import "github.com/obsworks/calpipe/internal/catalog"

// link resolves each template's predecessor kinds to concrete edges. Kinds
// that expanded to no nodes are skipped over; that is how disabled stages
// drop out of the chain without leaving gaps.
func link(g *Graph, cat *catalog.Catalog) error {
	byKind := make(map[catalog.Kind][]*JobNode)
	for _, n := range g.Nodes() {
		byKind[n.Kind] = append(byKind[n.Kind], n)
	}

	for _, kind := range cat.Order() {
		nodes := byKind[kind]
		if len(nodes) == 0 {
			continue
		}
		tpl, ok := cat.Template(kind)
		if !ok {
			continue
		}

		var err error
		switch tpl.Link {
		case catalog.LinkAll:
			err = linkAll(g, nodes, tpl.Predecessors, byKind)
		case catalog.LinkSameIndex:
			err = linkSameIndex(g, nodes, tpl.Predecessors, byKind)
		case catalog.LinkChain:
			err = linkChain(g, nodes, tpl.Predecessors, byKind)
		case catalog.LinkTail:
			err = linkTail(g, nodes, tpl.Predecessors, byKind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// linkAll makes every instance depend on every instance of every
// predecessor kind.
func linkAll(g *Graph, nodes []*JobNode, preds []catalog.Kind, byKind map[catalog.Kind][]*JobNode) error {
	for _, n := range nodes {
		for _, pk := range preds {
			for _, pred := range byKind[pk] {
				if err := g.AddDependency(n.ID, pred.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// linkSameIndex pairs each instance with the predecessor instance sharing
// its index.
func linkSameIndex(g *Graph, nodes []*JobNode, preds []catalog.Kind, byKind map[catalog.Kind][]*JobNode) error {
	for _, n := range nodes {
		for _, pk := range preds {
			for _, pred := range byKind[pk] {
				if pred.Index != n.Index {
					continue
				}
				if err := g.AddDependency(n.ID, pred.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// linkChain threads the instances into one sequence. The first instance
// falls back to the predecessor kinds, so a resumed tail whose upstream
// stages never expanded simply becomes the graph's root.
func linkChain(g *Graph, nodes []*JobNode, preds []catalog.Kind, byKind map[catalog.Kind][]*JobNode) error {
	for i, n := range nodes {
		if i > 0 {
			if err := g.AddDependency(n.ID, nodes[i-1].ID); err != nil {
				return err
			}
			continue
		}
		for _, pk := range preds {
			for _, pred := range byKind[pk] {
				if err := g.AddDependency(n.ID, pred.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// linkTail hangs every instance off the last instance of the first
// predecessor kind that expanded to any nodes.
func linkTail(g *Graph, nodes []*JobNode, preds []catalog.Kind, byKind map[catalog.Kind][]*JobNode) error {
	var tail *JobNode
	for _, pk := range preds {
		if instances := byKind[pk]; len(instances) > 0 {
			tail = instances[len(instances)-1]
			break
		}
	}
	if tail == nil {
		return nil
	}

	for _, n := range nodes {
		if err := g.AddDependency(n.ID, tail.ID); err != nil {
			return err
		}
	}
	return nil
}
