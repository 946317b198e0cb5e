// Package catalog holds the versioned table of pipeline stage templates.
//
// The table is static: configuration never adds or removes kinds, it only
// decides which of them expand into jobs and with what resources. Keeping
// the table in one place makes the job graph a pure function of the
// configuration and the catalog version.
package catalog

import "sort"

// Version identifies the stage table. It changes whenever a template, its
// expansion rule or its linking rule changes, so two artifact trees built
// from the same configuration and the same version are interchangeable.
const Version = "1.1"

// Catalog is an immutable set of stage templates in pipeline order.
type Catalog struct {
	order     []Kind
	templates map[Kind]Template
}

// Default returns the built-in stage table.
func Default() *Catalog {
	serial := Request{Nodes: 1, TasksPerNode: 1, CPUsPerTask: 1, Plane: 1}

	aux := serial
	aux.MemPerNodeMB = 8192

	plot := serial
	plot.MemPerNodeMB = 16384

	highmem := serial
	highmem.MemPerNodeMB = 196608

	templates := []Template{
		{
			Kind:        KindPreCal,
			Cardinality: PerScript,
			Link:        LinkAll,
			Walltime:    Short,
			Base:        aux,
		},
		{
			Kind:         KindPartition,
			Cardinality:  Singleton,
			Link:         LinkAll,
			Predecessors: []Kind{KindPreCal},
			Parallel:     true,
			Walltime:     Standard,
			Scripts:      []string{"partition.py"},
		},
		{
			Kind:         KindCalibrate,
			Cardinality:  PerSPW,
			Link:         LinkAll,
			Predecessors: []Kind{KindPartition},
			Parallel:     true,
			Walltime:     Standard,
			Scripts: []string{
				"flag_round_1.py",
				"run_setjy.py",
				"parallel_cal.py",
				"parallel_cal_apply.py",
				"flag_round_2.py",
				"run_setjy.py",
				"cross_cal.py",
				"cross_cal_apply.py",
				"split.py",
			},
			PolScripts: []string{"xy_yx_solve.py", "xy_yx_apply.py"},
		},
		{
			Kind:         KindPlotCal,
			Cardinality:  PerSPW,
			Link:         LinkSameIndex,
			Predecessors: []Kind{KindCalibrate},
			Walltime:     Short,
			Base:         plot,
			Scripts:      []string{"plot_solutions.py"},
		},
		{
			Kind:         KindConcat,
			Cardinality:  Singleton,
			Link:         LinkAll,
			Predecessors: []Kind{KindCalibrate},
			HighMem:      true,
			Walltime:     Standard,
			Base:         highmem,
			Scripts:      []string{"concat.py"},
		},
		{
			Kind:         KindSelfCal,
			Cardinality:  PerLoop,
			Link:         LinkChain,
			Predecessors: []Kind{KindConcat},
			Parallel:     true,
			Walltime:     Long,
			Scripts:      []string{"quick_tclean.py", "selfcal_solve.py"},
		},
		{
			Kind:         KindScienceImage,
			Cardinality:  Singleton,
			Link:         LinkTail,
			Predecessors: []Kind{KindSelfCal, KindConcat},
			Parallel:     true,
			HighMem:      true,
			Walltime:     Long,
			Base:         Request{MemPerNodeMB: 196608},
			Scripts:      []string{"science_image.py"},
		},
		{
			Kind:         KindPostCal,
			Cardinality:  PerScript,
			Link:         LinkTail,
			Predecessors: []Kind{KindScienceImage, KindSelfCal, KindConcat},
			Walltime:     Short,
			Base:         aux,
		},
	}

	c := &Catalog{templates: make(map[Kind]Template, len(templates))}
	for _, t := range templates {
		c.order = append(c.order, t.Kind)
		c.templates[t.Kind] = t
	}
	return c
}

// Order returns the stage kinds in pipeline order. The slice is a copy.
func (c *Catalog) Order() []Kind {
	out := make([]Kind, len(c.order))
	copy(out, c.order)
	return out
}

// Template returns the template for a kind.
func (c *Catalog) Template(k Kind) (Template, bool) {
	t, ok := c.templates[k]
	return t, ok
}

// Lookup resolves a configuration label to a stage kind.
func (c *Catalog) Lookup(name string) (Kind, bool) {
	_, ok := c.templates[Kind(name)]
	if !ok {
		return "", false
	}
	return Kind(name), ok
}

// Names returns every stage label in lexical order, for error messages.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.templates))
	for k := range c.templates {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
