package config

import (
	"fmt"
	"regexp"
	"strings"
)

var timePattern = regexp.MustCompile(`^(\d+-)?\d{1,2}:\d{2}:\d{2}$`)

var weightings = map[string]bool{
	"natural": true,
	"uniform": true,
	"briggs":  true,
}

// Validate checks the merged model against the domain rules and returns the
// first violation. Cluster ceilings are not checked here; that needs the
// stage table and belongs to the resource validator.
func (c *Config) Validate() error {
	if c.Data.Vis == "" {
		return &MissingError{Key: "data.vis"}
	}

	if err := c.validateSlurm(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if c.Workflow.SelfCal {
		if err := c.validateSelfCal(); err != nil {
			return err
		}
	}
	if err := c.validateImage(); err != nil {
		return err
	}
	return c.validateStages()
}

func (c *Config) validateSlurm() error {
	s := c.Slurm
	switch {
	case s.Nodes < 1:
		return &ValueError{Key: "slurm.nodes", Value: s.Nodes, Reason: "must be at least 1"}
	case s.TasksPerNode < 1:
		return &ValueError{Key: "slurm.ntasks_per_node", Value: s.TasksPerNode, Reason: "must be at least 1"}
	case s.Plane < 1:
		return &ValueError{Key: "slurm.plane", Value: s.Plane, Reason: "must be at least 1"}
	case s.Plane > s.TasksPerNode:
		return &ValueError{Key: "slurm.plane", Value: s.Plane,
			Reason: fmt.Sprintf("cannot exceed ntasks_per_node (%d)", s.TasksPerNode)}
	case s.MemMB < 1:
		return &ValueError{Key: "slurm.mem", Value: s.MemMB, Reason: "must be at least 1 MB"}
	case s.Partition == "":
		return &MissingError{Key: "slurm.partition"}
	case s.Container == "":
		return &MissingError{Key: "slurm.container"}
	case s.MPIWrapper == "":
		return &MissingError{Key: "slurm.mpi_wrapper"}
	case s.ScriptDir == "":
		return &MissingError{Key: "slurm.script_dir"}
	}

	for _, list := range []struct {
		key     string
		scripts []string
	}{
		{"slurm.precal_scripts", s.PreCalScripts},
		{"slurm.postcal_scripts", s.PostCalScripts},
	} {
		for _, script := range list.scripts {
			if script == "" {
				return &ValueError{Key: list.key, Value: script, Reason: "script name is empty"}
			}
			if !strings.HasSuffix(script, ".py") {
				return &ValueError{Key: list.key, Value: script,
					Reason: "scripts run under casa and must end in .py"}
			}
		}
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	// SplitBand owns the spw and nspw domain rules.
	_, err := SplitBand(c.Workflow.SPW, c.Workflow.NSPW)
	return err
}

func (c *Config) validateSelfCal() error {
	sc := c.SelfCal
	if sc.NLoops < 1 {
		return &ValueError{Key: "selfcal.nloops", Value: sc.NLoops, Reason: "must be at least 1"}
	}
	if sc.Loop < 0 {
		return &ValueError{Key: "selfcal.loop", Value: sc.Loop, Reason: "cannot be negative"}
	}
	if sc.Loop >= sc.NLoops {
		return &ValueError{Key: "selfcal.loop", Value: sc.Loop,
			Reason: fmt.Sprintf("must be below nloops (%d)", sc.NLoops)}
	}

	for _, list := range []struct {
		key    string
		values []string
	}{
		{"selfcal.solint", sc.SolInt},
		{"selfcal.calmode", sc.CalMode},
		{"selfcal.threshold", sc.Threshold},
	} {
		if len(list.values) == 0 {
			return &MissingError{Key: list.key}
		}
		if len(list.values) != 1 && len(list.values) != sc.NLoops {
			return &ValueError{Key: list.key, Value: len(list.values),
				Reason: fmt.Sprintf("need one entry or one per iteration (%d)", sc.NLoops)}
		}
	}
	return nil
}

func (c *Config) validateImage() error {
	img := c.Image
	if len(img.Size) == 0 {
		return &MissingError{Key: "image.imsize"}
	}
	for _, px := range img.Size {
		if px < 1 {
			return &ValueError{Key: "image.imsize", Value: px, Reason: "must be positive"}
		}
	}
	if img.Cell == "" {
		return &MissingError{Key: "image.cell"}
	}
	if img.Niter < 1 {
		return &ValueError{Key: "image.niter", Value: img.Niter, Reason: "must be at least 1"}
	}
	if img.Robust < -2 || img.Robust > 2 {
		return &ValueError{Key: "image.robust", Value: img.Robust, Reason: "must lie in [-2, 2]"}
	}
	if !weightings[img.Weighting] {
		return &ValueError{Key: "image.weighting", Value: img.Weighting,
			Reason: "must be one of natural, uniform, briggs"}
	}
	return nil
}

func (c *Config) validateStages() error {
	for _, kind := range c.OverriddenKinds() {
		r := c.Stages[kind]
		key := func(field string) string { return fmt.Sprintf("stage.%s.%s", kind, field) }

		if r.Nodes < 0 {
			return &ValueError{Key: key("nodes"), Value: r.Nodes, Reason: "cannot be negative"}
		}
		if r.TasksPerNode < 0 {
			return &ValueError{Key: key("ntasks_per_node"), Value: r.TasksPerNode, Reason: "cannot be negative"}
		}
		if r.CPUsPerTask < 0 {
			return &ValueError{Key: key("cpus_per_task"), Value: r.CPUsPerTask, Reason: "cannot be negative"}
		}
		if r.Plane < 0 {
			return &ValueError{Key: key("plane"), Value: r.Plane, Reason: "cannot be negative"}
		}
		if r.MemPerNodeMB < 0 {
			return &ValueError{Key: key("mem"), Value: r.MemPerNodeMB, Reason: "cannot be negative"}
		}
		if r.Time != "" && !timePattern.MatchString(r.Time) {
			return &ValueError{Key: key("time"), Value: r.Time,
				Reason: `expected "HH:MM:SS" or "D-HH:MM:SS"`}
		}
	}
	return nil
}
