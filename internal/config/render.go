package config

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

const renderHeader = `# Effective configuration rendered at build time.
# Generated jobs read this copy; the source file stays untouched.

`

// Render writes the fully resolved model back out as HCL. The output is
// deterministic and parses back to the same model, so a rendered copy can
// stand in for the original file on later runs.
func Render(c *Config) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	data := root.AppendNewBlock("data", nil).Body()
	data.SetAttributeValue("vis", cty.StringVal(c.Data.Vis))
	root.AppendNewline()

	slurm := root.AppendNewBlock("slurm", nil).Body()
	slurm.SetAttributeValue("nodes", cty.NumberIntVal(int64(c.Slurm.Nodes)))
	slurm.SetAttributeValue("ntasks_per_node", cty.NumberIntVal(int64(c.Slurm.TasksPerNode)))
	slurm.SetAttributeValue("plane", cty.NumberIntVal(int64(c.Slurm.Plane)))
	slurm.SetAttributeValue("mem", cty.NumberIntVal(c.Slurm.MemMB))
	slurm.SetAttributeValue("partition", cty.StringVal(c.Slurm.Partition))
	slurm.SetAttributeValue("submit", cty.BoolVal(c.Slurm.Submit))
	slurm.SetAttributeValue("verbose", cty.BoolVal(c.Slurm.Verbose))
	slurm.SetAttributeValue("container", cty.StringVal(c.Slurm.Container))
	slurm.SetAttributeValue("mpi_wrapper", cty.StringVal(c.Slurm.MPIWrapper))
	slurm.SetAttributeValue("script_dir", cty.StringVal(c.Slurm.ScriptDir))
	slurm.SetAttributeValue("precal_scripts", stringList(c.Slurm.PreCalScripts))
	slurm.SetAttributeValue("postcal_scripts", stringList(c.Slurm.PostCalScripts))
	root.AppendNewline()

	workflow := root.AppendNewBlock("workflow", nil).Body()
	workflow.SetAttributeValue("nspw", cty.NumberIntVal(int64(c.Workflow.NSPW)))
	workflow.SetAttributeValue("spw", cty.StringVal(c.Workflow.SPW))
	workflow.SetAttributeValue("polarization", cty.BoolVal(c.Workflow.Polarization))
	workflow.SetAttributeValue("selfcal", cty.BoolVal(c.Workflow.SelfCal))
	workflow.SetAttributeValue("imaging", cty.BoolVal(c.Workflow.Imaging))
	root.AppendNewline()

	selfcal := root.AppendNewBlock("selfcal", nil).Body()
	selfcal.SetAttributeValue("nloops", cty.NumberIntVal(int64(c.SelfCal.NLoops)))
	selfcal.SetAttributeValue("loop", cty.NumberIntVal(int64(c.SelfCal.Loop)))
	selfcal.SetAttributeValue("solint", stringList(c.SelfCal.SolInt))
	selfcal.SetAttributeValue("calmode", stringList(c.SelfCal.CalMode))
	selfcal.SetAttributeValue("threshold", stringList(c.SelfCal.Threshold))
	root.AppendNewline()

	image := root.AppendNewBlock("image", nil).Body()
	image.SetAttributeValue("imsize", intList(c.Image.Size))
	image.SetAttributeValue("cell", cty.StringVal(c.Image.Cell))
	image.SetAttributeValue("niter", cty.NumberIntVal(int64(c.Image.Niter)))
	image.SetAttributeValue("robust", cty.NumberFloatVal(c.Image.Robust))
	image.SetAttributeValue("weighting", cty.StringVal(c.Image.Weighting))

	for _, kind := range c.OverriddenKinds() {
		r := c.Stages[kind]
		root.AppendNewline()
		stage := root.AppendNewBlock("stage", []string{string(kind)}).Body()
		if r.Nodes != 0 {
			stage.SetAttributeValue("nodes", cty.NumberIntVal(int64(r.Nodes)))
		}
		if r.TasksPerNode != 0 {
			stage.SetAttributeValue("ntasks_per_node", cty.NumberIntVal(int64(r.TasksPerNode)))
		}
		if r.CPUsPerTask != 0 {
			stage.SetAttributeValue("cpus_per_task", cty.NumberIntVal(int64(r.CPUsPerTask)))
		}
		if r.Plane != 0 {
			stage.SetAttributeValue("plane", cty.NumberIntVal(int64(r.Plane)))
		}
		if r.MemPerNodeMB != 0 {
			stage.SetAttributeValue("mem", cty.NumberIntVal(r.MemPerNodeMB))
		}
		if r.Time != "" {
			stage.SetAttributeValue("time", cty.StringVal(r.Time))
		}
	}

	return append([]byte(renderHeader), f.Bytes()...)
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, s := range values {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

func intList(values []int) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	vals := make([]cty.Value, len(values))
	for i, n := range values {
		vals[i] = cty.NumberIntVal(int64(n))
	}
	return cty.ListVal(vals)
}
