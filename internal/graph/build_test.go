package graph_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/graph"
)

// buildConfig returns a validated configuration for graph tests: four SPWs,
// no self-calibration, no imaging, no aux scripts. Tests switch individual
// features back on from this floor.
func buildConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Data.Vis = "/scratch/obs/1538856059.ms"
	cfg.Workflow.NSPW = 4
	cfg.Workflow.SelfCal = false
	cfg.Workflow.Imaging = false
	require.NoError(t, cfg.Validate())
	return cfg
}

func build(t *testing.T, cfg *config.Config) *graph.Graph {
	t.Helper()
	require.NoError(t, cfg.Validate())
	g, err := graph.Build(context.Background(), cfg, catalog.Default())
	require.NoError(t, err)
	return g
}

func dependsOn(t *testing.T, g *graph.Graph, id string) []string {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %q missing from graph", id)
	return n.DependsOn
}

func TestBuild_CalibrationOnlyScenario(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	assert.Equal(t, 10, g.Len(), "1 partition + 4 calibrate + 4 plotcal + 1 concat")
	assert.Equal(t, 12, g.Edges())

	assert.Empty(t, dependsOn(t, g, "partition"), "partition is the root")
	for i := 0; i < 4; i++ {
		cal := fmt.Sprintf("calibrate_%02d", i)
		plot := fmt.Sprintf("plotcal_%02d", i)
		assert.Equal(t, []string{"partition"}, dependsOn(t, g, cal))
		assert.Equal(t, []string{cal}, dependsOn(t, g, plot),
			"plotcal must depend solely on its same-index calibrate")
	}
	assert.Equal(t,
		[]string{"calibrate_00", "calibrate_01", "calibrate_02", "calibrate_03"},
		dependsOn(t, g, "concat"),
		"concat must wait for every calibrate instance")
}

func TestBuild_CalibratePlotCounts(t *testing.T) {
	for _, nspw := range []int{1, 3, 16} {
		t.Run(fmt.Sprintf("nspw=%d", nspw), func(t *testing.T) {
			// --- Arrange ---
			cfg := buildConfig(t)
			cfg.Workflow.NSPW = nspw

			// --- Act ---
			g := build(t, cfg)

			// --- Assert ---
			var calibrates, plots int
			for _, n := range g.Nodes() {
				switch n.Kind {
				case catalog.KindCalibrate:
					calibrates++
				case catalog.KindPlotCal:
					plots++
				}
			}
			assert.Equal(t, nspw, calibrates)
			assert.Equal(t, nspw, plots)
		})
	}
}

func TestBuild_SelfCalChain(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)
	cfg.Workflow.NSPW = 2
	cfg.Workflow.SelfCal = true
	cfg.Workflow.Imaging = true
	cfg.SelfCal.NLoops = 2

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	assert.Equal(t, 9, g.Len())
	assert.Equal(t, []string{"concat"}, dependsOn(t, g, "selfcal_00"))
	assert.Equal(t, []string{"selfcal_00"}, dependsOn(t, g, "selfcal_01"))
	assert.Equal(t, []string{"selfcal_01"}, dependsOn(t, g, "science_image"))

	n, _ := g.Node("selfcal_01")
	assert.Equal(t, 1, n.Loop)
	assert.Equal(t, []string{"quick_tclean.py", "selfcal_solve.py"}, n.Scripts)
}

func TestBuild_SelfCalDisabled(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)
	cfg.Workflow.Imaging = true

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	for _, n := range g.Nodes() {
		assert.NotEqual(t, catalog.KindSelfCal, n.Kind,
			"no selfcal node may appear when the feature is off")
	}
	assert.Equal(t, []string{"concat"}, dependsOn(t, g, "science_image"),
		"science_image falls back to concat without a selfcal tail")
}

func TestBuild_AuxScriptsGateAndTail(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)
	cfg.Workflow.Imaging = true
	cfg.Slurm.PreCalScripts = []string{"calibrator_times.py", "flag_known_rfi.py"}
	cfg.Slurm.PostCalScripts = []string{"export_products.py"}

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	assert.Empty(t, dependsOn(t, g, "precal_00"))
	assert.Empty(t, dependsOn(t, g, "precal_01"), "pre scripts are mutually independent")
	assert.Equal(t, []string{"precal_00", "precal_01"}, dependsOn(t, g, "partition"),
		"every pre script gates partition")
	assert.Equal(t, []string{"science_image"}, dependsOn(t, g, "postcal_00"),
		"post scripts hang off the terminal stage")

	pre, _ := g.Node("precal_01")
	assert.Equal(t, "flag_known_rfi.py", pre.Script)
}

func TestBuild_PostCalTailWithoutImaging(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)
	cfg.Workflow.SelfCal = true
	cfg.SelfCal.NLoops = 3
	cfg.Slurm.PostCalScripts = []string{"export_products.py"}

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	assert.Equal(t, []string{"selfcal_02"}, dependsOn(t, g, "postcal_00"),
		"without imaging the selfcal tail is terminal")
}

func TestBuild_ResumeBuildsOnlyTheTail(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)
	cfg.Workflow.SelfCal = true
	cfg.Workflow.Imaging = true
	cfg.SelfCal.NLoops = 4
	cfg.SelfCal.Loop = 2

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	ids := make([]string, 0, g.Len())
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"selfcal_02", "selfcal_03", "science_image"}, ids,
		"a resumed run keeps absolute iteration numbering")

	assert.Empty(t, dependsOn(t, g, "selfcal_02"), "the first tail node is the root")
	assert.Equal(t, []string{"selfcal_02"}, dependsOn(t, g, "selfcal_03"))
	assert.Equal(t, []string{"selfcal_03"}, dependsOn(t, g, "science_image"))
}

func TestBuild_PolarizationSplicesCalibrateSequence(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)
	cfg.Workflow.Polarization = true

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	n, ok := g.Node("calibrate_00")
	require.True(t, ok)
	require.Len(t, n.Scripts, 11)
	assert.Equal(t, "xy_yx_solve.py", n.Scripts[8])
	assert.Equal(t, "xy_yx_apply.py", n.Scripts[9])
	assert.Equal(t, "split.py", n.Scripts[10], "the split still closes the sequence")

	// Off by default: no polarization scripts.
	plain := build(t, buildConfig(t))
	p, _ := plain.Node("calibrate_00")
	assert.Len(t, p.Scripts, 9)
}

func TestBuild_PerSPWPlacement(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)

	// --- Act ---
	g := build(t, cfg)

	// --- Assert ---
	cal, _ := g.Node("calibrate_02")
	assert.Equal(t, "spw02", cal.WorkDir)
	assert.Equal(t, "spw02/logs", cal.LogDir)
	assert.Equal(t, "0:1280~1480MHz", cal.SPW)

	part, _ := g.Node("partition")
	assert.Empty(t, part.WorkDir)
	assert.Equal(t, "logs", part.LogDir)
}

func TestBuild_Idempotence(t *testing.T) {
	// --- Arrange ---
	cfg := buildConfig(t)
	cfg.Workflow.SelfCal = true
	cfg.Workflow.Imaging = true
	cfg.Slurm.PostCalScripts = []string{"export_products.py"}

	snapshot := func(g *graph.Graph) map[string][]string {
		out := make(map[string][]string, g.Len())
		for _, n := range g.Nodes() {
			out[n.ID] = n.DependsOn
		}
		return out
	}

	// --- Act ---
	first := build(t, cfg)
	second := build(t, cfg)

	// --- Assert ---
	assert.Empty(t, cmp.Diff(snapshot(first), snapshot(second)),
		"rebuilding an unmodified configuration must yield the same graph")
}

func TestBuild_SortsForEveryFeatureMix(t *testing.T) {
	for _, selfcal := range []bool{false, true} {
		for _, imaging := range []bool{false, true} {
			name := fmt.Sprintf("selfcal=%t imaging=%t", selfcal, imaging)
			t.Run(name, func(t *testing.T) {
				cfg := buildConfig(t)
				cfg.Workflow.SelfCal = selfcal
				cfg.Workflow.Imaging = imaging

				g := build(t, cfg)

				_, err := g.TopologicalSort()
				assert.NoError(t, err)
			})
		}
	}
}
