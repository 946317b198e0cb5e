package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsworks/calpipe/internal/catalog"
	"github.com/obsworks/calpipe/internal/config"
)

func TestRender_RoundTripsThroughParse(t *testing.T) {
	// --- Arrange ---
	cfg := config.Defaults()
	cfg.Data.Vis = "/scratch/obs/1538856059.ms"
	cfg.Workflow.Polarization = true
	cfg.Slurm.PreCalScripts = []string{"calibrator_times.py"}
	cfg.Stages[catalog.KindConcat] = catalog.Request{MemPerNodeMB: 220000, Time: "1-00:00:00"}
	cfg.Stages[catalog.KindSelfCal] = catalog.Request{Nodes: 8}

	// --- Act ---
	rendered := config.Render(cfg)
	back, err := config.Parse(rendered, "rendered.hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(cfg, back, cmpopts.EquateEmpty()),
		"rendered configuration must parse back to the same model")
}

func TestRender_IsDeterministic(t *testing.T) {
	// --- Arrange ---
	cfg := config.Defaults()
	cfg.Data.Vis = "/scratch/obs/target.ms"
	cfg.Stages[catalog.KindScienceImage] = catalog.Request{Nodes: 2}
	cfg.Stages[catalog.KindConcat] = catalog.Request{MemPerNodeMB: 200000}
	cfg.Stages[catalog.KindPlotCal] = catalog.Request{MemPerNodeMB: 4096}

	// --- Act ---
	first := config.Render(cfg)
	second := config.Render(cfg)

	// --- Assert ---
	assert.Equal(t, string(first), string(second))
}
