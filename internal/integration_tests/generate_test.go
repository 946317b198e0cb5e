package integration_tests

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/obsworks/calpipe/internal/cluster"
	"github.com/obsworks/calpipe/internal/config"
	"github.com/obsworks/calpipe/internal/graph"
	"github.com/obsworks/calpipe/internal/pipeline"
)

// generateRun drives the whole stack on an in-memory filesystem: the
// configuration text is loaded, validated, compiled into a graph and emitted
// under run/.
func generateRun(t *testing.T, configHCL string) (afero.Fs, *graph.Graph, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "calpipe.hcl", []byte(configHCL), 0o644))

	cfg, err := config.Load(context.Background(), fs, "calpipe.hcl")
	if err != nil {
		return fs, nil, err
	}

	g, err := pipeline.New(fs, cluster.Default()).Generate(context.Background(), cfg, "run")
	return fs, g, err
}

func readRunFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	body, err := afero.ReadFile(fs, "run/"+name)
	require.NoError(t, err)
	return string(body)
}
