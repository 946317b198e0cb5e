package integration_tests

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsworks/calpipe/internal/cluster"
	"github.com/obsworks/calpipe/internal/config"
)

func TestGenerate_OversizedStageWritesNothing(t *testing.T) {
	configHCL := `
		data {
			vis = "/scratch/obs/1538856059.ms"
		}

		workflow {
			nspw    = 4
			selfcal = false
			imaging = false
		}

		stage "calibrate" {
			nodes = 31
		}
	`
	fs, _, err := generateRun(t, configHCL)

	require.Error(t, err)
	var exceeded *cluster.ResourceExceededError
	require.True(t, errors.As(err, &exceeded))

	ok, statErr := afero.DirExists(fs, "run")
	require.NoError(t, statErr)
	assert.False(t, ok, "no artifacts may exist after a rejected configuration")
}

func TestGenerate_MistypedStageLabelSuggestsTheRealOne(t *testing.T) {
	configHCL := `
		data {
			vis = "/scratch/obs/1538856059.ms"
		}

		stage "calibrat" {
			nodes = 4
		}
	`
	_, _, err := generateRun(t, configHCL)

	require.Error(t, err)
	var valueErr *config.ValueError
	require.True(t, errors.As(err, &valueErr))
	assert.Contains(t, valueErr.Reason, `"calibrate"`)
}
