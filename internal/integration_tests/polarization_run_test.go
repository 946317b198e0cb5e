package integration_tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PolarizationRun(t *testing.T) {
	configHCL := `
		data {
			vis = "/scratch/obs/1538856059.ms"
		}

		workflow {
			nspw         = 1
			polarization = true
			selfcal      = false
			imaging      = false
		}
	`
	fs, _, err := generateRun(t, configHCL)
	require.NoError(t, err)

	calibrate := readRunFile(t, fs, "jobScripts/calibrate_00.sbatch")

	solve := strings.Index(calibrate, "xy_yx_solve.py")
	apply := strings.Index(calibrate, "xy_yx_apply.py")
	split := strings.Index(calibrate, "split.py")

	require.NotEqual(t, -1, solve, "polarization solver missing")
	require.NotEqual(t, -1, apply, "polarization applier missing")
	require.NotEqual(t, -1, split)

	assert.Less(t, solve, apply, "solve runs before apply")
	assert.Less(t, apply, split, "polarization runs before the final split")
}
