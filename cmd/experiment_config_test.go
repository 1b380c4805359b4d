package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/mat-adamec/100-prisoner-problem/sim"
)

func writeSpec(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadSweepSpec_Full(t *testing.T) {
	path := writeSpec(t, `
version: "1"
experiments:
  - name: classic-loop
    prisoners: 100
    trials: 100000
    strategy: loop
  - name: modified
    prisoners: 7
    envelopes: 9
    trials: 5000
    strategy: random
    schema: divisor
    schema_param: 3
    rounding: raise
    seed: 7
    workers: 4
`)

	spec, err := LoadSweepSpec(path)
	require.NoError(t, err)
	require.Len(t, spec.Experiments, 2)

	first, err := spec.Experiments[0].Config()
	require.NoError(t, err)
	assert.Equal(t, 100, first.Prisoners)
	assert.Equal(t, int64(100000), first.Trials)
	assert.Equal(t, "loop", first.Strategy)
	assert.Equal(t, sim.LowerToFloor, first.Rounding, "rounding defaults to lower")
	assert.Equal(t, int64(42), first.Seed, "seed defaults to 42")

	second, err := spec.Experiments[1].Config()
	require.NoError(t, err)
	assert.Equal(t, 9, second.Envelopes)
	assert.Equal(t, sim.RaiseToCeiling, second.Rounding)
	assert.Equal(t, int64(7), second.Seed)
	assert.Equal(t, 4, second.Workers)
	assert.Equal(t, 3.0, second.Schema(9), "divisor schema 9/3")
}

func TestLoadSweepSpec_DefaultsFlowIntoRunner(t *testing.T) {
	path := writeSpec(t, `
experiments:
  - prisoners: 10
    trials: 100
`)

	spec, err := LoadSweepSpec(path)
	require.NoError(t, err)

	cfg, err := spec.Experiments[0].Config()
	require.NoError(t, err)
	runner, err := sim.NewExperimentRunner(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, runner.Budget())
}

func TestLoadSweepSpec_Errors(t *testing.T) {
	_, err := LoadSweepSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadSweepSpec(writeSpec(t, "experiments: []\n"))
	assert.Error(t, err, "empty sweep rejected")

	_, err = LoadSweepSpec(writeSpec(t, "experiments: ["))
	assert.Error(t, err)
}

func TestExperimentSpec_InvalidSchemaSurfaces(t *testing.T) {
	spec := ExperimentSpec{Prisoners: 10, Trials: 100, Schema: "golden-ratio"}
	_, err := spec.Config()
	assert.ErrorIs(t, err, sim.ErrConfig)

	spec = ExperimentSpec{Prisoners: 10, Trials: 100, Rounding: "banker"}
	_, err = spec.Config()
	assert.ErrorIs(t, err, sim.ErrConfig)
}

func TestExperimentSpec_Label(t *testing.T) {
	assert.Equal(t, "named", ExperimentSpec{Name: "named"}.Label(3))
	assert.Equal(t, "experiment 4", ExperimentSpec{}.Label(3))
}
