package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/mat-adamec/100-prisoner-problem/sim"
)

// SweepSpec is the top-level sweep configuration: a list of experiments run
// back to back. Loaded from YAML via LoadSweepSpec(path).
type SweepSpec struct {
	Version     string           `yaml:"version"`
	Experiments []ExperimentSpec `yaml:"experiments"`
}

// ExperimentSpec defines a single experiment in a sweep file. Field
// semantics and defaults match the `run` flags.
type ExperimentSpec struct {
	Name        string  `yaml:"name,omitempty"`
	Prisoners   int     `yaml:"prisoners"`
	Envelopes   int     `yaml:"envelopes,omitempty"` // 0 = prisoners
	Trials      int64   `yaml:"trials"`
	Strategy    string  `yaml:"strategy,omitempty"` // "" = loop
	Schema      string  `yaml:"schema,omitempty"`   // "" = half
	SchemaParam float64 `yaml:"schema_param,omitempty"`
	Rounding    string  `yaml:"rounding,omitempty"` // "" = lower
	Seed        *int64  `yaml:"seed,omitempty"`     // nil = 42
	Workers     int     `yaml:"workers,omitempty"`  // 0 = sequential
	Progress    int64   `yaml:"progress,omitempty"`
}

// Config converts the spec into a validated-on-use ExperimentConfig.
func (s ExperimentSpec) Config() (sim.ExperimentConfig, error) {
	schema, err := sim.SchemaByName(s.Schema, s.SchemaParam)
	if err != nil {
		return sim.ExperimentConfig{}, err
	}
	roundingName := s.Rounding
	if roundingName == "" {
		roundingName = "lower"
	}
	policy, err := sim.ParseRoundingPolicy(roundingName)
	if err != nil {
		return sim.ExperimentConfig{}, err
	}
	specSeed := int64(42)
	if s.Seed != nil {
		specSeed = *s.Seed
	}
	return sim.ExperimentConfig{
		Prisoners:     s.Prisoners,
		Envelopes:     s.Envelopes,
		Trials:        s.Trials,
		Strategy:      s.Strategy,
		Schema:        schema,
		Rounding:      policy,
		Seed:          specSeed,
		Workers:       s.Workers,
		ProgressEvery: s.Progress,
	}, nil
}

// Label returns the spec's display name, falling back to its position.
func (s ExperimentSpec) Label(index int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("experiment %d", index+1)
}

// LoadSweepSpec reads and parses a sweep spec from a YAML file.
func LoadSweepSpec(path string) (*SweepSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep spec: %w", err)
	}
	var spec SweepSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing sweep spec: %w", err)
	}
	if len(spec.Experiments) == 0 {
		return nil, fmt.Errorf("sweep spec %s contains no experiments", path)
	}
	return &spec, nil
}
