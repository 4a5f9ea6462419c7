// Package manifest loads YAML run manifests: the solver, the fields it
// advances and the time window to run.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/parafoam/pkg/foam"
)

// Manifest describes one solver window.
type Manifest struct {
	Solver        string   `yaml:"solver"`
	Fields        []string `yaml:"fields"`
	Dt            float64  `yaml:"dt"`
	Start         float64  `yaml:"start"`
	End           float64  `yaml:"end"`
	WriteInterval float64  `yaml:"write_interval"`
	WriteControl  string   `yaml:"write_control"`
}

// Default returns a manifest with defaults applied before unmarshalling.
func Default() *Manifest {
	return &Manifest{
		WriteControl: foam.DefaultWriteControl,
	}
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := Default()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks that the manifest describes a runnable window.
func (m *Manifest) Validate() error {
	if m.Solver == "" {
		return errors.New("solver is required")
	}
	if m.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", m.Dt)
	}
	if m.End <= m.Start {
		return fmt.Errorf("end (%g) must be after start (%g)", m.End, m.Start)
	}
	return nil
}

// SolveSpec converts the manifest into a solver invocation spec.
func (m *Manifest) SolveSpec(jobName string) foam.SolveSpec {
	return foam.SolveSpec{
		Solver:        m.Solver,
		Dt:            m.Dt,
		Start:         m.Start,
		End:           m.End,
		WriteInterval: m.WriteInterval,
		JobName:       jobName,
		WriteControl:  m.WriteControl,
	}
}
