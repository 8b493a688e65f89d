// Package config provides configuration loading and validation for suity.yaml.
package config

// Config represents the complete suity.yaml configuration.
type Config struct {
	Schema    string                    `yaml:"$schema,omitempty"`
	Output    string                    `yaml:"output,omitempty"`
	Workflows map[string]WorkflowConfig `yaml:"workflows,omitempty"`
}

// WorkflowConfig is a named set of runs rendered into one report file.
type WorkflowConfig struct {
	Output string      `yaml:"output,omitempty"` // Overrides Config.Output
	Runs   []RunConfig `yaml:"runs,omitempty"`
}

// RunConfig points at the captured harness output of one run.
type RunConfig struct {
	Kind  RunKind `yaml:"kind"`
	Name  string  `yaml:"name,omitempty"` // Integration test name
	Input string  `yaml:"input"`
}

// RunKind is the category of tests a run covers.
type RunKind string

const (
	// RunKindLib covers unit tests compiled into the library.
	RunKindLib RunKind = "lib"
	// RunKindDoc covers documentation tests.
	RunKindDoc RunKind = "doc"
	// RunKindIntegration covers one integration test binary.
	RunKindIntegration RunKind = "integration"
)

// ValidRunKinds returns all run kinds in display order.
func ValidRunKinds() []RunKind {
	return []RunKind{RunKindLib, RunKindDoc, RunKindIntegration}
}
