package config

// Default configuration values.
const (
	DefaultOutput   = "test-results"
	DefaultWorkflow = "default"
)

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	for name, wf := range cfg.Workflows {
		if wf.Output == "" {
			wf.Output = cfg.Output
		}
		cfg.Workflows[name] = wf
	}
}

// Workflow returns the named workflow. The default workflow always exists:
// when it is not configured an empty one writing to the global output is returned.
func (c *Config) Workflow(name string) (WorkflowConfig, bool) {
	if wf, ok := c.Workflows[name]; ok {
		return wf, true
	}
	if name == DefaultWorkflow {
		output := c.Output
		if output == "" {
			output = DefaultOutput
		}
		return WorkflowConfig{Output: output}, true
	}
	return WorkflowConfig{}, false
}
