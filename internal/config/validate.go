package config

import (
	"fmt"
	"regexp"
	"sort"
)

// workflowNamePattern keeps workflow names usable as report file names.
var workflowNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	names := make([]string, 0, len(cfg.Workflows))
	for name := range cfg.Workflows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ValidateWorkflowName(name); err != nil {
			return nil, err
		}
		wf := cfg.Workflows[name]
		if len(wf.Runs) == 0 {
			warnings = append(warnings, fmt.Sprintf("workflow %q has no runs", name))
			continue
		}
		if err := validateRuns(name, wf.Runs); err != nil {
			return nil, err
		}
	}

	return warnings, nil
}

func validateRuns(workflow string, runs []RunConfig) error {
	seen := make(map[string]int)
	for i, run := range runs {
		field := fmt.Sprintf("workflows.%s.runs[%d]", workflow, i)

		if run.Input == "" {
			return &ValidationError{Field: field + ".input", Message: "is required"}
		}

		switch run.Kind {
		case RunKindLib, RunKindDoc:
			if run.Name != "" {
				return &ValidationError{
					Field:   field + ".name",
					Message: fmt.Sprintf("is only allowed for %q runs", RunKindIntegration),
				}
			}
		case RunKindIntegration:
			if run.Name == "" {
				return &ValidationError{Field: field + ".name", Message: "is required for integration runs"}
			}
		case "":
			return &ValidationError{Field: field + ".kind", Message: "is required"}
		default:
			return &ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("must be one of %v, got %q", ValidRunKinds(), run.Kind),
			}
		}

		key := string(run.Kind) + "/" + run.Name
		if prev, ok := seen[key]; ok {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicates runs[%d]; each run must produce a distinct suite", prev),
			}
		}
		seen[key] = i
	}
	return nil
}

// ValidateWorkflowName checks if a workflow name is valid.
func ValidateWorkflowName(name string) error {
	if name == "" {
		return &ValidationError{Field: "workflow name", Message: "is required"}
	}
	if !workflowNamePattern.MatchString(name) {
		return &ValidationError{
			Field:   fmt.Sprintf("workflows.%s", name),
			Message: "workflow name must match pattern ^[A-Za-z0-9][A-Za-z0-9_.-]*$",
		}
	}
	return nil
}
