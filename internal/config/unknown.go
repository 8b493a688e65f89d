package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	warnings := detectUnknownFields(data)

	return cfg, warnings, nil
}

// detectUnknownFields compares the raw YAML mapping with known struct fields.
func detectUnknownFields(data []byte) []string {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// Already parsed successfully as Config, so this indicates an internal inconsistency.
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	var warnings []string
	knownTopLevel := getYAMLFields(reflect.TypeOf(Config{}))
	for _, key := range sortedKeys(raw) {
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if node, ok := raw["workflows"]; ok {
		warnings = append(warnings, checkWorkflowsUnknownFields(&node)...)
	}

	return warnings
}

func checkWorkflowsUnknownFields(node *yaml.Node) []string {
	var workflows map[string]map[string]yaml.Node
	if err := node.Decode(&workflows); err != nil {
		return nil
	}

	var warnings []string
	knownWorkflowFields := getYAMLFields(reflect.TypeOf(WorkflowConfig{}))
	knownRunFields := getYAMLFields(reflect.TypeOf(RunConfig{}))

	names := make([]string, 0, len(workflows))
	for name := range workflows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fields := workflows[name]
		for _, key := range sortedKeys(fields) {
			if !knownWorkflowFields[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in workflow %q (ignored)", key, name))
			}
		}

		runsNode, ok := fields["runs"]
		if !ok {
			continue
		}
		var runs []map[string]yaml.Node
		if err := runsNode.Decode(&runs); err != nil {
			continue
		}
		for i, run := range runs {
			for _, key := range sortedKeys(run) {
				if !knownRunFields[key] {
					warnings = append(warnings, fmt.Sprintf("unknown field %q in workflow %q run %d (ignored)", key, name, i))
				}
			}
		}
	}

	return warnings
}

// getYAMLFields returns a map of known YAML field names for a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
