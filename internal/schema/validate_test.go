package schema

import (
	"strings"
	"testing"
)

func TestValidateConfig_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty object", `{}`},
		{"output only", `{"output": "reports"}`},
		{"schema key allowed", `{"$schema": "./schema/config.schema.json"}`},
		{"lib and doc runs", `{"workflows": {"default": {"runs": [
			{"kind": "lib", "input": "lib.jsonl"},
			{"kind": "doc", "input": "doc.jsonl"}
		]}}}`},
		{"integration with name", `{"workflows": {"ci": {"output": "out", "runs": [
			{"kind": "integration", "name": "test_zpool", "input": "zpool.jsonl"}
		]}}}`},
		{"workflow without runs", `{"workflows": {"empty": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateConfig([]byte(tt.input)); err != nil {
				t.Errorf("expected valid config, got error: %v", err)
			}
		})
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"malformed JSON", `{"output": `},
		{"root is array", `[]`},
		{"root is null", `null`},
		{"output not string", `{"output": 42}`},
		{"empty output", `{"output": ""}`},
		{"workflow not object", `{"workflows": {"ci": []}}`},
		{"runs not array", `{"workflows": {"ci": {"runs": {}}}}`},
		{"unknown kind", `{"workflows": {"ci": {"runs": [{"kind": "bench", "input": "b.jsonl"}]}}}`},
		{"missing input", `{"workflows": {"ci": {"runs": [{"kind": "lib"}]}}}`},
		{"missing kind", `{"workflows": {"ci": {"runs": [{"input": "lib.jsonl"}]}}}`},
		{"integration without name", `{"workflows": {"ci": {"runs": [{"kind": "integration", "input": "i.jsonl"}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateConfig([]byte(tt.input)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	t.Parallel()

	valid := map[string]any{
		"output": "reports",
		"workflows": map[string]any{
			"default": map[string]any{
				"runs": []any{
					map[string]any{"kind": "lib", "input": "lib.jsonl"},
				},
			},
		},
	}
	if err := ValidateDocument(valid); err != nil {
		t.Errorf("ValidateDocument() error = %v", err)
	}

	invalid := map[string]any{"output": 1}
	if err := ValidateDocument(invalid); err == nil {
		t.Error("ValidateDocument() expected error for numeric output")
	}

	err := ValidateDocument(map[string]any{"bad": make(chan int)})
	if err == nil || !strings.Contains(err.Error(), "not representable") {
		t.Errorf("ValidateDocument() error = %v, want JSON conversion error", err)
	}
}
