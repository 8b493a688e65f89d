package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const libRun = `{ "type": "suite", "event": "started", "test_count": 2 }
{ "type": "test", "event": "started", "name": "parsers::test::test_zpools_on_single_zpool" }
{ "type": "test", "name": "parsers::test::test_zpools_on_single_zpool", "event": "ok" }
{ "type": "test", "event": "started", "name": "failed" }
{ "type": "test", "name": "failed", "event": "failed", "stdout": "idk dawg" }
{ "type": "suite", "event": "failed", "passed": 1, "failed": 1, "allowed_fail": 0, "ignored": 0, "measured": 0, "filtered_out": 40 }
`

const docRun = `{ "type": "suite", "event": "started", "test_count": 0 }
{ "type": "suite", "event": "ok", "passed": 0, "failed": 0, "allowed_fail": 0, "ignored": 0, "measured": 0, "filtered_out": 0 }
`

const zpoolRun = `{ "type": "suite", "event": "started", "test_count": 1 }
{ "type": "test", "event": "started", "name": "test_zpool_scrub" }
{ "type": "test", "name": "test_zpool_scrub", "event": "ok" }
{ "type": "suite", "event": "ok", "passed": 1, "failed": 0, "ignored": 0, "measured": 0, "filtered_out": 0 }
`

const testConfig = `output: reports
workflows:
  default:
    runs:
      - kind: lib
        input: captured/lib.jsonl
      - kind: doc
        input: captured/doc.jsonl
      - kind: integration
        name: test_zpool
        input: captured/test_zpool.jsonl
  nightly:
    runs:
      - kind: integration
        name: test_zpool
        input: captured/test_zpool.jsonl
`

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// createTestProject creates a project with two workflows and captured output for every run.
func createTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "suity.yaml"), testConfig)
	writeTestFile(t, filepath.Join(root, "captured", "lib.jsonl"), libRun)
	writeTestFile(t, filepath.Join(root, "captured", "doc.jsonl"), docRun)
	writeTestFile(t, filepath.Join(root, "captured", "test_zpool.jsonl"), zpoolRun)
	return root
}
