package cli

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/AndreyAkinshin/suity/internal/project"
	"github.com/AndreyAkinshin/suity/internal/workflow"
)

func TestParseReportArgs(t *testing.T) {
	opts, err := parseReportArgs([]string{"ci", "--watch", "nightly", "--fail-on-failure"})
	if err != nil {
		t.Fatalf("parseReportArgs() error = %v", err)
	}
	want := &reportOptions{Watch: true, FailOnFailure: true, Workflows: []string{"ci", "nightly"}}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("parseReportArgs() = %+v, want %+v", opts, want)
	}

	if _, err := parseReportArgs([]string{"--dry-run"}); err == nil {
		t.Error("parseReportArgs() expected error for unknown flag")
	}
}

func TestCmdReport_DefaultWorkflow(t *testing.T) {
	stdoutBuf, stderrBuf := captureOutput(t)
	root := createTestProject(t)

	withWorkingDir(t, root, func() {
		if code := cmdReport(nil, &GlobalOptions{}); code != 0 {
			t.Fatalf("cmdReport() = %d, want 0; stderr: %s", code, stderrBuf.String())
		}
	})

	data, err := os.ReadFile(filepath.Join(root, "reports", "default.xml"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	report := string(data)
	for _, want := range []string{
		`<testsuite name="[default] Lib-tests" errors="0" failures="1" tests="2">`,
		`<testsuite name="[default] test_zpool" errors="0" failures="0" tests="1">`,
		`<failure message="idk dawg"></failure>`,
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "Doc-tests") {
		t.Errorf("empty doc suite should be omitted:\n%s", report)
	}
	if _, err := os.Stat(filepath.Join(root, "reports", "nightly.xml")); !os.IsNotExist(err) {
		t.Error("only the default workflow should be built")
	}

	if !strings.Contains(stdoutBuf.String(), "[default] test_zpool: 1 tests ok") {
		t.Errorf("stdout = %q", stdoutBuf.String())
	}
	if !strings.Contains(stderrBuf.String(), "[default] Lib-tests: 2 tests, 1 failed") {
		t.Errorf("stderr = %q", stderrBuf.String())
	}
}

func TestCmdReport_AllWorkflows(t *testing.T) {
	stdoutBuf, _ := captureOutput(t)
	root := createTestProject(t)

	withWorkingDir(t, root, func() {
		if code := cmdReport([]string{workflow.All}, &GlobalOptions{}); code != 0 {
			t.Fatalf("cmdReport(*) = %d, want 0", code)
		}
	})

	for _, name := range []string{"default.xml", "nightly.xml"} {
		if _, err := os.Stat(filepath.Join(root, "reports", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if !strings.Contains(stdoutBuf.String(), "Reports: 2") {
		t.Errorf("summary missing:\n%s", stdoutBuf.String())
	}
}

func TestCmdReport_ExplicitConfig(t *testing.T) {
	captureOutput(t)
	root := createTestProject(t)
	alt := filepath.Join(root, "ci.yaml")
	writeTestFile(t, alt, "output: ci-out\nworkflows:\n  ci:\n    runs:\n      - kind: lib\n        input: captured/lib.jsonl\n")

	withWorkingDir(t, t.TempDir(), func() {
		if code := cmdReport([]string{"ci"}, &GlobalOptions{Config: alt}); code != 0 {
			t.Fatalf("cmdReport() = %d, want 0", code)
		}
	})

	if _, err := os.Stat(filepath.Join(root, "ci-out", "ci.xml")); err != nil {
		t.Errorf("report not written next to the config file: %v", err)
	}
}

func TestCmdReport_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		setup func(t *testing.T, root string)
		want  int
	}{
		{
			name: "fail on failure",
			args: []string{"--fail-on-failure"},
			want: 1,
		},
		{
			name: "fail on failure without failures",
			args: []string{"nightly", "--fail-on-failure"},
			want: 0,
		},
		{
			name: "unknown workflow",
			args: []string{"weekly"},
			want: 1,
		},
		{
			name: "missing input",
			setup: func(t *testing.T, root string) {
				if err := os.Remove(filepath.Join(root, "captured", "doc.jsonl")); err != nil {
					t.Fatal(err)
				}
			},
			want: 1,
		},
		{
			name: "decode error",
			setup: func(t *testing.T, root string) {
				writeTestFile(t, filepath.Join(root, "captured", "doc.jsonl"), `{"type":"suite","event":"started"}`)
			},
			want: 3,
		},
		{
			name: "multiple runs",
			setup: func(t *testing.T, root string) {
				writeTestFile(t, filepath.Join(root, "captured", "test_zpool.jsonl"), zpoolRun+zpoolRun)
			},
			want: 3,
		},
		{
			name: "unknown flag",
			args: []string{"--dry-run"},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			root := createTestProject(t)
			if tt.setup != nil {
				tt.setup(t, root)
			}
			withWorkingDir(t, root, func() {
				if code := cmdReport(tt.args, &GlobalOptions{}); code != tt.want {
					t.Errorf("cmdReport(%v) = %d, want %d", tt.args, code, tt.want)
				}
			})
		})
	}
}

func TestCmdReport_ImplicitDefaultWithoutRuns(t *testing.T) {
	_, stderrBuf := captureOutput(t)
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "suity.yaml"), "output: out\n")

	withWorkingDir(t, root, func() {
		if code := cmdReport(nil, &GlobalOptions{}); code != 2 {
			t.Errorf("cmdReport() = %d, want 2", code)
		}
	})
	if !strings.Contains(stderrBuf.String(), "[default] no runs configured") {
		t.Errorf("stderr = %q", stderrBuf.String())
	}
}

func TestCmdReport_NoProject(t *testing.T) {
	captureOutput(t)

	withWorkingDir(t, t.TempDir(), func() {
		if code := cmdReport(nil, &GlobalOptions{}); code != 2 {
			t.Errorf("cmdReport() = %d, want 2", code)
		}
	})
}

func TestRunWatch_RebuildsOnChange(t *testing.T) {
	captureOutput(t)
	root := createTestProject(t)

	proj, err := project.LoadProjectFrom(root)
	if err != nil {
		t.Fatalf("LoadProjectFrom() error = %v", err)
	}
	workflows, err := workflow.ResolveAll(proj, []string{"nightly"})
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	reportPath := workflows[0].Report

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan int, 1)
	go func() {
		done <- runWatch(ctx, workflow.NewBuilder(out), workflows)
	}()

	waitFor := func(want string) {
		t.Helper()
		for {
			if data, err := os.ReadFile(reportPath); err == nil && strings.Contains(string(data), want) {
				return
			}
			select {
			case <-ctx.Done():
				t.Fatalf("timeout waiting for report to contain %q", want)
			case <-time.After(20 * time.Millisecond):
			}
		}
	}

	waitFor(`tests="1"`)

	updated := strings.Replace(zpoolRun, `"test_count": 1`, `"test_count": 7`, 1)
	writeTestFile(t, filepath.Join(root, "captured", "test_zpool.jsonl"), updated)
	waitFor(`tests="7"`)

	cancel()
	select {
	case code := <-done:
		if code != 0 {
			t.Errorf("runWatch() = %d, want 0", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch() did not stop after cancel")
	}
}
