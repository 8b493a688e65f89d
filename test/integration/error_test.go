package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AndreyAkinshin/suity/internal/config"
	suityerrors "github.com/AndreyAkinshin/suity/internal/errors"
	"github.com/AndreyAkinshin/suity/internal/events"
	"github.com/AndreyAkinshin/suity/internal/junit"
	"github.com/AndreyAkinshin/suity/internal/project"
	"github.com/AndreyAkinshin/suity/internal/workflow"
)

func TestProjectNotFoundError(t *testing.T) {
	_, err := project.LoadProjectFrom("/nonexistent/path")
	if err == nil {
		t.Error("expected error when loading from nonexistent path")
	}
}

func TestConfigFileMissingError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), project.ConfigFileName))
	if err == nil {
		t.Error("expected error when loading missing config file")
	}
}

func TestConfigInvalidYAMLError(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), project.ConfigFileName)
	if err := os.WriteFile(configPath, []byte("workflows: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := config.Load(configPath)
	if err == nil {
		t.Error("expected error when loading invalid YAML config")
	}
}

func TestWorkflowNotFoundError(t *testing.T) {
	proj, err := project.LoadProjectFrom(filepath.Join(fixturesDir(), "crate"))
	if err != nil {
		t.Fatalf("failed to load project: %v", err)
	}

	_, err = workflow.Resolve(proj, "weekly")
	if got := suityerrors.GetExitCode(err); got != suityerrors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d (err: %v)", got, suityerrors.ExitRuntimeError, err)
	}
}

func TestProtocolErrors(t *testing.T) {
	tests := []struct {
		fixture string
		check   func(error) bool
	}{
		{"truncated", func(err error) bool {
			var decodeErr *events.DecodeError
			return errors.As(err, &decodeErr) && decodeErr.Line == 3
		}},
		{"multiple-runs", func(err error) bool {
			return errors.Is(err, junit.ErrMultipleTestRuns)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			proj, err := project.LoadProjectFrom(filepath.Join(fixturesDir(), "invalid", tt.fixture))
			if err != nil {
				t.Fatalf("failed to load project: %v", err)
			}
			wf, err := workflow.Resolve(proj, "default")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			_, err = quietBuilder().Build(context.Background(), wf)
			if err == nil {
				t.Fatal("expected protocol error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if got := suityerrors.GetExitCode(err); got != suityerrors.ExitProtocolError {
				t.Errorf("exit code = %d, want %d", got, suityerrors.ExitProtocolError)
			}
		})
	}
}

func TestMissingInputError(t *testing.T) {
	proj, err := project.LoadProjectFrom(filepath.Join(fixturesDir(), "invalid", "missing-input"))
	if err != nil {
		t.Fatalf("failed to load project: %v", err)
	}
	wf, err := workflow.Resolve(proj, "default")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	_, err = quietBuilder().Build(context.Background(), wf)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Build() error = %v, want os.ErrNotExist", err)
	}
	if got := suityerrors.GetExitCode(err); got != suityerrors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", got, suityerrors.ExitRuntimeError)
	}
}
