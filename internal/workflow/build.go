package workflow

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	suityerrors "github.com/AndreyAkinshin/suity/internal/errors"
	"github.com/AndreyAkinshin/suity/internal/junit"
	"github.com/AndreyAkinshin/suity/internal/output"
)

const (
	// ParallelEnv overrides the number of runs aggregated concurrently.
	ParallelEnv = "SUITY_PARALLEL"

	minParallelWorkers = 1
	maxParallelWorkers = 256
)

// Result is the outcome of building one workflow.
type Result struct {
	Workflow string
	Report   string
	Suites   []*junit.TestSuite // non-empty suites in run order
}

// Tests returns the total number of tests across all suites.
func (r *Result) Tests() uint64 {
	var n uint64
	for _, s := range r.Suites {
		n += s.Tests
	}
	return n
}

// Failures returns the total number of failures across all suites.
func (r *Result) Failures() uint64 {
	var n uint64
	for _, s := range r.Suites {
		n += s.Failures
	}
	return n
}

// Builder aggregates workflow runs into reports.
type Builder struct {
	out     *output.Writer
	workers int
}

// NewBuilder creates a Builder that logs through out. The worker count comes
// from SUITY_PARALLEL, defaulting to the number of CPUs.
func NewBuilder(out *output.Writer) *Builder {
	return &Builder{out: out, workers: parallelWorkers(out)}
}

// Build aggregates every run of wf. Runs are processed concurrently but the
// result keeps configuration order. Suites with no tests are dropped.
// The first failing run, in configuration order, determines the error: once a
// run fails, only runs that come after it are skipped.
func (b *Builder) Build(ctx context.Context, wf *Workflow) (*Result, error) {
	suites := make([]*junit.TestSuite, len(wf.Runs))
	errs := make([]error, len(wf.Runs))

	var mu sync.Mutex
	firstFailed := len(wf.Runs)
	failedBefore := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return firstFailed < i
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.workers)
	for i, run := range wf.Runs {
		wg.Add(1)
		go func(i int, run Run) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if failedBefore(i) {
				return
			}

			b.out.Debug("[%s] aggregating %s from %s", wf.Name, run.Label, run.Input)
			suite, err := AggregateFile(run.Input, run.Label)
			if err != nil {
				mu.Lock()
				errs[i] = suityerrors.RunError(wf.Name, run.Label, err)
				firstFailed = min(firstFailed, i)
				mu.Unlock()
				return
			}
			suites[i] = suite
		}(i, run)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	result := &Result{Workflow: wf.Name, Report: wf.Report}
	for i, s := range suites {
		if s.Empty() {
			b.out.Debug("[%s] skipping %s: no tests", wf.Name, wf.Runs[i].Label)
			continue
		}
		result.Suites = append(result.Suites, s)
	}
	return result, nil
}

// Execute builds wf and writes its report.
func (b *Builder) Execute(ctx context.Context, wf *Workflow) (*Result, error) {
	result, err := b.Build(ctx, wf)
	if err != nil {
		return nil, err
	}
	if err := junit.WriteFile(result.Report, result.Suites); err != nil {
		return nil, suityerrors.RunError(wf.Name, "", err)
	}
	b.out.Debug("[%s] wrote %s", wf.Name, result.Report)
	return result, nil
}

// AggregateFile aggregates the captured run stored at path. Errors carry the path.
func AggregateFile(path, label string) (*junit.TestSuite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	suite, err := junit.ReadTestSuite(f, label)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}

func defaultWorkerCount() int {
	return max(runtime.NumCPU(), minParallelWorkers)
}

func parallelWorkers(out *output.Writer) int {
	env := os.Getenv(ParallelEnv)
	if env == "" {
		return defaultWorkerCount()
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		out.Warning("invalid %s value %q (not a number), using default", ParallelEnv, env)
		return defaultWorkerCount()
	}
	if n < minParallelWorkers || n > maxParallelWorkers {
		out.Warning("%s=%d out of range [%d-%d], using default", ParallelEnv, n, minParallelWorkers, maxParallelWorkers)
		return defaultWorkerCount()
	}
	return n
}
