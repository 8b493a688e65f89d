package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AndreyAkinshin/suity/internal/errors"
	"github.com/AndreyAkinshin/suity/internal/output"
	"github.com/AndreyAkinshin/suity/internal/watch"
	"github.com/AndreyAkinshin/suity/internal/workflow"
)

type reportOptions struct {
	Watch         bool
	FailOnFailure bool
	Workflows     []string
}

func parseReportArgs(args []string) (*reportOptions, error) {
	opts := &reportOptions{}
	for _, arg := range args {
		switch {
		case arg == "--watch" || arg == "-w":
			opts.Watch = true
		case arg == "--fail-on-failure":
			opts.FailOnFailure = true
		case len(arg) > 1 && arg[0] == '-':
			return nil, fmt.Errorf("unknown flag %q", arg)
		default:
			opts.Workflows = append(opts.Workflows, arg)
		}
	}
	return opts, nil
}

// cmdReport builds the JUnit report of each selected workflow.
func cmdReport(args []string, gopts *GlobalOptions) int {
	if wantsHelp(args) {
		printReportUsage()
		return 0
	}

	opts, err := parseReportArgs(args)
	if err != nil {
		out.ErrorPrefix("report: %v", err)
		return errors.ExitConfigError
	}

	proj, exitCode := loadProject(gopts)
	if proj == nil {
		return exitCode
	}

	workflows, err := workflow.ResolveAll(proj, opts.Workflows)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := workflow.NewBuilder(out)
	if opts.Watch {
		return runWatch(ctx, builder, workflows)
	}
	return runReport(ctx, builder, workflows, opts.FailOnFailure)
}

// runReport builds every workflow in order and stops at the first error.
func runReport(ctx context.Context, builder *workflow.Builder, workflows []*workflow.Workflow, failOnFailure bool) int {
	var results []*workflow.Result
	for _, wf := range workflows {
		result, err := builder.Execute(ctx, wf)
		if err != nil {
			out.ErrorPrefix("%v", err)
			return errors.GetExitCode(err)
		}
		printResult(result)
		results = append(results, result)
	}

	var tests, failed uint64
	passed := 0
	for _, r := range results {
		tests += r.Tests()
		failed += r.Failures()
		for _, s := range r.Suites {
			passed += s.Passed()
		}
	}

	if len(results) > 1 && !out.Quiet() {
		out.Section("Summary")
		out.SummaryItem("Reports", fmt.Sprintf("%d", len(results)))
		out.SummaryItem("Tests", fmt.Sprintf("%d", tests))
		out.SummaryPassed("Passed", fmt.Sprintf("%d", passed))
		if failed > 0 {
			out.SummaryFailed("Failed", fmt.Sprintf("%d", failed))
		}
	}

	if failed > 0 {
		out.FinalFailure("%d of %d tests failed.", failed, tests)
	} else {
		out.FinalSuccess("All %d tests passed.", tests)
	}
	return outcome(failed, failOnFailure)
}

func printResult(result *workflow.Result) {
	for _, s := range result.Suites {
		out.SuiteResult(s.Name, s.Tests, s.Failures)
	}
	out.Info("[%s] wrote %s (%d suites)", result.Workflow, result.Report, len(result.Suites))
}

// runWatch builds every workflow once, then rebuilds the workflows that read a
// changed input until ctx is canceled. Build errors are reported and watching
// continues, since inputs are often caught mid-write.
func runWatch(ctx context.Context, builder *workflow.Builder, workflows []*workflow.Workflow) int {
	var inputs []string
	for _, wf := range workflows {
		inputs = append(inputs, wf.Inputs()...)
	}

	w, err := watch.New(inputs, watch.DefaultDebounce)
	if err != nil {
		out.ErrorPrefix("watch: %v", err)
		return errors.ExitRuntimeError
	}

	rebuild := func(wf *workflow.Workflow) {
		result, err := builder.Execute(ctx, wf)
		if err != nil {
			if ctx.Err() == nil {
				out.ErrorPrefix("%v", err)
			}
			return
		}
		printResult(result)
	}

	for _, wf := range workflows {
		rebuild(wf)
	}
	out.Info("watching %d inputs (press Ctrl+C to stop)", len(inputs))

	err = w.Run(ctx, func(changed []string) {
		seen := make(map[*workflow.Workflow]bool)
		for _, path := range changed {
			out.Debug("changed: %s", path)
			for _, wf := range workflow.Owners(workflows, path) {
				if !seen[wf] {
					seen[wf] = true
					rebuild(wf)
				}
			}
		}
	}, func(err error) {
		out.Warning("watch: %v", err)
	})
	if err != nil {
		out.ErrorPrefix("watch: %v", err)
		return errors.ExitRuntimeError
	}
	return errors.ExitSuccess
}

func printReportUsage() {
	w := output.New()

	w.HelpTitle("suity report - build JUnit reports from configured workflows")

	w.HelpSection("Usage:")
	w.HelpUsage("suity report [options] [<workflow>...]")

	w.HelpSection("Description:")
	w.Println("  Aggregates every run of a workflow from its captured output and writes")
	w.Println("  <output>/<workflow>.xml. Runs without tests are left out of the report.")
	w.Println("  With no workflow the 'default' workflow is built; '*' builds all of them.")

	w.HelpSection("Options:")
	w.HelpFlag("-w, --watch", "Rebuild reports whenever an input changes", helpFlagWidthCmd)
	w.HelpFlag("--fail-on-failure", "Exit with code 1 if any test failed", helpFlagWidthCmd)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthCmd)

	w.HelpSection("Exit Codes:")
	w.HelpCommand("0", "Reports written", 2)
	w.HelpCommand("1", "I/O error, or failing tests with --fail-on-failure", 2)
	w.HelpCommand("2", "Configuration error", 2)
	w.HelpCommand("3", "Captured output could not be decoded or holds several runs", 2)

	w.HelpSection("Examples:")
	w.HelpExample("suity report", "Build the default workflow")
	w.HelpExample("suity report ci nightly --fail-on-failure", "Build two workflows, fail on test failures")
	w.HelpExample("suity report '*' --watch", "Keep all reports up to date")
	w.Println("")
}
