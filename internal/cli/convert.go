package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/suity/internal/errors"
	"github.com/AndreyAkinshin/suity/internal/junit"
	"github.com/AndreyAkinshin/suity/internal/output"
	"github.com/AndreyAkinshin/suity/internal/workflow"
)

// Standard streams, replaceable in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// stdinLabel names the suite read from standard input.
const stdinLabel = "stdin"

type convertOptions struct {
	Name          string
	Output        string
	KeepEmpty     bool
	FailOnFailure bool
	Inputs        []string
}

func parseConvertArgs(args []string) (*convertOptions, error) {
	opts := &convertOptions{}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "--name" || arg == "-n":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			opts.Name = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--name="):
			opts.Name = strings.TrimPrefix(arg, "--name=")
			i++
		case arg == "--output" || arg == "-o":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			opts.Output = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--output="):
			opts.Output = strings.TrimPrefix(arg, "--output=")
			i++
		case arg == "--keep-empty":
			opts.KeepEmpty = true
			i++
		case arg == "--fail-on-failure":
			opts.FailOnFailure = true
			i++
		case arg == "--":
			opts.Inputs = append(opts.Inputs, args[i+1:]...)
			i = len(args)
		case arg != "-" && strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag %q", arg)
		default:
			opts.Inputs = append(opts.Inputs, arg)
			i++
		}
	}

	if len(opts.Inputs) == 0 {
		opts.Inputs = []string{"-"}
	}
	if opts.Name != "" && len(opts.Inputs) > 1 {
		return nil, fmt.Errorf("--name requires exactly one input, got %d", len(opts.Inputs))
	}
	stdinCount := 0
	for _, in := range opts.Inputs {
		if in == "-" {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return nil, fmt.Errorf("standard input can only be read once")
	}
	return opts, nil
}

// inputLabel derives a suite name from an input path: its base name without extension.
func inputLabel(input string) string {
	if input == "-" {
		return stdinLabel
	}
	base := filepath.Base(input)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// cmdConvert aggregates each input as one run and writes a single JUnit document.
func cmdConvert(args []string, gopts *GlobalOptions) int {
	if wantsHelp(args) {
		printConvertUsage()
		return 0
	}

	opts, err := parseConvertArgs(args)
	if err != nil {
		out.ErrorPrefix("convert: %v", err)
		return errors.ExitConfigError
	}

	// The report itself goes to stdout; keep progress lines off it.
	if opts.Output == "" {
		out.SetQuiet(true)
		defer applyVerbosityToOutput(gopts)
	}

	var suites []*junit.TestSuite
	for _, input := range opts.Inputs {
		label := opts.Name
		if label == "" {
			label = inputLabel(input)
		}

		var suite *junit.TestSuite
		if input == "-" {
			out.Debug("aggregating %s from standard input", label)
			suite, err = junit.ReadTestSuite(stdin, label)
			if err != nil {
				err = fmt.Errorf("<stdin>: %w", err)
			}
		} else {
			out.Debug("aggregating %s from %s", label, input)
			suite, err = workflow.AggregateFile(input, label)
		}
		if err != nil {
			runErr := errors.RunError("", label, err)
			out.ErrorPrefix("%s: %v", label, runErr.Cause)
			return runErr.ExitCode()
		}

		if suite.Empty() && !opts.KeepEmpty {
			out.Debug("skipping %s: no tests", label)
			continue
		}
		out.SuiteResult(suite.Name, suite.Tests, suite.Failures)
		suites = append(suites, suite)
	}

	if opts.Output == "" {
		if err := junit.Write(stdout, suites); err != nil {
			out.ErrorPrefix("%v", err)
			return errors.ExitRuntimeError
		}
	} else {
		if err := junit.WriteFile(opts.Output, suites); err != nil {
			out.ErrorPrefix("%v", err)
			return errors.ExitRuntimeError
		}
		out.Success("wrote %s", opts.Output)
	}

	return outcome(failures(suites), opts.FailOnFailure)
}

func failures(suites []*junit.TestSuite) uint64 {
	var n uint64
	for _, s := range suites {
		n += s.Failures
	}
	return n
}

// outcome maps a failure count onto an exit code.
func outcome(failures uint64, failOnFailure bool) int {
	if failures > 0 && failOnFailure {
		return errors.ExitRuntimeError
	}
	return errors.ExitSuccess
}

func printConvertUsage() {
	w := output.New()

	w.HelpTitle("suity convert - convert captured libtest JSON output to JUnit XML")

	w.HelpSection("Usage:")
	w.HelpUsage("suity convert [options] [<file>...]")

	w.HelpSection("Description:")
	w.Println("  Each input holds the output of exactly one test run (library, doc or")
	w.Println("  integration tests) and becomes one <testsuite>. With no input, or '-',")
	w.Println("  the event stream is read from standard input.")

	w.HelpSection("Options:")
	w.HelpFlag("-n, --name <label>", "Suite name (single input only; default: file name)", helpFlagWidthCmd)
	w.HelpFlag("-o, --output <file>", "Write the report to a file instead of stdout", helpFlagWidthCmd)
	w.HelpFlag("--keep-empty", "Keep suites without tests", helpFlagWidthCmd)
	w.HelpFlag("--fail-on-failure", "Exit with code 1 if any test failed", helpFlagWidthCmd)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthCmd)

	w.HelpSection("Examples:")
	w.HelpExample("cargo test --lib -- -Z unstable-options --format=json | suity convert -n Lib-tests", "Convert from stdin")
	w.HelpExample("suity convert -o junit.xml lib.jsonl doc.jsonl", "Combine two captured runs")
	w.Println("")
}
