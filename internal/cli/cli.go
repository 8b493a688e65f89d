// Package cli provides command-line interface functionality for suity.
package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/suity/internal/errors"
	"github.com/AndreyAkinshin/suity/internal/output"
	"github.com/AndreyAkinshin/suity/internal/workflow"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		out.Println("suity %s", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "convert":
		return cmdConvert(cmdArgs, opts)
	case "report":
		return cmdReport(cmdArgs, opts)
	case "config":
		return cmdConfig(cmdArgs, opts)
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("Run 'suity help' for usage.")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet   bool
	Verbose bool
	Config  string // explicit path to suity.yaml
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Manual parsing is used instead of stdlib flag package because global flags
// may appear anywhere in the argument list, interleaved with command flags.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--config" || arg == "-c":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("%s requires a value", arg)
			}
			opts.Config = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--config="):
			opts.Config = strings.TrimPrefix(arg, "--config=")
			if opts.Config == "" {
				return nil, nil, fmt.Errorf("--config requires a value")
			}
			i++
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}

	// Apply verbosity settings to the shared output writer so every
	// command observes the same mode.
	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

func printUsage() {
	w := output.New()

	w.HelpTitle("suity - turn libtest JSON output into JUnit XML reports")

	w.HelpSection("Usage:")
	w.HelpUsage("suity <command> [options] [args]")

	w.HelpSection("Commands:")
	w.HelpCommand("convert [<file>...]", "Convert captured event streams into one JUnit report", 22)
	w.HelpCommand("report [<workflow>...]", "Build the JUnit report of configured workflows", 22)
	w.HelpCommand("config validate", "Validate the project configuration", 22)
	w.HelpCommand("version", "Show version information", 22)

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("cargo test -- -Z unstable-options --format=json | suity convert -o junit.xml", "Convert a live test run")
	w.HelpExample("suity report", "Build reports/default.xml from suity.yaml")
	w.HelpExample("suity report '*' --watch", "Rebuild every workflow whenever its inputs change")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidthGlobal)
	w.HelpFlag("-v, --verbose", "Maximum detail", helpFlagWidthGlobal)
	w.HelpFlag("-c, --config <file>", "Use this configuration file instead of suity.yaml", helpFlagWidthGlobal)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthGlobal)
	w.HelpFlag("--version", "Show version", helpFlagWidthGlobal)

	w.HelpSection("Environment:")
	w.HelpEnvVar(workflow.ParallelEnv+"=<n>", "Runs aggregated concurrently (default: CPU count)", 18)
}
