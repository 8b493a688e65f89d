package cli

import (
	"fmt"
	"sort"

	"github.com/AndreyAkinshin/suity/internal/errors"
	"github.com/AndreyAkinshin/suity/internal/output"
	"github.com/AndreyAkinshin/suity/internal/project"
	"github.com/AndreyAkinshin/suity/internal/workflow"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// Help text alignment widths for consistent formatting.
const (
	helpFlagWidthShort  = 10 // Width for short flags like "-h, --help"
	helpFlagWidthGlobal = 19 // Width for global flags like "-c, --config <file>"
	helpFlagWidthCmd    = 22 // Width for command flags like "--fail-on-failure"
)

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)
}

// loadProject loads the project configuration and handles errors uniformly.
// Returns the project and exit code 0 on success, or nil and exit code 2 on failure:
// a missing or invalid configuration is always a configuration error.
func loadProject(opts *GlobalOptions) (*project.Project, int) {
	var proj *project.Project
	var err error
	if opts.Config != "" {
		proj, err = project.LoadProjectFile(opts.Config)
	} else {
		proj, err = project.LoadProject()
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.ExitConfigError
	}

	for _, w := range proj.Warnings {
		out.Warning("%s", w)
	}
	return proj, 0
}

// cmdConfig handles configuration utilities.
func cmdConfig(args []string, opts *GlobalOptions) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(opts)
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate(opts *GlobalOptions) int {
	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	names := make([]string, 0, len(proj.Config.Workflows))
	runs := 0
	for name, wf := range proj.Config.Workflows {
		names = append(names, name)
		runs += len(wf.Runs)
	}
	sort.Strings(names)

	out.ValidationSuccess("Configuration is valid.")
	out.SummaryItem("Config", proj.ConfigPath())
	out.SummaryItem("Workflows", fmt.Sprintf("%d (%d runs)", len(names), runs))
	if len(proj.Warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
	}

	if opts.Verbose && len(names) > 0 {
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			report, err := proj.ReportPath(name)
			if err != nil {
				report = "-"
			}
			rows = append(rows, []string{name, fmt.Sprintf("%d", len(proj.Config.Workflows[name].Runs)), report})
		}
		out.Println("")
		out.Table([]string{"Workflow", "Runs", "Report"}, rows)

		for _, name := range names {
			wf, err := workflow.Resolve(proj, name)
			if err != nil {
				continue
			}
			out.Section(name)
			labels := make([]string, 0, len(wf.Runs))
			for _, r := range wf.Runs {
				labels = append(labels, fmt.Sprintf("%s <- %s", r.Label, r.Input))
			}
			out.List(labels)
		}
	}
	return 0
}

// printConfigUsage prints the help text for the config command.
func printConfigUsage() {
	w := output.New()

	w.HelpTitle("suity config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("suity config <subcommand>")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate the project configuration", helpFlagWidthShort)

	w.HelpSection("Options:")
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)

	w.HelpSection("Examples:")
	w.HelpExample("suity config validate", "Validate suity.yaml")
	w.HelpExample("suity -v config validate", "Also list every workflow and run")
	w.Println("")
}
