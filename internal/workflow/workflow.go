// Package workflow resolves configured workflows into runs and aggregates
// each run's event stream into one JUnit report per workflow.
package workflow

import (
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/suity/internal/config"
	suityerrors "github.com/AndreyAkinshin/suity/internal/errors"
	"github.com/AndreyAkinshin/suity/internal/project"
)

// All selects every configured workflow.
const All = "*"

// Run is a single harness invocation whose captured output becomes one suite.
type Run struct {
	Kind  config.RunKind
	Label string
	Input string // absolute path of the captured event stream
}

// Workflow is a resolved workflow ready to be built.
type Workflow struct {
	Name   string
	Runs   []Run
	Report string // absolute path of the JUnit report
}

// Inputs returns the input paths of all runs in configuration order.
func (wf *Workflow) Inputs() []string {
	inputs := make([]string, len(wf.Runs))
	for i, r := range wf.Runs {
		inputs[i] = r.Input
	}
	return inputs
}

// Label returns the suite name for a run of the given workflow.
// Library and doc runs are "[<workflow>] Lib-tests" and "[<workflow>] Doc-tests";
// integration runs are named after their test binary.
func Label(workflow string, run config.RunConfig) string {
	switch run.Kind {
	case config.RunKindLib, config.RunKindDoc:
		return fmt.Sprintf("[%s] %s-tests", workflow, cases.Title(language.English).String(string(run.Kind)))
	default:
		return fmt.Sprintf("[%s] %s", workflow, run.Name)
	}
}

// Resolve looks up a workflow by name and resolves its paths against the project root.
func Resolve(proj *project.Project, name string) (*Workflow, error) {
	wfc, ok := proj.Config.Workflow(name)
	if !ok {
		return nil, suityerrors.NotFound("workflow", name)
	}
	if len(wfc.Runs) == 0 {
		err := suityerrors.Config("no runs configured")
		err.Workflow = name
		return nil, err
	}

	report, err := proj.ReportPath(name)
	if err != nil {
		return nil, suityerrors.Wrap(err, "failed to resolve report path")
	}

	wf := &Workflow{
		Name:   name,
		Runs:   make([]Run, 0, len(wfc.Runs)),
		Report: filepath.Clean(report),
	}
	for _, rc := range wfc.Runs {
		wf.Runs = append(wf.Runs, Run{
			Kind:  rc.Kind,
			Label: Label(name, rc),
			Input: proj.Path(rc.Input),
		})
	}
	return wf, nil
}

// ResolveAll resolves the named workflows in order. No names selects the
// default workflow. All selects every workflow that has runs, sorted by name.
func ResolveAll(proj *project.Project, names []string) ([]*Workflow, error) {
	if len(names) == 0 {
		names = []string{config.DefaultWorkflow}
	}
	if len(names) == 1 && names[0] == All {
		names = make([]string, 0, len(proj.Config.Workflows))
		for name, wfc := range proj.Config.Workflows {
			if len(wfc.Runs) > 0 {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		if len(names) == 0 {
			return nil, suityerrors.Config("no workflows with runs configured")
		}
	}

	seen := make(map[string]bool, len(names))
	workflows := make([]*Workflow, 0, len(names))
	for _, name := range names {
		if name == All {
			return nil, suityerrors.Configf("%q cannot be combined with workflow names", All)
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		wf, err := Resolve(proj, name)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, nil
}

// Owners returns the workflows that read the given input path.
func Owners(workflows []*Workflow, path string) []*Workflow {
	path = filepath.Clean(path)
	var owners []*Workflow
	for _, wf := range workflows {
		for _, r := range wf.Runs {
			if r.Input == path {
				owners = append(owners, wf)
				break
			}
		}
	}
	return owners
}
