package project

import (
	"fmt"
	"path/filepath"

	"github.com/AndreyAkinshin/suity/internal/config"
)

// Project represents a loaded suity project.
type Project struct {
	Root       string
	Config     *config.Config
	Warnings   []string
	configPath string
}

// LoadProject finds and loads a project from the current directory.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
func LoadProjectFrom(root string) (*Project, error) {
	return LoadProjectFile(filepath.Join(root, ConfigFileName))
}

// LoadProjectFile loads a project from an explicit configuration file.
// The directory containing the file becomes the project root.
func LoadProjectFile(configPath string) (*Project, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, err
	}

	cfg, warnings, err := config.LoadAndValidate(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &Project{
		Root:       filepath.Dir(abs),
		Config:     cfg,
		Warnings:   warnings,
		configPath: abs,
	}, nil
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	if p.configPath != "" {
		return p.configPath
	}
	return filepath.Join(p.Root, ConfigFileName)
}

// Path resolves a configured path against the project root.
// Absolute paths are returned unchanged.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.Root, rel)
}

// ReportPath returns the absolute path of the JUnit report for a workflow.
func (p *Project) ReportPath(workflow string) (string, error) {
	wf, ok := p.Config.Workflow(workflow)
	if !ok {
		return "", fmt.Errorf("workflow %q not found", workflow)
	}
	return filepath.Join(p.Path(wf.Output), workflow+".xml"), nil
}
