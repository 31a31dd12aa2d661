package run

import (
	"fmt"
	"os"

	"github.com/fixflow-sec/fixflow/internal/workflow"
)

// validateRunArgs validates the arguments provided to the run command and
// maps them onto a workflow run configuration.
func validateRunArgs(options *RunOptions, args []string) (workflow.RunConfig, error) {
	if options.Scanner == "" {
		return workflow.RunConfig{}, fmt.Errorf("the 'scanner' flag must be specified")
	}
	if options.Fixer == "" {
		return workflow.RunConfig{}, fmt.Errorf("the 'fixer' flag must be specified")
	}
	if len(args) == 0 {
		return workflow.RunConfig{}, fmt.Errorf("a project path must be specified")
	}
	if len(args) > 1 {
		return workflow.RunConfig{}, fmt.Errorf("only one project path can be specified")
	}

	projectPath := args[0]
	info, err := os.Stat(projectPath)
	if os.IsNotExist(err) {
		return workflow.RunConfig{}, fmt.Errorf("the project path does not exist: %v", projectPath)
	}
	if err == nil && !info.IsDir() {
		return workflow.RunConfig{}, fmt.Errorf("the project path is not a directory: %v", projectPath)
	}

	if options.TimeoutSeconds < 0 {
		return workflow.RunConfig{}, fmt.Errorf("the 'timeout' flag must not be negative")
	}
	if options.QueryLimit < 0 {
		return workflow.RunConfig{}, fmt.Errorf("the 'query-limit' flag must not be negative")
	}
	if options.MaxIterations < 0 {
		return workflow.RunConfig{}, fmt.Errorf("the 'max-iterations' flag must not be negative")
	}

	return buildRunConfig(options, projectPath), nil
}
