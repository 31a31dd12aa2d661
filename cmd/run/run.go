package run

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/fixservice"
	"github.com/fixflow-sec/fixflow/internal/ragservice"
	"github.com/fixflow-sec/fixflow/internal/reportstore"
	"github.com/fixflow-sec/fixflow/internal/scanservice"
	"github.com/fixflow-sec/fixflow/internal/workflow"
	"github.com/fixflow-sec/fixflow/pkg/shared"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	sharederrors "github.com/fixflow-sec/fixflow/pkg/shared/errors"
	"github.com/fixflow-sec/fixflow/pkg/shared/logger"
)

// RunOptions holds the arguments for the run command.
type RunOptions struct {
	Scanner        string
	Fixer          string
	Mode           string
	RagEnabled     bool
	Parallel       bool
	TimeoutSeconds int
	QueryLimit     int
	MaxIterations  int
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	runOptions      RunOptions
	exampleRunUsage = `  # Running the remediation workflow over a project with the bearer scanner
  fixflow run --scanner bearer --fixer llm /path/to/my_project

  # Running with RAG enrichment enabled
  fixflow run --scanner bearer --fixer llm --rag /path/to/my_project

  # Running the scan and RAG warm-up concurrently under a 2 minute deadline
  fixflow run --scanner sonarqube --fixer llm --rag --parallel --timeout 120 /path/to/my_project

  # Repeating the scan and fix cycle until the scan comes back clean, at most 5 times
  fixflow run --scanner bearer --fixer llm --max-iterations 5 /path/to/my_project

  # Running against the hosted fixer API instead of a local deployment
  fixflow run --scanner semgrep --fixer llm --mode api /path/to/my_project`
)

// RunCmd represents the run command.
var RunCmd = &cobra.Command{
	Use:                   "run --scanner/-s SCANNER --fixer/-f FIXER [--rag] [--parallel] [--timeout SECONDS] PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleRunUsage,
	Short:                 "Executes the scan, enrich, and fix workflow for a project",
	RunE:                  runWorkflowCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runWorkflowCommand executes the run command.
func runWorkflowCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-run")

	runCfg, err := validateRunArgs(&runOptions, args)
	if err != nil {
		logger.Error("invalid run arguments", "error", err)
		return err
	}

	scanClient := scanservice.New(AppConfig, logger)
	ragClient := ragservice.New(AppConfig, logger)
	fixClient := fixservice.New(AppConfig, logger)

	orchestrator := workflow.New(AppConfig, scanClient, ragClient, fixClient, logger)
	store := reportstore.New(AppConfig, logger)

	report, paths, err := executeIterations(cmd.Context(), orchestrator, store, runCfg, runOptions.MaxIterations, logger)
	if err != nil {
		logger.Error("failed to write report", "error", err)
		return err
	}

	if report.Failed() {
		logger.Error("run command failed", "error", report.Error, "reports", paths)
		return sharederrors.NewCommandError(fmt.Errorf("workflow failed: %s", report.Error), 1)
	}

	logger.Info("run command completed successfully", "iterations", len(paths), "reports", paths)
	return nil
}

// workflowExecutor runs one scan, enrich, and fix pass.
type workflowExecutor interface {
	Execute(ctx context.Context, runCfg workflow.RunConfig) *workflow.Report
}

// reportWriter persists one report per pass.
type reportWriter interface {
	Write(report *workflow.Report) (string, error)
}

// executeIterations drives up to maxIterations remediation passes over the
// project and writes one report per pass. The cycle stops early when a pass
// terminates fatally or its scan finds nothing left to fix, so the final
// pass of a converged cycle is a clean verification scan.
func executeIterations(ctx context.Context, executor workflowExecutor, store reportWriter, runCfg workflow.RunConfig, maxIterations int, logger hclog.Logger) (*workflow.Report, []string, error) {
	if maxIterations < 1 {
		maxIterations = 1
	}

	var (
		report *workflow.Report
		paths  []string
	)
	for iteration := 1; iteration <= maxIterations; iteration++ {
		logger.Info("starting remediation pass", "iteration", iteration, "max_iterations", maxIterations)
		report = executor.Execute(ctx, runCfg)

		path, err := store.Write(report)
		if err != nil {
			return report, paths, err
		}
		paths = append(paths, path)

		if report.Failed() {
			return report, paths, nil
		}

		remaining := 0
		if report.ScanResults != nil {
			remaining = len(findings.Qualifying(report.ScanResults.Findings))
		}
		if remaining == 0 {
			logger.Info("scan came back clean, remediation cycle finished", "iteration", iteration)
			return report, paths, nil
		}
		logger.Info("remediation pass finished", "iteration", iteration, "remaining_findings", remaining)
	}
	return report, paths, nil
}

// buildRunConfig maps the validated options onto a workflow run configuration.
func buildRunConfig(options *RunOptions, projectPath string) workflow.RunConfig {
	return workflow.RunConfig{
		ProjectPath:     projectPath,
		Scanner:         options.Scanner,
		Fixer:           options.Fixer,
		Mode:            options.Mode,
		RagEnabled:      options.RagEnabled,
		Parallel:        options.Parallel,
		QueryLimit:      options.QueryLimit,
		ParallelTimeout: time.Duration(options.TimeoutSeconds) * time.Second,
	}
}

// Initialize flags for the run command.
func init() {
	RunCmd.Flags().StringVarP(&runOptions.Scanner, "scanner", "s", "", "Name of the scanner to use (e.g., bearer, sonarqube, semgrep).")
	RunCmd.Flags().StringVarP(&runOptions.Fixer, "fixer", "f", "", "Name of the fixer to use (e.g., llm, template).")
	RunCmd.Flags().StringVarP(&runOptions.Mode, "mode", "m", "local", "Processing mode of the fix stage: local or api.")
	RunCmd.Flags().BoolVar(&runOptions.RagEnabled, "rag", false, "Enrich the fix stage with a RAG knowledge lookup.")
	RunCmd.Flags().BoolVar(&runOptions.Parallel, "parallel", false, "Run the scan and the RAG warm-up concurrently.")
	RunCmd.Flags().IntVarP(&runOptions.TimeoutSeconds, "timeout", "t", 0, "Shared deadline in seconds for the parallel phase (default from config, 600).")
	RunCmd.Flags().IntVar(&runOptions.QueryLimit, "query-limit", 0, "Result limit for the knowledge lookup query (default from config, 5).")
	RunCmd.Flags().IntVar(&runOptions.MaxIterations, "max-iterations", 1, "Maximum number of scan and fix passes; the cycle stops early once a scan comes back clean.")
	RunCmd.Flags().BoolP("help", "h", false, "Show help for the run command.")
}
