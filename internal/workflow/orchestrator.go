package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/fixservice"
	"github.com/fixflow-sec/fixflow/internal/strategy"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
	sharederrors "github.com/fixflow-sec/fixflow/pkg/shared/errors"
	"github.com/fixflow-sec/fixflow/pkg/shared/files"
)

// ScanClient is the scan collaborator contract consumed by the orchestrator.
type ScanClient interface {
	strategy.Scanner
	Health(ctx context.Context) error
}

// RagClient is the RAG collaborator contract consumed by the orchestrator.
type RagClient interface {
	strategy.RagClient
	Health(ctx context.Context) error
}

// FixClient is the fix collaborator contract consumed by the orchestrator.
type FixClient interface {
	Fix(ctx context.Context, req fixservice.Request) (*fixservice.Result, error)
	Health(ctx context.Context) error
}

// Orchestrator is the top-level coordinator of a workflow run: it validates
// the configuration, picks an execution strategy, merges the phase results,
// drives the fix stage, and assembles the report.
type Orchestrator struct {
	cfg    *config.Config
	scan   ScanClient
	rag    RagClient
	fix    FixClient
	logger hclog.Logger

	sequential strategy.Strategy
	parallel   strategy.Strategy
}

// New creates an orchestrator wired to the three external services.
func New(cfg *config.Config, scan ScanClient, rag RagClient, fix FixClient, logger hclog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		scan:       scan,
		rag:        rag,
		fix:        fix,
		logger:     logger,
		sequential: strategy.NewSequential(scan, rag, logger),
		parallel:   strategy.NewParallel(scan, rag, logger),
	}
}

// Execute runs the full scan, enrich, and fix pipeline and always returns a
// report: fatal errors yield a failed report with a populated error field
// instead of an error value, so callers decide how to surface them.
func (o *Orchestrator) Execute(ctx context.Context, runCfg RunConfig) *Report {
	start := time.Now()
	o.applyDefaults(&runCfg)

	report := &Report{
		RunID:         uuid.NewString(),
		Timestamp:     start.UTC(),
		Configuration: runCfg,
	}
	report.ProcessingMode = "sequential"
	if runCfg.Parallel {
		report.ProcessingMode = "parallel"
	}

	if err := o.validate(runCfg); err != nil {
		return o.fail(report, start, err)
	}

	if err := o.preflight(ctx, report, &runCfg); err != nil {
		return o.fail(report, start, err)
	}

	selected := o.sequential
	if runCfg.Parallel {
		selected = o.parallel
	}

	o.logger.Info("workflow starting", "run_id", report.RunID, "mode", selected.Name(),
		"project", runCfg.ProjectPath, "scanner", runCfg.Scanner, "fixer", runCfg.Fixer, "rag", runCfg.RagEnabled)

	phase, err := selected.Run(ctx, strategy.RunConfig{
		ProjectPath:     runCfg.ProjectPath,
		Scanner:         runCfg.Scanner,
		RagEnabled:      runCfg.RagEnabled,
		QueryLimit:      runCfg.QueryLimit,
		ParallelTimeout: runCfg.ParallelTimeout,
	})
	if err != nil {
		return o.fail(report, start, err)
	}

	report.ScanResults = phase.Scan
	report.RagSearchResults = phase.Documents
	report.RuleDescriptions = phase.Query.Query
	report.Warnings = append(report.Warnings, phase.Warnings...)
	report.PerformanceMetrics.ScanDuration = phase.Timing.ScanDuration.Seconds()
	report.PerformanceMetrics.RagDuration = phase.Timing.RagDuration.Seconds()
	report.PerformanceMetrics.ParallelExecution = phase.Timing.Parallel

	fixStart := time.Now()
	report.FixResults = o.runFixStage(ctx, report, runCfg, phase)
	report.PerformanceMetrics.FixDuration = time.Since(fixStart).Seconds()

	report.Status = StatusCompleted
	report.TotalProcessingTime = time.Since(start).Seconds()
	report.PerformanceMetrics.TotalDuration = report.TotalProcessingTime

	o.logger.Info("workflow completed", "run_id", report.RunID,
		"findings", len(phase.Scan.Findings), "fix_targets", len(report.FixResults),
		"elapsed", time.Since(start))
	return report
}

// runFixStage invokes the fix service once per target file. Per-target
// failures are recorded in the report and never terminate the workflow.
func (o *Orchestrator) runFixStage(ctx context.Context, report *Report, runCfg RunConfig, phase *strategy.PhaseResults) []fixservice.Result {
	fixerSpec, _ := LookupFixer(runCfg.Fixer)
	targets := findings.GroupByFile(phase.Scan.Findings)
	if len(targets) == 0 {
		o.logger.Info("no qualifying findings, fix stage skipped")
		return nil
	}

	// RAG context is attached only when the search produced documents.
	ragContext := phase.Documents

	results := make([]fixservice.Result, 0, len(targets))
	for _, target := range targets {
		result, err := o.fix.Fix(ctx, fixservice.Request{
			Target:       target.FilePath,
			TemplateType: fixerSpec.TemplateType,
			Findings:     target.Findings,
			RagContext:   ragContext,
		})
		if err != nil {
			fixErr := sharederrors.NewFixFailure(err)
			o.logger.Warn("fix failed for target", "target", target.FilePath, "error", err)
			report.Warnings = append(report.Warnings, fixErr.Error())
			results = append(results, fixservice.Result{
				Target:  target.FilePath,
				Fixed:   false,
				Details: err.Error(),
			})
			continue
		}
		o.logger.Info("fix finished for target", "target", target.FilePath, "fixed", result.Fixed)
		results = append(results, *result)
	}
	return results
}

// applyDefaults fills unset run parameters from the application config.
func (o *Orchestrator) applyDefaults(runCfg *RunConfig) {
	if runCfg.Mode == "" {
		runCfg.Mode = ModeLocal
	}
	if runCfg.QueryLimit <= 0 {
		runCfg.QueryLimit = o.cfg.Workflow.QueryLimit
	}
	if runCfg.ParallelTimeout <= 0 {
		runCfg.ParallelTimeout = o.cfg.Workflow.ParallelTimeout.Std()
	}
}

// validate rejects a run before any external call is made.
func (o *Orchestrator) validate(runCfg RunConfig) error {
	if runCfg.ProjectPath == "" {
		return sharederrors.NewConfigurationError("project path must be specified")
	}
	if err := files.ValidateFolder(runCfg.ProjectPath); err != nil {
		return sharederrors.NewConfigurationError("project path %q is not usable: %v", runCfg.ProjectPath, err)
	}
	if _, ok := LookupScanner(runCfg.Scanner); !ok {
		return sharederrors.NewConfigurationError("unknown scanner %q, supported: %s",
			runCfg.Scanner, strings.Join(KnownScanners(), ", "))
	}
	if _, ok := LookupFixer(runCfg.Fixer); !ok {
		return sharederrors.NewConfigurationError("unknown fixer %q, supported: %s",
			runCfg.Fixer, strings.Join(KnownFixers(), ", "))
	}
	if !ValidMode(runCfg.Mode) {
		return sharederrors.NewConfigurationError("unknown mode %q, supported: %s, %s", runCfg.Mode, ModeLocal, ModeAPI)
	}
	return nil
}

// preflight checks the mandatory services before the run. An unhealthy RAG
// service only disables enrichment with a recorded warning.
func (o *Orchestrator) preflight(ctx context.Context, report *Report, runCfg *RunConfig) error {
	if err := o.scan.Health(ctx); err != nil {
		return sharederrors.NewScanFailure(fmt.Errorf("scan service is unavailable: %w", err))
	}
	if err := o.fix.Health(ctx); err != nil {
		return sharederrors.NewConfigurationError("fix service is unavailable: %v", err)
	}
	if runCfg.RagEnabled {
		if err := o.rag.Health(ctx); err != nil {
			runCfg.RagEnabled = false
			warning := sharederrors.NewRagFailure(fmt.Errorf("rag service is unavailable, continuing without enrichment: %w", err))
			o.logger.Warn("rag service is unavailable", "error", err)
			report.Warnings = append(report.Warnings, warning.Error())
		}
	}
	return nil
}

// fail finalizes the report for a fatal error.
func (o *Orchestrator) fail(report *Report, start time.Time, err error) *Report {
	report.Status = StatusFailed
	report.Error = err.Error()
	report.TotalProcessingTime = time.Since(start).Seconds()
	report.PerformanceMetrics.TotalDuration = report.TotalProcessingTime
	o.logger.Error("workflow failed", "run_id", report.RunID, "kind", string(sharederrors.KindOf(err)), "error", err)
	return report
}
