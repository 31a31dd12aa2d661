package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/ragservice"
	"github.com/fixflow-sec/fixflow/internal/scanservice"
	"github.com/fixflow-sec/fixflow/internal/supervisor"
	sharederrors "github.com/fixflow-sec/fixflow/pkg/shared/errors"
)

const (
	unitScan       = "scan"
	unitRagPrepare = "rag-prepare"
)

// RagClient combines the two RAG capabilities the parallel strategy needs.
type RagClient interface {
	RagSearcher
	RagPreparer
}

// Parallel launches the scan and the RAG warm-up concurrently under a shared
// deadline, then issues the dependent search once the scan-derived query is
// available. The scan unit is mandatory; the warm-up is best effort and its
// failure only downgrades the run to an unenriched one.
type Parallel struct {
	scan   Scanner
	rag    RagClient
	logger hclog.Logger
}

// NewParallel creates the parallel execution strategy.
func NewParallel(scan Scanner, rag RagClient, logger hclog.Logger) *Parallel {
	return &Parallel{
		scan:   scan,
		rag:    rag,
		logger: logger,
	}
}

// Name implements Strategy.
func (p *Parallel) Name() string {
	return "parallel"
}

// Run implements Strategy.
func (p *Parallel) Run(ctx context.Context, cfg RunConfig) (*PhaseResults, error) {
	results := &PhaseResults{}
	results.Timing.Parallel = true
	start := time.Now()

	sup := supervisor.New(ctx, p.logger)

	p.logger.Info("launching first-phase work units", "project", cfg.ProjectPath, "scanner", cfg.Scanner,
		"rag", cfg.RagEnabled, "deadline", cfg.ParallelTimeout)

	sup.Submit(unitScan, func(unitCtx context.Context) (interface{}, error) {
		return p.scan.Scan(unitCtx, cfg.ProjectPath, cfg.Scanner)
	})

	ragEnabled := cfg.RagEnabled
	if ragEnabled {
		sup.Submit(unitRagPrepare, func(unitCtx context.Context) (interface{}, error) {
			return p.rag.Prepare(unitCtx, cfg.ProjectPath)
		})
	}

	outcomes := sup.AwaitAll(cfg.ParallelTimeout)

	scanOutcome := outcomes[unitScan]
	results.Timing.ScanDuration = scanOutcome.Elapsed
	switch scanOutcome.Status {
	case supervisor.StatusCompleted:
		results.Scan = scanOutcome.Value.(*scanservice.Result)
	case supervisor.StatusTimedOut:
		return nil, sharederrors.NewTimeoutExceeded(
			fmt.Errorf("scan did not finish within %s", cfg.ParallelTimeout))
	default:
		return nil, sharederrors.NewScanFailure(scanOutcome.Err)
	}
	p.logger.Info("scan unit finished", "findings", len(results.Scan.Findings), "elapsed", scanOutcome.Elapsed)

	var prepElapsed time.Duration
	if ragEnabled {
		prepOutcome := outcomes[unitRagPrepare]
		prepElapsed = prepOutcome.Elapsed
		if prepOutcome.Status != supervisor.StatusCompleted {
			// Enrichment is best effort: a failed or timed out warm-up
			// disables RAG for the remainder of the run.
			ragEnabled = false
			warning := fmt.Sprintf("rag preparation ended with status %q, continuing without enrichment", prepOutcome.Status)
			if prepOutcome.Err != nil {
				warning = fmt.Sprintf("%s: %v", warning, prepOutcome.Err)
			}
			p.logger.Warn("rag preparation did not complete", "status", prepOutcome.Status, "error", prepOutcome.Err)
			results.Warnings = append(results.Warnings, warning)
		} else if handle, ok := prepOutcome.Value.(*ragservice.PrepareHandle); ok {
			p.logger.Debug("rag collections warmed", "collection", handle.Collection, "elapsed", prepElapsed)
		}
	}

	results.Query = findings.Extract(results.Scan.Findings, cfg.QueryLimit)

	// The dependent search needs the final rule query, so it runs strictly
	// after the scan unit and is never concurrent with it.
	var searchElapsed time.Duration
	if ragEnabled && !results.Query.IsEmpty() {
		searchStart := time.Now()
		documents, err := p.rag.Search(ctx, results.Query)
		searchElapsed = time.Since(searchStart)
		if err != nil {
			warning := fmt.Sprintf("rag search failed, continuing without enrichment: %v", err)
			p.logger.Warn("rag search failed", "error", err)
			results.Warnings = append(results.Warnings, warning)
		} else {
			results.Documents = documents
			p.logger.Info("rag search finished", "documents", len(documents), "elapsed", searchElapsed)
		}
	}

	results.Timing.RagDuration = prepElapsed + searchElapsed
	results.Timing.TotalDuration = time.Since(start)
	return results, nil
}
