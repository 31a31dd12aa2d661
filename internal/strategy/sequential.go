package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/fixflow-sec/fixflow/internal/findings"
	sharederrors "github.com/fixflow-sec/fixflow/pkg/shared/errors"
)

// Sequential runs the scan phase to completion, extracts the rule query, and
// only then performs the knowledge lookup. Each phase fully finishes before
// the next starts.
type Sequential struct {
	scan   Scanner
	rag    RagSearcher
	logger hclog.Logger
}

// NewSequential creates the sequential execution strategy.
func NewSequential(scan Scanner, rag RagSearcher, logger hclog.Logger) *Sequential {
	return &Sequential{
		scan:   scan,
		rag:    rag,
		logger: logger,
	}
}

// Name implements Strategy.
func (s *Sequential) Name() string {
	return "sequential"
}

// Run implements Strategy. A scan failure aborts the run; a search failure is
// recovered by disabling enrichment for the rest of the run.
func (s *Sequential) Run(ctx context.Context, cfg RunConfig) (*PhaseResults, error) {
	results := &PhaseResults{}
	start := time.Now()

	s.logger.Info("scan phase starting", "project", cfg.ProjectPath, "scanner", cfg.Scanner)
	scanStart := time.Now()
	scanResult, err := s.scan.Scan(ctx, cfg.ProjectPath, cfg.Scanner)
	results.Timing.ScanDuration = time.Since(scanStart)
	if err != nil {
		return nil, sharederrors.NewScanFailure(err)
	}
	results.Scan = scanResult
	s.logger.Info("scan phase finished", "findings", len(scanResult.Findings), "elapsed", results.Timing.ScanDuration)

	results.Query = findings.Extract(scanResult.Findings, cfg.QueryLimit)

	if cfg.RagEnabled && !results.Query.IsEmpty() {
		ragStart := time.Now()
		documents, err := s.rag.Search(ctx, results.Query)
		results.Timing.RagDuration = time.Since(ragStart)
		if err != nil {
			warning := fmt.Sprintf("rag search failed, continuing without enrichment: %v", err)
			s.logger.Warn("rag search failed", "error", err)
			results.Warnings = append(results.Warnings, warning)
		} else {
			results.Documents = documents
			s.logger.Info("rag search finished", "documents", len(documents), "elapsed", results.Timing.RagDuration)
		}
	}

	results.Timing.TotalDuration = time.Since(start)
	results.Timing.Parallel = false
	return results, nil
}
