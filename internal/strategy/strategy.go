package strategy

import (
	"context"
	"time"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/ragservice"
	"github.com/fixflow-sec/fixflow/internal/scanservice"
)

// Scanner is the scan capability a strategy depends on.
type Scanner interface {
	Scan(ctx context.Context, projectPath, scannerType string) (*scanservice.Result, error)
}

// RagSearcher is the knowledge lookup capability a strategy depends on.
type RagSearcher interface {
	Search(ctx context.Context, query findings.RuleQuery) ([]ragservice.Document, error)
}

// RagPreparer is the warm-up capability used only by the parallel strategy.
type RagPreparer interface {
	Prepare(ctx context.Context, projectPath string) (*ragservice.PrepareHandle, error)
}

// RunConfig is the per-run input of a strategy.
type RunConfig struct {
	ProjectPath     string
	Scanner         string
	RagEnabled      bool
	QueryLimit      int
	ParallelTimeout time.Duration
}

// Timing holds the per-phase elapsed times of a strategy run.
type Timing struct {
	ScanDuration  time.Duration
	RagDuration   time.Duration
	TotalDuration time.Duration
	Parallel      bool
}

// PhaseResults aggregates everything the scan and enrichment phases produced.
// Warnings record recovered failures; they never change the run's terminal
// status.
type PhaseResults struct {
	Scan      *scanservice.Result
	Query     findings.RuleQuery
	Documents []ragservice.Document
	Warnings  []string
	Timing    Timing
}

// Strategy is the orchestration contract shared by the sequential and
// parallel variants. The orchestrator depends only on this interface.
type Strategy interface {
	Name() string
	Run(ctx context.Context, cfg RunConfig) (*PhaseResults, error)
}
