package workflow

import (
	"time"

	"github.com/fixflow-sec/fixflow/internal/fixservice"
	"github.com/fixflow-sec/fixflow/internal/ragservice"
	"github.com/fixflow-sec/fixflow/internal/scanservice"
)

// Terminal statuses of a workflow run.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunConfig is the configuration surface of one workflow run, consumed from
// CLI flags and config defaults.
type RunConfig struct {
	ProjectPath     string        `json:"project_path"`
	Scanner         string        `json:"scanner"`
	Fixer           string        `json:"fixer"`
	Mode            string        `json:"mode"`
	RagEnabled      bool          `json:"rag_enabled"`
	Parallel        bool          `json:"parallel"`
	QueryLimit      int           `json:"query_limit"`
	ParallelTimeout time.Duration `json:"parallel_timeout"`
}

// PerformanceMetrics are the per-phase durations of a run, in seconds.
type PerformanceMetrics struct {
	ScanDuration      float64 `json:"scan_duration"`
	RagDuration       float64 `json:"rag_duration"`
	FixDuration       float64 `json:"fix_duration"`
	TotalDuration     float64 `json:"total_duration"`
	ParallelExecution bool    `json:"parallel_execution"`
}

// Report is the serialized snapshot of a completed workflow run. It is
// write-once: the orchestrator is its sole writer and finalizes it before
// returning. Fatal errors populate Status and Error instead of raising a
// fault across the workflow boundary.
type Report struct {
	RunID               string                `json:"run_id"`
	Timestamp           time.Time             `json:"timestamp"`
	ProcessingMode      string                `json:"processing_mode"`
	Status              string                `json:"status"`
	Error               string                `json:"error,omitempty"`
	TotalProcessingTime float64               `json:"total_processing_time"`
	Configuration       RunConfig             `json:"configuration"`
	ScanResults         *scanservice.Result   `json:"scan_results,omitempty"`
	RagSearchResults    []ragservice.Document `json:"rag_search_results"`
	FixResults          []fixservice.Result   `json:"fix_results"`
	RuleDescriptions    []string              `json:"rule_descriptions"`
	Warnings            []string              `json:"warnings,omitempty"`
	PerformanceMetrics  PerformanceMetrics    `json:"performance_metrics"`
}

// Failed reports whether the run terminated fatally.
func (r *Report) Failed() bool {
	return r.Status == StatusFailed
}
