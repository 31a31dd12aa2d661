package strategy

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/internal/ragservice"
	"github.com/fixflow-sec/fixflow/internal/scanservice"
	sharederrors "github.com/fixflow-sec/fixflow/pkg/shared/errors"
)

type fakeScanner struct {
	result *scanservice.Result
	err    error
	delay  time.Duration
	calls  int32
}

func (f *fakeScanner) Scan(ctx context.Context, projectPath, scannerType string) (*scanservice.Result, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeRag struct {
	documents    []ragservice.Document
	searchErr    error
	prepareErr   error
	prepareDelay time.Duration

	searchCalls  int32
	prepareCalls int32
}

func (f *fakeRag) Search(ctx context.Context, query findings.RuleQuery) ([]ragservice.Document, error) {
	atomic.AddInt32(&f.searchCalls, 1)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.documents, nil
}

func (f *fakeRag) Prepare(ctx context.Context, projectPath string) (*ragservice.PrepareHandle, error) {
	atomic.AddInt32(&f.prepareCalls, 1)
	if f.prepareDelay > 0 {
		select {
		case <-time.After(f.prepareDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.prepareErr != nil {
		return nil, f.prepareErr
	}
	return &ragservice.PrepareHandle{Collection: "codebase", Warmed: true}, nil
}

func scanResultWithBugs() *scanservice.Result {
	return &scanservice.Result{
		ProjectName: "demo",
		ProjectPath: "/tmp/demo",
		ScannerType: "bearer",
		Status:      scanservice.StatusSuccess,
		IssuesCount: 2,
		Findings: []findings.Finding{
			{Classification: "True Bug", Action: "Fix", RuleDescription: "SQL injection", FilePath: "app.py"},
			{Classification: "True Bug", Action: "Fix", RuleDescription: "XSS", FilePath: "views.py"},
		},
	}
}

func runConfig(ragEnabled bool) RunConfig {
	return RunConfig{
		ProjectPath:     "/tmp/demo",
		Scanner:         "bearer",
		RagEnabled:      ragEnabled,
		QueryLimit:      5,
		ParallelTimeout: 5 * time.Second,
	}
}

func TestSequentialRunWithEnrichment(t *testing.T) {
	scan := &fakeScanner{result: scanResultWithBugs()}
	rag := &fakeRag{documents: []ragservice.Document{{ID: "doc-1", Content: "use parameterized queries"}}}
	s := NewSequential(scan, rag, hclog.NewNullLogger())

	results, err := s.Run(context.Background(), runConfig(true))

	require.NoError(t, err)
	assert.Equal(t, []string{"SQL injection", "XSS"}, results.Query.Query)
	assert.Len(t, results.Documents, 1)
	assert.Empty(t, results.Warnings)
	assert.False(t, results.Timing.Parallel)
	assert.EqualValues(t, 1, scan.calls)
	assert.EqualValues(t, 1, rag.searchCalls)
}

func TestSequentialScanFailureIsFatal(t *testing.T) {
	scan := &fakeScanner{err: errors.New("scanner crashed")}
	rag := &fakeRag{}
	s := NewSequential(scan, rag, hclog.NewNullLogger())

	results, err := s.Run(context.Background(), runConfig(true))

	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, sharederrors.KindScan, sharederrors.KindOf(err))
	assert.EqualValues(t, 0, rag.searchCalls)
}

func TestSequentialSearchFailureIsRecovered(t *testing.T) {
	scan := &fakeScanner{result: scanResultWithBugs()}
	rag := &fakeRag{searchErr: errors.New("rag unavailable")}
	s := NewSequential(scan, rag, hclog.NewNullLogger())

	results, err := s.Run(context.Background(), runConfig(true))

	require.NoError(t, err)
	assert.Empty(t, results.Documents)
	require.Len(t, results.Warnings, 1)
	assert.Contains(t, results.Warnings[0], "rag search failed")
}

func TestSequentialSkipsSearchWhenDisabledOrEmptyQuery(t *testing.T) {
	tests := []struct {
		name       string
		ragEnabled bool
		scanResult *scanservice.Result
	}{
		{
			name:       "rag disabled",
			ragEnabled: false,
			scanResult: scanResultWithBugs(),
		},
		{
			name:       "no qualifying findings",
			ragEnabled: true,
			scanResult: &scanservice.Result{
				Status: scanservice.StatusSuccess,
				Findings: []findings.Finding{
					{Classification: "Code Smell", Action: "Review", RuleDescription: "Long method"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scan := &fakeScanner{result: tt.scanResult}
			rag := &fakeRag{}
			s := NewSequential(scan, rag, hclog.NewNullLogger())

			results, err := s.Run(context.Background(), runConfig(tt.ragEnabled))

			require.NoError(t, err)
			assert.Empty(t, results.Documents)
			assert.EqualValues(t, 0, rag.searchCalls)
		})
	}
}

func TestParallelRunWithEnrichment(t *testing.T) {
	scan := &fakeScanner{result: scanResultWithBugs()}
	rag := &fakeRag{documents: []ragservice.Document{{ID: "doc-1"}, {ID: "doc-2"}}}
	p := NewParallel(scan, rag, hclog.NewNullLogger())

	results, err := p.Run(context.Background(), runConfig(true))

	require.NoError(t, err)
	assert.True(t, results.Timing.Parallel)
	assert.Len(t, results.Documents, 2)
	assert.EqualValues(t, 1, rag.prepareCalls)
	assert.EqualValues(t, 1, rag.searchCalls)
}

func TestParallelRunsScanAndPrepareConcurrently(t *testing.T) {
	// with 150ms per unit a sequential schedule needs at least 300ms
	scan := &fakeScanner{result: scanResultWithBugs(), delay: 150 * time.Millisecond}
	rag := &fakeRag{prepareDelay: 150 * time.Millisecond}
	p := NewParallel(scan, rag, hclog.NewNullLogger())

	start := time.Now()
	results, err := p.Run(context.Background(), runConfig(true))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.NotNil(t, results.Scan)
	assert.Less(t, elapsed, 280*time.Millisecond)
}

func TestParallelScanTimeout(t *testing.T) {
	scan := &fakeScanner{result: scanResultWithBugs(), delay: 5 * time.Second}
	rag := &fakeRag{}
	p := NewParallel(scan, rag, hclog.NewNullLogger())

	cfg := runConfig(false)
	cfg.ParallelTimeout = 100 * time.Millisecond

	start := time.Now()
	results, err := p.Run(context.Background(), cfg)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, sharederrors.KindTimeout, sharederrors.KindOf(err))
	assert.Less(t, elapsed, time.Second)
}

func TestParallelScanFailureIsFatal(t *testing.T) {
	scan := &fakeScanner{err: errors.New("scanner crashed")}
	rag := &fakeRag{}
	p := NewParallel(scan, rag, hclog.NewNullLogger())

	results, err := p.Run(context.Background(), runConfig(true))

	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, sharederrors.KindScan, sharederrors.KindOf(err))
	assert.EqualValues(t, 0, rag.searchCalls)
}

func TestParallelPrepareFailureDisablesEnrichment(t *testing.T) {
	scan := &fakeScanner{result: scanResultWithBugs()}
	rag := &fakeRag{prepareErr: errors.New("collection warm-up failed")}
	p := NewParallel(scan, rag, hclog.NewNullLogger())

	results, err := p.Run(context.Background(), runConfig(true))

	require.NoError(t, err)
	assert.Empty(t, results.Documents)
	require.Len(t, results.Warnings, 1)
	assert.Contains(t, results.Warnings[0], "rag preparation")
	assert.EqualValues(t, 0, rag.searchCalls)
}

func TestParallelRagDisabledSkipsPrepare(t *testing.T) {
	scan := &fakeScanner{result: scanResultWithBugs()}
	rag := &fakeRag{}
	p := NewParallel(scan, rag, hclog.NewNullLogger())

	results, err := p.Run(context.Background(), runConfig(false))

	require.NoError(t, err)
	assert.Empty(t, results.Documents)
	assert.EqualValues(t, 0, rag.prepareCalls)
	assert.EqualValues(t, 0, rag.searchCalls)
}
