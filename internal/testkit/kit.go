// Package testkit provides fakes and fixture builders shared by the test
// suites: a scriptable engine and synthetic run-result populations.
package testkit

import (
	"context"
	"sync"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/ports"
)

// FakeEngine is a scriptable ports.EnginePort. Either Metrics (fixed output
// per call) or MetricsFn (per-call output) drives the produced results; Err
// makes every call fail.
type FakeEngine struct {
	Metrics   map[string]float64
	MetricsFn func(req ports.RunRequest, call int) map[string]float64
	Err       error

	mu    sync.Mutex
	calls []ports.RunRequest
}

var _ ports.EnginePort = (*FakeEngine)(nil)

// Run records the request and fabricates a run result
func (e *FakeEngine) Run(ctx context.Context, req ports.RunRequest) (*contract.RunResult, error) {
	e.mu.Lock()
	call := len(e.calls)
	e.calls = append(e.calls, req)
	e.mu.Unlock()

	if e.Err != nil {
		return nil, e.Err
	}

	metrics := e.Metrics
	if e.MetricsFn != nil {
		metrics = e.MetricsFn(req, call)
	}

	copied := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		copied[k] = v
	}
	return NewResult(req.Strategy, copied), nil
}

// Calls returns the recorded requests in call order
func (e *FakeEngine) Calls() []ports.RunRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ports.RunRequest, len(e.calls))
	copy(out, e.calls)
	return out
}

// NewResult builds a complete current-schema run result for tests
func NewResult(strategy string, metrics map[string]float64) *contract.RunResult {
	meta := contract.RunMetadata{
		RunID:          core.NewRunID(),
		EngineName:     "fake-engine",
		EngineVersion:  "0.0.0",
		StrategyName:   strategy,
		CreatedAt:      core.Now(),
		ConfigHash:     core.ComputeConfigHash(strategy, nil),
		DataSnapshotID: core.SnapshotID("test-snapshot"),
	}
	return contract.MustNewRunResult(meta, metrics)
}

// ResultSeries builds one result per value, carrying a single metric.
// Useful for assembling per-window populations for the hypothesis tests.
func ResultSeries(strategy, metric string, values []float64) []*contract.RunResult {
	results := make([]*contract.RunResult, len(values))
	for i, v := range values {
		results[i] = NewResult(strategy, map[string]float64{metric: v})
	}
	return results
}
