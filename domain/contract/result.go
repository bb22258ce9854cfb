package contract

import (
	"fmt"

	"stratcheck/domain/core"
)

// CurrentSchemaVersion is the payload schema written by this layer.
// Major bumps are breaking; minor/patch bumps are always compatible.
const CurrentSchemaVersion = "1.0.0"

// Canonical metric keys. Every engine adapter maps its native output onto
// this fixed vocabulary; nothing downstream accepts free-form metric names.
const (
	MetricStartingValue       = "starting_value"
	MetricEndingValue         = "ending_value"
	MetricROI                 = "roi"
	MetricCAGR                = "cagr"
	MetricSharpe              = "sharpe"
	MetricMaxDrawdown         = "max_drawdown"
	MetricMeanCashUtilization = "mean_cash_utilization"
)

// CanonicalMetricKeys lists the full known metric vocabulary
func CanonicalMetricKeys() []string {
	return []string{
		MetricStartingValue,
		MetricEndingValue,
		MetricROI,
		MetricCAGR,
		MetricSharpe,
		MetricMaxDrawdown,
		MetricMeanCashUtilization,
	}
}

// RunMetadata identifies a single backtest run. Immutable once constructed.
type RunMetadata struct {
	RunID          core.RunID      `json:"run_id"`
	EngineName     string          `json:"engine_name"`
	EngineVersion  string          `json:"engine_version"`
	StrategyName   string          `json:"strategy_name"`
	CreatedAt      core.Timestamp  `json:"created_at"`
	ConfigHash     core.ConfigHash `json:"config_hash"`
	DataSnapshotID core.SnapshotID `json:"data_snapshot_id"`
	RandomSeed     *int64          `json:"random_seed"`
}

// CostKind tags one category of trading cost
type CostKind string

const (
	CostCommission   CostKind = "commission"
	CostSpread       CostKind = "spread"
	CostSlippage     CostKind = "slippage"
	CostBorrow       CostKind = "borrow"
	CostMarketImpact CostKind = "market_impact"
)

// CostEvent is one individual cost charge incurred during a run
type CostEvent struct {
	Kind      CostKind       `json:"kind"`
	Amount    float64        `json:"amount"`
	Symbol    string         `json:"symbol"`
	Timestamp core.Timestamp `json:"timestamp"`
}

// CostSummary totals the cost breakdown for a run plus the ordered
// sequence of individual cost events behind the totals.
type CostSummary struct {
	Commission   float64     `json:"commission"`
	Spread       float64     `json:"spread"`
	Slippage     float64     `json:"slippage"`
	Borrow       float64     `json:"borrow"`
	MarketImpact float64     `json:"market_impact"`
	Events       []CostEvent `json:"events,omitempty"`
}

// Total returns the sum of all cost categories
func (c CostSummary) Total() float64 {
	return c.Commission + c.Spread + c.Slippage + c.Borrow + c.MarketImpact
}

// RunResult is the engine-agnostic record of one backtest run.
// Created by the engine adapter at the end of a run and never mutated
// afterwards; a correction produces a new instance.
type RunResult struct {
	Metadata      RunMetadata            `json:"metadata"`
	Metrics       map[string]float64     `json:"metrics"`
	SchemaVersion string                 `json:"schema_version"`
	Assumptions   map[string]interface{} `json:"assumptions"`
	Artifacts     map[string]string      `json:"artifacts"`
	Warnings      []string               `json:"warnings"`
	Costs         *CostSummary           `json:"costs,omitempty"`
}

// NewRunResult creates a current-schema run result with validation
func NewRunResult(meta RunMetadata, metrics map[string]float64) (*RunResult, error) {
	if meta.RunID == "" {
		return nil, core.NewValidationError("run_id", "must be set")
	}
	if meta.EngineName == "" {
		return nil, core.NewValidationError("engine_name", "must be set")
	}
	if meta.StrategyName == "" {
		return nil, core.NewValidationError("strategy_name", "must be set")
	}
	if metrics == nil {
		metrics = map[string]float64{}
	}

	return &RunResult{
		Metadata:      meta,
		Metrics:       metrics,
		SchemaVersion: CurrentSchemaVersion,
		Assumptions:   map[string]interface{}{},
		Artifacts:     map[string]string{},
		Warnings:      []string{},
	}, nil
}

// MustNewRunResult creates a run result and panics on invalid input.
// Use only in tests and fixtures.
func MustNewRunResult(meta RunMetadata, metrics map[string]float64) *RunResult {
	r, err := NewRunResult(meta, metrics)
	if err != nil {
		panic(err)
	}
	return r
}

// Metric looks up a canonical metric value, reporting the available keys
// when the requested one is absent.
func (r *RunResult) Metric(key string) (float64, error) {
	v, ok := r.Metrics[key]
	if !ok {
		return 0, core.NewMissingMetricError(key, r.Metrics)
	}
	return v, nil
}

// HasMetric reports whether the metric key is present
func (r *RunResult) HasMetric(key string) bool {
	_, ok := r.Metrics[key]
	return ok
}

func (r *RunResult) String() string {
	return fmt.Sprintf("RunResult(%s strategy=%s engine=%s/%s metrics=%d)",
		r.Metadata.RunID, r.Metadata.StrategyName, r.Metadata.EngineName,
		r.Metadata.EngineVersion, len(r.Metrics))
}
