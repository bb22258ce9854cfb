package ports

import (
	"context"
	"time"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
)

// RunRequest describes one simulation the engine should execute. Start/End
// are optional at this level; operations that need explicit bounds (walk
// forward) validate their presence before dispatch.
type RunRequest struct {
	Strategy       string                 `json:"strategy"`
	Symbols        []string               `json:"symbols"`
	Start          *time.Time             `json:"start,omitempty"`
	End            *time.Time             `json:"end,omitempty"`
	InitialCash    float64                `json:"initial_cash"`
	Parameters     map[string]interface{} `json:"parameters,omitempty"`
	DataSnapshotID core.SnapshotID        `json:"data_snapshot_id,omitempty"`
}

// WithDates returns a copy of the request with the date range replaced.
// The original request is never mutated.
func (r RunRequest) WithDates(start, end time.Time) RunRequest {
	out := r
	out.Start = &start
	out.End = &end
	return out
}

// EnginePort is the simulation engine contract. Any concrete backend
// satisfies it; failures propagate as errors, never sentinel results.
type EnginePort interface {
	Run(ctx context.Context, req RunRequest) (*contract.RunResult, error)
}
