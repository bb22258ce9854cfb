package ports

import (
	"context"
	"time"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
)

// RunSummary is the lightweight listing record returned by ListRuns
type RunSummary struct {
	RunID        core.RunID      `json:"run_id"`
	StrategyName string          `json:"strategy_name"`
	EngineName   string          `json:"engine_name"`
	CreatedAt    core.Timestamp  `json:"created_at"`
	ConfigHash   core.ConfigHash `json:"config_hash"`
}

// ListFilter narrows and bounds a registry listing. Zero values mean
// "no constraint"; Strategy matches case-insensitively.
type ListFilter struct {
	Strategy string
	Since    *time.Time
	Until    *time.Time
	Limit    int
}

// RegistryPort stores experiment run results keyed by run identifier.
// Save refuses to overwrite an existing identifier; identifiers are assumed
// globally unique.
type RegistryPort interface {
	Save(ctx context.Context, result *contract.RunResult) error
	Load(ctx context.Context, runID core.RunID) (*contract.RunResult, error)
	ListRuns(ctx context.Context, filter ListFilter) ([]RunSummary, error)
	FindByHash(ctx context.Context, hash core.ConfigHash) ([]*contract.RunResult, error)
	Delete(ctx context.Context, runID core.RunID) error
	Count(ctx context.Context) (int, error)
}
