// Package postgres provides a PostgreSQL-backed RegistryPort for
// deployments that outgrow the file registry. The on-disk file layout
// remains the interchange format of record.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	strategy_name TEXT NOT NULL,
	engine_name   TEXT NOT NULL,
	config_hash   TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	payload       JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_config_hash_idx ON runs (config_hash);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at DESC);
`

// RunRepository implements ports.RegistryPort on PostgreSQL
type RunRepository struct {
	db *sqlx.DB
}

var _ ports.RegistryPort = (*RunRepository)(nil)

// NewRunRepository creates a repository and ensures the schema exists
func NewRunRepository(db *sqlx.DB) (*RunRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("ensure runs schema: %w", err)
	}
	return &RunRepository{db: db}, nil
}

// Save inserts a run, refusing to overwrite an existing identifier
func (r *RunRepository) Save(ctx context.Context, result *contract.RunResult) error {
	if result.Metadata.RunID == "" {
		return core.NewValidationError("run_id", "must be set")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", result.Metadata.RunID, err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, strategy_name, engine_name, config_hash, created_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING
	`, result.Metadata.RunID, result.Metadata.StrategyName, result.Metadata.EngineName,
		result.Metadata.ConfigHash, result.Metadata.CreatedAt.Time(), payload)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", core.ErrDuplicateRun, result.Metadata.RunID)
	}
	return nil
}

// Load retrieves one run by identifier
func (r *RunRepository) Load(ctx context.Context, runID core.RunID) (*contract.RunResult, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw, `SELECT payload FROM runs WHERE run_id = $1`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return decodePayload(raw)
}

// ListRuns returns summaries newest-first, applying the filter in SQL
func (r *RunRepository) ListRuns(ctx context.Context, filter ports.ListFilter) ([]ports.RunSummary, error) {
	query := `SELECT run_id, strategy_name, engine_name, config_hash, created_at FROM runs`
	clauses := []string{}
	args := []interface{}{}

	if filter.Strategy != "" {
		args = append(args, filter.Strategy)
		clauses = append(clauses, fmt.Sprintf("LOWER(strategy_name) = LOWER($%d)", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows := []struct {
		RunID        string       `db:"run_id"`
		StrategyName string       `db:"strategy_name"`
		EngineName   string       `db:"engine_name"`
		ConfigHash   string       `db:"config_hash"`
		CreatedAt    sql.NullTime `db:"created_at"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	summaries := make([]ports.RunSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, ports.RunSummary{
			RunID:        core.RunID(row.RunID),
			StrategyName: row.StrategyName,
			EngineName:   row.EngineName,
			ConfigHash:   core.ConfigHash(row.ConfigHash),
			CreatedAt:    core.NewTimestamp(row.CreatedAt.Time),
		})
	}
	return summaries, nil
}

// FindByHash loads every run matching a configuration hash
func (r *RunRepository) FindByHash(ctx context.Context, hash core.ConfigHash) ([]*contract.RunResult, error) {
	var raws [][]byte
	err := r.db.SelectContext(ctx, &raws, `SELECT payload FROM runs WHERE config_hash = $1 ORDER BY created_at DESC`, hash)
	if err != nil {
		return nil, err
	}

	results := make([]*contract.RunResult, 0, len(raws))
	for _, raw := range raws {
		result, err := decodePayload(raw)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Delete removes a run by identifier
func (r *RunRepository) Delete(ctx context.Context, runID core.RunID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = $1`, runID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return nil
}

// Count returns the number of stored runs
func (r *RunRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM runs`); err != nil {
		return 0, err
	}
	return count, nil
}

func decodePayload(raw []byte) (*contract.RunResult, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode run payload: %w", err)
	}
	return contract.FromPayload(payload)
}
