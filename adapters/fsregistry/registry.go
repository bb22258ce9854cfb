// Package fsregistry stores experiment run results as one pretty-printed
// JSON document per run under <dir>/<YYYY>/<MM>/<run_id>.json.
package fsregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/ports"
)

// Registry is the file-backed RegistryPort implementation. No internal
// locking: concurrent writers to the same run identifier race only on the
// duplicate check, and distinct identifiers occupy distinct paths.
type Registry struct {
	dir string
	log zerolog.Logger
}

var _ ports.RegistryPort = (*Registry)(nil)

// New creates a registry rooted at dir, creating it if needed
func New(dir string, log zerolog.Logger) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir %s: %w", dir, err)
	}
	return &Registry{dir: dir, log: log}, nil
}

// Save persists a run result, refusing to overwrite an existing identifier
func (r *Registry) Save(ctx context.Context, result *contract.RunResult) error {
	if result.Metadata.RunID == "" {
		return core.NewValidationError("run_id", "must be set")
	}

	if existing, err := r.findPath(result.Metadata.RunID); err == nil && existing != "" {
		return fmt.Errorf("%w: %s at %s", core.ErrDuplicateRun, result.Metadata.RunID, existing)
	}

	created := result.Metadata.CreatedAt.Time()
	dir := filepath.Join(r.dir, created.Format("2006"), created.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run dir %s: %w", dir, err)
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run %s: %w", result.Metadata.RunID, err)
	}

	path := filepath.Join(dir, result.Metadata.RunID.String()+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write run %s: %w", result.Metadata.RunID, err)
	}

	r.log.Debug().Str("run_id", result.Metadata.RunID.String()).Str("path", path).Msg("run saved")
	return nil
}

// Load finds a run by identifier across all year/month directories.
// Payloads are migrated on read, so legacy files come back current-shape.
func (r *Registry) Load(ctx context.Context, runID core.RunID) (*contract.RunResult, error) {
	path, err := r.findPath(runID)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return r.loadFile(path)
}

// ListRuns returns lightweight summaries newest-first, applying the filter.
// Malformed files are skipped, not surfaced.
func (r *Registry) ListRuns(ctx context.Context, filter ports.ListFilter) ([]ports.RunSummary, error) {
	summaries := []ports.RunSummary{}
	err := r.walkRuns(func(path string) {
		result, err := r.loadFile(path)
		if err != nil {
			r.log.Warn().Str("path", path).Err(err).Msg("skipping malformed run file")
			return
		}
		if !matchesFilter(result, filter) {
			return
		}
		summaries = append(summaries, ports.RunSummary{
			RunID:        result.Metadata.RunID,
			StrategyName: result.Metadata.StrategyName,
			EngineName:   result.Metadata.EngineName,
			CreatedAt:    result.Metadata.CreatedAt,
			ConfigHash:   result.Metadata.ConfigHash,
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if filter.Limit > 0 && len(summaries) > filter.Limit {
		summaries = summaries[:filter.Limit]
	}
	return summaries, nil
}

// FindByHash loads every run whose configuration hash matches
func (r *Registry) FindByHash(ctx context.Context, hash core.ConfigHash) ([]*contract.RunResult, error) {
	matches := []*contract.RunResult{}
	err := r.walkRuns(func(path string) {
		result, err := r.loadFile(path)
		if err != nil {
			r.log.Warn().Str("path", path).Err(err).Msg("skipping malformed run file")
			return
		}
		if result.Metadata.ConfigHash == hash {
			matches = append(matches, result)
		}
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Delete removes a run by identifier
func (r *Registry) Delete(ctx context.Context, runID core.RunID) error {
	path, err := r.findPath(runID)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return os.Remove(path)
}

// Count returns the number of stored run files
func (r *Registry) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.walkRuns(func(string) { count++ })
	return count, err
}

func (r *Registry) loadFile(path string) (*contract.RunResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return contract.FromPayload(payload)
}

func (r *Registry) findPath(runID core.RunID) (string, error) {
	target := runID.String() + ".json"
	found := ""
	err := r.walkRuns(func(path string) {
		if filepath.Base(path) == target {
			found = path
		}
	})
	return found, err
}

func (r *Registry) walkRuns(visit func(path string)) error {
	return filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			visit(path)
		}
		return nil
	})
}

func matchesFilter(result *contract.RunResult, filter ports.ListFilter) bool {
	if filter.Strategy != "" && !strings.EqualFold(result.Metadata.StrategyName, filter.Strategy) {
		return false
	}
	created := result.Metadata.CreatedAt.Time()
	if filter.Since != nil && created.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && created.After(*filter.Until) {
		return false
	}
	return true
}
