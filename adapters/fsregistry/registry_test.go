package fsregistry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/ports"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return reg
}

func storedResult(strategy string, created time.Time) *contract.RunResult {
	meta := contract.RunMetadata{
		RunID:          core.NewRunID(),
		EngineName:     "engine",
		EngineVersion:  "1.0.0",
		StrategyName:   strategy,
		CreatedAt:      core.Timestamp(created),
		ConfigHash:     core.ComputeConfigHash(strategy, nil),
		DataSnapshotID: core.SnapshotID("snap"),
	}
	return contract.MustNewRunResult(meta, map[string]float64{
		contract.MetricSharpe: 1.1,
		contract.MetricROI:    0.2,
	})
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	original := storedResult("momentum", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
	require.NoError(t, reg.Save(ctx, original))

	loaded, err := reg.Load(ctx, original.Metadata.RunID)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSavePathLayout(t *testing.T) {
	dir := t.TempDir()
	reg, err := New(dir, zerolog.Nop())
	require.NoError(t, err)

	result := storedResult("momentum", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
	require.NoError(t, reg.Save(context.Background(), result))

	path := filepath.Join(dir, "2024", "03", result.Metadata.RunID.String()+".json")
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "run file must live under <dir>/<YYYY>/<MM>/")
}

func TestSaveRefusesDuplicate(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	result := storedResult("momentum", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
	require.NoError(t, reg.Save(ctx, result))

	err := reg.Save(ctx, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateRun)
}

func TestLoadUnknownRun(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Load(context.Background(), core.NewRunID())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRunNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	older := storedResult("momentum", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))
	middle := storedResult("meanrev", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	newest := storedResult("momentum", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	for _, r := range []*contract.RunResult{older, middle, newest} {
		require.NoError(t, reg.Save(ctx, r))
	}

	summaries, err := reg.ListRuns(ctx, ports.ListFilter{})
	require.NoError(t, err)

	require.Len(t, summaries, 3)
	assert.Equal(t, newest.Metadata.RunID, summaries[0].RunID)
	assert.Equal(t, middle.Metadata.RunID, summaries[1].RunID)
	assert.Equal(t, older.Metadata.RunID, summaries[2].RunID)
}

func TestListRunsFilters(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	early := storedResult("momentum", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	late := storedResult("momentum", time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	other := storedResult("meanrev", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	for _, r := range []*contract.RunResult{early, late, other} {
		require.NoError(t, reg.Save(ctx, r))
	}

	// Strategy matching ignores case.
	byStrategy, err := reg.ListRuns(ctx, ports.ListFilter{Strategy: "MOMENTUM"})
	require.NoError(t, err)
	require.Len(t, byStrategy, 2)

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	recent, err := reg.ListRuns(ctx, ports.ListFilter{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, late.Metadata.RunID, recent[0].RunID)

	until := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	old, err := reg.ListRuns(ctx, ports.ListFilter{Until: &until})
	require.NoError(t, err)
	require.Len(t, old, 1)
	assert.Equal(t, early.Metadata.RunID, old[0].RunID)

	limited, err := reg.ListRuns(ctx, ports.ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListRunsSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	reg, err := New(dir, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	good := storedResult("momentum", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, reg.Save(ctx, good))

	badDir := filepath.Join(dir, "2024", "03")
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "garbage.json"), []byte("{not json"), 0o644))

	summaries, err := reg.ListRuns(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, good.Metadata.RunID, summaries[0].RunID)
}

func TestFindByHash(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	a := storedResult("momentum", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := storedResult("momentum", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	c := storedResult("meanrev", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	for _, r := range []*contract.RunResult{a, b, c} {
		require.NoError(t, reg.Save(ctx, r))
	}

	matches, err := reg.FindByHash(ctx, core.ComputeConfigHash("momentum", nil))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	none, err := reg.FindByHash(ctx, core.ComputeConfigHash("unknown", nil))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteAndCount(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	result := storedResult("momentum", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, reg.Save(ctx, result))

	count, err := reg.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, reg.Delete(ctx, result.Metadata.RunID))

	count, err = reg.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = reg.Delete(ctx, result.Metadata.RunID)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRunNotFound)
}

func TestLoadMigratesLegacyPayload(t *testing.T) {
	dir := t.TempDir()
	reg, err := New(dir, zerolog.Nop())
	require.NoError(t, err)

	legacy := []byte(`{
	  "strategy": "legacy-momentum",
	  "engine": "old-engine",
	  "Sharpe Ratio": 1.4,
	  "ROI": 0.25
	}`)
	legacyDir := filepath.Join(dir, "2020", "01")
	require.NoError(t, os.MkdirAll(legacyDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacyDir, "legacy-run.json"), legacy, 0o644))

	loaded, err := reg.Load(context.Background(), core.RunID(contract.LegacyRunIDPlaceholder))
	require.NoError(t, err)

	assert.Equal(t, contract.CurrentSchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, "legacy-momentum", loaded.Metadata.StrategyName)
	assert.Equal(t, "old-engine", loaded.Metadata.EngineName)
	assert.Equal(t, 1.4, loaded.Metrics[contract.MetricSharpe])
	assert.Equal(t, 0.25, loaded.Metrics[contract.MetricROI])
}
