package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
)

func writeWorkbook(t *testing.T, header []interface{}, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func fullHeader() []interface{} {
	return []interface{}{
		"Starting Value", "Ending Value", "ROI", "CAGR",
		"Sharpe Ratio", "Max Drawdown", "Mean Cash Utilization",
	}
}

func TestReadMetrics(t *testing.T) {
	path := writeWorkbook(t, fullHeader(),
		[]interface{}{100000.0, 125000.0, 0.25, 0.12, 1.4, 0.08, 0.85})

	metrics, err := NewStatsReader(path).ReadMetrics()
	require.NoError(t, err)

	assert.Equal(t, 100000.0, metrics[contract.MetricStartingValue])
	assert.Equal(t, 125000.0, metrics[contract.MetricEndingValue])
	assert.Equal(t, 0.25, metrics[contract.MetricROI])
	assert.Equal(t, 0.12, metrics[contract.MetricCAGR])
	assert.Equal(t, 1.4, metrics[contract.MetricSharpe])
	assert.Equal(t, 0.08, metrics[contract.MetricMaxDrawdown])
	assert.Equal(t, 0.85, metrics[contract.MetricMeanCashUtilization])
}

func TestReadTableMultipleRows(t *testing.T) {
	path := writeWorkbook(t, fullHeader(),
		[]interface{}{100000.0, 110000.0, 0.10, 0.05, 1.1, 0.06, 0.8},
		[]interface{}{100000.0, 120000.0, 0.20, 0.09, 1.3, 0.07, 0.9})

	table, err := NewStatsReader(path).ReadTable()
	require.NoError(t, err)
	assert.Len(t, table.Columns, 7)
	assert.Len(t, table.Rows, 2)
}

func TestReadMetricsMissingColumn(t *testing.T) {
	path := writeWorkbook(t, []interface{}{"Starting Value", "Ending Value"},
		[]interface{}{100000.0, 125000.0})

	_, err := NewStatsReader(path).ReadMetrics()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestReadTableNonNumericCell(t *testing.T) {
	path := writeWorkbook(t, fullHeader(),
		[]interface{}{"not-a-number", 125000.0, 0.25, 0.12, 1.4, 0.08, 0.85})

	_, err := NewStatsReader(path).ReadTable()
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
}

func TestReadTableFileMissing(t *testing.T) {
	_, err := NewStatsReader(filepath.Join(t.TempDir(), "missing.xlsx")).ReadTable()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
