package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratcheck/domain/core"
)

func statsFixture() StatsTable {
	return StatsTable{
		Columns: []string{
			"Starting Value", "Ending Value", "ROI", "CAGR",
			"Sharpe Ratio", "Max Drawdown", "Mean Cash Utilization",
		},
		Rows: [][]float64{
			{100000, 123000, 0.23, 0.11, 1.35, 0.14, 0.82},
		},
	}
}

func TestExtractMetrics(t *testing.T) {
	metrics, err := ExtractMetrics(statsFixture())
	require.NoError(t, err)

	assert.Len(t, metrics, len(CanonicalMetricKeys()))
	assert.Equal(t, 100000.0, metrics[MetricStartingValue])
	assert.Equal(t, 0.11, metrics[MetricCAGR])
	assert.Equal(t, 1.35, metrics[MetricSharpe])
	assert.Equal(t, 0.82, metrics[MetricMeanCashUtilization])
}

func TestExtractMetricsZeroRows(t *testing.T) {
	table := statsFixture()
	table.Rows = nil

	_, err := ExtractMetrics(table)
	require.Error(t, err)
	assert.True(t, core.IsInsufficientDataError(err))
}

func TestExtractMetricsMissingColumn(t *testing.T) {
	table := StatsTable{
		Columns: []string{"Starting Value", "Ending Value"},
		Rows:    [][]float64{{100000, 110000}},
	}

	_, err := ExtractMetrics(table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestExtractMetricsRowWidthMismatch(t *testing.T) {
	table := statsFixture()
	table.Rows = [][]float64{{1, 2, 3}}

	_, err := ExtractMetrics(table)
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
}
