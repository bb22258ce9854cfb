package contract

import (
	"fmt"

	"stratcheck/domain/core"
)

// statColumnLabels maps engine stats-table column labels onto canonical
// metric keys. Every canonical key must be resolvable from the table or
// extraction fails; engines exporting different labels get a new entry
// here, not a relaxed check.
var statColumnLabels = map[string]string{
	"Starting Value":        MetricStartingValue,
	"Ending Value":          MetricEndingValue,
	"ROI":                   MetricROI,
	"CAGR":                  MetricCAGR,
	"Sharpe Ratio":          MetricSharpe,
	"Max Drawdown":          MetricMaxDrawdown,
	"Mean Cash Utilization": MetricMeanCashUtilization,
}

// StatsTable is a minimal tabular view over an engine's exported statistics:
// named columns and at least one row of values.
type StatsTable struct {
	Columns []string
	Rows    [][]float64
}

// ExtractMetrics maps the first row of a stats table into a canonical
// metrics mapping. Returns an error when the table has no rows or when any
// required column is missing.
func ExtractMetrics(table StatsTable) (map[string]float64, error) {
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: stats table has zero rows", core.ErrInsufficientData)
	}

	row := table.Rows[0]
	if len(row) != len(table.Columns) {
		return nil, core.NewValidationError("stats table",
			fmt.Sprintf("row has %d values for %d columns", len(row), len(table.Columns)))
	}

	byColumn := make(map[string]float64, len(table.Columns))
	for i, col := range table.Columns {
		byColumn[col] = row[i]
	}

	metrics := make(map[string]float64, len(statColumnLabels))
	for label, key := range statColumnLabels {
		v, ok := byColumn[label]
		if !ok {
			return nil, fmt.Errorf("stats table missing required column %q (maps to %s)", label, key)
		}
		metrics[key] = v
	}
	return metrics, nil
}
