// Package analysis turns sets of per-window backtest metrics into
// significance verdicts: paired and rank-based tests, seeded permutation
// and bootstrap resampling, and N-way strategy comparison tables.
package analysis

import (
	"fmt"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
)

// minObservations is the smallest group size any test accepts
const minObservations = 2

// metricSeries extracts one metric from every result, failing on the first
// result that does not carry the key.
func metricSeries(results []*contract.RunResult, metric string) ([]float64, error) {
	values := make([]float64, 0, len(results))
	for _, r := range results {
		v, err := r.Metric(metric)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func requireObservations(n int, group string) error {
	if n < minObservations {
		return core.NewInsufficientDataError(n, minObservations, fmt.Sprintf("observations in %s", group))
	}
	return nil
}

func validateAlpha(alpha float64) error {
	if alpha <= 0 || alpha >= 1 {
		return core.NewValidationError("alpha", fmt.Sprintf("must be in (0, 1), got %g", alpha))
	}
	return nil
}
