package walkforward

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
)

// SummaryWindowCount is the summary key holding the number of windows
const SummaryWindowCount = "window_count"

// Result holds everything a walk-forward run produced: the configuration,
// the ordered windows, one test-period run result per window, optionally one
// train-period result per window, and aggregate summary metrics.
type Result struct {
	Config       Config                `json:"config"`
	Windows      []Window              `json:"windows"`
	TestResults  []*contract.RunResult `json:"test_results"`
	TrainResults []*contract.RunResult `json:"train_results,omitempty"`
	Summary      map[string]float64    `json:"summary"`
}

// Validate enforces the parallel-sequence invariants
func (r *Result) Validate() error {
	if len(r.Windows) != len(r.TestResults) {
		return fmt.Errorf("%w: %d windows but %d test results",
			core.ErrLengthMismatch, len(r.Windows), len(r.TestResults))
	}
	if len(r.TrainResults) > 0 && len(r.TrainResults) != len(r.Windows) {
		return fmt.Errorf("%w: %d windows but %d train results",
			core.ErrLengthMismatch, len(r.Windows), len(r.TrainResults))
	}
	return nil
}

// MetricSeries extracts one metric from every test result, in window order
func (r *Result) MetricSeries(metric string) ([]float64, error) {
	values := make([]float64, 0, len(r.TestResults))
	for _, res := range r.TestResults {
		v, err := res.Metric(metric)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// SummarizeMetrics aggregates mean/min/max and population standard deviation
// for every metric present in the first result, keyed as
// "<metric>_mean" / "_min" / "_max" / "_std", plus a window count.
func SummarizeMetrics(results []*contract.RunResult) map[string]float64 {
	summary := map[string]float64{
		SummaryWindowCount: float64(len(results)),
	}
	if len(results) == 0 {
		return summary
	}

	for metric := range results[0].Metrics {
		values := make([]float64, 0, len(results))
		for _, res := range results {
			if v, ok := res.Metrics[metric]; ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		mean, _ := stats.Mean(values)
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		std, _ := stats.StandardDeviationPopulation(values)

		summary[metric+"_mean"] = mean
		summary[metric+"_min"] = min
		summary[metric+"_max"] = max
		summary[metric+"_std"] = std
	}
	return summary
}
