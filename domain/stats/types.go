package stats

// TestResult is the verdict of a single hypothesis test.
// INVARIANTS:
// - PValue always present (0.0 to 1.0)
// - Significant is exactly PValue < Alpha
// - SampleSize is the per-group observation count used by the test
type TestResult struct {
	TestName    string  `json:"test_name"`
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	Alpha       float64 `json:"alpha"`
	SampleSize  int     `json:"sample_size"`
	Explanation string  `json:"explanation"`
}

// BootstrapCI is a percentile confidence interval around a metric's mean
type BootstrapCI struct {
	Metric          string  `json:"metric"`
	Estimate        float64 `json:"estimate"`
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Iterations      int     `json:"iterations"`
}

// NoSignificantWinner is the Winner value when a pairwise comparison does
// not reach significance.
const NoSignificantWinner = "no_significant_winner"

// PairwiseComparison records one strategy-vs-strategy paired test
type PairwiseComparison struct {
	StrategyA   string  `json:"strategy_a"`
	StrategyB   string  `json:"strategy_b"`
	MeanA       float64 `json:"mean_a"`
	MeanB       float64 `json:"mean_b"`
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	Winner      string  `json:"winner"`
}

// ComparisonTable composes pairwise comparisons across N strategies on one
// metric. Pairs appear once each, in deterministic name order.
type ComparisonTable struct {
	Metric      string               `json:"metric"`
	Alpha       float64              `json:"alpha"`
	Comparisons []PairwiseComparison `json:"comparisons"`
}
