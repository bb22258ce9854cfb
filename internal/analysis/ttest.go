package analysis

import (
	"fmt"
	"math"

	montstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/domain/stats"
	"stratcheck/domain/walkforward"
)

// PairedTTest runs a two-sided paired t-test on one metric across two
// equal-length result populations. The explanation always reports both means
// and which side is larger, significant or not.
func PairedTTest(a, b []*contract.RunResult, metric string, alpha float64) (*stats.TestResult, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: paired t-test needs equal-length samples, got %d and %d",
			core.ErrLengthMismatch, len(a), len(b))
	}
	if err := requireObservations(len(a), "each group"); err != nil {
		return nil, err
	}

	xs, err := metricSeries(a, metric)
	if err != nil {
		return nil, err
	}
	ys, err := metricSeries(b, metric)
	if err != nil {
		return nil, err
	}

	diffs := make([]float64, len(xs))
	for i := range xs {
		diffs[i] = xs[i] - ys[i]
	}

	meanA, _ := montstats.Mean(xs)
	meanB, _ := montstats.Mean(ys)
	meanD, _ := montstats.Mean(diffs)
	sdD, _ := montstats.StandardDeviationSample(diffs)

	n := float64(len(diffs))
	statistic := 0.0
	pValue := 1.0
	if sdD > 0 {
		statistic = meanD / (sdD / math.Sqrt(n))
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
		pValue = 2 * (1 - tDist.CDF(math.Abs(statistic)))
	}

	larger := "group A"
	if meanB > meanA {
		larger = "group B"
	} else if meanA == meanB {
		larger = "neither group"
	}
	verdict := "no significant difference"
	if pValue < alpha {
		verdict = "significant difference"
	}
	explanation := fmt.Sprintf("%s on %s: mean_a=%.6f, mean_b=%.6f, %s has the larger mean (t=%.4f, p=%.4g, n=%d)",
		verdict, metric, meanA, meanB, larger, statistic, pValue, len(xs))

	return &stats.TestResult{
		TestName:    "paired_t_test",
		Statistic:   statistic,
		PValue:      pValue,
		Significant: pValue < alpha,
		Alpha:       alpha,
		SampleSize:  len(xs),
		Explanation: explanation,
	}, nil
}

// SummarizeWalkForward runs a one-sample t-test asking whether the mean
// per-window value of a metric differs from a fixed benchmark constant.
func SummarizeWalkForward(wf *walkforward.Result, benchmark float64, metric string, alpha float64) (*stats.TestResult, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	values, err := wf.MetricSeries(metric)
	if err != nil {
		return nil, err
	}
	if err := requireObservations(len(values), "walk-forward windows"); err != nil {
		return nil, err
	}

	mean, _ := montstats.Mean(values)
	sd, _ := montstats.StandardDeviationSample(values)
	n := float64(len(values))

	statistic := 0.0
	pValue := 1.0
	switch {
	case sd > 0:
		statistic = (mean - benchmark) / (sd / math.Sqrt(n))
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
		pValue = 2 * (1 - tDist.CDF(math.Abs(statistic)))
	case mean != benchmark:
		// Zero variance with an offset mean: the difference is exact.
		pValue = 0.0
	}

	verdict := "does not differ"
	if pValue < alpha {
		verdict = "differs"
	}
	explanation := fmt.Sprintf("mean per-window %s %.6f %s from benchmark %.6f (t=%.4f, p=%.4g, windows=%d)",
		metric, mean, verdict, benchmark, statistic, pValue, len(values))

	return &stats.TestResult{
		TestName:    "one_sample_t_test",
		Statistic:   statistic,
		PValue:      pValue,
		Significant: pValue < alpha,
		Alpha:       alpha,
		SampleSize:  len(values),
		Explanation: explanation,
	}, nil
}
