package analysis

import (
	"fmt"
	"math"
	"sort"

	montstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"stratcheck/domain/contract"
	"stratcheck/domain/stats"
)

// MannWhitneyTest runs a two-sided Mann-Whitney U rank-sum test on one
// metric. No equal-length or normality requirement; the p-value uses the
// normal approximation with tie correction.
func MannWhitneyTest(a, b []*contract.RunResult, metric string, alpha float64) (*stats.TestResult, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	if err := requireObservations(len(a), "group A"); err != nil {
		return nil, err
	}
	if err := requireObservations(len(b), "group B"); err != nil {
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

	n1 := float64(len(xs))
	n2 := float64(len(ys))
	pooled := append(append([]float64{}, xs...), ys...)
	ranks := rankData(pooled)

	rankSumA := 0.0
	for i := range xs {
		rankSumA += ranks[i]
	}
	u1 := rankSumA - n1*(n1+1)/2

	mu := n1 * n2 / 2
	n := n1 + n2
	tieTerm := tieCorrection(pooled)
	sigma2 := n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))

	statistic := u1
	pValue := 1.0
	if sigma2 > 0 {
		z := (u1 - mu) / math.Sqrt(sigma2)
		pValue = 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
	}
	if pValue > 1 {
		pValue = 1
	}

	medianA, _ := montstats.Median(xs)
	medianB, _ := montstats.Median(ys)
	verdict := "no significant rank difference"
	if pValue < alpha {
		verdict = "significant rank difference"
	}
	explanation := fmt.Sprintf("%s on %s: median_a=%.6f, median_b=%.6f (U=%.1f, p=%.4g, n_a=%d, n_b=%d)",
		verdict, metric, medianA, medianB, u1, pValue, len(xs), len(ys))

	return &stats.TestResult{
		TestName:    "mannwhitney_test",
		Statistic:   statistic,
		PValue:      pValue,
		Significant: pValue < alpha,
		Alpha:       alpha,
		SampleSize:  len(xs) + len(ys),
		Explanation: explanation,
	}, nil
}

// rankData assigns ranks to data, averaging across ties
func rankData(data []float64) []float64 {
	n := len(data)
	ranks := make([]float64, n)

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, v := range data {
		pairs[i] = pair{v, i}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	i := 0
	for i < n {
		j := i
		for j < n-1 && pairs[j+1].value == pairs[i].value {
			j++
		}
		avgRank := float64(i+j)/2.0 + 1
		for k := i; k <= j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j + 1
	}
	return ranks
}

// tieCorrection computes sum(t^3 - t) over tie groups for the variance
// correction of the normal approximation.
func tieCorrection(data []float64) float64 {
	counts := map[float64]float64{}
	for _, v := range data {
		counts[v]++
	}
	total := 0.0
	for _, t := range counts {
		if t > 1 {
			total += t*t*t - t
		}
	}
	return total
}
