package analysis

import (
	"fmt"
	"math/rand"
	"sort"

	montstats "github.com/montanaflynn/stats"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/domain/stats"
)

// BootstrapCI resamples a metric with replacement nBootstrap times and
// returns the percentile interval around the mean at the requested
// confidence level. Deterministic for a fixed seed.
func BootstrapCI(results []*contract.RunResult, metric string, confidenceLevel float64, nBootstrap int, seed int64) (*stats.BootstrapCI, error) {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return nil, core.NewValidationError("confidence_level", fmt.Sprintf("must be in (0, 1), got %g", confidenceLevel))
	}
	if nBootstrap <= 0 {
		return nil, core.NewValidationError("n_bootstrap", fmt.Sprintf("must be positive, got %d", nBootstrap))
	}
	if err := requireObservations(len(results), "bootstrap sample"); err != nil {
		return nil, err
	}

	values, err := metricSeries(results, metric)
	if err != nil {
		return nil, err
	}

	estimate, _ := montstats.Mean(values)

	rng := rand.New(rand.NewSource(seed))
	means := make([]float64, nBootstrap)
	for i := 0; i < nBootstrap; i++ {
		sum := 0.0
		for j := 0; j < len(values); j++ {
			sum += values[rng.Intn(len(values))]
		}
		means[i] = sum / float64(len(values))
	}
	sort.Float64s(means)

	tail := (1 - confidenceLevel) / 2
	lower := percentileSorted(means, tail)
	upper := percentileSorted(means, 1-tail)

	return &stats.BootstrapCI{
		Metric:          metric,
		Estimate:        estimate,
		Lower:           lower,
		Upper:           upper,
		ConfidenceLevel: confidenceLevel,
		Iterations:      nBootstrap,
	}, nil
}

// percentileSorted interpolates the p-quantile (0..1) of an ascending slice
func percentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
