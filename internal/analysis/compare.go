package analysis

import (
	"fmt"
	"sort"

	montstats "github.com/montanaflynn/stats"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/domain/stats"
)

// CompareStrategies runs a paired t-test over every unordered pair of named
// strategy populations (same window count required per pair) and composes
// the verdicts into one table. A winner is declared only when the pair's
// difference is significant.
func CompareStrategies(strategies map[string][]*contract.RunResult, metric string, alpha float64) (*stats.ComparisonTable, error) {
	if err := validateAlpha(alpha); err != nil {
		return nil, err
	}
	if len(strategies) < 2 {
		return nil, core.NewValidationError("strategies", fmt.Sprintf("need at least 2 populations, got %d", len(strategies)))
	}

	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	table := &stats.ComparisonTable{
		Metric:      metric,
		Alpha:       alpha,
		Comparisons: make([]stats.PairwiseComparison, 0, len(names)*(len(names)-1)/2),
	}

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			nameA, nameB := names[i], names[j]
			res, err := PairedTTest(strategies[nameA], strategies[nameB], metric, alpha)
			if err != nil {
				return nil, fmt.Errorf("comparing %s vs %s: %w", nameA, nameB, err)
			}

			seriesA, err := metricSeries(strategies[nameA], metric)
			if err != nil {
				return nil, err
			}
			seriesB, err := metricSeries(strategies[nameB], metric)
			if err != nil {
				return nil, err
			}
			meanA, _ := montstats.Mean(seriesA)
			meanB, _ := montstats.Mean(seriesB)

			winner := stats.NoSignificantWinner
			if res.Significant {
				winner = nameA
				if meanB > meanA {
					winner = nameB
				}
			}

			table.Comparisons = append(table.Comparisons, stats.PairwiseComparison{
				StrategyA:   nameA,
				StrategyB:   nameB,
				MeanA:       meanA,
				MeanB:       meanB,
				Statistic:   res.Statistic,
				PValue:      res.PValue,
				Significant: res.Significant,
				Winner:      winner,
			})
		}
	}
	return table, nil
}
