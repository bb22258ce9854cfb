package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratcheck/domain/pareto"
	"stratcheck/domain/stats"
)

func TestComparisonMarkdown(t *testing.T) {
	table := &stats.ComparisonTable{
		Metric: "sharpe",
		Alpha:  0.05,
		Comparisons: []stats.PairwiseComparison{
			{StrategyA: "a", StrategyB: "b", MeanA: 1.2, MeanB: 0.8, Statistic: 3.1, PValue: 0.01, Significant: true, Winner: "a"},
			{StrategyA: "a", StrategyB: "c", MeanA: 1.2, MeanB: 1.1, Statistic: 0.4, PValue: 0.7, Winner: stats.NoSignificantWinner},
		},
	}

	md := ComparisonMarkdown(table)
	assert.Contains(t, md, "# Strategy comparison: sharpe")
	assert.Contains(t, md, "| a | b |")
	assert.Contains(t, md, stats.NoSignificantWinner)
}

func TestParetoMarkdown(t *testing.T) {
	result := &pareto.Result{
		ObjectiveA: "cagr",
		ObjectiveB: "max_drawdown",
		Points: []pareto.Point{
			{Strategy: "x", ObjectiveA: 0.15, ObjectiveB: 0.10, Optimal: true},
			{Strategy: "y", ObjectiveA: 0.08, ObjectiveB: 0.20},
		},
		Front:     []pareto.Point{{Strategy: "x"}},
		Dominated: []pareto.Point{{Strategy: "y"}},
		Evaluated: 2,
	}

	md := ParetoMarkdown(result)
	assert.Contains(t, md, "# Pareto front: cagr vs max_drawdown")
	assert.Contains(t, md, "2 evaluated, 1 on the front, 1 dominated.")
	assert.Contains(t, md, "| x | 0.150000 | 0.100000 | true |")
}

func TestRenderHTMLTables(t *testing.T) {
	md := "# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n"

	out := RenderHTML(md)
	require.NotEmpty(t, out)
	assert.Contains(t, string(out), "<table>")
	assert.Contains(t, string(out), "<h1")
}
