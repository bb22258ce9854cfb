package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/internal/testkit"
)

func TestMannWhitneySeparatedGroups(t *testing.T) {
	a := testkit.ResultSeries("strong", contract.MetricSharpe, strongSample)
	b := testkit.ResultSeries("weak", contract.MetricSharpe, weakSample)

	res, err := MannWhitneyTest(a, b, contract.MetricSharpe, 0.05)
	require.NoError(t, err)

	assert.Equal(t, "mannwhitney_test", res.TestName)
	assert.True(t, res.Significant)
	assert.Less(t, res.PValue, 0.05)
	// Every value in group A outranks every value in group B: U is maximal.
	assert.Equal(t, 64.0, res.Statistic)
	assert.Equal(t, 16, res.SampleSize)
}

func TestMannWhitneyUnequalLengthsAllowed(t *testing.T) {
	a := testkit.ResultSeries("strong", contract.MetricSharpe, strongSample)
	b := testkit.ResultSeries("weak", contract.MetricSharpe, weakSample[:4])

	res, err := MannWhitneyTest(a, b, contract.MetricSharpe, 0.05)
	require.NoError(t, err)
	assert.True(t, res.Significant)
}

func TestMannWhitneyIdenticalSamples(t *testing.T) {
	constant := []float64{0.1, 0.1, 0.1, 0.1}
	a := testkit.ResultSeries("same", contract.MetricSharpe, constant)
	b := testkit.ResultSeries("same", contract.MetricSharpe, constant)

	res, err := MannWhitneyTest(a, b, contract.MetricSharpe, 0.05)
	require.NoError(t, err)

	// All-tied pooled sample collapses the variance: not significant.
	assert.False(t, res.Significant)
	assert.Equal(t, 1.0, res.PValue)
}

func TestMannWhitneyTooFewObservations(t *testing.T) {
	a := testkit.ResultSeries("strong", contract.MetricSharpe, strongSample[:1])
	b := testkit.ResultSeries("weak", contract.MetricSharpe, weakSample)

	_, err := MannWhitneyTest(a, b, contract.MetricSharpe, 0.05)
	require.Error(t, err)
	assert.True(t, core.IsInsufficientDataError(err))
}

func TestRankDataAveragesTies(t *testing.T) {
	ranks := rankData([]float64{3, 1, 2, 2})
	assert.Equal(t, []float64{4, 1, 2.5, 2.5}, ranks)
}

func TestTieCorrection(t *testing.T) {
	// One group of three ties: 3^3 - 3 = 24. No ties: zero.
	assert.Equal(t, 24.0, tieCorrection([]float64{1, 2, 2, 2, 3}))
	assert.Equal(t, 0.0, tieCorrection([]float64{1, 2, 3}))
}
