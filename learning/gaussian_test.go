package learning_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/learning"
	"github.com/hscells/tipster/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable returns n rows of each class, false around 0 and true around 10.
func separable(n int) ([][]float64, []bool) {
	var X [][]float64
	var Y []bool
	for i := 0; i < n; i++ {
		jitter := float64(i%5) / 10
		X = append(X, []float64{jitter, 1 - jitter})
		Y = append(Y, false)
		X = append(X, []float64{10 + jitter, 11 - jitter})
		Y = append(Y, true)
	}
	return X, Y
}

func classifiers(t *testing.T) []learning.Classifier {
	g, err := learning.NewGaussianNB([]string{"a", "b"}, "big_tip")
	require.NoError(t, err)
	c, err := learning.NewNearestCentroid([]string{"a", "b"}, "big_tip")
	require.NoError(t, err)
	return []learning.Classifier{g, c}
}

func TestNewClassifierConfiguration(t *testing.T) {
	var configErr *config.ConfigurationError
	_, err := learning.NewGaussianNB(nil, "big_tip")
	assert.ErrorAs(t, err, &configErr)
	_, err = learning.NewNearestCentroid([]string{"a"}, "")
	assert.ErrorAs(t, err, &configErr)
}

func TestFitPredict(t *testing.T) {
	X, Y := separable(20)
	for _, c := range classifiers(t) {
		_, err := c.Fit(X, Y)
		require.NoError(t, err, c.Name())

		pred, err := c.Predict([][]float64{{0.2, 0.8}, {10.1, 10.9}})
		require.NoError(t, err, c.Name())
		assert.Equal(t, []bool{false, true}, pred, c.Name())

		score, err := c.Evaluate(X, Y)
		require.NoError(t, err, c.Name())
		assert.Equal(t, 1.0, score, c.Name())
	}
}

func TestNotFitted(t *testing.T) {
	for _, c := range classifiers(t) {
		var notFitted *learning.NotFittedError
		_, err := c.Predict([][]float64{{1, 2}})
		assert.ErrorAs(t, err, &notFitted, c.Name())
		err = c.Output(&bytes.Buffer{})
		assert.ErrorAs(t, err, &notFitted, c.Name())
	}
}

func TestFitErrors(t *testing.T) {
	for _, c := range classifiers(t) {
		var empty *learning.EmptyTrainingSetError
		_, err := c.Fit(nil, nil)
		assert.ErrorAs(t, err, &empty, c.Name())

		var cardinality *learning.LabelCardinalityError
		_, err = c.Fit([][]float64{{1, 2}, {3, 4}}, []bool{true, true})
		require.ErrorAs(t, err, &cardinality, c.Name())
		assert.Equal(t, 1, cardinality.Classes)

		var shape *learning.ShapeError
		_, err = c.Fit([][]float64{{1, 2}, {3, 4}}, []bool{true})
		assert.ErrorAs(t, err, &shape, c.Name())
		_, err = c.Fit([][]float64{{1, 2}, {3}}, []bool{true, false})
		assert.ErrorAs(t, err, &shape, c.Name())
	}
}

func TestPredictWidth(t *testing.T) {
	X, Y := separable(5)
	for _, c := range classifiers(t) {
		_, err := c.Fit(X, Y)
		require.NoError(t, err)
		var shape *learning.ShapeError
		_, err = c.Predict([][]float64{{1, 2, 3}})
		assert.ErrorAs(t, err, &shape, c.Name())
	}
}

func TestGaussianParameters(t *testing.T) {
	g, err := learning.NewGaussianNB([]string{"a"}, "y")
	require.NoError(t, err)
	_, err = g.Fit([][]float64{{1}, {3}, {10}, {14}}, []bool{false, false, true, true})
	require.NoError(t, err)

	m := g.Model()
	assert.Equal(t, [2]float64{0.5, 0.5}, m.Priors)
	assert.InDelta(t, 2, m.Means[0][0], 1e-12)
	assert.InDelta(t, 12, m.Means[1][0], 1e-12)
	// population variances 1 and 4, smoothed by 1e-9 of the overall variance
	assert.InDelta(t, 1, m.Variances[0][0], 1e-6)
	assert.InDelta(t, 4, m.Variances[1][0], 1e-6)
	assert.InDelta(t, 1e-9*27.5, m.Epsilon, 1e-15)
}

func TestPredictProba(t *testing.T) {
	X, Y := separable(20)
	g, err := learning.NewGaussianNB([]string{"a", "b"}, "big_tip")
	require.NoError(t, err)
	_, err = g.Fit(X, Y)
	require.NoError(t, err)

	p, err := g.PredictProba([][]float64{{0.2, 0.8}, {10.2, 10.8}, {5.2, 5.8}})
	require.NoError(t, err)
	assert.Less(t, p[0], 0.01)
	assert.Greater(t, p[1], 0.99)
	for _, v := range p {
		assert.False(t, math.IsNaN(v))
		assert.True(t, v >= 0 && v <= 1)
	}
}

func TestOutputLoad(t *testing.T) {
	X, Y := separable(10)
	for _, c := range classifiers(t) {
		_, err := c.Fit(X, Y)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, c.Output(&buf))

		fresh := classifiers(t)
		var loaded learning.Classifier
		for _, f := range fresh {
			if f.Name() == c.Name() {
				loaded = f
			}
		}
		require.NoError(t, loaded.Load(&buf))
		want, err := c.Predict(X)
		require.NoError(t, err)
		got, err := loaded.Predict(X)
		require.NoError(t, err)
		assert.Equal(t, want, got, c.Name())
	}
}

func TestCrossValidate(t *testing.T) {
	X, Y := separable(15)
	for _, c := range classifiers(t) {
		scores, err := c.CrossValidate(X, Y, 5)
		require.NoError(t, err, c.Name())
		assert.Len(t, scores, 5)
		for _, s := range scores {
			assert.Equal(t, 1.0, s, c.Name())
		}
		// the last fold's model is kept
		_, err = c.Predict(X)
		assert.NoError(t, err)
	}
}

func TestPreprocess(t *testing.T) {
	nan := math.NaN()
	tbl := table.MustNew(
		table.NewNumeric("a", table.Float32, []float64{1, nan, 3, math.Inf(1)}),
		table.NewNumeric("b", table.Int32, []float64{4, 5, 6, 7}),
		table.NewBool("big_tip", []bool{true, false, false, true}),
		table.NewString("other", []string{"w", "x", "y", "z"}),
	)
	g, err := learning.NewGaussianNB([]string{"a", "b"}, "big_tip")
	require.NoError(t, err)

	d, err := g.Preprocess(tbl)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 4}, {3, 6}}, d.X)
	assert.Equal(t, []bool{true, false}, d.Y)
	assert.Equal(t, []string{"a", "b"}, d.Features)

	c, err := learning.NewNearestCentroid([]string{"a", "missing"}, "big_tip")
	require.NoError(t, err)
	var unknown *table.UnknownColumnError
	_, err = c.Preprocess(tbl)
	assert.ErrorAs(t, err, &unknown)

	_, err = learning.PreprocessTable(tbl, []string{"other"}, "big_tip")
	var schema *table.SchemaError
	assert.ErrorAs(t, err, &schema)
}
