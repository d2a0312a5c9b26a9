package eval_test

import (
	"testing"

	"github.com/hscells/tipster/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfusionMatrix(t *testing.T) {
	m, err := eval.ConfusionMatrix(yTrue, yPred, eval.NormalizeNone)
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{2, 2}, {1, 3}}, m.Cells)
	assert.Equal(t, 1.0, m.At(false, true))

	m, err = eval.ConfusionMatrix(yTrue, yPred, eval.NormalizeTrue)
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{0.5, 0.5}, {0.25, 0.75}}, m.Cells)

	m, err = eval.ConfusionMatrix(yTrue, yPred, eval.NormalizePred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, m.Cells[0][0], 1e-12)
	assert.InDelta(t, 1.0/3.0, m.Cells[1][0], 1e-12)
	assert.InDelta(t, 0.4, m.Cells[0][1], 1e-12)
	assert.InDelta(t, 0.6, m.Cells[1][1], 1e-12)

	m, err = eval.ConfusionMatrix(yTrue, yPred, eval.NormalizeAll)
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{0.25, 0.25}, {0.125, 0.375}}, m.Cells)
}

func TestConfusionMatrixZeroDenominator(t *testing.T) {
	m, err := eval.ConfusionMatrix([]bool{false, false}, []bool{false, true}, eval.NormalizeTrue)
	require.NoError(t, err)
	assert.Equal(t, [2][2]float64{{0, 0}, {0.5, 0.5}}, m.Cells)
}

func TestConfusionMatrixLength(t *testing.T) {
	_, err := eval.ConfusionMatrix([]bool{true}, nil, eval.NormalizeNone)
	var lengthErr *eval.LengthError
	assert.ErrorAs(t, err, &lengthErr)
}

func TestParseNormalize(t *testing.T) {
	for _, s := range []string{"none", "true", "pred", "all"} {
		n, err := eval.ParseNormalize(s)
		require.NoError(t, err)
		assert.Equal(t, s, n.String())
	}
	_, err := eval.ParseNormalize("rows")
	assert.Error(t, err)
}
