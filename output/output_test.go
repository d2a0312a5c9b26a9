package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hscells/tipster/eval"
	"github.com/hscells/tipster/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluationFormatters(t *testing.T) {
	results := map[string]float64{"Recall": 0.5, "Precision": 0.25}

	s, err := output.JsonEvaluationFormatter(results)
	require.NoError(t, err)
	var decoded map[string]float64
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, results, decoded)

	s, err = output.CsvEvaluationFormatter(results)
	require.NoError(t, err)
	assert.Equal(t, "Measurement,Score\nPrecision,0.25\nRecall,0.5\n", s)
}

func TestJsonScoresFormatter(t *testing.T) {
	s, err := output.JsonScoresFormatter([]float64{1, 2, 3})
	require.NoError(t, err)
	var decoded struct {
		Folds []float64
		Mean  float64
		Std   float64
	}
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, []float64{1, 2, 3}, decoded.Folds)
	assert.InDelta(t, 2, decoded.Mean, 1e-12)
	assert.InDelta(t, 1, decoded.Std, 1e-12)
}

func TestConfusionFormatters(t *testing.T) {
	m, err := eval.ConfusionMatrix([]bool{true, true, false}, []bool{true, false, false}, eval.NormalizeNone)
	require.NoError(t, err)

	s, err := output.CsvConfusionFormatter(m)
	require.NoError(t, err)
	assert.Equal(t, "True,true,false\ntrue,1,1\nfalse,0,1\n", s)

	s, err = output.JsonConfusionFormatter(m)
	require.NoError(t, err)
	var decoded struct {
		Normalize string
		Matrix    map[string]map[string]float64
	}
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, "none", decoded.Normalize)
	assert.Equal(t, 1.0, decoded.Matrix["true"]["false"])
	assert.Equal(t, 0.0, decoded.Matrix["false"]["true"])

	s, err = output.TextConfusionFormatter(m)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "true \\ pred")
}
