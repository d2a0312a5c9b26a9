package eval_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/hscells/tipster/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labels returns positive true labels and negative false labels in a fixed
// shuffled order.
func labels(positive, negative int) []bool {
	y := make([]bool, positive+negative)
	for i := 0; i < positive; i++ {
		y[i] = true
	}
	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(y), func(i, j int) { y[i], y[j] = y[j], y[i] })
	return y
}

func TestStratifiedKFoldBalance(t *testing.T) {
	y := labels(13, 29)
	nPos := 0
	for _, v := range y {
		if v {
			nPos++
		}
	}
	require.Equal(t, 13, nPos)

	for _, k := range []int{2, 3, 5, 7} {
		folds, err := eval.StratifiedKFold(y, k)
		require.NoError(t, err)
		require.Len(t, folds, k)

		seen := make(map[int]int)
		for _, fold := range folds {
			pos, neg := 0, 0
			for _, i := range fold.Test {
				seen[i]++
				if y[i] {
					pos++
				} else {
					neg++
				}
			}
			assert.True(t, pos == 13/k || pos == (13+k-1)/k, "k=%d positives=%d", k, pos)
			assert.True(t, neg == 29/k || neg == (29+k-1)/k, "k=%d negatives=%d", k, neg)
			assert.Len(t, fold.Train, len(y)-len(fold.Test))
			assert.True(t, sort.IntsAreSorted(fold.Test))
		}
		// every row is tested exactly once
		assert.Len(t, seen, len(y))
		for _, n := range seen {
			assert.Equal(t, 1, n)
		}
	}
}

func TestStratifiedKFoldDeterministic(t *testing.T) {
	y := labels(10, 10)
	a, err := eval.StratifiedKFold(y, 4)
	require.NoError(t, err)
	b, err := eval.StratifiedKFold(y, 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStratifiedKFoldErrors(t *testing.T) {
	var foldErr *eval.FoldError
	_, err := eval.StratifiedKFold(labels(5, 5), 1)
	assert.ErrorAs(t, err, &foldErr)
	_, err = eval.StratifiedKFold(labels(2, 2), 5)
	assert.ErrorAs(t, err, &foldErr)
	_, err = eval.StratifiedKFold(labels(2, 10), 3)
	assert.ErrorAs(t, err, &foldErr)
}

func TestStratifiedSplit(t *testing.T) {
	y := labels(20, 30)
	train, test, err := eval.StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 10)
	assert.Len(t, train, 40)

	pos := 0
	for _, i := range test {
		if y[i] {
			pos++
		}
	}
	assert.Equal(t, 4, pos)

	again, _, err := eval.StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, again)

	_, _, err = eval.StratifiedSplit(y, 1.5, 42)
	var foldErr *eval.FoldError
	assert.ErrorAs(t, err, &foldErr)
}
