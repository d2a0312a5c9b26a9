package eval

import (
	"math"
	"math/rand"
	"sort"
)

// Fold is one train/test partition of row indices.
type Fold struct {
	Train []int
	Test  []int
}

// classes groups row indices by label, true first, each in row order.
func classes(y []bool) [2][]int {
	var c [2][]int
	for i, label := range y {
		c[labelIndex(label)] = append(c[labelIndex(label)], i)
	}
	return c
}

// complement returns the sorted indices in [0, n) not in test.
func complement(n int, test []int) []int {
	in := make([]bool, n)
	for _, i := range test {
		in[i] = true
	}
	rest := make([]int, 0, n-len(test))
	for i := 0; i < n; i++ {
		if !in[i] {
			rest = append(rest, i)
		}
	}
	return rest
}

// StratifiedKFold partitions the rows into k folds that preserve the class
// proportions of y. Members of each class are dealt to the folds in turn,
// continuing from where the previous class stopped, so every fold holds
// either floor(n/k) or ceil(n/k) members of each class. The result is
// deterministic.
func StratifiedKFold(y []bool, k int) ([]Fold, error) {
	if k < 2 {
		return nil, &FoldError{Splits: k, Reason: "at least two folds are required"}
	}
	if k > len(y) {
		return nil, &FoldError{Splits: k, Reason: "more folds than rows"}
	}
	byClass := classes(y)
	for _, members := range byClass {
		if len(members) > 0 && len(members) < k {
			return nil, &FoldError{Splits: k, Reason: "a class has fewer members than folds"}
		}
	}

	tests := make([][]int, k)
	offset := 0
	for _, members := range byClass {
		for j, row := range members {
			fold := (offset + j) % k
			tests[fold] = append(tests[fold], row)
		}
		offset += len(members)
	}

	folds := make([]Fold, k)
	for i, test := range tests {
		sort.Ints(test)
		folds[i] = Fold{Train: complement(len(y), test), Test: test}
	}
	return folds, nil
}

// StratifiedSplit holds out testSize of each class, chosen by a random
// permutation seeded with seed.
func StratifiedSplit(y []bool, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, &FoldError{Splits: 2, Reason: "test size must be in (0, 1)"}
	}
	rng := rand.New(rand.NewSource(seed))
	for _, members := range classes(y) {
		shuffled := append([]int(nil), members...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		n := int(math.Round(testSize * float64(len(shuffled))))
		test = append(test, shuffled[:n]...)
	}
	if len(test) == 0 || len(test) == len(y) {
		return nil, nil, &FoldError{Splits: 2, Reason: "split leaves an empty partition"}
	}
	sort.Ints(test)
	return complement(len(y), test), test, nil
}
