package eval

import "fmt"

// Normalize selects how a confusion matrix is normalised.
type Normalize uint8

const (
	// NormalizeNone leaves raw counts.
	NormalizeNone Normalize = iota
	// NormalizeTrue divides each row by the number of true labels in it.
	NormalizeTrue
	// NormalizePred divides each column by the number of predictions in it.
	NormalizePred
	// NormalizeAll divides every cell by the total.
	NormalizeAll
)

var normalizeNames = map[Normalize]string{
	NormalizeNone: "none",
	NormalizeTrue: "true",
	NormalizePred: "pred",
	NormalizeAll:  "all",
}

func (n Normalize) String() string {
	if s, ok := normalizeNames[n]; ok {
		return s
	}
	return fmt.Sprintf("Normalize(%d)", uint8(n))
}

// ParseNormalize is the inverse of Normalize.String.
func ParseNormalize(s string) (Normalize, error) {
	for n, name := range normalizeNames {
		if name == s {
			return n, nil
		}
	}
	return NormalizeNone, fmt.Errorf("unknown normalisation %q", s)
}

// Labels is the order of both the rows and columns of a Matrix.
var Labels = [2]bool{true, false}

// Matrix is a 2x2 confusion matrix. Rows are the true label and columns the
// predicted label, both in Labels order.
type Matrix struct {
	Cells     [2][2]float64
	Normalize Normalize
}

func labelIndex(label bool) int {
	if label {
		return 0
	}
	return 1
}

// At returns the cell for a true and predicted label.
func (m Matrix) At(trueLabel, predLabel bool) float64 {
	return m.Cells[labelIndex(trueLabel)][labelIndex(predLabel)]
}

// ConfusionMatrix counts predictions against true labels.
func ConfusionMatrix(yTrue, yPred []bool, normalize Normalize) (Matrix, error) {
	if len(yTrue) != len(yPred) {
		return Matrix{}, &LengthError{True: len(yTrue), Pred: len(yPred)}
	}
	if _, ok := normalizeNames[normalize]; !ok {
		return Matrix{}, fmt.Errorf("unknown normalisation %d", normalize)
	}

	m := Matrix{Normalize: normalize}
	for i := range yTrue {
		m.Cells[labelIndex(yTrue[i])][labelIndex(yPred[i])]++
	}

	var rows, cols [2]float64
	var total float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			rows[i] += m.Cells[i][j]
			cols[j] += m.Cells[i][j]
			total += m.Cells[i][j]
		}
	}

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var d float64
			switch normalize {
			case NormalizeNone:
				continue
			case NormalizeTrue:
				d = rows[i]
			case NormalizePred:
				d = cols[j]
			case NormalizeAll:
				d = total
			}
			if d == 0 {
				m.Cells[i][j] = 0
			} else {
				m.Cells[i][j] /= d
			}
		}
	}
	return m, nil
}
