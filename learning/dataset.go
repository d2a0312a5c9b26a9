package learning

import (
	"math"

	"github.com/hscells/tipster/table"
)

// Dataset is a feature table projected to a matrix of features and a vector
// of labels. len(X) == len(Y) and every row of X has len(Features) values.
type Dataset struct {
	X        [][]float64
	Y        []bool
	Features []string
}

// Len is the number of rows.
func (d Dataset) Len() int {
	return len(d.Y)
}

// Subset returns the rows of d at the given indices.
func (d Dataset) Subset(rows []int) Dataset {
	s := Dataset{
		X:        make([][]float64, len(rows)),
		Y:        make([]bool, len(rows)),
		Features: d.Features,
	}
	for i, r := range rows {
		s.X[i] = d.X[r]
		s.Y[i] = d.Y[r]
	}
	return s
}

// PreprocessTable selects the features and label from t. Rows with a missing
// or non-finite value in any selected column are dropped. Features and the
// label must be numeric or boolean; a label is true when non-zero.
func PreprocessTable(t *table.Table, features []string, label string) (Dataset, error) {
	if err := t.Require(append(append([]string(nil), features...), label)...); err != nil {
		return Dataset{}, err
	}

	cols := make([]*table.Column, len(features))
	for i, name := range features {
		c, _ := t.Column(name)
		if !c.Kind().Numeric() {
			return Dataset{}, &table.SchemaError{Column: name, Row: -1, Reason: "feature must be numeric, found " + c.Kind().String()}
		}
		cols[i] = c
	}
	y, _ := t.Column(label)
	if !y.Kind().Numeric() {
		return Dataset{}, &table.SchemaError{Column: label, Row: -1, Reason: "label must be numeric or boolean, found " + y.Kind().String()}
	}

	d := Dataset{Features: append([]string(nil), features...)}
	for row := 0; row < t.Len(); row++ {
		if !finite(y.Float(row)) {
			continue
		}
		x := make([]float64, len(cols))
		ok := true
		for j, c := range cols {
			v := c.Float(row)
			if !finite(v) {
				ok = false
				break
			}
			x[j] = v
		}
		if !ok {
			continue
		}
		d.X = append(d.X, x)
		d.Y = append(d.Y, y.Float(row) != 0)
	}
	return d, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
