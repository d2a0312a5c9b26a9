package learning

import (
	"encoding/gob"
	"io"
	"log"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CentroidModel is the per-class mean of the training rows, false first.
type CentroidModel struct {
	Centroids [2][]float64
}

func (m *CentroidModel) Width() int {
	return len(m.Centroids[0])
}

// Predict returns the class whose centroid is nearest to x. Ties go to false.
func (m *CentroidModel) Predict(x []float64) bool {
	return floats.Distance(x, m.Centroids[1], 2) < floats.Distance(x, m.Centroids[0], 2)
}

// NearestCentroid labels a row with the class of its nearest centroid.
type NearestCentroid struct {
	columns
	model *CentroidModel
}

// NewNearestCentroid creates an unfitted classifier over features predicting label.
func NewNearestCentroid(features []string, label string) (*NearestCentroid, error) {
	c, err := newColumns(features, label)
	if err != nil {
		return nil, err
	}
	return &NearestCentroid{columns: c}, nil
}

func (n *NearestCentroid) Name() string {
	return "NearestCentroid"
}

func (n *NearestCentroid) Fit(X [][]float64, Y []bool) (TrainedModel, error) {
	width := len(n.features)
	groups, err := byClass(n.Name(), width, X, Y)
	if err != nil {
		return nil, err
	}
	m := &CentroidModel{}
	for c, rows := range groups {
		m.Centroids[c] = make([]float64, width)
		for j := 0; j < width; j++ {
			m.Centroids[c][j] = stat.Mean(column(rows, j), nil)
		}
	}
	n.model = m
	return m, nil
}

func (n *NearestCentroid) Predict(X [][]float64) ([]bool, error) {
	if n.model == nil {
		return nil, &NotFittedError{Classifier: n.Name()}
	}
	return predict(n.model, X)
}

func (n *NearestCentroid) Evaluate(X [][]float64, Y []bool) (float64, error) {
	return evaluate(n, X, Y)
}

func (n *NearestCentroid) CrossValidate(X [][]float64, Y []bool, nSplits int) ([]float64, error) {
	return CrossValidate(n, X, Y, nSplits)
}

func (n *NearestCentroid) Output(w io.Writer) error {
	if n.model == nil {
		return &NotFittedError{Classifier: n.Name()}
	}
	return gob.NewEncoder(w).Encode(n.model)
}

func (n *NearestCentroid) Load(r io.Reader) error {
	var m CentroidModel
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return errors.Wrap(err, "decoding centroid model")
	}
	if m.Width() != len(n.features) {
		return &ShapeError{Reason: "model width", Got: m.Width(), Want: len(n.features)}
	}
	log.Printf("loaded %s over %d features\n", n.Name(), m.Width())
	n.model = &m
	return nil
}
