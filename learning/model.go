// Package learning trains binary classifiers that predict big_tip from a
// feature table.
package learning

import (
	"io"

	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/table"
)

// Classifier is a probabilistic binary classifier over a fixed list of
// feature columns and a label column. Each classifier owns the model of its
// most recent successful fit; fitting again replaces it.
type Classifier interface {
	// Name of the classifier.
	Name() string
	// Features the classifier is configured with.
	Features() []string
	// Label column the classifier predicts.
	Label() string
	// Preprocess projects a feature table into a labelled dataset.
	Preprocess(t *table.Table) (Dataset, error)
	// Fit trains a model on the rows of X labelled by Y.
	Fit(X [][]float64, Y []bool) (TrainedModel, error)
	// Predict labels each row of X with the fitted model.
	Predict(X [][]float64) ([]bool, error)
	// Evaluate scores predictions over X against Y with F1.
	Evaluate(X [][]float64, Y []bool) (float64, error)
	// CrossValidate fits and evaluates over stratified folds.
	CrossValidate(X [][]float64, Y []bool, nSplits int) ([]float64, error)
	// Output writes the fitted model.
	Output(w io.Writer) error
	// Load replaces the fitted model with one written by Output.
	Load(r io.Reader) error
}

// TrainedModel is the result of fitting a classifier.
type TrainedModel interface {
	// Predict labels one row of features.
	Predict(x []float64) bool
	// Width is the number of features the model was fitted on.
	Width() int
}

// columns is the feature and label configuration shared by classifiers.
type columns struct {
	features []string
	label    string
}

func newColumns(features []string, label string) (columns, error) {
	if len(features) == 0 {
		return columns{}, &config.ConfigurationError{Field: "features", Reason: "at least one feature is required"}
	}
	if label == "" {
		return columns{}, &config.ConfigurationError{Field: "label", Reason: "a label column is required"}
	}
	return columns{features: append([]string(nil), features...), label: label}, nil
}

func (c columns) Features() []string {
	return append([]string(nil), c.features...)
}

func (c columns) Label() string {
	return c.label
}

func (c columns) Preprocess(t *table.Table) (Dataset, error) {
	return PreprocessTable(t, c.features, c.label)
}

// predict labels every row of X, checking widths first.
func predict(m TrainedModel, X [][]float64) ([]bool, error) {
	for _, x := range X {
		if len(x) != m.Width() {
			return nil, &ShapeError{Reason: "feature width", Got: len(x), Want: m.Width()}
		}
	}
	y := make([]bool, len(X))
	for i, x := range X {
		y[i] = m.Predict(x)
	}
	return y, nil
}

// byClass validates a training set and splits its rows by label, false first.
func byClass(name string, width int, X [][]float64, Y []bool) ([2][][]float64, error) {
	var groups [2][][]float64
	if len(X) == 0 {
		return groups, &EmptyTrainingSetError{Classifier: name}
	}
	if len(X) != len(Y) {
		return groups, &ShapeError{Reason: "labels", Got: len(Y), Want: len(X)}
	}
	for i, x := range X {
		if len(x) != width {
			return groups, &ShapeError{Reason: "feature width", Got: len(x), Want: width}
		}
		if Y[i] {
			groups[1] = append(groups[1], x)
		} else {
			groups[0] = append(groups[0], x)
		}
	}
	classes := 0
	for _, g := range groups {
		if len(g) > 0 {
			classes++
		}
	}
	if classes < 2 {
		return groups, &LabelCardinalityError{Classifier: name, Classes: classes}
	}
	return groups, nil
}
