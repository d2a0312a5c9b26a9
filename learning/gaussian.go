package learning

import (
	"encoding/gob"
	"io"
	"log"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultVarSmoothing is the fraction of the largest feature variance added to
// every class variance.
const DefaultVarSmoothing = 1e-9

// GaussianModel is a fitted Gaussian naive Bayes model. Index 0 of every
// slice is the false class and index 1 the true class.
type GaussianModel struct {
	Priors    [2]float64
	Means     [2][]float64
	Variances [2][]float64
	Epsilon   float64
}

// Width is the number of features of the model.
func (m *GaussianModel) Width() int {
	return len(m.Means[0])
}

// JointLogLikelihood is log P(c) + log P(x|c) for each class.
func (m *GaussianModel) JointLogLikelihood(x []float64) [2]float64 {
	var jll [2]float64
	for c := 0; c < 2; c++ {
		var ll float64
		for j, v := range x {
			variance := m.Variances[c][j]
			d := v - m.Means[c][j]
			ll -= 0.5*math.Log(2*math.Pi*variance) + 0.5*d*d/variance
		}
		jll[c] = math.Log(m.Priors[c]) + ll
	}
	return jll
}

// Predict returns the class with the greatest joint likelihood. Ties go to false.
func (m *GaussianModel) Predict(x []float64) bool {
	jll := m.JointLogLikelihood(x)
	return jll[1] > jll[0]
}

// Probability of x belonging to the true class.
func (m *GaussianModel) Probability(x []float64) float64 {
	jll := m.JointLogLikelihood(x)
	return math.Exp(jll[1] - floats.LogSumExp(jll[:]))
}

// GaussianNB is a Gaussian naive Bayes classifier.
type GaussianNB struct {
	columns
	varSmoothing float64
	model        *GaussianModel
}

// VarSmoothing sets the variance smoothing of the classifier.
func VarSmoothing(v float64) func(g *GaussianNB) {
	return func(g *GaussianNB) {
		g.varSmoothing = v
	}
}

// NewGaussianNB creates an unfitted classifier over features predicting label.
func NewGaussianNB(features []string, label string, options ...func(g *GaussianNB)) (*GaussianNB, error) {
	c, err := newColumns(features, label)
	if err != nil {
		return nil, err
	}
	g := &GaussianNB{columns: c, varSmoothing: DefaultVarSmoothing}
	for _, option := range options {
		option(g)
	}
	return g, nil
}

func (g *GaussianNB) Name() string {
	return "GaussianNB"
}

// populationVariance of xs, so that a single value has zero variance.
func populationVariance(xs []float64) (mean, variance float64) {
	mean, variance = stat.MeanVariance(xs, nil)
	n := float64(len(xs))
	if n < 2 {
		return mean, 0
	}
	return mean, variance * (n - 1) / n
}

func column(X [][]float64, j int) []float64 {
	col := make([]float64, len(X))
	for i, x := range X {
		col[i] = x[j]
	}
	return col
}

func (g *GaussianNB) Fit(X [][]float64, Y []bool) (TrainedModel, error) {
	width := len(g.features)
	groups, err := byClass(g.Name(), width, X, Y)
	if err != nil {
		return nil, err
	}

	var largest float64
	for j := 0; j < width; j++ {
		_, v := populationVariance(column(X, j))
		largest = math.Max(largest, v)
	}
	epsilon := g.varSmoothing * largest
	if epsilon == 0 {
		// every feature is constant
		epsilon = g.varSmoothing
	}

	m := &GaussianModel{Epsilon: epsilon}
	for c, rows := range groups {
		m.Priors[c] = float64(len(rows)) / float64(len(X))
		m.Means[c] = make([]float64, width)
		m.Variances[c] = make([]float64, width)
		for j := 0; j < width; j++ {
			mean, variance := populationVariance(column(rows, j))
			m.Means[c][j] = mean
			m.Variances[c][j] = variance + epsilon
		}
	}
	g.model = m
	return m, nil
}

// Model is the most recently fitted model, or nil.
func (g *GaussianNB) Model() *GaussianModel {
	return g.model
}

func (g *GaussianNB) Predict(X [][]float64) ([]bool, error) {
	if g.model == nil {
		return nil, &NotFittedError{Classifier: g.Name()}
	}
	return predict(g.model, X)
}

// PredictProba returns the probability of each row of X belonging to the
// true class.
func (g *GaussianNB) PredictProba(X [][]float64) ([]float64, error) {
	if g.model == nil {
		return nil, &NotFittedError{Classifier: g.Name()}
	}
	p := make([]float64, len(X))
	for i, x := range X {
		if len(x) != g.model.Width() {
			return nil, &ShapeError{Reason: "feature width", Got: len(x), Want: g.model.Width()}
		}
		p[i] = g.model.Probability(x)
	}
	return p, nil
}

func (g *GaussianNB) Evaluate(X [][]float64, Y []bool) (float64, error) {
	return evaluate(g, X, Y)
}

func (g *GaussianNB) CrossValidate(X [][]float64, Y []bool, nSplits int) ([]float64, error) {
	return CrossValidate(g, X, Y, nSplits)
}

func (g *GaussianNB) Output(w io.Writer) error {
	if g.model == nil {
		return &NotFittedError{Classifier: g.Name()}
	}
	return gob.NewEncoder(w).Encode(g.model)
}

func (g *GaussianNB) Load(r io.Reader) error {
	var m GaussianModel
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return errors.Wrap(err, "decoding gaussian model")
	}
	if m.Width() != len(g.features) {
		return &ShapeError{Reason: "model width", Got: m.Width(), Want: len(g.features)}
	}
	log.Printf("loaded %s over %d features\n", g.Name(), m.Width())
	g.model = &m
	return nil
}
