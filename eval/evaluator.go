// Package eval scores binary predictions of big_tip and splits labelled data
// for validation. The positive class is always true.
package eval

// Evaluator scores predicted labels against true labels.
type Evaluator interface {
	Score(yTrue, yPred []bool) float64
	Name() string
}

// Evaluate scores predictions using the supplied evaluation measurements.
func Evaluate(evaluators []Evaluator, yTrue, yPred []bool) map[string]float64 {
	scores := make(map[string]float64, len(evaluators))
	for _, evaluator := range evaluators {
		scores[evaluator.Name()] = evaluator.Score(yTrue, yPred)
	}
	return scores
}
