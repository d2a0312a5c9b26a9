package eval

import (
	"fmt"
	"math"
)

type recallEvaluator struct{}
type precisionEvaluator struct{}
type accuracyEvaluator struct{}
type numPositive struct{}
type numPredicted struct{}

// FMeasure computes f-measure, with the beta parameter controlling the precision and recall trade-off.
type FMeasure struct {
	beta float64
}

var (
	// RecallEvaluator calculates recall.
	RecallEvaluator = recallEvaluator{}
	// PrecisionEvaluator calculates precision.
	PrecisionEvaluator = precisionEvaluator{}
	// AccuracyEvaluator calculates the fraction of labels predicted correctly.
	AccuracyEvaluator = accuracyEvaluator{}
	// NumPositive is the number of true labels.
	NumPositive = numPositive{}
	// NumPredicted is the number of labels predicted true.
	NumPredicted = numPredicted{}

	// F1Measure is f-measure with beta=1.
	F1Measure = FMeasure{beta: 1}
	// F05Measure is f-measure with beta=0.5.
	F05Measure = FMeasure{beta: 0.5}
	// F3Measure is f-measure with beta=3.
	F3Measure = FMeasure{beta: 3}
)

// counts of true/false positives/negatives. Predictions past the end of
// yTrue are ignored.
type counts struct {
	tp, fp, fn, tn float64
}

func count(yTrue, yPred []bool) counts {
	var c counts
	for i, y := range yTrue {
		if i >= len(yPred) {
			break
		}
		switch {
		case y && yPred[i]:
			c.tp++
		case !y && yPred[i]:
			c.fp++
		case y && !yPred[i]:
			c.fn++
		default:
			c.tn++
		}
	}
	return c
}

func (recallEvaluator) Name() string {
	return "Recall"
}

func (recallEvaluator) Score(yTrue, yPred []bool) float64 {
	c := count(yTrue, yPred)
	if c.tp+c.fn == 0 {
		return 0.0
	}
	return c.tp / (c.tp + c.fn)
}

func (precisionEvaluator) Name() string {
	return "Precision"
}

func (precisionEvaluator) Score(yTrue, yPred []bool) float64 {
	c := count(yTrue, yPred)
	if c.tp+c.fp == 0 {
		return 0.0
	}
	return c.tp / (c.tp + c.fp)
}

func (accuracyEvaluator) Name() string {
	return "Accuracy"
}

func (accuracyEvaluator) Score(yTrue, yPred []bool) float64 {
	c := count(yTrue, yPred)
	n := c.tp + c.fp + c.fn + c.tn
	if n == 0 {
		return 0.0
	}
	return (c.tp + c.tn) / n
}

func (numPositive) Name() string {
	return "NumPositive"
}

func (numPositive) Score(yTrue, yPred []bool) float64 {
	c := count(yTrue, yPred)
	return c.tp + c.fn
}

func (numPredicted) Name() string {
	return "NumPredicted"
}

func (numPredicted) Score(yTrue, yPred []bool) float64 {
	c := count(yTrue, yPred)
	return c.tp + c.fp
}

// Score uses the beta parameter to compute f-measure.
func (f FMeasure) Score(yTrue, yPred []bool) float64 {
	precision := PrecisionEvaluator.Score(yTrue, yPred)
	recall := RecallEvaluator.Score(yTrue, yPred)
	if precision == 0 || recall == 0 {
		return 0
	}
	betaSquared := math.Pow(f.beta, 2)
	return ((1 + betaSquared) * (precision * recall)) / ((betaSquared * precision) + recall)
}

// Name calculates the name of the f-measure with beta parameter.
func (f FMeasure) Name() string {
	return fmt.Sprintf("F%vMeasure", f.beta)
}

// NewFMeasure creates an f-measure with any beta.
func NewFMeasure(beta float64) FMeasure {
	return FMeasure{beta: beta}
}
