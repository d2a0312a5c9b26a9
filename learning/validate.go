package learning

import (
	"log"

	"github.com/hscells/tipster/eval"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// evaluate scores the predictions of c over X against Y with F1.
func evaluate(c Classifier, X [][]float64, Y []bool) (float64, error) {
	if len(X) != len(Y) {
		return 0, &ShapeError{Reason: "labels", Got: len(Y), Want: len(X)}
	}
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return eval.F1Measure.Score(Y, pred), nil
}

// CrossValidate fits c on the training rows of each stratified fold and
// evaluates it on the test rows. The classifier keeps the model of the last
// fold.
func CrossValidate(c Classifier, X [][]float64, Y []bool, nSplits int) ([]float64, error) {
	if len(X) != len(Y) {
		return nil, &ShapeError{Reason: "labels", Got: len(Y), Want: len(X)}
	}
	folds, err := eval.StratifiedKFold(Y, nSplits)
	if err != nil {
		return nil, err
	}

	d := Dataset{X: X, Y: Y}
	scores := make([]float64, len(folds))
	for i, fold := range folds {
		train, test := d.Subset(fold.Train), d.Subset(fold.Test)
		if _, err := c.Fit(train.X, train.Y); err != nil {
			return nil, errors.Wrapf(err, "fitting fold %d", i)
		}
		scores[i], err = c.Evaluate(test.X, test.Y)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating fold %d", i)
		}
		log.Printf("%s fold %d/%d: %s %.4f\n", c.Name(), i+1, len(folds), eval.F1Measure.Name(), scores[i])
	}
	mean, std := stat.MeanStdDev(scores, nil)
	log.Printf("%s cross validation: mean %.4f std %.4f\n", c.Name(), mean, std)
	return scores, nil
}
