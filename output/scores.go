package output

import (
	"encoding/json"

	"gonum.org/v1/gonum/stat"
)

// ScoresFormatter outputs the per-fold scores of cross validation.
type ScoresFormatter func(scores []float64) (string, error)

type scoreSummary struct {
	Folds []float64 `json:"folds"`
	Mean  float64   `json:"mean"`
	Std   float64   `json:"std"`
}

// JsonScoresFormatter outputs the scores with their mean and sample
// standard deviation.
func JsonScoresFormatter(scores []float64) (string, error) {
	s := scoreSummary{Folds: scores}
	if len(scores) > 0 {
		s.Mean = stat.Mean(scores, nil)
	}
	if len(scores) > 1 {
		s.Std = stat.StdDev(scores, nil)
	}
	v, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}
