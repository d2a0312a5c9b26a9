// Package output provides different formats of output for experiments.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"sort"
	"strconv"
)

// EvaluationFormatter is used in a tipster pipeline to output evaluation results.
type EvaluationFormatter func(map[string]float64) (string, error)

// JsonEvaluationFormatter outputs results in a JSON format.
func JsonEvaluationFormatter(results map[string]float64) (string, error) {
	v, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// CsvEvaluationFormatter outputs one row per measurement, sorted by name.
func CsvEvaluationFormatter(results map[string]float64) (string, error) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	b := bytes.NewBufferString("")
	w := csv.NewWriter(b)
	if err := w.Write([]string{"Measurement", "Score"}); err != nil {
		return "", err
	}
	for _, name := range names {
		if err := w.Write([]string{name, strconv.FormatFloat(results[name], 'f', -1, 64)}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}
