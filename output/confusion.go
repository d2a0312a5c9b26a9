package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/hscells/tipster/eval"
)

// ConfusionFormatter outputs a confusion matrix.
type ConfusionFormatter func(m eval.Matrix) (string, error)

func formatCell(m eval.Matrix, v float64) string {
	if m.Normalize == eval.NormalizeNone {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func labelName(label bool) string {
	return strconv.FormatBool(label)
}

// JsonConfusionFormatter outputs the matrix as {true label: {predicted label: value}}.
func JsonConfusionFormatter(m eval.Matrix) (string, error) {
	v := map[string]interface{}{
		"normalize": m.Normalize.String(),
	}
	cells := map[string]map[string]float64{}
	for _, t := range eval.Labels {
		cells[labelName(t)] = map[string]float64{}
		for _, p := range eval.Labels {
			cells[labelName(t)][labelName(p)] = m.At(t, p)
		}
	}
	v["matrix"] = cells
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CsvConfusionFormatter outputs one row per true label.
func CsvConfusionFormatter(m eval.Matrix) (string, error) {
	b := bytes.NewBufferString("")
	w := csv.NewWriter(b)
	h := []string{"True"}
	for _, p := range eval.Labels {
		h = append(h, labelName(p))
	}
	if err := w.Write(h); err != nil {
		return "", err
	}
	for _, t := range eval.Labels {
		record := []string{labelName(t)}
		for _, p := range eval.Labels {
			record = append(record, formatCell(m, m.At(t, p)))
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}

// TextConfusionFormatter outputs an aligned table for terminals.
func TextConfusionFormatter(m eval.Matrix) (string, error) {
	b := bytes.NewBufferString("")
	w := tabwriter.NewWriter(b, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "true \\ pred\t%s\t%s\t\n", labelName(eval.Labels[0]), labelName(eval.Labels[1]))
	for _, t := range eval.Labels {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", labelName(t), formatCell(m, m.At(t, eval.Labels[0])), formatCell(m, m.At(t, eval.Labels[1])))
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}
