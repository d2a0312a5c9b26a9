package feature

import (
	"github.com/hscells/tipster/table"
)

// DefaultThreshold is the tip percentage a tip must exceed to be big.
//
// The comparison is against a percentage (already multiplied by 100), so this
// is a quarter of one percent of the fare, not a quarter of the fare.
const DefaultThreshold = 0.25

// TipFeature produces the label: tip_percentage of the fare, and big_tip when
// that exceeds the threshold.
type TipFeature struct {
	Threshold float64
}

// NewTipFeature labels tips above threshold as big.
func NewTipFeature(threshold float64) TipFeature {
	return TipFeature{Threshold: threshold}
}

func (TipFeature) Name() string {
	return "tip"
}

func (TipFeature) Spec() Spec {
	return Spec{
		{Name: "tip_percentage", Kind: table.Float32},
		{Name: "big_tip", Kind: table.Bool},
	}
}

// Generate fails with *DivisionByZeroError on a zero fare.
func (f TipFeature) Generate(t *table.Table) (*table.Table, error) {
	fare, err := requireNumeric(t, FareColumn)
	if err != nil {
		return nil, err
	}
	tip, err := requireNumeric(t, TipColumn)
	if err != nil {
		return nil, err
	}
	n := t.Len()
	percentage := make([]float64, n)
	big := make([]bool, n)
	for i := 0; i < n; i++ {
		if fare.Float(i) == 0 {
			return nil, &DivisionByZeroError{Generator: f.Name(), Column: FareColumn, Row: i}
		}
		percentage[i] = tip.Float(i) / fare.Float(i) * 100
		big[i] = percentage[i] > f.Threshold
	}
	return table.New(
		table.NewNumeric("tip_percentage", table.Float32, percentage),
		table.NewBool("big_tip", big),
	)
}
