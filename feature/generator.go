// Package feature derives model inputs from cleaned trip tables. Each
// Generator owns a Spec of exactly the columns it emits; Compose joins the
// outputs of many generators into one feature table.
package feature

import (
	"log"

	"github.com/hscells/tipster/metrics"
	"github.com/hscells/tipster/preprocess"
	"github.com/hscells/tipster/table"
	"github.com/pkg/errors"
)

// Column names of the cleaned trip table that generators read from.
const (
	PickupColumn   = "tpep_pickup_datetime"
	DropoffColumn  = "tpep_dropoff_datetime"
	DistanceColumn = "trip_distance"
	FareColumn     = "fare_amount"
	TipColumn      = "tip_amount"
	TollsColumn    = "tolls_amount"
	PickupZone     = "PULocationID"
	DropoffZone    = "DOLocationID"
)

// KeyColumns are carried through to the feature table for later joins.
var KeyColumns = []string{PickupColumn, DropoffColumn}

// Generator produces a fixed set of feature columns from a trip table. A
// generator returns a new table with the columns of its Spec, in Spec order,
// with one row for every input row in the same order. Generators never filter.
type Generator interface {
	Name() string
	Generate(t *table.Table) (*table.Table, error)
	Spec() Spec
}

// DefaultGenerators build the feature table the classifier is trained on.
func DefaultGenerators(threshold float64) []Generator {
	return []Generator{
		TripFeature{},
		TimeFeature{},
		MeterFeature{},
		NewTipFeature(threshold),
	}
}

// Compose runs each generator over t and joins their outputs, followed by
// the key columns of t. Every output is checked against its generator's spec,
// and no two generators may emit the same column.
func Compose(t *table.Table, keys []string, generators ...Generator) (*table.Table, error) {
	outputs := make([]*table.Table, 0, len(generators)+1)
	for _, g := range generators {
		out, err := g.Generate(t)
		if err != nil {
			return nil, errors.Wrapf(err, "generating %s features", g.Name())
		}
		if err := g.Spec().Check(g.Name(), out); err != nil {
			return nil, err
		}
		if out.Len() != t.Len() {
			return nil, &ContractError{Generator: g.Name(), Reason: "generators must not add or remove rows"}
		}
		outputs = append(outputs, out)
	}
	k, err := t.Select(keys...)
	if err != nil {
		return nil, err
	}
	return table.Concat(append(outputs, k)...)
}

// Pipeline cleans a trip table and then generates its features.
type Pipeline struct {
	Cleaners   []preprocess.Cleaner
	Generators []Generator
	KeyColumns []string
	Recorder   *metrics.Recorder
}

// Run the cleaning rules over t, then compose the generators.
func (p Pipeline) Run(t *table.Table) (*table.Table, error) {
	clean, err := preprocess.Clean(t, p.Recorder, p.Cleaners...)
	if err != nil {
		return nil, err
	}
	keys := p.KeyColumns
	if keys == nil {
		keys = KeyColumns
	}
	log.Printf("generating features for %d rows with %d generators\n", clean.Len(), len(p.Generators))
	return Compose(clean, keys, p.Generators...)
}

// requireTime fetches a date-time column.
func requireTime(t *table.Table, name string) (*table.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind() != table.Time {
		return nil, &table.SchemaError{Column: name, Reason: "expected a date-time column, got " + c.Kind().String()}
	}
	return c, nil
}

// requireNumeric fetches a numeric column.
func requireNumeric(t *table.Table, name string) (*table.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if !c.Kind().Numeric() {
		return nil, &table.SchemaError{Column: name, Reason: "expected a numeric column, got " + c.Kind().String()}
	}
	return c, nil
}
