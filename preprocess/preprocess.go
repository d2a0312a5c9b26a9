// Package preprocess cleans raw trip tables before features are generated.
// Cleaning only ever removes rows; feature generators never do.
package preprocess

import (
	"log"

	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/metrics"
	"github.com/hscells/tipster/table"
)

// Cleaner removes implausible rows from a table. Cleaners are pure and
// idempotent.
type Cleaner interface {
	Name() string
	Clean(t *table.Table) (*table.Table, error)
}

type missingValues struct{}

type nonPositive struct {
	name   string
	column string
}

var (
	// MissingValues removes rows with a missing value in any column.
	MissingValues = missingValues{}
	// NonPositiveFare removes rows where the fare is zero or negative.
	NonPositiveFare = nonPositive{name: "NonPositiveFare", column: "fare_amount"}
	// NonPositiveDistance removes rows where the trip distance is zero or negative.
	NonPositiveDistance = nonPositive{name: "NonPositiveDistance", column: "trip_distance"}
)

func (missingValues) Name() string {
	return "MissingValues"
}

func (missingValues) Clean(t *table.Table) (*table.Table, error) {
	columns := t.Columns()
	return t.Filter(func(row int) bool {
		for _, c := range columns {
			if c.Missing(row) {
				return false
			}
		}
		return true
	}), nil
}

func (n nonPositive) Name() string {
	return n.name
}

func (n nonPositive) Clean(t *table.Table) (*table.Table, error) {
	c, err := t.Column(n.column)
	if err != nil {
		return nil, err
	}
	if !c.Kind().Numeric() {
		return nil, &table.SchemaError{Column: n.column, Reason: "expected a numeric column, got " + c.Kind().String()}
	}
	return t.Filter(func(row int) bool {
		return c.Float(row) > 0
	}), nil
}

// DefaultCleaners are the rules applied to raw trips for a month, in the
// order they are applied.
func DefaultCleaners(p config.Period) []Cleaner {
	return []Cleaner{
		MissingValues,
		NonPositiveFare,
		NonPositiveDistance,
		OutOfRange(p),
	}
}

// Clean applies cleaners in order, recording how many rows each removed.
func Clean(t *table.Table, r *metrics.Recorder, cleaners ...Cleaner) (*table.Table, error) {
	for _, c := range cleaners {
		before := t.Len()
		var err error
		t, err = c.Clean(t)
		if err != nil {
			return nil, err
		}
		r.RowsCleaned(c.Name(), before-t.Len(), t.Len())
		log.Printf("%s removed %d of %d rows\n", c.Name(), before-t.Len(), before)
	}
	return t, nil
}
