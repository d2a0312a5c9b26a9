package preprocess

import (
	"fmt"

	"github.com/hscells/tipster/config"
	"github.com/hscells/tipster/table"
)

// DropoffColumn is the column the date range is restricted on.
const DropoffColumn = "tpep_dropoff_datetime"

type outOfRange struct {
	period config.Period
}

// OutOfRange removes trips that were not dropped off on a day of the given
// month, e.g. for 2022-02 a dropoff on 2022-02-28 is kept and one on
// 2022-03-01 is removed. The time of day is not considered.
func OutOfRange(p config.Period) Cleaner {
	return outOfRange{period: p}
}

func (o outOfRange) Name() string {
	return fmt.Sprintf("OutOfRange[%s]", o.period)
}

func (o outOfRange) Clean(t *table.Table) (*table.Table, error) {
	c, err := t.Column(DropoffColumn)
	if err != nil {
		return nil, err
	}
	if c.Kind() != table.Time {
		return nil, &table.SchemaError{Column: DropoffColumn, Reason: "expected a date-time column, got " + c.Kind().String()}
	}
	return t.Filter(func(row int) bool {
		return !c.Missing(row) && o.period.Contains(c.Time(row))
	}), nil
}
