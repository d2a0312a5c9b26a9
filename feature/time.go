package feature

import (
	"math"
	"time"

	"github.com/hscells/tipster/table"
)

// Work hours are 08:00 to 18:59 on a weekday.
const (
	workStartHour = 8
	workEndHour   = 18
	fridayIndex   = 4
)

// TimeFeature decomposes the pickup time into pickup_weekday (0 is Monday),
// pickup_hour, pickup_month, and pickup_minute, and flags pickups during
// work_hours.
type TimeFeature struct{}

// PickupDateFeature is TimeFeature under the pick_up_ column names.
type PickupDateFeature struct{}

func (TimeFeature) Name() string {
	return "time"
}

func (TimeFeature) Spec() Spec {
	return dateSpec("pickup_")
}

func (TimeFeature) Generate(t *table.Table) (*table.Table, error) {
	return decompose(t, "pickup_")
}

func (PickupDateFeature) Name() string {
	return "pick_up"
}

func (PickupDateFeature) Spec() Spec {
	return dateSpec("pick_up_")
}

func (PickupDateFeature) Generate(t *table.Table) (*table.Table, error) {
	return decompose(t, "pick_up_")
}

func dateSpec(prefix string) Spec {
	return Spec{
		{Name: prefix + "weekday", Kind: table.Int8},
		{Name: prefix + "hour", Kind: table.Int8},
		{Name: prefix + "month", Kind: table.Int8},
		{Name: prefix + "minute", Kind: table.Int8},
		{Name: "work_hours", Kind: table.Bool},
	}
}

// Weekday numbers days from Monday (0) to Sunday (6).
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WorkHours reports whether t falls between 08:00 and 18:59 (the whole of
// hour 18 included) from Monday to Friday.
func WorkHours(t time.Time) bool {
	return t.Hour() >= workStartHour && t.Hour() <= workEndHour && Weekday(t) <= fridayIndex
}

func decompose(t *table.Table, prefix string) (*table.Table, error) {
	pickup, err := requireTime(t, PickupColumn)
	if err != nil {
		return nil, err
	}
	n := t.Len()
	var (
		weekday = make([]float64, n)
		hour    = make([]float64, n)
		month   = make([]float64, n)
		minute  = make([]float64, n)
		work    = make([]bool, n)
	)
	for i := 0; i < n; i++ {
		if pickup.Missing(i) {
			weekday[i], hour[i], month[i], minute[i] = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			continue
		}
		p := pickup.Time(i)
		weekday[i] = float64(Weekday(p))
		hour[i] = float64(p.Hour())
		month[i] = float64(p.Month())
		minute[i] = float64(p.Minute())
		work[i] = WorkHours(p)
	}
	return table.New(
		table.NewNumeric(prefix+"weekday", table.Int8, weekday),
		table.NewNumeric(prefix+"hour", table.Int8, hour),
		table.NewNumeric(prefix+"month", table.Int8, month),
		table.NewNumeric(prefix+"minute", table.Int8, minute),
		table.NewBool("work_hours", work),
	)
}
