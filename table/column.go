// Package table is a small immutable, columnar table. It carries taxi trip
// records between pipeline stages. Every transformation returns a new table;
// columns are never modified once constructed and so may be shared freely.
package table

import (
	"math"
	"time"
)

// Kind is the semantic scalar type of a column.
type Kind uint8

const (
	Int8 Kind = iota
	Int32
	Int64
	Float32
	Float64
	Bool
	Time
	String
)

func (k Kind) String() string {
	switch k {
	case Int8:
		return "int8"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case Time:
		return "datetime"
	case String:
		return "string"
	}
	return "unknown"
}

// Numeric reports whether values of the kind are stored as numbers. Booleans
// are numeric (0 or 1).
func (k Kind) Numeric() bool {
	return k <= Bool
}

// Column is a named, typed sequence of values.
type Column struct {
	name  string
	kind  Kind
	num   []float64
	times []time.Time
	strs  []string
}

func castNumeric(kind Kind, v float64) float64 {
	switch kind {
	case Int8:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return v
		}
		return float64(int8(math.Trunc(v)))
	case Int32:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return v
		}
		return float64(int32(math.Trunc(v)))
	case Int64:
		return math.Trunc(v)
	case Float32:
		return float64(float32(v))
	}
	return v
}

// NewNumeric creates a column of an integer or floating kind. Values are cast
// to the kind: integers are truncated towards zero and float32 values are
// rounded to float32 precision. NaN marks a missing value.
func NewNumeric(name string, kind Kind, values []float64) *Column {
	num := make([]float64, len(values))
	for i, v := range values {
		num[i] = castNumeric(kind, v)
	}
	return &Column{name: name, kind: kind, num: num}
}

// NewBool creates a boolean column.
func NewBool(name string, values []bool) *Column {
	num := make([]float64, len(values))
	for i, v := range values {
		if v {
			num[i] = 1
		}
	}
	return &Column{name: name, kind: Bool, num: num}
}

// NewTime creates a date-time column. The zero time marks a missing value.
func NewTime(name string, values []time.Time) *Column {
	return &Column{name: name, kind: Time, times: append([]time.Time(nil), values...)}
}

// NewString creates a string column. The empty string marks a missing value.
func NewString(name string, values []string) *Column {
	return &Column{name: name, kind: String, strs: append([]string(nil), values...)}
}

// Name of the column.
func (c *Column) Name() string { return c.name }

// Kind of the column.
func (c *Column) Kind() Kind { return c.kind }

// Len is the number of values in the column.
func (c *Column) Len() int {
	switch c.kind {
	case Time:
		return len(c.times)
	case String:
		return len(c.strs)
	}
	return len(c.num)
}

// Float is the i'th value of a numeric column, or NaN for other kinds.
func (c *Column) Float(i int) float64 {
	if !c.kind.Numeric() {
		return math.NaN()
	}
	return c.num[i]
}

// Bool is the i'th value of a numeric column interpreted as a boolean.
func (c *Column) Bool(i int) bool {
	return c.kind.Numeric() && c.num[i] != 0 && !math.IsNaN(c.num[i])
}

// Time is the i'th value of a date-time column.
func (c *Column) Time(i int) time.Time {
	if c.kind != Time {
		return time.Time{}
	}
	return c.times[i]
}

// String is the i'th value formatted as it is serialised.
func (c *Column) String(i int) string {
	switch c.kind {
	case String:
		return c.strs[i]
	case Time:
		return formatTime(c.times[i])
	case Bool:
		return formatBool(c.num[i])
	}
	return formatFloat(c.kind, c.num[i])
}

// Missing reports whether the i'th value is missing.
func (c *Column) Missing(i int) bool {
	switch c.kind {
	case Time:
		return c.times[i].IsZero()
	case String:
		return len(c.strs[i]) == 0
	}
	return math.IsNaN(c.num[i])
}

// Floats copies the values of a numeric column.
func (c *Column) Floats() []float64 {
	return append([]float64(nil), c.num...)
}

// Rename returns the same values under a new name.
func (c *Column) Rename(name string) *Column {
	r := *c
	r.name = name
	return &r
}

// take returns a column of the values at rows.
func (c *Column) take(rows []int) *Column {
	r := &Column{name: c.name, kind: c.kind}
	switch c.kind {
	case Time:
		r.times = make([]time.Time, len(rows))
		for i, row := range rows {
			r.times[i] = c.times[row]
		}
	case String:
		r.strs = make([]string, len(rows))
		for i, row := range rows {
			r.strs[i] = c.strs[row]
		}
	default:
		r.num = make([]float64, len(rows))
		for i, row := range rows {
			r.num[i] = c.num[row]
		}
	}
	return r
}
