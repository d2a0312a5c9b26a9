package table

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// TimeLayout is the layout date-time values are serialised with.
const TimeLayout = "2006-01-02 15:04:05.999999999"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

func formatBool(v float64) string {
	if v != 0 {
		return "True"
	}
	return "False"
}

func formatFloat(kind Kind, v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	switch kind {
	case Int8, Int32, Int64:
		return strconv.FormatFloat(v, 'f', 0, 64)
	case Float32:
		return strconv.FormatFloat(v, 'g', -1, 32)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Encode writes the table as comma separated values with a header row.
// Missing values are written as empty fields.
func Encode(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	record := make([]string, t.Width())
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.columns {
			if c.Missing(i) {
				record[j] = ""
				continue
			}
			record[j] = c.String(i)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeOptions control how serialised columns are typed.
type DecodeOptions struct {
	// TimeColumns must be present and are parsed as date-times.
	TimeColumns []string
	// Kinds fixes the kind of a column rather than inferring it.
	Kinds map[string]Kind
}

// Decode reads a table written by Encode (or any CSV with a header row).
// Columns named in TimeColumns are parsed explicitly; a column which is absent
// or holds an unparseable value is a *SchemaError. Other columns are inferred
// as Int64, Float64, Bool, or String, in that order of preference.
func Decode(r io.Reader, opts DecodeOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Column: "*", Reason: "no header row"}
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	header = append([]string(nil), header...)

	values := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading record")
		}
		for i, v := range record {
			values[i] = append(values[i], v)
		}
	}

	times := make(map[string]bool, len(opts.TimeColumns))
	for _, name := range opts.TimeColumns {
		times[name] = true
	}
	present := make(map[string]bool, len(header))
	columns := make([]*Column, len(header))
	for i, name := range header {
		present[name] = true
		switch kind, ok := opts.Kinds[name]; {
		case times[name]:
			columns[i], err = parseTimes(name, values[i])
		case ok:
			columns[i], err = parseKind(name, kind, values[i])
		default:
			columns[i] = infer(name, values[i])
		}
		if err != nil {
			return nil, err
		}
	}
	for _, name := range opts.TimeColumns {
		if !present[name] {
			return nil, &SchemaError{Column: name, Reason: "date-time column is missing"}
		}
	}
	return New(columns...)
}

// ParseTime parses a serialised date-time. The serialised layout is tried
// first, then any other recognisable layout.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(TimeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return dateparse.ParseIn(s, time.UTC)
}

func parseTimes(name string, values []string) (*Column, error) {
	times := make([]time.Time, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if len(v) == 0 {
			continue
		}
		t, err := ParseTime(v)
		if err != nil {
			return nil, &SchemaError{Column: name, Row: i, Value: v, Reason: "unparseable date-time"}
		}
		times[i] = t
	}
	return NewTime(name, times), nil
}

func parseKind(name string, kind Kind, values []string) (*Column, error) {
	switch kind {
	case Time:
		return parseTimes(name, values)
	case String:
		return NewString(name, values), nil
	case Bool:
		b := make([]bool, len(values))
		for i, v := range values {
			var err error
			if b[i], err = strconv.ParseBool(v); err != nil {
				return nil, &SchemaError{Column: name, Row: i, Value: v, Reason: "not a boolean"}
			}
		}
		return NewBool(name, b), nil
	}
	num := make([]float64, len(values))
	for i, v := range values {
		if len(v) == 0 {
			num[i] = math.NaN()
			continue
		}
		var err error
		if num[i], err = strconv.ParseFloat(v, 64); err != nil {
			return nil, &SchemaError{Column: name, Row: i, Value: v, Reason: "not a number"}
		}
	}
	return NewNumeric(name, kind, num), nil
}

func infer(name string, values []string) *Column {
	if c, ok := inferNumeric(name, values); ok {
		return c
	}
	if c, ok := inferBool(name, values); ok {
		return c
	}
	return NewString(name, values)
}

func inferNumeric(name string, values []string) (*Column, bool) {
	kind := Int64
	num := make([]float64, len(values))
	for i, v := range values {
		if len(v) == 0 {
			num[i] = math.NaN()
			continue
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			num[i] = float64(n)
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		kind = Float64
		num[i] = f
	}
	if kind == Int64 {
		// A column of nothing but missing values cannot be integral.
		for _, v := range num {
			if !math.IsNaN(v) {
				return NewNumeric(name, Int64, num), true
			}
		}
		kind = Float64
	}
	return NewNumeric(name, kind, num), true
}

func inferBool(name string, values []string) (*Column, bool) {
	b := make([]bool, len(values))
	for i, v := range values {
		switch v {
		case "True", "true", "TRUE":
			b[i] = true
		case "False", "false", "FALSE":
		default:
			return nil, false
		}
	}
	return NewBool(name, b), true
}
