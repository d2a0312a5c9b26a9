package table

import "github.com/xtgo/set"

// Table is an ordered collection of equal length, uniquely named columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates a table from columns. All columns must be the same length and
// no two columns may share a name.
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, &LengthError{Column: c.Name(), Got: c.Len(), Want: t.rows}
		}
		if _, ok := t.index[c.Name()]; ok {
			return nil, &DuplicateColumnError{Column: c.Name()}
		}
		t.index[c.Name()] = i
	}
	return t, nil
}

// MustNew is like New but panics on error. It is intended for literals in tests.
func MustNew(columns ...*Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len is the number of rows.
func (t *Table) Len() int { return t.rows }

// Width is the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Names of the columns, in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Columns in order.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// Has reports whether the table has a column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &UnknownColumnError{Column: name}
	}
	return t.columns[i], nil
}

// Require checks the table has every named column, returning an
// *UnknownColumnError for the first one that is absent.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if !t.Has(name) {
			return &UnknownColumnError{Column: name}
		}
	}
	return nil
}

// Select projects the table onto the named columns, in the order given.
func (t *Table) Select(names ...string) (*Table, error) {
	columns := make([]*Column, len(names))
	for i, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}
	return New(columns...)
}

// Rename returns a table with columns renamed according to names (old to new).
func (t *Table) Rename(names map[string]string) (*Table, error) {
	columns := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		if name, ok := names[c.Name()]; ok {
			c = c.Rename(name)
		}
		columns[i] = c
	}
	return New(columns...)
}

// Filter returns the rows for which keep is true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var rows []int
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Take(rows)
}

// Take returns the given rows, in the order given.
func (t *Table) Take(rows []int) *Table {
	columns := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		columns[i] = c.take(rows)
	}
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return &Table{columns: columns, index: index, rows: len(rows)}
}

// Concat joins tables horizontally. Every table must have the same number of
// rows, and column names must be unique across all tables.
func Concat(tables ...*Table) (*Table, error) {
	var (
		columns []*Column
		names   []string
	)
	for _, t := range tables {
		columns = append(columns, t.columns...)
		names = append(names, t.Names()...)
	}
	if dup, ok := duplicate(names); ok {
		return nil, &DuplicateColumnError{Column: dup}
	}
	return New(columns...)
}

// duplicate finds a name occurring more than once.
func duplicate(names []string) (string, bool) {
	if len(set.Strings(append([]string(nil), names...))) == len(names) {
		return "", false
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			return name, true
		}
		seen[name] = struct{}{}
	}
	return "", false
}
