package feature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hscells/tipster/table"
	"github.com/xtgo/set"
)

// Field is one named, typed output column of a generator.
type Field struct {
	Name string
	Kind table.Kind
}

// Spec is the exact set of columns a generator emits, in the order it emits them.
type Spec []Field

// Names of the fields, in order.
func (s Spec) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Kind of the named field.
func (s Spec) Kind(name string) (table.Kind, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Kind, true
		}
	}
	return 0, false
}

// Check that t has exactly the columns of s, in order, with matching kinds.
func (s Spec) Check(generator string, t *table.Table) error {
	want := set.Strings(s.Names())
	got := set.Strings(t.Names())
	data := sort.StringSlice(append(append([]string(nil), want...), got...))
	if n := set.SymDiff(data, len(want)); n > 0 {
		diff := append([]string(nil), data[:n]...)
		sort.Strings(diff)
		return &ContractError{Generator: generator, Reason: fmt.Sprintf("output columns differ from spec: %s", strings.Join(diff, ", "))}
	}
	for i, name := range t.Names() {
		if name != s[i].Name {
			return &ContractError{Generator: generator, Column: name, Reason: fmt.Sprintf("emitted at position %d, spec has %s", i, s[i].Name)}
		}
	}
	for _, f := range s {
		c, err := t.Column(f.Name)
		if err != nil {
			return err
		}
		if c.Kind() != f.Kind {
			return &ContractError{Generator: generator, Column: f.Name, Reason: fmt.Sprintf("emitted %s, spec is %s", c.Kind(), f.Kind)}
		}
	}
	return nil
}
