package table

import "fmt"

// SchemaError is raised when a value cannot be read as the type its column
// must have, or a required column is absent from serialised data.
type SchemaError struct {
	Column string
	Row    int
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	if len(e.Value) > 0 {
		return fmt.Sprintf("schema error in column %s at row %d (value %q): %s", e.Column, e.Row, e.Value, e.Reason)
	}
	return fmt.Sprintf("schema error in column %s: %s", e.Column, e.Reason)
}

// UnknownColumnError is raised when a column is referenced that a table does not have.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %s", e.Column)
}

// DuplicateColumnError is raised when two columns of a table share a name.
type DuplicateColumnError struct {
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %s", e.Column)
}

// LengthError is raised when columns of a table differ in length.
type LengthError struct {
	Column    string
	Got, Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("column %s has %d rows, expected %d", e.Column, e.Got, e.Want)
}
