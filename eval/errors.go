package eval

import "fmt"

// FoldError is returned when labels cannot be split as requested.
type FoldError struct {
	Splits int
	Reason string
}

func (e *FoldError) Error() string {
	return fmt.Sprintf("cannot split into %d folds: %s", e.Splits, e.Reason)
}

// LengthError is returned when true and predicted labels differ in length.
type LengthError struct {
	True, Pred int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%d true labels but %d predicted labels", e.True, e.Pred)
}
