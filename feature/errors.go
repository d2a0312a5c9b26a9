package feature

import "fmt"

// ContractError is raised when a generator emits something other than its spec.
type ContractError struct {
	Generator string
	Column    string
	Reason    string
}

func (e *ContractError) Error() string {
	if len(e.Column) > 0 {
		return fmt.Sprintf("generator %s violated its spec for column %s: %s", e.Generator, e.Column, e.Reason)
	}
	return fmt.Sprintf("generator %s violated its spec: %s", e.Generator, e.Reason)
}

// DivisionByZeroError is raised when a value would be divided by zero, which
// means the data was not cleaned before features were generated.
type DivisionByZeroError struct {
	Generator string
	Column    string
	Row       int
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("generator %s divided by zero %s at row %d; was the data cleaned?", e.Generator, e.Column, e.Row)
}
