package learning

import "fmt"

// NotFittedError is returned when a classifier is used before it is fitted.
type NotFittedError struct {
	Classifier string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s has not been fitted", e.Classifier)
}

// EmptyTrainingSetError is returned when fitting on zero rows.
type EmptyTrainingSetError struct {
	Classifier string
}

func (e *EmptyTrainingSetError) Error() string {
	return fmt.Sprintf("%s cannot be fitted on an empty training set", e.Classifier)
}

// LabelCardinalityError is returned when the training labels do not contain
// both classes.
type LabelCardinalityError struct {
	Classifier string
	Classes    int
}

func (e *LabelCardinalityError) Error() string {
	return fmt.Sprintf("%s requires two distinct labels, got %d", e.Classifier, e.Classes)
}

// ShapeError is returned when features and labels do not line up.
type ShapeError struct {
	Reason string
	Got    int
	Want   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: got %d, want %d", e.Reason, e.Got, e.Want)
}
