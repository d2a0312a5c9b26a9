// Package pipeline contains the values a tipster pipeline sends over its
// result channel.
package pipeline

import (
	"github.com/hscells/tipster/eval"
	"github.com/hscells/tipster/store"
)

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Artifact is a dataset written to the store.
	Artifact ResultType = iota
	// CrossValidation is the per-fold scores of a classifier.
	CrossValidation
	// Evaluation is an evaluation of held out predictions.
	Evaluation
	// Confusion is the confusion matrix of held out predictions.
	Confusion
	// Error indicates an error was raised.
	Error
	// Done indicates the pipeline has completed.
	Done
)

func (t ResultType) String() string {
	switch t {
	case Artifact:
		return "Artifact"
	case CrossValidation:
		return "CrossValidation"
	case Evaluation:
		return "Evaluation"
	case Confusion:
		return "Confusion"
	case Error:
		return "Error"
	case Done:
		return "Done"
	}
	return "Unknown"
}

// Result is the output of a tipster pipeline. Which fields are set depends on
// Type; Formatted holds the configured formatter outputs for it.
type Result struct {
	RunID       string
	Type        ResultType
	Stage       string
	Artifact    store.Artifact
	Scores      []float64
	Evaluations map[string]float64
	Confusion   eval.Matrix
	Formatted   []string
	Error       error
}
