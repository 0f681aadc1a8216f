package demo

import (
	"fmt"
	"io"
)

// Runner executes an ordered list of steps against a single output sink.
// Execution is strictly sequential: output ordering is exactly program
// order, and the first step error aborts the run.
type Runner struct {
	steps []Step
}

// NewRunner creates a Runner over the given steps, executed in order.
func NewRunner(steps ...Step) *Runner {
	return &Runner{steps: steps}
}

// Steps returns the runner's step list in execution order.
func (r *Runner) Steps() []Step {
	return r.steps
}

// Run executes every step in order, writing to w. It stops at the first
// failing step and wraps the error with the step's position and name.
func (r *Runner) Run(w io.Writer) error {
	for i, step := range r.steps {
		if err := step.Run(w); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Name(), err)
		}
	}
	return nil
}

// DefaultProgram returns the fixed demonstration sequence:
// a greeting, iteration over [1,2,3,4,5], a map lookup, an addition via a
// function value, a counted loop over [0,5), and a squaring via a function
// value. Running it produces exactly fourteen lines.
func DefaultProgram() *Runner {
	return NewRunner(
		TextStep{Text: "Hello, world!"},
		SequenceStep{Values: []int{1, 2, 3, 4, 5}},
		LookupStep{
			Entries: map[string]int{"key1": 10, "key2": 20},
			Key:     "key1",
		},
		BinaryOpStep{Fn: Add, A: 10, B: 20},
		CountStep{Start: 0, End: 5},
		UnaryOpStep{Fn: Square, X: 5},
	)
}
