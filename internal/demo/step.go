// Package demo implements the built-in demonstration program: a fixed,
// ordered sequence of independent steps that each write line-oriented
// output to a single sink. The default program exercises the core language
// features the scratch file covered (literal output, sequence iteration,
// map lookup, function values, counted loops) and its output is stable
// byte for byte.
package demo

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Step is one self-contained demonstration unit. Steps only communicate
// through the output sink; no step reads another step's result.
type Step interface {
	// Name identifies the step in logs and error messages.
	Name() string

	// Run writes the step's output to w, one value per line.
	Run(w io.Writer) error
}

// TextStep writes a single literal line.
type TextStep struct {
	Text string
}

func (s TextStep) Name() string { return "text" }

func (s TextStep) Run(w io.Writer) error {
	_, err := fmt.Fprintln(w, s.Text)
	return err
}

// SequenceStep writes each element of a fixed integer sequence on its own
// line, in ascending index order. The sequence is never mutated.
type SequenceStep struct {
	Values []int
}

func (s SequenceStep) Name() string { return "sequence" }

func (s SequenceStep) Run(w io.Writer) error {
	for _, v := range s.Values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ErrKeyNotFound is returned by LookupStep when the requested key is not
// present in the mapping. Absent keys fail loudly; the silent zero-value
// insertion some container libraries default to is not reproduced here.
var ErrKeyNotFound = errors.New("key not found")

// LookupStep looks up a single key in a string-to-int mapping and writes
// the mapped value.
type LookupStep struct {
	Entries map[string]int
	Key     string
}

func (s LookupStep) Name() string { return "lookup" }

func (s LookupStep) Run(w io.Writer) error {
	v, ok := s.Entries[s.Key]
	if !ok {
		return fmt.Errorf("lookup %q: %w (known keys: %v)", s.Key, ErrKeyNotFound, sortedKeys(s.Entries))
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BinaryOpStep invokes a two-argument integer function value and writes
// the result.
type BinaryOpStep struct {
	Fn   func(a, b int) int
	A, B int
}

func (s BinaryOpStep) Name() string { return "binary_op" }

func (s BinaryOpStep) Run(w io.Writer) error {
	if s.Fn == nil {
		return fmt.Errorf("binary_op: no function bound")
	}
	_, err := fmt.Fprintln(w, s.Fn(s.A, s.B))
	return err
}

// UnaryOpStep invokes a one-argument integer function value and writes
// the result.
type UnaryOpStep struct {
	Fn func(x int) int
	X  int
}

func (s UnaryOpStep) Name() string { return "unary_op" }

func (s UnaryOpStep) Run(w io.Writer) error {
	if s.Fn == nil {
		return fmt.Errorf("unary_op: no function bound")
	}
	_, err := fmt.Fprintln(w, s.Fn(s.X))
	return err
}

// CountStep runs a counted loop over the half-open range [Start, End),
// writing each counter value on its own line. An empty or inverted range
// writes nothing.
type CountStep struct {
	Start, End int
}

func (s CountStep) Name() string { return "count" }

func (s CountStep) Run(w io.Writer) error {
	for i := s.Start; i < s.End; i++ {
		if _, err := fmt.Fprintln(w, i); err != nil {
			return err
		}
	}
	return nil
}

// Add returns the sum of two integers. Pure, captures no state.
func Add(a, b int) int { return a + b }

// Square returns x multiplied by itself. Pure, captures no state.
func Square(x int) int { return x * x }
