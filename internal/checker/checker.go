// Package checker compares actual values against expectations and reports the
// outcome without failing the caller.
package checker

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/partisim/internal/particle"
)

// Result is the outcome of a single comparison.
type Result struct {
	OK       bool
	Label    string
	Actual   any
	Expected any
	Message  string
}

// Err returns nil for passing results and an ErrComparisonMismatch wrapper otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return fmt.Errorf("%w: %s", particle.ErrComparisonMismatch, r.Message)
}

// Check reports whether actual equals expected structurally. Values of different
// types compare unequal. It never panics.
func Check(actual, expected any, label string) Result {
	r := Result{Label: label, Actual: actual, Expected: expected}
	r.OK = equal(actual, expected)
	if !r.OK {
		r.Message = fmt.Sprintf("%s: got %v, want %v", label, actual, expected)
		if d := diff(expected, actual); d != "" {
			r.Message += "\n" + strings.TrimRight(d, "\n")
		}
	}
	return r
}

func equal(a, b any) (eq bool) {
	defer func() {
		// go-cmp panics on unexported fields it has no option for.
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return cmp.Equal(a, b)
}

func diff(want, got any) (d string) {
	defer func() {
		if recover() != nil {
			d = ""
		}
	}()
	return cmp.Diff(want, got)
}

// Checker binds an expected value and label for repeated checks.
type Checker struct {
	expected any
	label    string
}

func New(expected any, label string) *Checker {
	return &Checker{expected: expected, label: label}
}

func (c *Checker) Check(actual any) Result {
	return Check(actual, c.expected, c.label)
}

// Report writes one PASS/FAIL line per result and returns the number of failures.
func Report(w io.Writer, results ...Result) int {
	failed := 0
	for _, r := range results {
		if r.OK {
			fmt.Fprintf(w, "PASS  %s\n", r.Label)
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", r.Message)
	}
	return failed
}
