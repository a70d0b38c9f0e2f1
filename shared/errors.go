// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a step or a run failed.
type ErrorKind int

const (
	// NoError is the zero kind, used by passing results.
	NoError ErrorKind = iota
	// AcquisitionFailed means no PageHandle could be created. Fatal.
	AcquisitionFailed
	// ElementNotFound means a selector resolved to no element after retries.
	ElementNotFound
	// TimedOut means a wait condition or an action exceeded its budget.
	TimedOut
	// AssertionMismatch means an expected/actual comparison failed.
	AssertionMismatch
	// ActionFailed means the backend returned an error for an action other
	// than locating an element, e.g. navigation.
	ActionFailed
	// ReleaseFailed means closing the PageHandle failed. Logged only.
	ReleaseFailed
	// Canceled means the run context was canceled or hit its deadline.
	Canceled
)

var errorKindNames = map[ErrorKind]string{
	NoError:           "",
	AcquisitionFailed: "AcquisitionFailed",
	ElementNotFound:   "ElementNotFound",
	TimedOut:          "TimedOut",
	AssertionMismatch: "AssertionMismatch",
	ActionFailed:      "ActionFailed",
	ReleaseFailed:     "ReleaseFailed",
	Canceled:          "Canceled",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText renders the kind by name, so reports stay readable.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error makes a bare ErrorKind usable as an errors.Is target, e.g.
// errors.Is(err, shared.ElementNotFound).
func (k ErrorKind) Error() string {
	return k.String()
}

// ErrElementNotFound is returned by PageHandle implementations when a
// selector matches nothing.
var ErrElementNotFound = errors.New("element not found")

// RunnerError is the error type surfaced by workflow runs.
type RunnerError struct {
	Kind ErrorKind
	// StepIndex is the index of the failing step, or -1 for run-level errors.
	StepIndex int
	Err       error
}

func (e *RunnerError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.StepIndex >= 0 {
		fmt.Fprintf(&b, " at step %d", e.StepIndex)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RunnerError) Unwrap() error {
	return e.Err
}

// Is matches a bare ErrorKind target against the error's kind.
func (e *RunnerError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// NewRunnerError creates a RunnerError.
func NewRunnerError(kind ErrorKind, stepIndex int, err error) *RunnerError {
	return &RunnerError{Kind: kind, StepIndex: stepIndex, Err: err}
}

// KindOf returns the ErrorKind carried by err, ElementNotFound for
// ErrElementNotFound, and ActionFailed for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return NoError
	}
	var re *RunnerError
	if errors.As(err, &re) {
		return re.Kind
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	if errors.Is(err, ErrElementNotFound) {
		return ElementNotFound
	}
	return ActionFailed
}

// MultiError is a convenient wrapper of multiple errors and is itself an
// implementation of the error interface.
type MultiError struct {
	errors []error
	when   string
}

// NewMultiError creates a MultiError from a slice of errors, ignoring nils.
// The "when" parameter will be included in the error string in a "when"
// clause. If no error remains, nil will be returned.
func NewMultiError(errs []error, when string) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	return MultiError{nonNil, when}
}

func (e MultiError) Error() string {
	if e.Count() == 0 {
		return ""
	}
	errStrs := make([]string, len(e.errors))
	for i, err := range e.errors {
		errStrs[i] = err.Error()
	}
	return fmt.Sprintf("%d error(s) occurred when %s:\n%s",
		len(e.errors), e.when, strings.Join(errStrs, "\n"))
}

// Count returns the number of errors in this MultiError.
func (e MultiError) Count() int {
	return len(e.errors)
}

// Errors returns the inner error slice of a MultiError.
func (e MultiError) Errors() []error {
	return e.errors
}

// Unwrap lets errors.Is and errors.As look through every inner error.
func (e MultiError) Unwrap() []error {
	return e.errors
}
