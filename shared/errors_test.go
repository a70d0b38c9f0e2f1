//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMultiError_non_empty(t *testing.T) {
	err := NewMultiError([]error{errors.New("test1"), nil, errors.New("test2")}, "testing")
	assert.Equal(t, "2 error(s) occurred when testing:\ntest1\ntest2", err.Error())
	multi, ok := err.(MultiError)
	assert.True(t, ok)
	assert.Equal(t, 2, multi.Count())
}

func TestNewMultiError_nil(t *testing.T) {
	// It is vital to pre-declare the type of err.
	var err error
	err = NewMultiError([]error{nil}, "testing")
	// Do NOT use assert.Nil: we use the `nil` literal intentionally here.
	// This is equivalent to `err == nil`. Since err is declared as error,
	// so we are comparing err against (error)(nil), which will fail if
	// NewMultiError incorrectly returns an empty MultiError.
	assert.Equal(t, nil, err)
}

func TestMultiError_unwrap(t *testing.T) {
	inner := NewRunnerError(ElementNotFound, 2, ErrElementNotFound)
	err := NewMultiError([]error{errors.New("other"), inner}, "filling facets")
	assert.True(t, errors.Is(err, ElementNotFound))
	assert.True(t, errors.Is(err, ErrElementNotFound))
}

func TestRunnerError(t *testing.T) {
	err := NewRunnerError(TimedOut, 3, context.DeadlineExceeded)
	assert.Equal(t, "TimedOut at step 3: context deadline exceeded", err.Error())
	assert.True(t, errors.Is(err, TimedOut))
	assert.False(t, errors.Is(err, AssertionMismatch))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	run := NewRunnerError(AcquisitionFailed, -1, errors.New("no session"))
	assert.Equal(t, "AcquisitionFailed: no session", run.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, NoError, KindOf(nil))
	assert.Equal(t, ActionFailed, KindOf(errors.New("boom")))
	assert.Equal(t, ElementNotFound, KindOf(fmt.Errorf("#x: %w", ErrElementNotFound)))
	assert.Equal(t, AssertionMismatch, KindOf(fmt.Errorf("wrapped: %w", NewRunnerError(AssertionMismatch, -1, nil))))
	assert.Equal(t, TimedOut, KindOf(TimedOut))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "ReleaseFailed", ReleaseFailed.String())
	assert.Equal(t, "ErrorKind(99)", ErrorKind(99).String())
	text, err := Canceled.MarshalText()
	assert.Nil(t, err)
	assert.Equal(t, "Canceled", string(text))
}
