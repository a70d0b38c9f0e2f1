// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/esgf/metagrid-probe/shared"
)

// WaitOutcome is the result of AwaitCondition.
type WaitOutcome int

const (
	// Satisfied means the condition held before the timeout.
	Satisfied WaitOutcome = iota
	// WaitTimedOut means the timeout elapsed first.
	WaitTimedOut
)

func (o WaitOutcome) String() string {
	if o == Satisfied {
		return "Satisfied"
	}
	return "TimedOut"
}

// Condition is a predicate over the current page state. Check errors count
// as "not yet" since the element may not be attached to the page.
type Condition struct {
	Description string
	Check       func(page shared.PageHandle) (bool, error)
}

// ConditionFunc creates a Condition from a description and predicate.
func ConditionFunc(description string, check func(page shared.PageHandle) (bool, error)) Condition {
	return Condition{Description: description, Check: check}
}

// ElementPresent is satisfied once selector can be located.
func ElementPresent(selector string) Condition {
	return Condition{
		Description: fmt.Sprintf("element %s present", selector),
		Check: func(page shared.PageHandle) (bool, error) {
			e, err := page.Locate(selector)
			if err != nil {
				return false, err
			}
			return e != nil, nil
		},
	}
}

// TextEquals is satisfied once selector exists and its text content is
// exactly text.
func TextEquals(selector, text string) Condition {
	return Condition{
		Description: fmt.Sprintf("text of %s equals %q", selector, text),
		Check: func(page shared.PageHandle) (bool, error) {
			e, err := page.Locate(selector)
			if err != nil {
				return false, err
			}
			got, err := e.TextContent()
			if err != nil {
				return false, err
			}
			return got == text, nil
		},
	}
}

// AwaitCondition evaluates cond immediately and then every poll until it
// holds or timeout has elapsed. Each evaluation is bounded by the time left,
// so a backend call that hangs cannot hold the wait past timeout. It returns
// the outcome and the elapsed time. The returned error is non-nil only when
// ctx ends first; it then carries the last predicate error as context in the
// message, if any.
func AwaitCondition(
	ctx context.Context,
	page shared.PageHandle,
	cond Condition,
	timeout, poll time.Duration) (WaitOutcome, time.Duration, error) {
	if poll <= 0 {
		poll = shared.DefaultPollInterval
	}
	start := time.Now()

	var lastErr error
	for {
		remaining := timeout - time.Since(start)
		if remaining <= 0 {
			return WaitTimedOut, time.Since(start), nil
		}
		ok, err := check(ctx, page, cond, remaining)
		if err == nil && ok {
			return Satisfied, time.Since(start), nil
		}
		if err != nil && ctx.Err() == nil {
			lastErr = err
		}
		elapsed := time.Since(start)
		remaining = timeout - elapsed
		if remaining <= 0 {
			return WaitTimedOut, elapsed, nil
		}
		wait := poll
		if remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			if lastErr != nil {
				return WaitTimedOut, time.Since(start), fmt.Errorf("waiting for %s (last error: %v): %w", cond.Description, lastErr, ctx.Err())
			}
			return WaitTimedOut, time.Since(start), fmt.Errorf("waiting for %s: %w", cond.Description, ctx.Err())
		case <-timer.C:
		}
	}
}

// check evaluates cond once, giving up after timeout.
func check(ctx context.Context, page shared.PageHandle, cond Condition, timeout time.Duration) (bool, error) {
	okc := make(chan bool, 1)
	err := withTimeout(ctx, timeout, "checking "+cond.Description, func() error {
		ok, err := cond.Check(page)
		okc <- ok
		return err
	})
	if err != nil {
		return false, err
	}
	return <-okc, nil
}
