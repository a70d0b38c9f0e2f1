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

// withTimeout runs fn, giving up after timeout or when ctx ends. Backends
// such as Selenium offer no cancellation, so fn keeps running in the
// background after a timeout and its result is discarded.
func withTimeout(ctx context.Context, timeout time.Duration, what string, fn func() error) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				errc <- fmt.Errorf("panic while %s: %v", what, p)
			}
		}()
		errc <- fn()
	}()

	select {
	case err := <-errc:
		return err
	case <-tctx.Done():
		if ctx.Err() != nil {
			return shared.NewRunnerError(shared.Canceled, -1, fmt.Errorf("%s: %w", what, ctx.Err()))
		}
		return shared.NewRunnerError(shared.TimedOut, -1, fmt.Errorf("%s did not finish within %v", what, timeout))
	}
}

// locate finds selector, wrapping misses so they classify as
// ElementNotFound.
func locate(page shared.PageHandle, selector string) (shared.ElementHandle, error) {
	e, err := page.Locate(selector)
	if err != nil {
		if shared.KindOf(err) == shared.ActionFailed {
			return nil, fmt.Errorf("locating %s: %v: %w", selector, err, shared.ErrElementNotFound)
		}
		return nil, fmt.Errorf("locating %s: %w", selector, err)
	}
	if e == nil {
		return nil, fmt.Errorf("locating %s: %w", selector, shared.ErrElementNotFound)
	}
	return e, nil
}
