// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/esgf/metagrid-probe/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// IterationOptions configures RunIterations.
type IterationOptions struct {
	// Iterations is the total number of runs.
	Iterations int
	// Concurrency caps simultaneous runs; values below 1 mean 1.
	Concurrency int
	// Rate caps how many runs start per second; zero means no cap.
	Rate rate.Limit
}

// RunIterations executes steps Iterations times with up to Concurrency runs
// in flight. Runs are independent: each acquires its own page, and a failing
// run does not stop the others. Reports are returned in iteration order; the
// entry of a run that failed validation is nil. The error aggregates every
// run error.
func RunIterations(ctx context.Context, r *Runner, steps []Step, opts IterationOptions) ([]*Report, error) {
	if opts.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", opts.Iterations)
	}
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(opts.Rate, 1)
	}

	log := shared.GetLogger(ctx)
	reports := make([]*Report, opts.Iterations)
	var mu sync.Mutex
	var errs []error

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i := 0; i < opts.Iterations; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("iteration %d not started: %w", i, err))
				mu.Unlock()
				break
			}
		}
		g.Go(func() error {
			report, err := r.Run(ctx, steps)
			reports[i] = report
			if err != nil {
				log.Warningf("Iteration %d failed: %s", i, err.Error())
				mu.Lock()
				errs = append(errs, fmt.Errorf("iteration %d: %w", i, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return reports, shared.NewMultiError(errs, "running iterations")
}
