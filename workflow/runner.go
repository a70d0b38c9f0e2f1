// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/sirupsen/logrus"
)

// ReleaseTimeout bounds PageHandle.Close.
const ReleaseTimeout = 30 * time.Second

// DefaultAcquireTimeout bounds PageFactory.NewPage unless
// Runner.AcquireTimeout is set.
const DefaultAcquireTimeout = 2 * time.Minute

// Runner executes step sequences against pages created by Factory. A Runner
// may be shared by concurrent runs; each run owns its own page.
type Runner struct {
	Factory shared.PageFactory
	// Filler applies Fill steps. nil means a FacetFiller with defaults.
	Filler *FacetFiller
	// PollInterval is the wait-condition cadence and the retry backoff base.
	PollInterval time.Duration
	// RunTimeout bounds a whole run when positive.
	RunTimeout time.Duration
	// AcquireTimeout bounds page creation; zero means DefaultAcquireTimeout.
	AcquireTimeout time.Duration
	// Name labels reports.
	Name string
	// OnTransition, if set, observes every state change of every run.
	OnTransition func(runID string, from, to State, stepIndex int)
}

// NewRunner creates a Runner with default polling.
func NewRunner(factory shared.PageFactory) *Runner {
	return &Runner{Factory: factory, PollInterval: shared.DefaultPollInterval}
}

func (r *Runner) poll() time.Duration {
	if r.PollInterval <= 0 {
		return shared.DefaultPollInterval
	}
	return r.PollInterval
}

// Run executes steps in order and returns the report.
//
// Non-critical failures are recorded and the run continues. When a critical
// step fails, the remaining steps are recorded as Skipped and the step's
// *shared.RunnerError is returned alongside the report. An acquisition
// failure returns a RunnerError of kind AcquisitionFailed before any step
// runs; a run canceled before it has a page fails with Canceled instead.
// Whatever happens, a page that was handed out by the factory is
// closed exactly once before Run returns.
func (r *Runner) Run(ctx context.Context, steps []Step) (*Report, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}
	if r.Factory == nil {
		return nil, errors.New("runner has no page factory")
	}
	if r.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.RunTimeout)
		defer cancel()
	}

	x := &run{
		runner: r,
		steps:  steps,
		report: newReport(r.Name),
		state:  Idle,
	}
	x.log = shared.WithFields(shared.GetLogger(ctx), logrus.Fields{"run_id": x.report.RunID.String()})
	ctx = shared.WithLogger(ctx, x.log)
	return x.execute(ctx)
}

// run is the state of one execution of a step sequence.
type run struct {
	runner *Runner
	steps  []Step
	report *Report
	log    shared.Logger
	state  State

	failedFacets []string
}

func (r *Runner) acquireTimeout() time.Duration {
	if r.AcquireTimeout <= 0 {
		return DefaultAcquireTimeout
	}
	return r.AcquireTimeout
}

type acquired struct {
	page shared.PageHandle
	err  error
}

// acquire asks the factory for a page, giving up after the acquire timeout
// or when ctx ends. A page that arrives after giving up is closed.
func (x *run) acquire(ctx context.Context) (shared.PageHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acquiring page: %w", err)
	}
	timeout := x.runner.acquireTimeout()
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan acquired, 1)
	go func() {
		var a acquired
		defer func() {
			if p := recover(); p != nil {
				a.err = fmt.Errorf("panic while acquiring page: %v", p)
			}
			done <- a
		}()
		a.page, a.err = x.runner.Factory.NewPage(ctx)
	}()

	select {
	case a := <-done:
		return a.page, a.err
	case <-tctx.Done():
		log := x.log
		go func() {
			if a := <-done; a.page != nil {
				if err := a.page.Close(); err != nil {
					log.Warningf("Failed to close late page: %s", err.Error())
				}
			}
		}()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring page: %w", ctx.Err())
		}
		return nil, fmt.Errorf("acquiring page did not finish within %v", timeout)
	}
}

func (x *run) transition(to State, stepIndex int) {
	from := x.state
	x.state = to
	x.log.Debugf("%s -> %s (step %d)", from, to, stepIndex)
	if x.runner.OnTransition != nil {
		x.runner.OnTransition(x.report.RunID.String(), from, to, stepIndex)
	}
}

func (x *run) execute(ctx context.Context) (_ *Report, err error) {
	x.transition(Acquiring, -1)
	page, acqErr := x.acquire(ctx)

	defer func() {
		x.release(page)
		x.report.FinishedAt = time.Now()
		if err == nil {
			x.report.State = Completed
		} else {
			x.report.State = Aborted
		}
		x.transition(x.report.State, -1)
		x.log.Infof("%s", x.report.String())
	}()

	if acqErr != nil && ctx.Err() != nil {
		x.transition(Aborting, -1)
		x.skipFrom(0, "run canceled")
		return x.report, shared.NewRunnerError(shared.Canceled, -1, acqErr)
	}
	if acqErr != nil {
		x.log.Errorf("Failed to acquire page: %s", acqErr.Error())
		x.transition(Aborting, -1)
		x.skipFrom(0, "page acquisition failed")
		return x.report, shared.NewRunnerError(shared.AcquisitionFailed, -1, acqErr)
	}
	if page == nil {
		x.transition(Aborting, -1)
		x.skipFrom(0, "page acquisition failed")
		return x.report, shared.NewRunnerError(shared.AcquisitionFailed, -1, errors.New("factory returned no page"))
	}

	for i, step := range x.steps {
		if cerr := ctx.Err(); cerr != nil {
			x.transition(Aborting, i)
			x.skipFrom(i, "run canceled")
			return x.report, shared.NewRunnerError(shared.Canceled, i, cerr)
		}
		x.transition(Executing, i)
		res, stepErr := x.runStep(ctx, page, i, step)
		x.report.append(res)
		if res.Outcome == Passed {
			continue
		}
		if res.ErrorKind == shared.Canceled {
			x.transition(Aborting, i)
			x.skipFrom(i+1, "run canceled")
			return x.report, atStep(shared.Canceled, i, stepErr)
		}
		if step.Critical {
			x.log.Errorf("Critical step %d (%s) failed: %s", i, step.Label(), res.Message)
			x.transition(Aborting, i)
			x.skipFrom(i+1, fmt.Sprintf("aborted after critical step %d failed", i))
			return x.report, atStep(res.ErrorKind, i, stepErr)
		}
		x.log.Warningf("Step %d (%s) %s: %s", i, step.Label(), res.Outcome, res.Message)
	}
	return x.report, nil
}

// atStep places err at step i as a RunnerError of kind. An err that already
// is such a RunnerError is not wrapped again.
func atStep(kind shared.ErrorKind, i int, err error) *shared.RunnerError {
	if re, ok := err.(*shared.RunnerError); ok && re.Kind == kind {
		return shared.NewRunnerError(kind, i, re.Err)
	}
	return shared.NewRunnerError(kind, i, err)
}

// skipFrom records Skipped results for steps[from:].
func (x *run) skipFrom(from int, reason string) {
	for i := from; i < len(x.steps); i++ {
		x.report.append(Result{
			StepIndex: i,
			Kind:      x.steps[i].Kind,
			Label:     x.steps[i].Label(),
			Outcome:   Skipped,
			Message:   reason,
		})
	}
}

// release closes page. Close errors are logged and kept on the report
// without touching the run's outcome.
func (x *run) release(page shared.PageHandle) {
	x.transition(Releasing, -1)
	if page == nil {
		return
	}
	err := withTimeout(context.Background(), ReleaseTimeout, "closing page", page.Close)
	if err != nil {
		x.report.ReleaseError = shared.NewRunnerError(shared.ReleaseFailed, -1, err)
		x.log.Warningf("Failed to release page: %s", err.Error())
	}
}

func (x *run) runStep(ctx context.Context, page shared.PageHandle, i int, step Step) (Result, error) {
	stepLog := shared.WithFields(x.log, logrus.Fields{"step": i, "kind": step.Kind.String()})
	res := Result{StepIndex: i, Kind: step.Kind, Label: step.Label()}
	start := time.Now()
	x.failedFacets = nil

	attempts, err := retry(ctx, step.Retries, x.runner.poll(), func(attempt int) error {
		stepLog.Debugf("%s: attempt %d", step.Label(), attempt)
		return x.attempt(ctx, page, step)
	}, func(err error, next time.Duration) {
		stepLog.Infof("%s failed, retrying in %v: %s", step.Label(), next, err.Error())
	})
	res.Attempts = attempts
	res.Elapsed = time.Since(start)
	res.FailedFacets = x.failedFacets
	if err == nil {
		res.Outcome = Passed
		return res, nil
	}

	if cerr := ctx.Err(); cerr != nil && shared.KindOf(err) != shared.Canceled {
		err = shared.NewRunnerError(shared.Canceled, -1, fmt.Errorf("%v: %w", err, cerr))
	}
	res.ErrorKind = shared.KindOf(err)
	res.Message = err.Error()
	if res.ErrorKind == shared.TimedOut {
		res.Outcome = TimedOut
	} else {
		res.Outcome = Failed
	}
	return res, err
}

// attempt performs one try of step.
func (x *run) attempt(ctx context.Context, page shared.PageHandle, step Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in %s: %v", step.Label(), p)
		}
	}()

	switch step.Kind {
	case Navigate:
		return withTimeout(ctx, step.Timeout, "navigating to "+step.Target, func() error {
			if err := page.Navigate(step.Target); err != nil {
				return fmt.Errorf("navigating to %s: %w", step.Target, err)
			}
			return nil
		})

	case Click:
		return withTimeout(ctx, step.Timeout, "clicking "+step.Target, func() error {
			e, err := locate(page, step.Target)
			if err != nil {
				return err
			}
			if err := e.Click(); err != nil {
				return fmt.Errorf("clicking %s: %w", step.Target, err)
			}
			return nil
		})

	case Fill:
		filler := FacetFiller{}
		if x.runner.Filler != nil {
			filler = *x.runner.Filler
		}
		if filler.Timeout <= 0 {
			filler.Timeout = step.Timeout
		}
		out := filler.Fill(ctx, page, step.Facets)
		x.failedFacets = out.Failed()
		if out.OK() {
			return nil
		}
		kind := shared.ElementNotFound
		for _, r := range out.Results {
			if r.Err != nil {
				kind = shared.KindOf(r.Err)
				break
			}
		}
		return shared.NewRunnerError(kind, -1, fmt.Errorf("facets %v not filled: %w", out.Failed(), out.Err()))

	case WaitFor:
		cond := ElementPresent(step.Target)
		if step.Expected != "" {
			cond = TextEquals(step.Target, step.Expected)
		}
		outcome, elapsed, err := AwaitCondition(ctx, page, cond, step.Timeout, x.runner.poll())
		if err != nil {
			return shared.NewRunnerError(shared.Canceled, -1, err)
		}
		if outcome == WaitTimedOut {
			return shared.NewRunnerError(shared.TimedOut, -1, fmt.Errorf("%s not satisfied after %v (timeout %v)",
				cond.Description, elapsed.Round(time.Millisecond), step.Timeout))
		}
		return nil

	case Assert:
		textc := make(chan string, 1)
		err := withTimeout(ctx, step.Timeout, "reading "+step.Target, func() error {
			e, err := locate(page, step.Target)
			if err != nil {
				return err
			}
			text, err := e.TextContent()
			if err != nil {
				return fmt.Errorf("reading text of %s: %w", step.Target, err)
			}
			textc <- text
			return nil
		})
		if err != nil {
			return err
		}
		if outcome, msg := AssertEqual(<-textc, step.Expected, step.Label()); outcome != Passed {
			return assertionError(msg)
		}
		return nil
	}
	return fmt.Errorf("unknown step kind %v", step.Kind)
}
