// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultFacetAttempts is how many times a single facet is tried.
	DefaultFacetAttempts = 3
	// DefaultFacetBackoff is the base of the linear backoff between tries.
	DefaultFacetBackoff = 100 * time.Millisecond
)

// IDSelector maps a facet key to the CSS selector of the input with that id,
// which is how MetaGrid names its facet inputs.
func IDSelector(key string) string {
	return "#" + key
}

// FacetFiller types facet values into their inputs. Facets are independent:
// one that cannot be filled does not stop the others.
type FacetFiller struct {
	// Attempts per facet; values below 1 mean DefaultFacetAttempts.
	Attempts int
	// Backoff is the linear backoff base between attempts.
	Backoff time.Duration
	// Timeout bounds a single attempt on one facet.
	Timeout time.Duration
	// SelectorFor derives the input selector from a facet key. Defaults to
	// IDSelector.
	SelectorFor func(key string) string
}

// FacetResult is the fill result of one facet.
type FacetResult struct {
	shared.Facet
	Selector string
	Attempts int
	Err      error
}

// OK reports whether the facet was filled.
func (r FacetResult) OK() bool {
	return r.Err == nil
}

// FillOutcome lists per-facet results in fill order.
type FillOutcome struct {
	Results []FacetResult
}

// OK reports whether every facet was filled.
func (o FillOutcome) OK() bool {
	return len(o.Failed()) == 0
}

// Succeeded returns the keys that were filled, in order.
func (o FillOutcome) Succeeded() []string {
	var keys []string
	for _, r := range o.Results {
		if r.OK() {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// Failed returns the keys that could not be filled, in order.
func (o FillOutcome) Failed() []string {
	var keys []string
	for _, r := range o.Results {
		if !r.OK() {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// Err returns a shared.MultiError of all facet failures, or nil.
func (o FillOutcome) Err() error {
	var errs []error
	for _, r := range o.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("facet %s: %w", r.Key, r.Err))
		}
	}
	return shared.NewMultiError(errs, "filling facets")
}

func (f *FacetFiller) attempts() int {
	if f == nil || f.Attempts < 1 {
		return DefaultFacetAttempts
	}
	return f.Attempts
}

func (f *FacetFiller) backoff() time.Duration {
	if f == nil || f.Backoff <= 0 {
		return DefaultFacetBackoff
	}
	return f.Backoff
}

func (f *FacetFiller) timeout() time.Duration {
	if f == nil || f.Timeout <= 0 {
		return DefaultStepTimeout
	}
	return f.Timeout
}

func (f *FacetFiller) selector(key string) string {
	if f == nil || f.SelectorFor == nil {
		return IDSelector(key)
	}
	return f.SelectorFor(key)
}

// Fill applies facets in order: locate the input, type the value, press
// Enter to commit it and Escape to close the suggestion overlay.
func (f *FacetFiller) Fill(ctx context.Context, page shared.PageHandle, facets *shared.FacetSpec) FillOutcome {
	log := shared.GetLogger(ctx)
	var out FillOutcome
	for _, facet := range facets.Entries() {
		res := FacetResult{Facet: facet, Selector: f.selector(facet.Key)}
		if err := ctx.Err(); err != nil {
			res.Err = shared.NewRunnerError(shared.Canceled, -1, err)
			out.Results = append(out.Results, res)
			continue
		}
		flog := shared.WithFields(log, logrus.Fields{"facet": facet.Key})
		res.Attempts, res.Err = retry(ctx, f.attempts()-1, f.backoff(), func(int) error {
			return withTimeout(ctx, f.timeout(), "filling "+facet.Key, func() error {
				return fillOne(page, res.Selector, facet.Value)
			})
		}, func(err error, next time.Duration) {
			flog.Debugf("Retrying facet %s in %v: %s", facet.Key, next, err.Error())
		})
		if res.Err != nil {
			flog.Warningf("Failed to fill facet %s=%s after %d attempt(s): %s",
				facet.Key, facet.Value, res.Attempts, res.Err.Error())
		}
		out.Results = append(out.Results, res)
	}
	return out
}

func fillOne(page shared.PageHandle, selector, value string) error {
	e, err := locate(page, selector)
	if err != nil {
		return err
	}
	if err := e.Type(value); err != nil {
		return fmt.Errorf("typing into %s: %w", selector, err)
	}
	if err := e.PressKey(shared.EnterKey); err != nil {
		return fmt.Errorf("committing %s: %w", selector, err)
	}
	if err := e.PressKey(shared.EscapeKey); err != nil {
		return fmt.Errorf("dismissing suggestions for %s: %w", selector, err)
	}
	return nil
}
