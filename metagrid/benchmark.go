// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metagrid

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/esgf/metagrid-probe/workflow"
)

// DefaultRepeat is the number of searches a benchmark averages over.
const DefaultRepeat = 3

// BenchmarkResult is the search time measured on a site.
type BenchmarkResult struct {
	Site     string             `json:"site"`
	Times    []time.Duration    `json:"times_ns"`
	Measured Timing             `json:"measured"`
	Typical  Timing             `json:"typical"`
	Reports  []*workflow.Report `json:"reports"`
}

// Deviation is the distance of the measured mean from the typical mean, in
// typical standard deviations. It is zero for a site without a typical
// timing.
func (b *BenchmarkResult) Deviation() float64 {
	if !b.Typical.Known() {
		return 0
	}
	return math.Abs(float64(b.Measured.Mean-b.Typical.Mean)) / float64(b.Typical.Std)
}

// Check fails when the measured mean is more than one standard deviation
// away from the typical mean.
func (b *BenchmarkResult) Check() error {
	if b.Deviation() > 1 {
		return fmt.Errorf("search times have significantly changed for %s, %s --> %s",
			b.Site, b.Typical, b.Measured)
	}
	return nil
}

func (b *BenchmarkResult) String() string {
	return fmt.Sprintf("%s  %s", b.Site, b.Measured)
}

// Benchmark runs the search on site repeat times, one after the other, and
// measures the search time of each. Every run must be green.
func Benchmark(ctx context.Context, r *workflow.Runner, site Site, facets *shared.FacetSpec, repeat int) (*BenchmarkResult, error) {
	if repeat < 1 {
		repeat = DefaultRepeat
	}
	if facets == nil {
		facets = DefaultFacets()
	}
	reports, err := workflow.RunIterations(ctx, r, SearchSteps(site.URL, facets), workflow.IterationOptions{
		Iterations:  repeat,
		Concurrency: 1,
	})
	result := &BenchmarkResult{Site: site.URL, Typical: site.Typical, Reports: reports}
	if err != nil {
		return result, err
	}

	for _, report := range reports {
		if !report.Green() {
			return result, fmt.Errorf("run %s is not green: %s", report.RunID, report)
		}
		d, err := SearchTime(report)
		if err != nil {
			return result, err
		}
		result.Times = append(result.Times, d)
	}
	result.Measured = summarize(result.Times)
	shared.GetLogger(ctx).Infof("%s", result)
	return result, nil
}

// summarize computes the mean and population standard deviation.
func summarize(times []time.Duration) Timing {
	if len(times) == 0 {
		return Timing{}
	}
	var sum float64
	for _, t := range times {
		sum += float64(t)
	}
	mean := sum / float64(len(times))
	var sq float64
	for _, t := range times {
		d := float64(t) - mean
		sq += d * d
	}
	return Timing{
		Mean: time.Duration(mean),
		Std:  time.Duration(math.Sqrt(sq / float64(len(times)))),
	}
}
