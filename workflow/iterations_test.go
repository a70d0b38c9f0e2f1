//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/esgf/metagrid-probe/shared/sharedtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRunIterations_eachRunOwnsItsPage(t *testing.T) {
	var mu sync.Mutex
	var pages []*sharedtest.FakePage

	factory := shared.PageFactoryFunc(func(context.Context) (shared.PageHandle, error) {
		p := sharedtest.NewFakePage().WithElement("#ok", "", 0)
		mu.Lock()
		pages = append(pages, p)
		mu.Unlock()
		return p, nil
	})
	r := NewRunner(factory)

	reports, err := RunIterations(sharedtest.NewTestContext(), r, []Step{
		ClickOn("#ok"),
		AssertText("#ok", ""),
	}, IterationOptions{Iterations: 4, Concurrency: 2})
	require.Nil(t, err)
	require.Len(t, reports, 4)
	for _, report := range reports {
		require.NotNil(t, report)
		assert.True(t, report.Green())
	}
	require.Len(t, pages, 4)
	for _, p := range pages {
		assert.Equal(t, 1, p.CloseCount())
		assert.Equal(t, []string{"click #ok"}, p.Actions())
	}
}

func TestRunIterations_failuresAreIndependent(t *testing.T) {
	var calls int32
	factory := shared.PageFactoryFunc(func(context.Context) (shared.PageHandle, error) {
		if atomic.AddInt32(&calls, 1) == 2 {
			return nil, errors.New("browser pool exhausted")
		}
		return sharedtest.NewFakePage().WithElement("#ok", "", 0), nil
	})

	reports, err := RunIterations(sharedtest.NewTestContext(), NewRunner(factory),
		[]Step{ClickOn("#ok")}, IterationOptions{Iterations: 3})
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, shared.AcquisitionFailed))
	green := 0
	for _, report := range reports {
		if report.Green() {
			green++
		}
	}
	assert.Equal(t, 2, green)
}

func TestRunIterations_rateLimited(t *testing.T) {
	page := func(context.Context) (shared.PageHandle, error) {
		return sharedtest.NewFakePage().WithElement("#ok", "", 0), nil
	}
	start := time.Now()
	_, err := RunIterations(sharedtest.NewTestContext(), NewRunner(shared.PageFactoryFunc(page)),
		[]Step{ClickOn("#ok")}, IterationOptions{Iterations: 3, Concurrency: 3, Rate: rate.Limit(10)})
	require.Nil(t, err)
	// Burst of one, then one start every 100ms.
	assert.True(t, time.Since(start) >= 180*time.Millisecond)
}

func TestRunIterations_invalidOptions(t *testing.T) {
	_, err := RunIterations(sharedtest.NewTestContext(), NewRunner(nil), []Step{ClickOn("#ok")}, IterationOptions{})
	assert.NotNil(t, err)
}
