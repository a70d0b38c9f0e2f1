//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/esgf/metagrid-probe/shared/sharedtest"
	"github.com/stretchr/testify/assert"
)

func TestRetry_attemptsAreBounded(t *testing.T) {
	ctx, cancel := context.WithTimeout(sharedtest.NewTestContext(), 2*time.Second)
	defer cancel()
	alwaysFail := func(int) error { return errors.New("not yet") }

	for retries, want := range map[int]int{0: 1, 1: 2, 3: 4} {
		attempts, err := retry(ctx, retries, time.Millisecond, alwaysFail, nil)
		assert.NotNil(t, err)
		assert.Equal(t, want, attempts, "retries=%d", retries)
	}
	assert.Nil(t, ctx.Err())
}

func TestRetry_stopsOnSuccessAndPermanentErrors(t *testing.T) {
	ctx := sharedtest.NewTestContext()
	attempts, err := retry(ctx, 5, time.Millisecond, func(attempt int) error {
		if attempt < 2 {
			return errors.New("flaky")
		}
		return nil
	}, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, attempts)

	fatal := errors.New("fatal")
	attempts, err = retry(ctx, 5, time.Millisecond, func(int) error {
		return backoff.Permanent(fatal)
	}, nil)
	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, attempts)
}

func TestLinearBackOff(t *testing.T) {
	b := NewLinearBackOff(10 * time.Millisecond)
	b.Max = 25 * time.Millisecond
	assert.Equal(t, 10*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 20*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 25*time.Millisecond, b.NextBackOff())
	b.Reset()
	assert.Equal(t, 10*time.Millisecond, b.NextBackOff())
}
