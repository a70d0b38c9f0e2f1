// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v3"
)

// LinearBackOff waits Interval * n before the n-th retry. It implements
// backoff.BackOff.
type LinearBackOff struct {
	Interval time.Duration
	// Max caps a single delay when positive.
	Max time.Duration

	attempt int
}

// NewLinearBackOff creates a LinearBackOff.
func NewLinearBackOff(interval time.Duration) *LinearBackOff {
	return &LinearBackOff{Interval: interval}
}

// NextBackOff returns the delay before the next retry.
func (b *LinearBackOff) NextBackOff() time.Duration {
	b.attempt++
	d := b.Interval * time.Duration(b.attempt)
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// Reset restarts the attempt count.
func (b *LinearBackOff) Reset() {
	b.attempt = 0
}

// retry runs op once plus up to retries more times, sleeping a linear
// backoff of interval * attempt between attempts. It stops early when op
// returns a backoff.Permanent error or ctx is done. onRetry, if set, is called
// before each sleep. The number of attempts made is returned with the last
// error.
func retry(
	ctx context.Context,
	retries int,
	interval time.Duration,
	op func(attempt int) error,
	onRetry func(err error, next time.Duration)) (int, error) {
	attempts := 0
	var b backoff.BackOff = &backoff.StopBackOff{}
	if retries > 0 {
		// WithMaxRetries treats 0 as unlimited.
		b = backoff.WithMaxRetries(NewLinearBackOff(interval), uint64(retries))
	}
	b = backoff.WithContext(b, ctx)
	err := backoff.RetryNotify(func() error {
		attempts++
		return op(attempts)
	}, b, onRetry)
	return attempts, err
}
