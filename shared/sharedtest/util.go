// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package sharedtest

import (
	"context"

	"github.com/esgf/metagrid-probe/shared"
)

// NewTestContext creates a new context.Context for small tests.
func NewTestContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, shared.DefaultLoggerCtxKey(), shared.NewNilLogger())
	return ctx
}

// StaticFactory returns a PageFactory that hands out page and err on every
// call.
func StaticFactory(page shared.PageHandle, err error) shared.PageFactory {
	return shared.PageFactoryFunc(func(context.Context) (shared.PageHandle, error) {
		return page, err
	})
}
