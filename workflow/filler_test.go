//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/esgf/metagrid-probe/shared/sharedtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFill_partialFailurePreservesOrder(t *testing.T) {
	page := sharedtest.NewFakePage().
		WithElement("#a", "", 0).
		WithElement("#c", "", 0)
	facets := shared.MustFacetSpec("a", "1", "b", "2", "c", "3")

	filler := &FacetFiller{Backoff: time.Millisecond}
	out := filler.Fill(sharedtest.NewTestContext(), page, facets)

	require.Len(t, out.Results, 3)
	assert.Equal(t, []string{"a", "c"}, out.Succeeded())
	assert.Equal(t, []string{"b"}, out.Failed())
	assert.False(t, out.OK())
	assert.True(t, out.Results[0].OK())
	assert.False(t, out.Results[1].OK())
	assert.True(t, out.Results[2].OK())
	assert.Equal(t, DefaultFacetAttempts, out.Results[1].Attempts)
	assert.True(t, errors.Is(out.Results[1].Err, shared.ErrElementNotFound))

	assert.Equal(t, []string{
		"type #a 1", "press #a Enter", "press #a Escape",
		"type #c 3", "press #c Enter", "press #c Escape",
	}, page.Actions())

	err := out.Err()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "facet b")
	multi, ok := err.(shared.MultiError)
	require.True(t, ok)
	assert.Equal(t, 1, multi.Count())
}

func TestFill_allSucceed(t *testing.T) {
	page := sharedtest.NewFakePage().WithElement("#source_id", "", 0)
	out := (&FacetFiller{}).Fill(sharedtest.NewTestContext(), page, shared.MustFacetSpec("source_id", "CESM2"))
	assert.True(t, out.OK())
	assert.Nil(t, out.Err())
	assert.Equal(t, 1, out.Results[0].Attempts)
}

func TestFill_retriesUntilAttached(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	page := sharedtest.NewMockPageHandle(mockCtrl)
	elem := sharedtest.NewMockElementHandle(mockCtrl)
	gomock.InOrder(
		page.EXPECT().Locate("#variable_id").Return(nil, shared.ErrElementNotFound),
		page.EXPECT().Locate("#variable_id").Return(elem, nil),
		elem.EXPECT().Type("gpp").Return(nil),
		elem.EXPECT().PressKey(shared.EnterKey).Return(nil),
		elem.EXPECT().PressKey(shared.EscapeKey).Return(nil),
	)

	filler := &FacetFiller{Backoff: time.Millisecond}
	out := filler.Fill(sharedtest.NewTestContext(), page, shared.MustFacetSpec("variable_id", "gpp"))
	assert.True(t, out.OK())
	assert.Equal(t, 2, out.Results[0].Attempts)
}

func TestFill_customSelector(t *testing.T) {
	page := sharedtest.NewFakePage().WithElement("input[name=project]", "", 0)
	filler := &FacetFiller{SelectorFor: func(key string) string { return "input[name=" + key + "]" }}
	out := filler.Fill(sharedtest.NewTestContext(), page, shared.MustFacetSpec("project", "CMIP6"))
	assert.True(t, out.OK())
	assert.Equal(t, "input[name=project]", out.Results[0].Selector)
}

func TestFill_singleAttempt(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	page := sharedtest.NewMockPageHandle(mockCtrl)
	page.EXPECT().Locate("#variable_id").Return(nil, shared.ErrElementNotFound).Times(1)

	filler := &FacetFiller{Attempts: 1, Backoff: time.Millisecond}
	out := filler.Fill(sharedtest.NewTestContext(), page, shared.MustFacetSpec("variable_id", "gpp"))
	assert.False(t, out.OK())
	assert.Equal(t, 1, out.Results[0].Attempts)
	assert.Equal(t, []string{"variable_id"}, out.Failed())
}
