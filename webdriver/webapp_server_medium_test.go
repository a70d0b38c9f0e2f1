//go:build medium

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubAppServer(t *testing.T) {
	app, err := NewStubAppServer(StubOptions{ResultsDelay: 1500 * time.Millisecond})
	require.Nil(t, err)
	defer app.Close()

	// The root redirects to the search page.
	res, err := http.Get(app.GetWebappURL("/"))
	require.Nil(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/search", res.Request.URL.Path)

	body, err := io.ReadAll(res.Body)
	require.Nil(t, err)
	page := string(body)
	assert.Contains(t, page, "<title>ESGF MetaGrid</title>")
	assert.Contains(t, page, "<span>Close</span>")
	assert.Contains(t, page, `title="Skip"`)
	assert.Contains(t, page, `class="anticon anticon-select"`)
	assert.Contains(t, page, "ant-table-row ant-table-row-level-0")
	assert.Regexp(t, `var resultsDelay = \s*1500\s*;`, page)
}

func TestStubAppServer_title(t *testing.T) {
	app, err := NewStubAppServer(StubOptions{Title: "Maintenance <b>"})
	require.Nil(t, err)
	defer app.Close()

	res, err := http.Get(app.GetWebappURL("/search"))
	require.Nil(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.Nil(t, err)
	assert.Contains(t, string(body), "<title>Maintenance &lt;b&gt;</title>")
}

func TestRemoteAppServer(t *testing.T) {
	app := NewRemoteAppServer("https://esgf-node.ornl.gov/")
	assert.Equal(t, "https://esgf-node.ornl.gov/search", app.GetWebappURL("/search"))
	assert.Nil(t, app.Close())
}
