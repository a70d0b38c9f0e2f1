//go:build large

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"flag"
	"testing"
	"time"

	"github.com/esgf/metagrid-probe/metagrid"
	"github.com/esgf/metagrid-probe/shared"
	"github.com/esgf/metagrid-probe/shared/sharedtest"
	"github.com/esgf/metagrid-probe/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	browser      = flag.String("browser", "firefox", "Which browser to run the tests with")
	seleniumPath = flag.String("selenium_path", "", "Path to the selenium standalone binary")
	driverPath   = flag.String("driver_path", "", "Path to geckodriver or chromedriver")
	seleniumPort = flag.Int("selenium_port", 0, "Port to run selenium on; 0 picks a free one")
	remoteSite   = flag.String("remote_site", "", "Also run against this deployed MetaGrid, e.g. llnl")
)

func newTestFactory(t *testing.T) *PageFactory {
	cfg := shared.DefaultConfig().Browser
	cfg.Browser = *browser
	cfg.SeleniumPath = *seleniumPath
	cfg.DriverPath = *driverPath
	cfg.SeleniumPort = *seleniumPort
	f, err := NewPageFactory(cfg)
	require.Nil(t, err)
	return f
}

func TestMetaGridSearch_stub(t *testing.T) {
	app, err := NewStubAppServer(StubOptions{
		ProjectDelay: 300 * time.Millisecond,
		ResultsDelay: 1500 * time.Millisecond,
	})
	require.Nil(t, err)
	defer app.Close()

	r := workflow.NewRunner(newTestFactory(t))
	report, err := r.Run(sharedtest.NewTestContext(), metagrid.SearchSteps(app.GetWebappURL("/search"), metagrid.DefaultFacets()))
	require.Nil(t, err)
	assert.True(t, report.Green(), report.String())
	assert.Nil(t, report.ReleaseError)

	d, err := metagrid.SearchTime(report)
	require.Nil(t, err)
	assert.GreaterOrEqual(t, d, 1500*time.Millisecond)
}

func TestLocate_missingElement(t *testing.T) {
	app, err := NewStubAppServer(StubOptions{})
	require.Nil(t, err)
	defer app.Close()

	page, err := newTestFactory(t).NewPage(sharedtest.NewTestContext())
	require.Nil(t, err)
	defer page.Close()

	require.Nil(t, page.Navigate(app.GetWebappURL("/search")))
	_, err = page.Locate("//button/span[text()='Nope']")
	assert.ErrorIs(t, err, shared.ErrElementNotFound)

	title, err := page.Locate("title")
	require.Nil(t, err)
	text, err := title.TextContent()
	require.Nil(t, err)
	assert.Equal(t, metagrid.Title, text)
}

func TestMetaGridSearch_remote(t *testing.T) {
	if *remoteSite == "" {
		t.Skip("--remote_site not set")
	}
	site, err := metagrid.LookupSite(*remoteSite)
	require.Nil(t, err)

	result, err := metagrid.Benchmark(sharedtest.NewTestContext(), workflow.NewRunner(newTestFactory(t)), site, nil, 1)
	require.Nil(t, err)
	t.Log(result.String())
}
