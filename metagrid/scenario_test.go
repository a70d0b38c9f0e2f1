//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metagrid

import (
	"strings"
	"testing"
	"time"

	"github.com/esgf/metagrid-probe/shared/sharedtest"
	"github.com/esgf/metagrid-probe/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSearchPage scripts a MetaGrid page whose facet panel appears after
// panelDelay and whose results appear after resultsDelay.
func newSearchPage(panelDelay, resultsDelay time.Duration) *sharedtest.FakePage {
	page := sharedtest.NewFakePage().
		WithElement(CloseSelector, "Close", 0).
		WithElement(SkipSelector, "", 0).
		WithElement(ProjectSelector, "", 0).
		WithElement(ExpandAllSelector, "Expand All", panelDelay).
		WithElement(ResultsRowSelector, "", resultsDelay).
		WithElement(CopySearchSelector, "Copy Search", resultsDelay).
		WithElement(TitleSelector, Title, 0)
	for _, key := range DefaultFacets().Keys() {
		page.WithElement(workflow.IDSelector(key), "", panelDelay)
	}
	return page
}

func newTestRunner(page *sharedtest.FakePage) *workflow.Runner {
	r := workflow.NewRunner(sharedtest.StaticFactory(page, nil))
	r.PollInterval = 10 * time.Millisecond
	r.Filler = &workflow.FacetFiller{Backoff: time.Millisecond}
	return r
}

func TestSearchSteps(t *testing.T) {
	steps := SearchSteps("https://esgf-node.ornl.gov/search", DefaultFacets())
	require.Nil(t, workflow.ValidateSteps(steps))
	assert.Equal(t, workflow.Navigate, steps[0].Kind)
	assert.Equal(t, workflow.Fill, steps[FillStepIndex].Kind)
	assert.Equal(t, workflow.WaitFor, steps[ResultsStepIndex].Kind)
	assert.Equal(t, ResultsRowSelector, steps[ResultsStepIndex].Target)
	assert.Equal(t, MaxWait, steps[ResultsStepIndex].Timeout)
	// Interstitials may legitimately be missing.
	assert.False(t, steps[1].Critical)
	assert.False(t, steps[2].Critical)
	assert.True(t, steps[3].Critical)
}

func TestSearchSteps_againstLoadingPage(t *testing.T) {
	page := newSearchPage(50*time.Millisecond, 150*time.Millisecond)
	report, err := newTestRunner(page).Run(sharedtest.NewTestContext(), SearchSteps("https://aims2.llnl.gov/search", DefaultFacets()))
	require.Nil(t, err)
	assert.True(t, report.Green(), report.String())
	assert.Equal(t, []string{"https://aims2.llnl.gov/search"}, page.Navigations())
	assert.Contains(t, page.Actions(), "type #variable_id gpp")

	d, err := SearchTime(report)
	require.Nil(t, err)
	assert.Greater(t, d, time.Duration(0))
	assert.Less(t, d, time.Second)
}

func TestSearchSteps_withoutInterstitials(t *testing.T) {
	page := newSearchPage(0, 0)
	page.WithElement(CloseSelector, "", time.Hour).WithElement(SkipSelector, "", time.Hour)

	report, err := newTestRunner(page).Run(sharedtest.NewTestContext(), SearchSteps("https://aims2.llnl.gov/search", DefaultFacets()))
	require.Nil(t, err)
	assert.False(t, report.Green())
	assert.Equal(t, workflow.Completed, report.State)
	assert.Equal(t, 2, report.Count(workflow.Failed))

	_, err = SearchTime(report)
	assert.Nil(t, err)
}

func TestSearchTime_failedSearch(t *testing.T) {
	page := newSearchPage(0, 0).WithElement(ProjectSelector, "", time.Hour)
	report, err := newTestRunner(page).Run(sharedtest.NewTestContext(), SearchSteps("https://aims2.llnl.gov/search", DefaultFacets()))
	assert.NotNil(t, err)
	_, err = SearchTime(report)
	assert.NotNil(t, err)
}

func TestLookupSite(t *testing.T) {
	site, err := LookupSite("ORNL")
	require.Nil(t, err)
	assert.Equal(t, "https://esgf-node.ornl.gov/search", site.URL)
	assert.True(t, site.Typical.Known())

	site, err = LookupSite("http://localhost:8080/search")
	require.Nil(t, err)
	assert.False(t, site.Typical.Known())

	_, err = LookupSite("anl")
	assert.NotNil(t, err)
}

func TestParseScenarios(t *testing.T) {
	scenarios, err := ParseScenarios(strings.NewReader(`
name: ornl-tas
site: ornl
facets:
  variable_id: tas
  source_id: CESM2
---
name: custom
site: https://aims2.llnl.gov/search
steps:
  - kind: Navigate
    target: https://aims2.llnl.gov/search
    critical: true
  - kind: Assert
    target: title
    expected: ESGF MetaGrid
`))
	require.Nil(t, err)
	require.Len(t, scenarios, 2)

	_, steps, err := scenarios[0].Resolve()
	require.Nil(t, err)
	assert.Equal(t, []string{"variable_id", "source_id"}, steps[FillStepIndex].Facets.Keys())

	site, steps, err := scenarios[1].Resolve()
	require.Nil(t, err)
	assert.Equal(t, "https://aims2.llnl.gov/search", site.URL)
	require.Len(t, steps, 2)
	assert.Equal(t, workflow.DefaultStepTimeout, steps[1].Timeout)
}

func TestParseScenarios_invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"no name":      "site: ornl\n",
		"unknown site": "name: x\nsite: nowhere\n",
		"duplicate":    "name: x\nsite: ornl\n---\nname: x\nsite: llnl\n",
		"bad step":     "name: x\nsite: ornl\nsteps:\n  - kind: Click\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenarios(strings.NewReader(doc))
			assert.NotNil(t, err)
		})
	}
}

func TestSelectScenarios(t *testing.T) {
	all := []Scenario{{Name: "ornl"}, {Name: "llnl"}, {Name: "ornl-tas"}}
	names := func(ss []Scenario) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.Name)
		}
		return out
	}

	selected, err := SelectScenarios(all, nil)
	require.Nil(t, err)
	assert.Len(t, selected, 3)

	selected, err = SelectScenarios(all, []string{"ornl*"})
	require.Nil(t, err)
	assert.Equal(t, []string{"ornl", "ornl-tas"}, names(selected))

	selected, err = SelectScenarios(all, []string{"*tas", "llnl", "ornl-*"})
	require.Nil(t, err)
	assert.Equal(t, []string{"llnl", "ornl-tas"}, names(selected))

	_, err = SelectScenarios(all, []string{"anl*"})
	assert.NotNil(t, err)
}
