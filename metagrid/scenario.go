// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metagrid

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/esgf/metagrid-probe/shared"
	"github.com/esgf/metagrid-probe/workflow"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Selectors of the MetaGrid search page.
const (
	CloseSelector      = "//button/span[text()='Close']"
	SkipSelector       = "//button[@title='Skip']"
	ProjectSelector    = "//button/span[@class='anticon anticon-select']"
	ExpandAllSelector  = "//button/span[text()='Expand All']"
	ResultsRowSelector = "//tr[@class='ant-table-row ant-table-row-level-0']"
	CopySearchSelector = "//button/span[text()='Copy Search']"
	TitleSelector      = "title"
)

// Title is the document title of every MetaGrid deployment.
const Title = "ESGF MetaGrid"

// MaxWait bounds the waits for server-backed page updates.
const MaxWait = 60 * time.Second

// Positions of the timed steps in SearchSteps.
const (
	FillStepIndex    = 6
	ResultsStepIndex = 7
)

// SearchSteps is the MetaGrid search workflow: open the page, dismiss the
// welcome interstitials, pick the CMIP6 project, expand the facet panel,
// enter facets, and wait for a row of results.
func SearchSteps(siteURL string, facets *shared.FacetSpec) []workflow.Step {
	return []workflow.Step{
		workflow.NavigateTo(siteURL).AsCritical().Describe("Open search page"),
		// The interstitials are absent for returning visitors.
		workflow.ClickOn(CloseSelector).WithRetries(2).Describe("Dismiss welcome"),
		workflow.ClickOn(SkipSelector).WithRetries(2).Describe("Skip tour"),
		workflow.ClickOn(ProjectSelector).WithRetries(4).AsCritical().Describe("Select CMIP6 project"),
		workflow.WaitForElement(ExpandAllSelector, MaxWait).AsCritical().Describe("Wait for facet panel"),
		workflow.ClickOn(ExpandAllSelector).AsCritical().Describe("Expand all facets"),
		workflow.FillFacets(facets).WithTimeout(MaxWait).AsCritical(),
		workflow.WaitForElement(ResultsRowSelector, MaxWait).AsCritical().Describe("Wait for results"),
		workflow.WaitForElement(CopySearchSelector, workflow.DefaultStepTimeout).Describe("Wait for Copy Search"),
		workflow.AssertText(TitleSelector, Title).Describe("Check title"),
	}
}

// SearchTime is the time from the start of facet entry until a row of
// results appeared, for a report of SearchSteps.
func SearchTime(r *workflow.Report) (time.Duration, error) {
	for _, i := range []int{FillStepIndex, ResultsStepIndex} {
		res, ok := r.Result(i)
		if !ok {
			return 0, fmt.Errorf("report %s has no step %d", r.RunID, i)
		}
		if res.Outcome != workflow.Passed {
			return 0, fmt.Errorf("report %s: %q %s", r.RunID, res.Label, res.Outcome)
		}
	}
	return r.ElapsedOf(FillStepIndex, ResultsStepIndex), nil
}

// Scenario is a named workflow. When Steps is empty the MetaGrid search is
// run against Site with Facets, or DefaultFacets.
type Scenario struct {
	Name   string            `yaml:"name"`
	Site   string            `yaml:"site"`
	Facets *shared.FacetSpec `yaml:"facets,omitempty"`
	Steps  []workflow.Step   `yaml:"steps,omitempty"`
}

// Resolve returns the steps to run and the site they target.
func (s Scenario) Resolve() (Site, []workflow.Step, error) {
	site, err := LookupSite(s.Site)
	if err != nil {
		return Site{}, nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	steps := s.Steps
	if len(steps) == 0 {
		facets := s.Facets
		if facets == nil {
			facets = DefaultFacets()
		}
		steps = SearchSteps(site.URL, facets)
	}
	if err := workflow.ValidateSteps(steps); err != nil {
		return Site{}, nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return site, steps, nil
}

// BuiltinScenarios is the default search on every known site, named after
// the site.
func BuiltinScenarios() []Scenario {
	scenarios := make([]Scenario, 0, len(KnownSites))
	for _, site := range KnownSites {
		scenarios = append(scenarios, Scenario{Name: site.Name, Site: site.Name})
	}
	return scenarios
}

// ParseScenarios decodes a stream of YAML documents, one scenario each.
func ParseScenarios(r io.Reader) ([]Scenario, error) {
	var scenarios []Scenario
	names := mapset.NewThreadUnsafeSet()
	dec := yaml.NewDecoder(r)
	for {
		var s Scenario
		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d has no name", len(scenarios))
		}
		if !names.Add(s.Name) {
			return nil, fmt.Errorf("duplicate scenario %q", s.Name)
		}
		if _, _, err := s.Resolve(); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// LoadScenarios reads scenarios from a YAML file.
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	scenarios, err := ParseScenarios(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return scenarios, nil
}

// SelectScenarios keeps the scenarios whose name matches any of the glob
// patterns, in their original order. No patterns selects everything; a
// pattern matching nothing is an error.
func SelectScenarios(all []Scenario, patterns []string) ([]Scenario, error) {
	if len(patterns) == 0 {
		return all, nil
	}
	globs := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario pattern %q: %w", p, err)
		}
		globs[i] = g
	}

	used := mapset.NewThreadUnsafeSet()
	var selected []Scenario
	for _, s := range all {
		matched := false
		for i, g := range globs {
			if g.Match(s.Name) {
				used.Add(patterns[i])
				matched = true
			}
		}
		if matched {
			selected = append(selected, s)
		}
	}
	for _, p := range patterns {
		if !used.Contains(p) {
			return nil, fmt.Errorf("no scenario matches %q", p)
		}
	}
	return selected, nil
}
