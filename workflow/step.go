// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package workflow sequences scripted browser interactions against a
// shared.PageHandle: navigate, click, fill facets, wait for page state and
// assert, with per-step timeouts and retries.
package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"gopkg.in/yaml.v3"
)

// Kind is the type of work a Step performs.
type Kind int

const (
	// Navigate loads Step.Target as a URL.
	Navigate Kind = iota
	// Click clicks the element at Step.Target.
	Click
	// Fill applies Step.Facets with a FacetFiller.
	Fill
	// WaitFor blocks until Step.Target is present (or its text equals
	// Step.Expected).
	WaitFor
	// Assert compares the text content of Step.Target with Step.Expected.
	Assert
)

var kindNames = []string{"Navigate", "Click", "Fill", "WaitFor", "Assert"}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step kind %q", s)
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// DefaultStepTimeout is used by the step constructors.
const DefaultStepTimeout = 10 * time.Second

// Step is a single unit of work with its own timeout and retry policy. Steps
// are read-only once a run has started.
type Step struct {
	Kind Kind
	// Target is a URL for Navigate and an opaque selector for the others.
	Target string
	// Facets is required for Fill.
	Facets *shared.FacetSpec
	// Expected is the text Assert compares against. For WaitFor it turns the
	// presence check into a text check.
	Expected string
	// Timeout bounds each attempt. Must be positive.
	Timeout time.Duration
	// Retries is the number of additional attempts after the first.
	Retries int
	// Critical steps abort the rest of the run when they fail.
	Critical bool
	// Description labels the step in logs and reports.
	Description string
}

// Validate checks the step's invariants.
func (s Step) Validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("%s step: timeout must be positive, got %v", s.Kind, s.Timeout)
	}
	if s.Retries < 0 {
		return fmt.Errorf("%s step: retries must not be negative, got %d", s.Kind, s.Retries)
	}
	switch s.Kind {
	case Navigate, Click, WaitFor, Assert:
		if s.Target == "" {
			return fmt.Errorf("%s step: empty target", s.Kind)
		}
	case Fill:
		if s.Facets == nil {
			return fmt.Errorf("Fill step: no facets")
		}
	default:
		return fmt.Errorf("unknown step kind %v", s.Kind)
	}
	return nil
}

// Label returns the description, or a generated one.
func (s Step) Label() string {
	if s.Description != "" {
		return s.Description
	}
	if s.Kind == Fill {
		return fmt.Sprintf("Fill %s", s.Facets)
	}
	return fmt.Sprintf("%s %s", s.Kind, s.Target)
}

// ValidateSteps validates every step, joining all problems.
func ValidateSteps(steps []Step) error {
	var errs []error
	for i, s := range steps {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// NavigateTo creates a Navigate step.
func NavigateTo(url string) Step {
	return Step{Kind: Navigate, Target: url, Timeout: DefaultStepTimeout}
}

// ClickOn creates a Click step.
func ClickOn(selector string) Step {
	return Step{Kind: Click, Target: selector, Timeout: DefaultStepTimeout}
}

// FillFacets creates a Fill step.
func FillFacets(facets *shared.FacetSpec) Step {
	return Step{Kind: Fill, Facets: facets, Timeout: DefaultStepTimeout}
}

// WaitForElement creates a WaitFor step.
func WaitForElement(selector string, timeout time.Duration) Step {
	return Step{Kind: WaitFor, Target: selector, Timeout: timeout}
}

// AssertText creates an Assert step.
func AssertText(selector, expected string) Step {
	return Step{Kind: Assert, Target: selector, Expected: expected, Timeout: DefaultStepTimeout}
}

// WithRetries returns a copy of s with n retries.
func (s Step) WithRetries(n int) Step {
	s.Retries = n
	return s
}

// WithTimeout returns a copy of s with the given per-attempt timeout.
func (s Step) WithTimeout(d time.Duration) Step {
	s.Timeout = d
	return s
}

// AsCritical returns a copy of s marked critical.
func (s Step) AsCritical() Step {
	s.Critical = true
	return s
}

// Describe returns a copy of s with a description.
func (s Step) Describe(d string) Step {
	s.Description = d
	return s
}

// stepYAML is the file representation of a Step.
type stepYAML struct {
	Kind        Kind              `yaml:"kind"`
	Target      string            `yaml:"target,omitempty"`
	Facets      *shared.FacetSpec `yaml:"facets,omitempty"`
	Expected    string            `yaml:"expected,omitempty"`
	TimeoutMs   int64             `yaml:"timeout_ms,omitempty"`
	Retries     int               `yaml:"retries,omitempty"`
	Critical    bool              `yaml:"critical,omitempty"`
	Description string            `yaml:"description,omitempty"`
}

// UnmarshalYAML decodes a step; a missing timeout_ms means
// DefaultStepTimeout.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var raw stepYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = Step{
		Kind:        raw.Kind,
		Target:      raw.Target,
		Facets:      raw.Facets,
		Expected:    raw.Expected,
		Timeout:     time.Duration(raw.TimeoutMs) * time.Millisecond,
		Retries:     raw.Retries,
		Critical:    raw.Critical,
		Description: raw.Description,
	}
	if raw.TimeoutMs == 0 {
		s.Timeout = DefaultStepTimeout
	}
	return nil
}

// MarshalYAML encodes a step in its file representation.
func (s Step) MarshalYAML() (interface{}, error) {
	return stepYAML{
		Kind:        s.Kind,
		Target:      s.Target,
		Facets:      s.Facets,
		Expected:    s.Expected,
		TimeoutMs:   s.Timeout.Milliseconds(),
		Retries:     s.Retries,
		Critical:    s.Critical,
		Description: s.Description,
	}, nil
}
