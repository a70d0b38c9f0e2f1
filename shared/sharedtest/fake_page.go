// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package sharedtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/esgf/metagrid-probe/shared"
)

// FakePage is a scripted in-memory PageHandle. Elements can be configured to
// appear only some time after the last navigation, which simulates a page
// that is still loading. All methods are safe for concurrent use.
type FakePage struct {
	mu         sync.Mutex
	elements   map[string]*fakeElement
	loadedAt   time.Time
	navigated  []string
	actions    []string
	closes     int
	closeErr   error
	navigateFn func(url string) error
}

type fakeElement struct {
	page       *FakePage
	selector   string
	text       string
	readyAfter time.Duration
}

// NewFakePage creates an empty FakePage.
func NewFakePage() *FakePage {
	return &FakePage{elements: map[string]*fakeElement{}}
}

// WithElement registers an element that is locatable readyAfter the last
// navigation. A zero readyAfter makes it locatable even before navigating.
func (p *FakePage) WithElement(selector, text string, readyAfter time.Duration) *FakePage {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = &fakeElement{page: p, selector: selector, text: text, readyAfter: readyAfter}
	return p
}

// WithCloseError makes Close return err.
func (p *FakePage) WithCloseError(err error) *FakePage {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeErr = err
	return p
}

// WithNavigate replaces the navigation behaviour, e.g. to fail or block.
func (p *FakePage) WithNavigate(fn func(url string) error) *FakePage {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigateFn = fn
	return p
}

// Navigate records url and restarts the simulated load clock.
func (p *FakePage) Navigate(url string) error {
	p.mu.Lock()
	fn := p.navigateFn
	p.mu.Unlock()
	if fn != nil {
		if err := fn(url); err != nil {
			return err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = append(p.navigated, url)
	p.loadedAt = time.Now()
	return nil
}

// Locate returns the element registered for selector once it is ready.
func (p *FakePage) Locate(selector string) (shared.ElementHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.elements[selector]
	if !ok || !p.readyLocked(e) {
		return nil, fmt.Errorf("%s: %w", selector, shared.ErrElementNotFound)
	}
	return e, nil
}

func (p *FakePage) readyLocked(e *fakeElement) bool {
	if e.readyAfter <= 0 {
		return true
	}
	return !p.loadedAt.IsZero() && time.Since(p.loadedAt) >= e.readyAfter
}

// Close counts the call and returns the configured close error.
func (p *FakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return p.closeErr
}

// CloseCount returns how many times Close was called.
func (p *FakePage) CloseCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}

// Navigations returns the URLs navigated to, in order.
func (p *FakePage) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigated...)
}

// Actions returns a log of element interactions such as
// "type #source_id CESM2" or "press #source_id Enter".
func (p *FakePage) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

func (p *FakePage) record(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, fmt.Sprintf(format, args...))
}

func (e *fakeElement) Click() error {
	e.page.record("click %s", e.selector)
	return nil
}

func (e *fakeElement) Type(text string) error {
	e.page.record("type %s %s", e.selector, text)
	return nil
}

func (e *fakeElement) PressKey(key shared.Key) error {
	e.page.record("press %s %s", e.selector, key)
	return nil
}

func (e *fakeElement) TextContent() (string, error) {
	return e.text, nil
}
