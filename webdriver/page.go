// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/tebeka/selenium"
)

// Page is a shared.PageHandle backed by one WebDriver session.
type Page struct {
	wd      selenium.WebDriver
	service *selenium.Service
}

// orNil hides a page that holds nothing to release.
func (p *Page) orNil() shared.PageHandle {
	if p.wd == nil && p.service == nil {
		return nil
	}
	return p
}

// Navigate loads url in the session.
func (p *Page) Navigate(url string) error {
	if p.wd == nil {
		return errors.New("no webdriver session")
	}
	return p.wd.Get(url)
}

// Locate finds the first element matching selector. Selectors starting with
// "/" or "(" are XPath expressions; anything else is CSS.
func (p *Page) Locate(selector string) (shared.ElementHandle, error) {
	if p.wd == nil {
		return nil, errors.New("no webdriver session")
	}
	e, err := p.wd.FindElement(selectorBy(selector), selector)
	if err != nil {
		var serr *selenium.Error
		if errors.As(err, &serr) && serr.Err == "no such element" {
			return nil, fmt.Errorf("%s: %w", selector, shared.ErrElementNotFound)
		}
		return nil, err
	}
	return &element{wd: p.wd, e: e}, nil
}

// Close ends the session and stops the service, attempting both.
func (p *Page) Close() error {
	var errs []error
	if p.wd != nil {
		if err := p.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("quitting session: %w", err))
		}
	}
	if p.service != nil {
		if err := p.service.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping service: %w", err))
		}
	}
	return shared.NewMultiError(errs, "closing browser page")
}

func selectorBy(selector string) string {
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return selenium.ByXPATH
	}
	return selenium.ByCSSSelector
}

type element struct {
	wd selenium.WebDriver
	e  selenium.WebElement
}

func (e *element) Click() error {
	return e.e.Click()
}

func (e *element) Type(text string) error {
	return e.e.SendKeys(text)
}

func (e *element) PressKey(key shared.Key) error {
	code, ok := keyCodes[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	return e.e.SendKeys(code)
}

// TextContent reads the DOM textContent rather than the rendered text, so
// hidden descendants are included.
func (e *element) TextContent() (string, error) {
	v, err := e.wd.ExecuteScript("return arguments[0].textContent", []interface{}{e.e})
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("textContent is %T, not a string", v)
	}
	return s, nil
}

var keyCodes = map[shared.Key]string{
	shared.EnterKey:  selenium.EnterKey,
	shared.EscapeKey: selenium.EscapeKey,
	shared.TabKey:    selenium.TabKey,
}
