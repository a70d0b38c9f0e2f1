// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:generate mockgen -destination sharedtest/page_mock.go -package sharedtest github.com/esgf/metagrid-probe/shared PageHandle,ElementHandle,PageFactory

package shared

import "context"

// Key is a named keyboard key that can be sent to an element.
type Key string

const (
	// EnterKey commits a typed facet value.
	EnterKey Key = "Enter"
	// EscapeKey dismisses a suggestion overlay.
	EscapeKey Key = "Escape"
	// TabKey moves focus to the next field.
	TabKey Key = "Tab"
)

// PageHandle is one browser tab/page session. Selector expressions are
// opaque strings (XPath or CSS) interpreted by the backend.
type PageHandle interface {
	// Navigate loads url and returns once the backend considers it loaded.
	Navigate(url string) error
	// Locate returns the first element matching selector, or an error
	// wrapping ErrElementNotFound.
	Locate(selector string) (ElementHandle, error)
	// Close releases the page and any backend resources behind it.
	Close() error
}

// ElementHandle is an element located on a PageHandle.
type ElementHandle interface {
	Click() error
	Type(text string) error
	PressKey(key Key) error
	TextContent() (string, error)
}

// PageFactory creates PageHandles. A factory may return a non-nil page
// together with an error when setup failed half-way; callers must still close
// that page.
type PageFactory interface {
	NewPage(ctx context.Context) (PageHandle, error)
}

// PageFactoryFunc adapts a function to the PageFactory interface.
type PageFactoryFunc func(ctx context.Context) (PageHandle, error)

// NewPage calls f(ctx).
func (f PageFactoryFunc) NewPage(ctx context.Context) (PageHandle, error) {
	return f(ctx)
}
