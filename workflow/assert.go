// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package workflow

import (
	"errors"
	"fmt"

	"github.com/esgf/metagrid-probe/shared"
)

// AssertEqual compares actual with expected exactly (case-sensitive, no
// trimming). It returns Passed, or Failed with a message naming label.
func AssertEqual(actual, expected, label string) (Outcome, string) {
	if actual == expected {
		return Passed, ""
	}
	return Failed, fmt.Sprintf("%s: expected %q, got %q", label, expected, actual)
}

// assertionError converts a failed assertion into a classified error.
func assertionError(msg string) error {
	return shared.NewRunnerError(shared.AssertionMismatch, -1, errors.New(msg))
}
