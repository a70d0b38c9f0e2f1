//go:build tools

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package util

import (
	// Import all the tools we use in order to track the deps in go.mod as recommended by
	// https://github.com/golang/go/wiki/Modules#how-can-i-track-tool-dependencies-for-a-module
	_ "go.uber.org/mock/mockgen"
)
