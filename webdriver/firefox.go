// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"fmt"
	"path/filepath"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/firefox"
)

// firefoxCapabilities builds the session capabilities for Firefox.
func firefoxCapabilities(cfg shared.BrowserConfig) (selenium.Capabilities, error) {
	seleniumCapabilities := selenium.Capabilities{
		"browserName": "firefox",
	}

	firefoxCaps := firefox.Capabilities{}
	if cfg.BinaryPath != "" {
		firefoxAbsPath, err := filepath.Abs(cfg.BinaryPath)
		if err != nil {
			return nil, fmt.Errorf("resolving firefox binary: %w", err)
		}
		firefoxCaps.Binary = firefoxAbsPath
	}
	if cfg.LaunchMode == shared.Headless {
		firefoxCaps.Args = append(firefoxCaps.Args, "-headless")
	}
	seleniumCapabilities.AddFirefox(firefoxCaps)
	return seleniumCapabilities, nil
}
