// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"fmt"
	"path/filepath"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// chromeCapabilities builds the session capabilities for Chrome.
func chromeCapabilities(cfg shared.BrowserConfig) (selenium.Capabilities, error) {
	seleniumCapabilities := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{W3C: true}
	if cfg.BinaryPath != "" {
		chromeAbsPath, err := filepath.Abs(cfg.BinaryPath)
		if err != nil {
			return nil, fmt.Errorf("resolving chrome binary: %w", err)
		}
		chromeCaps.Path = chromeAbsPath
	}
	if cfg.LaunchMode == shared.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new", "--disable-gpu")
	}
	// CI containers run as root without a usable sandbox.
	chromeCaps.Args = append(chromeCaps.Args, "--no-sandbox", "--window-size=1920,1080")
	seleniumCapabilities.AddChrome(chromeCaps)
	return seleniumCapabilities, nil
}
