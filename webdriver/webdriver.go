// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package webdriver implements shared.PageHandle on top of Selenium
// WebDriver sessions for Firefox and Chrome.
package webdriver

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/phayes/freeport"
	"github.com/tebeka/selenium"
)

// DefaultRemotePort is where an already-running Selenium server is expected
// when no port is configured and no service is started.
const DefaultRemotePort = 4444

// FrameBufferDefault reports whether a headed browser needs an X frame buffer
// on this platform.
func FrameBufferDefault() bool {
	return runtime.GOOS != "darwin"
}

// PageFactory starts one browser session per page. Each page owns its
// session and, if one was started, its Selenium or driver service.
type PageFactory struct {
	cfg shared.BrowserConfig
}

// NewPageFactory creates a PageFactory for cfg.
func NewPageFactory(cfg shared.BrowserConfig) (*PageFactory, error) {
	if err := cfg.LaunchMode.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Browser {
	case "firefox", "chrome":
	default:
		return nil, fmt.Errorf("invalid browser %q", cfg.Browser)
	}
	if cfg.SeleniumHost == "" {
		cfg.SeleniumHost = "localhost"
	}
	return &PageFactory{cfg: cfg}, nil
}

// NewPage starts a service if configured and opens a session on it.
//
// When the service started but the session could not be created, the
// returned page is non-nil alongside the error; closing it stops the
// service.
func (f *PageFactory) NewPage(ctx context.Context) (shared.PageHandle, error) {
	log := shared.GetLogger(ctx)
	selenium.SetDebug(f.cfg.Debug)

	port := f.cfg.SeleniumPort
	startsService := f.cfg.SeleniumPath != "" || f.cfg.DriverPath != ""
	if port == 0 {
		if startsService {
			var err error
			if port, err = freeport.GetFreePort(); err != nil {
				return nil, fmt.Errorf("picking a port for the webdriver service: %w", err)
			}
		} else {
			port = DefaultRemotePort
		}
	}

	page := &Page{}
	urlPrefix := fmt.Sprintf("http://%s:%d/wd/hub", f.cfg.SeleniumHost, port)
	if startsService {
		service, direct, err := f.startService(port)
		if err != nil {
			return nil, err
		}
		page.service = service
		if direct {
			urlPrefix = fmt.Sprintf("http://%s:%d", f.cfg.SeleniumHost, port)
		}
		log.Debugf("Started %s webdriver service on port %d", f.cfg.Browser, port)
	}

	caps, err := f.capabilities()
	if err != nil {
		return page.orNil(), err
	}
	wd, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		return page.orNil(), fmt.Errorf("creating %s session at %s: %w", f.cfg.Browser, urlPrefix, err)
	}
	page.wd = wd
	log.Infof("Opened %s %s session at %s", f.cfg.LaunchMode, f.cfg.Browser, urlPrefix)
	return page, nil
}

// startService starts the Selenium standalone server, or the browser driver
// directly when no Selenium path is set. direct reports the latter, whose
// endpoint has no /wd/hub prefix.
func (f *PageFactory) startService(port int) (service *selenium.Service, direct bool, err error) {
	var opts []selenium.ServiceOption
	// An X frame buffer is only useful for a headed browser on a display-less
	// host.
	if f.cfg.FrameBuffer && f.cfg.LaunchMode == shared.Headed {
		opts = append(opts, selenium.StartFrameBuffer())
	}
	if f.cfg.Debug {
		opts = append(opts, selenium.Output(os.Stderr))
	}

	if f.cfg.SeleniumPath == "" {
		switch f.cfg.Browser {
		case "chrome":
			service, err = selenium.NewChromeDriverService(f.cfg.DriverPath, port, opts...)
		default:
			service, err = selenium.NewGeckoDriverService(f.cfg.DriverPath, port, opts...)
		}
		if err != nil {
			return nil, true, fmt.Errorf("starting %s driver %s: %w", f.cfg.Browser, f.cfg.DriverPath, err)
		}
		return service, true, nil
	}

	if f.cfg.DriverPath != "" {
		switch f.cfg.Browser {
		case "chrome":
			opts = append(opts, selenium.ChromeDriver(f.cfg.DriverPath))
		default:
			opts = append(opts, selenium.GeckoDriver(f.cfg.DriverPath))
		}
	}
	service, err = selenium.NewSeleniumService(f.cfg.SeleniumPath, port, opts...)
	if err != nil {
		return nil, false, fmt.Errorf("starting selenium %s: %w", f.cfg.SeleniumPath, err)
	}
	return service, false, nil
}

func (f *PageFactory) capabilities() (selenium.Capabilities, error) {
	switch f.cfg.Browser {
	case "chrome":
		return chromeCapabilities(f.cfg)
	default:
		return firefoxCapabilities(f.cfg)
	}
}
