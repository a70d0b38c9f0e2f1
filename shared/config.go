// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LaunchMode selects whether the browser shows a window.
type LaunchMode string

const (
	// Headless runs the browser without a window.
	Headless LaunchMode = "headless"
	// Headed runs the browser with a visible window.
	Headed LaunchMode = "headed"
)

// Validate returns an error for unknown launch modes.
func (m LaunchMode) Validate() error {
	switch m {
	case Headless, Headed:
		return nil
	}
	return fmt.Errorf("unknown launch mode %q (want %q or %q)", m, Headless, Headed)
}

// DefaultPollInterval is the cadence at which wait conditions are evaluated.
const DefaultPollInterval = 250 * time.Millisecond

// BrowserConfig describes how pages are created.
type BrowserConfig struct {
	Browser      string     `yaml:"browser"`
	LaunchMode   LaunchMode `yaml:"launch_mode"`
	SeleniumPath string     `yaml:"selenium_path"`
	SeleniumHost string     `yaml:"selenium_host"`
	// SeleniumPort 0 picks a free port when SeleniumPath starts a service.
	SeleniumPort int    `yaml:"selenium_port"`
	DriverPath   string `yaml:"driver_path"`
	BinaryPath   string `yaml:"binary_path"`
	FrameBuffer  bool   `yaml:"frame_buffer"`
	Debug        bool   `yaml:"debug"`
}

// Config is the probe configuration. It is read from YAML and then
// overridden by command line flags.
type Config struct {
	Browser      BrowserConfig `yaml:"browser"`
	PollInterval time.Duration `yaml:"poll_interval"`
	RunTimeout   time.Duration `yaml:"run_timeout"`
	LogLevel     string        `yaml:"log_level"`
	LogJSON      bool          `yaml:"log_json"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Browser: BrowserConfig{
			Browser:      "firefox",
			LaunchMode:   Headless,
			SeleniumHost: "localhost",
		},
		PollInterval: DefaultPollInterval,
		RunTimeout:   5 * time.Minute,
		LogLevel:     "info",
	}
}

// LoadConfig reads path over DefaultConfig. An empty path returns the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the runner cannot use.
func (c Config) Validate() error {
	if err := c.Browser.LaunchMode.Validate(); err != nil {
		return err
	}
	switch c.Browser.Browser {
	case "firefox", "chrome":
	default:
		return fmt.Errorf("unsupported browser %q", c.Browser.Browser)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("run_timeout must not be negative, got %v", c.RunTimeout)
	}
	return nil
}
