// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command probe runs scripted MetaGrid searches in a real browser and checks
// the ESGF search indexes behind them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/esgf/metagrid-probe/webdriver"
	"github.com/esgf/metagrid-probe/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configPath string
	cfg        = shared.DefaultConfig()
	// flagCfg receives flag values; only flags set on the command line are
	// copied onto cfg, after the config file is loaded.
	flagCfg = shared.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:           "probe",
	Short:         "Scripted browser checks for ESGF MetaGrid",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		cmd.Flags().Visit(func(f *pflag.Flag) {
			applyFlag(&cfg, &flagCfg, f.Name)
		})
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := shared.NewLogrusLogger(cfg.LogLevel, cfg.LogJSON)
		cmd.SetContext(shared.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.StringVar(&flagCfg.LogLevel, "log_level", flagCfg.LogLevel, "Log level (debug, info, warning, error)")
	fs.BoolVar(&flagCfg.LogJSON, "log_json", flagCfg.LogJSON, "Log as JSON")
	fs.DurationVar(&flagCfg.PollInterval, "poll_interval", flagCfg.PollInterval, "Wait condition polling interval")
	fs.DurationVar(&flagCfg.RunTimeout, "run_timeout", flagCfg.RunTimeout, "Upper bound on a whole run; 0 disables it")

	b := &flagCfg.Browser
	fs.StringVar(&b.Browser, "browser", b.Browser, "Which browser to run with (firefox, chrome)")
	fs.StringVar((*string)(&b.LaunchMode), "launch_mode", string(b.LaunchMode), "headless or headed")
	fs.StringVar(&b.SeleniumPath, "selenium_path", b.SeleniumPath, "Path to the selenium standalone binary")
	fs.StringVar(&b.SeleniumHost, "selenium_host", b.SeleniumHost, "Host selenium runs on")
	fs.IntVar(&b.SeleniumPort, "selenium_port", b.SeleniumPort, "Port selenium runs on; 0 picks a free one")
	fs.StringVar(&b.DriverPath, "driver_path", b.DriverPath, "Path to geckodriver or chromedriver")
	fs.StringVar(&b.BinaryPath, "binary_path", b.BinaryPath, "Path to the browser binary")
	fs.BoolVar(&b.FrameBuffer, "frame_buffer", webdriver.FrameBufferDefault(), "Whether to use a frame buffer in headed mode")
	fs.BoolVar(&b.Debug, "debug", b.Debug, "Log webdriver traffic")

	rootCmd.AddCommand(runCmd, benchCmd, searchCheckCmd, compareCmd)
}

func applyFlag(dst, src *shared.Config, name string) {
	switch name {
	case "log_level":
		dst.LogLevel = src.LogLevel
	case "log_json":
		dst.LogJSON = src.LogJSON
	case "poll_interval":
		dst.PollInterval = src.PollInterval
	case "run_timeout":
		dst.RunTimeout = src.RunTimeout
	case "browser":
		dst.Browser.Browser = src.Browser.Browser
	case "launch_mode":
		dst.Browser.LaunchMode = src.Browser.LaunchMode
	case "selenium_path":
		dst.Browser.SeleniumPath = src.Browser.SeleniumPath
	case "selenium_host":
		dst.Browser.SeleniumHost = src.Browser.SeleniumHost
	case "selenium_port":
		dst.Browser.SeleniumPort = src.Browser.SeleniumPort
	case "driver_path":
		dst.Browser.DriverPath = src.Browser.DriverPath
	case "binary_path":
		dst.Browser.BinaryPath = src.Browser.BinaryPath
	case "frame_buffer":
		dst.Browser.FrameBuffer = src.Browser.FrameBuffer
	case "debug":
		dst.Browser.Debug = src.Browser.Debug
	}
}

// newRunner creates a browser-backed runner for the scenario name.
func newRunner(ctx context.Context, name string) (*workflow.Runner, error) {
	factory, err := webdriver.NewPageFactory(cfg.Browser)
	if err != nil {
		return nil, err
	}
	log := shared.GetLogger(ctx)
	r := workflow.NewRunner(factory)
	r.PollInterval = cfg.PollInterval
	r.RunTimeout = cfg.RunTimeout
	r.Name = name
	r.OnTransition = func(runID string, from, to workflow.State, stepIndex int) {
		log.Debugf("Run %s (%s): %s -> %s at step %d", runID, name, from, to, stepIndex)
	}
	return r, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe: %s (after %v)\n", err.Error(), time.Since(start).Round(time.Millisecond))
		stop()
		os.Exit(1)
	}
}
