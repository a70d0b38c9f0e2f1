// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/esgf/metagrid-probe/metagrid"
	"github.com/esgf/metagrid-probe/shared"
	"github.com/esgf/metagrid-probe/webdriver"
	"github.com/esgf/metagrid-probe/workflow"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	scenarioPatterns []string
	workflowPath     string
	reportPath       string
	iterations       int
	concurrency      int
	ratePerSecond    float64
	useStub          bool
	benchRepeat      int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run MetaGrid scenarios and report per-step results",
	Long: `Runs the selected scenarios, each --iterations times, and writes a JSON
array of run reports. Scenarios come from --workflow, or default to the MetaGrid
search on every known site.`,
	RunE: runScenarios,
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare MetaGrid search times with their typical values",
	RunE:  runBench,
}

func init() {
	for _, c := range []*cobra.Command{runCmd, benchCmd} {
		c.Flags().StringSliceVar(&scenarioPatterns, "scenario", nil, "Glob of scenario names to run; repeatable")
		c.Flags().StringVar(&workflowPath, "workflow", "", "YAML file of scenarios")
		c.Flags().StringVar(&reportPath, "report", "", "Write the JSON report here instead of stdout")
	}
	runCmd.Flags().IntVar(&iterations, "iterations", 1, "Runs per scenario")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 1, "Simultaneous runs per scenario")
	runCmd.Flags().Float64Var(&ratePerSecond, "rate", 0, "Maximum run starts per second; 0 is unlimited")
	runCmd.Flags().BoolVar(&useStub, "stub", false, "Search a local stand-in page instead of the scenario's site")
	benchCmd.Flags().IntVar(&benchRepeat, "repeat", metagrid.DefaultRepeat, "Searches per site")
}

func selectedScenarios() ([]metagrid.Scenario, error) {
	all := metagrid.BuiltinScenarios()
	if workflowPath != "" {
		var err error
		if all, err = metagrid.LoadScenarios(workflowPath); err != nil {
			return nil, err
		}
	}
	return metagrid.SelectScenarios(all, scenarioPatterns)
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := shared.GetLogger(ctx)
	scenarios, err := selectedScenarios()
	if err != nil {
		return err
	}

	var stub webdriver.AppServer
	if useStub {
		if stub, err = webdriver.NewStubAppServer(webdriver.StubOptions{}); err != nil {
			return err
		}
		defer stub.Close()
	}

	var reports []*workflow.Report
	var errs []error
	for _, s := range scenarios {
		site, steps, err := s.Resolve()
		if err != nil {
			return err
		}
		if stub != nil && len(s.Steps) == 0 {
			facets := s.Facets
			if facets == nil {
				facets = metagrid.DefaultFacets()
			}
			steps = metagrid.SearchSteps(stub.GetWebappURL("/search"), facets)
		}
		r, err := newRunner(ctx, s.Name)
		if err != nil {
			return err
		}
		log.Infof("Running %s against %s (%d iterations)", s.Name, site.URL, iterations)
		rs, err := workflow.RunIterations(ctx, r, steps, workflow.IterationOptions{
			Iterations:  iterations,
			Concurrency: concurrency,
			Rate:        rate.Limit(ratePerSecond),
		})
		for _, report := range rs {
			if report == nil {
				continue
			}
			reports = append(reports, report)
			if !report.Green() {
				errs = append(errs, fmt.Errorf("%s run %s is not green", s.Name, report.RunID))
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), reportPath, reports); err != nil {
		return err
	}
	return shared.NewMultiError(errs, "running scenarios")
}

func runBench(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	scenarios, err := selectedScenarios()
	if err != nil {
		return err
	}

	log := shared.GetLogger(ctx)
	var results []*metagrid.BenchmarkResult
	var errs []error
	for _, s := range scenarios {
		if len(s.Steps) > 0 {
			log.Warningf("Skipping %s: only search scenarios can be benchmarked", s.Name)
			continue
		}
		site, err := metagrid.LookupSite(s.Site)
		if err != nil {
			return err
		}
		r, err := newRunner(ctx, s.Name)
		if err != nil {
			return err
		}
		result, err := metagrid.Benchmark(ctx, r, site, s.Facets, benchRepeat)
		results = append(results, result)
		if err == nil {
			err = result.Check()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		fmt.Fprintln(cmd.ErrOrStderr(), result)
	}

	if err := writeJSON(cmd.OutOrStdout(), reportPath, results); err != nil {
		return err
	}
	return shared.NewMultiError(errs, "benchmarking")
}

// writeJSON writes v indented to path, or to stdout when path is empty.
func writeJSON(stdout io.Writer, path string, v interface{}) error {
	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
