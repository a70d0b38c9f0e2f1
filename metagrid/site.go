// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package metagrid holds the MetaGrid search scenario, the deployments it is
// run against, and the search-time benchmark.
package metagrid

import (
	"fmt"
	"strings"
	"time"

	"github.com/esgf/metagrid-probe/shared"
)

// Timing is a typical search time, as mean and standard deviation.
type Timing struct {
	Mean time.Duration `json:"mean" yaml:"mean"`
	Std  time.Duration `json:"std" yaml:"std"`
}

// Known reports whether the timing was measured.
func (t Timing) Known() bool {
	return t.Std > 0
}

func (t Timing) String() string {
	return fmt.Sprintf("%.2f ± %.2f [s]", t.Mean.Seconds(), t.Std.Seconds())
}

// Site is a MetaGrid deployment.
type Site struct {
	Name    string
	URL     string
	Typical Timing
}

// KnownSites are the production deployments with measured search times.
var KnownSites = []Site{
	{
		Name:    "ornl",
		URL:     "https://esgf-node.ornl.gov/search",
		Typical: Timing{Mean: 16350 * time.Millisecond, Std: 140 * time.Millisecond},
	},
	{
		Name:    "llnl",
		URL:     "https://aims2.llnl.gov/search",
		Typical: Timing{Mean: 2350 * time.Millisecond, Std: 80 * time.Millisecond},
	},
}

// LookupSite resolves a known site name, case-insensitively, or treats
// nameOrURL as the URL of an unmeasured deployment.
func LookupSite(nameOrURL string) (Site, error) {
	for _, s := range KnownSites {
		if strings.EqualFold(s.Name, nameOrURL) {
			return s, nil
		}
	}
	if strings.HasPrefix(nameOrURL, "http://") || strings.HasPrefix(nameOrURL, "https://") {
		return Site{Name: nameOrURL, URL: nameOrURL}, nil
	}
	return Site{}, fmt.Errorf("unknown site %q", nameOrURL)
}

// DefaultFacets is the CESM2 historical gpp search the typical timings were
// measured with.
func DefaultFacets() *shared.FacetSpec {
	return shared.MustFacetSpec(
		"source_id", "CESM2",
		"experiment_id", "historical",
		"variant_label", "r1i1p1f1",
		"variable_id", "gpp",
	)
}
