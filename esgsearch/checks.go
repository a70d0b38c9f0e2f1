// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package esgsearch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/url"
	"sort"
	"sync"

	"github.com/esgf/metagrid-probe/shared"
	"golang.org/x/sync/errgroup"
)

// DefaultMinFiles is the number of files a healthy file core indexes at
// least.
const DefaultMinFiles = 40000000

// CheckFileCore fails when the index holds fewer than minFiles local files.
// It returns the file count.
func (c *Client) CheckFileCore(ctx context.Context, minFiles int64) (int64, error) {
	if minFiles <= 0 {
		minFiles = DefaultMinFiles
	}
	n, err := c.HitCount(ctx, url.Values{
		"type":    {"File"},
		"distrib": {"false"},
	})
	if err != nil {
		return 0, err
	}
	if n < minFiles {
		return n, fmt.Errorf("at %s: %d files found, below the %d threshold", c.BaseURL, n, minFiles)
	}
	return n, nil
}

// CheckHits fails when a query returns no results.
func (c *Client) CheckHits(ctx context.Context, query url.Values) (int64, error) {
	n, err := c.HitCount(ctx, query)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%s returns no results for %s", c.BaseURL, query.Encode())
	}
	return n, nil
}

// Mismatch is a single-facet query on which two indexes disagree.
type Mismatch struct {
	Facet string `json:"facet"`
	Value string `json:"value"`
	Want  int64  `json:"want"`
	Got   int64  `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("{%s: %s} %d != %d", m.Facet, m.Value, m.Want, m.Got)
}

// CompareOptions configures CompareIndexes.
type CompareOptions struct {
	// Pick chooses the value to query for each facet. It defaults to a
	// uniformly random choice.
	Pick func(facet string, values []string) string
	// Concurrency caps in-flight facet comparisons; values below 1 mean 4.
	Concurrency int
}

func pickRandom(_ string, values []string) string {
	return values[rand.IntN(len(values))]
}

// CompareIndexes reads the facets of reference for base, picks one value of
// each facet, and compares the hit count of the single-facet query between
// reference and candidate. Facets without values are skipped. Mismatches
// are sorted by facet.
func CompareIndexes(ctx context.Context, reference, candidate *Client, base url.Values, opts CompareOptions) ([]Mismatch, error) {
	pick := opts.Pick
	if pick == nil {
		pick = pickRandom
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}
	log := shared.GetLogger(ctx)

	facets, err := reference.FacetValues(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("reading facets from %s: %w", reference.BaseURL, err)
	}

	var mu sync.Mutex
	var mismatches []Mismatch
	var errs []error
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for facet, values := range facets {
		if len(values) == 0 {
			continue
		}
		value := pick(facet, values)
		g.Go(func() error {
			query := url.Values{facet: {value}}
			want, err := reference.HitCount(ctx, query)
			if err == nil {
				var got int64
				if got, err = candidate.HitCount(ctx, query); err == nil && got != want {
					m := Mismatch{Facet: facet, Value: value, Want: want, Got: got}
					log.Warningf("Index mismatch %s", m)
					mu.Lock()
					mismatches = append(mismatches, m)
					mu.Unlock()
				}
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s=%s: %w", facet, value, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].Facet < mismatches[j].Facet
	})
	return mismatches, shared.NewMultiError(errs, "comparing indexes")
}
