// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package esgsearch

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/esgf/metagrid-probe/shared"
	"golang.org/x/sync/errgroup"
)

// PageSize is the number of documents fetched per request by SearchAll.
const PageSize = 1000

// SearchAll runs a query and follows offsets until every matching document
// has been read.
func (c *Client) SearchAll(ctx context.Context, query url.Values) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	for {
		q := clone(query)
		q.Set("limit", strconv.Itoa(PageSize))
		q.Set("offset", strconv.Itoa(len(docs)))
		resp, err := c.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		docs = append(docs, resp.Response.Docs...)
		if len(resp.Response.Docs) == 0 || int64(len(docs)) >= resp.Response.NumFound {
			return docs, nil
		}
	}
}

// DatasetFiles compares the number of files a dataset declares with the
// number of its files that can be read over OPeNDAP.
type DatasetFiles struct {
	DatasetID string `json:"dataset_id"`
	Declared  int64  `json:"declared"`
	OPeNDAP   int64  `json:"opendap"`
}

// OK reports whether every declared file has an OPeNDAP link.
func (d DatasetFiles) OK() bool {
	return d.Declared == d.OPeNDAP
}

// CheckDatasetFiles finds the datasets matching query and, for each, counts
// the files carrying an OPeNDAP link. Every dataset whose count differs from
// its number_of_files is an error. The counts are returned sorted by dataset.
func (c *Client) CheckDatasetFiles(ctx context.Context, query url.Values) ([]DatasetFiles, error) {
	q := cloneWith(query, "type", "Dataset")
	datasets, err := c.SearchAll(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("%s returns no datasets for %s", c.BaseURL, q.Encode())
	}
	log := shared.GetLogger(ctx)

	var mu sync.Mutex
	var counts []DatasetFiles
	var errs []error
	g := new(errgroup.Group)
	g.SetLimit(4)
	for _, doc := range datasets {
		id, _ := doc["id"].(string)
		declared, _ := doc["number_of_files"].(float64)
		g.Go(func() error {
			files := url.Values{"type": {"File"}, "dataset_id": {id}}
			if d := q.Get("distrib"); d != "" {
				files.Set("distrib", d)
			}
			docs, err := c.SearchAll(ctx, files)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("files of %s: %w", id, err))
				return nil
			}
			d := DatasetFiles{DatasetID: id, Declared: int64(declared)}
			for _, f := range docs {
				if opendapURL(f) != "" {
					d.OPeNDAP++
				}
			}
			counts = append(counts, d)
			if !d.OK() {
				log.Warningf("Dataset %s lists %d files, %d with OPeNDAP links", id, d.Declared, d.OPeNDAP)
				errs = append(errs, fmt.Errorf("%s number of files (%d) not equal to the results number (%d)",
					id, d.OPeNDAP, d.Declared))
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].DatasetID < counts[j].DatasetID
	})
	return counts, shared.NewMultiError(errs, "checking dataset files")
}

// opendapURL returns the OPeNDAP access URL of a file document, or "".
// Entries of the url field read "<url>|<mime type>|<service>".
func opendapURL(doc map[string]interface{}) string {
	urls, _ := doc["url"].([]interface{})
	for _, u := range urls {
		s, _ := u.(string)
		parts := strings.Split(s, "|")
		if len(parts) == 3 && strings.EqualFold(parts[2], "OPENDAP") {
			return strings.TrimSuffix(parts[0], ".html")
		}
	}
	return ""
}
