// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package esgsearch is a small client for the ESGF search REST API, used to
// check index health independently of the MetaGrid UI.
package esgsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/esgf/metagrid-probe/shared"
)

// SolrJSON is the response format every query asks for.
const SolrJSON = "application/solr+json"

// DefaultRetries is the number of retries after a transient failure.
const DefaultRetries = 2

// Client queries one search endpoint, e.g.
// "https://esgf-node.ornl.gov/esg-search/search".
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Retries applies to network errors and 5xx responses.
	Retries int
}

// NewClient creates a Client with a 30s request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Retries:    DefaultRetries,
	}
}

// Response is the subset of a Solr JSON response the checks read.
type Response struct {
	Response struct {
		NumFound int64                    `json:"numFound"`
		Docs     []map[string]interface{} `json:"docs"`
	} `json:"response"`
	FacetCounts struct {
		// FacetFields alternates values and their counts.
		FacetFields map[string][]interface{} `json:"facet_fields"`
	} `json:"facet_counts"`
}

// FacetValues returns the values of each facet field, without counts.
func (r *Response) FacetValues() map[string][]string {
	values := make(map[string][]string, len(r.FacetCounts.FacetFields))
	for facet, entries := range r.FacetCounts.FacetFields {
		vs := []string{}
		for i := 0; i < len(entries); i += 2 {
			if s, ok := entries[i].(string); ok {
				vs = append(vs, s)
			}
		}
		values[facet] = vs
	}
	return values
}

// StatusError is a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Search runs a query. The format parameter defaults to SolrJSON.
func (c *Client) Search(ctx context.Context, query url.Values) (*Response, error) {
	q := clone(query)
	if q.Get("format") == "" {
		q.Set("format", SolrJSON)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search URL %q: %w", c.BaseURL, err)
	}
	u.RawQuery = q.Encode()
	target := u.String()

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := shared.GetLogger(ctx)

	var resp Response
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		res, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, res.Body)
			statusErr := &StatusError{URL: target, StatusCode: res.StatusCode}
			if res.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}
		resp = Response{}
		if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding %s: %w", target, err))
		}
		return nil
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if c.Retries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = 200 * time.Millisecond
		policy = backoff.WithMaxRetries(exp, uint64(c.Retries))
	}
	b := backoff.WithContext(policy, ctx)
	err = backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		log.Warningf("Search %s failed, retrying in %v: %s", target, d, err.Error())
	})
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		return nil, err
	}
	log.Debugf("Search %s: %d hits", target, resp.Response.NumFound)
	return &resp, nil
}

// HitCount returns numFound for a query, without fetching documents.
func (c *Client) HitCount(ctx context.Context, query url.Values) (int64, error) {
	q := cloneWith(query, "limit", "0")
	resp, err := c.Search(ctx, q)
	if err != nil {
		return 0, err
	}
	return resp.Response.NumFound, nil
}

// FacetValues returns the values of every facet matching the query. Unless
// the query names facets, all are requested.
func (c *Client) FacetValues(ctx context.Context, query url.Values) (map[string][]string, error) {
	q := cloneWith(query, "limit", "0")
	if q.Get("facets") == "" {
		q.Set("facets", "*")
	}
	resp, err := c.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return resp.FacetValues(), nil
}

func clone(query url.Values) url.Values {
	q := make(url.Values, len(query))
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	return q
}

func cloneWith(query url.Values, key, value string) url.Values {
	q := clone(query)
	q.Set(key, value)
	return q
}
