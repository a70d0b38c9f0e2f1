// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package esgsearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/esgf/metagrid-probe/shared"
)

// CatalogLinks reads a THREDDS catalog page and returns the links to check
// for download. Notebooks, nested catalogs and OPeNDAP (dodsC) endpoints
// are left out.
func CatalogLinks(ctx context.Context, client *http.Client, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL %q: %w", pageURL, err)
	}
	res, err := get(ctx, client, pageURL)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load catalog page: %w", &StatusError{URL: pageURL, StatusCode: res.StatusCode})
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog page %s: %w", pageURL, err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if strings.HasSuffix(u.Path, ".ipynb") || strings.HasSuffix(u.Path, "catalog.html") ||
			strings.Contains(u.Path, "dodsC") {
			return
		}
		links = append(links, u.String())
	})
	return links, nil
}

// CheckCatalogLinks fetches every download link of a THREDDS catalog page and
// fails for each that does not answer 200. It returns the links checked.
func CheckCatalogLinks(ctx context.Context, client *http.Client, pageURL string) ([]string, error) {
	links, err := CatalogLinks(ctx, client, pageURL)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("no download links on %s", pageURL)
	}
	log := shared.GetLogger(ctx)

	var errs []error
	for _, link := range links {
		res, err := get(ctx, client, link)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			errs = append(errs, fmt.Errorf("HTTPServer link returning invalid response: %w",
				&StatusError{URL: link, StatusCode: res.StatusCode}))
			continue
		}
		log.Debugf("Downloaded %s", link)
	}
	return links, shared.NewMultiError(errs, "checking catalog links")
}

func get(ctx context.Context, client *http.Client, target string) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}
