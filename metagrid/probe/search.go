// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/esgf/metagrid-probe/esgsearch"
	"github.com/esgf/metagrid-probe/shared"
	"github.com/spf13/cobra"
)

var (
	indexURLs    []string
	minFiles     int64
	checkQuery   []string
	compareQuery []string
	referenceURL string
	candidateURL string
	catalogURLs  []string
	datasetFiles bool
)

// Indexes checked by default.
var defaultIndexes = []string{
	"https://esgf-node.ornl.gov/esg-search/search",
	"https://esgf-node.llnl.gov/esg-search/search",
}

// THREDDS catalog pages whose download links are checked by default.
var defaultCatalogs = []string{
	"https://esgf-node.ornl.gov/thredds/catalog/css03_data/CMIP6/CMIP/NCAR/CESM2/historical/r1i1p1f1/fx/areacella/gn/v20190308/catalog.html" +
		"?dataset=css03_data/CMIP6/CMIP/NCAR/CESM2/historical/r1i1p1f1/fx/areacella/gn/v20190308/areacella_fx_CESM2_historical_r1i1p1f1_gn.nc",
	"https://nimbus6.llnl.gov/thredds/catalog/css03_data/CMIP6/CMIP/NCAR/CESM2/historical/r1i1p1f1/fx/areacella/gn/v20190308/catalog.html" +
		"?dataset=css03_data/CMIP6/CMIP/NCAR/CESM2/historical/r1i1p1f1/fx/areacella/gn/v20190308/areacella_fx_CESM2_historical_r1i1p1f1_gn.nc",
}

// datasetQuery is a search every healthy index has results for.
var datasetQuery = []string{
	"type=Dataset",
	"distrib=false",
	"project=CMIP6",
	"experiment_id=historical",
	"source_id=CESM2",
	"source_id=NorESM2-LM",
	"member_id=r1i1p1f1",
	"grid_label=gn",
	"frequency=mon",
	"variable_id=gpp",
	"latest=true",
}

var searchCheckCmd = &cobra.Command{
	Use:   "search-check",
	Short: "Check ESGF search indexes and THREDDS download links",
	RunE:  runSearchCheck,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare hit counts of single-facet queries between two indexes",
	RunE:  runCompare,
}

func init() {
	searchCheckCmd.Flags().StringSliceVar(&indexURLs, "index", defaultIndexes, "Search endpoint to check; repeatable")
	searchCheckCmd.Flags().Int64Var(&minFiles, "min_files", esgsearch.DefaultMinFiles, "Minimum number of local files in the file core")
	searchCheckCmd.Flags().StringArrayVar(&checkQuery, "query", datasetQuery, "key=value query parameter that must return results; repeatable")
	searchCheckCmd.Flags().BoolVar(&datasetFiles, "dataset_files", true, "Check that every file of the matching datasets has an OPeNDAP link")
	searchCheckCmd.Flags().StringSliceVar(&catalogURLs, "catalog", defaultCatalogs, "THREDDS catalog page whose download links must answer; repeatable")

	compareCmd.Flags().StringVar(&referenceURL, "reference", "https://esgf-node.ornl.gov/esg-search/search", "Index the facets are read from")
	compareCmd.Flags().StringVar(&candidateURL, "candidate", "https://ci-setup-esgf-esg-fastapi.mariner-cluster.ornl.gov", "Index compared with the reference")
	compareCmd.Flags().StringArrayVar(&compareQuery, "query", []string{"experiment_id=historical", "experiment_id=piControl"}, "key=value restricting the facets read; repeatable")
}

func parseQuery(params []string) (url.Values, error) {
	q := url.Values{}
	for _, p := range params {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid query parameter %q, want key=value", p)
		}
		q.Add(k, v)
	}
	return q, nil
}

func runSearchCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := shared.GetLogger(ctx)
	query, err := parseQuery(checkQuery)
	if err != nil {
		return err
	}

	var errs []error
	for _, u := range indexURLs {
		c := esgsearch.NewClient(u)
		hits, err := c.CheckHits(ctx, query)
		if err != nil {
			errs = append(errs, err)
		} else {
			log.Infof("%s: %d datasets", u, hits)
		}
		if datasetFiles && err == nil {
			counts, err := c.CheckDatasetFiles(ctx, query)
			if err != nil {
				errs = append(errs, err)
			} else {
				log.Infof("%s: file counts of %d datasets match", u, len(counts))
			}
		}
		files, err := c.CheckFileCore(ctx, minFiles)
		if err != nil {
			errs = append(errs, err)
		} else {
			log.Infof("%s: %d files", u, files)
		}
	}
	httpClient := &http.Client{Timeout: 5 * time.Minute}
	for _, page := range catalogURLs {
		links, err := esgsearch.CheckCatalogLinks(ctx, httpClient, page)
		if err != nil {
			errs = append(errs, err)
		} else {
			log.Infof("%s: %d download links answer", page, len(links))
		}
	}
	return shared.NewMultiError(errs, "checking search indexes")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	query, err := parseQuery(compareQuery)
	if err != nil {
		return err
	}
	mismatches, err := esgsearch.CompareIndexes(ctx,
		esgsearch.NewClient(referenceURL), esgsearch.NewClient(candidateURL),
		query, esgsearch.CompareOptions{})
	for _, m := range mismatches {
		fmt.Fprintln(cmd.OutOrStdout(), m)
	}
	if err != nil {
		return err
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d queries disagree between %s and %s", len(mismatches), referenceURL, candidateURL)
	}
	return nil
}
