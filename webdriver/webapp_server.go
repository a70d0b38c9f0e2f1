// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package webdriver

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// AppServer is an abstraction for navigating an instance of the MetaGrid
// webapp.
type AppServer interface {
	// Hook for shutting down a locally served instance.
	io.Closer

	// GetWebappURL returns the URL for the given path on the running webapp.
	GetWebappURL(path string) string
}

type remoteAppServer struct {
	base string
}

func (i *remoteAppServer) GetWebappURL(path string) string {
	return i.base + path
}

func (i *remoteAppServer) Close() error {
	return nil
}

// NewRemoteAppServer points at a deployed MetaGrid, e.g.
// "https://esgf-node.ornl.gov".
func NewRemoteAppServer(base string) AppServer {
	return &remoteAppServer{base: strings.TrimSuffix(base, "/")}
}

// StubOptions shape the locally served MetaGrid stand-in.
type StubOptions struct {
	// ResultsDelay is how long the search results take to appear after a
	// facet is submitted.
	ResultsDelay time.Duration
	// ProjectDelay is how long the facet panel takes to appear after a
	// project is selected.
	ProjectDelay time.Duration
	// Title overrides the document title.
	Title string
}

type stubAppServer struct {
	server *httptest.Server
}

func (i *stubAppServer) GetWebappURL(path string) string {
	return i.server.URL + path
}

func (i *stubAppServer) Close() error {
	i.server.Close()
	return nil
}

// NewStubAppServer serves a minimal page with the same controls as the
// MetaGrid search page: the startup interstitials, the project selector, the
// facet inputs, and a results table that renders after a delay.
func NewStubAppServer(opts StubOptions) (AppServer, error) {
	if opts.Title == "" {
		opts.Title = "ESGF MetaGrid"
	}
	page, err := template.New("search").Parse(stubSearchPage)
	if err != nil {
		return nil, fmt.Errorf("parsing stub page: %w", err)
	}

	r := mux.NewRouter()
	r.Handle("/", http.RedirectHandler("/search", http.StatusFound))
	r.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct {
			Title          string
			ResultsDelayMS int64
			ProjectDelayMS int64
		}{opts.Title, opts.ResultsDelay.Milliseconds(), opts.ProjectDelay.Milliseconds()}
		if err := page.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &stubAppServer{server: httptest.NewServer(r)}, nil
}

const stubSearchPage = `<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<div id="welcome"><button onclick="this.parentNode.remove()"><span>Close</span></button></div>
<div id="tour"><button title="Skip" onclick="this.parentNode.remove()">Skip</button></div>
<div id="projects">
  <button onclick="selectProject()"><span class="anticon anticon-select"></span></button>
</div>
<div id="facets"></div>
<table><tbody id="results"></tbody></table>
<script>
var projectDelay = {{.ProjectDelayMS}};
var resultsDelay = {{.ResultsDelayMS}};
var facetKeys = ["source_id", "experiment_id", "variant_label", "variable_id"];
var submitted = {};

function selectProject() {
  setTimeout(function() {
    var panel = document.getElementById("facets");
    var expand = document.createElement("button");
    expand.innerHTML = "<span>Expand All</span>";
    panel.appendChild(expand);
    facetKeys.forEach(function(key) {
      var input = document.createElement("input");
      input.id = key;
      input.addEventListener("keydown", function(ev) {
        if (ev.key === "Enter") {
          submitted[key] = input.value;
          input.value = "";
          search();
        }
      });
      panel.appendChild(input);
    });
  }, projectDelay);
}

function search() {
  var results = document.getElementById("results");
  results.innerHTML = "";
  setTimeout(function() {
    var row = document.createElement("tr");
    row.className = "ant-table-row ant-table-row-level-0";
    var keys = Object.keys(submitted).sort();
    row.innerHTML = "<td>" + keys.map(function(k) { return k + "=" + submitted[k]; }).join("&") + "</td>";
    results.appendChild(row);
    if (!document.getElementById("copy-search")) {
      var copy = document.createElement("button");
      copy.id = "copy-search";
      copy.innerHTML = "<span>Copy Search</span>";
      document.body.appendChild(copy);
    }
  }, resultsDelay);
}
</script>
</body>
</html>
`
