//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/esgf/metagrid-probe/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	q, err := parseQuery([]string{"source_id=CESM2", "source_id=NorESM2-LM", "latest=true"})
	require.Nil(t, err)
	assert.Equal(t, []string{"CESM2", "NorESM2-LM"}, q["source_id"])
	assert.Equal(t, "true", q.Get("latest"))

	_, err = parseQuery([]string{"latest"})
	assert.NotNil(t, err)
	_, err = parseQuery([]string{"=x"})
	assert.NotNil(t, err)
}

func TestApplyFlag(t *testing.T) {
	dst := shared.DefaultConfig()
	src := shared.DefaultConfig()
	src.Browser.Browser = "chrome"
	src.PollInterval = time.Second
	src.LogLevel = "debug"

	applyFlag(&dst, &src, "browser")
	applyFlag(&dst, &src, "poll_interval")
	assert.Equal(t, "chrome", dst.Browser.Browser)
	assert.Equal(t, time.Second, dst.PollInterval)
	// Flags that were not set leave the loaded value alone.
	assert.Equal(t, "info", dst.LogLevel)
}

func TestWriteJSON(t *testing.T) {
	var stdout bytes.Buffer
	require.Nil(t, writeJSON(&stdout, "", []string{"a"}))
	assert.Equal(t, "[\n  \"a\"\n]\n", stdout.String())

	path := filepath.Join(t.TempDir(), "report.json")
	stdout.Reset()
	require.Nil(t, writeJSON(&stdout, path, map[string]int{"n": 1}))
	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.JSONEq(t, `{"n": 1}`, string(data))
}
