//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFacetSpec_insertionOrder(t *testing.T) {
	f, err := NewFacetSpec(
		"source_id", "CESM2",
		"experiment_id", "historical",
		"variant_label", "r1i1p1f1",
		"variable_id", "gpp")
	require.Nil(t, err)
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, []string{"source_id", "experiment_id", "variant_label", "variable_id"}, f.Keys())
	assert.Equal(t, Facet{Key: "variant_label", Value: "r1i1p1f1"}, f.Entries()[2])

	v, ok := f.Get("experiment_id")
	assert.True(t, ok)
	assert.Equal(t, "historical", v)
	_, ok = f.Get("frequency")
	assert.False(t, ok)
}

func TestFacetSpec_duplicateKey(t *testing.T) {
	f := &FacetSpec{}
	assert.Nil(t, f.Add("source_id", "CESM2"))
	assert.NotNil(t, f.Add("source_id", "NorESM2-LM"))
	assert.NotNil(t, f.Add("", "x"))
	assert.Equal(t, 1, f.Len())

	_, err := NewFacetSpec("a")
	assert.NotNil(t, err)
}

func TestFacetSpec_entriesAreCopies(t *testing.T) {
	f := MustFacetSpec("a", "1")
	entries := f.Entries()
	entries[0].Value = "changed"
	v, _ := f.Get("a")
	assert.Equal(t, "1", v)
}

func TestFacetSpec_nil(t *testing.T) {
	var f *FacetSpec
	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.Entries())
	assert.Nil(t, f.Keys())
}

func TestFacetSpec_YAML(t *testing.T) {
	var f FacetSpec
	require.Nil(t, yaml.Unmarshal([]byte("variable_id: gpp\nsource_id: CESM2\n"), &f))
	assert.Equal(t, []string{"variable_id", "source_id"}, f.Keys())

	data, err := yaml.Marshal(&f)
	require.Nil(t, err)
	assert.Equal(t, "variable_id: gpp\nsource_id: CESM2\n", string(data))

	assert.NotNil(t, yaml.Unmarshal([]byte("- a\n- b\n"), &f))
	assert.NotNil(t, yaml.Unmarshal([]byte("a:\n  nested: 1\n"), &f))
}

func TestFacetSpec_String(t *testing.T) {
	assert.Equal(t, "{source_id=CESM2, variable_id=gpp}", MustFacetSpec("source_id", "CESM2", "variable_id", "gpp").String())
}
