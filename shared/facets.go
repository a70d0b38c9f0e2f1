// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"gopkg.in/yaml.v3"
)

// Facet is a single search filter field and the value to enter into it.
type Facet struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FacetSpec is an ordered mapping of facet keys to values. Iteration follows
// insertion order, and keys are unique.
type FacetSpec struct {
	entries []Facet
	keys    mapset.Set
}

// NewFacetSpec creates a FacetSpec from alternating key, value arguments,
// e.g. NewFacetSpec("source_id", "CESM2", "variable_id", "gpp").
func NewFacetSpec(kv ...string) (*FacetSpec, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("odd number of key/value arguments: %d", len(kv))
	}
	f := &FacetSpec{}
	for i := 0; i < len(kv); i += 2 {
		if err := f.Add(kv[i], kv[i+1]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// MustFacetSpec is like NewFacetSpec but panics on error. Intended for
// package-level scenario definitions.
func MustFacetSpec(kv ...string) *FacetSpec {
	f, err := NewFacetSpec(kv...)
	if err != nil {
		panic(err)
	}
	return f
}

// Add appends a facet. Adding an empty or already-present key is an error.
func (f *FacetSpec) Add(key, value string) error {
	if key == "" {
		return fmt.Errorf("empty facet key")
	}
	if f.keys == nil {
		f.keys = mapset.NewThreadUnsafeSet()
	}
	if !f.keys.Add(key) {
		return fmt.Errorf("duplicate facet key %q", key)
	}
	f.entries = append(f.entries, Facet{Key: key, Value: value})
	return nil
}

// Get returns the value of key, if present.
func (f *FacetSpec) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	for _, e := range f.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Len returns the number of facets.
func (f *FacetSpec) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// Entries returns a copy of the facets in fill order.
func (f *FacetSpec) Entries() []Facet {
	if f == nil {
		return nil
	}
	tmp := make([]Facet, len(f.entries))
	copy(tmp, f.entries)
	return tmp
}

// Keys returns the facet keys in fill order.
func (f *FacetSpec) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.entries))
	for i, e := range f.entries {
		keys[i] = e.Key
	}
	return keys
}

func (f *FacetSpec) String() string {
	parts := make([]string, 0, f.Len())
	for _, e := range f.Entries() {
		parts = append(parts, e.Key+"="+e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnmarshalYAML decodes a YAML mapping, keeping the document's key order.
func (f *FacetSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: facets must be a mapping", node.Line)
	}
	*f = FacetSpec{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: facet %q must have a scalar value", v.Line, k.Value)
		}
		if err := f.Add(k.Value, v.Value); err != nil {
			return fmt.Errorf("line %d: %w", k.Line, err)
		}
	}
	return nil
}

// MarshalYAML encodes the facets as a mapping in fill order.
func (f *FacetSpec) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range f.Entries() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Value})
	}
	return node, nil
}
