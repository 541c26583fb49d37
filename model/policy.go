// Copyright 2026 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy carries the tag conventions the core consults: which keys are
// editing metadata rather than real cartographic content, and which
// keys imply an area when a way is closed.  Policy values are passed
// explicitly so the graph logic stays free of process-wide state.
type Policy struct {
	// DiscardKeys are exact tag keys that carry no cartographic
	// interest, e.g. import attribution.
	DiscardKeys []string `yaml:"discard_keys"`

	// DiscardPrefixes match uninteresting tag keys by prefix, e.g.
	// "tiger:".
	DiscardPrefixes []string `yaml:"discard_prefixes"`

	// AreaKeys maps tag keys that imply an area on closed ways to the
	// values excluded from that rule ("highway" is linear except for a
	// handful of values, and so on).
	AreaKeys map[string][]string `yaml:"area_keys"`
}

// DefaultPolicy returns the stock OSM tag conventions.
func DefaultPolicy() *Policy {
	return &Policy{
		DiscardKeys: []string{
			"attribution",
			"created_by",
			"odbl",
			"source",
			"source_ref",
		},
		DiscardPrefixes: []string{
			"source:",
			"source_ref:",
			"tiger:",
		},
		AreaKeys: map[string][]string{
			"area":     nil,
			"building": nil,
			"landuse":  nil,
			"leisure":  {"slipway", "track"},
			"natural":  {"cliff", "coastline", "ridge", "tree_row"},
			"highway":  {"elevator", "rest_area", "services"},
		},
	}
}

// LoadPolicy reads a Policy from a YAML file, layering the file's
// entries over the defaults.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tag policy: %w", err)
	}

	p := DefaultPolicy()

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing tag policy %s: %w", path, err)
	}

	return p, nil
}

// Interesting reports whether the key carries cartographic interest
// under this policy.
func (p *Policy) Interesting(key string) bool {
	for _, k := range p.DiscardKeys {
		if key == k {
			return false
		}
	}

	for _, prefix := range p.DiscardPrefixes {
		if strings.HasPrefix(key, prefix) {
			return false
		}
	}

	return true
}

// InterestingTags reports whether the tags carry any cartographic
// interest: empty tags, tags consisting solely of discardable keys, and
// a lone area=yes marker all report false.
func (p *Policy) InterestingTags(t Tags) bool {
	for k := range t {
		if k == "area" && t[k] == "yes" {
			continue
		}

		if p.Interesting(k) {
			return true
		}
	}

	return false
}

// IsArea reports whether a closed way carrying these tags represents an
// area rather than a linear loop.
func (p *Policy) IsArea(t Tags) bool {
	if t["area"] == "yes" {
		return true
	}

	if t["area"] == "no" {
		return false
	}

	for key, excluded := range p.AreaKeys {
		v, ok := t[key]
		if !ok || v == "no" {
			continue
		}

		linear := false

		for _, ex := range excluded {
			if v == ex {
				linear = true

				break
			}
		}

		if !linear {
			return true
		}
	}

	return false
}
