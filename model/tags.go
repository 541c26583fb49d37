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
	"maps"
	"strings"
)

// Tags is the key/value tag mapping attached to an entity.  A Tags map
// reachable from an entity snapshot must never be mutated; use Clone
// before changing one.
type Tags map[string]string

// Clone returns a copy of the tags that is safe to mutate.
func (t Tags) Clone() Tags {
	if t == nil {
		return Tags{}
	}

	return maps.Clone(t)
}

// Equal checks if two tag mappings hold the same keys and values.
func (t Tags) Equal(o Tags) bool {
	return maps.Equal(t, o)
}

// genericValues maps tag keys to values that are considered generic
// placeholders.  When merging, a specific value always wins over a
// generic one for these keys.  This is an explicit exception table; new
// keys need evidence of the same generic/specific precedence before
// being added.
var genericValues = map[string]string{
	"building": "yes",
}

// MergeTags merges src into dst.  Keys absent from dst are added; keys
// present with an equal value are kept; conflicting values are joined
// with a semicolon, preserving order and collapsing whitespace around
// existing separators.  The returned bool reports whether the result
// differs from dst.
func MergeTags(dst, src Tags) (Tags, bool) {
	var merged Tags

	for k, v := range src {
		cur, ok := dst[k]
		if ok && (cur == v || v == "") {
			continue
		}

		next := v

		if ok && cur != "" {
			if generic, isSpecial := genericValues[k]; isSpecial {
				if v == generic {
					// incoming generic never displaces a specific value
					continue
				}

				if cur != generic {
					next = joinValues(cur, v)
				}
			} else {
				next = joinValues(cur, v)
			}
		}

		if next == cur {
			continue
		}

		if merged == nil {
			merged = dst.Clone()
		}

		merged[k] = next
	}

	if merged == nil {
		return dst, false
	}

	return merged, true
}

// joinValues appends b to the semicolon-separated list a, deduplicating
// and trimming stray whitespace around existing separators.
func joinValues(a, b string) string {
	var out []string

	seen := map[string]bool{}

	for _, part := range strings.Split(a, ";") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}

		seen[part] = true
		out = append(out, part)
	}

	for _, part := range strings.Split(b, ";") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}

		seen[part] = true
		out = append(out, part)
	}

	return strings.Join(out, ";")
}
