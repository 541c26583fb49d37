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
	"github.com/paulmach/orb"
)

// Changeset is the metadata envelope an upload travels in.  It carries
// tags only and has no geometry of its own.
type Changeset struct {
	ID   ID
	Tags Tags
	Info *Info
	V    int32
}

var _ Entity = (*Changeset)(nil)

// NewChangeset creates a brand-new local changeset.
func NewChangeset(tags Tags) *Changeset {
	return &Changeset{ID: NewID(CHANGESET), Tags: tags.Clone()}
}

func (c *Changeset) isEntity() {}

func (c *Changeset) GetID() ID { return c.ID }

func (c *Changeset) GetTags() Tags { return c.Tags }

func (c *Changeset) GetInfo() *Info { return c.Info }

func (c *Changeset) EntityKind() Kind { return CHANGESET }

func (c *Changeset) LocalVersion() int32 { return c.V }

// WithTags returns a copy of the changeset carrying the given tags.
func (c *Changeset) WithTags(t Tags) Entity {
	n := *c
	n.Tags = t.Clone()
	n.V++

	return &n
}

// MergeTags merges the given tags into the changeset's own.  A merge
// producing no change returns the changeset itself.
func (c *Changeset) MergeTags(t Tags) Entity {
	merged, changed := MergeTags(c.Tags, t)
	if !changed {
		return c
	}

	n := *c
	n.Tags = merged
	n.V++

	return &n
}

// HasInterestingTags reports whether the changeset carries tags of
// cartographic interest.
func (c *Changeset) HasInterestingTags(p *Policy) bool {
	return policyOrDefault(p).InterestingTags(c.Tags)
}

// IsDegenerate always reports true: a changeset has no geometry.
func (c *Changeset) IsDegenerate() bool { return true }

// Extent reports an empty extent: a changeset has no geometry.
func (c *Changeset) Extent(_ Resolver) (Extent, bool) {
	return EmptyExtent(), true
}

// Copy returns a brand-new unsaved clone of the changeset.
func (c *Changeset) Copy(_ Resolver, memo map[ID]Entity) Entity {
	if cp, ok := memo[c.ID]; ok {
		return cp
	}

	n := *c
	n.ID = NewID(CHANGESET)
	n.Tags = c.Tags.Clone()
	n.Info = nil
	n.V = 0

	memo[c.ID] = &n

	return &n
}

// AsGeoJSON always fails: a changeset has no geometry.
func (c *Changeset) AsGeoJSON(_ Resolver, _ *Policy) (orb.Geometry, error) {
	return nil, ErrNoGeometry
}
