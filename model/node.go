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
	"math"

	"github.com/paulmach/orb"
)

// Node represents a specific point on the earth's surface defined by
// its latitude and longitude.  Treat a Node as immutable: mutators copy
// the node, bump the local revision and return the copy.
type Node struct {
	ID   ID
	Tags Tags
	Info *Info
	V    int32
	Lon  Degrees
	Lat  Degrees
}

var _ Entity = (*Node)(nil)

// NewNode creates a brand-new local node.
func NewNode(lon, lat Degrees, tags Tags) *Node {
	return &Node{ID: NewID(NODE), Tags: tags.Clone(), Lon: lon, Lat: lat}
}

func (n *Node) isEntity() {}

func (n *Node) GetID() ID { return n.ID }

func (n *Node) GetTags() Tags { return n.Tags }

func (n *Node) GetInfo() *Info { return n.Info }

func (n *Node) EntityKind() Kind { return NODE }

func (n *Node) LocalVersion() int32 { return n.V }

// Move returns a copy of the node at the given location.
func (n *Node) Move(lon, lat Degrees) *Node {
	c := *n
	c.Lon = lon
	c.Lat = lat
	c.V++

	return &c
}

// WithTags returns a copy of the node carrying the given tags.
func (n *Node) WithTags(t Tags) Entity {
	c := *n
	c.Tags = t.Clone()
	c.V++

	return &c
}

// MergeTags merges the given tags into the node's own.  A merge
// producing no change returns the node itself.
func (n *Node) MergeTags(t Tags) Entity {
	merged, changed := MergeTags(n.Tags, t)
	if !changed {
		return n
	}

	c := *n
	c.Tags = merged
	c.V++

	return &c
}

// HasInterestingTags reports whether the node carries tags of
// cartographic interest.
func (n *Node) HasInterestingTags(p *Policy) bool {
	return policyOrDefault(p).InterestingTags(n.Tags)
}

// IsDegenerate reports whether the node lacks a usable location.
func (n *Node) IsDegenerate() bool {
	return math.IsNaN(float64(n.Lon)) || math.IsNaN(float64(n.Lat)) ||
		n.Lon < MinLon || n.Lon > MaxLon || n.Lat < MinLat || n.Lat > MaxLat
}

// Extent returns the degenerate extent covering the node's location.
func (n *Node) Extent(_ Resolver) (Extent, bool) {
	return PointExtent(n.Lon, n.Lat), true
}

// Copy returns a brand-new unsaved clone of the node.
func (n *Node) Copy(_ Resolver, memo map[ID]Entity) Entity {
	if c, ok := memo[n.ID]; ok {
		return c
	}

	c := *n
	c.ID = NewID(NODE)
	c.Tags = n.Tags.Clone()
	c.Info = nil
	c.V = 0

	memo[n.ID] = &c

	return &c
}

// AsGeoJSON converts the node to a GeoJSON point.
func (n *Node) AsGeoJSON(_ Resolver, _ *Policy) (orb.Geometry, error) {
	return orb.Point{float64(n.Lon), float64(n.Lat)}, nil
}
