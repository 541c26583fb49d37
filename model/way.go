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
	"slices"

	"github.com/paulmach/orb"
)

// Way is an ordered list of nodes that defines a polyline, or an area
// when closed and tagged accordingly.  Treat a Way as immutable:
// mutators copy the way, bump the local revision and return the copy.
type Way struct {
	ID    ID
	Tags  Tags
	Info  *Info
	V     int32
	Nodes []ID
}

var _ Entity = (*Way)(nil)

// NewWay creates a brand-new local way.
func NewWay(nodes []ID, tags Tags) *Way {
	return &Way{ID: NewID(WAY), Tags: tags.Clone(), Nodes: slices.Clone(nodes)}
}

func (w *Way) isEntity() {}

func (w *Way) GetID() ID { return w.ID }

func (w *Way) GetTags() Tags { return w.Tags }

func (w *Way) GetInfo() *Info { return w.Info }

func (w *Way) EntityKind() Kind { return WAY }

func (w *Way) LocalVersion() int32 { return w.V }

// First returns the first node ID, or "" for an empty way.
func (w *Way) First() ID {
	if len(w.Nodes) == 0 {
		return ""
	}

	return w.Nodes[0]
}

// Last returns the last node ID, or "" for an empty way.
func (w *Way) Last() ID {
	if len(w.Nodes) == 0 {
		return ""
	}

	return w.Nodes[len(w.Nodes)-1]
}

// IsClosed reports whether the way forms a loop.
func (w *Way) IsClosed() bool {
	return len(w.Nodes) > 2 && w.First() == w.Last()
}

// Contains reports whether the way references the given node ID.
func (w *Way) Contains(id ID) bool {
	return slices.Contains(w.Nodes, id)
}

// IsInterior reports whether the node occurs in the way at a position
// other than an endpoint.
func (w *Way) IsInterior(id ID) bool {
	for i := 1; i < len(w.Nodes)-1; i++ {
		if w.Nodes[i] == id {
			return true
		}
	}

	return false
}

// WithNodes returns a copy of the way carrying the given node list.
func (w *Way) WithNodes(nodes []ID) *Way {
	c := *w
	c.Nodes = slices.Clone(nodes)
	c.V++

	return &c
}

// AddNode returns a copy of the way with the node inserted at index i,
// or appended when i is out of range.
func (w *Way) AddNode(id ID, i int) *Way {
	if i < 0 || i > len(w.Nodes) {
		i = len(w.Nodes)
	}

	nodes := slices.Insert(slices.Clone(w.Nodes), i, id)

	return w.WithNodes(nodes)
}

// UpdateNode returns a copy of the way with the node at index i
// replaced.
func (w *Way) UpdateNode(id ID, i int) *Way {
	nodes := slices.Clone(w.Nodes)
	nodes[i] = id

	return w.WithNodes(nodes)
}

// RemoveNode returns a copy of the way with every occurrence of the
// node removed, collapsing any duplicates the removal exposes and
// preserving closedness.
func (w *Way) RemoveNode(id ID) *Way {
	nodes := make([]ID, 0, len(w.Nodes))

	for _, n := range w.Nodes {
		if n == id || (len(nodes) > 0 && nodes[len(nodes)-1] == n) {
			continue
		}

		nodes = append(nodes, n)
	}

	if w.IsClosed() && len(nodes) > 1 && nodes[0] != nodes[len(nodes)-1] {
		nodes = append(nodes, nodes[0])
	}

	return w.WithNodes(nodes)
}

// ReplaceNode returns a copy of the way with every occurrence of old
// replaced by new, collapsing any duplicates the replacement exposes.
func (w *Way) ReplaceNode(old, new ID) *Way {
	nodes := make([]ID, 0, len(w.Nodes))

	for _, n := range w.Nodes {
		if n == old {
			n = new
		}

		if len(nodes) > 0 && nodes[len(nodes)-1] == n {
			continue
		}

		nodes = append(nodes, n)
	}

	if w.IsClosed() && len(nodes) > 1 && nodes[0] != nodes[len(nodes)-1] {
		nodes = append(nodes, nodes[0])
	}

	return w.WithNodes(nodes)
}

// WithTags returns a copy of the way carrying the given tags.
func (w *Way) WithTags(t Tags) Entity {
	c := *w
	c.Tags = t.Clone()
	c.V++

	return &c
}

// MergeTags merges the given tags into the way's own.  A merge
// producing no change returns the way itself.
func (w *Way) MergeTags(t Tags) Entity {
	merged, changed := MergeTags(w.Tags, t)
	if !changed {
		return w
	}

	c := *w
	c.Tags = merged
	c.V++

	return &c
}

// HasInterestingTags reports whether the way carries tags of
// cartographic interest.
func (w *Way) HasInterestingTags(p *Policy) bool {
	return policyOrDefault(p).InterestingTags(w.Tags)
}

// IsDegenerate reports whether the way has too few nodes to draw.
func (w *Way) IsDegenerate() bool {
	unique := map[ID]bool{}

	for _, n := range w.Nodes {
		unique[n] = true
	}

	return len(unique) < 2
}

// Extent computes the bounding box over the way's member nodes.  ok is
// false when any referenced node is missing from the resolver.
func (w *Way) Extent(r Resolver) (Extent, bool) {
	extent := EmptyExtent()
	complete := true

	for _, id := range w.Nodes {
		e, ok := r.Find(id)
		if !ok {
			complete = false

			continue
		}

		n, ok := e.(*Node)
		if !ok {
			complete = false

			continue
		}

		extent = extent.ExtendPoint(n.Lon, n.Lat)
	}

	return extent, complete
}

// Copy returns a brand-new unsaved clone of the way, deep-copying the
// member nodes reachable through r.
func (w *Way) Copy(r Resolver, memo map[ID]Entity) Entity {
	if c, ok := memo[w.ID]; ok {
		return c
	}

	c := *w
	c.ID = NewID(WAY)
	c.Tags = w.Tags.Clone()
	c.Info = nil
	c.V = 0
	c.Nodes = make([]ID, len(w.Nodes))

	memo[w.ID] = &c

	for i, id := range w.Nodes {
		// nodes not yet downloaded keep their original reference
		c.Nodes[i] = id

		if child, ok := r.Find(id); ok {
			c.Nodes[i] = child.Copy(r, memo).GetID()
		}
	}

	return &c
}

// AsGeoJSON converts the way to a GeoJSON line string, or a polygon
// when the way is closed and its tags imply an area.
func (w *Way) AsGeoJSON(r Resolver, p *Policy) (orb.Geometry, error) {
	line := make(orb.LineString, 0, len(w.Nodes))

	for _, id := range w.Nodes {
		e, ok := r.Find(id)
		if !ok {
			return nil, ErrIncomplete
		}

		n, ok := e.(*Node)
		if !ok {
			return nil, ErrIncomplete
		}

		line = append(line, orb.Point{float64(n.Lon), float64(n.Lat)})
	}

	if w.IsClosed() && policyOrDefault(p).IsArea(w.Tags) {
		return orb.Polygon{orb.Ring(line)}, nil
	}

	return line, nil
}
