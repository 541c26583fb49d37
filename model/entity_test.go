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
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver is a trivial Resolver over a fixed entity set.
type mapResolver map[ID]Entity

func (m mapResolver) Find(id ID) (Entity, bool) {
	e, ok := m[id]

	return e, ok
}

func TestNodeMoveIsCopyOnWrite(t *testing.T) {
	n := &Node{ID: "n1", Lon: 0, Lat: 0}

	moved := n.Move(2, 3)

	assert.Equal(t, Degrees(0), n.Lon)
	assert.Equal(t, Degrees(2), moved.Lon)
	assert.Equal(t, Degrees(3), moved.Lat)
	assert.Equal(t, n.V+1, moved.V)
	assert.NotSame(t, n, moved)
}

func TestNodeWithTagsBumpsVersion(t *testing.T) {
	n := &Node{ID: "n1"}

	tagged := n.WithTags(Tags{"amenity": "cafe"})

	assert.Equal(t, int32(0), n.LocalVersion())
	assert.Equal(t, int32(1), tagged.LocalVersion())
	assert.Empty(t, n.Tags)
}

func TestNodeDegenerate(t *testing.T) {
	assert.False(t, (&Node{ID: "n1", Lon: 10, Lat: 10}).IsDegenerate())
	assert.True(t, (&Node{ID: "n1", Lon: 181, Lat: 10}).IsDegenerate())
	assert.True(t, (&Node{ID: "n1", Lon: 10, Lat: -91}).IsDegenerate())
}

func TestWayRemoveNodePreservesClosedness(t *testing.T) {
	w := &Way{ID: "w1", Nodes: []ID{"n1", "n2", "n3", "n4", "n1"}}
	require.True(t, w.IsClosed())

	out := w.RemoveNode("n1")

	assert.Equal(t, []ID{"n2", "n3", "n4", "n2"}, out.Nodes)
	assert.True(t, out.IsClosed())
}

func TestWayRemoveNodeCollapsesDuplicates(t *testing.T) {
	w := &Way{ID: "w1", Nodes: []ID{"n1", "n2", "n1", "n2", "n3"}}

	out := w.RemoveNode("n1")

	assert.Equal(t, []ID{"n2", "n3"}, out.Nodes)
}

func TestWayReplaceNode(t *testing.T) {
	w := &Way{ID: "w1", Nodes: []ID{"n1", "n2", "n3"}}

	out := w.ReplaceNode("n2", "n9")

	assert.Equal(t, []ID{"n1", "n9", "n3"}, out.Nodes)
	assert.Equal(t, []ID{"n1", "n2", "n3"}, w.Nodes)
}

func TestWayIsInterior(t *testing.T) {
	w := &Way{ID: "w1", Nodes: []ID{"n1", "n2", "n3"}}

	assert.True(t, w.IsInterior("n2"))
	assert.False(t, w.IsInterior("n1"))
	assert.False(t, w.IsInterior("n3"))
}

func TestWayDegenerate(t *testing.T) {
	assert.True(t, (&Way{ID: "w1", Nodes: []ID{"n1", "n1"}}).IsDegenerate())
	assert.False(t, (&Way{ID: "w1", Nodes: []ID{"n1", "n2"}}).IsDegenerate())
}

func TestWayExtentIncomplete(t *testing.T) {
	r := mapResolver{"n1": &Node{ID: "n1", Lon: 1, Lat: 2}}
	w := &Way{ID: "w1", Nodes: []ID{"n1", "n2"}}

	extent, ok := w.Extent(r)

	assert.False(t, ok)
	assert.Equal(t, PointExtent(1, 2), extent)
}

func TestWayAsGeoJSONArea(t *testing.T) {
	r := mapResolver{
		"n1": &Node{ID: "n1", Lon: 0, Lat: 0},
		"n2": &Node{ID: "n2", Lon: 1, Lat: 0},
		"n3": &Node{ID: "n3", Lon: 1, Lat: 1},
	}

	closed := &Way{ID: "w1", Tags: Tags{"building": "yes"}, Nodes: []ID{"n1", "n2", "n3", "n1"}}

	geom, err := closed.AsGeoJSON(r, nil)
	require.NoError(t, err)
	assert.IsType(t, orb.Polygon{}, geom)

	open := &Way{ID: "w2", Tags: Tags{"highway": "residential"}, Nodes: []ID{"n1", "n2", "n3"}}

	geom, err = open.AsGeoJSON(r, nil)
	require.NoError(t, err)
	assert.IsType(t, orb.LineString{}, geom)
}

func TestRelationReplaceMemberDropsDuplicates(t *testing.T) {
	r := &Relation{ID: "r1", Members: []Member{
		{ID: "w1", Role: "outer"},
		{ID: "w2", Role: "outer"},
	}}

	out := r.ReplaceMember("w2", "w1", false)

	assert.Equal(t, []Member{{ID: "w1", Role: "outer"}}, out.Members)

	kept := r.ReplaceMember("w2", "w1", true)

	assert.Len(t, kept.Members, 2)
}

func TestRelationRouteDetection(t *testing.T) {
	assert.True(t, (&Relation{ID: "r1", Tags: Tags{"type": "route"}}).IsRoute())
	assert.True(t, (&Relation{ID: "r1", Tags: Tags{"type": "public_transport"}}).IsRoute())
	assert.False(t, (&Relation{ID: "r1", Tags: Tags{"type": "multipolygon"}}).IsRoute())

	assert.True(t, (&Relation{ID: "r1", Tags: Tags{"type": "restriction"}}).IsRestriction())
}

func TestRelationExtentRecursesAndTerminates(t *testing.T) {
	inner := &Relation{ID: "r2", Members: []Member{{ID: "n1"}, {ID: "r1"}}}
	outer := &Relation{ID: "r1", Members: []Member{{ID: "r2"}}}

	r := mapResolver{
		"n1": &Node{ID: "n1", Lon: 3, Lat: 4},
		"r1": outer,
		"r2": inner,
	}

	extent, ok := outer.Extent(r)

	assert.True(t, ok)
	assert.Equal(t, PointExtent(3, 4), extent)
}

func TestCopyDeepClonesChildren(t *testing.T) {
	r := mapResolver{
		"n1": &Node{ID: "n1", Lon: 0, Lat: 0},
		"n2": &Node{ID: "n2", Lon: 1, Lat: 1},
	}
	w := &Way{ID: "w1", Tags: Tags{"building": "yes"}, Nodes: []ID{"n1", "n2", "n1"}}

	memo := map[ID]Entity{}
	c := w.Copy(r, memo).(*Way)

	assert.True(t, c.ID.IsNew())
	assert.Nil(t, c.Info)
	assert.Equal(t, int32(0), c.LocalVersion())
	assert.Equal(t, w.Tags, c.Tags)

	// shared children stay shared in the copy
	assert.Equal(t, c.Nodes[0], c.Nodes[2])
	assert.NotEqual(t, w.Nodes[0], c.Nodes[0])
	assert.True(t, c.Nodes[0].IsNew())
}

func TestCopyCyclicRelationTerminates(t *testing.T) {
	a := &Relation{ID: "r1", Members: []Member{{ID: "r2", Role: "child"}}}
	b := &Relation{ID: "r2", Members: []Member{{ID: "r1", Role: "parent"}}}

	r := mapResolver{"r1": a, "r2": b}

	memo := map[ID]Entity{}
	c := a.Copy(r, memo).(*Relation)

	cb := memo["r2"].(*Relation)

	assert.Equal(t, c.Members[0].ID, cb.ID)
	assert.Equal(t, cb.Members[0].ID, c.ID)
}

func TestChangesetHasNoGeometry(t *testing.T) {
	c := NewChangeset(Tags{"comment": "test edit"})

	assert.True(t, c.IsDegenerate())

	_, err := c.AsGeoJSON(nil, nil)
	assert.ErrorIs(t, err, ErrNoGeometry)

	extent, ok := c.Extent(nil)
	assert.True(t, ok)
	assert.True(t, extent.IsEmpty())
}
