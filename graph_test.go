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

package editgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmforge/editgraph/model"
)

func tJunction() (*Graph, *model.Node, *model.Way, *model.Way) {
	a := &model.Node{ID: "n1", Lon: 0, Lat: 0}
	b := &model.Node{ID: "n2", Lon: 1, Lat: 0}
	c := &model.Node{ID: "n3", Lon: 2, Lat: 0}
	d := &model.Node{ID: "n4", Lon: 1, Lat: 1}

	bar := &model.Way{ID: "w1", Nodes: []model.ID{"n1", "n2", "n3"}}
	stem := &model.Way{ID: "w2", Nodes: []model.ID{"n4", "n2"}}

	return New(a, b, c, d, bar, stem), b, bar, stem
}

func TestGraphRoundTrip(t *testing.T) {
	n := &model.Node{ID: "n1", Lon: 1, Lat: 2}
	g := New().Replace(n)

	got, ok := g.Find("n1")

	require.True(t, ok)
	assert.Same(t, n, got)
}

func TestGraphFindAbsent(t *testing.T) {
	g := New()

	_, ok := g.Find("n404")
	assert.False(t, ok)

	_, err := g.Entity("n404")
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "entity n404 not found in graph")
}

func TestGraphRemoveTombstones(t *testing.T) {
	n := &model.Node{ID: "n1"}
	g := New(n)

	removed := g.Remove(n)

	assert.False(t, removed.HasEntity("n1"))
	assert.True(t, g.HasEntity("n1"), "ancestor snapshot must be untouched")

	_, err := removed.Entity("n1")
	assert.True(t, IsNotFound(err))
}

func TestGraphReplaceLeavesAncestorUntouched(t *testing.T) {
	n := &model.Node{ID: "n1", Lon: 0, Lat: 0}
	g1 := New(n)
	g2 := g1.Replace(n.Move(5, 5))

	before, _ := g1.Find("n1")
	after, _ := g2.Find("n1")

	assert.Same(t, n, before)
	assert.Equal(t, model.Degrees(5), after.(*model.Node).Lon)
}

func TestGraphRevert(t *testing.T) {
	n := &model.Node{ID: "n1", Lon: 0, Lat: 0}
	g := New(n).Replace(n.Move(5, 5))

	reverted := g.Revert("n1")

	got, ok := reverted.Find("n1")
	require.True(t, ok)
	assert.Same(t, n, got)

	// reverting a created entity removes it
	created := New().Replace(&model.Node{ID: "n-1"})
	assert.False(t, created.Revert("n-1").HasEntity("n-1"))
}

func TestGraphParentWays(t *testing.T) {
	g, b, bar, stem := tJunction()

	parents := g.ParentWays(b.ID)

	require.Len(t, parents, 2)
	assert.Equal(t, bar.ID, parents[0].ID)
	assert.Equal(t, stem.ID, parents[1].ID)

	assert.Len(t, g.ParentWays("n1"), 1)
}

func TestGraphParentIndexFollowsEdits(t *testing.T) {
	g, b, bar, _ := tJunction()

	shrunk := g.Replace(bar.RemoveNode(b.ID))

	assert.Len(t, shrunk.ParentWays(b.ID), 1)
	assert.Len(t, g.ParentWays(b.ID), 2, "ancestor index must be untouched")

	restored := shrunk.Revert(bar.ID)
	assert.Len(t, restored.ParentWays(b.ID), 2)
}

func TestGraphParentRelations(t *testing.T) {
	w := &model.Way{ID: "w1", Nodes: []model.ID{"n1", "n2"}}
	r := &model.Relation{ID: "r1", Members: []model.Member{{ID: "w1", Role: "outer"}}}
	g := New(w, r)

	parents := g.ParentRelations("w1")

	require.Len(t, parents, 1)
	assert.Equal(t, r.ID, parents[0].ID)

	detached := g.Replace(r.RemoveMembersWithID("w1"))
	assert.Empty(t, detached.ParentRelations("w1"))
}

func TestGraphChildNodes(t *testing.T) {
	g, _, bar, _ := tJunction()

	children := g.ChildNodes(bar)

	require.Len(t, children, 3)
	assert.Equal(t, model.ID("n1"), children[0].ID)

	// undownloaded children are skipped
	ghost := &model.Way{ID: "w9", Nodes: []model.ID{"n1", "n404"}}
	assert.Len(t, g.ChildNodes(ghost), 1)
}

func TestGraphEntitiesAndLen(t *testing.T) {
	g, b, _, _ := tJunction()

	assert.Equal(t, 6, g.Len())

	removed := g.Remove(b)
	assert.Equal(t, 5, removed.Len())

	added := removed.Replace(&model.Node{ID: "n-1"})
	assert.Equal(t, 6, added.Len())

	count := 0
	added.Entities(func(model.Entity) bool {
		count++

		return true
	})
	assert.Equal(t, 6, count)
}

func TestRebaseIsIdempotent(t *testing.T) {
	g := New()

	n := &model.Node{ID: "n1", Info: &model.Info{Version: 2}, Lon: 1}
	g.Rebase([]model.Entity{n}, []*Graph{g}, false)

	got, _ := g.Find("n1")
	assert.Same(t, model.Entity(n), got)

	// same version again is a no-op
	dup := &model.Node{ID: "n1", Info: &model.Info{Version: 2}, Lon: 9}
	g.Rebase([]model.Entity{dup}, []*Graph{g}, false)

	got, _ = g.Find("n1")
	assert.Same(t, model.Entity(n), got)
}

func TestRebaseNeverRegresses(t *testing.T) {
	g := New()

	newer := &model.Node{ID: "n1", Info: &model.Info{Version: 3}, Lon: 3}
	g.Rebase([]model.Entity{newer}, []*Graph{g}, false)

	stale := &model.Node{ID: "n1", Info: &model.Info{Version: 2}, Lon: 2}
	g.Rebase([]model.Entity{stale}, []*Graph{g}, false)

	got, _ := g.Find("n1")
	assert.Same(t, model.Entity(newer), got)
}

func TestRebaseForceDropsLocalShadows(t *testing.T) {
	n := &model.Node{ID: "n1", Info: &model.Info{Version: 1}, Lon: 0}
	g := New(n)

	edited := g.Replace(n.Move(5, 5))

	fresh := &model.Node{ID: "n1", Info: &model.Info{Version: 1}, Lon: 1}
	g.Rebase([]model.Entity{fresh}, []*Graph{g, edited}, true)

	got, _ := edited.Find("n1")
	assert.Same(t, model.Entity(fresh), got, "force rebase reverts local edits")
}

func TestRebaseSharedAcrossDerivedGraphs(t *testing.T) {
	g1 := New()
	g2 := g1.Replace(&model.Node{ID: "n-1"})

	w := &model.Way{ID: "w1", Info: &model.Info{Version: 1}, Nodes: []model.ID{"n5", "n6"}}
	g1.Rebase([]model.Entity{w}, []*Graph{g1, g2}, false)

	assert.True(t, g1.HasEntity("w1"))
	assert.True(t, g2.HasEntity("w1"))
	assert.Len(t, g2.ParentWays("n5"), 1)
}

func TestRebaseRebuildsParentOverrides(t *testing.T) {
	n := &model.Node{ID: "n1"}
	g := New(n)

	// local edit references a node the base does not know yet
	edited := g.Replace(&model.Way{ID: "w-1", Nodes: []model.ID{"n1", "n2"}})

	n2 := &model.Node{ID: "n2", Info: &model.Info{Version: 1}}
	g.Rebase([]model.Entity{n2}, []*Graph{g, edited}, false)

	parents := edited.ParentWays("n2")
	require.Len(t, parents, 1)
	assert.Equal(t, model.ID("w-1"), parents[0].ID)
}
