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

func idsOf(entities []model.Entity) []model.ID {
	out := make([]model.ID, 0, len(entities))

	for _, e := range entities {
		out = append(out, e.GetID())
	}

	return out
}

func TestTreeIndexesInitialGraph(t *testing.T) {
	g, _, _, _ := ancestry()

	tree := NewTree(g)

	hits := tree.Intersects(model.Extent{Left: -1, Bottom: -1, Right: 2, Top: 1}, g)

	assert.ElementsMatch(t, []model.ID{"n1", "n2", "w1", "r1"}, idsOf(hits))
}

func TestTreeFollowsNodeMove(t *testing.T) {
	g, n1, _, _ := ancestry()
	tree := NewTree(g)

	// move the node far away; the way's box must follow
	head := g.Replace(n1.Move(50, 50))

	near := tree.Intersects(model.Extent{Left: -0.5, Bottom: -0.5, Right: 0.5, Top: 0.5}, head)
	assert.NotContains(t, idsOf(near), model.ID("n1"))

	far := tree.Intersects(model.Extent{Left: 49, Bottom: 49, Right: 51, Top: 51}, head)
	assert.Contains(t, idsOf(far), model.ID("n1"))
	assert.Contains(t, idsOf(far), model.ID("w1"), "parent way re-indexed after child moved")
	assert.Contains(t, idsOf(far), model.ID("r1"), "grandparent relation re-indexed after child moved")
}

func TestTreeSyncWalksNestedRelationCycle(t *testing.T) {
	n1 := &model.Node{ID: "n1", Lon: 0, Lat: 0}
	n2 := &model.Node{ID: "n2", Lon: 1, Lat: 0}
	w1 := &model.Way{ID: "w1", Nodes: []model.ID{"n1", "n2"}}

	// r1 and r2 contain each other
	r1 := &model.Relation{ID: "r1", Members: []model.Member{
		{ID: "w1", Role: "outer"},
		{ID: "r2"},
	}}
	r2 := &model.Relation{ID: "r2", Members: []model.Member{{ID: "r1"}}}

	g := New(n1, n2, w1, r1, r2)
	tree := NewTree(g)

	head := g.Replace(n1.Move(50, 50))

	far := idsOf(tree.Intersects(model.Extent{Left: 49, Bottom: 49, Right: 51, Top: 51}, head))

	assert.Contains(t, far, model.ID("w1"))
	assert.Contains(t, far, model.ID("r1"))
	assert.Contains(t, far, model.ID("r2"), "nested relations re-indexed through the cycle")
}

func TestTreeNeverReturnsRemovedEntities(t *testing.T) {
	g, n1, w1, _ := ancestry()
	tree := NewTree(g)

	head := g.Replace(w1.RemoveNode(n1.ID)).Remove(n1)

	everywhere := model.Extent{Left: -180, Bottom: -90, Right: 180, Top: 90}
	hits := idsOf(tree.Intersects(everywhere, head))

	assert.NotContains(t, hits, model.ID("n1"))
}

func TestTreeSyncsBackwardsAcrossUndo(t *testing.T) {
	g, n1, _, _ := ancestry()
	tree := NewTree(g)

	head := g.Replace(n1.Move(50, 50))
	_ = tree.Intersects(model.Extent{Left: 49, Bottom: 49, Right: 51, Top: 51}, head)

	// going back to the pre-move graph must restore the old box
	near := tree.Intersects(model.Extent{Left: -0.5, Bottom: -0.5, Right: 0.5, Top: 0.5}, g)
	assert.Contains(t, idsOf(near), model.ID("n1"))
}

func TestTreeDefersIncompleteEntities(t *testing.T) {
	w := &model.Way{ID: "w1", Info: &model.Info{Version: 1}, Nodes: []model.ID{"n1", "n2"}}
	g := New(w)
	tree := NewTree(g)

	everywhere := model.Extent{Left: -180, Bottom: -90, Right: 180, Top: 90}

	assert.Empty(t, tree.Intersects(everywhere, g), "way with undownloaded nodes stays unindexed")

	n1 := &model.Node{ID: "n1", Info: &model.Info{Version: 1}, Lon: 1, Lat: 1}
	n2 := &model.Node{ID: "n2", Info: &model.Info{Version: 1}, Lon: 2, Lat: 2}

	g.Rebase([]model.Entity{n1, n2}, []*Graph{g}, false)
	tree.Rebase([]model.Entity{n1, n2}, false)

	hits := idsOf(tree.Intersects(everywhere, g))
	require.Contains(t, hits, model.ID("w1"), "way indexed once its nodes arrived")
	assert.Contains(t, hits, model.ID("n1"))
}

func TestTreeRebaseSkipsStaleVersions(t *testing.T) {
	n := &model.Node{ID: "n1", Info: &model.Info{Version: 2}, Lon: 10, Lat: 10}
	g := New(n)
	tree := NewTree(g)

	// a stale rebase must not clobber the indexed position
	tree.Rebase([]model.Entity{&model.Node{ID: "n1", Info: &model.Info{Version: 1}, Lon: 0, Lat: 0}}, false)

	hits := idsOf(tree.Intersects(model.Extent{Left: 9, Bottom: 9, Right: 11, Top: 11}, g))
	assert.Contains(t, hits, model.ID("n1"))
}
