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
	"slices"

	"github.com/tidwall/rtree"

	"github.com/osmforge/editgraph/model"
)

// treeEntry remembers the rectangle an entity is indexed under, plus
// the revisions it was computed from, so stale rebases can be detected
// and rectangles can be deleted precisely.
type treeEntry struct {
	min, max [2]float64
	local    int32
	version  int32
}

// Tree is a spatial index over the entities of a graph.  Bounding boxes
// are computed from graph geometry, so moving a node transitively
// re-indexes the ways and relations built on it.  Entities whose
// geometry cannot be resolved yet (incomplete relations, ways with
// undownloaded nodes) stay out of the index until a later rebase
// delivers the missing members.
type Tree struct {
	graph   *Graph
	index   rtree.RTreeG[model.ID]
	entries map[model.ID]treeEntry
	pending map[model.ID]struct{}
}

// NewTree creates a tree indexing the current contents of the graph.
func NewTree(g *Graph) *Tree {
	t := &Tree{
		graph:   g,
		entries: map[model.ID]treeEntry{},
		pending: map[model.ID]struct{}{},
	}

	for id := range g.base.entities {
		t.upsert(id, false)
	}

	for id := range g.local {
		t.upsert(id, false)
	}

	t.retryPending()

	return t
}

// Rebase (re)indexes the given entities and everything whose geometry
// depends on them.  Without force, an entry computed from an equal or
// newer revision is left alone, so out-of-order rebases of stale
// downloads never clobber fresher state.
func (t *Tree) Rebase(entities []model.Entity, force bool) {
	visited := map[model.ID]bool{}

	for _, e := range entities {
		id := e.GetID()
		t.upsert(id, force)
		t.touchParents(id, force, visited)
	}

	t.retryPending()
}

// Intersects returns the entities whose bounding box, computed against
// the given graph, intersects the extent.  When the graph differs from
// the tree's current one the tree first re-syncs itself using the
// difference between the two.
func (t *Tree) Intersects(extent model.Extent, g *Graph) []model.Entity {
	if g != nil && g != t.graph {
		t.sync(g)
	}

	min := [2]float64{float64(extent.Left), float64(extent.Bottom)}
	max := [2]float64{float64(extent.Right), float64(extent.Top)}

	var ids []model.ID

	t.index.Search(min, max, func(_, _ [2]float64, id model.ID) bool {
		ids = append(ids, id)

		return true
	})

	slices.Sort(ids)

	out := make([]model.Entity, 0, len(ids))

	for _, id := range ids {
		if e, ok := t.graph.Find(id); ok {
			out = append(out, e)
		}
	}

	return out
}

// sync moves the tree from its current graph to g, re-indexing exactly
// what changed between the two snapshots.
func (t *Tree) sync(g *Graph) {
	d := NewDifference(t.graph, g)
	t.graph = g

	visited := map[model.ID]bool{}

	for id, ch := range d.Changes() {
		if ch.Head == nil {
			t.drop(id)
		} else {
			// the new graph is authoritative even when its revision
			// counters run backwards, as they do across an undo
			t.upsert(id, true)
		}

		t.touchParents(id, true, visited)
	}

	t.retryPending()
}

// touchParents re-indexes the ways and relations whose geometry is
// derived from the given entity, walking nested relations with cycle
// protection.
func (t *Tree) touchParents(id model.ID, force bool, visited map[model.ID]bool) {
	for _, w := range t.graph.ParentWays(id) {
		t.upsert(w.ID, force)
		t.touchRelations(w.ID, force, visited)
	}

	t.touchRelations(id, force, visited)
}

func (t *Tree) touchRelations(id model.ID, force bool, visited map[model.ID]bool) {
	for _, r := range t.graph.ParentRelations(id) {
		if visited[r.ID] {
			continue
		}

		visited[r.ID] = true

		t.upsert(r.ID, force)
		t.touchRelations(r.ID, force, visited)
	}
}

// upsert recomputes the entity's rectangle from the tree's graph and
// replaces its index entry.  It reports whether the entity ended up
// indexed.
func (t *Tree) upsert(id model.ID, force bool) bool {
	e, ok := t.graph.Find(id)
	if !ok {
		t.drop(id)

		return false
	}

	if cur, exists := t.entries[id]; exists && !force {
		if cur.version > serverVersion(e) ||
			(cur.version == serverVersion(e) && cur.local > e.LocalVersion()) {
			return true // stale input, keep the fresher entry
		}
	}

	extent, complete := e.Extent(t.graph)
	if !complete || extent.IsEmpty() {
		t.drop(id)
		t.pending[id] = struct{}{}

		return false
	}

	if cur, exists := t.entries[id]; exists {
		t.index.Delete(cur.min, cur.max, id)
	}

	entry := treeEntry{
		min:     [2]float64{float64(extent.Left), float64(extent.Bottom)},
		max:     [2]float64{float64(extent.Right), float64(extent.Top)},
		local:   e.LocalVersion(),
		version: serverVersion(e),
	}

	t.index.Insert(entry.min, entry.max, id)
	t.entries[id] = entry
	delete(t.pending, id)

	return true
}

// drop removes the entity from the index entirely.
func (t *Tree) drop(id model.ID) {
	if cur, exists := t.entries[id]; exists {
		t.index.Delete(cur.min, cur.max, id)
		delete(t.entries, id)
	}

	delete(t.pending, id)
}

// retryPending re-attempts entities that were waiting on undownloaded
// members, looping until no further progress is made (a newly indexed
// member can complete a relation which completes another).
func (t *Tree) retryPending() {
	for {
		progress := false

		for id := range t.pending {
			if t.upsert(id, true) {
				progress = true
			}
		}

		if !progress || len(t.pending) == 0 {
			return
		}
	}
}
