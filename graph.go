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

// Package editgraph holds the versioned OpenStreetMap entity graph and
// its history primitives: immutable Graph snapshots with structural
// sharing, the Difference between two snapshots, and a spatial Tree
// index kept consistent with graph changes.
package editgraph

import (
	"maps"
	"slices"

	"github.com/osmforge/editgraph/model"
)

// base is the shared ancestor layer of a chain of graphs: the entities
// downloaded from the server plus the parent indexes derived from them.
// A base is shared by every graph in an undo chain and is mutated only
// through Rebase.
type base struct {
	entities   map[model.ID]model.Entity
	parentWays map[model.ID][]model.ID
	parentRels map[model.ID][]model.ID
}

func newBaseLayer() *base {
	return &base{
		entities:   map[model.ID]model.Entity{},
		parentWays: map[model.ID][]model.ID{},
		parentRels: map[model.ID][]model.ID{},
	}
}

func (b *base) link(e model.Entity) {
	id := e.GetID()

	for _, c := range childNodeIDs(e) {
		if !slices.Contains(b.parentWays[c], id) {
			b.parentWays[c] = append(b.parentWays[c], id)
		}
	}

	for _, c := range memberIDs(e) {
		if !slices.Contains(b.parentRels[c], id) {
			b.parentRels[c] = append(b.parentRels[c], id)
		}
	}
}

func (b *base) unlink(e model.Entity) {
	id := e.GetID()

	for _, c := range childNodeIDs(e) {
		b.parentWays[c] = deleteID(b.parentWays[c], id)
	}

	for _, c := range memberIDs(e) {
		b.parentRels[c] = deleteID(b.parentRels[c], id)
	}
}

// Graph is an immutable snapshot of the entity collection: a shared
// base layer plus a delta of locally replaced or removed entities.  A
// nil delta entry is a tombstone.  Deriving a graph through Replace,
// Remove or Revert copies only the delta, so holding many historical
// snapshots is cheap.
type Graph struct {
	base  *base
	local map[model.ID]model.Entity

	// parent index overrides for entities whose parent sets differ
	// from the base layer; map presence marks the override, even when
	// the overriding list is empty
	parentWays map[model.ID][]model.ID
	parentRels map[model.ID][]model.ID
}

var _ model.Resolver = (*Graph)(nil)

// New creates a graph whose base layer holds the given entities.
func New(entities ...model.Entity) *Graph {
	b := newBaseLayer()

	for _, e := range entities {
		b.entities[e.GetID()] = e
	}

	for _, e := range b.entities {
		b.link(e)
	}

	return &Graph{
		base:       b,
		local:      map[model.ID]model.Entity{},
		parentWays: map[model.ID][]model.ID{},
		parentRels: map[model.ID][]model.ID{},
	}
}

func (g *Graph) clone() *Graph {
	return &Graph{
		base:       g.base,
		local:      maps.Clone(g.local),
		parentWays: maps.Clone(g.parentWays),
		parentRels: maps.Clone(g.parentRels),
	}
}

// Find resolves an entity by ID, local layer first.  It never fails;
// absence (including tombstoned entities) reports ok false.
func (g *Graph) Find(id model.ID) (model.Entity, bool) {
	if e, ok := g.local[id]; ok {
		if e == nil {
			return nil, false
		}

		return e, true
	}

	if e, ok := g.base.entities[id]; ok {
		return e, true
	}

	return nil, false
}

// HasEntity reports whether the entity is visible in the graph.
func (g *Graph) HasEntity(id model.ID) bool {
	_, ok := g.Find(id)

	return ok
}

// Entity resolves an entity by ID, reporting a NotFoundError when it is
// absent from both layers.
func (g *Graph) Entity(id model.ID) (model.Entity, error) {
	e, ok := g.Find(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	return e, nil
}

// Replace derives a new graph with the given entities recorded in its
// delta layer.  Parent indexes are updated incrementally.
func (g *Graph) Replace(entities ...model.Entity) *Graph {
	c := g.clone()

	for _, e := range entities {
		id := e.GetID()
		prev, _ := c.Find(id)
		c.local[id] = e
		c.relink(id, prev, e)
	}

	return c
}

// Remove derives a new graph with the entity tombstoned.
func (g *Graph) Remove(e model.Entity) *Graph {
	c := g.clone()
	id := e.GetID()
	prev, _ := c.Find(id)
	c.local[id] = nil
	c.relink(id, prev, nil)

	return c
}

// Revert derives a new graph with any local delta entry for the ID
// dropped, restoring the base layer's view of that entity without
// touching other edits.
func (g *Graph) Revert(id model.ID) *Graph {
	c := g.clone()
	prev, _ := c.Find(id)
	delete(c.local, id)
	next := c.base.entities[id]
	c.relink(id, prev, next)

	return c
}

// Entities calls fn for every entity visible in the graph, local layer
// included, stopping early when fn returns false.  Iteration order is
// unspecified.
func (g *Graph) Entities(fn func(model.Entity) bool) {
	for _, e := range g.local {
		if e == nil {
			continue
		}

		if !fn(e) {
			return
		}
	}

	for id, e := range g.base.entities {
		if _, shadowed := g.local[id]; shadowed {
			continue
		}

		if !fn(e) {
			return
		}
	}
}

// Len reports the number of entities visible in the graph.
func (g *Graph) Len() int {
	n := len(g.base.entities)

	for id, e := range g.local {
		_, inBase := g.base.entities[id]

		switch {
		case e == nil && inBase:
			n--
		case e != nil && !inBase:
			n++
		}
	}

	return n
}

// ParentWays returns the ways containing the given node ID, in
// insertion order.
func (g *Graph) ParentWays(id model.ID) []*model.Way {
	var out []*model.Way

	for _, pid := range g.parentWayIDs(id) {
		if e, ok := g.Find(pid); ok {
			if w, isWay := e.(*model.Way); isWay {
				out = append(out, w)
			}
		}
	}

	return out
}

// ParentRelations returns the relations holding the given ID as a
// member, in insertion order.
func (g *Graph) ParentRelations(id model.ID) []*model.Relation {
	var out []*model.Relation

	for _, pid := range g.parentRelIDs(id) {
		if e, ok := g.Find(pid); ok {
			if r, isRel := e.(*model.Relation); isRel {
				out = append(out, r)
			}
		}
	}

	return out
}

// ChildNodes resolves the way's member nodes, skipping nodes that have
// not been downloaded.
func (g *Graph) ChildNodes(w *model.Way) []*model.Node {
	var out []*model.Node

	for _, id := range w.Nodes {
		if e, ok := g.Find(id); ok {
			if n, isNode := e.(*model.Node); isNode {
				out = append(out, n)
			}
		}
	}

	return out
}

// Rebase inserts freshly-downloaded entities into the base layer shared
// by every graph in graphs.  Without force, an entity whose base
// version is already equal or newer is skipped, so rebasing is
// idempotent and never regresses.  With force, the incoming entity wins
// unconditionally and any local shadow of it in graphs is dropped;
// force exists for reverts and test setup, not for normal downloads.
func (g *Graph) Rebase(entities []model.Entity, graphs []*Graph, force bool) {
	b := g.base
	changed := false

	for _, e := range entities {
		id := e.GetID()

		if cur, ok := b.entities[id]; ok {
			if !force && serverVersion(cur) >= serverVersion(e) {
				continue
			}

			b.unlink(cur)
		}

		b.entities[id] = e
		b.link(e)

		changed = true

		if force {
			for _, gr := range graphs {
				delete(gr.local, id)
			}
		}
	}

	if !changed {
		return
	}

	g.rebuildOverrides()

	for _, gr := range graphs {
		if gr != g {
			gr.rebuildOverrides()
		}
	}
}

// rebuildOverrides recomputes the graph's parent index overrides from
// its delta layer, after the shared base has changed underneath it.
func (g *Graph) rebuildOverrides() {
	g.parentWays = map[model.ID][]model.ID{}
	g.parentRels = map[model.ID][]model.ID{}

	for id, e := range g.local {
		prev := g.base.entities[id]
		g.relink(id, prev, e)
	}
}

// relink updates the parent index overrides for a transition of the
// entity id from prev to next; either may be nil.
func (g *Graph) relink(id model.ID, prev, next model.Entity) {
	prevNodes := childNodeIDs(prev)
	nextNodes := childNodeIDs(next)

	for _, c := range prevNodes {
		if !slices.Contains(nextNodes, c) {
			g.removeWayLink(c, id)
		}
	}

	for _, c := range nextNodes {
		g.addWayLink(c, id)
	}

	prevMembers := memberIDs(prev)
	nextMembers := memberIDs(next)

	for _, c := range prevMembers {
		if !slices.Contains(nextMembers, c) {
			g.removeRelLink(c, id)
		}
	}

	for _, c := range nextMembers {
		g.addRelLink(c, id)
	}
}

func (g *Graph) parentWayIDs(child model.ID) []model.ID {
	if l, ok := g.parentWays[child]; ok {
		return l
	}

	return g.base.parentWays[child]
}

func (g *Graph) parentRelIDs(child model.ID) []model.ID {
	if l, ok := g.parentRels[child]; ok {
		return l
	}

	return g.base.parentRels[child]
}

func (g *Graph) addWayLink(child, parent model.ID) {
	cur := g.parentWayIDs(child)
	if slices.Contains(cur, parent) {
		return
	}

	g.parentWays[child] = append(slices.Clone(cur), parent)
}

func (g *Graph) removeWayLink(child, parent model.ID) {
	cur := g.parentWayIDs(child)
	if !slices.Contains(cur, parent) {
		return
	}

	g.parentWays[child] = deleteID(slices.Clone(cur), parent)
}

func (g *Graph) addRelLink(child, parent model.ID) {
	cur := g.parentRelIDs(child)
	if slices.Contains(cur, parent) {
		return
	}

	g.parentRels[child] = append(slices.Clone(cur), parent)
}

func (g *Graph) removeRelLink(child, parent model.ID) {
	cur := g.parentRelIDs(child)
	if !slices.Contains(cur, parent) {
		return
	}

	g.parentRels[child] = deleteID(slices.Clone(cur), parent)
}

// childNodeIDs returns the unique node IDs referenced by a way, or nil
// for any other entity.
func childNodeIDs(e model.Entity) []model.ID {
	w, ok := e.(*model.Way)
	if !ok {
		return nil
	}

	out := make([]model.ID, 0, len(w.Nodes))

	for _, id := range w.Nodes {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}

// memberIDs returns the unique member IDs referenced by a relation, or
// nil for any other entity.
func memberIDs(e model.Entity) []model.ID {
	r, ok := e.(*model.Relation)
	if !ok {
		return nil
	}

	out := make([]model.ID, 0, len(r.Members))

	for _, m := range r.Members {
		if !slices.Contains(out, m.ID) {
			out = append(out, m.ID)
		}
	}

	return out
}

func deleteID(ids []model.ID, id model.ID) []model.ID {
	return slices.DeleteFunc(ids, func(x model.ID) bool { return x == id })
}

func serverVersion(e model.Entity) int32 {
	if info := e.GetInfo(); info != nil {
		return info.Version
	}

	return 0
}
