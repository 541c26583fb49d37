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

	"github.com/osmforge/editgraph/model"
)

// Change is one entity's before/after pair in a Difference.  A nil Base
// marks a creation, a nil Head a deletion.
type Change struct {
	Base model.Entity
	Head model.Entity
}

// ChangeType classifies a change for consumers.
type ChangeType string

const (
	Created  ChangeType = "created"
	Modified ChangeType = "modified"
	Deleted  ChangeType = "deleted"
)

// ChangeSummary is one entry of Difference.Summary: the snapshot a
// consumer should report, which is not always the entity that changed
// (a moved vertex surfaces as its parent way).
type ChangeSummary struct {
	ChangeType ChangeType
	Entity     model.Entity
	Graph      *Graph
}

// Difference describes the entities whose final state differs between
// two graph snapshots.  Entities created and deleted within the span,
// or modified and reverted, never appear.
//
// Entities resident in a graph are only ever replaced wholesale and
// every replacement bumps the local revision, so pointer equality is
// value equality here and no deep comparison is performed.
type Difference struct {
	base    *Graph
	head    *Graph
	changes map[model.ID]Change
}

// NewDifference computes the difference between two graphs sharing a
// base chain.  A nil base treats everything visible in head as newly
// created; a nil head yields an empty difference.
func NewDifference(base, head *Graph) *Difference {
	d := &Difference{base: base, head: head, changes: map[model.ID]Change{}}

	if head == nil {
		return d
	}

	if base == nil {
		for id := range head.base.entities {
			if h, ok := head.Find(id); ok {
				d.changes[id] = Change{Head: h}
			}
		}

		for id, h := range head.local {
			if h != nil {
				d.changes[id] = Change{Head: h}
			}
		}

		return d
	}

	for id := range head.local {
		d.compare(id)
	}

	for id := range base.local {
		if _, done := d.changes[id]; !done {
			d.compare(id)
		}
	}

	return d
}

func (d *Difference) compare(id model.ID) {
	b, _ := d.base.Find(id)
	h, _ := d.head.Find(id)

	if b == h {
		return
	}

	d.changes[id] = Change{Base: b, Head: h}
}

// Empty reports whether no entity changed.
func (d *Difference) Empty() bool { return len(d.changes) == 0 }

// Len returns the number of changed entities.
func (d *Difference) Len() int { return len(d.changes) }

// Changes returns the raw change set keyed by entity ID.
func (d *Difference) Changes() map[model.ID]Change { return d.changes }

// Head returns the head graph of the difference.
func (d *Difference) Head() *Graph { return d.head }

// IDs returns the changed entity IDs in sorted order.
func (d *Difference) IDs() []model.ID {
	ids := make([]model.ID, 0, len(d.changes))

	for id := range d.changes {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Created returns the entities that exist only in head, sorted by ID.
func (d *Difference) Created() []model.Entity {
	var out []model.Entity

	for _, id := range d.IDs() {
		if ch := d.changes[id]; ch.Base == nil && ch.Head != nil {
			out = append(out, ch.Head)
		}
	}

	return out
}

// Modified returns the entities present in both graphs with differing
// state, sorted by ID.
func (d *Difference) Modified() []model.Entity {
	var out []model.Entity

	for _, id := range d.IDs() {
		if ch := d.changes[id]; ch.Base != nil && ch.Head != nil {
			out = append(out, ch.Head)
		}
	}

	return out
}

// Deleted returns the entities that exist only in base, sorted by ID.
func (d *Difference) Deleted() []model.Entity {
	var out []model.Entity

	for _, id := range d.IDs() {
		if ch := d.changes[id]; ch.Base != nil && ch.Head == nil {
			out = append(out, ch.Base)
		}
	}

	return out
}

// Complete returns the changed entities plus everything transitively
// affected by them: child nodes of changed ways, parent ways of changed
// nodes, and parent relations of all of those, walked recursively with
// cycle protection.  Entities deleted in head map to nil.
func (d *Difference) Complete() map[model.ID]model.Entity {
	result := map[model.ID]model.Entity{}
	visited := map[model.ID]bool{}

	for id, ch := range d.changes {
		h := ch.Head
		result[id] = h

		// restyling a way touches its child nodes in either snapshot
		for _, e := range []model.Entity{ch.Base, ch.Head} {
			if w, ok := e.(*model.Way); ok {
				for _, nid := range w.Nodes {
					he, _ := d.head.Find(nid)
					result[nid] = he
				}
			}
		}

		// a changed node redraws every way it participates in
		if _, isNode := firstNonNil(ch.Base, ch.Head).(*model.Node); isNode {
			for _, w := range d.parentWaysOf(id) {
				result[w.ID] = w
				d.addParentRelations(w.ID, result, visited)
			}
		}

		d.addParentRelations(id, result, visited)
	}

	return result
}

// parentWaysOf collects parent ways of the ID from both snapshots, so
// deletions still invalidate the ways that used to contain them.
func (d *Difference) parentWaysOf(id model.ID) []*model.Way {
	out := d.head.ParentWays(id)

	if d.base != nil {
		for _, w := range d.base.ParentWays(id) {
			if cur, ok := d.head.Find(w.ID); ok {
				w, _ = cur.(*model.Way)
			}

			if w != nil && !slices.ContainsFunc(out, func(o *model.Way) bool { return o.ID == w.ID }) {
				out = append(out, w)
			}
		}
	}

	return out
}

func (d *Difference) addParentRelations(id model.ID, result map[model.ID]model.Entity, visited map[model.ID]bool) {
	if visited[id] {
		return
	}

	visited[id] = true

	rels := d.head.ParentRelations(id)

	if d.base != nil {
		for _, r := range d.base.ParentRelations(id) {
			if cur, ok := d.head.Find(r.ID); ok {
				r, _ = cur.(*model.Relation)
			}

			if r != nil && !slices.ContainsFunc(rels, func(o *model.Relation) bool { return o.ID == r.ID }) {
				rels = append(rels, r)
			}
		}
	}

	for _, r := range rels {
		result[r.ID] = r
		d.addParentRelations(r.ID, result, visited)
	}
}

// Summary classifies the difference for reporting, suppressing bare
// vertex changes in favor of their parent ways.  A changed vertex is
// reported standalone only when it carries tags of cartographic
// interest under the policy (nil means the default policy).
func (d *Difference) Summary(p *model.Policy) map[model.ID]ChangeSummary {
	relevant := map[model.ID]ChangeSummary{}

	addEntity := func(e model.Entity, ct ChangeType) {
		relevant[e.GetID()] = ChangeSummary{ChangeType: ct, Entity: e, Graph: d.head}
	}

	addParents := func(id model.ID, graph *Graph) {
		for _, w := range graph.ParentWays(id) {
			if cur, ok := d.head.Find(w.ID); ok {
				if hw, isWay := cur.(*model.Way); isWay {
					w = hw
				}
			}

			if _, already := relevant[w.ID]; already {
				continue
			}

			if _, created := d.changes[w.ID]; created && d.changes[w.ID].Base == nil {
				addEntity(w, Created)
			} else {
				addEntity(w, Modified)
			}
		}
	}

	for id, ch := range d.changes {
		switch {
		case ch.Head == nil:
			// deletion: a bare vertex deletion surfaces as its former
			// parent ways
			n, isNode := ch.Base.(*model.Node)
			if isNode && !n.HasInterestingTags(p) && len(d.base.ParentWays(id)) > 0 {
				addParents(id, d.base)

				continue
			}

			relevant[id] = ChangeSummary{ChangeType: Deleted, Entity: ch.Base, Graph: d.base}

		default:
			ct := Modified
			if ch.Base == nil {
				ct = Created
			}

			n, isNode := ch.Head.(*model.Node)
			if isNode && len(d.head.ParentWays(id)) > 0 {
				addParents(id, d.head)

				// interesting vertices are worth reporting on their own
				if n.HasInterestingTags(p) {
					addEntity(ch.Head, ct)
				}

				continue
			}

			addEntity(ch.Head, ct)
		}
	}

	return relevant
}

func firstNonNil(entities ...model.Entity) model.Entity {
	for _, e := range entities {
		if e != nil {
			return e
		}
	}

	return nil
}
