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

package action

import (
	"slices"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/model"
)

// DeleteNode removes a node, detaching it from every parent way and
// relation first.  Parents left degenerate by the detachment are
// deleted in turn.
type DeleteNode struct {
	ID     model.ID
	Policy *model.Policy
}

var _ Validated = DeleteNode{}

func (a DeleteNode) Apply(g *editgraph.Graph) *editgraph.Graph {
	return deleteNode(g, a.ID, a.Policy, map[model.ID]bool{})
}

// Disabled reports "part_of_relation" when the node is a relation
// member, so callers can warn before breaking the relation.  The check
// is advisory; Apply still deletes and detaches the memberships.
func (a DeleteNode) Disabled(g *editgraph.Graph) Reason {
	return partOfRelation(g, a.ID)
}

// DeleteWay removes a way, detaching it from every parent relation.
// Child nodes that end up parentless and carry no interesting tags are
// swept away with it.
type DeleteWay struct {
	ID     model.ID
	Policy *model.Policy
}

var _ Validated = DeleteWay{}

func (a DeleteWay) Apply(g *editgraph.Graph) *editgraph.Graph {
	return deleteWay(g, a.ID, a.Policy, map[model.ID]bool{})
}

// Disabled reports "part_of_relation" when the way is a relation
// member; advisory, as for DeleteNode.
func (a DeleteWay) Disabled(g *editgraph.Graph) Reason {
	return partOfRelation(g, a.ID)
}

// DeleteRelation removes a relation.  Former members that end up
// parentless and carry no interesting tags are swept away with it.
type DeleteRelation struct {
	ID     model.ID
	Policy *model.Policy
}

var _ Validated = DeleteRelation{}

func (a DeleteRelation) Apply(g *editgraph.Graph) *editgraph.Graph {
	return deleteRelation(g, a.ID, a.Policy, map[model.ID]bool{})
}

// Disabled reports "part_of_relation" when the relation is itself a
// member of another relation; advisory, as for DeleteNode.
func (a DeleteRelation) Disabled(g *editgraph.Graph) Reason {
	return partOfRelation(g, a.ID)
}

// DeleteMembers removes the members at the given indexes from a
// relation.  A relation left with no members is deleted.
type DeleteMembers struct {
	ID      model.ID
	Indexes []int
	Policy  *model.Policy
}

func (a DeleteMembers) Apply(g *editgraph.Graph) *editgraph.Graph {
	r, ok := findRelation(g, a.ID)
	if !ok {
		return g
	}

	// delete back to front so earlier indexes stay valid
	indexes := slices.Clone(a.Indexes)
	slices.Sort(indexes)

	for i := len(indexes) - 1; i >= 0; i-- {
		idx := indexes[i]
		if idx < 0 || idx >= len(r.Members) {
			continue
		}

		r = r.RemoveMember(idx)
	}

	g = g.Replace(r)

	if r.IsDegenerate() {
		g = deleteRelation(g, r.ID, a.Policy, map[model.ID]bool{})
	}

	return g
}

func deleteNode(g *editgraph.Graph, id model.ID, p *model.Policy, visited map[model.ID]bool) *editgraph.Graph {
	if visited[id] {
		return g
	}

	visited[id] = true

	n, ok := findNode(g, id)
	if !ok {
		return g
	}

	for _, w := range g.ParentWays(id) {
		next := w.RemoveNode(id)
		g = g.Replace(next)

		if next.IsDegenerate() {
			g = deleteWay(g, next.ID, p, visited)
		}
	}

	g = detachFromRelations(g, id, p, visited)

	return g.Remove(n)
}

func deleteWay(g *editgraph.Graph, id model.ID, p *model.Policy, visited map[model.ID]bool) *editgraph.Graph {
	if visited[id] {
		return g
	}

	visited[id] = true

	w, ok := findWay(g, id)
	if !ok {
		return g
	}

	g = detachFromRelations(g, id, p, visited)
	g = g.Remove(w)

	for _, nid := range uniqueIDs(w.Nodes) {
		n, ok := findNode(g, nid)
		if !ok {
			continue
		}

		if canSweepNode(g, n, p) {
			g = g.Remove(n)
		}
	}

	return g
}

func deleteRelation(g *editgraph.Graph, id model.ID, p *model.Policy, visited map[model.ID]bool) *editgraph.Graph {
	if visited[id] {
		return g
	}

	visited[id] = true

	r, ok := findRelation(g, id)
	if !ok {
		return g
	}

	g = detachFromRelations(g, id, p, visited)
	g = g.Remove(r)

	for _, m := range r.Members {
		e, ok := g.Find(m.ID)
		if !ok {
			continue
		}

		n, isNode := e.(*model.Node)
		if isNode && canSweepNode(g, n, p) {
			g = g.Remove(n)
		}
	}

	return g
}

// detachFromRelations strips every membership of id, deleting relations
// the detachment leaves empty.
func detachFromRelations(g *editgraph.Graph, id model.ID, p *model.Policy, visited map[model.ID]bool) *editgraph.Graph {
	for _, r := range g.ParentRelations(id) {
		next := r.RemoveMembersWithID(id)
		g = g.Replace(next)

		if next.IsDegenerate() {
			g = deleteRelation(g, next.ID, p, visited)
		}
	}

	return g
}

func partOfRelation(g *editgraph.Graph, id model.ID) Reason {
	if len(g.ParentRelations(id)) > 0 {
		return PartOfRelation
	}

	return Enabled
}

// canSweepNode reports whether a node orphaned by a deletion should be
// removed along with its former parent: no remaining parents and no
// tags of cartographic interest.
func canSweepNode(g *editgraph.Graph, n *model.Node, p *model.Policy) bool {
	if n.HasInterestingTags(p) {
		return false
	}

	return len(g.ParentWays(n.ID)) == 0 && len(g.ParentRelations(n.ID)) == 0
}

func uniqueIDs(ids []model.ID) []model.ID {
	out := make([]model.ID, 0, len(ids))

	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}
