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

// Split cuts ways in two at a node.  Only ways where the node is an
// interior vertex are eligible; the original way keeps the head
// segment up to the node and a new way carries the rest, both sharing
// the split node.  Parent relations are rewritten so each piece keeps
// a sensible membership.
type Split struct {
	NodeID model.ID

	// WayIDs limits the split to the given ways; empty means every
	// eligible parent way of the node.
	WayIDs []model.ID

	// PieceIDs optionally assigns IDs to the new pieces in way order.
	// Pieces beyond the list get fresh local IDs.
	PieceIDs []model.ID

	Policy *model.Policy
}

var _ Validated = Split{}

func (a Split) Apply(g *editgraph.Graph) *editgraph.Graph {
	g, _ = a.Run(g)

	return g
}

// Run applies the split and additionally returns the IDs of the newly
// created way pieces, in the order the ways were split.
func (a Split) Run(g *editgraph.Graph) (*editgraph.Graph, []model.ID) {
	var created []model.ID

	for i, w := range a.candidates(g) {
		idx := interiorIndex(w, a.NodeID)
		if idx < 0 {
			continue
		}

		piece := &model.Way{
			ID:    a.pieceID(i),
			Tags:  w.Tags.Clone(),
			Nodes: slices.Clone(w.Nodes[idx:]),
		}

		orig := w.WithNodes(w.Nodes[:idx+1])

		g = g.Replace(orig, piece)
		created = append(created, piece.ID)

		for _, r := range g.ParentRelations(orig.ID) {
			g = splitRelationMember(g, r, orig, piece)
		}
	}

	return g, created
}

// Disabled reports "not_eligible" when no candidate way has the node
// as an interior vertex.
func (a Split) Disabled(g *editgraph.Graph) Reason {
	for _, w := range a.candidates(g) {
		if interiorIndex(w, a.NodeID) >= 0 {
			return Enabled
		}
	}

	return NotEligible
}

func (a Split) candidates(g *editgraph.Graph) []*model.Way {
	if len(a.WayIDs) == 0 {
		return g.ParentWays(a.NodeID)
	}

	out := make([]*model.Way, 0, len(a.WayIDs))

	for _, id := range a.WayIDs {
		if w, ok := findWay(g, id); ok {
			out = append(out, w)
		}
	}

	return out
}

func (a Split) pieceID(i int) model.ID {
	if i < len(a.PieceIDs) {
		return a.PieceIDs[i]
	}

	return model.NewID(model.WAY)
}

func interiorIndex(w *model.Way, id model.ID) int {
	for i := 1; i < len(w.Nodes)-1; i++ {
		if w.Nodes[i] == id {
			return i
		}
	}

	return -1
}

// splitRelationMember fixes up one relation after a member way was cut
// into orig and piece.
func splitRelationMember(g *editgraph.Graph, r *model.Relation, orig, piece *model.Way) *editgraph.Graph {
	idx := r.MemberIndex(orig.ID)
	if idx < 0 {
		return g
	}

	role := r.Members[idx].Role

	if r.IsRestriction() && (role == "from" || role == "to") {
		// only the piece still touching the via keeps the role
		vias := r.MembersByRole("via")

		if !touchesVia(g, orig, vias) && touchesVia(g, piece, vias) {
			return g.Replace(r.ReplaceMember(orig.ID, piece.ID, false))
		}

		return g
	}

	// both pieces stay members; insert the piece adjacent to the
	// original on the side matching the traversal direction
	pos := idx + 1
	if traversalEntersAtTail(g, r, idx, piece) {
		pos = idx
	}

	next := r.AddMember(model.Member{ID: piece.ID, Role: role}, pos)

	if next.Tags["public_transport:version"] == "2" {
		next = sortStopsFirst(next)
	}

	return g.Replace(next)
}

// touchesVia reports whether the way contains a via node, or shares an
// endpoint with a via way.
func touchesVia(g *editgraph.Graph, w *model.Way, vias []model.Member) bool {
	for _, via := range vias {
		switch via.Kind() {
		case model.NODE:
			if w.Contains(via.ID) {
				return true
			}
		case model.WAY:
			if vw, ok := findWay(g, via.ID); ok {
				if w.Contains(vw.First()) || w.Contains(vw.Last()) {
					return true
				}
			}
		default:
		}
	}

	return false
}

// traversalEntersAtTail reports whether the member before the original
// way connects at the piece's far end, meaning the relation traverses
// the way tail-first and the piece belongs before the original.
func traversalEntersAtTail(g *editgraph.Graph, r *model.Relation, idx int, piece *model.Way) bool {
	if idx == 0 {
		return false
	}

	prev := r.Members[idx-1]
	if prev.Kind() != model.WAY {
		return false
	}

	pw, ok := findWay(g, prev.ID)
	if !ok {
		return false
	}

	far := piece.Last()

	return pw.First() == far || pw.Last() == far
}

// sortStopsFirst stably reorders members so stop nodes precede ways and
// nested relations, the member layout PTv2 consumers expect.
func sortStopsFirst(r *model.Relation) *model.Relation {
	members := slices.Clone(r.Members)

	rank := func(m model.Member) int {
		switch m.Kind() {
		case model.NODE:
			return 0
		case model.WAY:
			return 1
		default:
			return 2
		}
	}

	slices.SortStableFunc(members, func(a, b model.Member) int {
		return rank(a) - rank(b)
	})

	if slices.Equal(members, r.Members) {
		return r
	}

	return r.WithMembers(members)
}
