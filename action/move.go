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
	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/model"
)

// MoveNode relocates a node to the given position.  Transition renders
// the node part-way along the straight line from its current position.
type MoveNode struct {
	ID  model.ID
	Lon model.Degrees
	Lat model.Degrees
}

var _ Transitionable = MoveNode{}

func (a MoveNode) Apply(g *editgraph.Graph) *editgraph.Graph {
	n, ok := findNode(g, a.ID)
	if !ok {
		return g
	}

	if n.Lon == a.Lon && n.Lat == a.Lat {
		return g
	}

	return g.Replace(n.Move(a.Lon, a.Lat))
}

func (a MoveNode) Transition(g *editgraph.Graph, t float64) *editgraph.Graph {
	n, ok := findNode(g, a.ID)
	if !ok {
		return g
	}

	return g.Replace(n.Move(
		lerp(n.Lon, a.Lon, t),
		lerp(n.Lat, a.Lat, t),
	))
}

func findNode(g *editgraph.Graph, id model.ID) (*model.Node, bool) {
	e, ok := g.Find(id)
	if !ok {
		return nil, false
	}

	n, ok := e.(*model.Node)

	return n, ok
}

func findWay(g *editgraph.Graph, id model.ID) (*model.Way, bool) {
	e, ok := g.Find(id)
	if !ok {
		return nil, false
	}

	w, ok := e.(*model.Way)

	return w, ok
}

func findRelation(g *editgraph.Graph, id model.ID) (*model.Relation, bool) {
	e, ok := g.Find(id)
	if !ok {
		return nil, false
	}

	r, ok := e.(*model.Relation)

	return r, ok
}
