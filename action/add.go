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

// Add records the given entities in the graph, replacing any prior
// state they carry the IDs of.
type Add struct {
	Entities []model.Entity
}

// AddEntity adds a single entity.
func AddEntity(e model.Entity) Add {
	return Add{Entities: []model.Entity{e}}
}

func (a Add) Apply(g *editgraph.Graph) *editgraph.Graph {
	if len(a.Entities) == 0 {
		return g
	}

	return g.Replace(a.Entities...)
}

// AddVertex inserts an existing node into a way at the given index.
type AddVertex struct {
	WayID  model.ID
	NodeID model.ID
	Index  int
}

func (a AddVertex) Apply(g *editgraph.Graph) *editgraph.Graph {
	e, ok := g.Find(a.WayID)
	if !ok {
		return g
	}

	w, ok := e.(*model.Way)
	if !ok {
		return g
	}

	return g.Replace(w.AddNode(a.NodeID, a.Index))
}
