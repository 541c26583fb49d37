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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/model"
)

// ring builds a closed way w1 over the given corner coordinates.
func ring(coords ...[2]model.Degrees) *editgraph.Graph {
	entities := make([]model.Entity, 0, len(coords)+1)
	nodes := make([]model.ID, 0, len(coords)+1)

	var gen model.IDGenerator

	for _, c := range coords {
		n := &model.Node{ID: gen.NewID(model.NODE), Lon: c[0], Lat: c[1]}
		entities = append(entities, n)
		nodes = append(nodes, n.ID)
	}

	nodes = append(nodes, nodes[0])
	entities = append(entities, &model.Way{ID: "w1", Nodes: nodes, Tags: model.Tags{"building": "yes"}})

	return editgraph.New(entities...)
}

func TestOrthogonalizeSquareEnough(t *testing.T) {
	g := ring([2]model.Degrees{0, 0}, [2]model.Degrees{1, 0}, [2]model.Degrees{1, 1}, [2]model.Degrees{0, 1})

	act := Orthogonalize{ID: "w1"}

	assert.Equal(t, SquareEnough, act.Disabled(g))
	assert.Same(t, g, act.Apply(g), "a square building is left alone")
}

func TestOrthogonalizeSkewedBuilding(t *testing.T) {
	// a parallelogram leaning well past the skew tolerance
	g := ring([2]model.Degrees{0, 0}, [2]model.Degrees{4, 0}, [2]model.Degrees{5, 3}, [2]model.Degrees{1, 3})

	act := Orthogonalize{ID: "w1"}

	require.Equal(t, Enabled, act.Disabled(g))

	out := act.Apply(g)
	require.NotSame(t, g, out)

	moved := 0

	w, _ := findWay(out, "w1")
	for _, id := range w.Nodes[:len(w.Nodes)-1] {
		before, _ := findNode(g, id)
		after, _ := findNode(out, id)

		if before.Lon != after.Lon || before.Lat != after.Lat {
			moved++
		}
	}

	assert.NotZero(t, moved, "squaring must move vertices")
}

func TestOrthogonalizeNotSquarish(t *testing.T) {
	// a gentle zigzag: the corners verge on straight lines, squaring
	// them would collapse the way
	n1 := &model.Node{ID: "n1", Lon: 0, Lat: 0}
	n2 := &model.Node{ID: "n2", Lon: 1, Lat: 0.18}
	n3 := &model.Node{ID: "n3", Lon: 2, Lat: 0}
	n4 := &model.Node{ID: "n4", Lon: 3, Lat: 0.18}
	w := &model.Way{ID: "w1", Nodes: []model.ID{"n1", "n2", "n3", "n4"}}

	g := editgraph.New(n1, n2, n3, n4, w)

	assert.Equal(t, NotSquarish, Orthogonalize{ID: "w1"}.Disabled(g))
}

func TestOrthogonalizeNotEligible(t *testing.T) {
	n1 := &model.Node{ID: "n1"}
	n2 := &model.Node{ID: "n2", Lon: 1}
	short := &model.Way{ID: "w1", Nodes: []model.ID{"n1", "n2"}}

	g := editgraph.New(n1, n2, short)

	assert.Equal(t, NotEligible, Orthogonalize{ID: "w1"}.Disabled(g))
	assert.Equal(t, NotEligible, Orthogonalize{ID: "w404"}.Disabled(g))

	// a way with an undownloaded vertex cannot be squared either
	ghost := &model.Way{ID: "w2", Nodes: []model.ID{"n1", "n2", "n404"}}
	g = g.Replace(ghost)
	assert.Equal(t, NotEligible, Orthogonalize{ID: "w2"}.Disabled(g))
}

func TestOrthogonalizeTransitionAtZero(t *testing.T) {
	g := ring([2]model.Degrees{0, 0}, [2]model.Degrees{4, 0}, [2]model.Degrees{5, 3}, [2]model.Degrees{1, 3})

	assert.Same(t, g, Orthogonalize{ID: "w1"}.Transition(g, 0))
}

func TestOrthogonalizeHoldsSharedVertices(t *testing.T) {
	g := ring([2]model.Degrees{0, 0}, [2]model.Degrees{4, 0}, [2]model.Degrees{5, 3}, [2]model.Degrees{1, 3})

	w, _ := findWay(g, "w1")
	pinned := w.Nodes[0]

	// attach another way to the first corner so it is held fixed
	g = g.Replace(
		&model.Node{ID: "n9", Lon: -1, Lat: -1},
		&model.Way{ID: "w2", Nodes: []model.ID{pinned, "n9"}},
	)

	out := Orthogonalize{ID: "w1"}.Apply(g)

	before, _ := findNode(g, pinned)
	after, _ := findNode(out, pinned)

	assert.Equal(t, before.Lon, after.Lon)
	assert.Equal(t, before.Lat, after.Lat)
}
