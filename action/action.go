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

// Package action holds the edit operations of the graph.  An action is
// a pure function from one graph snapshot to the next; it never mutates
// its input, so history can retain earlier snapshots untouched.
package action

import (
	"golang.org/x/exp/constraints"

	"github.com/osmforge/editgraph"
)

// Action transforms one graph snapshot into the next.  Applying an
// action that has nothing to do returns the input graph unchanged.
type Action interface {
	Apply(g *editgraph.Graph) *editgraph.Graph
}

// Reason explains why an action cannot run against a particular graph.
// The empty reason means the action is enabled.
type Reason string

const (
	// Enabled is the zero Reason.
	Enabled Reason = ""

	// NotEligible means the action's target is absent, incomplete, or
	// of the wrong shape.
	NotEligible Reason = "not_eligible"

	// PartOfRelation means relation membership prevents the action.
	PartOfRelation Reason = "part_of_relation"

	// InvolvesRelation means the action would produce conflicting
	// relation memberships.
	InvolvesRelation Reason = "relation"

	// SquareEnough means the target geometry is already orthogonal
	// within tolerance.
	SquareEnough Reason = "square_enough"

	// NotSquarish means no corner of the target geometry is close
	// enough to square or straight to adjust.
	NotSquarish Reason = "not_squarish"
)

// Validated is implemented by actions that can report a reason not to
// run against a particular graph.  The check is advisory: some actions
// refuse to apply while disabled, others (the deletes) still execute
// structurally.  Each action documents which.
type Validated interface {
	Action

	Disabled(g *editgraph.Graph) Reason
}

// Transitionable is implemented by actions that can render intermediate
// animation frames.  Transition with t in [0, 1] produces the graph
// part-way between the input and the action's final result; Transition
// at 1 is equivalent to Apply.
type Transitionable interface {
	Action

	Transition(g *editgraph.Graph, t float64) *editgraph.Graph
}

func lerp[T constraints.Float](a, b T, t float64) T {
	return a + T(t)*(b-a)
}
