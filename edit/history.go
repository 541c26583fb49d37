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

// Package edit tracks the undo/redo history of graph edits.  Each
// performed action set pushes a new immutable graph snapshot; undo and
// redo just move a cursor along the retained snapshots.
package edit

import (
	"sync"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/action"
	"github.com/osmforge/editgraph/model"
)

// checkpoint is one retained snapshot with the annotation describing
// the edit that produced it.
type checkpoint struct {
	graph      *editgraph.Graph
	annotation string
	transient  bool
}

// History is the undo stack of an editing session.  All methods are
// safe for concurrent use.
type History struct {
	mu    sync.Mutex
	stack []checkpoint
	index int

	onChange []func(*editgraph.Difference)
}

// NewHistory starts a history whose undo floor is the given graph.
func NewHistory(g *editgraph.Graph) *History {
	return &History{stack: []checkpoint{{graph: g}}}
}

// Current returns the graph snapshot the cursor points at.
func (h *History) Current() *editgraph.Graph {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stack[h.index].graph
}

// Base returns the undo floor, the graph the session started from.
func (h *History) Base() *editgraph.Graph {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stack[0].graph
}

// Perform applies the actions in order against the current graph and
// pushes the result as a new checkpoint, discarding any redo tail.  A
// transient checkpoint at the cursor is replaced, not stacked on.  The
// returned difference spans the pre-perform and post-perform graphs.
func (h *History) Perform(annotation string, actions ...action.Action) *editgraph.Difference {
	return h.perform(annotation, false, actions)
}

// PerformTransient is Perform for in-flight edits such as drag
// previews: the pushed checkpoint is replaced by the next perform
// instead of accumulating, so a drag leaves one undo step.
func (h *History) PerformTransient(annotation string, actions ...action.Action) *editgraph.Difference {
	return h.perform(annotation, true, actions)
}

func (h *History) perform(annotation string, transient bool, actions []action.Action) *editgraph.Difference {
	h.mu.Lock()

	prev := h.stack[h.index].graph

	// a transient checkpoint is superseded by whatever comes next
	if h.stack[h.index].transient && h.index > 0 {
		h.index--
	}

	g := h.stack[h.index].graph

	for _, a := range actions {
		g = a.Apply(g)
	}

	h.stack = append(h.stack[:h.index+1], checkpoint{
		graph:      g,
		annotation: annotation,
		transient:  transient,
	})
	h.index = len(h.stack) - 1

	h.mu.Unlock()

	return h.notify(prev, g)
}

// Undo moves the cursor one checkpoint back.  The returned difference
// spans the graphs before and after the move; at the floor it is empty.
func (h *History) Undo() *editgraph.Difference {
	h.mu.Lock()

	prev := h.stack[h.index].graph

	if h.index > 0 {
		h.index--
	}

	g := h.stack[h.index].graph

	h.mu.Unlock()

	return h.notify(prev, g)
}

// Redo moves the cursor one checkpoint forward.
func (h *History) Redo() *editgraph.Difference {
	h.mu.Lock()

	prev := h.stack[h.index].graph

	if h.index < len(h.stack)-1 {
		h.index++
	}

	g := h.stack[h.index].graph

	h.mu.Unlock()

	return h.notify(prev, g)
}

// HasChanges reports whether the current graph differs from the floor.
func (h *History) HasChanges() bool {
	return !h.Difference().Empty()
}

// Difference returns the cumulative difference from the floor to the
// current graph, the change set an upload would carry.
func (h *History) Difference() *editgraph.Difference {
	h.mu.Lock()
	base := h.stack[0].graph
	head := h.stack[h.index].graph
	h.mu.Unlock()

	return editgraph.NewDifference(base, head)
}

// UndoAnnotation returns the annotation of the edit an Undo would
// revert, or "" at the floor.
func (h *History) UndoAnnotation() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stack[h.index].annotation
}

// RedoAnnotation returns the annotation of the edit a Redo would
// reapply, or "" at the top.
func (h *History) RedoAnnotation() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == len(h.stack)-1 {
		return ""
	}

	return h.stack[h.index+1].annotation
}

// OnChange registers a callback invoked with the difference of every
// cursor move or perform.  Callbacks run synchronously on the calling
// goroutine, outside the history lock.
func (h *History) OnChange(fn func(*editgraph.Difference)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.onChange = append(h.onChange, fn)
}

// Rebase merges freshly-downloaded entities into the base layer shared
// by every retained snapshot.  Change callbacks are not invoked; a
// spatial index riding along should be rebased with the same entities.
func (h *History) Rebase(entities []model.Entity, force bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	graphs := make([]*editgraph.Graph, 0, len(h.stack))
	for _, cp := range h.stack {
		graphs = append(graphs, cp.graph)
	}

	h.stack[h.index].graph.Rebase(entities, graphs, force)
}

func (h *History) notify(prev, cur *editgraph.Graph) *editgraph.Difference {
	d := editgraph.NewDifference(prev, cur)

	h.mu.Lock()
	callbacks := h.onChange
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn(d)
	}

	return d
}
