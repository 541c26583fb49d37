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
	"strings"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/model"
)

// Reverse flips a way's direction: the node list is reversed,
// direction-dependent tags are rewritten, and forward/backward member
// roles in parent relations are swapped.
type Reverse struct {
	ID model.ID
}

func (a Reverse) Apply(g *editgraph.Graph) *editgraph.Graph {
	w, ok := findWay(g, a.ID)
	if !ok {
		return g
	}

	nodes := slices.Clone(w.Nodes)
	slices.Reverse(nodes)

	next := w.WithNodes(nodes)

	if tags, changed := reverseTags(w.Tags); changed {
		if tagged, ok := next.WithTags(tags).(*model.Way); ok {
			next = tagged
		}
	}

	g = g.Replace(next)

	for _, r := range g.ParentRelations(a.ID) {
		if swapped, changed := swapDirectionalRoles(r, a.ID); changed {
			g = g.Replace(swapped)
		}
	}

	return g
}

func reverseTags(tags model.Tags) (model.Tags, bool) {
	out := tags.Clone()
	changed := false

	for k, v := range tags {
		nk, nv := k, v

		switch {
		case strings.HasSuffix(k, ":forward"):
			nk = strings.TrimSuffix(k, ":forward") + ":backward"
		case strings.HasSuffix(k, ":backward"):
			nk = strings.TrimSuffix(k, ":backward") + ":forward"
		}

		if k == "oneway" {
			switch v {
			case "yes", "1":
				nv = "-1"
			case "-1":
				nv = "yes"
			}
		}

		if nk != k || nv != v {
			delete(out, k)
			out[nk] = nv
			changed = true
		}
	}

	return out, changed
}

func swapDirectionalRoles(r *model.Relation, id model.ID) (*model.Relation, bool) {
	members := slices.Clone(r.Members)
	changed := false

	for i, m := range members {
		if m.ID != id {
			continue
		}

		switch m.Role {
		case "forward":
			members[i].Role = "backward"
			changed = true
		case "backward":
			members[i].Role = "forward"
			changed = true
		}
	}

	if !changed {
		return r, false
	}

	return r.WithMembers(members), true
}
