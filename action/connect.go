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

// Connect fuses the given nodes into one.  The survivor is the first
// node carrying interesting tags, otherwise the last; it takes the last
// node's position and absorbs the tags of all the others.  Parent ways
// and relations are rewritten to reference the survivor.
type Connect struct {
	IDs    []model.ID
	Policy *model.Policy
}

var _ Validated = Connect{}

func (a Connect) Apply(g *editgraph.Graph) *editgraph.Graph {
	if a.Disabled(g) != Enabled {
		return g
	}

	nodes := a.nodes(g)
	if len(nodes) < 2 {
		return g
	}

	surv := a.survivor(nodes)
	last := nodes[len(nodes)-1]

	if surv.Lon != last.Lon || surv.Lat != last.Lat {
		surv = surv.Move(last.Lon, last.Lat)
	}

	for _, n := range nodes {
		if n.ID == surv.ID {
			continue
		}

		if merged, ok := surv.MergeTags(n.Tags).(*model.Node); ok {
			surv = merged
		}

		for _, w := range g.ParentWays(n.ID) {
			g = g.Replace(w.ReplaceNode(n.ID, surv.ID))
		}

		for _, r := range g.ParentRelations(n.ID) {
			g = g.Replace(r.ReplaceMember(n.ID, surv.ID, false))
		}

		g = g.Remove(n)
	}

	return g.Replace(surv)
}

// Disabled reports "relation" when two of the nodes belong to the same
// relation under different roles, since fusing them would leave the
// relation with a member of ambiguous role.
func (a Connect) Disabled(g *editgraph.Graph) Reason {
	seen := map[model.ID]string{} // relation -> role

	for _, id := range a.IDs {
		for _, r := range g.ParentRelations(id) {
			role, _ := r.MemberRole(id)

			if prev, ok := seen[r.ID]; ok && prev != role {
				return InvolvesRelation
			}

			seen[r.ID] = role
		}
	}

	return Enabled
}

func (a Connect) nodes(g *editgraph.Graph) []*model.Node {
	out := make([]*model.Node, 0, len(a.IDs))

	for _, id := range a.IDs {
		if n, ok := findNode(g, id); ok {
			out = append(out, n)
		}
	}

	return out
}

func (a Connect) survivor(nodes []*model.Node) *model.Node {
	for _, n := range nodes {
		if n.HasInterestingTags(a.Policy) {
			return n
		}
	}

	return nodes[len(nodes)-1]
}
