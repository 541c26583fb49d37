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

// ChangeTags replaces an entity's tags wholesale.
type ChangeTags struct {
	ID   model.ID
	Tags model.Tags
}

func (a ChangeTags) Apply(g *editgraph.Graph) *editgraph.Graph {
	e, ok := g.Find(a.ID)
	if !ok {
		return g
	}

	if e.GetTags().Equal(a.Tags) {
		return g
	}

	return g.Replace(e.WithTags(a.Tags))
}

// MergeTags folds tags into an entity's own, joining conflicting values
// per the tag merge rules.
type MergeTags struct {
	ID   model.ID
	Tags model.Tags
}

func (a MergeTags) Apply(g *editgraph.Graph) *editgraph.Graph {
	e, ok := g.Find(a.ID)
	if !ok {
		return g
	}

	merged := e.MergeTags(a.Tags)
	if merged == e {
		return g
	}

	return g.Replace(merged)
}
