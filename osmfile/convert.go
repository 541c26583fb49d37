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

package osmfile

import (
	"fmt"
	"time"

	"github.com/paulmach/osm"

	"github.com/osmforge/editgraph/model"
)

// FromObject converts a scanned OSM object into a graph entity.  ok is
// false for object types the graph does not model, such as notes and
// bounds.
func FromObject(o osm.Object) (model.Entity, bool) {
	switch v := o.(type) {
	case *osm.Node:
		return fromNode(v), true
	case *osm.Way:
		return fromWay(v), true
	case *osm.Relation:
		return fromRelation(v), true
	default:
		return nil, false
	}
}

func fromNode(n *osm.Node) *model.Node {
	return &model.Node{
		ID:   model.FromOSM(model.NODE, int64(n.ID)),
		Tags: fromTags(n.Tags),
		Info: &model.Info{
			Version:   int32(n.Version),
			UID:       int32(n.UserID),
			Timestamp: n.Timestamp,
			Changeset: int64(n.ChangesetID),
			User:      n.User,
			Visible:   n.Visible,
		},
		Lon: model.Degrees(n.Lon),
		Lat: model.Degrees(n.Lat),
	}
}

func fromWay(w *osm.Way) *model.Way {
	nodes := make([]model.ID, len(w.Nodes))
	for i, wn := range w.Nodes {
		nodes[i] = model.FromOSM(model.NODE, int64(wn.ID))
	}

	return &model.Way{
		ID:   model.FromOSM(model.WAY, int64(w.ID)),
		Tags: fromTags(w.Tags),
		Info: &model.Info{
			Version:   int32(w.Version),
			UID:       int32(w.UserID),
			Timestamp: w.Timestamp,
			Changeset: int64(w.ChangesetID),
			User:      w.User,
			Visible:   w.Visible,
		},
		Nodes: nodes,
	}
}

func fromRelation(r *osm.Relation) *model.Relation {
	members := make([]model.Member, 0, len(r.Members))

	for _, m := range r.Members {
		k, ok := fromType(m.Type)
		if !ok {
			continue
		}

		members = append(members, model.Member{
			ID:   model.FromOSM(k, m.Ref),
			Role: m.Role,
		})
	}

	return &model.Relation{
		ID:   model.FromOSM(model.RELATION, int64(r.ID)),
		Tags: fromTags(r.Tags),
		Info: &model.Info{
			Version:   int32(r.Version),
			UID:       int32(r.UserID),
			Timestamp: r.Timestamp,
			Changeset: int64(r.ChangesetID),
			User:      r.User,
			Visible:   r.Visible,
		},
		Members: members,
	}
}

func fromTags(tags osm.Tags) model.Tags {
	if len(tags) == 0 {
		return nil
	}

	out := make(model.Tags, len(tags))

	for _, t := range tags {
		out[t.Key] = t.Value
	}

	return out
}

func fromType(t osm.Type) (model.Kind, bool) {
	switch t {
	case osm.TypeNode:
		return model.NODE, true
	case osm.TypeWay:
		return model.WAY, true
	case osm.TypeRelation:
		return model.RELATION, true
	default:
		return 0, false
	}
}

// ToObject converts a graph entity back into its OSM representation.
// Changesets have no osmChange representation and report an error.
func ToObject(e model.Entity) (osm.Object, error) {
	_, ref, err := e.GetID().OSM()
	if err != nil {
		return nil, err
	}

	switch v := e.(type) {
	case *model.Node:
		n := &osm.Node{
			ID:   osm.NodeID(ref),
			Lon:  float64(v.Lon),
			Lat:  float64(v.Lat),
			Tags: toTags(v.Tags),
		}
		applyInfo(&n.Version, &n.UserID, &n.Timestamp, &n.ChangesetID, &n.User, &n.Visible, v.Info)

		return n, nil

	case *model.Way:
		w := &osm.Way{
			ID:   osm.WayID(ref),
			Tags: toTags(v.Tags),
		}
		applyInfo(&w.Version, &w.UserID, &w.Timestamp, &w.ChangesetID, &w.User, &w.Visible, v.Info)

		w.Nodes = make(osm.WayNodes, len(v.Nodes))
		for i, id := range v.Nodes {
			_, nref, err := id.OSM()
			if err != nil {
				return nil, err
			}

			w.Nodes[i] = osm.WayNode{ID: osm.NodeID(nref)}
		}

		return w, nil

	case *model.Relation:
		r := &osm.Relation{
			ID:   osm.RelationID(ref),
			Tags: toTags(v.Tags),
		}
		applyInfo(&r.Version, &r.UserID, &r.Timestamp, &r.ChangesetID, &r.User, &r.Visible, v.Info)

		r.Members = make(osm.Members, 0, len(v.Members))
		for _, m := range v.Members {
			k, mref, err := m.ID.OSM()
			if err != nil {
				return nil, err
			}

			r.Members = append(r.Members, osm.Member{
				Type: toType(k),
				Ref:  mref,
				Role: m.Role,
			})
		}

		return r, nil

	default:
		return nil, fmt.Errorf("entity %s has no osm file representation", e.GetID())
	}
}

func toTags(tags model.Tags) osm.Tags {
	if len(tags) == 0 {
		return nil
	}

	out := make(osm.Tags, 0, len(tags))
	for k, v := range tags {
		out = append(out, osm.Tag{Key: k, Value: v})
	}

	out.SortByKeyValue()

	return out
}

func toType(k model.Kind) osm.Type {
	switch k {
	case model.WAY:
		return osm.TypeWay
	case model.RELATION:
		return osm.TypeRelation
	default:
		return osm.TypeNode
	}
}

func applyInfo(version *int, uid *osm.UserID, ts *time.Time, cs *osm.ChangesetID, user *string, visible *bool, info *model.Info) {
	if info == nil {
		*visible = true

		return
	}

	*version = int(info.Version)
	*uid = osm.UserID(info.UID)
	*ts = info.Timestamp
	*cs = osm.ChangesetID(info.Changeset)
	*user = info.User
	*visible = info.Visible
}
