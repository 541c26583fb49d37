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

package model

import (
	"slices"

	"github.com/paulmach/orb"
)

// Member is one entry in a relation's ordered member list.  The member
// kind is carried by the ID prefix.
type Member struct {
	ID   ID
	Role string
}

// Kind reports the member's entity kind.
func (m Member) Kind() Kind { return m.ID.Kind() }

// Relation is a multipurpose data structure that documents a
// relationship between two or more entities (nodes, ways, and/or other
// relations).  Members may reference entities that have not been
// downloaded; such relations are incomplete, not broken.  Treat a
// Relation as immutable: mutators copy the relation, bump the local
// revision and return the copy.
type Relation struct {
	ID      ID
	Tags    Tags
	Info    *Info
	V       int32
	Members []Member
}

var _ Entity = (*Relation)(nil)

// NewRelation creates a brand-new local relation.
func NewRelation(members []Member, tags Tags) *Relation {
	return &Relation{ID: NewID(RELATION), Tags: tags.Clone(), Members: slices.Clone(members)}
}

func (r *Relation) isEntity() {}

func (r *Relation) GetID() ID { return r.ID }

func (r *Relation) GetTags() Tags { return r.Tags }

func (r *Relation) GetInfo() *Info { return r.Info }

func (r *Relation) EntityKind() Kind { return RELATION }

func (r *Relation) LocalVersion() int32 { return r.V }

// MemberIndex returns the index of the first member with the given ID,
// or -1.
func (r *Relation) MemberIndex(id ID) int {
	return slices.IndexFunc(r.Members, func(m Member) bool { return m.ID == id })
}

// ContainsMember reports whether any member references the given ID.
func (r *Relation) ContainsMember(id ID) bool {
	return r.MemberIndex(id) >= 0
}

// MembersByRole returns the members carrying the given role, in member
// order.
func (r *Relation) MembersByRole(role string) []Member {
	var out []Member

	for _, m := range r.Members {
		if m.Role == role {
			out = append(out, m)
		}
	}

	return out
}

// MemberRole returns the role of the first member with the given ID.
func (r *Relation) MemberRole(id ID) (string, bool) {
	i := r.MemberIndex(id)
	if i < 0 {
		return "", false
	}

	return r.Members[i].Role, true
}

// IsRoute reports whether the relation is an ordered route whose member
// ordering downstream consumers depend on.
func (r *Relation) IsRoute() bool {
	switch r.Tags["type"] {
	case "route", "route_master", "public_transport":
		return true
	default:
		return false
	}
}

// IsRestriction reports whether the relation is a turn restriction.
func (r *Relation) IsRestriction() bool {
	return r.Tags["type"] == "restriction"
}

// WithMembers returns a copy of the relation carrying the given member
// list.
func (r *Relation) WithMembers(members []Member) *Relation {
	c := *r
	c.Members = slices.Clone(members)
	c.V++

	return &c
}

// AddMember returns a copy of the relation with the member inserted at
// index i, or appended when i is out of range.
func (r *Relation) AddMember(m Member, i int) *Relation {
	if i < 0 || i > len(r.Members) {
		i = len(r.Members)
	}

	return r.WithMembers(slices.Insert(slices.Clone(r.Members), i, m))
}

// RemoveMember returns a copy of the relation with the member at index
// i removed.
func (r *Relation) RemoveMember(i int) *Relation {
	return r.WithMembers(slices.Delete(slices.Clone(r.Members), i, i+1))
}

// RemoveMembersWithID returns a copy of the relation with every member
// referencing the given ID removed.
func (r *Relation) RemoveMembersWithID(id ID) *Relation {
	members := slices.DeleteFunc(slices.Clone(r.Members), func(m Member) bool {
		return m.ID == id
	})

	return r.WithMembers(members)
}

// ReplaceMember returns a copy of the relation with every member
// referencing old rewritten to reference new, keeping the original
// roles.  Unless keepDuplicates is set, rewrites that duplicate an
// existing id/role pair are dropped instead.
func (r *Relation) ReplaceMember(old, new ID, keepDuplicates bool) *Relation {
	members := make([]Member, 0, len(r.Members))

	has := func(m Member) bool {
		return slices.Contains(members, m)
	}

	for _, m := range r.Members {
		if m.ID == old {
			m.ID = new
		}

		if !keepDuplicates && has(m) {
			continue
		}

		members = append(members, m)
	}

	return r.WithMembers(members)
}

// WithTags returns a copy of the relation carrying the given tags.
func (r *Relation) WithTags(t Tags) Entity {
	c := *r
	c.Tags = t.Clone()
	c.V++

	return &c
}

// MergeTags merges the given tags into the relation's own.  A merge
// producing no change returns the relation itself.
func (r *Relation) MergeTags(t Tags) Entity {
	merged, changed := MergeTags(r.Tags, t)
	if !changed {
		return r
	}

	c := *r
	c.Tags = merged
	c.V++

	return &c
}

// HasInterestingTags reports whether the relation carries tags of
// cartographic interest.
func (r *Relation) HasInterestingTags(p *Policy) bool {
	return policyOrDefault(p).InterestingTags(r.Tags)
}

// IsDegenerate reports whether the relation has no members left.
func (r *Relation) IsDegenerate() bool {
	return len(r.Members) == 0
}

// Extent computes the bounding box over the relation's members,
// recursing through nested relations.  ok is false when any member is
// missing from the resolver.  Relation cycles terminate.
func (r *Relation) Extent(res Resolver) (Extent, bool) {
	return r.extent(res, map[ID]bool{})
}

func (r *Relation) extent(res Resolver, visited map[ID]bool) (Extent, bool) {
	if visited[r.ID] {
		return EmptyExtent(), true
	}

	visited[r.ID] = true

	extent := EmptyExtent()
	complete := true

	for _, m := range r.Members {
		e, ok := res.Find(m.ID)
		if !ok {
			complete = false

			continue
		}

		var (
			me  Extent
			mok bool
		)

		if nested, isRel := e.(*Relation); isRel {
			me, mok = nested.extent(res, visited)
		} else {
			me, mok = e.Extent(res)
		}

		extent = extent.Extend(me)
		complete = complete && mok
	}

	return extent, complete
}

// Copy returns a brand-new unsaved clone of the relation, deep-copying
// the members reachable through res.  Cyclic relations terminate via
// the memo.
func (r *Relation) Copy(res Resolver, memo map[ID]Entity) Entity {
	if c, ok := memo[r.ID]; ok {
		return c
	}

	c := *r
	c.ID = NewID(RELATION)
	c.Tags = r.Tags.Clone()
	c.Info = nil
	c.V = 0
	c.Members = slices.Clone(r.Members)

	// register before recursing so self-references resolve to the copy
	memo[r.ID] = &c

	for i, m := range c.Members {
		if child, ok := res.Find(m.ID); ok {
			c.Members[i].ID = child.Copy(res, memo).GetID()
		}
	}

	return &c
}

// AsGeoJSON converts the relation to a geometry collection over its
// resolvable members.  Members that have not been downloaded are
// skipped; a relation with no resolvable members reports ErrIncomplete.
func (r *Relation) AsGeoJSON(res Resolver, p *Policy) (orb.Geometry, error) {
	return r.asGeoJSON(res, p, map[ID]bool{})
}

func (r *Relation) asGeoJSON(res Resolver, p *Policy, visited map[ID]bool) (orb.Geometry, error) {
	if visited[r.ID] {
		return orb.Collection{}, nil
	}

	visited[r.ID] = true

	var out orb.Collection

	for _, m := range r.Members {
		e, ok := res.Find(m.ID)
		if !ok {
			continue
		}

		var (
			geom orb.Geometry
			err  error
		)

		if nested, isRel := e.(*Relation); isRel {
			geom, err = nested.asGeoJSON(res, p, visited)
		} else {
			geom, err = e.AsGeoJSON(res, p)
		}

		if err != nil {
			continue
		}

		out = append(out, geom)
	}

	if len(out) == 0 && len(r.Members) > 0 {
		return nil, ErrIncomplete
	}

	return out, nil
}
