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
	"errors"
	"time"

	"github.com/paulmach/orb"
)

// ErrNoGeometry is reported when geometry is requested from an entity
// kind that has none, such as a changeset.
var ErrNoGeometry = errors.New("entity has no geometry")

// ErrIncomplete is reported when geometry cannot be resolved because a
// referenced child entity has not been downloaded yet.
var ErrIncomplete = errors.New("entity references undownloaded children")

// Info represents server metadata common to all entity kinds.  The
// Version field is the server revision and is unrelated to the local
// revision counter carried by each entity.
type Info struct {
	Version   int32
	UID       int32
	Timestamp time.Time
	Changeset int64
	User      string
	Visible   bool
}

// Resolver looks entities up by ID without signalling absence as an
// error.  A Graph is the usual Resolver.
type Resolver interface {
	Find(id ID) (Entity, bool)
}

// Entity is an immutable, versioned map feature.  Every mutating
// operation on a concrete entity copies it, increments the local
// revision, and returns the copy; the receiver is never changed.
// Reference equality between two entities of the same ID therefore
// means "no change", and the core relies on that as its fast path.
type Entity interface {
	isEntity() // prevents extensions

	GetID() ID

	GetTags() Tags

	GetInfo() *Info

	// EntityKind reports the concrete kind without re-parsing the ID.
	EntityKind() Kind

	// LocalVersion is the monotonic local revision counter, bumped on
	// every mutation.  It is unrelated to the server version in Info.
	LocalVersion() int32

	// WithTags returns a copy of the entity carrying the given tags.
	WithTags(t Tags) Entity

	// MergeTags merges the given tags into the entity's own, per
	// MergeTags.  A merge producing no change returns the receiver
	// itself.
	MergeTags(t Tags) Entity

	// HasInterestingTags reports whether the entity carries tags of
	// cartographic interest under the policy (nil means the default
	// policy).
	HasInterestingTags(p *Policy) bool

	// IsDegenerate reports whether the entity lacks meaningful
	// geometry or structure.
	IsDegenerate() bool

	// Extent computes the bounding box of the entity's geometry,
	// resolving children through r.  ok is false when referenced
	// children are missing, in which case the partial extent so far is
	// returned.
	Extent(r Resolver) (extent Extent, ok bool)

	// Copy deep-clones the entity as a brand-new unsaved feature with
	// a fresh local ID and no server metadata.  Children reachable
	// through r are copied as well; memo keys copies by original ID so
	// shared children stay shared and cyclic relations terminate.
	Copy(r Resolver, memo map[ID]Entity) Entity

	// AsGeoJSON converts the entity's geometry, resolving children
	// through r.  Closed ways become polygons when the policy says
	// their tags imply an area.
	AsGeoJSON(r Resolver, p *Policy) (orb.Geometry, error)
}

func policyOrDefault(p *Policy) *Policy {
	if p != nil {
		return p
	}

	return stockPolicy
}

var stockPolicy = DefaultPolicy()
