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

// Package model contains the shared entity model for the OpenStreetMap
// edit graph: nodes, ways, relations and changesets as immutable value
// objects, plus the tag and geometry helpers they depend on.
package model

//go:generate stringer -type=Kind

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// Kind is an enumeration of entity kinds.
type Kind int32

const (
	// NODE denotes a node entity.
	NODE Kind = iota

	// WAY denotes a way entity.
	WAY

	// RELATION denotes a relation entity.
	RELATION

	// CHANGESET denotes a changeset entity.
	CHANGESET
)

var kindPrefixes = [...]byte{NODE: 'n', WAY: 'w', RELATION: 'r', CHANGESET: 'c'}

func (k Kind) String() string {
	switch k {
	case NODE:
		return "node"
	case WAY:
		return "way"
	case RELATION:
		return "relation"
	case CHANGESET:
		return "changeset"
	default:
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
}

// ID is the primary key of an entity.  It carries a single-letter kind
// prefix followed by the numeric OSM reference, e.g. "n123" or "w-4".
// Negative references denote local entities that have never been
// uploaded.
type ID string

// FromOSM builds an ID from a kind and a numeric OSM reference.
func FromOSM(k Kind, ref int64) ID {
	return ID(string(kindPrefixes[k]) + strconv.FormatInt(ref, 10))
}

// OSM splits an ID back into its kind and numeric OSM reference.  It is
// the inverse of FromOSM.
func (id ID) OSM() (Kind, int64, error) {
	if len(id) < 2 {
		return 0, 0, fmt.Errorf("malformed entity id %q", string(id))
	}

	var k Kind
	switch id[0] {
	case 'n':
		k = NODE
	case 'w':
		k = WAY
	case 'r':
		k = RELATION
	case 'c':
		k = CHANGESET
	default:
		return 0, 0, fmt.Errorf("malformed entity id %q", string(id))
	}

	ref, err := strconv.ParseInt(string(id[1:]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed entity id %q: %w", string(id), err)
	}

	return k, ref, nil
}

// Kind reports the entity kind encoded in the ID prefix.  Malformed IDs
// are a programming error and panic.
func (id ID) Kind() Kind {
	k, _, err := id.OSM()
	if err != nil {
		panic(err)
	}

	return k
}

// IsNew reports whether the ID denotes a local entity that has never
// been uploaded.
func (id ID) IsNew() bool {
	_, ref, err := id.OSM()
	if err != nil {
		panic(err)
	}

	return ref < 0
}

// IDGenerator mints fresh local IDs.  Local references count down from
// -1 so they can never collide with server-assigned references.
type IDGenerator struct {
	counters [CHANGESET + 1]atomic.Int64
}

// NewID mints a fresh local ID of the given kind.
func (g *IDGenerator) NewID(k Kind) ID {
	return FromOSM(k, -g.counters[k].Add(1))
}

var defaultIDs IDGenerator

// NewID mints a fresh local ID of the given kind from the process-wide
// generator.  Code that needs reproducible IDs should carry its own
// IDGenerator instead.
func NewID(k Kind) ID {
	return defaultIDs.NewID(k)
}
