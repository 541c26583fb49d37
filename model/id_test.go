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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDRoundTrip(t *testing.T) {
	id := FromOSM(WAY, 123)
	assert.Equal(t, ID("w123"), id)

	k, ref, err := id.OSM()
	assert.NoError(t, err)
	assert.Equal(t, WAY, k)
	assert.Equal(t, int64(123), ref)
}

func TestIDKindPrefixes(t *testing.T) {
	assert.Equal(t, NODE, FromOSM(NODE, 1).Kind())
	assert.Equal(t, WAY, FromOSM(WAY, 1).Kind())
	assert.Equal(t, RELATION, FromOSM(RELATION, 1).Kind())
	assert.Equal(t, CHANGESET, FromOSM(CHANGESET, 1).Kind())
}

func TestIDMalformed(t *testing.T) {
	_, _, err := ID("x1").OSM()
	assert.Error(t, err)

	_, _, err = ID("n").OSM()
	assert.Error(t, err)

	_, _, err = ID("nabc").OSM()
	assert.Error(t, err)
}

func TestIDIsNew(t *testing.T) {
	assert.True(t, FromOSM(NODE, -1).IsNew())
	assert.False(t, FromOSM(NODE, 42).IsNew())
}

func TestIDGeneratorCountsDown(t *testing.T) {
	var g IDGenerator

	assert.Equal(t, ID("n-1"), g.NewID(NODE))
	assert.Equal(t, ID("n-2"), g.NewID(NODE))
	assert.Equal(t, ID("w-1"), g.NewID(WAY))

	assert.True(t, g.NewID(RELATION).IsNew())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "node", NODE.String())
	assert.Equal(t, "way", WAY.String())
	assert.Equal(t, "relation", RELATION.String())
	assert.Equal(t, "changeset", CHANGESET.String())
}
