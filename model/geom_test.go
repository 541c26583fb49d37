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

func TestDegreesEqualWithin(t *testing.T) {
	assert.True(t, Degrees(53.123450).EqualWithin(Degrees(53.123454), E5))
	assert.False(t, Degrees(53.123450).EqualWithin(Degrees(53.123455), E5))
}

func TestDegreesE7(t *testing.T) {
	assert.Equal(t, int32(531234568), Degrees(53.123456789).E7())
}

func TestDegreesParse(t *testing.T) {
	d, err := ParseDegrees(" 53.12345 ")
	assert.NoError(t, err)
	assert.True(t, Degrees(53.12345).EqualWithin(d, E7))

	_, err = ParseDegrees("abc")
	assert.Error(t, err)
}

func TestEmptyExtent(t *testing.T) {
	e := EmptyExtent()

	assert.True(t, e.IsEmpty())
	assert.False(t, e.Contains(0, 0))
}

func TestExtentExtendPoint(t *testing.T) {
	e := EmptyExtent().ExtendPoint(1, 2).ExtendPoint(-3, 7)

	assert.False(t, e.IsEmpty())
	assert.Equal(t, Extent{Left: -3, Bottom: 2, Right: 1, Top: 7}, e)
	assert.True(t, e.Contains(0, 5))
	assert.False(t, e.Contains(2, 5))
}

func TestExtentIntersects(t *testing.T) {
	a := Extent{Left: 0, Bottom: 0, Right: 2, Top: 2}
	b := Extent{Left: 1, Bottom: 1, Right: 3, Top: 3}
	c := Extent{Left: 5, Bottom: 5, Right: 6, Top: 6}

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.False(t, a.Intersects(EmptyExtent()))
}

func TestExtentCenter(t *testing.T) {
	lon, lat := Extent{Left: 0, Bottom: 0, Right: 2, Top: 4}.Center()

	assert.Equal(t, Degrees(1), lon)
	assert.Equal(t, Degrees(2), lat)
}

func TestExtentString(t *testing.T) {
	e := Extent{Left: -0.511482, Bottom: 51.28554, Right: 0.335437, Top: 51.69344}
	assert.Equal(t, "[-0.511482, 51.28554, 0.335437, 51.69344]", e.String())
}

func TestParseExtent(t *testing.T) {
	e, err := ParseExtent("-0.5,51.2,0.3,51.7")
	assert.NoError(t, err)
	assert.True(t, e.EqualWithin(Extent{Left: -0.5, Bottom: 51.2, Right: 0.3, Top: 51.7}, E7))

	_, err = ParseExtent("1,2,3")
	assert.Error(t, err)

	_, err = ParseExtent("3,2,1,0")
	assert.Error(t, err)
}
