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
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MaxLat Degrees = 90.0
	MaxLon Degrees = 180.0
	MinLat Degrees = -90.0
	MinLon Degrees = -180.0
)

// Degrees is the decimal degree representation of a longitude or latitude.
type Degrees float64

// Epsilon is an enumeration of precisions that can be used when comparing Degrees.
type Epsilon float64

// Degrees units.
const (
	MinutesPerDegree = 60
	SecondsPerDegree = 3600

	E5 Epsilon = 1e-5
	E6 Epsilon = 1e-6
	E7 Epsilon = 1e-7
	E9 Epsilon = 1e-9

	TenMillionths = 10_000_000

	half = 0.5
)

func (d Degrees) String() string {
	var sign string
	if d < 0 {
		sign = "-"
	}

	val := math.Abs(float64(d))
	degrees := int(math.Floor(val))
	minutes := int(math.Floor(MinutesPerDegree * (val - float64(degrees))))
	seconds := SecondsPerDegree * (val - float64(degrees) - (float64(minutes) / MinutesPerDegree))

	return fmt.Sprintf("%s%d° %d' %s\"", sign, degrees, minutes, ftoa(seconds))
}

// EqualWithin checks if two degrees are within a specific epsilon.
func (d Degrees) EqualWithin(o Degrees, eps Epsilon) bool {
	return round(float64(d)/float64(eps))-round(float64(o)/float64(eps)) == 0
}

// E7 returns the angle in ten millionths of degrees.
func (d Degrees) E7() int32 { return round(float64(d * TenMillionths)) }

// ParseDegrees converts a string to a Degrees instance.
func ParseDegrees(s string) (Degrees, error) {
	u, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	return Degrees(u), nil
}

// round returns the value rounded to nearest as an int32.
func round(val float64) int32 {
	if val < 0 {
		return int32(val - half)
	}

	return int32(val + half)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Extent is a geographic bounding box over entity geometry.
type Extent struct {
	Left   Degrees
	Bottom Degrees
	Right  Degrees
	Top    Degrees
}

// EmptyExtent creates an inverted Extent that is meant to be extended.
func EmptyExtent() Extent {
	return Extent{
		Left:   MaxLon,
		Bottom: MaxLat,
		Right:  MinLon,
		Top:    MinLat,
	}
}

// PointExtent creates a degenerate Extent covering a single point.
func PointExtent(lon, lat Degrees) Extent {
	return Extent{Left: lon, Bottom: lat, Right: lon, Top: lat}
}

// IsEmpty reports whether the extent covers no area at all, as produced
// by EmptyExtent.
func (e Extent) IsEmpty() bool {
	return e.Left > e.Right || e.Bottom > e.Top
}

// Contains checks if the extent contains the lon lat point.
func (e Extent) Contains(lon, lat Degrees) bool {
	return e.Left <= lon && lon <= e.Right && e.Bottom <= lat && lat <= e.Top
}

// Intersects checks if two extents share any point.
func (e Extent) Intersects(o Extent) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}

	return e.Left <= o.Right && o.Left <= e.Right && e.Bottom <= o.Top && o.Bottom <= e.Top
}

// Extend returns the smallest extent covering both e and o.
func (e Extent) Extend(o Extent) Extent {
	if e.IsEmpty() {
		return o
	}

	if o.IsEmpty() {
		return e
	}

	return Extent{
		Left:   min(e.Left, o.Left),
		Bottom: min(e.Bottom, o.Bottom),
		Right:  max(e.Right, o.Right),
		Top:    max(e.Top, o.Top),
	}
}

// ExtendPoint returns the smallest extent covering both e and the lon
// lat point.
func (e Extent) ExtendPoint(lon, lat Degrees) Extent {
	return e.Extend(PointExtent(lon, lat))
}

// Center returns the midpoint of the extent.
func (e Extent) Center() (lon, lat Degrees) {
	return (e.Left + e.Right) / 2, (e.Bottom + e.Top) / 2
}

// EqualWithin checks if two extents are within a specific epsilon.
func (e Extent) EqualWithin(o Extent, eps Epsilon) bool {
	return e.Left.EqualWithin(o.Left, eps) &&
		e.Right.EqualWithin(o.Right, eps) &&
		e.Top.EqualWithin(o.Top, eps) &&
		e.Bottom.EqualWithin(o.Bottom, eps)
}

func (e Extent) String() string {
	return fmt.Sprintf("[%s, %s, %s, %s]",
		ftoa(float64(e.Left)), ftoa(float64(e.Bottom)),
		ftoa(float64(e.Right)), ftoa(float64(e.Top)))
}

// ParseExtent parses an extent string of the form
// "left,bottom,right,top".
func ParseExtent(s string) (Extent, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Extent{}, fmt.Errorf("extent must have 4 values: left,bottom,right,top")
	}

	var coords [4]Degrees

	for i, p := range parts {
		d, err := ParseDegrees(p)
		if err != nil {
			return Extent{}, fmt.Errorf("invalid extent coordinate %q: %w", p, err)
		}

		coords[i] = d
	}

	e := Extent{Left: coords[0], Bottom: coords[1], Right: coords[2], Top: coords[3]}
	if e.IsEmpty() {
		return Extent{}, fmt.Errorf("inverted extent %q", s)
	}

	return e, nil
}
