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
	"math"

	"github.com/golang/geo/r2"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/model"
)

const (
	defaultOrthoThreshold = 12   // degrees of tolerated corner skew
	defaultOrthoEpsilon   = 1e-4 // squareness score considered square
	orthoMaxIterations    = 1000
	orthoStepScale        = 0.1
	nearlyStraightDotp    = -0.707106781186547 // cos 135°
)

// Orthogonalize squares the corners of a way by iteratively relaxing
// its vertices.  Corners already within Threshold degrees of square or
// straight are left alone; vertices shared with other ways or carrying
// interesting tags are held fixed.
type Orthogonalize struct {
	ID model.ID

	// Threshold is the corner skew tolerance in degrees; zero means 12.
	Threshold float64

	// Epsilon is the squareness score below which the way counts as
	// already square; zero means 1e-4.
	Epsilon float64

	Policy *model.Policy
}

var (
	_ Validated      = Orthogonalize{}
	_ Transitionable = Orthogonalize{}
)

func (a Orthogonalize) Apply(g *editgraph.Graph) *editgraph.Graph {
	return a.Transition(g, 1)
}

func (a Orthogonalize) Transition(g *editgraph.Graph, t float64) *editgraph.Graph {
	s, ok := a.solve(g)
	if !ok {
		return g
	}

	for i, n := range s.nodes {
		final := s.unproject(s.points[i])

		lon := lerp(n.Lon, final[0], t)
		lat := lerp(n.Lat, final[1], t)

		if lon == n.Lon && lat == n.Lat {
			continue
		}

		g = g.Replace(n.Move(lon, lat))
	}

	return g
}

// Disabled reports "not_eligible" for ways that cannot be squared at
// all, "square_enough" for ways already orthogonal within tolerance,
// and "not_squarish" when no corner is close enough to square or
// straight to adjust.
func (a Orthogonalize) Disabled(g *editgraph.Graph) Reason {
	s, ok := a.solveInput(g)
	if !ok {
		return NotEligible
	}

	if s.score() < a.epsilon() {
		return SquareEnough
	}

	if !s.hasAdjustableCorner() {
		return NotSquarish
	}

	return Enabled
}

func (a Orthogonalize) threshold() float64 {
	if a.Threshold > 0 {
		return a.Threshold
	}

	return defaultOrthoThreshold
}

func (a Orthogonalize) epsilon() float64 {
	if a.Epsilon > 0 {
		return a.Epsilon
	}

	return defaultOrthoEpsilon
}

// orthoSolver carries the planar projection of the way being squared.
// Longitudes are scaled by the cosine of the centroid latitude so that
// angles computed in the plane approximate angles on the ground.
type orthoSolver struct {
	nodes  []*model.Node
	points []r2.Point
	fixed  []bool
	closed bool

	cosLat float64

	lower float64 // cos(90 - threshold), below it a corner is square
	upper float64 // cos(threshold), above it a corner is straight
}

func (a Orthogonalize) solveInput(g *editgraph.Graph) (*orthoSolver, bool) {
	w, ok := findWay(g, a.ID)
	if !ok {
		return nil, false
	}

	ids := w.Nodes
	closed := w.IsClosed()

	if closed {
		ids = ids[:len(ids)-1]
	}

	if len(ids) < 3 {
		return nil, false
	}

	nodes := make([]*model.Node, 0, len(ids))

	var sumLat float64

	for _, id := range ids {
		n, ok := findNode(g, id)
		if !ok {
			return nil, false
		}

		nodes = append(nodes, n)
		sumLat += float64(n.Lat)
	}

	threshold := a.threshold()

	s := &orthoSolver{
		nodes:  nodes,
		fixed:  make([]bool, len(nodes)),
		closed: closed,
		cosLat: math.Cos(sumLat / float64(len(nodes)) * math.Pi / 180),
		lower:  math.Cos((90 - threshold) * math.Pi / 180),
		upper:  math.Cos(threshold * math.Pi / 180),
	}

	s.points = make([]r2.Point, len(nodes))

	for i, n := range nodes {
		s.points[i] = s.project(n)
		s.fixed[i] = n.HasInterestingTags(a.Policy) || len(g.ParentWays(n.ID)) > 1
	}

	return s, true
}

// solve runs the relaxation to completion.  ok is false when the way is
// ineligible or already square.
func (a Orthogonalize) solve(g *editgraph.Graph) (*orthoSolver, bool) {
	if a.Disabled(g) != Enabled {
		return nil, false
	}

	s, ok := a.solveInput(g)
	if !ok {
		return nil, false
	}

	eps := a.epsilon()
	best := s.score()

	for i := 0; i < orthoMaxIterations; i++ {
		motions := make([]r2.Point, len(s.points))

		for j := range s.points {
			if !s.fixed[j] {
				motions[j] = s.motion(j)
			}
		}

		for j, m := range motions {
			s.points[j] = s.points[j].Add(m)
		}

		score := s.score()
		if best-score < eps {
			break
		}

		best = score
	}

	return s, true
}

func (s *orthoSolver) project(n *model.Node) r2.Point {
	return r2.Point{X: float64(n.Lon) * s.cosLat, Y: float64(n.Lat)}
}

func (s *orthoSolver) unproject(p r2.Point) [2]model.Degrees {
	return [2]model.Degrees{model.Degrees(p.X / s.cosLat), model.Degrees(p.Y)}
}

// corner returns the normalized dot product of the edge vectors meeting
// at vertex i, or ok false when an edge degenerates to a point.
func (s *orthoSolver) corner(i int) (float64, bool) {
	n := len(s.points)

	a := s.points[(i-1+n)%n]
	o := s.points[i]
	b := s.points[(i+1)%n]

	p := a.Sub(o)
	q := b.Sub(o)

	if p.Norm() == 0 || q.Norm() == 0 {
		return 0, false
	}

	return p.Normalize().Dot(q.Normalize()), true
}

// cornerRange returns the vertex index range that actually forms
// corners: every vertex of a ring, interior vertices of an open way.
func (s *orthoSolver) cornerRange() (first, last int) {
	if s.closed {
		return 0, len(s.points)
	}

	return 1, len(s.points) - 1
}

// score sums each corner's distance from square or straight.  Corners
// within the thresholds contribute nothing.
func (s *orthoSolver) score() float64 {
	var sum float64

	first, last := s.cornerRange()

	for i := first; i < last; i++ {
		dotp, ok := s.corner(i)
		if !ok {
			continue
		}

		if math.Abs(dotp) < s.lower || math.Abs(dotp) > s.upper {
			continue
		}

		sum += 2 * math.Min(math.Abs(dotp-1), math.Min(math.Abs(dotp), math.Abs(dotp+1)))
	}

	return sum
}

// hasAdjustableCorner reports whether any scoring corner is closer to
// square than to straight.  A way whose skewed corners all verge on
// straight lines would collapse rather than square up.
func (s *orthoSolver) hasAdjustableCorner() bool {
	first, last := s.cornerRange()

	for i := first; i < last; i++ {
		dotp, ok := s.corner(i)
		if !ok {
			continue
		}

		abs := math.Abs(dotp)
		if abs < s.lower || abs > s.upper {
			continue
		}

		if abs <= -nearlyStraightDotp {
			return true
		}
	}

	return false
}

// motion computes the relaxation step for vertex i: a nudge along the
// corner bisector sized by how far the corner is from square, or from
// straight for very open corners.
func (s *orthoSolver) motion(i int) r2.Point {
	n := len(s.points)

	a := s.points[(i-1+n)%n]
	o := s.points[i]
	b := s.points[(i+1)%n]

	p := a.Sub(o)
	q := b.Sub(o)

	scale := 2 * math.Min(p.Norm(), q.Norm())

	if p.Norm() == 0 || q.Norm() == 0 {
		return r2.Point{}
	}

	p = p.Normalize()
	q = q.Normalize()

	dotp := p.Dot(q)

	// nearly straight corners are pushed flat instead of square
	if dotp < nearlyStraightDotp {
		dotp += 1
	}

	bisector := p.Add(q)
	if bisector.Norm() == 0 {
		return r2.Point{}
	}

	return bisector.Normalize().Mul(orthoStepScale * dotp * scale)
}
