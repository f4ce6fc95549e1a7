// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

import "math"

// Plane is a half-space boundary: all points p satisfying Normal.Dot(p) ==
// Dist lie on the plane, Normal.Dot(p) > Dist lie in front, and
// Normal.Dot(p) < Dist lie behind. Normal is expected to always be unit
// length; callers that build a Plane from three points should call Fix
// before relying on Dist.
type Plane struct {
	Normal Vec3
	Dist   float64
}

// PlaneFromPoints builds the plane through a, b, c in the winding order
// a->b->c, with the normal following the right-hand rule (CCW as seen
// from the side the normal points toward).
func PlaneFromPoints(a, b, c *Vec3) *Plane {
	p := &Plane{}
	e1, e2 := NewV3().Sub(b, a), NewV3().Sub(c, a)
	p.Normal.Cross(e1, e2)
	p.Normal.Unit()
	p.Dist = p.Normal.Dot(a)
	return p
}

// Fix renormalizes a plane whose normal may have drifted away from unit
// length (accumulated error from repeated transforms). Dist is rescaled to
// match so the plane equation is unchanged.
func (p *Plane) Fix() *Plane {
	length := p.Normal.Len()
	if length != 0 && !Aeq(length, 1) {
		p.Normal.Div(length)
		p.Dist /= length
	}
	return p
}

// Side returns the signed distance of point from the plane: positive in
// front, negative behind, zero on the plane.
func (p *Plane) Side(point *Vec3) float64 {
	return p.Normal.Dot(point) - p.Dist
}

// Classify buckets a point against the plane using epsilon as the on-plane
// tolerance. Returns 0 for on-plane, 1 for front, -1 for behind.
func (p *Plane) Classify(point *Vec3, epsilon float64) int {
	d := p.Side(point)
	switch {
	case d > epsilon:
		return 1
	case d < -epsilon:
		return -1
	}
	return 0
}

// Neg returns the plane facing the opposite direction through the same
// point set: Normal is negated and Dist follows.
func (p *Plane) Neg() *Plane {
	return &Plane{Normal: *NewV3().Neg(&p.Normal), Dist: -p.Dist}
}

// NearlyEquals reports whether two planes describe the same half-space
// within the given normal-angle and distance tolerances. Used to discard
// duplicate brush faces (: "Duplicate planes (within ε in both normal
// and distance) are discarded before clipping").
func (p *Plane) NearlyEquals(o *Plane, distEps, normEps float64) bool {
	return math.Abs(p.Dist-o.Dist) <= distEps && p.Normal.Aeq3(&o.Normal, normEps)
}

// Aeq3 reports whether v and a differ by no more than eps in every axis.
func (v *Vec3) Aeq3(a *Vec3, eps float64) bool {
	return math.Abs(v.X-a.X) <= eps && math.Abs(v.Y-a.Y) <= eps && math.Abs(v.Z-a.Z) <= eps
}

// IntersectLine finds the point where the line through a and b crosses the
// plane. ok is false if the segment direction is parallel to the plane.
func (p *Plane) IntersectLine(a, b *Vec3) (point Vec3, ok bool) {
	dir := NewV3().Sub(b, a)
	denom := p.Normal.Dot(dir)
	if AeqZ(denom) {
		return point, false
	}
	t := (p.Dist - p.Normal.Dot(a)) / denom
	point.Add(a, dir.Scale(dir, t))
	return point, true
}

// Intersect3 solves for the single point common to three planes, used to
// recover a brush vertex from the three faces that meet there. ok is false
// when the planes are parallel or otherwise degenerate.
func Intersect3(p1, p2, p3 *Plane) (point Vec3, ok bool) {
	n1, n2, n3 := &p1.Normal, &p2.Normal, &p3.Normal
	cross23 := NewV3().Cross(n2, n3)
	denom := n1.Dot(cross23)
	if AeqZ(denom) {
		return point, false
	}
	cross31 := NewV3().Cross(n3, n1)
	cross12 := NewV3().Cross(n1, n2)

	acc := NewV3().Scale(cross23, p1.Dist)
	acc.Add(acc, cross31.Scale(cross31, p2.Dist))
	acc.Add(acc, cross12.Scale(cross12, p3.Dist))
	point = *acc.Div(denom)
	return point, true
}
