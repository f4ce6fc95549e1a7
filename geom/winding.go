// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

import "math"

// DegenerateEpsilon is the minimum edge length and area below which a
// Winding is treated as degenerate and discarded.
const DegenerateEpsilon = 0.01

// Winding is an ordered, convex polygon: vertices are listed
// counter-clockwise as seen from the side the plane normal points toward.
// Windings are produced by clipping an initial oversized square against a
// brush's other half-spaces and later by splitting BSP faces.
type Winding []Vec3

// BaseWinding returns a large square winding lying in plane p, big enough
// to contain any brush at the given world extent once clipped down by the
// brush's other faces: the initial face winding on each plane is a large
// square in the plane whose corners lie 2x world extent from its center
// along each in-plane axis (sides 4x world extent).
func BaseWinding(p *Plane, worldExtent float64) Winding {
	// Find the axis most aligned with the normal to build a stable basis.
	var up Vec3
	switch {
	case math.Abs(p.Normal.Z) > math.Abs(p.Normal.X) && math.Abs(p.Normal.Z) > math.Abs(p.Normal.Y):
		up = Vec3{X: 1}
	default:
		up = Vec3{Z: 1}
	}
	right := NewV3().Cross(&up, &p.Normal)
	right.Unit()
	up.Cross(&p.Normal, right)
	up.Unit()

	origin := NewV3().Scale(&p.Normal, p.Dist)
	size := worldExtent * 2

	rBig := NewV3().Scale(right, size)
	uBig := NewV3().Scale(&up, size)

	w := make(Winding, 4)
	// corner order chosen so the polygon winds CCW around p.Normal.
	w[0].Add(origin, NewV3().Add(uBig, rBig))
	w[1].Sub(origin, NewV3().Sub(rBig, uBig))
	w[2].Sub(origin, NewV3().Add(uBig, rBig))
	w[3].Add(origin, NewV3().Sub(rBig, uBig))
	return w
}

// Area returns the polygon area using the fan-triangulation (Newell) sum.
func (w Winding) Area() float64 {
	if len(w) < 3 {
		return 0
	}
	total := NewV3()
	for i := 1; i+1 < len(w); i++ {
		e1 := NewV3().Sub(&w[i], &w[0])
		e2 := NewV3().Sub(&w[i+1], &w[0])
		cr := NewV3().Cross(e1, e2)
		total.Add(total, cr)
	}
	return total.Len() * 0.5
}

// Centroid returns the unweighted average of the winding's vertices. This
// is adequate for splitter heuristics and light-source placement; it is not
// the area-weighted polygon centroid.
func (w Winding) Centroid() Vec3 {
	c := Vec3{}
	for i := range w {
		c.Add(&c, &w[i])
	}
	if len(w) > 0 {
		c.Scale(&c, 1/float64(len(w)))
	}
	return c
}

// Plane derives the supporting plane of the winding from its first three
// vertices.
func (w Winding) Plane() *Plane {
	if len(w) < 3 {
		return &Plane{}
	}
	return PlaneFromPoints(&w[0], &w[1], &w[2])
}

// Degenerate reports whether the winding has collapsed to fewer than 3
// vertices or to near-zero area.
func (w Winding) Degenerate() bool {
	return len(w) < 3 || w.Area() < DegenerateEpsilon
}

// AABB returns the axis-aligned bounds of the winding's vertices.
func (w Winding) AABB() AABB {
	box := EmptyAABB()
	for i := range w {
		box.Extend(&w[i])
	}
	return box
}

// Clip returns the portion of w on the front (Side >= -epsilon) side of
// plane p, using the Sutherland-Hodgman algorithm: walk each edge, keep
// in-front vertices, and insert a new vertex wherever an edge crosses the
// plane. This is the primitive behind brush-face clipping, BSP
// splitting and portal extraction.
func (w Winding) Clip(p *Plane, epsilon float64) Winding {
	if len(w) == 0 {
		return nil
	}
	sides := make([]int, len(w))
	dists := make([]float64, len(w))
	counts := [3]int{}
	for i := range w {
		d := p.Side(&w[i])
		dists[i] = d
		switch {
		case d > epsilon:
			sides[i] = 1
		case d < -epsilon:
			sides[i] = -1
		default:
			sides[i] = 0
		}
		counts[sides[i]+1]++
	}
	if counts[0] == 0 { // nothing behind: winding is entirely kept
		return append(Winding{}, w...)
	}
	if counts[2] == 0 { // nothing in front: winding is entirely clipped away
		return nil
	}

	out := make(Winding, 0, len(w)+4)
	for i := range w {
		cur := &w[i]
		next := &w[(i+1)%len(w)]
		if sides[i] != -1 {
			out = append(out, *cur)
		}
		if sides[i] == 0 || sides[(i+1)%len(w)] == 0 {
			continue // on-plane vertices are handled by the append above.
		}
		if sides[i] != sides[(i+1)%len(w)] {
			frac := dists[i] / (dists[i] - dists[(i+1)%len(w)])
			var mid Vec3
			mid.Lerp(cur, next, frac)
			out = append(out, mid)
		}
	}
	if out.Degenerate() {
		return nil
	}
	return out
}

// Split divides w by plane p into the portion in front and the portion
// behind, for use when a face straddles a BSP splitting plane.
func (w Winding) Split(p *Plane, epsilon float64) (front, back Winding) {
	return w.Clip(p, epsilon), w.Clip(p.Neg(), epsilon)
}

// Reverse returns the winding with vertex order flipped, used when a face
// must be emitted for the opposite side of its plane.
func (w Winding) Reverse() Winding {
	out := make(Winding, len(w))
	for i := range w {
		out[i] = w[len(w)-1-i]
	}
	return out
}

// RemoveColinear drops vertices that lie on the line between their
// neighbors within epsilon, keeping merged faces free of redundant
// points.
func (w Winding) RemoveColinear(epsilon float64) Winding {
	if len(w) < 3 {
		return w
	}
	out := make(Winding, 0, len(w))
	n := len(w)
	for i := 0; i < n; i++ {
		prev := w[(i-1+n)%n]
		cur := w[i]
		next := w[(i+1)%n]
		e1 := NewV3().Sub(&cur, &prev)
		e2 := NewV3().Sub(&next, &cur)
		e1.Unit()
		e2.Unit()
		cross := NewV3().Cross(e1, e2)
		if cross.Len() > epsilon {
			out = append(out, cur)
		}
	}
	if len(out) < 3 {
		return w
	}
	return out
}
