// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package facepp

import (
	"github.com/qbsptools/bsptools/geom"
)

// DefaultSubdivideSize is the default maximum lightmap-texture-space extent
// of an output face before it is cut in two.
const DefaultSubdivideSize = 240

// Subdivide cuts any face whose in-plane extent along either texture axis
// exceeds size into two pieces, recursively, until every output face fits.
// Faces for which exempt returns true (internal/assemble passes sky and
// liquid surfaces) are kept whole; a nil exempt keeps no face whole.
func Subdivide(faces []Face, size float64, exempt func(f *Face) bool) []Face {
	var out []Face
	var walk func(f Face)
	walk = func(f Face) {
		if exempt != nil && exempt(&f) {
			out = append(out, f)
			return
		}
		axis, lo, hi, ok := oversizedAxis(&f, size)
		if !ok {
			out = append(out, f)
			return
		}
		mid := (lo + hi) / 2
		cut := cutPlane(&f, axis, mid)
		front, back := f.Winding.Split(&cut, Epsilon)
		if front == nil || back == nil || front.Degenerate() || back.Degenerate() {
			out = append(out, f) // couldn't cleanly split; keep whole rather than drop it.
			return
		}
		ff, bf := f, f
		ff.Winding, bf.Winding = front, back
		walk(ff)
		walk(bf)
	}
	for _, f := range faces {
		walk(f)
	}
	return out
}

// oversizedAxis reports the texture axis (S=0, T=1) along which f's winding
// spans more than size units, and the span's low/high projected extent, so
// the caller can cut at its midpoint.
func oversizedAxis(f *Face, size float64) (axis int, lo, hi float64, ok bool) {
	minS, maxS := projectExtent(f, 0)
	if maxS-minS > size {
		return 0, minS, maxS, true
	}
	minT, maxT := projectExtent(f, 1)
	if maxT-minT > size {
		return 1, minT, maxT, true
	}
	return 0, 0, 0, false
}

func projectExtent(f *Face, axis int) (lo, hi float64) {
	axisVec := f.Info.S
	if axis == 1 {
		axisVec = f.Info.T
	}
	lo, hi = 1e30, -1e30
	for i := range f.Winding {
		p := f.Winding[i]
		d := p.X*axisVec.X + p.Y*axisVec.Y + p.Z*axisVec.Z + axisVec.W
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// cutPlane builds a world-space plane perpendicular to the face's own
// plane, whose intersection with it runs along the line of constant
// texture coordinate mid on the given axis — the line Subdivide cuts along.
func cutPlane(f *Face, axis int, mid float64) geom.Plane {
	axisVec := f.Info.S
	if axis == 1 {
		axisVec = f.Info.T
	}
	texNormal := geom.Vec3{X: axisVec.X, Y: axisVec.Y, Z: axisVec.Z}
	// The cut normal is the texture axis projected into the face's plane:
	// moving along it changes the texture coordinate at rate texLen.
	cutNormal := f.Plane.Normal
	cutNormal.Scale(&cutNormal, -texNormal.Dot(&f.Plane.Normal))
	cutNormal.Add(&cutNormal, &texNormal)
	texLen := cutNormal.Len()
	if texLen == 0 {
		texLen = 1
	}
	cutNormal.Scale(&cutNormal, 1/texLen)
	// The face's first vertex anchors the cut plane's distance, offset by
	// (mid - current) texture units along the cut normal.
	p0 := f.Winding[0]
	cur := p0.X*axisVec.X + p0.Y*axisVec.Y + p0.Z*axisVec.Z + axisVec.W
	delta := mid - cur
	dist := cutNormal.Dot(&p0) + delta/texLen
	return geom.Plane{Normal: cutNormal, Dist: dist}
}
