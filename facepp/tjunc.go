// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package facepp

import "github.com/qbsptools/bsptools/geom"

// MaxFaceVerts is the on-disk face's practical vertex ceiling. Classic
// tools treated exceeding it as fatal; this implementation instead fans an
// overflowing face into a triangle fan rather than aborting the compile.
const MaxFaceVerts = 64

// FixTJunctions inserts a vertex into every edge of every face that passes
// close enough to another face's vertex to create a visual crack at
// runtime. This only affects
// the topology handed to the renderer; it does not change any plane.
func FixTJunctions(faces []Face, epsilon float64) []Face {
	var allVerts []geom.Vec3
	for _, f := range faces {
		allVerts = append(allVerts, f.Winding...)
	}

	out := make([]Face, len(faces))
	for i, f := range faces {
		out[i] = f
		out[i].Winding = insertTJunctions(f.Winding, allVerts, epsilon)
	}
	return fanOverflowingFaces(out)
}

// insertTJunctions walks w's edges and splices in any vertex from verts
// that lies strictly between the edge's endpoints (colinear, within
// epsilon, and not already a vertex of w).
func insertTJunctions(w geom.Winding, verts []geom.Vec3, epsilon float64) geom.Winding {
	out := make(geom.Winding, 0, len(w))
	for i := range w {
		a, b := w[i], w[(i+1)%len(w)]
		out = append(out, a)
		var onEdge []geom.Vec3
		for _, v := range verts {
			if v.Aeq3(&a, epsilon) || v.Aeq3(&b, epsilon) {
				continue
			}
			if pointOnSegment(v, a, b, epsilon) {
				onEdge = append(onEdge, v)
			}
		}
		sortAlongEdge(onEdge, a, b)
		out = append(out, onEdge...)
	}
	return out
}

func pointOnSegment(p, a, b geom.Vec3, epsilon float64) bool {
	ab := geom.Vec3{}
	ab.Sub(&b, &a)
	ap := geom.Vec3{}
	ap.Sub(&p, &a)
	cross := geom.Vec3{}
	cross.Cross(&ab, &ap)
	if cross.Len() > epsilon*ab.Len() {
		return false
	}
	t := ap.Dot(&ab) / ab.Dot(&ab)
	return t > epsilon && t < 1-epsilon
}

func sortAlongEdge(pts []geom.Vec3, a, b geom.Vec3) {
	ab := geom.Vec3{}
	ab.Sub(&b, &a)
	key := func(p geom.Vec3) float64 {
		ap := geom.Vec3{}
		ap.Sub(&p, &a)
		return ap.Dot(&ab)
	}
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && key(pts[j-1]) > key(pts[j]); j-- {
			pts[j-1], pts[j] = pts[j], pts[j-1]
		}
	}
}

// fanOverflowingFaces splits any face whose vertex count still exceeds
// MaxFaceVerts after T-junction insertion into a triangle fan from its
// first vertex: prefer splitting an overflowing face to
// failing the compile.
func fanOverflowingFaces(faces []Face) []Face {
	var out []Face
	for _, f := range faces {
		if len(f.Winding) <= MaxFaceVerts {
			out = append(out, f)
			continue
		}
		apex := f.Winding[0]
		for i := 1; i+1 < len(f.Winding); i++ {
			tri := f
			tri.Winding = geom.Winding{apex, f.Winding[i], f.Winding[i+1]}
			out = append(out, tri)
		}
	}
	return out
}
