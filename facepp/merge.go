// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package facepp post-processes BSP output faces before they are written
// to the .bsp: merging coplanar neighbors, subdividing oversized surfaces,
// repairing T-junctions, and computing phong-smoothed vertex normals.
// Every pass operates on geom.Winding the same way brush CSG
// and BSP splitting do, so a face here is never more than a plane, a
// texinfo reference, and a winding.
package facepp

import (
	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
)

// Epsilon is the shared on-plane/on-edge tolerance for every pass in this
// package, matching brush.PlaneEpsilon.
const Epsilon = brush.PlaneEpsilon

// Face is one polygon as handed to the post-processing passes: a plane,
// decoded texture projection, winding, and the owning brush's entity index.
type Face struct {
	brush.Face
	EntityIndex int
}

// MergeCoplanar repeatedly merges adjacent faces that share a plane and an
// edge into a single winding, to a fixpoint. Faces with different
// texinfo are never merged, since doing so would lose the UV projection of
// one side.
func MergeCoplanar(faces []Face) []Face {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(faces); i++ {
			for j := i + 1; j < len(faces); j++ {
				if !mergeable(&faces[i], &faces[j]) {
					continue
				}
				merged, ok := mergeWindings(faces[i].Winding, faces[j].Winding)
				if !ok {
					continue
				}
				faces[i].Winding = merged
				faces = append(faces[:j], faces[j+1:]...)
				changed = true
				j--
			}
		}
	}
	return faces
}

func mergeable(a, b *Face) bool {
	return a.EntityIndex == b.EntityIndex &&
		a.Info == b.Info &&
		a.Plane.NearlyEquals(&b.Plane, Epsilon, 1e-5)
}

// mergeWindings joins two coplanar windings if they share exactly one edge,
// splicing b's remaining vertices into a at the shared edge and dropping
// the now-interior colinear point, per the classic "coplanar face merge"
// algorithm used by every BSP compiler in this lineage.
func mergeWindings(a, b geom.Winding) (geom.Winding, bool) {
	ai, bi, ok := findSharedEdge(a, b)
	if !ok {
		return nil, false
	}
	// a's edge (a[ai], a[ai+1]) matches b's reversed edge (b[bi+1], b[bi]).
	// Splice in b's remaining vertices, starting after bi+1 and wrapping
	// back around to bi, between a's two shared-edge endpoints.
	merged := make(geom.Winding, 0, len(a)+len(b)-2)
	merged = append(merged, a[:ai+1]...)
	for k := 2; k < len(b); k++ {
		idx := (bi + k) % len(b)
		merged = append(merged, b[idx])
	}
	merged = append(merged, a[ai+1:]...)
	merged.RemoveColinear(Epsilon)
	if merged.Degenerate() {
		return nil, false
	}
	return merged, true
}

// findSharedEdge looks for an edge (p, q) in a and its reverse (q, p) in b,
// the signature of two coplanar windings with opposite winding order
// sharing a border (the standard convention for adjacent BSP faces).
func findSharedEdge(a, b geom.Winding) (ai, bi int, ok bool) {
	for i := 0; i < len(a); i++ {
		p, q := a[i], a[(i+1)%len(a)]
		for j := 0; j < len(b); j++ {
			p2, q2 := b[j], b[(j+1)%len(b)]
			if p.Aeq3(&q2, Epsilon) && q.Aeq3(&p2, Epsilon) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
