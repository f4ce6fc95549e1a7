// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package brush

import "github.com/qbsptools/bsptools/geom"

// OutputFace is one CSG-trimmed polygon handed to the BSP builder: the
// remaining visible portion of a brush face after higher-priority brushes
// have carved away the part of it they cover.
type OutputFace struct {
	Face
	Owner *Brush
}

// CSG resolves overlaps between brushes by content priority: for
// every pair of intersecting brushes, the lower-priority brush's face
// windings that lie inside the higher-priority brush's volume are removed.
// Ties (equal priority) break by map order: the brush later in the input
// list wins.
func CSG(brushes []*Brush) []OutputFace {
	var out []OutputFace
	for i, b := range brushes {
		for _, f := range b.Faces {
			pieces := []geom.Winding{f.Winding}
			for j, other := range brushes {
				if j == i || !b.Bounds.Intersects(other.Bounds) {
					continue
				}
				if !outranks(other, b, j, i) {
					continue
				}
				var next []geom.Winding
				for _, piece := range pieces {
					next = append(next, clipOutside(piece, other)...)
				}
				pieces = next
				if len(pieces) == 0 {
					break
				}
			}
			for _, piece := range pieces {
				if piece.Degenerate() {
					continue
				}
				out = append(out, OutputFace{Face: Face{Plane: f.Plane, Info: f.Info, Winding: piece}, Owner: b})
			}
		}
	}
	return out
}

// outranks reports whether brush "higher" carves brush "lower" when they
// intersect: strictly higher priority always wins; on a tie, the brush
// later in map order (larger index) wins.
func outranks(higher, lower *Brush, higherIdx, lowerIdx int) bool {
	hp, lp := higher.Contents.Priority(), lower.Contents.Priority()
	if hp != lp {
		return hp > lp
	}
	return higherIdx > lowerIdx
}

// clipOutside returns the pieces of winding w that lie outside brush b,
// by sequentially peeling off the part of w in front of each of b's planes
// and testing the remainder against the rest of b's planes. Whatever
// remains after every plane is entirely inside b and is dropped. This is
// the standard brush-vs-brush face-clip algorithm (chop one convex winding
// by the convex volume of another).
func clipOutside(w geom.Winding, b *Brush) []geom.Winding {
	if b.MirrorInside {
		// A mirror-inside brush keeps both-sided faces bordering it
		// instead of carving the neighbor away.
		return []geom.Winding{w}
	}
	var outside []geom.Winding
	remaining := w
	for i := range b.Faces {
		if remaining == nil {
			break
		}
		// A winding lying on one of b's planes is on b's boundary and counts
		// as inside b, so a face coincident with b's surface is carved too.
		on := true
		for j := range remaining {
			if d := b.Faces[i].Plane.Side(&remaining[j]); d > PlaneEpsilon || d < -PlaneEpsilon {
				on = false
				break
			}
		}
		if on {
			continue
		}
		front, back := remaining.Split(&b.Faces[i].Plane, PlaneEpsilon)
		if front != nil && !front.Degenerate() {
			outside = append(outside, front)
		}
		remaining = back
	}
	return outside
}
