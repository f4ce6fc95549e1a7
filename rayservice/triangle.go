// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package rayservice answers the shadow/occlusion and first-hit ray queries
// the light baker needs: "is the light source visible from
// this luxel" and "what does this ray hit first". It follows a typed
// per-primitive ray-cast dispatch (a cast function returning hit/point),
// generalized from single-shape casts to a BVH over every shadow-casting
// triangle in the compiled level.
package rayservice

import (
	"github.com/qbsptools/bsptools/geom"
)

// Triangle is one shadow-casting primitive: three world-space points plus
// the channel mask and translucency tint of the surface it came from.
type Triangle struct {
	A, B, C     geom.Vec3
	ChannelMask uint32
	TintRGB     [3]float32 // multiplies light color when the ray passes through; [1,1,1] for opaque.
	Opaque      bool
	Bounds      geom.AABB
}

// TrianglesFromWinding fan-triangulates a convex winding into shadow
// triangles sharing one channel mask and tint.
func TrianglesFromWinding(w geom.Winding, channelMask uint32, tint [3]float32, opaque bool) []Triangle {
	if len(w) < 3 {
		return nil
	}
	var out []Triangle
	for i := 1; i+1 < len(w); i++ {
		tri := Triangle{A: w[0], B: w[i], C: w[i+1], ChannelMask: channelMask, TintRGB: tint, Opaque: opaque, Bounds: geom.EmptyAABB()}
		tri.Bounds.Extend(&tri.A)
		tri.Bounds.Extend(&tri.B)
		tri.Bounds.Extend(&tri.C)
		out = append(out, tri)
	}
	return out
}
