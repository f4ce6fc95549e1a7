// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sample

import (
	"math"

	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/facepp"
	"github.com/qbsptools/bsptools/geom"
)

// ApplyPhongNormals overwrites every non-occluded luxel's flat face normal
// with one interpolated from vertexNormals (as computed by
// facepp.PhongNormals for this face), locating the luxel within the
// winding's triangle fan by Barycentric weight and blending the fan
// triangle's three smoothed vertex normals. A luxel that lies in no earlier
// fan triangle (such as one past the winding's edge) is blended from the
// last triangle, with negative weights clamped to zero.
func ApplyPhongNormals(g *Grid, f *brush.Face, vertexNormals map[facepp.VertexKey]geom.Vec3) {
	if len(f.Winding) < 3 || len(vertexNormals) == 0 {
		return
	}
	a := &f.Winding[0]
	na, naOK := vertexNormals[facepp.KeyOf(a)]
	if !naOK {
		return
	}
	for i := range g.Luxels {
		lx := &g.Luxels[i]
		if lx.Occluded {
			continue
		}
		for t := 1; t+1 < len(f.Winding); t++ {
			b, c := &f.Winding[t], &f.Winding[t+1]
			u, v, w := geom.Barycentric(&lx.World, a, b, c)
			last := t+2 == len(f.Winding)
			if !last && (u < -0.01 || v < -0.01 || w < -0.01) {
				continue
			}
			u, v, w = math.Max(u, 0), math.Max(v, 0), math.Max(w, 0)
			nb, nbOK := vertexNormals[facepp.KeyOf(b)]
			nc, ncOK := vertexNormals[facepp.KeyOf(c)]
			if !nbOK || !ncOK {
				break
			}
			var n, sb, sc geom.Vec3
			n.Scale(&na, u)
			sb.Scale(&nb, v)
			sc.Scale(&nc, w)
			n.Add(&n, &sb)
			n.Add(&n, &sc)
			n.Unit()
			lx.Normal = n
			break
		}
	}
}
