// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sample

import "github.com/qbsptools/bsptools/geom"

// DecoupledTransform is the per-face world-to-lightmap-texel matrix stored
// in the BSPX "DECOUPLED_LM" lump, used when a face's lightmap resolution
// is set independently of its visible texture projection.
type DecoupledTransform struct {
	Width, Height int32
	// World space -> texel space: texel = M * world + Offset.
	Row0, Row1 geom.Vec4
	Offset     [2]float32
}

// DecoupledFromGrid derives the transform a grid built at a possibly
// different world-units-per-luxel scale than the face's native texture
// projection, so the renderer can sample the lightmap independent of the
// diffuse texture's UVs.
func DecoupledFromGrid(g *Grid, sAxis, tAxis geom.Vec4) DecoupledTransform {
	return DecoupledTransform{
		Width:  int32(g.Width),
		Height: int32(g.Height),
		Row0:   geom.Vec4{X: sAxis.X / g.ScaleS, Y: sAxis.Y / g.ScaleS, Z: sAxis.Z / g.ScaleS, W: (sAxis.W - g.MinS) / g.ScaleS},
		Row1:   geom.Vec4{X: tAxis.X / g.ScaleT, Y: tAxis.Y / g.ScaleT, Z: tAxis.Z / g.ScaleT, W: (tAxis.W - g.MinT) / g.ScaleT},
		Offset: [2]float32{0, 0},
	}
}
