// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package source

import "github.com/qbsptools/bsptools/geom"

// Bounce is a single-point indirect light emitted from a lit face's
// centroid: "intensity proportional to radiosity * texture_color
// * area / (distance^2 + 128^2)". The 128^2 term keeps the formula finite
// as distance approaches zero, exactly as the classic tools' bias.
type Bounce struct {
	Pos         geom.Vec3
	Normal      geom.Vec3
	Color       geom.Vec3 // texture average color, 0..255.
	Radiosity   float64   // average lit intensity over the source face.
	Area        float64
}

// bounceDistanceBias is the "128^2" constant from 's bounce formula.
const bounceDistanceBias = 128 * 128

// Intensity returns the bounce light's contribution at a point distance d
// away from b.Pos.
func (b *Bounce) Intensity(d float64) float64 {
	return b.Radiosity * b.Area / (d*d + bounceDistanceBias)
}

// CollectBounces builds one Bounce per lit face, to be folded into the next
// bounce pass's light list.
func CollectBounces(centroids []geom.Vec3, normals []geom.Vec3, avgColor []geom.Vec3, avgLit []float64, area []float64) []Bounce {
	n := len(centroids)
	out := make([]Bounce, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Bounce{Pos: centroids[i], Normal: normals[i], Color: avgColor[i], Radiosity: avgLit[i], Area: area[i]})
	}
	return out
}
