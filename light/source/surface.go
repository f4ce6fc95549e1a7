// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package source

import "github.com/qbsptools/bsptools/geom"

// Template binds a texture name to the light parameters spawned on every
// matching face.
type Template struct {
	TextureName        string
	Color              geom.Vec3
	Intensity          float64
	Formula            Formula
	MinLightScale      float64
	SubdivideSize       float64
}

// SpawnSurfaceLights subdivides a textured winding into roughly square
// patches of t.SubdivideSize and returns one point light per patch,
// centered on the patch centroid with intensity scaled by patch area.
func SpawnSurfaceLights(w geom.Winding, normal geom.Vec3, t *Template) []Light {
	patches := subdividePatches(w, t.SubdivideSize)
	out := make([]Light, 0, len(patches))
	for _, patch := range patches {
		area := patch.Area()
		if area <= 0 {
			continue
		}
		out = append(out, Light{
			Pos:        patch.Centroid(),
			Color:      t.Color,
			Intensity:  t.Intensity * area * t.MinLightScale,
			Formula:    t.Formula,
			ScaleDist:  1,
			Atten:      1,
			AngleScale: 0.5,
		})
	}
	return out
}

// subdividePatches recursively halves w with an axis-aligned plane through
// the middle of its bounding box's longest world axis until every patch's
// bounding extent is within size.
func subdividePatches(w geom.Winding, size float64) []geom.Winding {
	aabb := w.AABB()
	extent := aabb.Size()
	longest := extent.X
	axis := 0
	if extent.Y > longest {
		longest, axis = extent.Y, 1
	}
	if extent.Z > longest {
		longest, axis = extent.Z, 2
	}
	if longest <= size {
		return []geom.Winding{w}
	}
	mid := (axisMin(aabb, axis) + axisMax(aabb, axis)) / 2
	normal := geom.Vec3{}
	switch axis {
	case 0:
		normal = geom.Vec3{X: 1}
	case 1:
		normal = geom.Vec3{Y: 1}
	default:
		normal = geom.Vec3{Z: 1}
	}
	cut := geom.Plane{Normal: normal, Dist: mid}
	front, back := w.Split(&cut, 0.01)
	var out []geom.Winding
	if front != nil && !front.Degenerate() {
		out = append(out, subdividePatches(front, size)...)
	}
	if back != nil && !back.Degenerate() {
		out = append(out, subdividePatches(back, size)...)
	}
	return out
}

func axisMin(b geom.AABB, axis int) float64 {
	switch axis {
	case 0:
		return b.Min.X
	case 1:
		return b.Min.Y
	default:
		return b.Min.Z
	}
}

func axisMax(b geom.AABB, axis int) float64 {
	switch axis {
	case 0:
		return b.Max.X
	case 1:
		return b.Max.Y
	default:
		return b.Max.Z
	}
}
