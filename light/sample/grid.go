// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package sample builds the per-face luxel grid describes: a
// texture-space AABB snapped to the lightmap grid, world-point inverse
// projection for every luxel, oversampling, and the decoupled-lightmap
// BSPX matrix for faces that need a resolution independent of their
// texture projection.
package sample

import (
	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
)

// DefaultWorldUnitsPerLuxel is the default luxel scale.
const DefaultWorldUnitsPerLuxel = 16

// Luxel is a single lightmap sample.
type Luxel struct {
	World    geom.Vec3
	Normal   geom.Vec3
	Occluded bool
	Styles   [4]int8 // -1 for unused;  "up to 4 lightmap styles".
	Layers   [4]geom.Vec3
}

// Grid is the 2D texture-space sample grid for one output face.
type Grid struct {
	Width, Height int
	Luxels        []Luxel
	ScaleS, ScaleT float64 // world units per luxel, per axis (supports non-square projections).
	MinS, MinT     float64 // texture-space origin of luxel (0,0), pre-snap.
}

// At returns a pointer to the luxel at (x,y), row-major.
func (g *Grid) At(x, y int) *Luxel { return &g.Luxels[y*g.Width+x] }

// Build computes a face's texture-space bounding box, snaps it to the
// luxel grid, and inverse-projects each luxel center back to world space
// and its face-plane-interpolated normal.
func Build(f *brush.Face, worldUnitsPerLuxel float64) *Grid {
	minS, maxS, minT, maxT := projectExtent(f)
	minS, maxS = snap(minS, worldUnitsPerLuxel), snap(maxS, worldUnitsPerLuxel)
	minT, maxT = snap(minT, worldUnitsPerLuxel), snap(maxT, worldUnitsPerLuxel)

	w := int((maxS-minS)/worldUnitsPerLuxel) + 1
	h := int((maxT-minT)/worldUnitsPerLuxel) + 1
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	g := &Grid{Width: w, Height: h, ScaleS: worldUnitsPerLuxel, ScaleT: worldUnitsPerLuxel, MinS: minS, MinT: minT}
	g.Luxels = make([]Luxel, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := minS + (float64(x)+0.5)*worldUnitsPerLuxel
			t := minT + (float64(y)+0.5)*worldUnitsPerLuxel
			wp, ok := InverseProject(f, s, t)
			lx := g.At(x, y)
			lx.Normal = f.Plane.Normal
			lx.Styles = [4]int8{-1, -1, -1, -1}
			if !ok {
				lx.Occluded = true
				continue
			}
			lx.World = wp
		}
	}
	return g
}

func snap(v, scale float64) float64 {
	n := v / scale
	if n < 0 {
		return float64(int(n)-1) * scale
	}
	return float64(int(n)) * scale
}

func projectExtent(f *brush.Face) (minS, maxS, minT, maxT float64) {
	minS, minT = 1e30, 1e30
	maxS, maxT = -1e30, -1e30
	for _, v := range f.Winding {
		s, t := f.Info.Project(&v)
		if s < minS {
			minS = s
		}
		if s > maxS {
			maxS = s
		}
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
	}
	return
}

// InverseProject recovers the world-space point on f's plane whose texture
// coordinates are (s, t), solving the 2D-affine-from-3-plane system: the
// face's plane equation plus the two texture axis equations.
func InverseProject(f *brush.Face, s, t float64) (geom.Vec3, bool) {
	sAxis := geom.Plane{Normal: geom.Vec3{X: f.Info.S.X, Y: f.Info.S.Y, Z: f.Info.S.Z}, Dist: s - f.Info.S.W}
	tAxis := geom.Plane{Normal: geom.Vec3{X: f.Info.T.X, Y: f.Info.T.Y, Z: f.Info.T.Z}, Dist: t - f.Info.T.W}
	return geom.Intersect3(&f.Plane, &sAxis, &tAxis)
}
