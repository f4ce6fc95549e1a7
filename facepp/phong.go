// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package facepp

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
)

// VertexKey identifies a shared vertex position for normal averaging,
// quantized so that coincident-but-not-bit-identical vertices (introduced
// by CSG clipping) still merge into one phong group.
type VertexKey struct {
	X, Y, Z int64
}

const phongQuantum = 1.0 / 8

// KeyOf quantizes v into the VertexKey used to group coincident vertices
// for phong smoothing, exported so callers outside this package (the
// light-sample grid) can look a specific vertex's smoothed normal back up.
func KeyOf(v *geom.Vec3) VertexKey {
	return VertexKey{
		X: int64(math.Round(v.X / phongQuantum)),
		Y: int64(math.Round(v.Y / phongQuantum)),
		Z: int64(math.Round(v.Z / phongQuantum)),
	}
}

// PhongNormals computes a smoothed vertex normal per (face, vertex) pair:
// for each vertex, the area-weighted average of every adjacent face's
// plane normal whose dihedral angle to this face is within phongAngleDeg,
// ("_phong"/"_phong_angle" epairs control per-entity smoothing
// groups). Faces default to flat (their own plane normal) when no
// phongAngleDeg override applies — callers should only invoke this for
// faces whose entity opted in.
func PhongNormals(faces []Face, phongAngleDeg float64) map[int]map[VertexKey]geom.Vec3 {
	cosThreshold := math.Cos(geom.Rad(phongAngleDeg))

	groups := map[VertexKey][]int{}
	for fi, f := range faces {
		for vi := range f.Winding {
			k := KeyOf(&f.Winding[vi])
			groups[k] = appendUnique(groups[k], fi)
		}
	}

	out := make(map[int]map[VertexKey]geom.Vec3, len(faces))
	for fi, f := range faces {
		out[fi] = map[VertexKey]geom.Vec3{}
		for vi := range f.Winding {
			k := KeyOf(&f.Winding[vi])
			sum := geom.Vec3{}
			weight := 0.0
			for _, other := range groups[k] {
				on := faces[other].Plane.Normal
				if on.Dot(&f.Plane.Normal) < cosThreshold {
					continue
				}
				area := faces[other].Winding.Area()
				scaled := on
				scaled.Scale(&scaled, area)
				sum.Add(&sum, &scaled)
				weight += area
			}
			if weight == 0 {
				sum = f.Plane.Normal
			} else {
				sum.Unit()
			}
			out[fi][k] = sum
		}
	}
	return out
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}
