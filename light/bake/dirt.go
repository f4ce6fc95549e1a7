// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package bake is the direct+bounce integrator: per-face, per-light,
// per-luxel accumulation into style buffers, dirtmapping, minlight,
// gamma/rangescale post-processing, and output packing for the paletted,
// RGB-native and HDR lighting formats. The per-luxel occlusion and bounce
// queries are built entirely on rayservice.BVH; this package owns only the
// numeric integration, keeping a clean separation between the generic ray
// query surface and the domain-specific code that interprets its results.
package bake

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/light/sample"
	"github.com/qbsptools/bsptools/rayservice"
)

// DirtOptions configures ambient occlusion sampling.
type DirtOptions struct {
	Enabled  bool
	Angles   int     // azimuth samples per elevation ring; spec default yields 16.
	Elevations int   // elevation rings; spec default 3.
	AngleDeg float64 // half-angle of the sampling cone around the normal.
	Depth    float64 // max occlusion ray distance.
	Gain     float64
	Scale    float64
}

// DefaultDirt is the "16 angles x 3 elevations" ambient-occlusion default.
var DefaultDirt = DirtOptions{Enabled: true, Angles: 16, Elevations: 3, AngleDeg: 88, Depth: 128, Gain: 1, Scale: 1}

// dirtDirections returns the fixed, deterministic set of unit vectors in the
// +Z hemisphere used for every dirtmapped luxel, reused across the whole
// bake so two runs of the same map always sample identical directions.
func dirtDirections(opts DirtOptions) []geom.Vec3 {
	maxElev := geom.Rad(opts.AngleDeg)
	var dirs []geom.Vec3
	for e := 1; e <= opts.Elevations; e++ {
		elev := maxElev * float64(e) / float64(opts.Elevations)
		sinE, cosE := math.Sin(elev), math.Cos(elev)
		for a := 0; a < opts.Angles; a++ {
			az := 2 * math.Pi * float64(a) / float64(opts.Angles)
			dirs = append(dirs, geom.Vec3{
				X: sinE * math.Cos(az),
				Y: sinE * math.Sin(az),
				Z: cosE,
			})
		}
	}
	return dirs
}

// Dirt computes the ambient occlusion factor for one luxel:
// `1 - mean(max(0, 1 - hit_dist/depth))^gain * scale`, clamped to [0,1].
func Dirt(world, normal geom.Vec3, scene *rayservice.BVH, opts DirtOptions) float64 {
	if !opts.Enabled {
		return 1
	}
	right, fwd := geom.Vec3{}, geom.Vec3{}
	normal.Plane(&right, &fwd)

	sum := 0.0
	count := 0
	for _, local := range dirtDirections(opts) {
		dir := geom.Vec3{}
		rx, ry, rz := right, fwd, normal
		rx.Scale(&rx, local.X)
		ry.Scale(&ry, local.Y)
		rz.Scale(&rz, local.Z)
		dir.Add(&rx, &ry)
		dir.Add(&dir, &rz)
		dir.Unit()

		hit, ok := scene.FirstHit(world, dir, opts.Depth)
		count++
		if !ok {
			continue
		}
		occ := 1 - hit.T/opts.Depth
		if occ < 0 {
			occ = 0
		}
		sum += occ
	}
	if count == 0 {
		return 1
	}
	mean := sum / float64(count)
	factor := 1 - math.Pow(mean, opts.Gain)*opts.Scale
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return factor
}

// DirtGrid runs Dirt over every non-occluded luxel in g, returning a
// parallel per-luxel factor slice (row-major, matching g.Luxels).
func DirtGrid(g *sample.Grid, scene *rayservice.BVH, opts DirtOptions) []float64 {
	out := make([]float64, len(g.Luxels))
	for i := range out {
		out[i] = 1
	}
	if !opts.Enabled {
		return out
	}
	for i := range g.Luxels {
		lx := &g.Luxels[i]
		if lx.Occluded {
			continue
		}
		out[i] = Dirt(sample.Nudged(lx), lx.Normal, scene, opts)
	}
	return out
}
