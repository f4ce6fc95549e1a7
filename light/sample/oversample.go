// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sample

import (
	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
)

// Oversample is the supersampling factor applied to luxel centers before
// averaging down to the final grid resolution.
type Oversample int

const (
	Oversample1x Oversample = 1
	Oversample2x Oversample = 2
	Oversample4x Oversample = 4
)

// SubSamples returns the oversampled offsets (in luxel-fraction units)
// within a single luxel cell for factor n: a 2x2 or 4x4 jittered-free
// regular grid, matching the deterministic, reproducible sampling pattern
// the light determinism invariant requires.
func SubSamples(n Oversample) []geom.Vec3 {
	if n <= 1 {
		return []geom.Vec3{{X: 0.5, Y: 0.5}}
	}
	step := 1.0 / float64(n)
	var out []geom.Vec3
	for y := 0; y < int(n); y++ {
		for x := 0; x < int(n); x++ {
			out = append(out, geom.Vec3{X: (float64(x) + 0.5) * step, Y: (float64(y) + 0.5) * step})
		}
	}
	return out
}

// BuildOversampled is Build, but sets each luxel's world point to the
// average of its SubSamples(n) subsample positions rather than the cell
// center; occlusion is still tested once per luxel, at that one point.
func BuildOversampled(f *brush.Face, worldUnitsPerLuxel float64, n Oversample) *Grid {
	g := Build(f, worldUnitsPerLuxel)
	if n <= 1 {
		return g
	}
	offsets := SubSamples(n)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			lx := g.At(x, y)
			sum := geom.Vec3{}
			count := 0
			for _, off := range offsets {
				s := g.MinS + (float64(x)+off.X)*g.ScaleS
				t := g.MinT + (float64(y)+off.Y)*g.ScaleT
				wp, ok := InverseProject(f, s, t)
				if !ok {
					continue
				}
				sum.Add(&sum, &wp)
				count++
			}
			if count == 0 {
				lx.Occluded = true
				continue
			}
			sum.Scale(&sum, 1/float64(count))
			lx.World = sum
		}
	}
	return g
}
