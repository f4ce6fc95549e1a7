// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bake

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
)

// PostProcess applies rangescale and lightmapgamma, then clamps to [0,255]
// while preserving hue "Post-clamp".
func PostProcess(c geom.Vec3, rangescale, gamma float64) geom.Vec3 {
	c.X *= rangescale
	c.Y *= rangescale
	c.Z *= rangescale

	if gamma != 1 {
		c.X = applyGamma(c.X, gamma)
		c.Y = applyGamma(c.Y, gamma)
		c.Z = applyGamma(c.Z, gamma)
	}

	max := c.X
	if c.Y > max {
		max = c.Y
	}
	if c.Z > max {
		max = c.Z
	}
	if max > 255 {
		scale := 255 / max
		c.X *= scale
		c.Y *= scale
		c.Z *= scale
	}
	c.X = clamp255(c.X)
	c.Y = clamp255(c.Y)
	c.Z = clamp255(c.Z)
	return c
}

// applyGamma implements `out = (in/255)^(1/gamma) * 255`.
func applyGamma(v, gamma float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(v/255, 1/gamma) * 255
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
