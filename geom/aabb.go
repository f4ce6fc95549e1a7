// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

import "math"

// AABB is an axis-aligned bounding box, used for BSP node/leaf bounds,
// brush bounds, and luxel-grid texture-space extents.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns an inverted-infinite box so that the first Extend call
// establishes real bounds.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// Extend grows the box, if needed, to contain point.
func (b *AABB) Extend(point *Vec3) {
	b.Min.Min(&b.Min, point)
	b.Max.Max(&b.Max, point)
}

// Union returns the smallest box containing both a and b.
func Union(a, b AABB) AABB {
	out := a
	out.Extend(&b.Min)
	out.Extend(&b.Max)
	return out
}

// Valid reports whether the box has non-inverted bounds, i.e. it was
// extended by at least one point.
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Contains reports whether point lies within the box, inclusive of the
// boundary.
func (b AABB) Contains(point *Vec3) bool {
	return point.X >= b.Min.X && point.X <= b.Max.X &&
		point.Y >= b.Min.Y && point.Y <= b.Max.Y &&
		point.Z >= b.Min.Z && point.Z <= b.Max.Z
}

// Intersects reports whether two boxes overlap, inclusive of shared faces.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	c := Vec3{}
	c.Add(&b.Min, &b.Max)
	c.Scale(&c, 0.5)
	return c
}

// Size returns the per-axis extents of the box.
func (b AABB) Size() Vec3 {
	s := Vec3{}
	s.Sub(&b.Max, &b.Min)
	return s
}

// LongestAxis returns 0, 1 or 2 for X, Y or Z: the axis with the greatest
// extent. Used by the BSP builder's midsplit fallback.
func (b AABB) LongestAxis() int {
	size := b.Size()
	switch {
	case size.X >= size.Y && size.X >= size.Z:
		return 0
	case size.Y >= size.Z:
		return 1
	default:
		return 2
	}
}

// Expand grows the box by dist in every direction, used to build inflated
// per-hull brush bounds.
func (b AABB) Expand(dist float64) AABB {
	d := Vec3{X: dist, Y: dist, Z: dist}
	out := b
	out.Min.Sub(&out.Min, &d)
	out.Max.Add(&out.Max, &d)
	return out
}

// Outside reports whether point lies beyond the world extent in any axis,
// used by the sealing flood-fill's void test.
func (b AABB) Outside(point *Vec3, epsilon float64) bool {
	return point.X < b.Min.X-epsilon || point.X > b.Max.X+epsilon ||
		point.Y < b.Min.Y-epsilon || point.Y > b.Max.Y+epsilon ||
		point.Z < b.Min.Z-epsilon || point.Z > b.Max.Z+epsilon
}
