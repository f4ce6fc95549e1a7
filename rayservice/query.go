// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rayservice

import "github.com/qbsptools/bsptools/geom"

// Hit is the result of a first-hit query.
type Hit struct {
	T         float64
	Triangle  *Triangle
	Point     geom.Vec3
}

// Occluded reports whether the segment from origin to target is blocked by
// any opaque triangle matching channelMask, used for the light baker's
// shadow test. A translucent (non-opaque) triangle along the path
// tints rather than blocks; Occluded returns the accumulated tint via tint,
// [1,1,1] when nothing translucent was crossed.
func (b *BVH) Occluded(origin, target geom.Vec3, channelMask uint32) (blocked bool, tint [3]float32) {
	dir := geom.Vec3{}
	dir.Sub(&target, &origin)
	tMax := dir.Len()
	if tMax < 1e-9 {
		return false, [3]float32{1, 1, 1}
	}
	dir.Unit()
	tint = [3]float32{1, 1, 1}
	if occludedNode(b.root, b.Tris, origin, dir, tMax, channelMask, &tint) {
		return true, tint
	}
	return false, tint
}

func occludedNode(n *node, tris []Triangle, origin, dir geom.Vec3, tMax float64, mask uint32, tint *[3]float32) bool {
	if n == nil || !rayIntersectsAABB(origin, dir, tMax, n.Bounds) {
		return false
	}
	if n.Tris != nil {
		for _, i := range n.Tris {
			t := &tris[i]
			if t.ChannelMask&mask == 0 {
				continue
			}
			hitT, hit := geom.RayTriangle(&origin, &dir, &t.A, &t.B, &t.C, tMax)
			if !hit || hitT < 1e-4 || hitT > tMax-1e-4 {
				continue
			}
			if t.Opaque {
				return true
			}
			tint[0] *= t.TintRGB[0]
			tint[1] *= t.TintRGB[1]
			tint[2] *= t.TintRGB[2]
		}
		return false
	}
	return occludedNode(n.Left, tris, origin, dir, tMax, mask, tint) ||
		occludedNode(n.Right, tris, origin, dir, tMax, mask, tint)
}

// FirstHit returns the nearest triangle the ray (origin, dir) intersects
// within [0, tMax], or ok=false if nothing is hit. Used by light's surface
// bounce pass to find where a reflected ray lands.
func (b *BVH) FirstHit(origin, dir geom.Vec3, tMax float64) (hit Hit, ok bool) {
	best := Hit{T: tMax}
	found := false
	firstHitNode(b.root, b.Tris, origin, dir, tMax, &best, &found)
	if !found {
		return Hit{}, false
	}
	p := geom.Vec3{}
	scaled := dir
	scaled.Scale(&scaled, best.T)
	p.Add(&origin, &scaled)
	best.Point = p
	return best, true
}

func firstHitNode(n *node, tris []Triangle, origin, dir geom.Vec3, tMax float64, best *Hit, found *bool) {
	if n == nil || !rayIntersectsAABB(origin, dir, best.T, n.Bounds) {
		return
	}
	if n.Tris != nil {
		for _, i := range n.Tris {
			t := &tris[i]
			hitT, hit := geom.RayTriangle(&origin, &dir, &t.A, &t.B, &t.C, best.T)
			if hit && hitT >= 0 && hitT < best.T {
				best.T = hitT
				best.Triangle = t
				*found = true
			}
		}
		return
	}
	firstHitNode(n.Left, tris, origin, dir, tMax, best, found)
	firstHitNode(n.Right, tris, origin, dir, tMax, best, found)
}

// rayIntersectsAABB is the standard slab test, used to prune BVH subtrees.
func rayIntersectsAABB(origin, dir geom.Vec3, tMax float64, box geom.AABB) bool {
	tmin, tmax := 0.0, tMax
	axes := [3]struct{ o, d, lo, hi float64 }{
		{origin.X, dir.X, box.Min.X, box.Max.X},
		{origin.Y, dir.Y, box.Min.Y, box.Max.Y},
		{origin.Z, dir.Z, box.Min.Z, box.Max.Z},
	}
	for _, a := range axes {
		if a.d == 0 {
			if a.o < a.lo || a.o > a.hi {
				return false
			}
			continue
		}
		inv := 1 / a.d
		t0 := (a.lo - a.o) * inv
		t1 := (a.hi - a.o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return false
		}
	}
	return true
}
