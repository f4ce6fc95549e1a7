// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rayservice

import "github.com/qbsptools/bsptools/geom"

// bvhLeafSize caps how many triangles a leaf node holds before it is split,
// balancing tree depth (fewer, costlier leaf scans) against node-traversal
// overhead.
const bvhLeafSize = 8

// node is one BVH node: either an interior split or a leaf listing
// triangle indices into the Service's Triangles slice.
type node struct {
	Bounds      geom.AABB
	Left, Right *node
	Tris        []int
}

// BVH is a static bounding-volume hierarchy over a fixed triangle set,
// built once per light-bake pass.
type BVH struct {
	Tris []Triangle
	root *node
}

// BuildBVH constructs a median-split BVH over tris.
func BuildBVH(tris []Triangle) *BVH {
	idx := make([]int, len(tris))
	for i := range idx {
		idx[i] = i
	}
	b := &BVH{Tris: tris}
	b.root = b.build(idx)
	return b
}

func (b *BVH) build(idx []int) *node {
	bounds := geom.EmptyAABB()
	for _, i := range idx {
		bounds = geom.Union(bounds, b.Tris[i].Bounds)
	}
	if len(idx) <= bvhLeafSize {
		return &node{Bounds: bounds, Tris: idx}
	}
	axis := bounds.LongestAxis()
	sorted := append([]int(nil), idx...)
	sortByCentroidAxis(sorted, b.Tris, axis)
	mid := len(sorted) / 2
	return &node{
		Bounds: bounds,
		Left:   b.build(sorted[:mid]),
		Right:  b.build(sorted[mid:]),
	}
}

func sortByCentroidAxis(idx []int, tris []Triangle, axis int) {
	key := func(i int) float64 {
		t := &tris[i]
		switch axis {
		case 0:
			return t.A.X + t.B.X + t.C.X
		case 1:
			return t.A.Y + t.B.Y + t.C.Y
		default:
			return t.A.Z + t.B.Z + t.C.Z
		}
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && key(idx[j-1]) > key(idx[j]); j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}
}
