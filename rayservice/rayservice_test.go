// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package rayservice

import (
	"testing"

	"github.com/qbsptools/bsptools/geom"
)

func floorTriangles() []Triangle {
	w := geom.Winding{
		{X: -100, Y: -100, Z: 0},
		{X: 100, Y: -100, Z: 0},
		{X: 100, Y: 100, Z: 0},
		{X: -100, Y: 100, Z: 0},
	}
	return TrianglesFromWinding(w, 1, [3]float32{1, 1, 1}, true)
}

func TestOccludedBlocksThroughFloor(t *testing.T) {
	bvh := BuildBVH(floorTriangles())
	blocked, _ := bvh.Occluded(geom.Vec3{Z: 10}, geom.Vec3{Z: -10}, 1)
	if !blocked {
		t.Errorf("expected ray straight through the floor to be occluded")
	}
}

func TestOccludedMissesWhenChannelMaskExcludes(t *testing.T) {
	bvh := BuildBVH(floorTriangles())
	blocked, _ := bvh.Occluded(geom.Vec3{Z: 10}, geom.Vec3{Z: -10}, 2)
	if blocked {
		t.Errorf("a ray should not be occluded by a triangle outside its channel mask")
	}
}

func TestOccludedClearAboveFloor(t *testing.T) {
	bvh := BuildBVH(floorTriangles())
	blocked, _ := bvh.Occluded(geom.Vec3{Z: 10}, geom.Vec3{Z: 5}, 1)
	if blocked {
		t.Errorf("expected no occlusion for a segment that never reaches the floor")
	}
}

func TestFirstHitFindsFloor(t *testing.T) {
	bvh := BuildBVH(floorTriangles())
	hit, ok := bvh.FirstHit(geom.Vec3{Z: 10}, geom.Vec3{Z: -1}, 1000)
	if !ok {
		t.Fatalf("expected a hit on the floor")
	}
	if hit.Point.Z > 0.01 || hit.Point.Z < -0.01 {
		t.Errorf("hit point Z = %f, want ~0", hit.Point.Z)
	}
}
