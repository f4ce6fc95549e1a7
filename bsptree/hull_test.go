// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package bsptree

import (
	"testing"

	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

func TestBuildHullsSkipsPointHullAndBuildsOneTreePerRemainingHull(t *testing.T) {
	b := boxBrush(geom.Vec3{X: -64, Y: -64, Z: -64}, geom.Vec3{X: 64, Y: 64, Z: 64}, gamedef.ContentsSolid)
	world := geom.EmptyAABB()
	for i := range b.Faces {
		for j := range b.Faces[i].Winding {
			world.Extend(&b.Faces[i].Winding[j])
		}
	}
	world = world.Expand(256)

	hulls := BuildHulls([]*brush.Brush{b}, gamedef.Quake, world)
	if len(hulls) != len(gamedef.Quake.Hulls)-1 {
		t.Fatalf("expected one ClipHull per non-point hull (%d), got %d", len(gamedef.Quake.Hulls)-1, len(hulls))
	}
	for i, h := range hulls {
		if h.Name != gamedef.Quake.Hulls[i+1].Name {
			t.Errorf("hull %d name = %q, want %q (hull slot %d)", i, h.Name, gamedef.Quake.Hulls[i+1].Name, i+1)
		}
		if h.Root == nil {
			t.Errorf("hull %d has a nil root", i)
		}
	}
}

func TestBuildHullsInflatesAroundSolidBrush(t *testing.T) {
	b := boxBrush(geom.Vec3{X: -64, Y: -64, Z: -64}, geom.Vec3{X: 64, Y: 64, Z: 64}, gamedef.ContentsSolid)
	world := geom.EmptyAABB()
	for i := range b.Faces {
		for j := range b.Faces[i].Winding {
			world.Extend(&b.Faces[i].Winding[j])
		}
	}
	world = world.Expand(256)

	hulls := BuildHulls([]*brush.Brush{b}, gamedef.Quake, world)
	if len(hulls) == 0 {
		t.Fatal("expected at least one clip hull")
	}
	// A point just outside the brush's own surface should fall inside the
	// inflated player hull's solid volume, since the hull grows by the
	// hull box's half-extents.
	point := geom.Vec3{X: 65, Y: 0, Z: 0}
	leaf := findLeaf(hulls[0].Root, &point)
	if leaf == nil {
		t.Fatal("expected to land in a leaf")
	}
	if !leaf.Contents.IsOpaque() {
		t.Errorf("expected the inflated hull to classify a near-surface point as solid, got contents %v", leaf.Contents)
	}
}

func findLeaf(n *Node, p *geom.Vec3) *Leaf {
	for !n.IsLeaf() {
		if n.Plane.Side(p) > 0 {
			n = n.Front
		} else {
			n = n.Back
		}
	}
	return n.Leaf
}
