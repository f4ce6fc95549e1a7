// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package bsptree

import (
	"testing"

	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

func boxBrush(min, max geom.Vec3, contents gamedef.Contents) *brush.Brush {
	planes := []geom.Plane{
		{Normal: geom.Vec3{X: -1}, Dist: -min.X},
		{Normal: geom.Vec3{X: 1}, Dist: max.X},
		{Normal: geom.Vec3{Y: -1}, Dist: -min.Y},
		{Normal: geom.Vec3{Y: 1}, Dist: max.Y},
		{Normal: geom.Vec3{Z: -1}, Dist: -min.Z},
		{Normal: geom.Vec3{Z: 1}, Dist: max.Z},
	}
	b := &brush.Brush{Contents: contents, Bounds: geom.EmptyAABB()}
	for _, p := range planes {
		w := geom.BaseWinding(&p, brush.WorldExtent)
		for _, other := range planes {
			if other == p {
				continue
			}
			neg := other.Neg()
			w = w.Clip(neg, brush.PlaneEpsilon)
		}
		b.Faces = append(b.Faces, brush.Face{Plane: p, Winding: w})
		for i := range w {
			b.Bounds.Extend(&w[i])
		}
	}
	return b
}

func TestBuildSingleSolidBrushHasSolidLeaf(t *testing.T) {
	b := boxBrush(geom.Vec3{X: -64, Y: -64, Z: -64}, geom.Vec3{X: 64, Y: 64, Z: 64}, gamedef.ContentsSolid)
	faces := brush.CSG([]*brush.Brush{b})
	var of []*brush.OutputFace
	for i := range faces {
		of = append(of, &faces[i])
	}
	world := geom.EmptyAABB()
	for i := range b.Faces {
		for j := range b.Faces[i].Winding {
			world.Extend(&b.Faces[i].Winding[j])
		}
	}
	world = world.Expand(128)
	root := Build(of, []*brush.Brush{b}, world)
	if root == nil {
		t.Fatal("Build returned nil")
	}
	foundSolid := false
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			if n.Leaf.Contents == gamedef.ContentsSolid {
				foundSolid = true
			}
			return
		}
		walk(n.Front)
		walk(n.Back)
	}
	walk(root)
	if !foundSolid {
		t.Errorf("expected at least one CONTENTS_SOLID leaf inside the brush")
	}
}

func TestSealDetectsOpenBrush(t *testing.T) {
	// A brush missing its +Z face leaves a gap to the world bound, so the
	// outer empty leaf should reach the top of world bounds.
	b := boxBrush(geom.Vec3{X: -64, Y: -64, Z: -64}, geom.Vec3{X: 64, Y: 64, Z: 64}, gamedef.ContentsSolid)
	b.Faces = b.Faces[:5] // drop the +Z cap.
	faces := brush.CSG([]*brush.Brush{b})
	var of []*brush.OutputFace
	for i := range faces {
		of = append(of, &faces[i])
	}
	world := geom.AABB{Min: geom.Vec3{X: -256, Y: -256, Z: -256}, Max: geom.Vec3{X: 256, Y: 256, Z: 256}}
	root := Build(of, []*brush.Brush{b}, world)
	leak := Seal(root, world)
	if leak == nil {
		t.Errorf("expected a leak trace for an open brush, got none")
	}
}
