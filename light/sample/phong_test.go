// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package sample

import (
	"testing"

	"github.com/qbsptools/bsptools/facepp"
	"github.com/qbsptools/bsptools/geom"
)

func TestApplyPhongNormalsOverridesNonOccludedLuxels(t *testing.T) {
	f := flatSquareFace(64)
	g := Build(f, 16)

	tilted := geom.Vec3{X: 0.3, Z: 0.95}
	tilted.Unit()
	vertexNormals := map[facepp.VertexKey]geom.Vec3{
		facepp.KeyOf(&f.Winding[0]): tilted,
		facepp.KeyOf(&f.Winding[1]): tilted,
		facepp.KeyOf(&f.Winding[2]): tilted,
		facepp.KeyOf(&f.Winding[3]): tilted,
	}

	ApplyPhongNormals(g, f, vertexNormals)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			lx := g.At(x, y)
			if lx.Occluded {
				continue
			}
			if lx.Normal.Aeq(&f.Plane.Normal) {
				t.Errorf("luxel (%d,%d) kept the flat face normal, expected the interpolated phong normal", x, y)
			}
		}
	}
}

func TestApplyPhongNormalsLeavesGridUnchangedWithoutVertexNormals(t *testing.T) {
	f := flatSquareFace(64)
	g := Build(f, 16)
	before := make([]geom.Vec3, len(g.Luxels))
	for i, lx := range g.Luxels {
		before[i] = lx.Normal
	}

	ApplyPhongNormals(g, f, nil)

	for i, lx := range g.Luxels {
		if !lx.Normal.Aeq(&before[i]) {
			t.Errorf("luxel %d normal changed with no vertex normals supplied", i)
		}
	}
}
