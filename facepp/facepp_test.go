// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package facepp

import (
	"testing"

	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/mapfile"
)

func texInfoIdentity() mapfile.TexInfo {
	return mapfile.TexInfo{
		S: geom.Vec4{X: 1},
		T: geom.Vec4{Y: 1},
	}
}

func squareFace(x0, y0, x1, y1 float64, info brush.Face) Face {
	w := geom.Winding{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
	f := info
	f.Winding = w
	return Face{Face: f}
}

func TestMergeCoplanarJoinsAdjacentSquares(t *testing.T) {
	plane := geom.Plane{Normal: geom.Vec3{Z: 1}, Dist: 0}
	info := brush.Face{Plane: plane}
	a := squareFace(0, 0, 64, 64, info)
	b := squareFace(64, 0, 128, 64, info)
	merged := MergeCoplanar([]Face{a, b})
	if len(merged) != 1 {
		t.Fatalf("expected 2 adjacent coplanar squares to merge into 1 face, got %d", len(merged))
	}
	area := merged[0].Winding.Area()
	if area < 64*128*0.99 || area > 64*128*1.01 {
		t.Errorf("merged area = %f, want ~%f", area, 64.0*128.0)
	}
}

func TestMergeCoplanarLeavesDisjointFacesAlone(t *testing.T) {
	plane := geom.Plane{Normal: geom.Vec3{Z: 1}, Dist: 0}
	info := brush.Face{Plane: plane}
	a := squareFace(0, 0, 64, 64, info)
	b := squareFace(200, 200, 264, 264, info)
	merged := MergeCoplanar([]Face{a, b})
	if len(merged) != 2 {
		t.Errorf("expected disjoint faces to remain separate, got %d", len(merged))
	}
}

func TestFixTJunctionsInsertsMidpointVertex(t *testing.T) {
	plane := geom.Plane{Normal: geom.Vec3{Z: 1}, Dist: 0}
	info := brush.Face{Plane: plane}
	big := squareFace(0, 0, 128, 64, info)
	small := squareFace(0, 64, 64, 128, info)
	small.Winding = geom.Winding{{X: 0, Y: 64}, {X: 64, Y: 64}, {X: 64, Y: 128}, {X: 0, Y: 128}}

	faces := FixTJunctions([]Face{big, small}, 0.01)
	// small's corner (64,64) lies midway along big's top edge, so it must be
	// spliced into big's winding.
	found := false
	for _, v := range faces[0].Winding {
		if v.X == 64 && v.Y == 64 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the midpoint vertex (64,64) inserted into the larger face, got %v", faces[0].Winding)
	}
	if len(faces) != 2 {
		t.Errorf("expected 2 faces after T-junction pass, got %d", len(faces))
	}
}

func TestSubdivideSplitsOversizedFace(t *testing.T) {
	plane := geom.Plane{Normal: geom.Vec3{Z: 1}, Dist: 0}
	info := brush.Face{Plane: plane, Info: texInfoIdentity()}
	face := squareFace(0, 0, 1000, 64, info)
	out := Subdivide([]Face{face}, DefaultSubdivideSize, nil)
	if len(out) < 2 {
		t.Errorf("expected a 1000-unit-wide face to be subdivided, got %d pieces", len(out))
	}
}

func sharedEdgeFaces(normalA, normalB geom.Vec3) []Face {
	a := Face{Face: brush.Face{
		Plane: geom.Plane{Normal: normalA},
		Winding: geom.Winding{
			{X: 0, Y: 0, Z: 0},
			{X: 64, Y: 0, Z: 0},
			{X: 64, Y: 64, Z: 0},
			{X: 0, Y: 64, Z: 0},
		},
	}}
	b := Face{Face: brush.Face{
		Plane: geom.Plane{Normal: normalB},
		Winding: geom.Winding{
			{X: 0, Y: 0, Z: 0},
			{X: 0, Y: -64, Z: 0},
			{X: 64, Y: -64, Z: 0},
			{X: 64, Y: 0, Z: 0},
		},
	}}
	return []Face{a, b}
}

func TestPhongNormalsSmoothsAcrossShallowDihedralAngle(t *testing.T) {
	flat := geom.Vec3{Z: 1}
	tilted := geom.Vec3{Y: 0.1, Z: 0.995}
	faces := sharedEdgeFaces(flat, tilted)

	out := PhongNormals(faces, 89)
	shared := KeyOf(&geom.Vec3{X: 0, Y: 0, Z: 0})
	na := out[0][shared]
	if na.Aeq(&flat) {
		t.Error("expected the shared vertex's smoothed normal to differ from the flat face normal once averaged with its shallow-angle neighbor")
	}
}

func TestPhongNormalsLeavesSharpDihedralAngleFlat(t *testing.T) {
	flat := geom.Vec3{Z: 1}
	perpendicular := geom.Vec3{Y: 1}
	faces := sharedEdgeFaces(flat, perpendicular)

	out := PhongNormals(faces, 45)
	shared := KeyOf(&geom.Vec3{X: 0, Y: 0, Z: 0})
	na := out[0][shared]
	if !na.Aeq(&flat) {
		t.Errorf("expected a 90-degree dihedral angle to stay flat under a 45-degree threshold, got %v", na)
	}
}
