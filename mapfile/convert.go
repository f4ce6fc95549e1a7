// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package mapfile

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
)

// ToValve220 converts a face's texture descriptor, of any syntax, into an
// explicit Valve220 descriptor by reading back the axes already decoded
// into f.Info — this is always exact since Valve220 can represent anything
// TexInfo can.
func (f *Face) ToValve220() TexDef {
	return TexDef{
		Syntax:       SyntaxValve220,
		Name:         f.Tex.Name,
		ScaleS:       1,
		ScaleT:       1,
		Valve220S:    f.Info.S,
		Valve220T:    f.Info.T,
		ContentFlags: f.Tex.ContentFlags,
		SurfaceFlags: f.Tex.SurfaceFlags,
		Value:        f.Tex.Value,
	}
}

// ToStandard converts a face's texture descriptor into the Standard
// syntax's (shift, rotate, scale) parameterization relative to the
// dominant-axis base: "shear in Valve220 that cannot be
// represented in Standard is removed deterministically by preserving one
// axis and re-orthogonalizing."
func (f *Face) ToStandard(normal *geom.Vec3) TexDef {
	axis := baseAxis[dominantAxis(normal)]
	baseS, baseT := axis.s, axis.t

	s := geom.Vec3{X: f.Info.S.X, Y: f.Info.S.Y, Z: f.Info.S.Z}
	t := geom.Vec3{X: f.Info.T.X, Y: f.Info.T.Y, Z: f.Info.T.Z}

	// Re-orthogonalize: keep the S axis's direction, force T perpendicular
	// to it within the face plane. This is the canonical shear-removal form.
	sUnit := geom.NewV3().Set(&s)
	sLen := sUnit.Len()
	if sLen > geom.Epsilon {
		sUnit.Unit()
	}
	tPerp := geom.NewV3().Cross(normal, sUnit)
	tLen := t.Len()

	scaleS := 1.0
	if sLen > geom.Epsilon {
		scaleS = 1 / sLen
	}
	scaleT := 1.0
	if tLen > geom.Epsilon {
		scaleT = 1 / tLen
	}

	rotate := geom.Deg(signedAngleInPlane(&baseS, sUnit, normal))
	_ = tPerp // re-orthogonalized T direction is implied by rotate + normal.
	_ = baseT

	return TexDef{
		Syntax:       SyntaxStandard,
		Name:         f.Tex.Name,
		ShiftS:       f.Info.S.W,
		ShiftT:       f.Info.T.W,
		Rotate:       rotate,
		ScaleS:       scaleS,
		ScaleT:       scaleT,
		ContentFlags: f.Tex.ContentFlags,
		SurfaceFlags: f.Tex.SurfaceFlags,
		Value:        f.Tex.Value,
	}
}

// signedAngleInPlane returns the signed angle from a to b measured in the
// plane with the given normal.
func signedAngleInPlane(a, b, normal *geom.Vec3) float64 {
	an := geom.NewV3().Set(a)
	bn := geom.NewV3().Set(b)
	if an.Len() > geom.Epsilon {
		an.Unit()
	}
	if bn.Len() > geom.Epsilon {
		bn.Unit()
	}
	cross := geom.NewV3().Cross(an, bn)
	sin := cross.Dot(normal)
	cos := an.Dot(bn)
	return math.Atan2(sin, cos)
}
