// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package mapfile

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
)

// TexInfo is a face's texture projection: the first three components of
// each axis project world space onto texture space, the fourth is the
// shift. uv = S.Dot(p,1), T.Dot(p,1).
type TexInfo struct {
	S, T               geom.Vec4
	NativeFlags        uint32
	ExtFlags           uint32
	TextureName        string
}

// Project computes the (u, v) texture coordinate of a world point.
func (ti *TexInfo) Project(p *geom.Vec3) (u, v float64) {
	u = ti.S.X*p.X + ti.S.Y*p.Y + ti.S.Z*p.Z + ti.S.W
	v = ti.T.X*p.X + ti.T.Y*p.Y + ti.T.Z*p.Z + ti.T.W
	return u, v
}

// baseAxisEntry is one row of the Quake baseaxis[18] table: for a cardinal
// face direction, the default (unrotated, unscaled) S and T axes plus the
// snapped normal they are valid for.
type baseAxisEntry struct {
	normal geom.Vec3
	s, t   geom.Vec3
}

// baseAxis mirrors the classic id Software table: 6 entries for the
// dominant axis of a face's plane normal, in +Z,-Z,+X,-X,+Y,-Y order.
var baseAxis = [6]baseAxisEntry{
	{normal: geom.Vec3{Z: 1}, s: geom.Vec3{X: 1}, t: geom.Vec3{Y: -1}},
	{normal: geom.Vec3{Z: -1}, s: geom.Vec3{X: 1}, t: geom.Vec3{Y: -1}},
	{normal: geom.Vec3{X: 1}, s: geom.Vec3{Y: 1}, t: geom.Vec3{Z: -1}},
	{normal: geom.Vec3{X: -1}, s: geom.Vec3{Y: 1}, t: geom.Vec3{Z: -1}},
	{normal: geom.Vec3{Y: 1}, s: geom.Vec3{X: 1}, t: geom.Vec3{Z: -1}},
	{normal: geom.Vec3{Y: -1}, s: geom.Vec3{X: 1}, t: geom.Vec3{Z: -1}},
}

// dominantAxis picks the baseAxis row whose normal has the largest
// dot-product with n, i.e. the cardinal direction n is closest to.
func dominantAxis(n *geom.Vec3) int {
	best, bestDot := 0, -math.MaxFloat64
	for i := range baseAxis {
		if d := n.Dot(&baseAxis[i].normal); d > bestDot {
			bestDot, best = d, i
		}
	}
	return best
}

// StandardToTexInfo derives a TexInfo from a Standard-syntax texture
// descriptor and a face normal: "Axes are derived from the
// face's dominant plane axis... then rotated and scaled."
func StandardToTexInfo(t *TexDef, normal *geom.Vec3) TexInfo {
	axis := baseAxis[dominantAxis(normal)]
	s, tt := axis.s, axis.t

	if t.Rotate != 0 {
		rotateAxes(&s, &tt, &axis.normal, geom.Rad(t.Rotate))
	}

	scaleS, scaleT := t.ScaleS, t.ScaleT
	if scaleS == 0 {
		scaleS = 1
	}
	if scaleT == 0 {
		scaleT = 1
	}

	ti := TexInfo{TextureName: t.Name}
	ti.S = geom.Vec4{X: s.X / scaleS, Y: s.Y / scaleS, Z: s.Z / scaleS, W: t.ShiftS}
	ti.T = geom.Vec4{X: tt.X / scaleT, Y: tt.Y / scaleT, Z: tt.Z / scaleT, W: t.ShiftT}
	ti.NativeFlags = t.ContentFlags
	ti.ExtFlags = t.SurfaceFlags
	return ti
}

// rotateAxes rotates s and t by angle radians about the base normal,
// matching the in-plane rotation the Standard syntax's "rotate" field
// describes.
func rotateAxes(s, t, normal *geom.Vec3, angle float64) {
	sin, cos := math.Sin(angle), math.Cos(angle)
	rot := func(v *geom.Vec3) geom.Vec3 {
		// Rotate within the plane perpendicular to the dominant cardinal
		// axis: project onto the two non-dominant axes, rotate those two,
		// put back.
		switch {
		case normal.X != 0:
			return geom.Vec3{X: v.X, Y: v.Y*cos - v.Z*sin, Z: v.Y*sin + v.Z*cos}
		case normal.Y != 0:
			return geom.Vec3{X: v.X*cos - v.Z*sin, Y: v.Y, Z: v.X*sin + v.Z*cos}
		default:
			return geom.Vec3{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos, Z: v.Z}
		}
	}
	*s = rot(s)
	*t = rot(t)
}

// Valve220ToTexInfo derives a TexInfo directly from the explicit axes of a
// Valve220 descriptor: no dominant-axis lookup is needed since the axes are
// already given in world space.
func Valve220ToTexInfo(t *TexDef) TexInfo {
	scaleS, scaleT := t.ScaleS, t.ScaleT
	if scaleS == 0 {
		scaleS = 1
	}
	if scaleT == 0 {
		scaleT = 1
	}
	ti := TexInfo{TextureName: t.Name}
	s, tt := t.Valve220S, t.Valve220T
	ti.S = geom.Vec4{X: s.X / scaleS, Y: s.Y / scaleS, Z: s.Z / scaleS, W: s.W}
	ti.T = geom.Vec4{X: tt.X / scaleT, Y: tt.Y / scaleT, Z: tt.Z / scaleT, W: tt.W}
	ti.NativeFlags = t.ContentFlags
	ti.ExtFlags = t.SurfaceFlags
	return ti
}

// BrushPrimitivesToTexInfo expands the 2x3 texture matrix into world-space
// axes using the plane's orthonormal basis
func BrushPrimitivesToTexInfo(t *TexDef, normal *geom.Vec3) TexInfo {
	var right, up geom.Vec3
	normal.Plane(&right, &up)
	m := t.BPMatrix
	ti := TexInfo{TextureName: t.Name}
	ti.S = geom.Vec4{
		X: m[0][0]*right.X + m[0][1]*up.X,
		Y: m[0][0]*right.Y + m[0][1]*up.Y,
		Z: m[0][0]*right.Z + m[0][1]*up.Z,
		W: m[0][2],
	}
	ti.T = geom.Vec4{
		X: m[1][0]*right.X + m[1][1]*up.X,
		Y: m[1][0]*right.Y + m[1][1]*up.Y,
		Z: m[1][0]*right.Z + m[1][1]*up.Z,
		W: m[1][2],
	}
	ti.NativeFlags = t.ContentFlags
	ti.ExtFlags = t.SurfaceFlags
	return ti
}

// quarkScale is the QuArK TX1/TX2 syntax's fixed 1/128 scaling convention.
const quarkScale = 1.0 / 128.0

// QuArKToTexInfo derives axes implied by the three plane points rather than
// an explicit descriptor, using the QuArK 1/128 scale convention.
func QuArKToTexInfo(t *TexDef, p0, p1, p2 *geom.Vec3) TexInfo {
	right := geom.NewV3().Sub(p1, p0)
	up := geom.NewV3().Sub(p2, p0)
	right.Unit()
	up.Unit()
	ti := TexInfo{TextureName: t.Name}
	ti.S = geom.Vec4{X: right.X * quarkScale, Y: right.Y * quarkScale, Z: right.Z * quarkScale, W: t.ShiftS}
	ti.T = geom.Vec4{X: up.X * quarkScale, Y: up.Y * quarkScale, Z: up.Z * quarkScale, W: t.ShiftT}
	ti.NativeFlags = t.ContentFlags
	ti.ExtFlags = t.SurfaceFlags
	return ti
}

// Decode derives f.Info from f.Tex according to f.Tex.Syntax, then
// auto-corrects degenerate projections: "faces with
// near-degenerate texture axes... are auto-corrected to the default
// projection for that face's dominant normal. A warning is emitted."
func (f *Face) Decode(normal *geom.Vec3) (warning string) {
	switch f.Tex.Syntax {
	case SyntaxValve220:
		f.Info = Valve220ToTexInfo(&f.Tex)
	case SyntaxBrushPrimitives:
		f.Info = BrushPrimitivesToTexInfo(&f.Tex, normal)
	case SyntaxQuArK:
		f.Info = QuArKToTexInfo(&f.Tex, &f.P0, &f.P1, &f.P2)
	default:
		f.Info = StandardToTexInfo(&f.Tex, normal)
	}
	if degenerateProjection(&f.Info, normal) {
		fixed := StandardToTexInfo(&TexDef{Name: f.Tex.Name, ContentFlags: f.Tex.ContentFlags, SurfaceFlags: f.Tex.SurfaceFlags}, normal)
		f.Info = fixed
		return "degenerate texture axes on \"" + f.Tex.Name + "\", reset to default projection"
	}
	return ""
}

// degenerateProjection reports whether the TexInfo's texture-space normal
// is nearly parallel to the face plane, or either axis has collapsed to
// zero length.
func degenerateProjection(ti *TexInfo, faceNormal *geom.Vec3) bool {
	s := geom.Vec3{X: ti.S.X, Y: ti.S.Y, Z: ti.S.Z}
	t := geom.Vec3{X: ti.T.X, Y: ti.T.Y, Z: ti.T.Z}
	if s.Len() < geom.Epsilon || t.Len() < geom.Epsilon {
		return true
	}
	texNormal := geom.NewV3().Cross(&s, &t)
	if texNormal.Len() < geom.Epsilon {
		return true
	}
	texNormal.Unit()
	return math.Abs(texNormal.Dot(faceNormal)) < 0.01
}
