// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package source models the light types, attenuation formulas, and
// per-entity override epairs of: point/spot/sun/sky-dome/
// surface/bounce lights, the six falloff formulas, angle and spot cone
// terms, and jittering. Epair decoding uses typed accessors over a raw
// key/value map: read a string key, parse it, fall back to a default.
package source

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
)

// Formula selects one of the six attenuation laws.
type Formula int

const (
	FormulaLinear Formula = iota
	FormulaInverse
	FormulaInverseSquared
	FormulaInverseSquaredA
	FormulaInfinite
	FormulaLocalMin
)

// formulaNames maps the classic "delay"/"wait" epair numeric spelling to
// a Formula.
var formulaNames = map[string]Formula{
	"0": FormulaLinear,
	"1": FormulaInverse,
	"2": FormulaInverseSquared,
	"3": FormulaInverseSquaredA,
	"4": FormulaInfinite,
	"5": FormulaLocalMin,
}

// FormulaFromWait maps the classic "wait" epair value to a Formula; an
// unrecognized value yields (_, false) so the caller can warn and fall
// back to FormulaLinear.
func FormulaFromWait(wait string) (Formula, bool) {
	f, ok := formulaNames[wait]
	return f, ok
}

// Light is a fully-resolved point/spot light ready for integration.
type Light struct {
	Pos         geom.Vec3
	Color       geom.Vec3 // 0..255 per channel.
	Intensity   float64
	Formula     Formula
	ScaleDist   float64
	Atten       float64
	AngleScale  float64
	Style       int
	SpotDir     *geom.Vec3 // nil for an omnidirectional point light.
	SpotConeIn  float64    // cos(inner angle / 2)
	SpotConeOut float64    // cos(outer angle / 2)
	ChannelMask uint32
	Dirt        bool
	MinLight    float64
}

// Sun is a directional (parallel) light with no position.
type Sun struct {
	Dir        geom.Vec3
	Intensity  float64
	Color      geom.Vec3
	AngleScale float64
	Dirt       bool
	Style      int
}

// Attenuate computes the scalar intensity a Light contributes at a point
// distance d away with surface normal n and surface-to-light unit vector l,
// per the formula table above.
func (lt *Light) Attenuate(d float64, l, n *geom.Vec3) float64 {
	var base float64
	switch lt.Formula {
	case FormulaLinear:
		base = lt.Intensity - lt.ScaleDist*lt.Atten*d
		if base < 0 {
			base = 0
		}
	case FormulaInverse:
		if d < 1 {
			d = 1
		}
		base = lt.Intensity * lt.ScaleDist / (lt.Atten * d)
	case FormulaInverseSquared, FormulaInverseSquaredA:
		if d < 1 {
			d = 1
		}
		denom := lt.Atten * d
		base = lt.Intensity * lt.ScaleDist * lt.ScaleDist / (denom * denom)
	case FormulaInfinite:
		base = lt.Intensity
	case FormulaLocalMin:
		return 0 // minlight-only; no additive contribution.
	}
	return base * angleTerm(lt.AngleScale, l, n) * lt.spotTerm(l)
}

// angleTerm implements `(1-anglescale) + anglescale * max(0, L.N)`.
func angleTerm(anglescale float64, l, n *geom.Vec3) float64 {
	dot := l.Dot(n)
	if dot < 0 {
		dot = 0
	}
	return (1 - anglescale) + anglescale*dot
}

// spotTerm implements the inner/outer cone falloff; returns 1 for a
// non-spot light.
func (lt *Light) spotTerm(l *geom.Vec3) float64 {
	if lt.SpotDir == nil {
		return 1
	}
	neg := geom.Vec3{}
	neg.Neg(l)
	cosTheta := neg.Dot(lt.SpotDir)
	switch {
	case cosTheta >= lt.SpotConeIn:
		return 1
	case cosTheta < lt.SpotConeOut:
		return 0
	default:
		return (cosTheta - lt.SpotConeOut) / (lt.SpotConeIn - lt.SpotConeOut)
	}
}

// SpotCones converts a full cone angle in degrees (and an optional, smaller
// inner angle) into the cos() thresholds Attenuate expects.
func SpotCones(outerDeg, innerDeg float64) (cosIn, cosOut float64) {
	if innerDeg <= 0 || innerDeg > outerDeg {
		innerDeg = outerDeg
	}
	return math.Cos(geom.Rad(innerDeg / 2)), math.Cos(geom.Rad(outerDeg / 2))
}
