// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package sample

import (
	"github.com/qbsptools/bsptools/geom"
)

// NudgeEpsilon lifts a luxel's world point off its own face by this much
// along the surface normal before casting shadow rays, so the face itself
// is never a false self-occluder.
const NudgeEpsilon = 0.25

// Nudged returns a luxel's sample point pushed off the surface by
// NudgeEpsilon along its normal.
func Nudged(l *Luxel) geom.Vec3 {
	off := l.Normal
	off.Scale(&off, NudgeEpsilon)
	p := geom.Vec3{}
	p.Add(&l.World, &off)
	return p
}

// MarkDegenerate flags any luxel whose inverse projection produced a
// degenerate normal (zero length, from a near-singular texture axis pair)
// as occluded, since it has no valid surface to shade.
func MarkDegenerate(g *Grid) {
	for i := range g.Luxels {
		lx := &g.Luxels[i]
		if lx.Normal.Len() < 0.5 {
			lx.Occluded = true
		}
	}
}
