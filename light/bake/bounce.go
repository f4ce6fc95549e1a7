// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bake

import (
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/light/source"
)

// BouncePass integrates one round of indirect lighting: every bounce
// emitter contributes to every luxel as if it were a point infinite-formula
// light scaled by source.Bounce.Intensity. Each bounce pass reads the
// previous pass's baked result as its own light list.
func BouncePass(f *Face, bounces []source.Bounce, opts Options) {
	for i := range f.Grid.Luxels {
		lx := &f.Grid.Luxels[i]
		if lx.Occluded {
			continue
		}
		var total geom.Vec3
		for bi := range bounces {
			b := &bounces[bi]
			toBounce := geom.Vec3{}
			toBounce.Sub(&b.Pos, &lx.World)
			d := toBounce.Len()
			if d < 1e-6 {
				continue
			}
			l := toBounce
			l.Scale(&l, 1/d)
			if l.Dot(&lx.Normal) <= 0 || l.Dot(&b.Normal) >= 0 {
				continue // bounce only lands on faces it can see and that face it away from.
			}
			intensity := b.Intensity(d)
			contribution := geom.Vec3{}
			contribution.Scale(&b.Color, intensity/255)
			total.Add(&total, &contribution)
		}
		f.Styles.Add(0, i, total)
	}
}
