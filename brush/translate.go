// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package brush

import "github.com/qbsptools/bsptools/geom"

// Translate returns a copy of b with every face shifted by delta: each
// winding vertex moves by delta, and each plane's distance grows by
// Normal.Dot(delta) so the half-space keeps the same meaning relative to
// the shifted geometry. Used to re-express a bmodel's brushes relative to
// its extracted origin brush before compiling the bmodel's own small tree,
// since the engine re-applies that origin at runtime.
func Translate(b *Brush, delta geom.Vec3) *Brush {
	out := &Brush{Contents: b.Contents, MirrorInside: b.MirrorInside, Bounds: geom.EmptyAABB(), EntityIndex: b.EntityIndex, SourceLine: b.SourceLine}
	for _, f := range b.Faces {
		nf := Face{Plane: f.Plane, Info: f.Info}
		nf.Plane.Dist += f.Plane.Normal.Dot(&delta)
		nf.Winding = make(geom.Winding, len(f.Winding))
		for i := range f.Winding {
			nf.Winding[i].Add(&f.Winding[i], &delta)
		}
		out.Faces = append(out.Faces, nf)
		out.Bounds = geom.Union(out.Bounds, nf.Winding.AABB())
	}
	return out
}
