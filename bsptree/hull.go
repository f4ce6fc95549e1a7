// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bsptree

import (
	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

// ClipHull is a collision-only tree built from brushes inflated by a game's
// HullSize. It reuses the same recursive splitter as the visible tree,
// operating on inflated brush faces instead of CSG output.
type ClipHull struct {
	Name string
	Root *Node
}

// BuildHulls constructs one ClipHull per HullSize declared by def, skipping
// hull 0 (the point hull, which is simply the visible tree itself). The
// returned slice is indexed starting at hull slot 1.
func BuildHulls(brushes []*brush.Brush, def gamedef.GameDef, worldBounds geom.AABB) []ClipHull {
	var hulls []ClipHull
	for i, hs := range def.Hulls {
		if i == 0 {
			continue
		}
		inflated := inflateBrushes(brushes, hs)
		faces := facesOf(inflated)
		hulls = append(hulls, ClipHull{Name: hs.Name, Root: Build(faces, inflated, worldBounds.Expand(hs.Max.X))})
	}
	return hulls
}

// inflateBrushes expands each solid brush's planes outward by the hull's
// half-extents so that a point-sized trace against the resulting hull
// reproduces a box-sized trace against the original geometry (the classic
// "Minkowski sum with a box" hull expansion).
func inflateBrushes(brushes []*brush.Brush, hs gamedef.HullSize) []*brush.Brush {
	half := geom.Vec3{X: (hs.Max.X - hs.Min.X) / 2, Y: (hs.Max.Y - hs.Min.Y) / 2, Z: (hs.Max.Z - hs.Min.Z) / 2}
	var out []*brush.Brush
	for _, b := range brushes {
		if !b.Contents.IsOpaque() && !b.Contents.IsLiquid() {
			continue // only solid/liquid volumes block movement; clips/triggers are handled elsewhere.
		}
		nb := &brush.Brush{Contents: b.Contents, MirrorInside: b.MirrorInside, EntityIndex: b.EntityIndex, SourceLine: b.SourceLine, Bounds: geom.EmptyAABB()}
		for _, f := range b.Faces {
			dist := f.Plane.Dist + offsetForNormal(&f.Plane.Normal, &half)
			nf := f
			nf.Plane.Dist = dist
			nb.Faces = append(nb.Faces, nf)
		}
		out = append(out, nb)
	}
	return out
}

// offsetForNormal returns how far plane distance must grow to push the
// plane outward by the hull box's extent along the plane's normal.
func offsetForNormal(n, half *geom.Vec3) float64 {
	ax, ay, az := n.X, n.Y, n.Z
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if az < 0 {
		az = -az
	}
	return ax*half.X + ay*half.Y + az*half.Z
}

func facesOf(brushes []*brush.Brush) []*brush.OutputFace {
	var out []*brush.OutputFace
	for _, b := range brushes {
		for i := range b.Faces {
			out = append(out, &brush.OutputFace{Face: b.Faces[i], Owner: b})
		}
	}
	return out
}
