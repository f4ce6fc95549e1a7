// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package brush turns parsed .map brushes into convex polyhedra and
// resolves overlaps between brushes by content priority. Winding clipping
// is built on geom.Winding.Clip, a Sutherland-Hodgman primitive.
package brush

import (
	"fmt"

	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
	"github.com/qbsptools/bsptools/mapfile"
)

// WorldExtent bounds the base winding built for each brush face before
// clipping. Quake-family maps are
// conventionally bounded to +/-16384 units.
const WorldExtent = 16384

// PlaneEpsilon is the on-plane tolerance used throughout brush clipping.
const PlaneEpsilon = 1.0 / 32

// Face is one side of a polyhedron: its plane (outward-facing normal), its
// decoded texture projection, and the winding — the visible polygon on
// that plane after clipping against every other face.
type Face struct {
	Plane   geom.Plane
	Info    mapfile.TexInfo
	Winding geom.Winding
}

// Brush is a convex polyhedron: the intersection of its faces' half-spaces,
// where each face's outward normal means "inside" is the negative side of
// every plane.
type Brush struct {
	Faces        []Face
	Contents     gamedef.Contents
	MirrorInside bool
	Bounds       geom.AABB
	EntityIndex  int
	SourceLine   int
}

// Build converts a parsed mapfile.Brush into a polyhedron:
// duplicate planes are dropped, each face's winding is clipped against
// every other face, and degenerate or fully-clipped faces are discarded.
// ok is false (with a warning, never an error) if fewer than 4 faces
// survive, meaning the brush itself is invalid and should be skipped.
func Build(mb mapfile.Brush, contents gamedef.Contents, entityIndex int) (b *Brush, warnings []string, ok bool) {
	planes := make([]geom.Plane, len(mb.Faces))
	for i, f := range mb.Faces {
		planes[i] = *f.Plane()
	}

	keep := make([]bool, len(planes))
	for i := range planes {
		keep[i] = true
	}
	for i := 0; i < len(planes); i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(planes); j++ {
			if !keep[j] {
				continue
			}
			if planes[i].NearlyEquals(&planes[j], PlaneEpsilon, 1e-5) {
				keep[j] = false
				warnings = append(warnings, fmt.Sprintf("brush at line %d: duplicate plane discarded", mb.LineNo))
			} else if planes[i].NearlyEquals(planes[j].Neg(), PlaneEpsilon, 1e-5) {
				warnings = append(warnings, fmt.Sprintf("brush at line %d: opposite-facing duplicate planes (degenerate brush)", mb.LineNo))
			}
		}
	}

	b = &Brush{Contents: contents, MirrorInside: mb.MirrorInside, EntityIndex: entityIndex, SourceLine: mb.LineNo, Bounds: geom.EmptyAABB()}
	for i := range planes {
		if !keep[i] {
			continue
		}
		w := geom.BaseWinding(&planes[i], WorldExtent)
		for j := range planes {
			if j == i || !keep[j] {
				continue
			}
			neg := planes[j].Neg()
			w = w.Clip(neg, PlaneEpsilon)
			if w == nil {
				break
			}
		}
		if w == nil || w.Degenerate() {
			continue
		}
		b.Faces = append(b.Faces, Face{Plane: planes[i], Info: mb.Faces[i].Info, Winding: w})
		for k := range w {
			b.Bounds.Extend(&w[k])
		}
	}
	if len(b.Faces) < 4 {
		warnings = append(warnings, fmt.Sprintf("brush at line %d: fewer than 4 faces survived clipping, discarding brush", mb.LineNo))
		return nil, warnings, false
	}
	return b, warnings, true
}

// Contains reports whether point lies within (or on the boundary of) the
// brush, using the outward-normal half-space convention.
func (b *Brush) Contains(point *geom.Vec3, epsilon float64) bool {
	for i := range b.Faces {
		if b.Faces[i].Plane.Side(point) > epsilon {
			return false
		}
	}
	return true
}

// Centroid returns the average of the brush's face-winding centroids,
// adequate for content-classification ray origins.
func (b *Brush) Centroid() geom.Vec3 {
	c := geom.Vec3{}
	n := 0
	for i := range b.Faces {
		fc := b.Faces[i].Winding.Centroid()
		c.Add(&c, &fc)
		n++
	}
	if n > 0 {
		c.Scale(&c, 1/float64(n))
	}
	return c
}
