// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package bsptree partitions a set of CSG-trimmed brush faces into a binary
// space partition: choose a splitting plane, divide the
// remaining faces and brush volume across it, and recurse until every leaf
// is a single convex region of uniform contents. The recursive splitter is
// built entirely on geom.Winding.Split, the same primitive the brush
// package uses for CSG, since partitioning a scene is just CSG clipping
// run against the scene's own faces instead of another brush's.
package bsptree

import (
	"math"

	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

// Epsilon is the on-plane tolerance used when classifying and splitting
// faces during tree construction, matching brush.PlaneEpsilon.
const Epsilon = brush.PlaneEpsilon

// Node is one interior BSP node or leaf. Leaf is nil for interior nodes.
type Node struct {
	Plane       *geom.Plane
	Front, Back *Node
	Faces       []*brush.OutputFace // faces lying on Plane, owned by this node.
	Leaf        *Leaf
}

// Leaf is a terminal convex region: a content type, its bounds, and the
// brushes whose volume contains its center, used later for portal/light
// classification.
type Leaf struct {
	Contents gamedef.Contents
	Bounds   geom.AABB
	Brushes  []*brush.Brush // brushes whose volume contains this leaf, for content classification.
}

// IsLeaf reports whether n is a terminal node.
func (n *Node) IsLeaf() bool { return n.Leaf != nil }

// Build recursively partitions faces into a BSP tree. brushes supplies the
// original convex volumes for leaf content classification; bounds is
// the world's outer bounding volume, inflated slightly beyond any brush so
// the recursion terminates in an outer leaf of CONTENTS_EMPTY (or SOLID if
// fully enclosed, tested later by the sealing pass in seal.go).
func Build(faces []*brush.OutputFace, brushes []*brush.Brush, bounds geom.AABB) *Node {
	if len(faces) == 0 {
		return &Node{Leaf: classifyLeaf(bounds, brushes)}
	}

	splitIdx := choosePlane(faces)
	split := faces[splitIdx].Plane

	var onPlane, frontFaces, backFaces []*brush.OutputFace
	for _, f := range faces {
		switch classifyFace(f, &split) {
		case sideOn:
			onPlane = append(onPlane, f)
		case sideFront:
			frontFaces = append(frontFaces, f)
		case sideBack:
			backFaces = append(backFaces, f)
		case sideSplit:
			fw, bw := f.Winding.Split(&split, Epsilon)
			if fw != nil && !fw.Degenerate() {
				frontFaces = append(frontFaces, &brush.OutputFace{Face: brush.Face{Plane: f.Plane, Info: f.Info, Winding: fw}, Owner: f.Owner})
			}
			if bw != nil && !bw.Degenerate() {
				backFaces = append(backFaces, &brush.OutputFace{Face: brush.Face{Plane: f.Plane, Info: f.Info, Winding: bw}, Owner: f.Owner})
			}
		}
	}

	frontBounds, backBounds := splitBounds(bounds, &split)
	node := &Node{Plane: &split, Faces: onPlane}
	node.Front = Build(frontFaces, brushes, frontBounds)
	node.Back = Build(backFaces, brushes, backBounds)
	return node
}

type side int

const (
	sideOn side = iota
	sideFront
	sideBack
	sideSplit
)

// classifyFace reports how a face's winding relates to plane p, with a
// slightly looser on-plane test than a single vertex since the face was
// itself built on a plane and floating point noise should not force a
// spurious split of a face against its own defining plane.
func classifyFace(f *brush.OutputFace, p *geom.Plane) side {
	if f.Plane.NearlyEquals(p, Epsilon, 1e-5) {
		return sideOn
	}
	if f.Plane.NearlyEquals(p.Neg(), Epsilon, 1e-5) {
		return sideOn
	}
	front, back := false, false
	for i := range f.Winding {
		d := p.Side(&f.Winding[i])
		if d > Epsilon {
			front = true
		} else if d < -Epsilon {
			back = true
		}
	}
	switch {
	case front && back:
		return sideSplit
	case front:
		return sideFront
	case back:
		return sideBack
	default:
		return sideOn
	}
}

// splitBounds divides an AABB by plane p for the purposes of bounding the
// two recursive calls. An axial plane cuts the box exactly; for any other
// plane both halves keep the whole box, a loose over-approximation of the
// true half-space intersection, adequate since Bounds is only used for
// leaf classification and portal scaffolding, never for splitter geometry.
func splitBounds(b geom.AABB, p *geom.Plane) (front, back geom.AABB) {
	front, back = b, b
	n, d := p.Normal, p.Dist
	switch {
	case n.X == 1:
		front.Min.X, back.Max.X = math.Max(b.Min.X, d), math.Min(b.Max.X, d)
	case n.X == -1:
		front.Max.X, back.Min.X = math.Min(b.Max.X, -d), math.Max(b.Min.X, -d)
	case n.Y == 1:
		front.Min.Y, back.Max.Y = math.Max(b.Min.Y, d), math.Min(b.Max.Y, d)
	case n.Y == -1:
		front.Max.Y, back.Min.Y = math.Min(b.Max.Y, -d), math.Max(b.Min.Y, -d)
	case n.Z == 1:
		front.Min.Z, back.Max.Z = math.Max(b.Min.Z, d), math.Min(b.Max.Z, d)
	case n.Z == -1:
		front.Max.Z, back.Min.Z = math.Min(b.Max.Z, -d), math.Max(b.Min.Z, -d)
	}
	return front, back
}

// classifyLeaf determines a leaf's contents by testing its centroid against
// every brush's volume and keeping the highest-priority match: a
// point inside no brush is CONTENTS_EMPTY (outside all solid geometry).
func classifyLeaf(bounds geom.AABB, brushes []*brush.Brush) *Leaf {
	center := bounds.Center()
	best := gamedef.ContentsEmpty
	var owners []*brush.Brush
	for _, b := range brushes {
		if b.Contains(&center, Epsilon) {
			owners = append(owners, b)
			if b.Contents.Priority() > best.Priority() {
				best = b.Contents
			}
		}
	}
	return &Leaf{Contents: best, Bounds: bounds, Brushes: owners}
}
