// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package portal extracts the adjacency graph between a BSP tree's empty
// leaves and writes it as a .prt portal file, the sole interface this
// toolchain exposes to the external visibility solver. Portal windings are built the same way
// BSP node splits are: clip a node's separating plane winding down to the
// region shared by both sides.
package portal

import (
	"github.com/qbsptools/bsptools/bsptree"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

// Portal is one shared boundary between two empty leaves.
type Portal struct {
	Winding     geom.Winding
	Front, Back *bsptree.Node // the two leaf nodes this portal separates.
}

// Graph is the complete leaf adjacency graph plus the cluster assignment
// used to group leaves for the external vis solver.
type Graph struct {
	Portals  []Portal
	Leaves   []*bsptree.Node // stable index order, matches Clusters.
	Clusters []int           // Clusters[i] is the cluster id of Leaves[i].
}

// Build walks tree and derives the portal graph: every node's splitting
// plane becomes a candidate portal winding, clipped down through the rest
// of the tree until it borders exactly the two leaves on either side of
// that split.
func Build(root *bsptree.Node, worldBounds geom.AABB, def gamedef.GameDef) *Graph {
	g := &Graph{}
	collectPortals(root, nil, worldBounds, g)
	assignClusters(g, def)
	return g
}

// collectPortals recurses the tree; at each interior node it builds the
// full winding of that node's plane within the current bounding volume
// (the world bounds clipped by every ancestor split, collected in clips),
// then pushes it down both children to find every leaf pair it borders.
func collectPortals(node *bsptree.Node, clips []*geom.Plane, bounds geom.AABB, g *Graph) {
	if node == nil || node.IsLeaf() {
		return
	}
	base := geom.BaseWinding(node.Plane, portalWorldExtent(bounds))
	for _, c := range clips {
		base = base.Clip(c, bsptree.Epsilon)
	}
	pushPortal(base, node.Front, node.Back, node, g)
	clips = clips[:len(clips):len(clips)]
	collectPortals(node.Front, append(clips, node.Plane), bounds, g)
	collectPortals(node.Back, append(clips, node.Plane.Neg()), bounds, g)
}

func portalWorldExtent(b geom.AABB) float64 {
	size := b.Size()
	m := size.X
	if size.Y > m {
		m = size.Y
	}
	if size.Z > m {
		m = size.Z
	}
	return m
}

// pushPortal clips w recursively down the front subtree then the back
// subtree, emitting one Portal per empty-leaf pair it survives to border,
// per the classic "clip the splitting winding through the rest of the
// tree" portal construction.
func pushPortal(w geom.Winding, front, back *bsptree.Node, owner *bsptree.Node, g *Graph) {
	if w == nil || w.Degenerate() {
		return
	}
	frontLeaves := clipIntoLeaves(w, front)
	for _, fw := range frontLeaves {
		backLeaves := clipIntoLeaves(fw.w, back)
		for _, bw := range backLeaves {
			if fw.leaf.Leaf.Contents != gamedef.ContentsEmpty || bw.leaf.Leaf.Contents != gamedef.ContentsEmpty {
				continue
			}
			g.Portals = append(g.Portals, Portal{Winding: bw.w, Front: fw.leaf, Back: bw.leaf})
		}
	}
}

type leafWinding struct {
	w    geom.Winding
	leaf *bsptree.Node
}

// clipIntoLeaves recursively clips w through subtree, returning the pieces
// that survive into each leaf reached.
func clipIntoLeaves(w geom.Winding, subtree *bsptree.Node) []leafWinding {
	if w == nil || w.Degenerate() || subtree == nil {
		return nil
	}
	if subtree.IsLeaf() {
		return []leafWinding{{w: w, leaf: subtree}}
	}
	front, back := w.Split(subtree.Plane, bsptree.Epsilon)
	var out []leafWinding
	out = append(out, clipIntoLeaves(front, subtree.Front)...)
	out = append(out, clipIntoLeaves(back, subtree.Back)...)
	return out
}
