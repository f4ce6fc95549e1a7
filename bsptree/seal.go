// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bsptree

import (
	"fmt"

	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

// LeakPoint is one waypoint of a leak trace, written out as a Quake .pts
// file.
type LeakPoint struct {
	geom.Vec3
}

// Seal walks the tree's empty leaves outward from the world bounds; if any
// empty leaf touches the outer bound (classified CONTENTS_EMPTY instead of
// SOLID), the map is unsealed. It returns a leak trace (a path of leaf
// centers from the outside to the leak) when one is found, or nil if the
// map is watertight.
func Seal(root *Node, bounds geom.AABB) []LeakPoint {
	visited := map[*Node]bool{}
	var path []LeakPoint
	if walkForLeak(root, bounds, visited, &path) {
		return path
	}
	return nil
}

// walkForLeak performs a depth-first walk of leaves reachable from the
// tree's outer void, returning true (with path populated) the moment it
// finds an empty leaf whose bounds touch the world extent — the definition
// of "outside air reached the edge of the map" used by the classic tools.
func walkForLeak(n *Node, worldBounds geom.AABB, visited map[*Node]bool, path *[]LeakPoint) bool {
	if n == nil || visited[n] {
		return false
	}
	visited[n] = true
	if n.IsLeaf() {
		if n.Leaf.Contents != gamedef.ContentsEmpty {
			return false
		}
		*path = append(*path, LeakPoint{n.Leaf.Bounds.Center()})
		touches := n.Leaf.Bounds.Min.X <= worldBounds.Min.X || n.Leaf.Bounds.Max.X >= worldBounds.Max.X ||
			n.Leaf.Bounds.Min.Y <= worldBounds.Min.Y || n.Leaf.Bounds.Max.Y >= worldBounds.Max.Y ||
			n.Leaf.Bounds.Min.Z <= worldBounds.Min.Z || n.Leaf.Bounds.Max.Z >= worldBounds.Max.Z
		if touches {
			return true
		}
		*path = (*path)[:len(*path)-1]
		return false
	}
	if walkForLeak(n.Front, worldBounds, visited, path) {
		return true
	}
	return walkForLeak(n.Back, worldBounds, visited, path)
}

// WritePTS formats a leak trace as a Quake .pts file: one "x y z" line per
// waypoint, loaded directly by the original editors to draw the leak path.
func WritePTS(points []LeakPoint) string {
	out := ""
	for _, p := range points {
		out += fmt.Sprintf("%f %f %f\n", p.X, p.Y, p.Z)
	}
	return out
}
