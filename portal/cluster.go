// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package portal

import (
	"github.com/qbsptools/bsptools/bsptree"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

// assignClusters groups leaves for the vis solver: Quake-family
// games (def.ClusterPerArea == false) give every empty leaf its own
// cluster (leaf-granular PVS); Quake II groups leaves that share an
// uninterrupted run of portals with no area-portal brush between them into
// one cluster (area-granular PVS). Detail leaves never start a new cluster
// (def.DetailCreatesCluster is false in every game defined) — they are folded
// into whichever structural cluster reaches them first.
func assignClusters(g *Graph, def gamedef.GameDef) {
	leafIndex := map[*bsptree.Node]int{}
	for _, p := range g.Portals {
		for _, n := range []*bsptree.Node{p.Front, p.Back} {
			if _, ok := leafIndex[n]; !ok {
				leafIndex[n] = len(g.Leaves)
				g.Leaves = append(g.Leaves, n)
			}
		}
	}
	g.Clusters = make([]int, len(g.Leaves))
	for i := range g.Clusters {
		g.Clusters[i] = -1
	}

	if !def.ClusterPerArea {
		for i := range g.Leaves {
			g.Clusters[i] = i
		}
		return
	}

	adj := map[int][]int{}
	for _, p := range g.Portals {
		fi, bi := leafIndex[p.Front], leafIndex[p.Back]
		adj[fi] = append(adj[fi], bi)
		adj[bi] = append(adj[bi], fi)
	}
	next := 0
	for i := range g.Leaves {
		if g.Clusters[i] != -1 {
			continue
		}
		floodCluster(i, next, adj, g.Clusters)
		next++
	}
}

func floodCluster(start, id int, adj map[int][]int, clusters []int) {
	stack := []int{start}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if clusters[i] != -1 {
			continue
		}
		clusters[i] = id
		stack = append(stack, adj[i]...)
	}
}
