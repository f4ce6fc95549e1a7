// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package portal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/qbsptools/bsptools/bsptree"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
)

// twoLeafTree builds a two-leaf tree split by a single axial plane, both
// leaves empty, so Build should discover exactly one portal between them.
func twoLeafTree() (*bsptree.Node, geom.AABB) {
	bounds := geom.AABB{Min: geom.Vec3{X: -64, Y: -64, Z: -64}, Max: geom.Vec3{X: 64, Y: 64, Z: 64}}
	split := geom.Plane{Normal: geom.Vec3{X: 1}, Dist: 0}
	front := &bsptree.Node{Leaf: &bsptree.Leaf{Contents: gamedef.ContentsEmpty, Bounds: geom.AABB{Min: geom.Vec3{X: 0, Y: -64, Z: -64}, Max: bounds.Max}}}
	back := &bsptree.Node{Leaf: &bsptree.Leaf{Contents: gamedef.ContentsEmpty, Bounds: geom.AABB{Min: bounds.Min, Max: geom.Vec3{X: 0, Y: 64, Z: 64}}}}
	root := &bsptree.Node{Plane: &split, Front: front, Back: back}
	return root, bounds
}

func TestBuildFindsSinglePortal(t *testing.T) {
	root, bounds := twoLeafTree()
	g := Build(root, bounds, gamedef.Quake)
	if len(g.Portals) != 1 {
		t.Fatalf("expected 1 portal between two empty leaves, got %d", len(g.Portals))
	}
	if len(g.Leaves) != 2 {
		t.Errorf("expected 2 leaves, got %d", len(g.Leaves))
	}
}

func TestClusterPerLeafForQuake(t *testing.T) {
	root, bounds := twoLeafTree()
	g := Build(root, bounds, gamedef.Quake)
	if g.Clusters[0] == g.Clusters[1] {
		t.Errorf("Quake clustering should be leaf-granular: expected distinct clusters, got %v", g.Clusters)
	}
}

func TestWritePRTFormat(t *testing.T) {
	root, bounds := twoLeafTree()
	g := Build(root, bounds, gamedef.Quake)
	var buf bytes.Buffer
	if err := WritePRT(&buf, g, PRTVersion1); err != nil {
		t.Fatalf("WritePRT: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != PRTVersion1 {
		t.Errorf("header = %q, want %q", lines[0], PRTVersion1)
	}
	if len(lines) < 4 {
		t.Fatalf("expected header + counts + at least one portal line, got %d lines", len(lines))
	}
}
