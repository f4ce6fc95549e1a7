// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package brush

import (
	"strings"
	"testing"

	"github.com/qbsptools/bsptools/internal/gamedef"
	"github.com/qbsptools/bsptools/mapfile"
)

const cubeMap = `{
"classname" "worldspawn"
{
( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) tech1 0 0 0 1 1
( 0 0 64 ) ( 64 0 64 ) ( 0 64 64 ) tech1 0 0 0 1 1
( 0 0 0 ) ( 64 0 0 ) ( 0 0 64 ) tech1 0 0 0 1 1
( 0 64 0 ) ( 0 64 64 ) ( 64 64 0 ) tech1 0 0 0 1 1
( 0 0 0 ) ( 0 0 64 ) ( 0 64 0 ) tech1 0 0 0 1 1
( 64 0 0 ) ( 64 64 0 ) ( 64 0 64 ) tech1 0 0 0 1 1
}
}
`

func parseCube(t *testing.T) mapfile.Brush {
	t.Helper()
	m, err := mapfile.Parse(strings.NewReader(cubeMap))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m.Decode()
	return m.Entities[0].Brush[0]
}

func TestBuildProducesClosedCube(t *testing.T) {
	mb := parseCube(t)
	b, warnings, ok := Build(mb, gamedef.ContentsSolid, 0)
	if !ok {
		t.Fatalf("expected Build to succeed, warnings: %v", warnings)
	}
	if len(b.Faces) != 6 {
		t.Errorf("expected 6 surviving faces on a closed cube, got %d", len(b.Faces))
	}
	center := b.Centroid()
	if !b.Contains(&center, 1e-6) {
		t.Error("expected the brush's own centroid to be contained")
	}
}

func TestBuildDiscardsBrushWithTooFewFaces(t *testing.T) {
	mb := parseCube(t)
	mb.Faces = mb.Faces[:3]
	_, warnings, ok := Build(mb, gamedef.ContentsSolid, 0)
	if ok {
		t.Error("expected Build to reject a brush with fewer than 4 bounding faces")
	}
	if len(warnings) == 0 {
		t.Error("expected a warning explaining the discard")
	}
}

func TestCSGTrimsOverlappingLowerPriorityBrush(t *testing.T) {
	solidBrush := parseCube(t)
	solid, _, ok := Build(solidBrush, gamedef.ContentsSolid, 0)
	if !ok {
		t.Fatal("expected the solid cube to build")
	}
	waterBrush := parseCube(t)
	water, _, ok := Build(waterBrush, gamedef.ContentsWater, 1)
	if !ok {
		t.Fatal("expected the water cube to build")
	}
	out := CSG([]*Brush{solid, water})
	for _, f := range out {
		if f.Owner == water && f.Owner.Contents == gamedef.ContentsWater {
			t.Error("expected the fully-overlapping lower-priority water brush to be entirely carved away")
		}
	}
}
