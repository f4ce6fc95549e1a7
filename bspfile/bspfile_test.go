// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package bspfile

import (
	"bytes"
	"testing"

	"github.com/qbsptools/bsptools/internal/gamedef"
)

func sampleFile(d gamedef.Dialect) *File {
	return &File{
		Dialect:  d,
		Entities: `{"classname" "worldspawn"}`,
		Planes:   []Plane{{Normal: [3]float32{0, 0, 1}, Dist: 0}},
		Vertexes: []Vertex{{Point: [3]float32{0, 0, 0}}, {Point: [3]float32{64, 0, 0}}, {Point: [3]float32{64, 64, 0}}},
		Edges:    []Edge{{V: [2]uint32{0, 1}}, {V: [2]uint32{1, 2}}, {V: [2]uint32{2, 0}}},
		SurfEdges: []int32{1, 2, 3},
		TexInfo:  []TexInfo{{S: [4]float32{1, 0, 0, 0}, T: [4]float32{0, 1, 0, 0}}},
		Faces:    []Face{{PlaneNum: 0, FirstEdge: 0, NumEdges: 3, TexInfo: 0, LightOfs: -1}},
		Nodes:    []Node{{PlaneNum: 0, Children: [2]int32{-1, -2}, FirstFace: 0, NumFaces: 1}},
		Leafs: []Leaf{
			{Contents: int32(gamedef.ContentsEmpty), VisOfs: -1},
			{Contents: int32(gamedef.ContentsSolid), VisOfs: -1},
		},
		MarkSurfaces: []int32{0},
		Models:       []Model{{FirstFace: 0, NumFaces: 1, HeadNode: [gamedef.MaxHulls]int32{0, 0, 0, 0}}},
		BSPX:         map[string][]byte{},
	}
}

func TestWriteReadRoundTripV29(t *testing.T) {
	in := sampleFile(gamedef.DialectQuake)
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Dialect != gamedef.DialectQuake {
		t.Errorf("dialect = %v, want %v", out.Dialect, gamedef.DialectQuake)
	}
	if len(out.Vertexes) != len(in.Vertexes) {
		t.Errorf("vertex count = %d, want %d", len(out.Vertexes), len(in.Vertexes))
	}
	if len(out.Edges) != len(in.Edges) {
		t.Errorf("edge count = %d, want %d", len(out.Edges), len(in.Edges))
	}
	if out.Entities != in.Entities {
		t.Errorf("entities = %q, want %q", out.Entities, in.Entities)
	}
}

func TestWriteReadRoundTripBSP2(t *testing.T) {
	in := sampleFile(gamedef.DialectBSP2)
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Dialect != gamedef.DialectBSP2 {
		t.Errorf("dialect = %v, want %v", out.Dialect, gamedef.DialectBSP2)
	}
	if len(out.Faces) != len(in.Faces) || out.Faces[0].NumEdges != 3 {
		t.Errorf("faces round trip mismatch: %+v", out.Faces)
	}
}

func TestWriteOverflowsV29(t *testing.T) {
	in := sampleFile(gamedef.DialectQuake)
	in.Edges = []Edge{{V: [2]uint32{0, 70000}}}
	var buf bytes.Buffer
	if err := Write(&buf, in); err == nil {
		t.Fatalf("expected overflow error writing a 70000-index edge as v29")
	}
}

func TestFitsDetectsOverflow(t *testing.T) {
	in := sampleFile(gamedef.DialectQuake)
	if !Fits(in, gamedef.DialectQuake) {
		t.Errorf("small sample should fit v29")
	}
	in.Edges = []Edge{{V: [2]uint32{0, 70000}}}
	if Fits(in, gamedef.DialectQuake) {
		t.Errorf("Fits should report false for an out-of-range v29 edge index")
	}
	if !Fits(in, gamedef.DialectBSP2) {
		t.Errorf("BSP2 should always fit")
	}
}

func TestBSPXRoundTrip(t *testing.T) {
	in := sampleFile(gamedef.DialectBSP2)
	in.BSPX["DECOUPLED_LM"] = []byte{1, 2, 3, 4, 5}
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got, ok := out.BSPX["DECOUPLED_LM"]
	if !ok {
		t.Fatalf("BSPX lump DECOUPLED_LM missing after round trip")
	}
	if !bytes.Equal(got[:5], in.BSPX["DECOUPLED_LM"]) {
		t.Errorf("BSPX lump content mismatch: got %v", got)
	}
}
