// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bspfile

import "github.com/qbsptools/bsptools/internal/gamedef"

// The in-memory representation is dialect-agnostic and always uses the
// widest field sizes (BSP2's 32-bit indices); narrower dialects are range
// checked and truncated only at write time.

// Plane is a single partitioning plane, stored normal+distance+axis-type
// exactly as the original format, since qbsp needs the axis-type fast path
// for sampling.
type Plane struct {
	Normal   [3]float32
	Dist     float32
	AxisType int32
}

// Vertex is a single point position, shared by every dialect.
type Vertex struct {
	Point [3]float32
}

// Edge is a pair of vertex indices. v29 stores these as uint16; BSP2 widens
// to uint32. The in-memory form always uses the wide type.
type Edge struct {
	V [2]uint32
}

// Face is one polygon: a plane reference, an edge run within SurfEdges, a
// texinfo reference, up to 4 lightmap styles, and an offset into the
// Lighting lump (or -1 for none).
type Face struct {
	PlaneNum     int32
	Side         int32
	FirstEdge    int32
	NumEdges     int32
	TexInfo      int32
	Styles       [4]uint8
	LightOfs     int32
}

// TexInfo is one texture-projection entry: S/T axis+offset, texture index,
// and the native per-dialect surface/content flags.
type TexInfo struct {
	S, T        [4]float32
	MipTex      int32
	Flags       int32
}

// Node is one interior BSP node: splitting plane, child indices (negative
// values index into Leafs as -(leaf+1), per the original convention), and
// a face range plus bounding box used only for renderer-side culling (kept
// for format fidelity, unused by the compiler itself).
type Node struct {
	PlaneNum    int32
	Children    [2]int32
	Mins, Maxs  [3]int16
	FirstFace   uint32
	NumFaces    uint32
}

// Leaf is one BSP leaf: its native content value, a visibility-lump offset
// (-1 for none), an ambient-sound byte per channel, and the range of
// MarkSurfaces it owns.
type Leaf struct {
	Contents     int32
	VisOfs       int32
	Mins, Maxs   [3]int16
	FirstMarkSurf uint32
	NumMarkSurf  uint32
	AmbientLevel [4]uint8
}

// ClipNode is one node of a collision hull: a plane plus two child
// references, where a non-negative child is another ClipNode index and a
// negative one is a content value (CONTENTS_SOLID, CONTENTS_EMPTY, ...).
type ClipNode struct {
	PlaneNum int32
	Children [2]int32
}

// Model is one brush model: its bounding box, origin (from an extracted
// CONTENTS_ORIGIN brush, or zero), the root node index per hull, and the
// face range it owns in the world's Faces lump.
type Model struct {
	Mins, Maxs [3]float32
	Origin     [3]float32
	HeadNode   [gamedef.MaxHulls]int32
	VisLeafs   int32
	FirstFace  int32
	NumFaces   int32
}

// File is the complete decoded contents of a .bsp, dialect-agnostic.
type File struct {
	Dialect      gamedef.Dialect
	Entities     string
	Planes       []Plane
	Textures     []MipTexture
	Vertexes     []Vertex
	Visibility   []byte
	Nodes        []Node
	TexInfo      []TexInfo
	Faces        []Face
	Lighting     []byte
	ClipNodes    []ClipNode
	Leafs        []Leaf
	MarkSurfaces []int32
	Edges        []Edge
	SurfEdges    []int32
	Models       []Model

	// BSPX carries auxiliary lumps keyed by lump name (up to 24 bytes),
	// round-tripped opaquely since qbsp/light only need to append or pass
	// through specific ones (RGBLIGHTING, LIGHTING_E5BGR9, DECOUPLED_LM).
	BSPX map[string][]byte
}

// MipTexture is one entry of the texture lump: a name plus the four mipmap
// offsets (data itself is optional and frequently absent in compiler
// output, since the engine loads textures from WADs).
type MipTexture struct {
	Name           string
	Width, Height  uint32
	Offsets        [4]uint32
	Data           []byte
}
