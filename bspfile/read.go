// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bspfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/qbsptools/bsptools/internal/gamedef"
)

// narrowEdgeV29 and narrowNodeV29 etc. are the on-disk layouts for dialects
// that use 16-bit indices; wideEdge/wideNode are BSP2's 32-bit layouts.
// Reading always widens into the dialect-agnostic File.

type diskPlane struct {
	Normal   [3]float32
	Dist     float32
	AxisType int32
}

type diskVertex struct {
	Point [3]float32
}

type diskEdgeNarrow struct{ V [2]uint16 }
type diskEdgeWide struct{ V [2]uint32 }

type diskFaceNarrow struct {
	PlaneNum  uint16
	Side      int16
	FirstEdge int32
	NumEdges  int16
	TexInfo   int16
	Styles    [4]uint8
	LightOfs  int32
}

type diskFaceWide struct {
	PlaneNum  uint32
	Side      uint32
	FirstEdge int32
	NumEdges  int32
	TexInfo   int32
	Styles    [4]uint8
	LightOfs  int32
}

type diskTexInfo struct {
	S      [4]float32
	T      [4]float32
	MipTex int32
	Flags  int32
}

type diskNodeNarrow struct {
	PlaneNum  int32
	Children  [2]int16
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
}

type diskNodeWide struct {
	PlaneNum  int32
	Children  [2]int32
	Mins      [3]float32
	Maxs      [3]float32
	FirstFace uint32
	NumFaces  uint32
}

type diskLeafNarrow struct {
	Contents      int32
	VisOfs        int32
	Mins          [3]int16
	Maxs          [3]int16
	FirstMarkSurf uint16
	NumMarkSurf   uint16
	AmbientLevel  [4]uint8
}

type diskLeafWide struct {
	Contents      int32
	VisOfs        int32
	Mins          [3]float32
	Maxs          [3]float32
	FirstMarkSurf uint32
	NumMarkSurf   uint32
	AmbientLevel  [4]uint8
}

type diskClipNodeNarrow struct {
	PlaneNum int32
	Children [2]int16
}

type diskClipNodeWide struct {
	PlaneNum int32
	Children [2]int32
}

type diskModelV29 struct {
	Mins, Maxs [3]float32
	Origin     [3]float32
	HeadNode   [4]int32
	VisLeafs   int32
	FirstFace  int32
	NumFaces   int32
}

// wide reports whether dialect d uses BSP2's 32-bit index fields; BSP2rmq
// widens only marksurfaces/leafs/nodes/clipnodes/edges and is tagged
// "2PSB" in the header, while BSP2 additionally widens faces.
func wide(d gamedef.Dialect) bool { return d == gamedef.DialectBSP2 || d == gamedef.DialectBSP2rmq }

// wideFaces reports whether the Faces lump itself uses 32-bit fields; only
// true BSP2 does, BSP2rmq keeps 16-bit faces (the "rmq" extension widened
// everything load-bearing for oversized maps except the already-generous
// face index range).
func wideFaces(d gamedef.Dialect) bool { return d == gamedef.DialectBSP2 }

// Read decodes a complete .bsp from r, auto-detecting its dialect from the
// header's version/tag field. Quake II (IBSP) and Half-Life headers are
// recognized for Dialect reporting only: the whole file is carried
// opaquely in File.BSPX under a synthetic "RAWQ2"/"RAWHL" key and none of
// its lumps are decoded, since this toolchain's qbsp/light packages target
// the Quake-family dialects. Write emits those raw bytes unchanged.
func Read(r io.ReaderAt, size int64) (*File, error) {
	var verTag [4]byte
	if _, err := io.NewSectionReader(r, 0, 4).Read(verTag[:]); err != nil {
		return nil, fmt.Errorf("bspfile: reading header: %w", err)
	}

	var dialect gamedef.Dialect
	var headerLen int64 = 4
	switch {
	case bytes.Equal(verTag[:], tagBSP2[:]):
		dialect = gamedef.DialectBSP2
	case bytes.Equal(verTag[:], tagBSP2rmq[:]):
		dialect = gamedef.DialectBSP2rmq
	case string(verTag[:]) == magicIBSP:
		dialect = gamedef.DialectQuake2
		headerLen = 8
	default:
		var v int32
		if err := binary.Read(io.NewSectionReader(r, 0, 4), binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		switch v {
		case versionV29:
			dialect = gamedef.DialectQuake
		case versionHL:
			dialect = gamedef.DialectHalfLife
		default:
			return nil, fmt.Errorf("bspfile: unrecognized header tag/version %v", verTag)
		}
	}

	if dialect == gamedef.DialectQuake2 || dialect == gamedef.DialectHalfLife {
		raw := make([]byte, size)
		if _, err := io.NewSectionReader(r, 0, size).Read(raw); err != nil && err != io.EOF {
			return nil, err
		}
		key := "RAWQ2"
		if dialect == gamedef.DialectHalfLife {
			key = "RAWHL"
		}
		return &File{Dialect: dialect, BSPX: map[string][]byte{key: raw}}, nil
	}

	lumpCount := dialectLumpCount(dialect)
	lumps := make([]Lump, lumpCount)
	dir := io.NewSectionReader(r, headerLen, int64(lumpCount*8))
	if err := binary.Read(dir, binary.LittleEndian, &lumps); err != nil {
		return nil, fmt.Errorf("bspfile: reading lump directory: %w", err)
	}

	f := &File{Dialect: dialect, BSPX: map[string][]byte{}}

	raw := func(id LumpID) *io.SectionReader {
		l := lumps[id]
		return io.NewSectionReader(r, int64(l.Offset), int64(l.Length))
	}

	f.Entities = readEntities(raw(LumpEntities))

	var planes []diskPlane
	if err := readAll(raw(LumpPlanes), &planes); err != nil {
		return nil, fmt.Errorf("bspfile: planes: %w", err)
	}
	for _, p := range planes {
		f.Planes = append(f.Planes, Plane{Normal: p.Normal, Dist: p.Dist, AxisType: p.AxisType})
	}

	var verts []diskVertex
	if err := readAll(raw(LumpVertexes), &verts); err != nil {
		return nil, fmt.Errorf("bspfile: vertexes: %w", err)
	}
	for _, v := range verts {
		f.Vertexes = append(f.Vertexes, Vertex{Point: v.Point})
	}

	visBuf, err := io.ReadAll(raw(LumpVisibility))
	if err != nil {
		return nil, fmt.Errorf("bspfile: visibility: %w", err)
	}
	f.Visibility = visBuf

	if wide(dialect) {
		var edges []diskEdgeWide
		if err := readAll(raw(LumpEdges), &edges); err != nil {
			return nil, fmt.Errorf("bspfile: edges: %w", err)
		}
		for _, e := range edges {
			f.Edges = append(f.Edges, Edge{V: e.V})
		}
	} else {
		var edges []diskEdgeNarrow
		if err := readAll(raw(LumpEdges), &edges); err != nil {
			return nil, fmt.Errorf("bspfile: edges: %w", err)
		}
		for _, e := range edges {
			f.Edges = append(f.Edges, Edge{V: [2]uint32{uint32(e.V[0]), uint32(e.V[1])}})
		}
	}

	var surfEdges []int32
	if err := readAll(raw(LumpSurfEdges), &surfEdges); err != nil {
		return nil, fmt.Errorf("bspfile: surfedges: %w", err)
	}
	f.SurfEdges = surfEdges

	var texInfos []diskTexInfo
	if err := readAll(raw(LumpTexInfo), &texInfos); err != nil {
		return nil, fmt.Errorf("bspfile: texinfo: %w", err)
	}
	for _, t := range texInfos {
		f.TexInfo = append(f.TexInfo, TexInfo{S: t.S, T: t.T, MipTex: t.MipTex, Flags: t.Flags})
	}

	if wideFaces(dialect) {
		var faces []diskFaceWide
		if err := readAll(raw(LumpFaces), &faces); err != nil {
			return nil, fmt.Errorf("bspfile: faces: %w", err)
		}
		for _, fc := range faces {
			f.Faces = append(f.Faces, Face{PlaneNum: int32(fc.PlaneNum), Side: int32(fc.Side), FirstEdge: fc.FirstEdge, NumEdges: fc.NumEdges, TexInfo: fc.TexInfo, Styles: fc.Styles, LightOfs: fc.LightOfs})
		}
	} else {
		var faces []diskFaceNarrow
		if err := readAll(raw(LumpFaces), &faces); err != nil {
			return nil, fmt.Errorf("bspfile: faces: %w", err)
		}
		for _, fc := range faces {
			f.Faces = append(f.Faces, Face{PlaneNum: int32(fc.PlaneNum), Side: int32(fc.Side), FirstEdge: fc.FirstEdge, NumEdges: int32(fc.NumEdges), TexInfo: int32(fc.TexInfo), Styles: fc.Styles, LightOfs: fc.LightOfs})
		}
	}

	lightBuf, err := io.ReadAll(raw(LumpLighting))
	if err != nil {
		return nil, fmt.Errorf("bspfile: lighting: %w", err)
	}
	f.Lighting = lightBuf

	if wide(dialect) {
		var nodes []diskNodeWide
		if err := readAll(raw(LumpNodes), &nodes); err != nil {
			return nil, fmt.Errorf("bspfile: nodes: %w", err)
		}
		for _, n := range nodes {
			f.Nodes = append(f.Nodes, Node{PlaneNum: n.PlaneNum, Children: n.Children, Mins: floatToShort(n.Mins), Maxs: floatToShort(n.Maxs), FirstFace: n.FirstFace, NumFaces: n.NumFaces})
		}
		var clips []diskClipNodeWide
		if err := readAll(raw(LumpClipNodes), &clips); err != nil {
			return nil, fmt.Errorf("bspfile: clipnodes: %w", err)
		}
		for _, c := range clips {
			f.ClipNodes = append(f.ClipNodes, ClipNode{PlaneNum: c.PlaneNum, Children: c.Children})
		}
		var leafs []diskLeafWide
		if err := readAll(raw(LumpLeafs), &leafs); err != nil {
			return nil, fmt.Errorf("bspfile: leafs: %w", err)
		}
		for _, l := range leafs {
			f.Leafs = append(f.Leafs, Leaf{Contents: l.Contents, VisOfs: l.VisOfs, Mins: floatToShort(l.Mins), Maxs: floatToShort(l.Maxs), FirstMarkSurf: l.FirstMarkSurf, NumMarkSurf: l.NumMarkSurf, AmbientLevel: l.AmbientLevel})
		}
		var marks []int32
		if err := readAll(raw(LumpMarkSurfaces), &marks); err != nil {
			return nil, fmt.Errorf("bspfile: marksurfaces: %w", err)
		}
		f.MarkSurfaces = marks
	} else {
		var nodes []diskNodeNarrow
		if err := readAll(raw(LumpNodes), &nodes); err != nil {
			return nil, fmt.Errorf("bspfile: nodes: %w", err)
		}
		for _, n := range nodes {
			f.Nodes = append(f.Nodes, Node{PlaneNum: n.PlaneNum, Children: [2]int32{int32(n.Children[0]), int32(n.Children[1])}, Mins: n.Mins, Maxs: n.Maxs, FirstFace: uint32(n.FirstFace), NumFaces: uint32(n.NumFaces)})
		}
		var clips []diskClipNodeNarrow
		if err := readAll(raw(LumpClipNodes), &clips); err != nil {
			return nil, fmt.Errorf("bspfile: clipnodes: %w", err)
		}
		for _, c := range clips {
			f.ClipNodes = append(f.ClipNodes, ClipNode{PlaneNum: c.PlaneNum, Children: [2]int32{int32(c.Children[0]), int32(c.Children[1])}})
		}
		var leafs []diskLeafNarrow
		if err := readAll(raw(LumpLeafs), &leafs); err != nil {
			return nil, fmt.Errorf("bspfile: leafs: %w", err)
		}
		for _, l := range leafs {
			f.Leafs = append(f.Leafs, Leaf{Contents: l.Contents, VisOfs: l.VisOfs, Mins: l.Mins, Maxs: l.Maxs, FirstMarkSurf: uint32(l.FirstMarkSurf), NumMarkSurf: uint32(l.NumMarkSurf), AmbientLevel: l.AmbientLevel})
		}
		var marks []int16
		if err := readAll(raw(LumpMarkSurfaces), &marks); err != nil {
			return nil, fmt.Errorf("bspfile: marksurfaces: %w", err)
		}
		for _, m := range marks {
			f.MarkSurfaces = append(f.MarkSurfaces, int32(m))
		}
	}

	var models []diskModelV29
	if err := readAll(raw(LumpModels), &models); err != nil {
		return nil, fmt.Errorf("bspfile: models: %w", err)
	}
	for _, m := range models {
		f.Models = append(f.Models, Model{Mins: m.Mins, Maxs: m.Maxs, Origin: m.Origin, HeadNode: gamedefHeads(m.HeadNode), VisLeafs: m.VisLeafs, FirstFace: m.FirstFace, NumFaces: m.NumFaces})
	}

	textures, err := readTextures(raw(LumpTextures))
	if err != nil {
		return nil, fmt.Errorf("bspfile: textures: %w", err)
	}
	f.Textures = textures

	lastLump := lumps[LumpModels]
	bspxLumps, err := readBSPX(r, size, lastLump)
	if err != nil {
		return nil, fmt.Errorf("bspfile: bspx: %w", err)
	}
	for k, v := range bspxLumps {
		f.BSPX[k] = v
	}

	return f, nil
}

// readAll decodes as many whole records of type T as the lump holds.
func readAll[T any](r *io.SectionReader, out *[]T) error {
	var zero T
	*out = make([]T, r.Size()/int64(binary.Size(zero)))
	return binary.Read(r, binary.LittleEndian, *out)
}

func readEntities(r *io.SectionReader) string {
	buf, _ := io.ReadAll(r)
	// Entities text is NUL-terminated/padded; trim trailing zero bytes.
	return string(bytes.TrimRight(buf, "\x00"))
}

func floatToShort(v [3]float32) [3]int16 {
	return [3]int16{int16(v[0]), int16(v[1]), int16(v[2])}
}

func gamedefHeads(h [4]int32) [gamedef.MaxHulls]int32 {
	var out [gamedef.MaxHulls]int32
	copy(out[:], h[:])
	return out
}

func readTextures(r *io.SectionReader) ([]MipTexture, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, nil
	}
	count := int32(binary.LittleEndian.Uint32(buf[0:4]))
	if count <= 0 {
		return nil, nil
	}
	out := make([]MipTexture, 0, count)
	for i := int32(0); i < count; i++ {
		offBytes := buf[4+i*4 : 8+i*4]
		off := int32(binary.LittleEndian.Uint32(offBytes))
		if off < 0 {
			out = append(out, MipTexture{})
			continue
		}
		const nameLen = 16
		entry := buf[off:]
		name := string(bytes.TrimRight(entry[0:nameLen], "\x00"))
		width := binary.LittleEndian.Uint32(entry[nameLen : nameLen+4])
		height := binary.LittleEndian.Uint32(entry[nameLen+4 : nameLen+8])
		var offsets [4]uint32
		for j := 0; j < 4; j++ {
			offsets[j] = binary.LittleEndian.Uint32(entry[nameLen+8+j*4 : nameLen+12+j*4])
		}
		out = append(out, MipTexture{Name: name, Width: width, Height: height, Offsets: offsets})
	}
	return out, nil
}

// readBSPX reads the optional BSPX auxiliary directory, which follows the
// last canonical lump, 4-byte aligned, prefixed with "BSPX" and a count.
func readBSPX(r io.ReaderAt, size int64, lastLump Lump) (map[string][]byte, error) {
	start := int64(lastLump.Offset) + int64(lastLump.Length)
	start = (start + 3) &^ 3
	if start+4 > size {
		return nil, nil
	}
	var magic [4]byte
	if _, err := io.NewSectionReader(r, start, 4).Read(magic[:]); err != nil {
		return nil, nil
	}
	if string(magic[:]) != "BSPX" {
		return nil, nil
	}
	var count int32
	if err := binary.Read(io.NewSectionReader(r, start+4, 4), binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := map[string][]byte{}
	dirOff := start + 8
	for i := int32(0); i < count; i++ {
		entryOff := dirOff + int64(i)*32
		var name [24]byte
		if _, err := io.NewSectionReader(r, entryOff, 24).Read(name[:]); err != nil {
			return nil, err
		}
		var lump Lump
		if err := binary.Read(io.NewSectionReader(r, entryOff+24, 8), binary.LittleEndian, &lump); err != nil {
			return nil, err
		}
		key := string(bytes.TrimRight(name[:], "\x00"))
		buf, err := io.ReadAll(io.NewSectionReader(r, int64(lump.Offset), int64(lump.Length)))
		if err != nil {
			return nil, err
		}
		out[key] = buf
	}
	return out, nil
}
