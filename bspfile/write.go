// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bspfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/qbsptools/bsptools/internal/gamedef"
)

// Write encodes f to w in its own f.Dialect, laying out lumps in the fixed
//  order and padding each to a 4-byte boundary. Writing a Q2/HL File
// (which Read only captured opaquely) round-trips the captured raw bytes
// unchanged.
func Write(w io.Writer, f *File) error {
	if f.Dialect == gamedef.DialectQuake2 || f.Dialect == gamedef.DialectHalfLife {
		key := "RAWQ2"
		if f.Dialect == gamedef.DialectHalfLife {
			key = "RAWHL"
		}
		raw, ok := f.BSPX[key]
		if !ok {
			return fmt.Errorf("bspfile: no captured raw bytes for dialect %v", f.Dialect)
		}
		_, err := w.Write(raw)
		return err
	}

	lumpCount := dialectLumpCount(f.Dialect)
	bufs := make([][]byte, lumpCount)

	bufs[LumpEntities] = padTo4(append([]byte(f.Entities), 0))

	planeBuf := &bytes.Buffer{}
	for _, p := range f.Planes {
		binary.Write(planeBuf, binary.LittleEndian, diskPlane{Normal: p.Normal, Dist: p.Dist, AxisType: p.AxisType})
	}
	bufs[LumpPlanes] = padTo4(planeBuf.Bytes())

	bufs[LumpTextures] = padTo4(writeTextures(f.Textures))

	vertBuf := &bytes.Buffer{}
	for _, v := range f.Vertexes {
		binary.Write(vertBuf, binary.LittleEndian, diskVertex{Point: v.Point})
	}
	bufs[LumpVertexes] = padTo4(vertBuf.Bytes())

	bufs[LumpVisibility] = padTo4(f.Visibility)

	isWide := wide(f.Dialect)
	isWideFaces := wideFaces(f.Dialect)

	edgeBuf := &bytes.Buffer{}
	for _, e := range f.Edges {
		if isWide {
			binary.Write(edgeBuf, binary.LittleEndian, diskEdgeWide{V: e.V})
		} else {
			if e.V[0] > 0xFFFF || e.V[1] > 0xFFFF {
				return fmt.Errorf("bspfile: edge vertex index overflows 16 bits for dialect %v", f.Dialect)
			}
			binary.Write(edgeBuf, binary.LittleEndian, diskEdgeNarrow{V: [2]uint16{uint16(e.V[0]), uint16(e.V[1])}})
		}
	}
	bufs[LumpEdges] = padTo4(edgeBuf.Bytes())

	surfBuf := &bytes.Buffer{}
	binary.Write(surfBuf, binary.LittleEndian, f.SurfEdges)
	bufs[LumpSurfEdges] = padTo4(surfBuf.Bytes())

	texInfoBuf := &bytes.Buffer{}
	for _, t := range f.TexInfo {
		binary.Write(texInfoBuf, binary.LittleEndian, diskTexInfo{S: t.S, T: t.T, MipTex: t.MipTex, Flags: t.Flags})
	}
	bufs[LumpTexInfo] = padTo4(texInfoBuf.Bytes())

	faceBuf := &bytes.Buffer{}
	for _, fc := range f.Faces {
		if isWideFaces {
			binary.Write(faceBuf, binary.LittleEndian, diskFaceWide{PlaneNum: uint32(fc.PlaneNum), Side: uint32(fc.Side), FirstEdge: fc.FirstEdge, NumEdges: fc.NumEdges, TexInfo: fc.TexInfo, Styles: fc.Styles, LightOfs: fc.LightOfs})
		} else {
			if fc.PlaneNum > 0xFFFF || fc.NumEdges > 0x7FFF || fc.TexInfo > 0x7FFF {
				return fmt.Errorf("bspfile: face field overflows 16 bits for dialect %v, use BSP2", f.Dialect)
			}
			binary.Write(faceBuf, binary.LittleEndian, diskFaceNarrow{PlaneNum: uint16(fc.PlaneNum), Side: int16(fc.Side), FirstEdge: fc.FirstEdge, NumEdges: int16(fc.NumEdges), TexInfo: int16(fc.TexInfo), Styles: fc.Styles, LightOfs: fc.LightOfs})
		}
	}
	bufs[LumpFaces] = padTo4(faceBuf.Bytes())

	bufs[LumpLighting] = padTo4(f.Lighting)

	nodeBuf := &bytes.Buffer{}
	clipBuf := &bytes.Buffer{}
	leafBuf := &bytes.Buffer{}
	markBuf := &bytes.Buffer{}
	if isWide {
		for _, n := range f.Nodes {
			binary.Write(nodeBuf, binary.LittleEndian, diskNodeWide{PlaneNum: n.PlaneNum, Children: n.Children, Mins: shortToFloat(n.Mins), Maxs: shortToFloat(n.Maxs), FirstFace: n.FirstFace, NumFaces: n.NumFaces})
		}
		for _, c := range f.ClipNodes {
			binary.Write(clipBuf, binary.LittleEndian, diskClipNodeWide{PlaneNum: c.PlaneNum, Children: c.Children})
		}
		for _, l := range f.Leafs {
			binary.Write(leafBuf, binary.LittleEndian, diskLeafWide{Contents: l.Contents, VisOfs: l.VisOfs, Mins: shortToFloat(l.Mins), Maxs: shortToFloat(l.Maxs), FirstMarkSurf: l.FirstMarkSurf, NumMarkSurf: l.NumMarkSurf, AmbientLevel: l.AmbientLevel})
		}
		binary.Write(markBuf, binary.LittleEndian, f.MarkSurfaces)
	} else {
		for _, n := range f.Nodes {
			binary.Write(nodeBuf, binary.LittleEndian, diskNodeNarrow{PlaneNum: n.PlaneNum, Children: [2]int16{int16(n.Children[0]), int16(n.Children[1])}, Mins: n.Mins, Maxs: n.Maxs, FirstFace: uint16(n.FirstFace), NumFaces: uint16(n.NumFaces)})
		}
		for _, c := range f.ClipNodes {
			binary.Write(clipBuf, binary.LittleEndian, diskClipNodeNarrow{PlaneNum: c.PlaneNum, Children: [2]int16{int16(c.Children[0]), int16(c.Children[1])}})
		}
		for _, l := range f.Leafs {
			binary.Write(leafBuf, binary.LittleEndian, diskLeafNarrow{Contents: l.Contents, VisOfs: l.VisOfs, Mins: l.Mins, Maxs: l.Maxs, FirstMarkSurf: uint16(l.FirstMarkSurf), NumMarkSurf: uint16(l.NumMarkSurf), AmbientLevel: l.AmbientLevel})
		}
		for _, m := range f.MarkSurfaces {
			binary.Write(markBuf, binary.LittleEndian, int16(m))
		}
	}
	bufs[LumpNodes] = padTo4(nodeBuf.Bytes())
	bufs[LumpClipNodes] = padTo4(clipBuf.Bytes())
	bufs[LumpLeafs] = padTo4(leafBuf.Bytes())
	bufs[LumpMarkSurfaces] = padTo4(markBuf.Bytes())

	modelBuf := &bytes.Buffer{}
	for _, m := range f.Models {
		binary.Write(modelBuf, binary.LittleEndian, diskModelV29{Mins: m.Mins, Maxs: m.Maxs, Origin: m.Origin, HeadNode: m.HeadNode, VisLeafs: m.VisLeafs, FirstFace: m.FirstFace, NumFaces: m.NumFaces})
	}
	bufs[LumpModels] = padTo4(modelBuf.Bytes())

	headerLen := 4 + int64(lumpCount)*8
	offset := headerLen
	lumps := make([]Lump, lumpCount)
	for i, b := range bufs {
		lumps[i] = Lump{Offset: int32(offset), Length: int32(len(b))}
		offset += int64(len(b))
	}

	switch f.Dialect {
	case gamedef.DialectBSP2:
		w.Write(tagBSP2[:])
	case gamedef.DialectBSP2rmq:
		w.Write(tagBSP2rmq[:])
	default:
		binary.Write(w, binary.LittleEndian, versionV29)
	}
	if err := binary.Write(w, binary.LittleEndian, lumps); err != nil {
		return err
	}
	for _, b := range bufs {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	if len(f.BSPX) > 0 {
		if err := writeBSPX(w, f.BSPX, offset); err != nil {
			return err
		}
	}
	return nil
}

func padTo4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func shortToFloat(v [3]int16) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func writeTextures(textures []MipTexture) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, int32(len(textures)))
	headerSize := 4 + len(textures)*4
	dataOffsets := make([]int32, len(textures))
	entries := &bytes.Buffer{}
	off := headerSize
	for i, t := range textures {
		dataOffsets[i] = int32(off)
		var name [16]byte
		copy(name[:], t.Name)
		binary.Write(entries, binary.LittleEndian, name)
		binary.Write(entries, binary.LittleEndian, t.Width)
		binary.Write(entries, binary.LittleEndian, t.Height)
		binary.Write(entries, binary.LittleEndian, t.Offsets)
		entries.Write(t.Data)
		off += 16 + 4 + 4 + 16 + len(t.Data)
	}
	for _, o := range dataOffsets {
		binary.Write(buf, binary.LittleEndian, o)
	}
	buf.Write(entries.Bytes())
	return buf.Bytes()
}

// writeBSPX appends the auxiliary BSPX directory after the last canonical
// lump, 4-byte aligned. base is the file offset at which the directory
// starts; each entry's offset is an absolute file offset, as readBSPX
// expects. Keys longer than 24 bytes are truncated, matching the classic
// tools' fixed-width lump name field.
func writeBSPX(w io.Writer, lumps map[string][]byte, base int64) error {
	if _, err := w.Write([]byte("BSPX")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(lumps))); err != nil {
		return err
	}
	dirLen := len(lumps) * 32
	offset := int32(base) + int32(4+4+dirLen)
	type entry struct {
		name [24]byte
		lump Lump
	}
	var entries []entry
	var payload bytes.Buffer
	names := make([]string, 0, len(lumps))
	for name := range lumps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data := lumps[name]
		var e entry
		copy(e.name[:], name)
		e.lump = Lump{Offset: offset, Length: int32(len(data))}
		entries = append(entries, e)
		payload.Write(data)
		padded := padTo4(data)
		offset += int32(len(padded))
		if len(padded) > len(data) {
			payload.Write(padded[len(data):])
		}
	}
	for _, e := range entries {
		if _, err := w.Write(e.name[:]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.lump); err != nil {
			return err
		}
	}
	_, err := w.Write(payload.Bytes())
	return err
}
