// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package bspfile reads and writes the on-disk .bsp lump file formats of
// : id Software's original v29, the BSP2rmq and BSP2 extensions, and (at
// dialect-detection granularity) Quake II's IBSP and Half-Life's
// BSPHLVERSION headers. The struct-per-lump, binary.Read-per-section shape
// follows the classic lump-table layout almost exactly; in-place byte
// order is always little-endian, so "byte-swapping" is just ordinary
// (de)serialization rather than a runtime conversion step.
package bspfile

import "github.com/qbsptools/bsptools/internal/gamedef"

// Dialect-identifying magic/version values.
const (
	versionV29     int32 = 29
	magicBSP2rmq         = "BSP2rmq\x00" // not a real on-disk literal; see Dialect note below.
	magicBSP2            = "BSP2\x00\x00\x00\x00"
	magicIBSP            = "IBSP"
	versionQ2      int32 = 38
	versionHL      int32 = 30
)

// The BSP2/BSP2rmq "version" field is actually a 4-byte ASCII tag instead
// of a small integer, a quirk inherited from the classic tools so that
// naive version-number sniffing fails loudly instead of silently
// misreading geometry. tagBSP2/tagBSP2rmq below are the real byte patterns.
var (
	tagBSP2    = [4]byte{'B', 'S', 'P', '2'}
	tagBSP2rmq = [4]byte{'2', 'P', 'S', 'B'} // BSP2rmq stores the tag reversed, historically "2psb".
)

// LumpID indexes the fixed-order lump directory. Quake-family
// dialects use LumpCountQuake entries; Quake II appends four more.
type LumpID int

const (
	LumpEntities LumpID = iota
	LumpPlanes
	LumpTextures
	LumpVertexes
	LumpVisibility
	LumpNodes
	LumpTexInfo
	LumpFaces
	LumpLighting
	LumpClipNodes
	LumpLeafs
	LumpMarkSurfaces
	LumpEdges
	LumpSurfEdges
	LumpModels
	LumpCountQuake

	LumpBrushes
	LumpBrushSides
	LumpAreas
	LumpAreaPortals
	LumpCountQuake2 = LumpAreaPortals + 1
)

// Lump is one entry of the lump directory: a byte offset and length into
// the file, each lump padded to a 4-byte boundary.
type Lump struct {
	Offset int32
	Length int32
}

// Header is the dialect-agnostic decoded header: the version/tag that
// selected the dialect, plus its lump directory.
type Header struct {
	Dialect gamedef.Dialect
	Lumps   []Lump
}

// dialectLumpCount returns how many directory entries a dialect's header
// carries.
func dialectLumpCount(d gamedef.Dialect) int {
	if d == gamedef.DialectQuake2 {
		return int(LumpCountQuake2)
	}
	return int(LumpCountQuake)
}
