// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package mapfile parses Quake-family .map source files and derives each
// face's texture projection. It follows the classic loader shape: tokenize
// into an intermediate representation, decode that into typed data, and
// hand back a self-contained value with no further dependency on the reader.
package mapfile

import "github.com/qbsptools/bsptools/geom"

// Syntax identifies which of the four texture-projection grammars a face
// was written in.
type Syntax int

const (
	SyntaxStandard Syntax = iota
	SyntaxValve220
	SyntaxBrushPrimitives
	SyntaxQuArK
)

func (s Syntax) String() string {
	switch s {
	case SyntaxValve220:
		return "valve220"
	case SyntaxBrushPrimitives:
		return "brushprimitives"
	case SyntaxQuArK:
		return "quark"
	default:
		return "standard"
	}
}

// TexDef is the raw, as-written texture descriptor for one face, kept
// alongside the derived TexInfo so that round-trip conversion can start from the original numbers instead of
// re-deriving them from a lossy intermediate.
type TexDef struct {
	Syntax Syntax
	Name   string

	// Standard / Valve220 / QuArK shared fields.
	ShiftS, ShiftT   float64
	Rotate           float64
	ScaleS, ScaleT   float64

	// Valve220 explicit axes (xyz + shift packed into the 4th component).
	Valve220S, Valve220T geom.Vec4

	// Brush Primitives 2x3 texture matrix, expressed in the plane's
	// orthonormal basis.
	BPMatrix [2][3]float64

	// Q2/HL surface flags.
	ContentFlags, SurfaceFlags uint32
	Value                      int32
}

// Face is one plane of a brush: the three defining points (kept verbatim
// for round-tripping), the raw texture descriptor, and the TexInfo derived
// from it.
type Face struct {
	P0, P1, P2 geom.Vec3
	Tex        TexDef
	Info       TexInfo
	LineNo     int
}

// Brush is a set of faces whose half-space intersection is convex and
// bounded. mirrorInside mirrors the `_mirrorinside` epair.
type Brush struct {
	Faces        []Face
	MirrorInside bool
	LineNo       int
}

// Entity is a key/value epair map plus the brushes it owns.
type Entity struct {
	Pairs  map[string]string
	Brush  []Brush
	LineNo int
}

// Classname returns the entity's "classname" epair, or "" if absent.
func (e *Entity) Classname() string { return e.Pairs["classname"] }

// Map is the full parsed file: an ordered list of entities, entity 0 being
// worldspawn by convention.
type Map struct {
	Entities []Entity
}
