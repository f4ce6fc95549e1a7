// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package gamedef replaces the classic tools' gamedef_t inheritance
// hierarchy (Quake / Quake II / Half-Life / Hexen II) with a small
// capability set passed by value: each game is a value implementing one
// interface instead of a subclass overriding virtual methods.
package gamedef

import "github.com/qbsptools/bsptools/geom"

// Contents is the leaf/brush contents bitfield. CSG priority comes from
// Priority(), not from the numeric values; values are
// shared across games, with per-game translation handled by GameDef.
type Contents int32

const (
	ContentsEmpty Contents = 0
	ContentsSolid Contents = 1 << iota
	ContentsWater
	ContentsSlime
	ContentsLava
	ContentsSky
	ContentsDetail
	ContentsDetailIllusionary
	ContentsDetailFence
	ContentsPlayerClip
	ContentsMonsterClip
	ContentsAreaPortal
	ContentsWindow
	ContentsMist
	ContentsOrigin
	ContentsClip // generic clip hull content, hull-only.
)

// IsLiquid reports whether c is one of the liquid contents.
func (c Contents) IsLiquid() bool {
	return c&(ContentsWater|ContentsSlime|ContentsLava) != 0
}

// IsDetail reports whether c carries any of the detail variants.
func (c Contents) IsDetail() bool {
	return c&(ContentsDetail|ContentsDetailIllusionary|ContentsDetailFence) != 0
}

// IsOpaque reports whether a leaf/face of this content type fully blocks
// visibility and light (as opposed to a window/mist/liquid that merely
// tints it).
func (c Contents) IsOpaque() bool {
	return c == ContentsSolid || c == ContentsSky
}

// Priority ranks contents for the CSG subtraction order: higher values
// carve lower ones. Ties fall back to "later brush wins"
// (map order), which is the CSG package's job, not this ranking's.
func (c Contents) Priority() int {
	switch {
	case c&(ContentsSolid|ContentsSky) != 0:
		return 100
	case c&ContentsDetailFence != 0:
		return 90
	case c&ContentsWindow != 0:
		return 85
	case c&ContentsDetail != 0, c&ContentsDetailIllusionary != 0:
		return 80
	case c&ContentsLava != 0:
		return 70
	case c&ContentsSlime != 0:
		return 65
	case c&ContentsWater != 0:
		return 60
	case c&ContentsMist != 0:
		return 50
	case c&(ContentsPlayerClip|ContentsMonsterClip|ContentsClip) != 0:
		return 40
	case c&ContentsAreaPortal != 0:
		return 30
	default:
		return 0
	}
}

// HullSize describes one clip hull's bounding box, used to inflate brushes
// before building that hull's clip tree.
type HullSize struct {
	Name     string
	Min, Max geom.Vec3
}

// MaxHulls bounds the per-model HeadNode array in the on-disk Model lump:
// hull 0 is the point/visible hull, hulls 1-3 are the player/monster
// clip hulls. No supported game uses more than four.
const MaxHulls = 4

// Dialect identifies an on-disk BSP layout.
type Dialect int

const (
	DialectQuake Dialect = iota
	DialectBSP2rmq
	DialectBSP2
	DialectQuake2
	DialectHalfLife
)

// GameDef is the capability set a game contributes to the pipeline: how to
// parse/emit contents strings, what clip hulls it builds, whether its
// surfaces carry lightmaps, and its default palette/dialect. Concrete
// values (Quake, Quake2, HalfLife, Hexen2) are declared in games.go.
type GameDef struct {
	Name             string
	DefaultDialect   Dialect
	Hulls            []HullSize
	SurfIsLightmapped func(flags uint32) bool
	ContentsFromString func(name string) (Contents, bool)
	ContentsToNative   func(Contents) int32
	// ClusterPerArea is true for Q2-style area/areaportal cluster
	// separation; false for Q1-style PVS leaf clustering.
	ClusterPerArea bool
	// DetailCreatesCluster is false in every game defined here but is kept explicit per game
	// since it is a property of the target engine's vis reader, not a
	// universal law.
	DetailCreatesCluster bool
}
