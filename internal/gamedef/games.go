// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package gamedef

import (
	"strings"

	"github.com/qbsptools/bsptools/geom"
)

var quakeContentNames = map[string]Contents{
	"solid":       ContentsSolid,
	"water":       ContentsWater,
	"slime":       ContentsSlime,
	"lava":        ContentsLava,
	"sky":         ContentsSky,
	"detail":      ContentsDetail,
	"detailwall":  ContentsDetail,
	"illusionary": ContentsDetailIllusionary,
	"fence":       ContentsDetailFence,
	"playerclip":  ContentsPlayerClip,
	"monsterclip": ContentsMonsterClip,
	"areaportal":  ContentsAreaPortal,
	"window":      ContentsWindow,
	"mist":        ContentsMist,
	"origin":      ContentsOrigin,
	"clip":        ContentsClip,
}

func lookupContents(name string) (Contents, bool) {
	c, ok := quakeContentNames[strings.ToLower(strings.TrimPrefix(name, "_"))]
	return c, ok
}

// Quake is the original id Software Quake gamedef: v29/BSP2 dialects,
// the point hull plus two player/monster clip hull sizes, palette-indexed
// lightmaps.
var Quake = GameDef{
	Name:           "quake",
	DefaultDialect: DialectQuake,
	Hulls: []HullSize{
		{Name: "point", Min: geom.Vec3{}, Max: geom.Vec3{}},
		{Name: "player", Min: geom.Vec3{X: -16, Y: -16, Z: -24}, Max: geom.Vec3{X: 16, Y: 16, Z: 32}},
		{Name: "crouch", Min: geom.Vec3{X: -32, Y: -32, Z: -24}, Max: geom.Vec3{X: 32, Y: 32, Z: 64}},
	},
	SurfIsLightmapped:  func(flags uint32) bool { return flags&(1<<2 /*SKY*/ |1<<4 /*TURB*/) == 0 },
	ContentsFromString: lookupContents,
	ContentsToNative:   func(c Contents) int32 { return int32(c) },
	ClusterPerArea:     false,
	DetailCreatesCluster: false,
}

// Quake2 adds area/areaportal clustering and a richer surface-flag set.
var Quake2 = GameDef{
	Name:           "quake2",
	DefaultDialect: DialectQuake2,
	Hulls: []HullSize{
		{Name: "point", Min: geom.Vec3{}, Max: geom.Vec3{}},
		{Name: "player", Min: geom.Vec3{X: -16, Y: -16, Z: -24}, Max: geom.Vec3{X: 16, Y: 16, Z: 32}},
		{Name: "crouch", Min: geom.Vec3{X: -16, Y: -16, Z: -24}, Max: geom.Vec3{X: 16, Y: 16, Z: 4}},
	},
	SurfIsLightmapped:  func(flags uint32) bool { return flags&(1<<2|1<<4) == 0 },
	ContentsFromString: lookupContents,
	ContentsToNative:   func(c Contents) int32 { return int32(c) },
	ClusterPerArea:     true,
	DetailCreatesCluster: false,
}

// HalfLife stores RGB lighting natively and uses a single hull set tuned
// for the Half-Life SDK's player/monster bounding boxes.
var HalfLife = GameDef{
	Name:           "halflife",
	DefaultDialect: DialectHalfLife,
	Hulls: []HullSize{
		{Name: "point", Min: geom.Vec3{}, Max: geom.Vec3{}},
		{Name: "player", Min: geom.Vec3{X: -16, Y: -16, Z: -36}, Max: geom.Vec3{X: 16, Y: 16, Z: 36}},
		{Name: "duck", Min: geom.Vec3{X: -16, Y: -16, Z: -18}, Max: geom.Vec3{X: 16, Y: 16, Z: 18}},
		{Name: "small", Min: geom.Vec3{X: -12, Y: -12, Z: -18}, Max: geom.Vec3{X: 12, Y: 12, Z: 18}},
	},
	SurfIsLightmapped:  func(flags uint32) bool { return flags&(1<<2|1<<4) == 0 },
	ContentsFromString: lookupContents,
	ContentsToNative:   func(c Contents) int32 { return int32(c) },
	ClusterPerArea:     false,
	DetailCreatesCluster: false,
}

// Hexen2 reuses the Quake dialect family but with a fourth hull.
var Hexen2 = GameDef{
	Name:           "hexen2",
	DefaultDialect: DialectQuake,
	Hulls: []HullSize{
		{Name: "point", Min: geom.Vec3{}, Max: geom.Vec3{}},
		{Name: "player", Min: geom.Vec3{X: -16, Y: -16, Z: -24}, Max: geom.Vec3{X: 16, Y: 16, Z: 32}},
		{Name: "crouch", Min: geom.Vec3{X: -32, Y: -32, Z: -24}, Max: geom.Vec3{X: 32, Y: 32, Z: 64}},
		{Name: "tiny", Min: geom.Vec3{X: -12, Y: -12, Z: -12}, Max: geom.Vec3{X: 12, Y: 12, Z: 12}},
	},
	SurfIsLightmapped:  func(flags uint32) bool { return flags&(1<<2|1<<4) == 0 },
	ContentsFromString: lookupContents,
	ContentsToNative:   func(c Contents) int32 { return int32(c) },
	ClusterPerArea:     false,
	DetailCreatesCluster: false,
}

// ByName resolves a -convert/-game style CLI string to a GameDef.
func ByName(name string) (GameDef, bool) {
	switch strings.ToLower(name) {
	case "quake", "bsp29", "":
		return Quake, true
	case "quake2", "q2bsp":
		return Quake2, true
	case "halflife", "hl", "hlbsp":
		return HalfLife, true
	case "hexen2":
		return Hexen2, true
	}
	return GameDef{}, false
}
