// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package source

import (
	"math"
	"strconv"
	"strings"

	"github.com/qbsptools/bsptools/geom"
)

// Epairs is the typed accessor over an entity's raw key/value map, in
// place of ad hoc map[string]string lookups scattered through the rest of
// the package. It follows a small struct of named fields read once out of
// a generic map: parse once into typed fields, everything after that is a
// plain Go value.
type Epairs struct {
	raw map[string]string
}

// NewEpairs wraps a parsed entity's key/value pairs.
func NewEpairs(raw map[string]string) Epairs { return Epairs{raw: raw} }

func (e Epairs) str(key, def string) string {
	if v, ok := e.raw[key]; ok && v != "" {
		return v
	}
	return def
}

func (e Epairs) float(key string, def float64) float64 {
	v, ok := e.raw[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

func (e Epairs) vec3(key string, def geom.Vec3) geom.Vec3 {
	v, ok := e.raw[key]
	if !ok {
		return def
	}
	fields := strings.Fields(v)
	if len(fields) != 3 {
		return def
	}
	var out geom.Vec3
	var err error
	if out.X, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return def
	}
	if out.Y, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return def
	}
	if out.Z, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return def
	}
	return out
}

// Intensity resolves the "light" epair, with "_light" accepted as an alias.
// A light entity with neither key set defaults to 300, the classic tools'
// built-in default.
func (e Epairs) Intensity() float64 {
	if v := e.str("light", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return e.float("_light", 300)
}

// Formula resolves the "wait"/"delay" aliased formula epairs: "delay" is
// the original key name, "wait" is the compatibility alias some editors
// still emit, and "_wait" is the underscore-prefixed Valve convention.
func (e Epairs) Formula() (Formula, bool) {
	for _, key := range []string{"delay", "wait", "_wait"} {
		if v, ok := e.raw[key]; ok {
			return FormulaFromWait(v)
		}
	}
	return FormulaLinear, true
}

// AngleScale resolves "_anglescale", defaulting to 0.5.
func (e Epairs) AngleScale() float64 { return e.float("_anglescale", 0.5) }

// Dirt resolves "_dirt": -1 forces dirt off for this entity, 1 forces it
// on, 0/absent inherits the map-wide -dirt flag (represented here by def).
func (e Epairs) Dirt(def bool) bool {
	v := e.float("_dirt", 0)
	switch {
	case v < 0:
		return false
	case v > 0:
		return true
	default:
		return def
	}
}

// MinLight resolves "_minlight", a per-entity override of the worldspawn-
// wide minlight value.
func (e Epairs) MinLight(def float64) float64 { return e.float("_minlight", def) }

// Phong resolves the "_phong" epair: nonzero enables vertex-normal
// smoothing across this entity's faces, defaulting to off.
func (e Epairs) Phong() bool { return e.float("_phong", 0) != 0 }

// PhongAngle resolves "_phong_angle", the maximum dihedral angle in
// degrees across which normals are smoothed, defaulting to 89.
func (e Epairs) PhongAngle() float64 { return e.float("_phong_angle", 89) }

// Color resolves the "_color" epair (0..255 per channel), defaulting to
// white.
func (e Epairs) Color() geom.Vec3 {
	return e.vec3("_color", geom.Vec3{X: 255, Y: 255, Z: 255})
}

// Deviance and Samples resolve the jitter epairs.
func (e Epairs) Deviance() float64 { return e.float("_deviance", 0) }
func (e Epairs) Samples() int      { return int(e.float("_samples", 1)) }

// Origin resolves the "origin" epair giving a point entity's world
// position, defaulting to the map origin for entities that omit it.
func (e Epairs) Origin() geom.Vec3 { return e.vec3("origin", geom.Vec3{}) }

// Direction resolves a light_environment's ray direction from "mangle"
// (the classic Quake "yaw pitch roll" convention, pitch positive meaning
// downward) or "angles" (Valve's "pitch yaw roll" order), defaulting to
// straight down when neither is present.
func (e Epairs) Direction() geom.Vec3 {
	if v, ok := e.raw["mangle"]; ok {
		if yaw, pitch, ok := parseAngleTriple(v, 0, 1); ok {
			return angleVector(yaw, pitch)
		}
	}
	if v, ok := e.raw["angles"]; ok {
		if yaw, pitch, ok := parseAngleTriple(v, 1, 0); ok {
			return angleVector(yaw, pitch)
		}
	}
	return geom.Vec3{Z: -1}
}

// parseAngleTriple splits a "a b c" epair into (yaw, pitch) using the given
// field indices, since "mangle" and "angles" order the three components
// differently.
func parseAngleTriple(v string, yawIdx, pitchIdx int) (yaw, pitch float64, ok bool) {
	fields := strings.Fields(v)
	if len(fields) != 3 {
		return 0, 0, false
	}
	yaw, err1 := strconv.ParseFloat(fields[yawIdx], 64)
	pitch, err2 := strconv.ParseFloat(fields[pitchIdx], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return yaw, pitch, true
}

// angleVector converts a yaw/pitch pair (degrees, pitch positive = down)
// into a unit direction vector.
func angleVector(yaw, pitch float64) geom.Vec3 {
	yr, pr := geom.Rad(yaw), geom.Rad(pitch)
	cp := math.Cos(pr)
	return geom.Vec3{
		X: cp * math.Cos(yr),
		Y: cp * math.Sin(yr),
		Z: -math.Sin(pr),
	}
}
