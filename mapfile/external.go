// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package mapfile

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/qbsptools/bsptools/geom"
)

// ExternalLoader opens another .map file by name, used to resolve
// misc_external_map entities. cmd/qbsp supplies a filesystem-backed
// implementation; tests can substitute an in-memory one.
type ExternalLoader func(name string) (io.ReadCloser, error)

// ResolveExternalMaps recursively grafts misc_external_map entities'
// brushes into the referencing entity, applying the _external_map_scale /
// _external_map_angle / _external_map_offset epairs: "recursively
// load another .map, apply scale/rotate/translate, then graft its brushes
// into their entity."
func ResolveExternalMaps(m *Map, load ExternalLoader, depth int) error {
	if depth > 8 {
		return fmt.Errorf("misc_external_map recursion too deep (possible cycle)")
	}
	for i := range m.Entities {
		ent := &m.Entities[i]
		if ent.Classname() != "misc_external_map" {
			continue
		}
		name := ent.Pairs["_external_map"]
		if name == "" {
			continue
		}
		rc, err := load(name)
		if err != nil {
			return fmt.Errorf("misc_external_map %q: %w", name, err)
		}
		sub, err := Parse(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("misc_external_map %q: %w", name, err)
		}
		if err := ResolveExternalMaps(sub, load, depth+1); err != nil {
			return err
		}

		scale := parseFloatDefault(ent.Pairs["_external_map_scale"], 1)
		angle := parseFloatDefault(ent.Pairs["_external_map_angle"], 0)
		offset := parseVec3Default(ent.Pairs["_external_map_offset"])

		for _, subEnt := range sub.Entities {
			if subEnt.Classname() == "worldspawn" {
				for _, b := range subEnt.Brush {
					ent.Brush = append(ent.Brush, transformBrush(b, scale, angle, offset))
				}
			}
		}
		// The classname that drives world processing downstream becomes
		// func_group: an external map graft is structural geometry, not a
		// spawnable point entity.
		ent.Pairs["classname"] = "func_group"
	}
	return nil
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseVec3Default(s string) geom.Vec3 {
	var v geom.Vec3
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return v
	}
	v.X, _ = strconv.ParseFloat(fields[0], 64)
	v.Y, _ = strconv.ParseFloat(fields[1], 64)
	v.Z, _ = strconv.ParseFloat(fields[2], 64)
	return v
}

// transformBrush applies a uniform scale, a Z-axis rotation in degrees, and
// a translation to every point of every face in b, using the same
// quaternion-plus-location transform the rest of geom builds on. Texture
// descriptors are left as-is: they are re-derived from the transformed
// points on the next Decode() pass.
func transformBrush(b Brush, scale, angleDeg float64, offset geom.Vec3) Brush {
	out := Brush{MirrorInside: b.MirrorInside, LineNo: b.LineNo}
	xf := geom.NewT().SetVQ(&offset, geom.NewQ().SetAa(0, 0, 1, geom.Rad(angleDeg)))
	xform := func(p geom.Vec3) geom.Vec3 {
		var scaled geom.Vec3
		scaled.Scale(&p, scale)
		return *xf.App(&scaled)
	}
	for _, f := range b.Faces {
		f.P0 = xform(f.P0)
		f.P1 = xform(f.P1)
		f.P2 = xform(f.P2)
		out.Faces = append(out.Faces, f)
	}
	return out
}
