// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package mapfile

import "github.com/qbsptools/bsptools/geom"

// Decode derives every face's TexInfo from its raw texture descriptor,
// auto-correcting degenerate projections. It returns one warning
// string per corrected face; callers (cmd/qbsp) are expected to log these
// and continue ("the tool does not fail").
func (m *Map) Decode() (warnings []string) {
	for ei := range m.Entities {
		for bi := range m.Entities[ei].Brush {
			brush := &m.Entities[ei].Brush[bi]
			for fi := range brush.Faces {
				face := &brush.Faces[fi]
				plane := geom.PlaneFromPoints(&face.P0, &face.P1, &face.P2)
				if w := face.Decode(&plane.Normal); w != "" {
					warnings = append(warnings, w)
				}
			}
		}
	}
	return warnings
}

// Plane returns the supporting plane of a face, derived from its three
// defining points and normalized.
func (f *Face) Plane() *geom.Plane {
	return geom.PlaneFromPoints(&f.P0, &f.P1, &f.P2).Fix()
}
