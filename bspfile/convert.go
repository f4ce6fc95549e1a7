// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bspfile

import "github.com/qbsptools/bsptools/internal/gamedef"

// Convert returns a copy of f re-tagged for dialect d. Since the in-memory
// File already uses the widest field types, conversion is just a dialect
// stamp; Write reports an error at encode time if a narrower dialect can't
// hold the data.
func Convert(f *File, d gamedef.Dialect) *File {
	out := *f
	out.Dialect = d
	return &out
}

// Fits reports whether f's geometry can be represented in dialect d without
// truncation, letting callers choose an upgrade path before calling Write
// rather than discovering the overflow as a write error.
func Fits(f *File, d gamedef.Dialect) bool {
	if wide(d) && wideFaces(d) {
		return true
	}
	if !wide(d) {
		for _, e := range f.Edges {
			if e.V[0] > 0xFFFF || e.V[1] > 0xFFFF {
				return false
			}
		}
	}
	if !wideFaces(d) {
		for _, fc := range f.Faces {
			if fc.PlaneNum > 0xFFFF || fc.NumEdges > 0x7FFF || fc.TexInfo > 0x7FFF {
				return false
			}
		}
	}
	if !wide(d) {
		for _, n := range f.Nodes {
			if n.Children[0] > 0x7FFF || n.Children[1] > 0x7FFF || n.Children[0] < -0x8000 || n.Children[1] < -0x8000 {
				return false
			}
			if n.FirstFace > 0xFFFF || n.NumFaces > 0xFFFF {
				return false
			}
		}
		for _, l := range f.Leafs {
			if l.FirstMarkSurf > 0xFFFF || l.NumMarkSurf > 0xFFFF {
				return false
			}
		}
		for _, m := range f.MarkSurfaces {
			if m > 0x7FFF {
				return false
			}
		}
	}
	return true
}
