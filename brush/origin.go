// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package brush

import "github.com/qbsptools/bsptools/internal/gamedef"

// ExtractOrigin removes any CONTENTS_ORIGIN brushes from brushes, returning
// the first one found (its centroid becomes a rotating bmodel's origin,
// via Brush.Centroid) and the remaining brushes.
func ExtractOrigin(brushes []*Brush) (origin *Brush, rest []*Brush) {
	for _, b := range brushes {
		if b.Contents == gamedef.ContentsOrigin && origin == nil {
			origin = b
			continue
		}
		if b.Contents == gamedef.ContentsOrigin {
			continue // extra origin brushes are stripped too, first one wins.
		}
		rest = append(rest, b)
	}
	return origin, rest
}
