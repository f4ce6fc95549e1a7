// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package portal

import (
	"bufio"
	"fmt"
	"io"

	"github.com/qbsptools/bsptools/bsptree"
)

// PRTVersion identifies the .prt text format qbsp emits: "PRT1" for
// leaf-granular Quake-family vis, "PRT2" for Quake II's area/cluster form.
const (
	PRTVersion1 = "PRT1"
	PRTVersion2 = "PRT2"
)

// WritePRT writes g as a .prt file: a header line, leaf/portal counts,
// then one line per portal listing its vertex count, the two leaves it
// borders, and its vertices, matching the classic tools' plain-text
// format so an external vis solver can read it unmodified. version is
// written as the header line only: both versions share this PRT1 body
// layout, and g.Clusters is not written.
func WritePRT(w io.Writer, g *Graph, version string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, version)
	fmt.Fprintln(bw, len(g.Leaves))
	fmt.Fprintln(bw, len(g.Portals))

	ordinal := make(map[*bsptree.Node]int, len(g.Leaves))
	for i, l := range g.Leaves {
		ordinal[l] = i
	}

	for _, p := range g.Portals {
		fmt.Fprintf(bw, "%d %d %d", len(p.Winding), ordinal[p.Front], ordinal[p.Back])
		for _, v := range p.Winding {
			fmt.Fprintf(bw, " (%f %f %f)", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
