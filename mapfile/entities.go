// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package mapfile

import (
	"fmt"
	"sort"
	"strings"
)

// EntityText serializes the entity epairs back to the classic brace-and-
// quoted-pair block format the entity lump stores on disk. Brush
// geometry itself lives in the BSP tree by the time this is called, so only
// the key/value pairs are written, one entity per "{ ... }" block.
func (m *Map) EntityText() string {
	var sb strings.Builder
	for _, e := range m.Entities {
		sb.WriteString("{\n")
		keys := make([]string, 0, len(e.Pairs))
		for k := range e.Pairs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\"%s\" \"%s\"\n", k, e.Pairs[k])
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
