// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package mapfile

import (
	"io"
	"strings"
	"testing"
)

const refMap = `{
"classname" "worldspawn"
{
( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) tech1 0 0 0 1 1
( 0 0 64 ) ( 64 0 64 ) ( 0 64 64 ) tech1 0 0 0 1 1
( 0 0 0 ) ( 64 0 0 ) ( 0 0 64 ) tech1 0 0 0 1 1
( 0 64 0 ) ( 0 64 64 ) ( 64 64 0 ) tech1 0 0 0 1 1
( 0 0 0 ) ( 0 0 64 ) ( 0 64 0 ) tech1 0 0 0 1 1
( 64 0 0 ) ( 64 64 0 ) ( 64 0 64 ) tech1 0 0 0 1 1
}
}
`

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

func memLoader(files map[string]string) ExternalLoader {
	return func(name string) (io.ReadCloser, error) {
		if !strings.Contains(name, ".") {
			name += ".map" // the same extension rule cmd/qbsp's loader applies.
		}
		s, ok := files[name]
		if !ok {
			return nil, io.ErrUnexpectedEOF
		}
		return nopCloser{strings.NewReader(s)}, nil
	}
}

func TestResolveExternalMapsGraftsBrushesAndRenamesClassname(t *testing.T) {
	src := `{
"classname" "misc_external_map"
"_external_map" "ref"
"origin" "0 0 0"
}
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	load := memLoader(map[string]string{"ref.map": refMap})
	if err := ResolveExternalMaps(m, load, 0); err != nil {
		t.Fatalf("ResolveExternalMaps failed: %v", err)
	}
	if len(m.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(m.Entities))
	}
	ent := m.Entities[0]
	if ent.Classname() != "func_group" {
		t.Errorf("expected classname rewritten to func_group, got %q", ent.Classname())
	}
	if len(ent.Brush) != 1 {
		t.Fatalf("expected the referenced worldspawn's brush grafted in, got %d", len(ent.Brush))
	}
	if len(ent.Brush[0].Faces) != 6 {
		t.Errorf("expected the grafted brush to keep its 6 faces, got %d", len(ent.Brush[0].Faces))
	}
}

func TestResolveExternalMapsAppliesOffset(t *testing.T) {
	src := `{
"classname" "misc_external_map"
"_external_map" "ref"
"_external_map_offset" "100 0 0"
}
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	load := memLoader(map[string]string{"ref.map": refMap})
	if err := ResolveExternalMaps(m, load, 0); err != nil {
		t.Fatalf("ResolveExternalMaps failed: %v", err)
	}
	got := m.Entities[0].Brush[0].Faces[0].P0
	if got.X < 99 || got.X > 101 {
		t.Errorf("expected the grafted brush shifted ~100 units on X, got %v", got)
	}
}

func TestResolveExternalMapsRejectsDeepRecursion(t *testing.T) {
	src := `{
"classname" "misc_external_map"
"_external_map" "self"
}
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	selfRef := `{
"classname" "misc_external_map"
"_external_map" "self"
}
`
	load := memLoader(map[string]string{"self.map": selfRef})
	if err := ResolveExternalMaps(m, load, 0); err == nil {
		t.Error("expected an error for unbounded misc_external_map recursion")
	}
}
