// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package mapfile

import (
	"strings"
	"testing"
)

const cubeMap = `{
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

func TestParseStandardCube(t *testing.T) {
	m, err := Parse(strings.NewReader(cubeMap))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(m.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(m.Entities))
	}
	world := m.Entities[0]
	if world.Classname() != "worldspawn" {
		t.Errorf("expected worldspawn, got %q", world.Classname())
	}
	if len(world.Brush) != 1 {
		t.Fatalf("expected 1 brush, got %d", len(world.Brush))
	}
	if got := len(world.Brush[0].Faces); got != 6 {
		t.Errorf("expected 6 faces on a cube, got %d", got)
	}
	for _, f := range world.Brush[0].Faces {
		if f.Tex.Name != "tech1" {
			t.Errorf("expected texture tech1, got %q", f.Tex.Name)
		}
		if f.Tex.Syntax != SyntaxStandard {
			t.Errorf("expected standard syntax, got %v", f.Tex.Syntax)
		}
	}
}

func TestParseRejectsUnterminatedBrush(t *testing.T) {
	bad := `{
"classname" "worldspawn"
{
( 0 0 0 ) ( 0 64 0 ) ( 64 0 0 ) tech1 0 0 0 1 1
`
	if _, err := Parse(strings.NewReader(bad)); err == nil {
		t.Error("expected an error for an unterminated brush")
	}
}

func TestDecodeDerivesTexInfo(t *testing.T) {
	m, err := Parse(strings.NewReader(cubeMap))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m.Decode()
	for _, f := range m.Entities[0].Brush[0].Faces {
		if f.Info.S == f.Info.T {
			t.Errorf("expected distinct S/T axes, got %v for both", f.Info.S)
		}
	}
}

func TestEntityTextRoundTripsClassname(t *testing.T) {
	m, err := Parse(strings.NewReader(cubeMap))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := m.EntityText()
	if !strings.Contains(out, `"classname" "worldspawn"`) {
		t.Errorf("expected serialized entity text to contain the classname pair, got %q", out)
	}
}

func TestSyntaxString(t *testing.T) {
	cases := map[Syntax]string{
		SyntaxStandard:        "standard",
		SyntaxValve220:        "valve220",
		SyntaxBrushPrimitives: "brushprimitives",
		SyntaxQuArK:           "quark",
	}
	for syn, want := range cases {
		if got := syn.String(); got != want {
			t.Errorf("Syntax(%d).String() = %q, want %q", syn, got, want)
		}
	}
}
