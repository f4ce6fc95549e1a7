// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package toolconfig

import "testing"

func TestLoadNilReturnsDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil) returned error: %v", err)
	}
	if cfg.Subdivide != Default().Subdivide {
		t.Errorf("Load(nil) should match Default(), got subdivide=%f", cfg.Subdivide)
	}
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	data := []byte("gamma: 2.2\nthreads: 4\n")
	cfg, err := Load(data)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gamma != 2.2 {
		t.Errorf("gamma override not applied, got %f", cfg.Gamma)
	}
	if cfg.Threads != 4 {
		t.Errorf("threads override not applied, got %d", cfg.Threads)
	}
	if cfg.Subdivide != Default().Subdivide {
		t.Errorf("unspecified field should retain its default, got subdivide=%f", cfg.Subdivide)
	}
}

func TestLoadBSPXLumpsEnablesNamedLumps(t *testing.T) {
	data := []byte("bspx_lumps:\n  - RGBLIGHTING\n  - LMSTYLE16\n")
	cfg, err := Load(data)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.BSPXLumps["RGBLIGHTING"] || !cfg.BSPXLumps["LMSTYLE16"] {
		t.Errorf("expected both named BSPX lumps enabled, got %v", cfg.BSPXLumps)
	}
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	if _, err := Load([]byte("gamma: [unterminated")); err == nil {
		t.Errorf("expected an error for malformed yaml")
	}
}
