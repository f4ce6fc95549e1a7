// SPDX-FileCopyrightText : © 2014-2022 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package source

import (
	"math"
	"testing"

	"github.com/qbsptools/bsptools/geom"
)

func TestLinearAttenuationZeroAtRange(t *testing.T) {
	lt := Light{Intensity: 200, Formula: FormulaLinear, ScaleDist: 1, Atten: 1, AngleScale: 0}
	n := geom.Vec3{Z: 1}
	l := geom.Vec3{Z: 1}
	got := lt.Attenuate(200, &l, &n)
	if got != 0 {
		t.Errorf("linear(200) at d=200 = %f, want 0", got)
	}
}

func TestInverseSquaredAttenuation(t *testing.T) {
	lt := Light{Intensity: 200, Formula: FormulaInverseSquared, ScaleDist: 128, Atten: 1, AngleScale: 0}
	n := geom.Vec3{Z: 1}
	l := geom.Vec3{Z: 1}
	got := lt.Attenuate(200, &l, &n)
	want := 200.0 * 128 * 128 / (200.0 * 200.0)
	if math.Abs(got-want) > 0.01 {
		t.Errorf("inverse2 = %f, want %f", got, want)
	}
}

func TestSpotConeCutoff(t *testing.T) {
	dir := geom.Vec3{Z: -1}
	cosIn, cosOut := SpotCones(60, 30)
	lt := Light{Intensity: 100, Formula: FormulaInfinite, ScaleDist: 1, Atten: 1, SpotDir: &dir, SpotConeIn: cosIn, SpotConeOut: cosOut}
	n := geom.Vec3{Z: 1}
	// l points from the surface to the light: straight up for a surface
	// lying straight down the spot axis.
	straightDown := geom.Vec3{Z: 1}
	got := lt.Attenuate(10, &straightDown, &n)
	if got <= 0 {
		t.Errorf("expected full intensity straight down the spot axis, got %f", got)
	}
	sideways := geom.Vec3{X: 1}
	got2 := lt.Attenuate(10, &sideways, &n)
	if got2 != 0 {
		t.Errorf("expected zero intensity perpendicular to a narrow spot, got %f", got2)
	}
}

func TestJitterProducesRequestedSampleCount(t *testing.T) {
	lt := Light{Intensity: 100}
	out := Jitter(lt, 8, 4, 0)
	if len(out) != 4 {
		t.Fatalf("expected 4 jittered samples, got %d", len(out))
	}
	sum := 0.0
	for _, j := range out {
		sum += j.Intensity
	}
	if math.Abs(sum-100) > 0.001 {
		t.Errorf("jittered intensities should sum to the original, got %f", sum)
	}
}

func TestJitterDeterministic(t *testing.T) {
	lt := Light{Intensity: 100, Pos: geom.Vec3{X: 1, Y: 2, Z: 3}}
	a := Jitter(lt, 8, 4, 5)
	b := Jitter(lt, 8, 4, 5)
	for i := range a {
		if a[i].Pos != b[i].Pos {
			t.Errorf("jitter sample %d differs between identical runs: %v vs %v", i, a[i].Pos, b[i].Pos)
		}
	}
}

func TestFormulaFromWaitAliases(t *testing.T) {
	f, ok := FormulaFromWait("2")
	if !ok || f != FormulaInverseSquared {
		t.Errorf("wait=2 should resolve to inverse-squared, got %v ok=%v", f, ok)
	}
	if _, ok := FormulaFromWait("bogus"); ok {
		t.Errorf("expected unrecognized formula value to report !ok")
	}
}

func TestEpairsIntensityDefault(t *testing.T) {
	e := NewEpairs(map[string]string{"classname": "light"})
	if e.Intensity() != 300 {
		t.Errorf("default light intensity = %f, want 300", e.Intensity())
	}
}

func TestEpairsDirtOverride(t *testing.T) {
	e := NewEpairs(map[string]string{"_dirt": "-1"})
	if e.Dirt(true) != false {
		t.Errorf("_dirt=-1 should force dirt off regardless of map default")
	}
	e2 := NewEpairs(map[string]string{})
	if e2.Dirt(true) != true {
		t.Errorf("absent _dirt should inherit the map-wide default")
	}
}

func TestEpairsOrigin(t *testing.T) {
	e := NewEpairs(map[string]string{"origin": "32 -64 128"})
	got := e.Origin()
	want := geom.Vec3{X: 32, Y: -64, Z: 128}
	if got != want {
		t.Errorf("Origin() = %v, want %v", got, want)
	}
}

func TestEpairsDirectionStraightUp(t *testing.T) {
	e := NewEpairs(map[string]string{"mangle": "0 -90 0"})
	got := e.Direction()
	if math.Abs(got.Z-1) > 0.01 {
		t.Errorf("mangle pitch=-90 should point straight up (Z near 1), got %v", got)
	}
}

func TestEpairsDirectionDefault(t *testing.T) {
	e := NewEpairs(map[string]string{})
	got := e.Direction()
	if got.Z != -1 {
		t.Errorf("default direction should point straight down, got %v", got)
	}
}

func TestEpairsPhongDefaultOff(t *testing.T) {
	e := NewEpairs(map[string]string{})
	if e.Phong() {
		t.Error("expected phong smoothing to default to off")
	}
	if e.PhongAngle() != 89 {
		t.Errorf("default phong angle = %f, want 89", e.PhongAngle())
	}
}

func TestEpairsPhongEnabled(t *testing.T) {
	e := NewEpairs(map[string]string{"_phong": "1", "_phong_angle": "75"})
	if !e.Phong() {
		t.Error("expected _phong=1 to enable phong smoothing")
	}
	if e.PhongAngle() != 75 {
		t.Errorf("PhongAngle() = %f, want 75", e.PhongAngle())
	}
}
