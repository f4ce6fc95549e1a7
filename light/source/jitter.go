// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package source

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
)

// Jitter replaces a light with `deviance > 0` and `samples > 1` by samples
// copies uniformly distributed in a ball of radius deviance, each emitting
// light/samples. seqSeed drives a deterministic,
// non-random sequence so two compiles of the same map produce identical
// jitter positions.
func Jitter(lt Light, deviance float64, samples int, seqSeed int) []Light {
	if deviance <= 0 || samples <= 1 {
		return []Light{lt}
	}
	out := make([]Light, samples)
	for i := 0; i < samples; i++ {
		offset := haltonBallOffset(seqSeed+i, deviance)
		copyLt := lt
		copyLt.Pos.Add(&lt.Pos, &offset)
		copyLt.Intensity = lt.Intensity / float64(samples)
		out[i] = copyLt
	}
	return out
}

// haltonBallOffset derives a deterministic point inside a sphere of radius
// deviance from a low-discrepancy Halton sequence, keyed by index so
// repeated compiles are bit-for-bit identical.
func haltonBallOffset(index int, radius float64) geom.Vec3 {
	u := halton(index+1, 2)
	v := halton(index+1, 3)
	w := halton(index+1, 5)
	theta := 2 * math.Pi * u
	phi := math.Acos(2*v - 1)
	r := radius * math.Cbrt(w)
	return geom.Vec3{
		X: r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Sin(phi) * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}

func halton(index, base int) float64 {
	f, result := 1.0, 0.0
	for index > 0 {
		f /= float64(base)
		result += f * float64(index%base)
		index /= base
	}
	return result
}

// SkyDome distributes iterations²+1 suns evenly over a hemisphere above up
// (the sky's "up" direction, normally +Z), each with an equal share of
// totalIntensity "Sky-dome".
func SkyDome(up geom.Vec3, totalIntensity float64, color geom.Vec3, iterations int, anglescale float64, style int) []Sun {
	count := iterations*iterations + 1
	share := totalIntensity / float64(count)
	suns := make([]Sun, 0, count)
	for i := 0; i < count; i++ {
		dir := hemisphereSample(up, i, count)
		suns = append(suns, Sun{Dir: dir, Intensity: share, Color: color, AngleScale: anglescale, Style: style})
	}
	return suns
}

// hemisphereSample deterministically places sample i of n on the
// hemisphere around up using a Fibonacci-spiral distribution, which gives a
// near-uniform spread without any call to math/rand.
func hemisphereSample(up geom.Vec3, i, n int) geom.Vec3 {
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	y := float64(i) / float64(n)
	radius := math.Sqrt(1 - y*y)
	theta := goldenAngle * float64(i)
	local := geom.Vec3{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: y}

	right, fwd := geom.Vec3{}, geom.Vec3{}
	up.Plane(&right, &fwd)
	dir := geom.Vec3{}
	rx := right
	rx.Scale(&rx, local.X)
	fy := fwd
	fy.Scale(&fy, local.Y)
	uz := up
	uz.Scale(&uz, local.Z)
	dir.Add(&rx, &fy)
	dir.Add(&dir, &uz)
	dir.Unit()
	return dir
}
