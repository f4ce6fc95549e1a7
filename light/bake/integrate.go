// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bake

import (
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/light/sample"
	"github.com/qbsptools/bsptools/light/source"
	"github.com/qbsptools/bsptools/rayservice"
)

// Options gathers the per-run tunables's light flags expose.
type Options struct {
	ShadowChannelMask uint32
	Dirt              DirtOptions
	MinLight          float64
	AddMinlight       bool // -addmin: add rather than clamp.
	RangeScale        float64
	Gamma             float64
	SelfShadow        bool // shadowself: don't exclude the face's own bmodel.
}

// DefaultOptions mirrors the classic tools' defaults.
var DefaultOptions = Options{ShadowChannelMask: 0xffffffff, Dirt: DefaultDirt, RangeScale: 1, Gamma: 1}

// Face bundles a luxel grid with the per-luxel geometry integration needs.
type Face struct {
	Grid   *sample.Grid
	Styles *StyleTable
}

// NewFace allocates a style table sized for g.
func NewFace(g *sample.Grid) *Face {
	return &Face{Grid: g, Styles: NewStyleTable(len(g.Luxels))}
}

// IntegrateLight accumulates one Light's contribution into every
// unoccluded, front-facing luxel of f steps 1-4.
func IntegrateLight(f *Face, lt *source.Light, scene *rayservice.BVH, opts Options) {
	for i := range f.Grid.Luxels {
		lx := &f.Grid.Luxels[i]
		if lx.Occluded {
			continue
		}
		toLight := geom.Vec3{}
		toLight.Sub(&lt.Pos, &lx.World)
		d := toLight.Len()
		if d < 1e-6 {
			continue
		}
		l := toLight
		l.Scale(&l, 1/d)

		if l.Dot(&lx.Normal) <= 0 {
			continue // back-face early-out.
		}

		attenuated := lt.Attenuate(d, &l, &lx.Normal)
		if attenuated <= 0 {
			continue
		}

		mask := lt.ChannelMask
		if mask == 0 {
			mask = opts.ShadowChannelMask
		}
		origin := sample.Nudged(lx)
		blocked, tint := scene.Occluded(origin, lt.Pos, mask)
		if blocked {
			continue
		}

		contribution := geom.Vec3{}
		contribution.Scale(&lt.Color, attenuated/255)
		contribution.X *= float64(tint[0])
		contribution.Y *= float64(tint[1])
		contribution.Z *= float64(tint[2])
		f.Styles.Add(lt.Style, i, contribution)
	}
}

// IntegrateSun accumulates a Sun's contribution, occluded by a single long
// ray along -dir.
func IntegrateSun(f *Face, sun *source.Sun, scene *rayservice.BVH, opts Options, worldExtent float64) {
	toLight := geom.Vec3{}
	toLight.Neg(&sun.Dir)
	toLight.Unit()
	for i := range f.Grid.Luxels {
		lx := &f.Grid.Luxels[i]
		if lx.Occluded {
			continue
		}
		if toLight.Dot(&lx.Normal) <= 0 {
			continue
		}
		attenuated := sun.Intensity * angleTermFor(sun.AngleScale, &toLight, &lx.Normal)
		if attenuated <= 0 {
			continue
		}
		origin := sample.Nudged(lx)
		far := geom.Vec3{}
		scaled := toLight
		scaled.Scale(&scaled, worldExtent)
		far.Add(&origin, &scaled)
		blocked, _ := scene.Occluded(origin, far, opts.ShadowChannelMask)
		if blocked {
			continue
		}
		contribution := geom.Vec3{}
		contribution.Scale(&sun.Color, attenuated/255)
		f.Styles.Add(sun.Style, i, contribution)
	}
}

func angleTermFor(anglescale float64, l, n *geom.Vec3) float64 {
	dot := l.Dot(n)
	if dot < 0 {
		dot = 0
	}
	return (1 - anglescale) + anglescale*dot
}

// ApplyDirt multiplies every style's luxel colors by the per-luxel dirt
// factor.
func ApplyDirt(f *Face, factors []float64) {
	for _, b := range f.Styles.bufs {
		for i := range b.color {
			b.color[i].Scale(&b.color[i], factors[i])
		}
	}
}

// ApplyMinlight enforces 's minlight rule on the style-0 buffer only,
// since minlight is an "always on" floor, not a per-style effect.
func ApplyMinlight(f *Face, minlight float64, add bool) {
	floor := geom.Vec3{X: minlight, Y: minlight, Z: minlight}
	b := f.Styles.bufferFor(0)
	for i := range b.color {
		lum := luminance(b.color[i])
		if add {
			b.color[i].Add(&b.color[i], &floor)
			continue
		}
		if lum < minlight {
			b.color[i] = floor
		}
	}
}
