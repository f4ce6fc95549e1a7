// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bake

import (
	"math"

	"github.com/qbsptools/bsptools/geom"
)

// PackLuminance produces the classic paletted .bsp lighting lump: one
// greyscale byte per luxel.
func PackLuminance(colors []geom.Vec3) []byte {
	out := make([]byte, len(colors))
	for i, c := range colors {
		out[i] = byte(clamp255(luminance(c)))
	}
	return out
}

// PackRGB produces 3 bytes/luxel, used both for the native-color Q2/HL
// lighting lump and the .lit v1 sidecar.
func PackRGB(colors []geom.Vec3) []byte {
	out := make([]byte, 0, len(colors)*3)
	for _, c := range colors {
		out = append(out, byte(clamp255(c.X)), byte(clamp255(c.Y)), byte(clamp255(c.Z)))
	}
	return out
}

// PackDirection packs a per-luxel dominant-light direction into the .lux
// sidecar's `(dir+1)*128` byte encoding.
func PackDirection(dirs []geom.Vec3) []byte {
	out := make([]byte, 0, len(dirs)*3)
	enc := func(v float64) byte { return byte(clamp255((v + 1) * 128)) }
	for _, d := range dirs {
		out = append(out, enc(d.X), enc(d.Y), enc(d.Z))
	}
	return out
}

// e5bgr9Max is the largest mantissa-representable value before the shared
// exponent saturates.
const e5bgr9Max = 65408

// PackE5BGR9 encodes colors (0..255 scale, HDR-extended beyond 255 once
// rangescale/gamma are skipped upstream) into the shared-exponent 32-bit
// format used by .lit v2 HDR and the BSPX LIGHTING_E5BGR9 lump: 9 mantissa
// bits per channel, a 5-bit exponent biased at 15.
func PackE5BGR9(colors []geom.Vec3) []uint32 {
	out := make([]uint32, len(colors))
	for i, c := range colors {
		out[i] = encodeE5BGR9(c.X, c.Y, c.Z)
	}
	return out
}

func encodeE5BGR9(r, g, b float64) uint32 {
	clampChan := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > e5bgr9Max {
			return e5bgr9Max
		}
		return v
	}
	r, g, b = clampChan(r), clampChan(g), clampChan(b)

	maxChan := math.Max(r, math.Max(g, b))
	exp := 0
	if maxChan > 0 {
		exp = int(math.Ceil(math.Log2(maxChan))) + 15 // leaves headroom for 9-bit mantissa normalization.
		if exp < 0 {
			exp = 0
		}
		if exp > 31 {
			exp = 31
		}
	}
	scale := math.Pow(2, float64(exp-15-9))
	quant := func(v float64) uint32 {
		q := uint32(math.Round(v / scale))
		if q > 511 {
			q = 511
		}
		return q
	}
	rq, gq, bq := quant(r), quant(g), quant(b)
	// layout: bits[31:27]=exp, [26:18]=b, [17:9]=g, [8:0]=r — matches the
	// teacher-agnostic, standard shared-exponent packing order (blue high,
	// red low) used by the .lit v2/BSPX HDR dialect.
	return uint32(exp)<<27 | bq<<18 | gq<<9 | rq
}
